package services

import (
	"fmt"
	"time"

	"github.com/mroshb/gamevault/internal/models"
	"github.com/mroshb/gamevault/pkg/errors"
	"gorm.io/gorm"
)

// EntitlementService decides whether a user may access a game and
// executes the purchase transition.
type EntitlementService struct {
	db       TxRunner
	users    AccountLedger
	games    CatalogStore
	owned    OwnershipStore
	gameCost int64
}

func NewEntitlementService(db TxRunner, users AccountLedger, games CatalogStore, owned OwnershipStore, gameCost int64) *EntitlementService {
	return &EntitlementService{
		db:       db,
		users:    users,
		games:    games,
		owned:    owned,
		gameCost: gameCost,
	}
}

// AccessDecision is the outcome of a read-only access check. When Granted
// the full game record and current balance come back; otherwise only the
// price quote does.
type AccessDecision struct {
	Granted         bool
	Game            *models.Game
	RemainingPoints int64
	RequiredPoints  int64
}

// PurchaseResult carries the unlocked game and the balance after charge.
type PurchaseResult struct {
	Game            *models.Game
	RemainingPoints int64
}

// CheckAccess grants when the user's VIP window is active or a purchase
// record exists. It never mutates anything: VIP and prior buyers read for
// free, everyone else is quoted the price.
func (s *EntitlementService) CheckAccess(userID, gameID uint, now time.Time) (*AccessDecision, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	game, err := s.games.GetByID(nil, gameID)
	if err != nil {
		return nil, err
	}

	if user.IsVip(now) {
		return &AccessDecision{Granted: true, Game: game, RemainingPoints: user.Points}, nil
	}

	owns, err := s.owned.Exists(nil, userID, gameID)
	if err != nil {
		return nil, err
	}
	if owns {
		return &AccessDecision{Granted: true, Game: game, RemainingPoints: user.Points}, nil
	}

	return &AccessDecision{Granted: false, RequiredPoints: s.gameCost}, nil
}

// Purchase unlocks a game for the user in a single transaction: VIP users
// skip the charge, everyone else is debited the game cost. A failed debit
// leaves no purchase record, and concurrent attempts for the same pair
// resolve to exactly one record and at most one charge.
func (s *EntitlementService) Purchase(userID, gameID uint, now time.Time) (*PurchaseResult, error) {
	var result *PurchaseResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		game, err := s.games.GetByID(tx, gameID)
		if err != nil {
			return err
		}

		// Lock serializes purchases and balance changes for this user
		user, err := s.users.GetForUpdate(tx, userID)
		if err != nil {
			return err
		}

		owns, err := s.owned.Exists(tx, userID, gameID)
		if err != nil {
			return err
		}
		if owns {
			return errors.New(errors.ErrCodeConflict, "game already owned")
		}

		remaining := user.Points
		if !user.IsVip(now) {
			remaining, err = s.users.Debit(tx, userID, s.gameCost, models.TxTypePurchase,
				fmt.Sprintf("purchase of game %d", gameID))
			if err != nil {
				return err
			}
		}

		record := &models.UserGame{UserID: userID, GameID: gameID, CreatedAt: now}
		if err := s.owned.Create(tx, record); err != nil {
			return err
		}

		result = &PurchaseResult{Game: game, RemainingPoints: remaining}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
