package services

import (
	"fmt"
	"time"

	"github.com/mroshb/gamevault/internal/models"
	"gorm.io/gorm"
)

// RedemptionService executes code-claim transitions. Claim and effect run
// in one transaction, so a claimed-but-unapplied code can never be
// observed: if the effect fails the claim rolls back with it.
type RedemptionService struct {
	db    TxRunner
	users AccountLedger
	codes CodeLedger
}

func NewRedemptionService(db TxRunner, users AccountLedger, codes CodeLedger) *RedemptionService {
	return &RedemptionService{
		db:    db,
		users: users,
		codes: codes,
	}
}

// RedeemVip claims a VIP code and extends the user's VIP window,
// returning the new expiry.
func (s *RedemptionService) RedeemVip(userID uint, code string, now time.Time) (time.Time, error) {
	var newExpiry time.Time

	err := s.db.Transaction(func(tx *gorm.DB) error {
		claimed, err := s.codes.Claim(tx, models.CodeKindVip, code, userID, now)
		if err != nil {
			return err
		}

		newExpiry, err = s.users.ExtendVip(tx, userID, claimed.ValidDays, now)
		return err
	})
	if err != nil {
		return time.Time{}, err
	}

	return newExpiry, nil
}

// RedeemPayment claims a payment code and credits its points, returning
// the new balance.
func (s *RedemptionService) RedeemPayment(userID uint, code string, now time.Time) (int64, error) {
	var newBalance int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		claimed, err := s.codes.Claim(tx, models.CodeKindPayment, code, userID, now)
		if err != nil {
			return err
		}

		newBalance, err = s.users.Credit(tx, userID, claimed.Points, models.TxTypeRedeemPayment,
			fmt.Sprintf("payment code %s", claimed.Code))
		return err
	})
	if err != nil {
		return 0, err
	}

	return newBalance, nil
}

// RedeemAtRegistration applies a VIP code supplied during signup. It is
// the same transition as RedeemVip, kept separate so a caller can treat
// its failure independently of the account creation that preceded it.
func (s *RedemptionService) RedeemAtRegistration(userID uint, code string, now time.Time) (time.Time, error) {
	return s.RedeemVip(userID, code, now)
}
