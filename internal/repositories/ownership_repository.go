package repositories

import (
	stderrors "errors"

	"github.com/mroshb/gamevault/internal/models"
	"github.com/mroshb/gamevault/pkg/errors"
	"gorm.io/gorm"
)

type OwnershipRepository struct {
	db *gorm.DB
}

func NewOwnershipRepository(db *gorm.DB) *OwnershipRepository {
	return &OwnershipRepository{db: db}
}

func (r *OwnershipRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Exists checks if the user already owns the game
func (r *OwnershipRepository) Exists(tx *gorm.DB, userID, gameID uint) (bool, error) {
	var count int64
	result := r.conn(tx).Model(&models.UserGame{}).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Count(&count)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check ownership")
	}
	return count > 0, nil
}

// ExistsByGame checks if any user owns the game
func (r *OwnershipRepository) ExistsByGame(gameID uint) (bool, error) {
	var count int64
	result := r.db.Model(&models.UserGame{}).Where("game_id = ?", gameID).Count(&count)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check ownership")
	}
	return count > 0, nil
}

// Create inserts a purchase record. The unique (user, game) index is the
// last line of defense against concurrent duplicate purchases; its
// violation surfaces as Conflict.
func (r *OwnershipRepository) Create(tx *gorm.DB, record *models.UserGame) error {
	if err := r.conn(tx).Create(record).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.New(errors.ErrCodeConflict, "game already owned")
		}
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create purchase record")
	}
	return nil
}

// ListByUser retrieves a user's purchase history with games preloaded
func (r *OwnershipRepository) ListByUser(userID uint) ([]models.UserGame, error) {
	var records []models.UserGame
	result := r.db.Preload("Game").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list purchases")
	}
	return records, nil
}
