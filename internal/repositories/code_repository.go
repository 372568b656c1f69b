package repositories

import (
	"time"

	"github.com/mroshb/gamevault/internal/models"
	"github.com/mroshb/gamevault/pkg/errors"
	"gorm.io/gorm"
)

type CodeRepository struct {
	db *gorm.DB
}

func NewCodeRepository(db *gorm.DB) *CodeRepository {
	return &CodeRepository{db: db}
}

func (r *CodeRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// ExistsByCode checks if a code string is already issued
func (r *CodeRepository) ExistsByCode(code string) (bool, error) {
	var count int64
	result := r.db.Model(&models.RedeemCode{}).Where("code = ?", code).Count(&count)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check code existence")
	}
	return count > 0, nil
}

// CreateBatch inserts freshly generated codes
func (r *CodeRepository) CreateBatch(codes []models.RedeemCode) ([]models.RedeemCode, error) {
	if len(codes) == 0 {
		return codes, nil
	}
	if err := r.db.Create(&codes).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create codes")
	}
	return codes, nil
}

// Claim atomically marks an unused code as used by the given user and
// returns its effect payload. The conditional update is the concurrency
// guard: of N concurrent claims for the same code exactly one observes
// used=false, the rest get InvalidState.
func (r *CodeRepository) Claim(tx *gorm.DB, kind, code string, userID uint, now time.Time) (*models.RedeemCode, error) {
	db := r.conn(tx)

	result := db.Model(&models.RedeemCode{}).
		Where("code = ? AND kind = ? AND used = false", code, kind).
		Updates(map[string]interface{}{
			"used":    true,
			"used_by": userID,
			"used_at": now,
		})
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to claim code")
	}
	if result.RowsAffected == 0 {
		return nil, errors.New(errors.ErrCodeInvalidState, "invalid or already used code")
	}

	var claimed models.RedeemCode
	if err := db.Where("code = ? AND kind = ?", code, kind).First(&claimed).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load claimed code")
	}
	return &claimed, nil
}

// ReplaceAll deletes every code of a kind and inserts the new set.
// Destructive, no undo.
func (r *CodeRepository) ReplaceAll(kind string, codes []models.RedeemCode) (int, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("kind = ?", kind).Delete(&models.RedeemCode{}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete existing codes")
		}
		if len(codes) == 0 {
			return nil
		}
		if err := tx.Create(&codes).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to insert replacement codes")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(codes), nil
}

// ListByKind retrieves all codes of a kind
func (r *CodeRepository) ListByKind(kind string) ([]models.RedeemCode, error) {
	var codes []models.RedeemCode
	result := r.db.Where("kind = ?", kind).Order("id").Find(&codes)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list codes")
	}
	return codes, nil
}

// ListUsedBy retrieves codes of a kind claimed by a user, newest claim first
func (r *CodeRepository) ListUsedBy(kind string, userID uint) ([]models.RedeemCode, error) {
	var codes []models.RedeemCode
	result := r.db.Where("kind = ? AND used_by = ?", kind, userID).
		Order("used_at DESC").
		Find(&codes)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list claimed codes")
	}
	return codes, nil
}

// GetByID retrieves a code by row id
func (r *CodeRepository) GetByID(id uint) (*models.RedeemCode, error) {
	var code models.RedeemCode
	result := r.db.First(&code, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "code not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get code")
	}

	return &code, nil
}

// CodeUpdate carries the admin-editable fields; nil fields stay untouched.
type CodeUpdate struct {
	ValidDays *int
	Points    *int64
}

// Update applies the provided non-nil fields to a code
func (r *CodeRepository) Update(id uint, updates *CodeUpdate) (*models.RedeemCode, error) {
	code, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if updates.ValidDays != nil {
		fields["valid_days"] = *updates.ValidDays
	}
	if updates.Points != nil {
		fields["points"] = *updates.Points
	}
	if len(fields) == 0 {
		return code, nil
	}

	if err := r.db.Model(code).Updates(fields).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to update code")
	}
	return code, nil
}

// Delete removes a code by row id
func (r *CodeRepository) Delete(id uint) error {
	result := r.db.Delete(&models.RedeemCode{}, id)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete code")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "code not found")
	}
	return nil
}
