package repositories

import (
	"fmt"
	"time"

	"github.com/mroshb/gamevault/internal/models"
	"github.com/mroshb/gamevault/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(tx *gorm.DB, user *models.User) error {
	result := r.conn(tx).Create(user)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(userID uint) (*models.User, error) {
	var user models.User
	result := r.db.First(&user, userID)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	result := r.db.Where("username = ?", username).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// UsernameExists checks if a username is taken
func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	result := r.db.Model(&models.User{}).Where("username = ?", username).Count(&count)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check username")
	}
	return count > 0, nil
}

// GetForUpdate locks the user row for the duration of the caller's
// transaction. Serializes concurrent balance and purchase operations
// on the same user.
func (r *UserRepository) GetForUpdate(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := r.conn(tx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.ErrCodeNotFound, "user not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get user")
	}
	return &user, nil
}

// Credit adds points to a user's balance with transaction logging.
// Must be called inside a caller-owned transaction.
func (r *UserRepository) Credit(tx *gorm.DB, userID uint, amount int64, txType, description string) (int64, error) {
	user, err := r.GetForUpdate(tx, userID)
	if err != nil {
		return 0, err
	}

	newBalance := user.Points + amount
	if err := tx.Model(user).Update("points", newBalance).Error; err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to update balance")
	}

	record := &models.PointTransaction{
		UserID:          userID,
		Amount:          amount,
		TransactionType: txType,
		Description:     description,
	}
	if err := tx.Create(record).Error; err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create transaction record")
	}

	return newBalance, nil
}

// Debit subtracts points from a user's balance with transaction logging.
// The balance check happens under the row lock, so concurrent debits can
// never overdraw. Must be called inside a caller-owned transaction.
func (r *UserRepository) Debit(tx *gorm.DB, userID uint, amount int64, txType, description string) (int64, error) {
	user, err := r.GetForUpdate(tx, userID)
	if err != nil {
		return 0, err
	}

	if user.Points < amount {
		return 0, errors.New(errors.ErrCodeInsufficientPoints,
			fmt.Sprintf("insufficient points: have %d, need %d", user.Points, amount))
	}

	newBalance := user.Points - amount
	if err := tx.Model(user).Update("points", newBalance).Error; err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to update balance")
	}

	record := &models.PointTransaction{
		UserID:          userID,
		Amount:          -amount,
		TransactionType: txType,
		Description:     description,
	}
	if err := tx.Create(record).Error; err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create transaction record")
	}

	return newBalance, nil
}

// ExtendVip stacks valid days onto the user's VIP window. An expired or
// absent window restarts from now; an active one keeps its remaining time.
// Must be called inside a caller-owned transaction.
func (r *UserRepository) ExtendVip(tx *gorm.DB, userID uint, days int, now time.Time) (time.Time, error) {
	user, err := r.GetForUpdate(tx, userID)
	if err != nil {
		return time.Time{}, err
	}

	newExpiry := models.NextVipExpiry(user.VipExpireAt, days, now)

	if err := tx.Model(user).Update("vip_expire_at", newExpiry).Error; err != nil {
		return time.Time{}, errors.Wrap(err, errors.ErrCodeInternalError, "failed to update vip expiry")
	}

	return newExpiry, nil
}

// UpdateLastLogin updates user's last login timestamp
func (r *UserRepository) UpdateLastLogin(userID uint) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("last_login_at", gorm.Expr("CURRENT_TIMESTAMP"))
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update last login")
	}
	return nil
}

// ListAll retrieves all users
func (r *UserRepository) ListAll() ([]models.User, error) {
	var users []models.User
	result := r.db.Order("id").Find(&users)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list users")
	}
	return users, nil
}

// UserUpdate carries admin-editable fields; nil fields stay untouched.
type UserUpdate struct {
	Username       *string
	HashedPassword *string
	Points         *int64
	VipExpireAt    *time.Time
	IsAdmin        *bool
	IsActive       *bool
}

// Update applies the provided non-nil fields to a user
func (r *UserRepository) Update(userID uint, updates *UserUpdate) (*models.User, error) {
	user, err := r.GetByID(userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if updates.Username != nil {
		fields["username"] = *updates.Username
	}
	if updates.HashedPassword != nil {
		fields["hashed_password"] = *updates.HashedPassword
	}
	if updates.Points != nil {
		fields["points"] = *updates.Points
	}
	if updates.VipExpireAt != nil {
		fields["vip_expire_at"] = *updates.VipExpireAt
	}
	if updates.IsAdmin != nil {
		fields["is_admin"] = *updates.IsAdmin
	}
	if updates.IsActive != nil {
		fields["is_active"] = *updates.IsActive
	}
	if len(fields) == 0 {
		return user, nil
	}

	if err := r.db.Model(user).Updates(fields).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to update user")
	}
	return user, nil
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(userID uint, hashedPassword string) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("hashed_password", hashedPassword)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update password")
	}
	return nil
}

// Delete removes a user
func (r *UserRepository) Delete(userID uint) error {
	result := r.db.Delete(&models.User{}, userID)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	return nil
}

// GetTransactionHistory retrieves a user's point transaction history
func (r *UserRepository) GetTransactionHistory(userID uint, limit int) ([]models.PointTransaction, error) {
	var transactions []models.PointTransaction
	result := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get transaction history")
	}

	return transactions, nil
}
