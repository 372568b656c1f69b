package services

import (
	"time"

	"github.com/mroshb/gamevault/internal/models"
	"github.com/mroshb/gamevault/internal/repositories"
	"github.com/mroshb/gamevault/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles registration, authentication and account
// administration.
type UserService struct {
	db            TxRunner
	users         UserStore
	defaultPoints int64
}

func NewUserService(db TxRunner, users UserStore, defaultPoints int64) *UserService {
	return &UserService{
		db:            db,
		users:         users,
		defaultPoints: defaultPoints,
	}
}

// Register creates a new account. The welcome bonus, when configured,
// lands in the same transaction as the user row.
func (s *UserService) Register(username, password, securityQuestion, securityAnswer string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, errors.New(errors.ErrCodeValidation, "username and password are required")
	}
	if securityQuestion == "" || securityAnswer == "" {
		return nil, errors.New(errors.ErrCodeValidation, "security question and answer are required")
	}

	taken, err := s.users.UsernameExists(username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.New(errors.ErrCodeConflict, "username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to hash password")
	}

	user := &models.User{
		Username:         username,
		HashedPassword:   string(hash),
		SecurityQuestion: securityQuestion,
		SecurityAnswer:   securityAnswer,
		IsActive:         true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.users.CreateUser(tx, user); err != nil {
			return err
		}
		if s.defaultPoints > 0 {
			balance, err := s.users.Credit(tx, user.ID, s.defaultPoints, models.TxTypeWelcomeBonus, "welcome bonus")
			if err != nil {
				return err
			}
			user.Points = balance
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies the credentials and updates the login timestamp.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			return nil, errors.New(errors.ErrCodeUnauthorized, "invalid username or password")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, errors.New(errors.ErrCodeForbidden, "account is disabled")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, errors.New(errors.ErrCodeUnauthorized, "invalid username or password")
	}

	if err := s.users.UpdateLastLogin(user.ID); err != nil {
		return nil, err
	}

	return user, nil
}

// GetProfile retrieves a user by id
func (s *UserService) GetProfile(userID uint) (*models.User, error) {
	return s.users.GetByID(userID)
}

// GetSecurityQuestion returns the recovery question for a username
func (s *UserService) GetSecurityQuestion(username string) (string, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		return "", err
	}
	return user.SecurityQuestion, nil
}

// ResetPassword replaces the password after verifying the security answer
func (s *UserService) ResetPassword(username, securityAnswer, newPassword string) error {
	if newPassword == "" {
		return errors.New(errors.ErrCodeValidation, "new password is required")
	}

	user, err := s.users.GetByUsername(username)
	if err != nil {
		return err
	}

	if user.SecurityAnswer != securityAnswer {
		return errors.New(errors.ErrCodeUnauthorized, "incorrect security answer")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to hash password")
	}

	return s.users.UpdatePassword(user.ID, string(hash))
}

// ListUsers retrieves all users (admin)
func (s *UserService) ListUsers() ([]models.User, error) {
	return s.users.ListAll()
}

// GetUser retrieves a single user (admin)
func (s *UserService) GetUser(userID uint) (*models.User, error) {
	return s.users.GetByID(userID)
}

// AdminUserUpdate carries the admin-editable user fields; nil fields stay
// untouched. A plain password comes in and leaves as a hash.
type AdminUserUpdate struct {
	Username    *string
	Password    *string
	Points      *int64
	VipExpireAt *time.Time
	IsAdmin     *bool
	IsActive    *bool
}

// UpdateUser applies the provided non-nil fields (admin)
func (s *UserService) UpdateUser(userID uint, updates *AdminUserUpdate) (*models.User, error) {
	repoUpdates := &repositories.UserUpdate{
		Username:    updates.Username,
		Points:      updates.Points,
		VipExpireAt: updates.VipExpireAt,
		IsAdmin:     updates.IsAdmin,
		IsActive:    updates.IsActive,
	}

	if updates.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*updates.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to hash password")
		}
		hashed := string(hash)
		repoUpdates.HashedPassword = &hashed
	}

	return s.users.Update(userID, repoUpdates)
}

// DeleteUser removes a user (admin)
func (s *UserService) DeleteUser(userID uint) error {
	return s.users.Delete(userID)
}

// AdjustPoints credits or debits a user's balance by delta (admin).
// Returns the new balance.
func (s *UserService) AdjustPoints(userID uint, delta int64, description string) (int64, error) {
	if delta == 0 {
		return 0, errors.New(errors.ErrCodeValidation, "delta must not be zero")
	}

	var balance int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if delta > 0 {
			balance, err = s.users.Credit(tx, userID, delta, models.TxTypeAdminAdjustment, description)
		} else {
			balance, err = s.users.Debit(tx, userID, -delta, models.TxTypeAdminAdjustment, description)
		}
		return err
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}
