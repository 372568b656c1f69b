package services

import (
	"database/sql"
	"time"

	"github.com/mroshb/gamevault/internal/models"
	"github.com/mroshb/gamevault/internal/repositories"
	"gorm.io/gorm"
)

// TxRunner begins a transaction and runs fc inside it. *gorm.DB satisfies
// this; tests substitute an in-memory runner.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// AccountLedger is the balance and VIP-window surface of the user store.
// Credit, Debit and ExtendVip must be called inside a caller-owned
// transaction; the row lock they take serializes per-user mutations.
type AccountLedger interface {
	GetByID(userID uint) (*models.User, error)
	GetForUpdate(tx *gorm.DB, userID uint) (*models.User, error)
	Credit(tx *gorm.DB, userID uint, amount int64, txType, description string) (int64, error)
	Debit(tx *gorm.DB, userID uint, amount int64, txType, description string) (int64, error)
	ExtendVip(tx *gorm.DB, userID uint, days int, now time.Time) (time.Time, error)
}

// UserStore extends the account ledger with identity operations.
type UserStore interface {
	AccountLedger
	CreateUser(tx *gorm.DB, user *models.User) error
	GetByUsername(username string) (*models.User, error)
	UsernameExists(username string) (bool, error)
	UpdateLastLogin(userID uint) error
	UpdatePassword(userID uint, hashedPassword string) error
	ListAll() ([]models.User, error)
	Update(userID uint, updates *repositories.UserUpdate) (*models.User, error)
	Delete(userID uint) error
}

// CodeLedger tracks single-use redemption codes.
type CodeLedger interface {
	ExistsByCode(code string) (bool, error)
	CreateBatch(codes []models.RedeemCode) ([]models.RedeemCode, error)
	Claim(tx *gorm.DB, kind, code string, userID uint, now time.Time) (*models.RedeemCode, error)
	ReplaceAll(kind string, codes []models.RedeemCode) (int, error)
}

// CatalogStore is the set of unlockable games.
type CatalogStore interface {
	GetByID(tx *gorm.DB, id uint) (*models.Game, error)
	GetByName(tx *gorm.DB, name string) (*models.Game, error)
	Create(tx *gorm.DB, game *models.Game) error
	Save(tx *gorm.DB, game *models.Game) error
	ListAll() ([]models.Game, error)
	DeleteAllUnowned(tx *gorm.DB) ([]models.Game, error)
}

// OwnershipStore tracks purchase records.
type OwnershipStore interface {
	Exists(tx *gorm.DB, userID, gameID uint) (bool, error)
	ExistsByGame(gameID uint) (bool, error)
	Create(tx *gorm.DB, record *models.UserGame) error
}
