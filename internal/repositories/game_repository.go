package repositories

import (
	"strings"

	"github.com/mroshb/gamevault/internal/models"
	"github.com/mroshb/gamevault/pkg/errors"
	"github.com/mroshb/gamevault/pkg/logger"
	"gorm.io/gorm"
)

type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// GetByID retrieves a game by ID
func (r *GameRepository) GetByID(tx *gorm.DB, id uint) (*models.Game, error) {
	var game models.Game
	result := r.conn(tx).First(&game, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "game not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get game")
	}

	return &game, nil
}

// GetByName retrieves a game by its unique name
func (r *GameRepository) GetByName(tx *gorm.DB, name string) (*models.Game, error) {
	var game models.Game
	result := r.conn(tx).Where("game_name = ?", name).First(&game)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "game not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get game")
	}

	return &game, nil
}

// Search finds games whose name contains the keyword, case-insensitive.
// An empty keyword returns the full catalog. Results are ordered by id.
func (r *GameRepository) Search(keyword string) ([]models.Game, error) {
	var games []models.Game
	query := r.db.Order("id")
	if keyword != "" {
		query = query.Where("LOWER(game_name) LIKE ?", "%"+strings.ToLower(keyword)+"%")
	}
	if err := query.Find(&games).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to search games")
	}
	return games, nil
}

// ListAll retrieves the full catalog
func (r *GameRepository) ListAll() ([]models.Game, error) {
	var games []models.Game
	result := r.db.Order("id").Find(&games)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list games")
	}
	return games, nil
}

// Create inserts a new game
func (r *GameRepository) Create(tx *gorm.DB, game *models.Game) error {
	if err := r.conn(tx).Create(game).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create game")
	}
	return nil
}

// Save persists all fields of an existing game
func (r *GameRepository) Save(tx *gorm.DB, game *models.Game) error {
	if err := r.conn(tx).Save(game).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save game")
	}
	return nil
}

// GameUpdate carries admin-editable fields; nil fields stay untouched.
type GameUpdate struct {
	GameName        *string
	GameType        *string
	DownloadURL     *string
	Password        *string
	ExtractPassword *string
	Note            *string
}

// Update applies the provided non-nil fields to a game
func (r *GameRepository) Update(id uint, updates *GameUpdate) (*models.Game, error) {
	game, err := r.GetByID(nil, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if updates.GameName != nil {
		fields["game_name"] = *updates.GameName
	}
	if updates.GameType != nil {
		fields["game_type"] = *updates.GameType
	}
	if updates.DownloadURL != nil {
		fields["download_url"] = *updates.DownloadURL
	}
	if updates.Password != nil {
		fields["password"] = *updates.Password
	}
	if updates.ExtractPassword != nil {
		fields["extract_password"] = *updates.ExtractPassword
	}
	if updates.Note != nil {
		fields["note"] = *updates.Note
	}
	if len(fields) == 0 {
		return game, nil
	}

	if err := r.db.Model(game).Updates(fields).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to update game")
	}
	return game, nil
}

// Delete removes a game unless a purchase record references it
func (r *GameRepository) Delete(tx *gorm.DB, id uint) error {
	db := r.conn(tx)

	game, err := r.GetByID(tx, id)
	if err != nil {
		return err
	}

	var owned int64
	if err := db.Model(&models.UserGame{}).Where("game_id = ?", id).Count(&owned).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to check purchase records")
	}
	if owned > 0 {
		return errors.New(errors.ErrCodeConflict, "game has purchase records and cannot be deleted")
	}

	if err := db.Delete(game).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete game")
	}
	return nil
}

// DeleteAllUnowned removes every game without a purchase record and
// returns the games that were kept because users own them.
func (r *GameRepository) DeleteAllUnowned(tx *gorm.DB) ([]models.Game, error) {
	db := r.conn(tx)

	var games []models.Game
	if err := db.Order("id").Find(&games).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list games")
	}

	var skipped []models.Game
	for _, game := range games {
		var owned int64
		if err := db.Model(&models.UserGame{}).Where("game_id = ?", game.ID).Count(&owned).Error; err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to check purchase records")
		}
		if owned > 0 {
			logger.Info("Keeping game with purchase records", "gameId", game.ID, "gameName", game.GameName)
			skipped = append(skipped, game)
			continue
		}
		if err := db.Delete(&models.Game{}, game.ID).Error; err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete game")
		}
	}

	return skipped, nil
}
