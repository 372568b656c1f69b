package services

import (
	"fmt"

	"github.com/mroshb/gamevault/internal/models"
	"github.com/mroshb/gamevault/pkg/errors"
	"github.com/mroshb/gamevault/pkg/logger"
	"gorm.io/gorm"
)

// Import modes
const (
	ImportModeMerge     = "merge"
	ImportModeOverwrite = "overwrite"
)

// ImportFailure records a candidate that could not be applied.
type ImportFailure struct {
	GameName string
	Reason   string
}

// ImportReport summarizes a catalog import.
type ImportReport struct {
	Inserted   int
	Updated    int
	Deleted    int
	Duplicates []models.Game // in-batch candidates displaced by a later row with the same name
	Skipped    []models.Game // overwrite mode: owned games that were preserved
	Failed     []ImportFailure
}

// ImporterService reconciles externally supplied catalog batches against
// the existing store.
type ImporterService struct {
	db    TxRunner
	games CatalogStore
	owned OwnershipStore
}

func NewImporterService(db TxRunner, games CatalogStore, owned OwnershipStore) *ImporterService {
	return &ImporterService{
		db:    db,
		games: games,
		owned: owned,
	}
}

// ImportGames applies a candidate batch under the given mode. Candidates
// are first de-duplicated by name (last row wins). Each surviving
// candidate is applied in its own transaction, so one bad row never
// aborts the rest of the batch.
func (s *ImporterService) ImportGames(candidates []models.Game, mode string) (*ImportReport, error) {
	if mode != ImportModeMerge && mode != ImportModeOverwrite {
		return nil, errors.New(errors.ErrCodeValidation, fmt.Sprintf("invalid import mode %q", mode))
	}

	report := &ImportReport{}
	batch := s.dedupe(candidates, report)

	if mode == ImportModeOverwrite {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			before, err := s.games.ListAll()
			if err != nil {
				return err
			}
			skipped, err := s.games.DeleteAllUnowned(tx)
			if err != nil {
				return err
			}
			report.Skipped = skipped
			report.Deleted = len(before) - len(skipped)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	for i := range batch {
		candidate := batch[i]
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return s.applyOne(tx, &candidate, report)
		})
		if err != nil {
			logger.Error("Failed to import game", "gameName", candidate.GameName, "error", err)
			report.Failed = append(report.Failed, ImportFailure{
				GameName: candidate.GameName,
				Reason:   err.Error(),
			})
		}
	}

	return report, nil
}

// dedupe collapses same-named candidates to the last occurrence and
// reports the displaced rows.
func (s *ImporterService) dedupe(candidates []models.Game, report *ImportReport) []models.Game {
	lastIndex := make(map[string]int, len(candidates))
	for i, c := range candidates {
		if prev, dup := lastIndex[c.GameName]; dup {
			report.Duplicates = append(report.Duplicates, candidates[prev])
		}
		lastIndex[c.GameName] = i
	}

	batch := make([]models.Game, 0, len(lastIndex))
	for i, c := range candidates {
		if lastIndex[c.GameName] == i {
			batch = append(batch, c)
		}
	}
	return batch
}

// applyOne reconciles a single candidate: match by id first, then by
// name; update mutable fields in place preserving the existing id, or
// insert when neither key matches.
func (s *ImporterService) applyOne(tx *gorm.DB, candidate *models.Game, report *ImportReport) error {
	var existing *models.Game

	if candidate.ID != 0 {
		found, err := s.games.GetByID(tx, candidate.ID)
		if err != nil && !errors.HasCode(err, errors.ErrCodeNotFound) {
			return err
		}
		existing = found
	}

	if existing == nil {
		found, err := s.games.GetByName(tx, candidate.GameName)
		if err != nil && !errors.HasCode(err, errors.ErrCodeNotFound) {
			return err
		}
		existing = found
	}

	if existing != nil {
		existing.GameName = candidate.GameName
		existing.GameType = candidate.GameType
		existing.DownloadURL = candidate.DownloadURL
		existing.Password = candidate.Password
		existing.ExtractPassword = candidate.ExtractPassword
		existing.Note = candidate.Note
		if err := s.games.Save(tx, existing); err != nil {
			return err
		}
		report.Updated++
		return nil
	}

	if err := s.games.Create(tx, candidate); err != nil {
		return err
	}
	report.Inserted++
	return nil
}
