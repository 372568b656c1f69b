package services

import (
	"fmt"

	"github.com/mroshb/gamevault/internal/models"
	"github.com/mroshb/gamevault/pkg/errors"
	"github.com/mroshb/gamevault/pkg/utils"
)

// Retry budget per code before declaring the code space exhausted.
// With a 16-character alphanumeric space this never triggers in practice.
const maxCodeAttempts = 100

// CodeService issues redemption codes.
type CodeService struct {
	codes      CodeLedger
	codeLength int
	charset    string
}

func NewCodeService(codes CodeLedger, codeLength int, charset string) *CodeService {
	if charset == "" {
		charset = utils.DefaultCodeCharset
	}
	return &CodeService{
		codes:      codes,
		codeLength: codeLength,
		charset:    charset,
	}
}

// Generate produces count codes of the given kind, each with a unique
// code string. Collisions with already-issued codes (or earlier codes in
// the same batch) retry the generation before anything is persisted.
func (s *CodeService) Generate(kind string, count, validDays int, points int64) ([]models.RedeemCode, error) {
	if count <= 0 {
		return nil, errors.New(errors.ErrCodeValidation, "count must be positive")
	}

	switch kind {
	case models.CodeKindVip:
		if validDays <= 0 {
			return nil, errors.New(errors.ErrCodeValidation, "validDays must be positive")
		}
	case models.CodeKindPayment:
		if points <= 0 {
			return nil, errors.New(errors.ErrCodeValidation, "points must be positive")
		}
	default:
		return nil, errors.New(errors.ErrCodeValidation, fmt.Sprintf("unknown code kind %q", kind))
	}

	batch := make([]models.RedeemCode, 0, count)
	inBatch := make(map[string]bool, count)

	for i := 0; i < count; i++ {
		code, err := s.uniqueCode(inBatch)
		if err != nil {
			return nil, err
		}
		inBatch[code] = true

		entry := models.RedeemCode{
			Kind: kind,
			Code: code,
		}
		switch kind {
		case models.CodeKindVip:
			entry.ValidDays = validDays
		case models.CodeKindPayment:
			entry.Points = points
		}
		batch = append(batch, entry)
	}

	return s.codes.CreateBatch(batch)
}

func (s *CodeService) uniqueCode(inBatch map[string]bool) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := utils.GenerateCode(s.codeLength, s.charset)
		if code == "" || inBatch[code] {
			continue
		}
		exists, err := s.codes.ExistsByCode(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New(errors.ErrCodeInternalError, "code generation retries exhausted")
}

// BulkReplace validates and installs an externally supplied code set,
// discarding every existing code of the kind. Returns the installed count.
func (s *CodeService) BulkReplace(kind string, codes []models.RedeemCode) (int, error) {
	if kind != models.CodeKindVip && kind != models.CodeKindPayment {
		return 0, errors.New(errors.ErrCodeValidation, fmt.Sprintf("unknown code kind %q", kind))
	}

	seen := make(map[string]bool, len(codes))
	for i := range codes {
		c := &codes[i]
		if c.Code == "" {
			return 0, errors.New(errors.ErrCodeValidation, "code string must not be empty")
		}
		if seen[c.Code] {
			return 0, errors.New(errors.ErrCodeValidation, fmt.Sprintf("duplicate code %q in upload", c.Code))
		}
		seen[c.Code] = true

		c.Kind = kind
		c.Used = false
		c.UsedBy = nil
		c.UsedAt = nil

		switch kind {
		case models.CodeKindVip:
			if c.ValidDays <= 0 {
				return 0, errors.New(errors.ErrCodeValidation, fmt.Sprintf("code %q has no valid days", c.Code))
			}
		case models.CodeKindPayment:
			if c.Points <= 0 {
				return 0, errors.New(errors.ErrCodeValidation, fmt.Sprintf("code %q has no points", c.Code))
			}
		}
	}

	return s.codes.ReplaceAll(kind, codes)
}
