package importer

import (
	"io"
	"strconv"
	"strings"

	"github.com/mroshb/gamevault/internal/models"
	"github.com/mroshb/gamevault/pkg/errors"
	"github.com/mroshb/gamevault/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// Expected game sheet columns, in order.
// ID | Type | Name | DownloadURL | Password | ExtractPassword | Note

// ReadGames parses an uploaded games spreadsheet into catalog candidates.
// The first row is treated as a header. Rows without a name or download
// URL are dropped with a warning; the returned count is rows read before
// dropping.
func ReadGames(r io.Reader) ([]models.Game, int, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, 0, err
	}

	var games []models.Game
	total := 0
	for i, row := range rows {
		if i == 0 || rowIsEmpty(row) {
			continue
		}
		total++

		game := models.Game{
			GameType:        cell(row, 1),
			GameName:        cell(row, 2),
			DownloadURL:     cell(row, 3),
			Password:        cell(row, 4),
			ExtractPassword: cell(row, 5),
			Note:            cell(row, 6),
		}

		if idText := cell(row, 0); idText != "" {
			id, err := strconv.ParseUint(idText, 10, 32)
			if err != nil {
				logger.Warn("Dropping game row with malformed id", "row", i+1, "id", idText)
				continue
			}
			game.ID = uint(id)
		}

		if game.GameName == "" || game.DownloadURL == "" {
			logger.Warn("Dropping game row without name or download URL", "row", i+1)
			continue
		}

		games = append(games, game)
	}

	return games, total, nil
}

// ReadVipCodes parses a VIP code sheet: Code | ValidDays.
func ReadVipCodes(r io.Reader) ([]models.RedeemCode, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}

	var codes []models.RedeemCode
	for i, row := range rows {
		if i == 0 || rowIsEmpty(row) {
			continue
		}

		code := cell(row, 0)
		days, convErr := strconv.Atoi(cell(row, 1))
		if code == "" || convErr != nil || days <= 0 {
			logger.Warn("Dropping malformed VIP code row", "row", i+1)
			continue
		}

		codes = append(codes, models.RedeemCode{
			Kind:      models.CodeKindVip,
			Code:      code,
			ValidDays: days,
		})
	}

	return codes, nil
}

// ReadPaymentCodes parses a payment code sheet: Code | Points.
func ReadPaymentCodes(r io.Reader) ([]models.RedeemCode, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}

	var codes []models.RedeemCode
	for i, row := range rows {
		if i == 0 || rowIsEmpty(row) {
			continue
		}

		code := cell(row, 0)
		points, convErr := strconv.ParseInt(cell(row, 1), 10, 64)
		if code == "" || convErr != nil || points <= 0 {
			logger.Warn("Dropping malformed payment code row", "row", i+1)
			continue
		}

		codes = append(codes, models.RedeemCode{
			Kind:   models.CodeKindPayment,
			Code:   code,
			Points: points,
		})
	}

	return codes, nil
}

func readFirstSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to open spreadsheet")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to read spreadsheet rows")
	}
	return rows, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func rowIsEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
