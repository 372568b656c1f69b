package importer

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/mroshb/gamevault/internal/models"
	"github.com/mroshb/gamevault/pkg/errors"
	"github.com/mroshb/gamevault/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func buildSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadGames(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{
		{"ID", "Type", "Name", "DownloadURL", "Password", "ExtractPassword", "Note"},
		{"1", "fps", "Doom", "https://dl/doom", "pw1", "xpw1", "classic"},
		{"", "puzzle", "Myst", "https://dl/myst", "", "", ""},
		{"", "", "", "", "", "", ""},
		{"3", "rpg", "", "https://dl/nameless"},
		{"4", "rpg", "Linkless", ""},
		{"abc", "rpg", "BadID", "https://dl/badid"},
	})

	games, total, err := ReadGames(buf)
	require.NoError(t, err)
	assert.Equal(t, 5, total, "empty rows do not count, malformed ones do")
	require.Len(t, games, 2)

	assert.Equal(t, uint(1), games[0].ID)
	assert.Equal(t, "Doom", games[0].GameName)
	assert.Equal(t, "https://dl/doom", games[0].DownloadURL)
	assert.Equal(t, "pw1", games[0].Password)
	assert.Equal(t, "xpw1", games[0].ExtractPassword)
	assert.Equal(t, "classic", games[0].Note)

	assert.Zero(t, games[1].ID, "missing id means the store assigns one")
	assert.Equal(t, "Myst", games[1].GameName)
}

func TestReadGames_TrimsWhitespace(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{
		{"ID", "Type", "Name", "DownloadURL"},
		{" 2 ", " fps ", " Doom ", " https://dl/doom "},
	})

	games, _, err := ReadGames(buf)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, uint(2), games[0].ID)
	assert.Equal(t, "Doom", games[0].GameName)
	assert.Equal(t, "https://dl/doom", games[0].DownloadURL)
}

func TestReadVipCodes(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{
		{"Code", "ValidDays"},
		{"VIP30A", "30"},
		{"VIP7B", "7"},
		{"", "30"},
		{"NODAYS", ""},
		{"NEGATIVE", "-1"},
	})

	codes, err := ReadVipCodes(buf)
	require.NoError(t, err)
	require.Len(t, codes, 2)
	for _, c := range codes {
		assert.Equal(t, models.CodeKindVip, c.Kind)
	}
	assert.Equal(t, "VIP30A", codes[0].Code)
	assert.Equal(t, 30, codes[0].ValidDays)
	assert.Equal(t, 7, codes[1].ValidDays)
}

func TestReadPaymentCodes(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{
		{"Code", "Points"},
		{"PAY500", "500"},
		{"PAY100", "100"},
		{"FREE", "0"},
	})

	codes, err := ReadPaymentCodes(buf)
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, models.CodeKindPayment, codes[0].Kind)
	assert.Equal(t, int64(500), codes[0].Points)
	assert.Equal(t, int64(100), codes[1].Points)
}

func TestReadGames_NotASpreadsheet(t *testing.T) {
	_, _, err := ReadGames(bytes.NewBufferString("definitely not xlsx"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestReadGames_LargeSheet(t *testing.T) {
	rows := [][]interface{}{{"ID", "Type", "Name", "DownloadURL"}}
	for i := 0; i < 200; i++ {
		rows = append(rows, []interface{}{"", "fps", fmt.Sprintf("Game %d", i), fmt.Sprintf("https://dl/%d", i)})
	}

	games, total, err := ReadGames(buildSheet(t, rows))
	require.NoError(t, err)
	assert.Equal(t, 200, total)
	assert.Len(t, games, 200)
}
