package services

import (
	"testing"

	"github.com/mroshb/gamevault/internal/models"
	"github.com/mroshb/gamevault/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImporterFixture() (*ImporterService, *fakeStore) {
	store := newFakeStore()
	svc := NewImporterService(store, fakeCatalog{store}, fakeOwnership{store})
	return svc, store
}

func TestImporterService_ImportGames_InvalidMode(t *testing.T) {
	svc, _ := newImporterFixture()

	_, err := svc.ImportGames([]models.Game{{GameName: "Doom", DownloadURL: "u"}}, "append")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestImporterService_Merge(t *testing.T) {
	t.Run("Inserts new games", func(t *testing.T) {
		svc, store := newImporterFixture()

		report, err := svc.ImportGames([]models.Game{
			{GameName: "Doom", GameType: "fps", DownloadURL: "https://dl/doom"},
			{GameName: "Myst", GameType: "puzzle", DownloadURL: "https://dl/myst"},
		}, ImportModeMerge)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Inserted)
		assert.Zero(t, report.Updated)
		assert.Empty(t, report.Failed)

		games, _ := store.listGames()
		assert.Len(t, games, 2)
	})

	t.Run("Updates by id keeping the stored id", func(t *testing.T) {
		svc, store := newImporterFixture()
		existing := store.addGame(models.Game{GameName: "Doom", DownloadURL: "https://dl/old"})

		report, err := svc.ImportGames([]models.Game{
			{ID: existing.ID, GameName: "Doom II", DownloadURL: "https://dl/new"},
		}, ImportModeMerge)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Updated)
		assert.Zero(t, report.Inserted)

		updated := store.games[existing.ID]
		assert.Equal(t, "Doom II", updated.GameName)
		assert.Equal(t, "https://dl/new", updated.DownloadURL)
	})

	t.Run("Updates by name when the id is unknown", func(t *testing.T) {
		svc, store := newImporterFixture()
		existing := store.addGame(models.Game{GameName: "Doom", DownloadURL: "https://dl/old"})

		report, err := svc.ImportGames([]models.Game{
			{GameName: "Doom", GameType: "fps", DownloadURL: "https://dl/new"},
		}, ImportModeMerge)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Updated)

		updated := store.games[existing.ID]
		assert.Equal(t, "https://dl/new", updated.DownloadURL)
		assert.Equal(t, "fps", updated.GameType)
		assert.Len(t, store.games, 1)
	})

	t.Run("Merge is idempotent", func(t *testing.T) {
		svc, store := newImporterFixture()
		batch := []models.Game{
			{GameName: "Doom", DownloadURL: "https://dl/doom"},
			{GameName: "Myst", DownloadURL: "https://dl/myst"},
		}

		first, err := svc.ImportGames(batch, ImportModeMerge)
		require.NoError(t, err)
		assert.Equal(t, 2, first.Inserted)

		// Every row now matches by name, so the second run only updates.
		second, err := svc.ImportGames(batch, ImportModeMerge)
		require.NoError(t, err)
		assert.Zero(t, second.Inserted)
		assert.Equal(t, 2, second.Updated)

		games, _ := store.listGames()
		assert.Len(t, games, 2)
	})

	t.Run("Same-named candidates collapse to the last row", func(t *testing.T) {
		svc, store := newImporterFixture()

		report, err := svc.ImportGames([]models.Game{
			{GameName: "Doom", DownloadURL: "https://dl/first"},
			{GameName: "Myst", DownloadURL: "https://dl/myst"},
			{GameName: "Doom", DownloadURL: "https://dl/last"},
		}, ImportModeMerge)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Inserted)
		require.Len(t, report.Duplicates, 1)
		assert.Equal(t, "https://dl/first", report.Duplicates[0].DownloadURL)

		doom, err := store.getGameByName("Doom")
		require.NoError(t, err)
		assert.Equal(t, "https://dl/last", doom.DownloadURL)
	})

	t.Run("One bad row does not abort the batch", func(t *testing.T) {
		svc, store := newImporterFixture()

		report, err := svc.ImportGames([]models.Game{
			{GameName: "Doom", DownloadURL: "https://dl/doom"},
			{GameName: "Broken", DownloadURL: ""},
			{GameName: "Myst", DownloadURL: "https://dl/myst"},
		}, ImportModeMerge)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Inserted)
		require.Len(t, report.Failed, 1)
		assert.Equal(t, "Broken", report.Failed[0].GameName)

		games, _ := store.listGames()
		assert.Len(t, games, 2)
	})
}

func TestImporterService_Overwrite(t *testing.T) {
	t.Run("Deletes unreferenced games and preserves owned ones", func(t *testing.T) {
		svc, store := newImporterFixture()
		owner := store.addUser(models.User{Username: "alice"})
		ownedGame := store.addGame(models.Game{GameName: "Doom", DownloadURL: "https://dl/doom"})
		store.addGame(models.Game{GameName: "Myst", DownloadURL: "https://dl/myst"})
		store.addOwnership(owner.ID, ownedGame.ID)

		report, err := svc.ImportGames([]models.Game{
			{GameName: "Quake", DownloadURL: "https://dl/quake"},
		}, ImportModeOverwrite)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Deleted)
		require.Len(t, report.Skipped, 1)
		assert.Equal(t, "Doom", report.Skipped[0].GameName)
		assert.Equal(t, 1, report.Inserted)

		games, _ := store.listGames()
		require.Len(t, games, 2)
		_, stillThere := store.games[ownedGame.ID]
		assert.True(t, stillThere)
	})

	t.Run("Candidate colliding with a preserved game updates it in place", func(t *testing.T) {
		svc, store := newImporterFixture()
		owner := store.addUser(models.User{Username: "alice"})
		ownedGame := store.addGame(models.Game{GameName: "Doom", DownloadURL: "https://dl/old"})
		store.addOwnership(owner.ID, ownedGame.ID)

		report, err := svc.ImportGames([]models.Game{
			{GameName: "Doom", DownloadURL: "https://dl/new"},
		}, ImportModeOverwrite)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Updated)
		assert.Zero(t, report.Inserted)
		assert.Empty(t, report.Failed)

		assert.Equal(t, "https://dl/new", store.games[ownedGame.ID].DownloadURL)
		assert.Len(t, store.games, 1)
	})

	t.Run("Empty batch clears everything unowned", func(t *testing.T) {
		svc, store := newImporterFixture()
		store.addGame(models.Game{GameName: "Doom", DownloadURL: "https://dl/doom"})
		store.addGame(models.Game{GameName: "Myst", DownloadURL: "https://dl/myst"})

		report, err := svc.ImportGames(nil, ImportModeOverwrite)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Deleted)
		assert.Empty(t, report.Skipped)

		games, _ := store.listGames()
		assert.Empty(t, games)
	})
}
