package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmartell/crescraper/internal/domain/entity"
	"github.com/lmartell/crescraper/internal/scraper"
)

func TestResultStoreRoundTrip(t *testing.T) {
	store := NewResultStore(t.TempDir())
	ranAt := time.Date(2025, 7, 15, 3, 0, 0, 0, time.UTC)

	results := scraper.Results{
		{Site: "loopnet", Listings: []entity.Listing{
			entity.NewListing("123 Main St", "$500,000", "Retail", "/listing/1"),
		}},
		{Site: "commercialmls", Listings: nil},
	}
	require.NoError(t, store.Save(results, ranAt, "scheduled"))

	record, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, record.TotalResults)
	assert.Equal(t, "scheduled", record.Trigger)
	assert.Equal(t, ranAt.Format(time.RFC3339), record.Datetime)
	require.Len(t, record.Results["loopnet"], 1)
	assert.Equal(t, "123 Main St", record.Results["loopnet"][0].Address)
	// Failed sites persist as empty lists, not nulls.
	assert.NotNil(t, record.Results["commercialmls"])
	assert.Empty(t, record.Results["commercialmls"])
}

func TestResultStoreOverwrites(t *testing.T) {
	store := NewResultStore(t.TempDir())
	now := time.Now()

	require.NoError(t, store.Save(scraper.Results{{Site: "loopnet", Listings: []entity.Listing{
		entity.NewListing("old", "", "", "/1"),
	}}}, now, "manual"))
	require.NoError(t, store.Save(scraper.Results{}, now, "manual"))

	record, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, record.TotalResults)
}

func TestResultStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	store := NewResultStore(dir)
	require.NoError(t, store.Save(scraper.Results{}, time.Now(), "manual"))
	assert.FileExists(t, store.Path())
}

func TestResultStoreLoadMissing(t *testing.T) {
	store := NewResultStore(t.TempDir())
	_, err := store.Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
