package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/lmartell/crescraper/internal/domain/entity"
	"github.com/lmartell/crescraper/internal/scraper"
)

func TestNewSenderRequiresCredentials(t *testing.T) {
	t.Setenv(EnvAddress, "")
	t.Setenv(EnvPassword, "")
	_, err := NewSender("smtp.gmail.com", 587, zaptest.NewLogger(t))
	assert.Error(t, err)

	t.Setenv(EnvAddress, "sender@example.com")
	t.Setenv(EnvPassword, "app-password")
	sender, err := NewSender("smtp.gmail.com", 587, zaptest.NewLogger(t))
	assert.NoError(t, err)
	assert.NotNil(t, sender)
}

func TestBuildSummary(t *testing.T) {
	ranAt := time.Date(2025, 7, 15, 3, 0, 0, 0, time.UTC)

	t.Run("with results", func(t *testing.T) {
		results := scraper.Results{
			{Site: "loopnet", Listings: []entity.Listing{
				entity.NewListing("123 Main St", "$500,000", "Retail", "https://example.com/listing/1"),
			}},
			{Site: "commercialmls", Listings: []entity.Listing{}},
		}

		subject, body := BuildSummary(results, ranAt)
		assert.Equal(t, "Commercial Real Estate Search Results - 1 Properties Found", subject)
		assert.Contains(t, body, "Total properties found: 1")
		assert.Contains(t, body, "LOOPNET - 1 Properties")
		assert.Contains(t, body, "[1] 123 Main St")
		assert.Contains(t, body, "Price: $500,000")
		assert.Contains(t, body, "Type: Retail")
		assert.Contains(t, body, "URL: https://example.com/listing/1")
		// Sites with no listings get no section.
		assert.NotContains(t, body, "COMMERCIALMLS")
	})

	t.Run("empty run", func(t *testing.T) {
		subject, body := BuildSummary(scraper.Results{}, ranAt)
		assert.Equal(t, "Commercial Real Estate Search Results - 0 Properties Found", subject)
		assert.Contains(t, body, "No new properties found matching your criteria.")
	})
}
