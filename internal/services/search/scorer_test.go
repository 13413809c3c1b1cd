package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

var scorerNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestMatchScore(t *testing.T) {
	need := &models.Need{
		Title:       "Kitchen sink repair",
		Description: "The sink drains slowly and the tap drips.",
		Category:    &models.Category{Name: "Plumbing"},
	}

	tests := []struct {
		name  string
		query string
		want  float64
	}{
		{"whole word in title", "repair", titleWordWeight},
		{"substring in title", "repai", titleSubstringWeight},
		{"whole word in category", "plumbing", categoryWordWeight},
		{"word in description only, punctuation stripped", "drips", descriptionWordWeight},
		{"word in title and description", "sink", titleWordWeight + descriptionWordWeight},
		{"two terms accumulate", "kitchen repair", 2 * titleWordWeight},
		{"no match", "electrician", 0},
		{"case insensitive", "KITCHEN", titleWordWeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchScore(need, queryTerms(tt.query))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchScoreDeterministic(t *testing.T) {
	need := &models.Need{
		Title:       "Garden cleanup",
		Description: "Hedge trimming and leaf removal",
		Category:    &models.Category{Name: "Gardening"},
	}
	terms := queryTerms("garden cleanup trimming")

	first := matchScore(need, terms)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, matchScore(need, terms))
	}
}

func TestBoostScore(t *testing.T) {
	t.Run("urgency ordering", func(t *testing.T) {
		base := models.Need{CreatedAt: scorerNow}
		urgent, high, normal, low := base, base, base, base
		urgent.Urgency = models.UrgencyUrgent
		high.Urgency = models.UrgencyHigh
		normal.Urgency = models.UrgencyNormal
		low.Urgency = models.UrgencyLow

		assert.Greater(t, boostScore(&urgent, scorerNow), boostScore(&high, scorerNow))
		assert.Greater(t, boostScore(&high, scorerNow), boostScore(&normal, scorerNow))
		assert.Greater(t, boostScore(&normal, scorerNow), boostScore(&low, scorerNow))
	})

	t.Run("offer boost is capped", func(t *testing.T) {
		need := models.Need{
			Urgency:   models.UrgencyLow,
			CreatedAt: scorerNow.AddDate(0, 0, -40),
			Offers:    make([]models.Offer, 25),
		}
		assert.Equal(t, maxOfferBoost, boostScore(&need, scorerNow))
	})
}

func TestRecencyBoost(t *testing.T) {
	assert.Equal(t, 3.0, recencyBoost(scorerNow, scorerNow))
	assert.InDelta(t, 1.5, recencyBoost(scorerNow.AddDate(0, 0, -15), scorerNow), 0.01)
	assert.Equal(t, 0.0, recencyBoost(scorerNow.AddDate(0, 0, -30), scorerNow))
	assert.Equal(t, 0.0, recencyBoost(scorerNow.AddDate(0, 0, -90), scorerNow))
	// Clock skew must never produce a boost above the fresh-post value.
	assert.Equal(t, 3.0, recencyBoost(scorerNow.Add(time.Hour), scorerNow))
}

func TestActivityScore(t *testing.T) {
	old := scorerNow.AddDate(0, 0, -60)

	quiet := models.Need{ViewCount: 5, CreatedAt: old}
	viewed := models.Need{ViewCount: 40, CreatedAt: old}
	offered := models.Need{ViewCount: 5, Offers: make([]models.Offer, 4), CreatedAt: old}

	assert.Equal(t, 5.0, activityScore(&quiet, scorerNow))
	assert.Equal(t, 40.0, activityScore(&viewed, scorerNow))
	// Four offers outweigh thirty-five extra views.
	assert.Equal(t, 45.0, activityScore(&offered, scorerNow))
	assert.Greater(t, activityScore(&offered, scorerNow), activityScore(&viewed, scorerNow))
}

func TestSortScored(t *testing.T) {
	older := scorerNow.Add(-time.Hour)

	a := &models.Need{ID: 1, CreatedAt: scorerNow}
	b := &models.Need{ID: 2, CreatedAt: older}
	c := &models.Need{ID: 3, CreatedAt: older}
	d := &models.Need{ID: 4, CreatedAt: scorerNow}

	scored := []scoredNeed{
		{need: b, score: 5},
		{need: c, score: 5},
		{need: a, score: 5},
		{need: d, score: 8},
	}
	sortScored(scored)

	ids := make([]uint, len(scored))
	for i, sn := range scored {
		ids[i] = sn.need.ID
	}
	// Highest score first, then newer CreatedAt, then lower ID.
	assert.Equal(t, []uint{4, 1, 2, 3}, ids)
}
