package search

import (
	"sort"
	"strings"
	"time"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

// Scoring weights. Title matches dominate, category matches rank above
// description matches, whole-word hits beat bare substring hits.
const (
	titleWordWeight       = 10.0
	titleSubstringWeight  = 5.0
	categoryWordWeight    = 6.0
	categorySubstrWeight  = 3.0
	descriptionWordWeight = 3.0
	descriptionSubstrW    = 1.5

	offerBoostPerOffer = 0.5
	maxOfferBoost      = 5.0
)

var urgencyBoost = map[string]float64{
	models.UrgencyLow:    0,
	models.UrgencyNormal: 0.5,
	models.UrgencyHigh:   1.5,
	models.UrgencyUrgent: 3.0,
}

type scoredNeed struct {
	need  *models.Need
	score float64
}

// matchScore sums the weighted term matches across title, category and
// description. Zero means no term matched any field. Pure and deterministic
// given identical inputs.
func matchScore(need *models.Need, terms []string) float64 {
	title := strings.ToLower(need.Title)
	description := strings.ToLower(need.Description)
	category := ""
	if need.Category != nil {
		category = strings.ToLower(need.Category.Name)
	}

	titleWords := fieldWords(title)
	categoryWords := fieldWords(category)
	descriptionWords := fieldWords(description)

	var score float64
	for _, term := range terms {
		score += fieldScore(term, title, titleWords, titleWordWeight, titleSubstringWeight)
		score += fieldScore(term, category, categoryWords, categoryWordWeight, categorySubstrWeight)
		score += fieldScore(term, description, descriptionWords, descriptionWordWeight, descriptionSubstrW)
	}
	return score
}

// boostScore adds the query-independent boosts: urgency, recency and offer
// count.
func boostScore(need *models.Need, now time.Time) float64 {
	score := urgencyBoost[need.Urgency]
	score += recencyBoost(need.CreatedAt, now)

	offerBoost := float64(len(need.Offers)) * offerBoostPerOffer
	if offerBoost > maxOfferBoost {
		offerBoost = maxOfferBoost
	}
	return score + offerBoost
}

// activityScore ranks needs for recommendations. Each offer counts as ten
// views; the multiplier applies to the offer count, not a default value.
func activityScore(need *models.Need, now time.Time) float64 {
	return float64(need.ViewCount) +
		float64(len(need.Offers))*10 +
		recencyBoost(need.CreatedAt, now)
}

// recencyBoost decays linearly from 3 to 0 over thirty days.
func recencyBoost(createdAt time.Time, now time.Time) float64 {
	age := now.Sub(createdAt)
	if age < 0 {
		age = 0
	}
	days := age.Hours() / 24
	if days >= 30 {
		return 0
	}
	return 3.0 * (30 - days) / 30
}

func fieldScore(term, field string, words map[string]bool, wordWeight, substrWeight float64) float64 {
	if term == "" || field == "" {
		return 0
	}
	if words[term] {
		return wordWeight
	}
	if strings.Contains(field, term) {
		return substrWeight
	}
	return 0
}

func fieldWords(field string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(field) {
		words[strings.Trim(w, ".,;:!?()[]\"'")] = true
	}
	return words
}

func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			terms = append(terms, f)
		}
	}
	return terms
}

// sortScored orders by score descending, then CreatedAt descending, then ID
// ascending. The tie-break chain keeps result pages stable across requests.
func sortScored(scored []scoredNeed) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if !scored[i].need.CreatedAt.Equal(scored[j].need.CreatedAt) {
			return scored[i].need.CreatedAt.After(scored[j].need.CreatedAt)
		}
		return scored[i].need.ID < scored[j].need.ID
	})
}
