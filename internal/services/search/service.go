// Package search ranks active needs for free-text search and for
// per-user recommendations. Candidates are loaded into memory and scored
// with a pure function; there is no index structure.
package search

import (
	"context"
	"time"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
)

const defaultRecommendLimit = 20

// Options narrows a search.
type Options struct {
	CategoryID uint
	Offset     int
	Limit      int
}

// Result is one ranked need.
type Result struct {
	Need  *models.Need `json:"need"`
	Score float64      `json:"score"`
}

// Service defines search and recommendation operations.
type Service interface {
	Search(ctx context.Context, query string, opts Options) ([]Result, int, error)
	Recommend(ctx context.Context, userID uint, limit int) ([]models.Need, error)
}

type service struct {
	needs repositories.NeedRepository
	now   func() time.Time
}

// NewService creates the search service.
func NewService(needs repositories.NeedRepository) Service {
	if needs == nil {
		panic("need repository is required")
	}
	return &service{needs: needs, now: time.Now}
}

// Search scores the active needs against the query and returns one page of
// ranked results plus the total number of matches.
func (s *service) Search(ctx context.Context, query string, opts Options) ([]Result, int, error) {
	needs, err := s.needs.ListActive(ctx, opts.CategoryID)
	if err != nil {
		return nil, 0, err
	}

	terms := queryTerms(query)
	now := s.now()

	scored := make([]scoredNeed, 0, len(needs))
	for i := range needs {
		n := &needs[i]
		match := matchScore(n, terms)
		if len(terms) > 0 && match == 0 {
			// Boosts alone do not qualify a need for a non-empty query.
			continue
		}
		scored = append(scored, scoredNeed{need: n, score: match + boostScore(n, now)})
	}
	sortScored(scored)

	total := len(scored)
	page := paginate(scored, opts.Offset, opts.Limit)
	results := make([]Result, len(page))
	for i, sn := range page {
		results[i] = Result{Need: sn.need, Score: sn.score}
	}
	return results, total, nil
}

// Recommend returns the most active needs, excluding the user's own posts.
func (s *service) Recommend(ctx context.Context, userID uint, limit int) ([]models.Need, error) {
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	needs, err := s.needs.ListActive(ctx, 0)
	if err != nil {
		return nil, err
	}

	now := s.now()
	scored := make([]scoredNeed, 0, len(needs))
	for i := range needs {
		n := &needs[i]
		if n.UserID == userID {
			continue
		}
		scored = append(scored, scoredNeed{need: n, score: activityScore(n, now)})
	}
	sortScored(scored)

	if len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]models.Need, len(scored))
	for i, sn := range scored {
		out[i] = *sn.need
	}
	return out, nil
}

func paginate(scored []scoredNeed, offset, limit int) []scoredNeed {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(scored) {
		return nil
	}
	end := len(scored)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return scored[offset:end]
}
