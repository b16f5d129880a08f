package repository

import "github.com/trail-recommender/internal/domain"

// RecommendationExporter writes a recommendation result set to a file. A
// failed write is always surfaced to the caller.
type RecommendationExporter interface {
	WriteCSV(path string, recs []domain.Recommendation) error
	WriteJSON(path string, recs []domain.Recommendation) error
}
