package selection

import (
	"context"

	"game-service/internal/models"
)

// QuestionSource is the slice of the question catalog the selector needs.
type QuestionSource interface {
	FindByCategory(ctx context.Context, categoryPath string, limit int) ([]models.Question, error)
}

// SelectionCriteria defines what to pull from the catalog for a new game.
type SelectionCriteria struct {
	CategoryPath string   `json:"category_path"`
	Count        int      `json:"count"`
	ExcludeIDs   []string `json:"exclude_ids"`
}

// SelectionResult contains the selected questions and pool metadata.
// Shortfall is how many questions short of the request the pool came up;
// an undersized pool is a recoverable condition, not an error.
type SelectionResult struct {
	Questions       []models.Question `json:"questions"`
	TotalCandidates int               `json:"total_candidates"`
	Shortfall       int               `json:"shortfall"`
}
