package selection

import (
	"context"
	"fmt"

	"game-service/internal/models"
)

// PoolSelector chooses which catalog questions populate a newly created game.
// Selection is deterministic: questions come back in catalog order, with no
// shuffling.
type PoolSelector struct {
	source QuestionSource
}

func NewPoolSelector(source QuestionSource) *PoolSelector {
	return &PoolSelector{source: source}
}

// SelectQuestions returns up to criteria.Count questions matching the
// category filter, skipping any id in criteria.ExcludeIDs. Returns an empty
// result when the requested count is not positive. A pool smaller than the
// request is reported through Shortfall, never as an error.
func (ps *PoolSelector) SelectQuestions(ctx context.Context, criteria *SelectionCriteria) (*SelectionResult, error) {
	if criteria.Count <= 0 {
		return &SelectionResult{Questions: []models.Question{}}, nil
	}

	// Over-fetch by the exclusion count so excluded ids don't eat into the
	// requested amount.
	limit := criteria.Count + len(criteria.ExcludeIDs)
	candidates, err := ps.source.FindByCategory(ctx, criteria.CategoryPath, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load question pool: %w", err)
	}

	excluded := make(map[string]bool, len(criteria.ExcludeIDs))
	for _, id := range criteria.ExcludeIDs {
		excluded[id] = true
	}

	selected := make([]models.Question, 0, criteria.Count)
	for _, q := range candidates {
		if excluded[q.ID] {
			continue
		}
		selected = append(selected, q)
		if len(selected) == criteria.Count {
			break
		}
	}

	return &SelectionResult{
		Questions:       selected,
		TotalCandidates: len(candidates),
		Shortfall:       criteria.Count - len(selected),
	}, nil
}

// PoolInfo summarizes how many questions a category can contribute, split by
// answer shape. Used by teachers to check a category before building a game.
func (ps *PoolSelector) PoolInfo(ctx context.Context, categoryPath string, sample int) (map[string]interface{}, error) {
	if sample <= 0 {
		sample = 100
	}
	questions, err := ps.source.FindByCategory(ctx, categoryPath, sample)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect question pool: %w", err)
	}

	typeCount := map[string]int{}
	withoutCorrect := 0
	for _, q := range questions {
		typeCount[q.Type]++
		correct := false
		for _, a := range q.Answers {
			if a.Correct {
				correct = true
				break
			}
		}
		if !correct {
			withoutCorrect++
		}
	}

	return map[string]interface{}{
		"category":               categoryPath,
		"total_questions":        len(questions),
		"type_distribution":      typeCount,
		"without_correct_answer": withoutCorrect,
	}, nil
}
