package selection

import (
	"context"
	"testing"

	"game-service/internal/models"
)

type stubSource struct {
	questions []models.Question
}

func (s *stubSource) FindByCategory(ctx context.Context, categoryPath string, limit int) ([]models.Question, error) {
	var out []models.Question
	for _, q := range s.questions {
		if !q.MatchesTheme(categoryPath) {
			continue
		}
		out = append(out, q)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func catalogWith(ids ...string) *stubSource {
	src := &stubSource{}
	for _, id := range ids {
		src.questions = append(src.questions, models.Question{ID: id, Themes: []string{"math/algebra"}})
	}
	return src
}

func TestSelectQuestionsZeroCount(t *testing.T) {
	ps := NewPoolSelector(catalogWith("q1", "q2"))

	for _, count := range []int{0, -3} {
		result, err := ps.SelectQuestions(context.Background(), &SelectionCriteria{Count: count})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Questions) != 0 {
			t.Errorf("count=%d: expected empty selection, got %d questions", count, len(result.Questions))
		}
	}
}

func TestSelectQuestionsCapsAtCount(t *testing.T) {
	ps := NewPoolSelector(catalogWith("q1", "q2", "q3", "q4"))

	result, err := ps.SelectQuestions(context.Background(), &SelectionCriteria{
		CategoryPath: "math",
		Count:        2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(result.Questions))
	}
	// Catalog order is preserved.
	if result.Questions[0].ID != "q1" || result.Questions[1].ID != "q2" {
		t.Errorf("expected catalog order q1,q2, got %s,%s", result.Questions[0].ID, result.Questions[1].ID)
	}
	if result.Shortfall != 0 {
		t.Errorf("expected no shortfall, got %d", result.Shortfall)
	}
}

func TestSelectQuestionsShortfallIsNotAnError(t *testing.T) {
	ps := NewPoolSelector(catalogWith("q1"))

	result, err := ps.SelectQuestions(context.Background(), &SelectionCriteria{
		CategoryPath: "math/algebra",
		Count:        5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(result.Questions))
	}
	if result.Shortfall != 4 {
		t.Errorf("expected shortfall 4, got %d", result.Shortfall)
	}
}

func TestSelectQuestionsSkipsExcluded(t *testing.T) {
	ps := NewPoolSelector(catalogWith("q1", "q2", "q3"))

	result, err := ps.SelectQuestions(context.Background(), &SelectionCriteria{
		CategoryPath: "math",
		Count:        2,
		ExcludeIDs:   []string{"q1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(result.Questions))
	}
	for _, q := range result.Questions {
		if q.ID == "q1" {
			t.Error("excluded question q1 was selected")
		}
	}
}

func TestSelectQuestionsCategoryMiss(t *testing.T) {
	ps := NewPoolSelector(catalogWith("q1", "q2"))

	result, err := ps.SelectQuestions(context.Background(), &SelectionCriteria{
		CategoryPath: "history",
		Count:        2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Questions) != 0 {
		t.Errorf("expected no questions for unmatched category, got %d", len(result.Questions))
	}
	if result.Shortfall != 2 {
		t.Errorf("expected shortfall 2, got %d", result.Shortfall)
	}
}
