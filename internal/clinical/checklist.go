package clinical

import (
	"fmt"
	"sort"
	"strings"

	"ward-rounds/internal/apperr"
	"ward-rounds/internal/models"
)

// Catalog is the read-only table of checklist categories and their ordered questions.
type Catalog struct {
	categories []models.Category
	byID       map[uint]models.Category
	questions  map[uint][]models.Question
}

// NewCatalog validates the reference data. Question order within a category follows the input order.
func NewCatalog(categories []models.Category, questions []models.Question) (*Catalog, error) {
	c := &Catalog{
		categories: make([]models.Category, 0, len(categories)),
		byID:       make(map[uint]models.Category, len(categories)),
		questions:  make(map[uint][]models.Question, len(categories)),
	}
	for _, cat := range categories {
		if _, dup := c.byID[cat.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %d", cat.ID)
		}
		c.byID[cat.ID] = cat
		c.categories = append(c.categories, cat)
	}

	seen := make(map[uint]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		if _, ok := c.byID[q.CategoryID]; !ok {
			return nil, fmt.Errorf("question %d references unknown category %d", q.ID, q.CategoryID)
		}
		seen[q.ID] = true
		c.questions[q.CategoryID] = append(c.questions[q.CategoryID], q)
	}
	return c, nil
}

func (c *Catalog) Categories() []models.Category {
	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) Category(id uint) (models.Category, error) {
	cat, ok := c.byID[id]
	if !ok {
		return models.Category{}, apperr.NotFound("category", id)
	}
	return cat, nil
}

func (c *Catalog) Questions(categoryID uint) ([]models.Question, error) {
	if _, err := c.Category(categoryID); err != nil {
		return nil, err
	}
	qs := c.questions[categoryID]
	out := make([]models.Question, len(qs))
	copy(out, qs)
	return out, nil
}

func (c *Catalog) Len() int {
	return len(c.categories)
}

// ParseAnswer accepts the accented "não" as well as the canonical values.
func ParseAnswer(raw string) (models.Answer, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sim":
		return models.AnswerYes, nil
	case "nao", "não":
		return models.AnswerNo, nil
	case "nao_se_aplica", "não_se_aplica":
		return models.AnswerNotApplicable, nil
	}
	return "", apperr.Validation("answer", "must be sim, nao or nao_se_aplica, got %q", raw)
}

// ValidateRound requires exactly one valid answer per question of the category.
func ValidateRound(questions []models.Question, answers map[uint]string) (map[uint]models.Answer, error) {
	expected := make(map[uint]bool, len(questions))
	for _, q := range questions {
		expected[q.ID] = true
	}

	foreign := make([]uint, 0)
	for id := range answers {
		if !expected[id] {
			foreign = append(foreign, id)
		}
	}
	if len(foreign) > 0 {
		sort.Slice(foreign, func(i, j int) bool { return foreign[i] < foreign[j] })
		return nil, apperr.Validation("answers", "question %d does not belong to this category", foreign[0])
	}

	parsed := make(map[uint]models.Answer, len(questions))
	for _, q := range questions {
		raw, ok := answers[q.ID]
		if !ok {
			return nil, apperr.Validation("answers", "question %d is unanswered", q.ID)
		}
		a, err := ParseAnswer(raw)
		if err != nil {
			return nil, apperr.Validation("answers", "question %d: %s", q.ID, err.Error())
		}
		parsed[q.ID] = a
	}
	return parsed, nil
}

// RoundProgress is the fraction of categories completed, in [0, 1].
func RoundProgress(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return float64(completed) / float64(total)
}
