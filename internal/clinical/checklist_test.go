package clinical

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ward-rounds/internal/apperr"
	"ward-rounds/internal/models"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(
		[]models.Category{{ID: 1, Name: "Nutrição"}, {ID: 2, Name: "Respiratório"}},
		[]models.Question{
			{ID: 11, CategoryID: 1, Text: "Dieta enteral em progressão?"},
			{ID: 12, CategoryID: 1, Text: "Meta calórica atingida?"},
			{ID: 21, CategoryID: 2, Text: "Avaliado teste de respiração espontânea?"},
		},
	)
	require.NoError(t, err)
	return catalog
}

func TestCatalogLookups(t *testing.T) {
	catalog := testCatalog(t)

	assert.Equal(t, 2, catalog.Len())
	qs, err := catalog.Questions(1)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, uint(11), qs[0].ID)

	_, err = catalog.Questions(99)
	assert.True(t, apperr.IsNotFound(err))

	cats := catalog.Categories()
	cats[0].Name = "mutated"
	again, _ := catalog.Category(1)
	assert.Equal(t, "Nutrição", again.Name)
}

func TestNewCatalogRejectsInconsistentData(t *testing.T) {
	_, err := NewCatalog([]models.Category{{ID: 1}}, []models.Question{{ID: 1, CategoryID: 2}})
	assert.Error(t, err)

	_, err = NewCatalog([]models.Category{{ID: 1}, {ID: 1}}, nil)
	assert.Error(t, err)
}

func TestParseAnswer(t *testing.T) {
	for raw, want := range map[string]models.Answer{
		"sim":           models.AnswerYes,
		"não":           models.AnswerNo,
		"NAO":           models.AnswerNo,
		"nao_se_aplica": models.AnswerNotApplicable,
	} {
		got, err := ParseAnswer(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := ParseAnswer("talvez")
	assert.True(t, apperr.IsValidation(err))
}

func TestValidateRound(t *testing.T) {
	qs, err := testCatalog(t).Questions(1)
	require.NoError(t, err)

	parsed, err := ValidateRound(qs, map[uint]string{11: "sim", 12: "não"})
	require.NoError(t, err)
	assert.Equal(t, models.AnswerNo, parsed[12])

	_, err = ValidateRound(qs, map[uint]string{11: "sim"})
	assert.True(t, apperr.IsValidation(err))

	_, err = ValidateRound(qs, map[uint]string{11: "sim", 12: "sim", 21: "sim"})
	assert.True(t, apperr.IsValidation(err))

	_, err = ValidateRound(qs, map[uint]string{11: "sim", 12: "?"})
	assert.True(t, apperr.IsValidation(err))
}

func TestRoundProgress(t *testing.T) {
	assert.Equal(t, 0.0, RoundProgress(0, 0))
	assert.Equal(t, 0.25, RoundProgress(3, 12))
	assert.Equal(t, 1.0, RoundProgress(5, 4))
}

func TestDates(t *testing.T) {
	_, err := ValidateDate("start_date", "2024-13-01")
	assert.True(t, apperr.IsValidation(err))

	assert.NoError(t, ValidateDateRange("removal_date", "2024-01-01", "2024-01-01"))
	assert.True(t, apperr.IsValidation(ValidateDateRange("removal_date", "2024-01-05", "2024-01-01")))

	loc := time.FixedZone("BRT", -3*60*60)
	assert.Equal(t, "2024-01-01", DayKey(time.Date(2024, 1, 2, 2, 0, 0, 0, time.UTC), loc))
}
