package clinical

import (
	"sort"
	"time"

	"ward-rounds/internal/apperr"
	"ward-rounds/internal/models"
)

const (
	CapdLevels       = 5
	CapdMaxItemScore = CapdLevels - 1
	CapdMaxScore     = CapdMaxItemScore * 8
)

// CapdItem is one observational item of the Cornell Assessment of Pediatric Delirium.
type CapdItem struct {
	Code   string             `json:"code"`
	Name   string             `json:"name"`
	Levels [CapdLevels]string `json:"levels"`
}

// CapdItems is the fixed questionnaire, in presentation order.
var CapdItems = []CapdItem{
	{Code: "consciousness", Name: "Estado de Consciência", Levels: [CapdLevels]string{
		"Alerta adequado", "Sonolento mas desperta", "Hipoalerta", "Letárgico", "Muito rebaixado",
	}},
	{Code: "attention", Name: "Atenção", Levels: [CapdLevels]string{
		"Normal", "Levemente desatento", "Moderadamente desatento", "Gravemente desatento", "Não responde",
	}},
	{Code: "comfort_agitation", Name: "Conforto / Agitação", Levels: [CapdLevels]string{
		"Confortável", "Inquieto", "Agitado", "Muito agitado", "Agitação perigosa",
	}},
	{Code: "movements", Name: "Movimentos", Levels: [CapdLevels]string{
		"Normais", "Movimentos diminuídos", "Movimentos anormais leves", "Movimentos anormais moderados", "Movimentos anormais graves",
	}},
	{Code: "muscle_tone", Name: "Tônus Muscular", Levels: [CapdLevels]string{
		"Normal", "Hipotonia leve", "Hipertonia/Hipotonia moderada", "Hipertonia/Hipotonia grave", "Flácido / Rígido",
	}},
	{Code: "facial_expression", Name: "Expressão Facial", Levels: [CapdLevels]string{
		"Normal", "Expressão diminuída", "Expressão ausente", "Caretas leves", "Caretas graves / face paralisada",
	}},
	{Code: "sleep_wake_cycle", Name: "Ciclo Sono–Vigília", Levels: [CapdLevels]string{
		"Normal", "Sonolência diurna leve", "Sonolência diurna/Insônia noturna", "Ciclo invertido", "Fragmentado / Inexistente",
	}},
	{Code: "environment_interaction", Name: "Interação com Ambiente", Levels: [CapdLevels]string{
		"Apropriada", "Interação diminuída", "Interação inapropriada", "Sem interação", "Não responsivo",
	}},
}

type SedationBand string

const (
	SedationDeep         SedationBand = "deep_sedation"
	SedationTarget       SedationBand = "light_moderate_target"
	SedationUnderSedated SedationBand = "under_sedation"
)

type DeliriumBand string

const (
	DeliriumProbable DeliriumBand = "probable_delirium"
	DeliriumHighRisk DeliriumBand = "high_risk"
	DeliriumLowRisk  DeliriumBand = "low_risk"
)

var sedationLabels = map[SedationBand][2]string{
	SedationDeep:         {"Sedação profunda", "Acima do alvo na maioria dos casos"},
	SedationTarget:       {"Alvo de sedação leve/moderada", "UTI pediátrica padrão"},
	SedationUnderSedated: {"Sub-sedação / dor / agitação", "Avaliar dor, delirium, desconforto"},
}

var deliriumLabels = map[DeliriumBand]string{
	DeliriumProbable: "Delirium provável",
	DeliriumHighRisk: "Alto risco de delirium",
	DeliriumLowRisk:  "Baixo risco de delirium",
}

func ClassifySedation(score int) SedationBand {
	switch {
	case score <= 10:
		return SedationDeep
	case score <= 16:
		return SedationTarget
	default:
		return SedationUnderSedated
	}
}

// ClassifyDelirium uses its own ladder. A score of 16 is both in the sedation target and probable delirium.
func ClassifyDelirium(score int) DeliriumBand {
	switch {
	case score >= 16:
		return DeliriumProbable
	case score >= 9:
		return DeliriumHighRisk
	default:
		return DeliriumLowRisk
	}
}

// CapdResult is a score with both interpretations.
type CapdResult struct {
	Score            int          `json:"score"`
	Sedation         SedationBand `json:"sedation"`
	SedationTitle    string       `json:"sedation_title"`
	SedationSubtitle string       `json:"sedation_subtitle"`
	Delirium         DeliriumBand `json:"delirium"`
	DeliriumTitle    string       `json:"delirium_title"`
}

// ScoreCapd validates every item before summing. Missing, unknown or out-of-range items fail.
func ScoreCapd(items map[string]int) (int, error) {
	known := make(map[string]bool, len(CapdItems))
	for _, item := range CapdItems {
		known[item.Code] = true
	}

	unknown := make([]string, 0)
	for code := range items {
		if !known[code] {
			unknown = append(unknown, code)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return 0, apperr.Validation(unknown[0], "is not a CAP-D item")
	}

	total := 0
	for _, item := range CapdItems {
		value, ok := items[item.Code]
		if !ok {
			return 0, apperr.Validation(item.Code, "is required")
		}
		if value < 0 || value > CapdMaxItemScore {
			return 0, apperr.Validation(item.Code, "must be between 0 and %d, got %d", CapdMaxItemScore, value)
		}
		total += value
	}
	return total, nil
}

// InterpretCapd maps a total score to its sedation and delirium bands.
func InterpretCapd(score int) (CapdResult, error) {
	if score < 0 || score > CapdMaxScore {
		return CapdResult{}, apperr.Validation("score", "must be between 0 and %d, got %d", CapdMaxScore, score)
	}
	sedation := ClassifySedation(score)
	delirium := ClassifyDelirium(score)
	return CapdResult{
		Score:            score,
		Sedation:         sedation,
		SedationTitle:    sedationLabels[sedation][0],
		SedationSubtitle: sedationLabels[sedation][1],
		Delirium:         delirium,
		DeliriumTitle:    deliriumLabels[delirium],
	}, nil
}

func EvaluateCapd(items map[string]int) (CapdResult, error) {
	score, err := ScoreCapd(items)
	if err != nil {
		return CapdResult{}, err
	}
	return InterpretCapd(score)
}

// NewCapdScale builds an unsaved scale from validated item scores. The evaluation time is stored in UTC.
func NewCapdScale(patientID uint, items map[string]int, at time.Time) (models.CapdScale, CapdResult, error) {
	result, err := EvaluateCapd(items)
	if err != nil {
		return models.CapdScale{}, CapdResult{}, err
	}
	score := func(code string) *int {
		v := items[code]
		return &v
	}
	return models.CapdScale{
		PatientID:   patientID,
		EvaluatedAt: at.UTC(),
		Score:       result.Score,
		Items: models.CapdItems{
			Consciousness:          score("consciousness"),
			Attention:              score("attention"),
			ComfortAgitation:       score("comfort_agitation"),
			Movements:              score("movements"),
			MuscleTone:             score("muscle_tone"),
			FacialExpression:       score("facial_expression"),
			SleepWakeCycle:         score("sleep_wake_cycle"),
			EnvironmentInteraction: score("environment_interaction"),
		},
	}, result, nil
}

// LatestCapd returns the scale with the greatest evaluation time, whatever the slice order.
func LatestCapd(scales []models.CapdScale) (models.CapdScale, bool) {
	if len(scales) == 0 {
		return models.CapdScale{}, false
	}
	latest := scales[0]
	for _, s := range scales[1:] {
		if s.EvaluatedAt.After(latest.EvaluatedAt) {
			latest = s
		}
	}
	return latest, true
}
