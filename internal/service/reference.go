package service

import (
	"ward-rounds/internal/clinical"
	"ward-rounds/internal/fixtures"
	"ward-rounds/internal/models"
)

type CategoryWithQuestions struct {
	models.Category
	Questions []models.Question `json:"questions"`
}

// ReferenceData is the static payload the forms are built from
type ReferenceData struct {
	Categories []CategoryWithQuestions `json:"categories"`
	CapdItems  []clinical.CapdItem     `json:"capd_items"`
	Options    fixtures.Options        `json:"options"`
}

func NewReferenceData(catalog *clinical.Catalog, options fixtures.Options) *ReferenceData {
	ref := &ReferenceData{
		CapdItems: clinical.CapdItems,
		Options:   options,
	}
	for _, cat := range catalog.Categories() {
		qs, _ := catalog.Questions(cat.ID)
		ref.Categories = append(ref.Categories, CategoryWithQuestions{Category: cat, Questions: qs})
	}
	return ref
}
