package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ward-rounds/internal/apperr"
	"ward-rounds/internal/clinical"
	"ward-rounds/internal/models"
)

func TestCapdRecordAndLatest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	preview, err := env.capd.Evaluate(uniformItems(2))
	require.NoError(t, err)
	assert.Equal(t, 16, preview.Score)

	record, err := env.capd.Record(ctx, 1, uniformItems(3), nil)
	require.NoError(t, err)
	assert.Equal(t, 24, record.Scale.Score)
	assert.Equal(t, clinical.SedationUnderSedated, record.Result.Sedation)
	assert.Equal(t, clinical.DeliriumProbable, record.Result.Delirium)
	require.NotNil(t, record.Scale.Items.Attention)
	assert.Equal(t, 3, *record.Scale.Items.Attention)

	latest, err := env.capd.Latest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, record.Scale.ID, latest.Scale.ID)

	history, err := env.capd.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history.Scales, 3)
}

func TestCapdHistoryOrdersMixedOffsets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// recorded first, but 09:00-03:00 is 12:00 UTC
	env.clock.t = start.In(time.FixedZone("BRT", -3*60*60))
	later, err := env.capd.Record(ctx, 4, uniformItems(1), nil)
	require.NoError(t, err)

	env.clock.t = start.Add(-time.Hour)
	earlier, err := env.capd.Record(ctx, 4, uniformItems(2), nil)
	require.NoError(t, err)

	history, err := env.capd.History(ctx, 4)
	require.NoError(t, err)
	require.Len(t, history.Scales, 2)
	assert.Equal(t, earlier.Scale.ID, history.Scales[0].ID)
	assert.Equal(t, later.Scale.ID, history.Scales[1].ID)
	assert.Equal(t, later.Scale.ID, history.Latest.Scale.ID)
}

func TestCapdErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	items := uniformItems(1)
	items["attention"] = 5
	_, err := env.capd.Record(ctx, 1, items, nil)
	assert.True(t, apperr.IsValidation(err))

	_, err = env.capd.Record(ctx, 99, uniformItems(1), nil)
	assert.True(t, apperr.IsNotFound(err))

	_, err = env.capd.Latest(ctx, 4)
	assert.True(t, apperr.IsNotFound(err), "patient without evaluations")

	history, err := env.capd.History(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, history.Scales)
	assert.Nil(t, history.Latest)
}

func TestRoundSubmit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	overview, err := env.rounds.Overview(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", overview.Day)
	assert.Len(t, overview.Categories, env.catalog.Len())
	assert.Zero(t, overview.Completed)

	_, err = env.rounds.Submit(ctx, 1, 1, map[uint]string{1: "sim", 2: "nao"}, nil)
	assert.True(t, apperr.IsValidation(err), "question 3 unanswered")

	_, err = env.rounds.Submit(ctx, 1, 1, map[uint]string{1: "sim", 2: "nao", 3: "sim", 4: "sim"}, nil)
	assert.True(t, apperr.IsValidation(err), "question 4 belongs to another category")

	answers := map[uint]string{1: "sim", 2: "não", 3: "nao_se_aplica"}
	overview, err = env.rounds.Submit(ctx, 1, 1, answers, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, overview.Completed)
	assert.InDelta(t, 0.1, overview.Progress, 0.0001)

	overview, err = env.rounds.Submit(ctx, 1, 1, answers, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, overview.Completed, "resubmitting keeps one completion")

	questions, err := env.rounds.Questions(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, questions.DoneToday)
	assert.Len(t, questions.Questions, 3)

	env.clock.Advance(24 * time.Hour)
	overview, err = env.rounds.Overview(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, overview.Completed, "a new day starts empty")
}

func TestRoundUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.rounds.Submit(context.Background(), 1, 42, map[uint]string{}, nil)
	assert.True(t, apperr.IsNotFound(err))
}

func TestPatientListIncludesProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.rounds.Submit(ctx, 2, 5, map[uint]string{10: "nao"}, nil)
	require.NoError(t, err)

	all, err := env.patients.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, 1, all[0].BedNumber)
	assert.Equal(t, 1, all[0].ActiveDevices, "removed devices are not in use")
	require.NotNil(t, all[0].LatestCapdScore)
	assert.Equal(t, 11, *all[0].LatestCapdScore)
	assert.Equal(t, 1, all[1].CompletedCategories)
	assert.Nil(t, all[3].LatestCapdScore)

	byName, err := env.patients.List(ctx, "PEDRO")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Pedro Henrique Alves", byName[0].Name)

	byBed, err := env.patients.List(ctx, "4")
	require.NoError(t, err)
	require.Len(t, byBed, 1)
	assert.Equal(t, 4, byBed[0].BedNumber)
}

func TestCareRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.records.AddDevice(ctx, 4, DeviceInput{Name: "PICC", Location: "Braço D", StartDate: "2024-06-09", RemovalDate: strPtr("2024-06-01")}, nil)
	assert.True(t, apperr.IsValidation(err), "removal before insertion")

	device, err := env.records.AddDevice(ctx, 4, DeviceInput{Name: "PICC", Location: "Braço D", StartDate: "2024-06-09"}, nil)
	require.NoError(t, err)

	_, err = env.records.SetDeviceRemoval(ctx, 4, device.ID, "10/06/2024", nil)
	assert.True(t, apperr.IsValidation(err))
	removed, err := env.records.SetDeviceRemoval(ctx, 4, device.ID, "2024-06-10", nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", *removed.RemovalDate)

	assert.True(t, apperr.IsNotFound(env.records.ArchiveDevice(ctx, 3, device.ID, nil)), "records are scoped to their patient")
	require.NoError(t, env.records.ArchiveDevice(ctx, 4, device.ID, nil))

	exam, err := env.records.AddExam(ctx, 4, ExamInput{Name: "PCR", Date: "2024-06-10"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ExamResultPending, exam.Result)
	_, err = env.records.AddExam(ctx, 4, ExamInput{Name: "PCR", Date: "2024-06-10", Result: "Positivo"}, nil)
	assert.True(t, apperr.IsValidation(err))

	updated, err := env.records.UpdateExam(ctx, 4, exam.ID, ExamUpdate{Date: "2024-06-11", Observation: "Repetir"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-11", updated.Date)
	assert.Equal(t, models.ExamResultPending, updated.Result)

	medication, err := env.records.AddMedication(ctx, 4, MedicationInput{Name: "Dipirona", Dosage: "15 mg/kg", StartDate: "2024-06-10"}, nil)
	require.NoError(t, err)
	_, err = env.records.SetMedicationEnd(ctx, 4, medication.ID, "2024-06-09", nil)
	assert.True(t, apperr.IsValidation(err))

	surgery, err := env.records.AddSurgery(ctx, 4, SurgeryInput{Name: "Gastrostomia", Surgeon: "Dra. Lima", Date: "2024-06-10"}, nil)
	require.NoError(t, err)
	_, err = env.records.UpdateSurgery(ctx, 4, surgery.ID, SurgeryInput{Name: "Gastrostomia", Surgeon: "", Date: "2024-06-10"}, nil)
	assert.True(t, apperr.IsValidation(err))

	active, err := env.patients.Active(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, active.Devices, "archived device is hidden")
	assert.Len(t, active.Medications, 1)
	assert.Len(t, active.Exams, 1)

	logs, err := env.auditRepo.ListRecent(ctx, 50)
	require.NoError(t, err)
	assert.NotEmpty(t, logs)
}

func TestHistoryReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	timeline, err := env.history.Timeline(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, timeline)
	assert.Equal(t, "2024-06-10", timeline[0].Date, "alert deadline is the newest event")
	for i := 1; i < len(timeline); i++ {
		assert.Greater(t, timeline[i-1].Date, timeline[i].Date)
	}

	require.NoError(t, env.records.ArchiveExam(ctx, 1, 1, nil))

	report, err := env.history.Report(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, report.Active.Exams, 1)
	assert.Len(t, report.Surgeries, 1)
	require.NotNil(t, report.LatestCapd)
	assert.Equal(t, 11, report.LatestCapd.Scale.Score)
	require.Len(t, report.ActiveAlerts, 1)
	assert.True(t, report.GeneratedAt.Equal(start))

	page, err := env.history.RenderReportHTML(report)
	require.NoError(t, err)
	html := string(page)
	assert.Contains(t, html, "Ana Clara Souza")
	assert.Contains(t, html, "Traqueostomia")
	assert.Contains(t, html, "Pontuação 11")
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))

	_, err = env.history.Timeline(ctx, 99)
	assert.True(t, apperr.IsNotFound(err))
}

func TestReferenceData(t *testing.T) {
	env := newTestEnv(t)
	ref := NewReferenceData(env.catalog, env.seed.Options)

	require.Len(t, ref.Categories, env.catalog.Len())
	assert.Len(t, ref.Categories[0].Questions, 3)
	assert.Len(t, ref.CapdItems, 8)
	assert.Equal(t, []string{"Pendente", "Normal", "Alterado"}, ref.Options.ExamStatuses)
}
