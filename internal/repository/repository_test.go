package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ward-rounds/internal/apperr"
	"ward-rounds/internal/database"
	"ward-rounds/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func seedPatient(t *testing.T, repo *PatientRepository) *models.Patient {
	t.Helper()
	removal := "2024-06-08"
	p := &models.Patient{
		Name:      "Ana Clara Souza",
		BedNumber: 1,
		Devices: []models.Device{
			{Name: "CVC", Location: "Jugular D", StartDate: "2024-06-01"},
			{Name: "SNE", Location: "Narina E", StartDate: "2024-06-02", RemovalDate: &removal},
		},
		CapdScales: []models.CapdScale{
			{EvaluatedAt: time.Date(2024, 6, 7, 12, 0, 0, 0, time.UTC), Score: 11},
			{EvaluatedAt: time.Date(2024, 6, 6, 12, 0, 0, 0, time.UTC), Score: 14},
		},
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestPatientRepositoryPreloadsRecords(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepo(newTestDB(t))
	created := seedPatient(t, repo)
	require.NoError(t, repo.Create(ctx, &models.Patient{Name: "Outro", BedNumber: 0}))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Devices, 2)
	require.Len(t, got.CapdScales, 2)
	assert.Equal(t, 14, got.CapdScales[0].Score, "scales come back in evaluation order")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Outro", list[0].Name)

	_, err = repo.GetByID(ctx, 999)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(repo.Exists(ctx, 999)))
	assert.NoError(t, repo.Exists(ctx, created.ID))
}

func TestPatientRepositoryChildScopedToPatient(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepo(newTestDB(t))
	p := seedPatient(t, repo)
	other := &models.Patient{Name: "Outro", BedNumber: 2}
	require.NoError(t, repo.Create(ctx, other))

	deviceID := p.Devices[0].ID
	_, err := repo.GetDevice(ctx, other.ID, deviceID)
	assert.True(t, apperr.IsNotFound(err))

	assert.True(t, apperr.IsNotFound(repo.ArchiveDevice(ctx, other.ID, deviceID)))

	require.NoError(t, repo.ArchiveDevice(ctx, p.ID, deviceID))
	device, err := repo.GetDevice(ctx, p.ID, deviceID)
	require.NoError(t, err)
	assert.True(t, device.IsArchived)
}

func TestPatientRepositoryUpdatesChildren(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepo(newTestDB(t))
	p := seedPatient(t, repo)

	med := &models.Medication{PatientID: p.ID, Name: "Midazolam", Dosage: "0,1 mg/kg/h", StartDate: "2024-06-01"}
	require.NoError(t, repo.CreateMedication(ctx, med))
	end := "2024-06-05"
	med.EndDate = &end
	require.NoError(t, repo.UpdateMedication(ctx, med))

	got, err := repo.GetMedication(ctx, p.ID, med.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, end, *got.EndDate)

	exam := &models.Exam{PatientID: p.ID, Name: "Hemograma", Date: "2024-06-05", Result: models.ExamResultPending}
	require.NoError(t, repo.CreateExam(ctx, exam))
	require.NoError(t, repo.ArchiveExam(ctx, p.ID, exam.ID))
	archived, err := repo.GetExam(ctx, p.ID, exam.ID)
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)

	surgery := &models.Surgery{PatientID: p.ID, Name: "Traqueostomia", Surgeon: "Dr. Lima", Date: "2024-06-03"}
	require.NoError(t, repo.CreateSurgery(ctx, surgery))
	surgery.Surgeon = "Dra. Costa"
	require.NoError(t, repo.UpdateSurgery(ctx, surgery))
	gotSurgery, err := repo.GetSurgery(ctx, p.ID, surgery.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dra. Costa", gotSurgery.Surgeon)

	scales, err := repo.ListCapdScales(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, scales, 2)
}

func TestTaskRepositoryConcludedWinsOverEvaluation(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepo(newTestDB(t))
	now := time.Date(2024, 6, 8, 9, 0, 0, 0, time.UTC)

	task := &models.Task{PatientID: 1, CategoryID: 2, Description: "x", Responsible: "y",
		Deadline: now.Add(-time.Hour), Status: models.TaskStatusAlert, CreatedAt: now.Add(-2 * time.Hour)}
	require.NoError(t, repo.Create(ctx, task))

	require.NoError(t, repo.MarkDone(ctx, task.ID, now))

	stale := *task
	stale.Status = models.TaskStatusOverdue
	stale.OverdueSince = &now
	applied, err := repo.ApplyEvaluation(ctx, stale)
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, got.Status)
	assert.Nil(t, got.OverdueSince)
	require.NotNil(t, got.CompletedAt)
}

func TestTaskRepositoryQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepo(newTestDB(t))
	now := time.Date(2024, 6, 8, 9, 0, 0, 0, time.UTC)

	tasks := []models.Task{
		{PatientID: 1, CategoryID: 3, Description: "a", Responsible: "r", Deadline: now.Add(3 * time.Hour), Status: models.TaskStatusAlert},
		{PatientID: 1, CategoryID: 3, Description: "b", Responsible: "r", Deadline: now.Add(time.Hour), Status: models.TaskStatusAlert},
		{PatientID: 2, CategoryID: 5, Description: "c", Responsible: "r", Deadline: now.Add(2 * time.Hour), Status: models.TaskStatusAlert},
		{PatientID: 2, CategoryID: 5, Description: "d", Responsible: "r", Deadline: now, Status: models.TaskStatusDone},
	}
	require.NoError(t, repo.CreateBatch(ctx, tasks))

	alerts, err := repo.List(ctx, TaskFilter{Status: models.TaskStatusAlert})
	require.NoError(t, err)
	require.Len(t, alerts, 3)
	assert.Equal(t, "b", alerts[0].Description)

	byPatient, err := repo.List(ctx, TaskFilter{PatientID: 2})
	require.NoError(t, err)
	assert.Len(t, byPatient, 2)

	open, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 3)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[models.TaskStatusAlert])
	assert.Equal(t, int64(1), counts[models.TaskStatusDone])

	byCategory, err := repo.CountByCategory(ctx, models.TaskStatusAlert)
	require.NoError(t, err)
	require.Len(t, byCategory, 2)
	assert.Equal(t, CategoryCount{CategoryID: 3, Count: 2}, byCategory[0])

	require.NoError(t, repo.SetJustification(ctx, alerts[0].ID, "sem vaga"))
	got, err := repo.GetByID(ctx, alerts[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got.Justification)
	assert.Equal(t, "sem vaga", *got.Justification)

	_, err = repo.GetByID(ctx, 404)
	assert.True(t, apperr.IsNotFound(err))
}

func testCompletionStore(t *testing.T, store interface {
	CompletedCategories(ctx context.Context, patientID uint, day string) ([]uint, error)
	MarkCompleted(ctx context.Context, patientID uint, day string, categoryID uint) error
}) {
	ctx := context.Background()

	ids, err := store.CompletedCategories(ctx, 1, "2024-06-08")
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.MarkCompleted(ctx, 1, "2024-06-08", 4))
	require.NoError(t, store.MarkCompleted(ctx, 1, "2024-06-08", 2))
	require.NoError(t, store.MarkCompleted(ctx, 1, "2024-06-08", 4))
	require.NoError(t, store.MarkCompleted(ctx, 2, "2024-06-08", 1))

	ids, err = store.CompletedCategories(ctx, 1, "2024-06-08")
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 4}, ids)

	ids, err = store.CompletedCategories(ctx, 1, "2024-06-09")
	require.NoError(t, err)
	assert.Empty(t, ids, "a new day starts empty")
}

func TestChecklistRepositoryCompletions(t *testing.T) {
	testCompletionStore(t, NewChecklistRepo(newTestDB(t)))
}

func TestMemoryCompletionStore(t *testing.T) {
	testCompletionStore(t, NewMemoryCompletionStore())
}

func TestChecklistRepositoryReplacesAnswers(t *testing.T) {
	ctx := context.Background()
	repo := NewChecklistRepo(newTestDB(t))

	round := func(answer models.Answer) []models.ChecklistAnswer {
		return []models.ChecklistAnswer{
			{PatientID: 1, Day: "2024-06-08", CategoryID: 1, QuestionID: 2, Answer: answer},
			{PatientID: 1, Day: "2024-06-08", CategoryID: 1, QuestionID: 1, Answer: models.AnswerYes},
		}
	}
	require.NoError(t, repo.RecordAnswers(ctx, round(models.AnswerNo)))
	require.NoError(t, repo.RecordAnswers(ctx, round(models.AnswerNotApplicable)))

	answers, err := repo.ListAnswers(ctx, 1, "2024-06-08", 1)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, uint(1), answers[0].QuestionID)
	assert.Equal(t, models.AnswerNotApplicable, answers[1].Answer)
}

func TestStaffRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewStaffRepo(newTestDB(t))

	first, err := repo.UpsertByName(ctx, "Dra. Helena", models.Staff{Role: "Intensivista", Theme: models.ThemeLight})
	require.NoError(t, err)
	second, err := repo.UpsertByName(ctx, "Dra. Helena", models.Staff{Role: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Intensivista", second.Role)

	taken, err := repo.NameTaken(ctx, "Dra. Helena", 0)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.NameTaken(ctx, "Dra. Helena", first.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = repo.GetByID(ctx, 77)
	assert.True(t, apperr.IsNotFound(err))
}

func TestAuditRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewAuditRepo(db)
	staff, err := NewStaffRepo(db).UpsertByName(ctx, "Enf. Paula", models.Staff{})
	require.NoError(t, err)

	require.NoError(t, repo.CreateAuditLog(ctx, nil, "task_sweep", "2 tasks updated"))
	require.NoError(t, repo.CreateAuditLog(ctx, &staff.ID, "device_archived", "device 3 of patient 1"))

	logs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "device_archived", logs[0].Action)
	require.NotNil(t, logs[0].Staff)
	assert.Equal(t, "Enf. Paula", logs[0].Staff.Name)
}
