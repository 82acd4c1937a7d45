package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ward-rounds/internal/apperr"
	"ward-rounds/internal/models"
	"ward-rounds/internal/repository"
)

func TestCreateTaskStartsAsAlert(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task, err := env.tasks.Create(ctx, CreateTaskInput{
		PatientID:      3,
		CategoryID:     1,
		Description:    "  Ajustar dieta  ",
		Responsible:    "Nutrição",
		DeadlineOption: "2 horas",
	}, nil)
	require.NoError(t, err)
	assert.NotZero(t, task.ID)
	assert.Equal(t, models.TaskStatusAlert, task.Status)
	assert.Equal(t, "Ajustar dieta", task.Description)
	assert.True(t, task.Deadline.Equal(start.Add(2*time.Hour)))

	past, err := env.tasks.Create(ctx, CreateTaskInput{
		PatientID:   3,
		CategoryID:  1,
		Description: "Pesar paciente",
		Responsible: "Enfermagem",
		Deadline:    start.Add(-time.Hour).Format(time.RFC3339),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusAlert, past.Status, "a past deadline does not skip triage")
}

func TestCreateTaskValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	valid := CreateTaskInput{PatientID: 1, CategoryID: 1, Description: "x", Responsible: "y", DeadlineOption: "1 hora"}

	tests := []struct {
		name     string
		mutate   func(in *CreateTaskInput)
		notFound bool
	}{
		{"missing description", func(in *CreateTaskInput) { in.Description = " " }, false},
		{"missing responsible", func(in *CreateTaskInput) { in.Responsible = "" }, false},
		{"missing deadline", func(in *CreateTaskInput) { in.DeadlineOption = "" }, false},
		{"bad deadline option", func(in *CreateTaskInput) { in.DeadlineOption = "amanhã" }, false},
		{"bad deadline timestamp", func(in *CreateTaskInput) { in.Deadline = "2024-13-01" }, false},
		{"unknown category", func(in *CreateTaskInput) { in.CategoryID = 99 }, true},
		{"unknown patient", func(in *CreateTaskInput) { in.PatientID = 99 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := env.tasks.Create(ctx, in, nil)
			require.Error(t, err)
			if tt.notFound {
				assert.True(t, apperr.IsNotFound(err), "got %v", err)
			} else {
				assert.True(t, apperr.IsValidation(err), "got %v", err)
			}
		})
	}
}

func TestListTasksFiltersAndSorts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	all, err := env.tasks.List(ctx, repository.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Deadline.Before(all[i-1].Deadline), "deadline ascending")
	}

	alerts, err := env.tasks.List(ctx, repository.TaskFilter{Status: models.TaskStatusAlert, PatientID: 1})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, uint(6), alerts[0].CategoryID)

	_, err = env.tasks.List(ctx, repository.TaskFilter{Status: "pendente"})
	assert.True(t, apperr.IsValidation(err))
}

func TestListTasksOrdersMixedOffsets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 10:00-03:00 is 13:00 UTC, one hour after the UTC deadline below
	late, err := env.tasks.Create(ctx, CreateTaskInput{
		PatientID: 4, CategoryID: 1, Description: "late", Responsible: "Enfermagem",
		Deadline: "2024-06-11T10:00:00-03:00",
	}, nil)
	require.NoError(t, err)
	early, err := env.tasks.Create(ctx, CreateTaskInput{
		PatientID: 4, CategoryID: 1, Description: "early", Responsible: "Enfermagem",
		Deadline: "2024-06-11T12:00:00Z",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, late.Deadline.Location())

	tasks, err := env.tasks.List(ctx, repository.TaskFilter{PatientID: 4})
	require.NoError(t, err)
	order := map[uint]int{}
	for i, task := range tasks {
		order[task.ID] = i
		if i > 0 {
			assert.False(t, task.Deadline.Before(tasks[i-1].Deadline), "deadline ascending")
		}
	}
	assert.Less(t, order[early.ID], order[late.ID])
}

func TestSweepRespectsTriageWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.tasks.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Evaluated, "fresh alerts wait for triage")
	assert.Zero(t, result.Updated)
	assert.Empty(t, result.NewlyOverdue)

	env.clock.Advance(3 * time.Hour)
	result, err = env.tasks.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Evaluated)
	assert.Equal(t, 2, result.Updated)
	require.Len(t, result.NewlyOverdue, 1)
	assert.Equal(t, uint(3), result.NewlyOverdue[0].CategoryID)

	overdue, err := env.tasks.Get(ctx, result.NewlyOverdue[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusOverdue, overdue.Status)
	require.NotNil(t, overdue.OverdueSince)
	assert.True(t, overdue.OverdueSince.Equal(env.clock.Now()))

	onTime, err := env.tasks.List(ctx, repository.TaskFilter{Status: models.TaskStatusOnTime})
	require.NoError(t, err)
	assert.Len(t, onTime, 2)

	again, err := env.tasks.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Updated, "a second sweep at the same instant changes nothing")
}

func TestSweepNeverOverwritesDone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task, err := env.tasks.Create(ctx, CreateTaskInput{
		PatientID: 4, CategoryID: 2, Description: "Balanço", Responsible: "Enfermagem", DeadlineOption: "1 hora",
	}, nil)
	require.NoError(t, err)

	done, err := env.tasks.MarkDone(ctx, task.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, done.Status)
	require.NotNil(t, done.CompletedAt)

	env.clock.Advance(48 * time.Hour)
	_, err = env.tasks.Sweep(ctx)
	require.NoError(t, err)

	got, err := env.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, got.Status)
	assert.Nil(t, got.OverdueSince)

	// A stale evaluation computed before the task was concluded is rejected.
	stale := *task
	stale.Status = models.TaskStatusOverdue
	applied, err := env.taskRepo.ApplyEvaluation(ctx, stale)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestMarkDoneIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.tasks.MarkDone(ctx, 1, nil)
	require.NoError(t, err)
	env.clock.Advance(time.Hour)
	second, err := env.tasks.MarkDone(ctx, 1, nil)
	require.NoError(t, err)
	assert.True(t, first.CompletedAt.Equal(*second.CompletedAt))

	_, err = env.tasks.MarkDone(ctx, 999, nil)
	assert.True(t, apperr.IsNotFound(err))
}

func TestJustify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	overdue, err := env.tasks.List(ctx, repository.TaskFilter{Status: models.TaskStatusOverdue})
	require.NoError(t, err)
	require.Len(t, overdue, 1)

	_, err = env.tasks.Justify(ctx, overdue[0].ID, "   ", nil)
	assert.True(t, apperr.IsValidation(err))

	justified, err := env.tasks.Justify(ctx, overdue[0].ID, " Paciente em procedimento ", nil)
	require.NoError(t, err)
	require.NotNil(t, justified.Justification)
	assert.Equal(t, "Paciente em procedimento", *justified.Justification)

	// Still allowed once concluded, because it was overdue.
	_, err = env.tasks.MarkDone(ctx, overdue[0].ID, nil)
	require.NoError(t, err)
	_, err = env.tasks.Justify(ctx, overdue[0].ID, "Concluída com atraso", nil)
	assert.NoError(t, err)

	alerts, err := env.tasks.List(ctx, repository.TaskFilter{Status: models.TaskStatusAlert})
	require.NoError(t, err)
	_, err = env.tasks.Justify(ctx, alerts[0].ID, "Sem motivo", nil)
	assert.True(t, apperr.IsValidation(err), "tasks that were never overdue cannot be justified")
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.tasks.Create(ctx, CreateTaskInput{
		PatientID: 4, CategoryID: 6, Description: "Fisioterapia respiratória", Responsible: "Fisioterapia", DeadlineOption: "4 horas",
	}, nil)
	require.NoError(t, err)

	dashboard, err := env.tasks.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), dashboard.Total)
	assert.Equal(t, int64(3), dashboard.Counts[models.TaskStatusAlert])
	assert.Equal(t, int64(1), dashboard.Counts[models.TaskStatusOnTime])
	assert.Equal(t, int64(1), dashboard.Counts[models.TaskStatusOverdue])
	assert.Equal(t, int64(1), dashboard.Counts[models.TaskStatusDone])

	require.Len(t, dashboard.AlertsByCategory, 2)
	top := dashboard.AlertsByCategory[0]
	assert.Equal(t, uint(6), top.CategoryID)
	assert.Equal(t, "Respiratório", top.CategoryName)
	assert.Equal(t, int64(2), top.Count)
	assert.InDelta(t, 100.0, top.Percentage, 0.001)
	assert.InDelta(t, 50.0, dashboard.AlertsByCategory[1].Percentage, 0.001)
}

func TestSweepStopsOnCancelledContext(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.tasks.Sweep(ctx)
	assert.Error(t, err)
}
