package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ward-rounds/internal/clinical"
	"ward-rounds/internal/database"
	"ward-rounds/internal/fixtures"
	"ward-rounds/internal/repository"
	"ward-rounds/pkg/utils"
)

var start = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type testEnv struct {
	db      *gorm.DB
	clock   *testClock
	seed    *fixtures.Seed
	catalog *clinical.Catalog

	patientRepo *repository.PatientRepository
	taskRepo    *repository.TaskRepository
	auditRepo   *repository.AuditRepository

	patients *PatientService
	records  *CareRecordService
	tasks    *TaskService
	capd     *CapdService
	rounds   *RoundService
	history  *HistoryService
	auth     *AuthService
}

// newTestEnv wires every service over a seeded in-memory database
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	seed, err := fixtures.Load("")
	require.NoError(t, err)
	catalog, err := seed.Catalog()
	require.NoError(t, err)

	env := &testEnv{
		db:          db,
		clock:       &testClock{t: start},
		seed:        seed,
		catalog:     catalog,
		patientRepo: repository.NewPatientRepo(db),
		taskRepo:    repository.NewTaskRepo(db),
		auditRepo:   repository.NewAuditRepo(db),
	}

	log := zerolog.Nop()
	audit := NewAuditor(env.auditRepo, log)
	checklist := repository.NewChecklistRepo(db)

	seeded, err := NewSeedService(env.patientRepo, env.taskRepo, seed, env.clock, log).SeedIfEmpty(ctx)
	require.NoError(t, err)
	require.True(t, seeded)

	env.patients = NewPatientService(env.patientRepo, checklist, catalog, env.clock, time.UTC)
	env.records = NewCareRecordService(env.patientRepo, audit)
	env.tasks = NewTaskService(env.taskRepo, env.patientRepo, catalog, env.clock, 15*time.Minute, audit, log)
	env.capd = NewCapdService(env.patientRepo, env.clock, audit)
	env.rounds = NewRoundService(env.patientRepo, checklist, checklist, catalog, env.clock, time.UTC, audit)
	env.history = NewHistoryService(env.patientRepo, env.taskRepo, env.clock, time.UTC)
	env.auth = NewAuthService(repository.NewStaffRepo(db), utils.NewTokenIssuer("test-secret", time.Hour), seed.StaffDefaults(), audit)
	return env
}

func uniformItems(v int) map[string]int {
	items := make(map[string]int, len(clinical.CapdItems))
	for _, item := range clinical.CapdItems {
		items[item.Code] = v
	}
	return items
}

func strPtr(s string) *string { return &s }
