package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"ward-rounds/internal/clinical"
	"ward-rounds/internal/config"
	"ward-rounds/internal/database"
	"ward-rounds/internal/fixtures"
	"ward-rounds/internal/handler"
	"ward-rounds/internal/logging"
	"ward-rounds/internal/repository"
	"ward-rounds/internal/service"
	"ward-rounds/pkg/utils"
)

// app holds the wired process so each subcommand can use the parts it needs.
type app struct {
	cfg    *config.Config
	db     *gorm.DB
	logger zerolog.Logger

	tokens    *utils.TokenIssuer
	auditRepo *repository.AuditRepository
	reference *service.ReferenceData

	auth     *service.AuthService
	patients *service.PatientService
	records  *service.CareRecordService
	capd     *service.CapdService
	tasks    *service.TaskService
	rounds   *service.RoundService
	history  *service.HistoryService
	seeder   *service.SeedService
	worker   *service.WorkerService
}

func newApp(cfg *config.Config, memoryRounds bool) (*app, error) {
	logger := logging.New(cfg.Log)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	seed, err := fixtures.Load(cfg.Ward.FixturesPath)
	if err != nil {
		return nil, fmt.Errorf("load fixtures: %w", err)
	}
	catalog, err := seed.Catalog()
	if err != nil {
		return nil, fmt.Errorf("build checklist catalog: %w", err)
	}

	clock := clinical.SystemClock{}
	loc := cfg.Ward.Location

	// Repositories
	patientRepo := repository.NewPatientRepo(db)
	taskRepo := repository.NewTaskRepo(db)
	checklistRepo := repository.NewChecklistRepo(db)
	staffRepo := repository.NewStaffRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	var completions service.CompletionStore = checklistRepo
	if memoryRounds {
		completions = repository.NewMemoryCompletionStore()
		logger.Warn().Msg("checklist completions are kept in memory and reset on restart")
	}

	audit := service.NewAuditor(auditRepo, logger)
	tokens := utils.NewTokenIssuer(cfg.JWT.AccessSecret, cfg.JWT.AccessTokenExpiry)

	a := &app{
		cfg:       cfg,
		db:        db,
		logger:    logger,
		tokens:    tokens,
		auditRepo: auditRepo,
		reference: service.NewReferenceData(catalog, seed.Options),
		auth:      service.NewAuthService(staffRepo, tokens, seed.StaffDefaults(), audit),
		patients:  service.NewPatientService(patientRepo, completions, catalog, clock, loc),
		records:   service.NewCareRecordService(patientRepo, audit),
		capd:      service.NewCapdService(patientRepo, clock, audit),
		tasks:     service.NewTaskService(taskRepo, patientRepo, catalog, clock, cfg.Worker.TriageWindow, audit, logger),
		rounds:    service.NewRoundService(patientRepo, checklistRepo, completions, catalog, clock, loc, audit),
		history:   service.NewHistoryService(patientRepo, taskRepo, clock, loc),
		seeder:    service.NewSeedService(patientRepo, taskRepo, seed, clock, logger),
	}

	notifier := service.NewNotifier(cfg.SMTP, loc, logger)
	scheduler := service.NewSchedulerService(loc)
	a.worker = service.NewWorkerService(a.tasks, notifier, audit, scheduler, cfg.Worker.SweepInterval, logger)

	return a, nil
}

func (a *app) router() *gin.Engine {
	return handler.NewRouter(handler.Handlers{
		Auth:      handler.NewAuthHandler(a.auth),
		Patients:  handler.NewPatientHandler(a.patients),
		Records:   handler.NewCareRecordHandler(a.records),
		Capd:      handler.NewCapdHandler(a.capd),
		Tasks:     handler.NewTaskHandler(a.tasks, a.worker),
		Rounds:    handler.NewRoundHandler(a.rounds),
		History:   handler.NewHistoryHandler(a.history),
		Reference: handler.NewReferenceHandler(a.reference, a.auditRepo),
		Tokens:    a.tokens,
		CORS:      a.cfg.CORS,
		Logger:    a.logger,
	})
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
