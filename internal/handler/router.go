package handler

import (
	"ward-rounds/internal/config"
	"ward-rounds/internal/middleware"
	"ward-rounds/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups every HTTP handler the router serves
type Handlers struct {
	Auth      *AuthHandler
	Patients  *PatientHandler
	Records   *CareRecordHandler
	Capd      *CapdHandler
	Tasks     *TaskHandler
	Rounds    *RoundHandler
	History   *HistoryHandler
	Reference *ReferenceHandler
	Tokens    *utils.TokenIssuer
	CORS      config.CORSConfig
	Logger    zerolog.Logger
}

func NewRouter(h Handlers) *gin.Engine {
	RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(h.CORS))
	r.Use(middleware.RequestLogger(h.Logger))
	r.Use(middleware.Identify(h.Tokens))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": "ward-rounds",
		})
	})

	r.POST("/auth/login", h.Auth.Login)

	me := r.Group("/me", middleware.RequireStaff())
	{
		me.GET("", h.Auth.Me)
		me.PUT("", h.Auth.UpdateMe)
		me.PATCH("/theme", h.Auth.SetTheme)
	}

	r.GET("/reference", h.Reference.Reference)
	r.GET("/audit-logs", h.Reference.AuditLogs)

	r.GET("/capd/items", h.Capd.Items)
	r.POST("/capd/evaluate", h.Capd.Evaluate)

	patients := r.Group("/patients")
	{
		patients.GET("", h.Patients.List)
		patients.GET("/:id", h.Patients.Get)
		patients.GET("/:id/active", h.Patients.Active)

		patients.POST("/:id/devices", h.Records.AddDevice)
		patients.PUT("/:id/devices/:recordId", h.Records.UpdateDevice)
		patients.PATCH("/:id/devices/:recordId/removal", h.Records.SetDeviceRemoval)
		patients.DELETE("/:id/devices/:recordId", h.Records.ArchiveDevice)

		patients.POST("/:id/medications", h.Records.AddMedication)
		patients.PUT("/:id/medications/:recordId", h.Records.UpdateMedication)
		patients.PATCH("/:id/medications/:recordId/end", h.Records.SetMedicationEnd)
		patients.DELETE("/:id/medications/:recordId", h.Records.ArchiveMedication)

		patients.POST("/:id/exams", h.Records.AddExam)
		patients.PUT("/:id/exams/:recordId", h.Records.UpdateExam)
		patients.DELETE("/:id/exams/:recordId", h.Records.ArchiveExam)

		patients.POST("/:id/surgeries", h.Records.AddSurgery)
		patients.PUT("/:id/surgeries/:recordId", h.Records.UpdateSurgery)

		patients.POST("/:id/capd", h.Capd.Record)
		patients.GET("/:id/capd", h.Capd.History)
		patients.GET("/:id/capd/latest", h.Capd.Latest)

		patients.GET("/:id/history", h.History.Timeline)
		patients.GET("/:id/report", h.History.Report)

		patients.GET("/:id/rounds", h.Rounds.Overview)
		patients.GET("/:id/rounds/:categoryId", h.Rounds.Questions)
		patients.POST("/:id/rounds/:categoryId", h.Rounds.Submit)

		patients.POST("/:id/tasks", h.Tasks.Create)
		patients.GET("/:id/tasks", h.Tasks.ListForPatient)
	}

	tasks := r.Group("/tasks")
	{
		tasks.GET("", h.Tasks.List)
		tasks.GET("/:id", h.Tasks.Get)
		tasks.PATCH("/:id/justification", h.Tasks.Justify)
		tasks.POST("/:id/done", h.Tasks.MarkDone)
	}

	r.GET("/dashboard", h.Tasks.Dashboard)
	r.POST("/task-sweeps", h.Tasks.Sweep)

	return r
}
