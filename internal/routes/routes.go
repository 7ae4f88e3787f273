package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/coachly/call-scheduler/internal/audit"
	"github.com/coachly/call-scheduler/internal/calsync"
	"github.com/coachly/call-scheduler/internal/clock"
	"github.com/coachly/call-scheduler/internal/config"
	"github.com/coachly/call-scheduler/internal/handlers"
	"github.com/coachly/call-scheduler/internal/infra/claim"
	infraRepo "github.com/coachly/call-scheduler/internal/infra/repository"
	"github.com/coachly/call-scheduler/internal/middleware"
	"github.com/coachly/call-scheduler/internal/reminder"
	ucScheduling "github.com/coachly/call-scheduler/internal/usecase/scheduling"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	clk := clock.System{}

	schedulingRepo := infraRepo.NewSchedulingGormRepository(db)
	integrationRepo := infraRepo.NewIntegrationGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	claimCoordinator := claim.NewCoordinator(schedulingRepo, rdb)

	syncAdapter := calsync.NewAdapter(
		integrationRepo,
		time.Duration(cfg.ProviderTimeoutSeconds)*time.Second,
		calsync.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, integrationRepo),
		calsync.NewOutlookProvider(cfg.OutlookClientID, cfg.OutlookClientSecret, integrationRepo),
	)

	reminderScheduler := reminder.NewScheduler(cfg.ReminderOffsetsMinutes)

	// ======================================================
	// 🧠 USE CASES — SCHEDULING
	// ======================================================
	getProfileUC := ucScheduling.NewGetProfile(schedulingRepo)
	updateProfileUC := ucScheduling.NewUpdateProfile(schedulingRepo)
	addBlockUC := ucScheduling.NewAddBlockedSlot(schedulingRepo)
	removeBlockUC := ucScheduling.NewRemoveBlockedSlot(schedulingRepo)

	getAvailabilityUC := ucScheduling.NewGetAvailability(schedulingRepo, clk)

	proposeUC := ucScheduling.NewProposeEvent(
		schedulingRepo,
		auditDispatcher,
		clk,
	)

	respondUC := ucScheduling.NewRespondEvent(
		schedulingRepo,
		claimCoordinator,
		reminderScheduler,
		syncAdapter,
		auditDispatcher,
		clk,
	)

	cancelUC := ucScheduling.NewCancelEvent(
		schedulingRepo,
		syncAdapter,
		auditDispatcher,
		clk,
	)

	rescheduleUC := ucScheduling.NewRescheduleEvent(
		schedulingRepo,
		syncAdapter,
		auditDispatcher,
		clk,
	)

	listEventsUC := ucScheduling.NewListEvents(schedulingRepo)

	publicAccessUC := ucScheduling.NewPublicBookingAccess(
		schedulingRepo,
		cancelUC,
		rescheduleUC,
		clk,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)

	availabilityHandler := handlers.NewAvailabilityHandler(
		getProfileUC,
		updateProfileUC,
		addBlockUC,
		removeBlockUC,
		getAvailabilityUC,
	)

	eventHandler := handlers.NewEventHandler(
		getProfileUC,
		proposeUC,
		respondUC,
		cancelUC,
		rescheduleUC,
		listEventsUC,
	)

	publicBookingHandler := handlers.NewPublicBookingHandler(publicAccessUC)

	reminderHandler := handlers.NewReminderHandler(
		reminderScheduler,
		schedulingRepo,
		reminder.LogNotifier{},
		clk,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// ⚙️ INTERNO (gatilho de cron)
	// ======================================================
	r.POST("/internal/reminders/sweep", reminderHandler.Sweep)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA (token na URL)
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/bookings/:token", publicBookingHandler.View)
			publicAPI.PATCH("/bookings/:token/cancel", publicBookingHandler.Cancel)
			publicAPI.PATCH("/bookings/:token/reschedule", publicBookingHandler.Reschedule)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me/availability", availabilityHandler.GetProfile)
			secured.PUT("/me/availability", availabilityHandler.UpdateProfile)

			secured.POST("/me/availability/blocks", availabilityHandler.AddBlockedSlot)
			secured.DELETE("/me/availability/blocks/:id", availabilityHandler.RemoveBlockedSlot)

			secured.GET("/coaches/:id/slots", availabilityHandler.GetSlots)

			// ------------------------------
			// EVENTS
			// ------------------------------
			secured.POST("/me/events", eventHandler.Propose)
			secured.GET("/me/events", eventHandler.List)
			secured.POST("/me/events/:id/respond", eventHandler.Respond)
			secured.PATCH("/me/events/:id/cancel", eventHandler.Cancel)
			secured.PATCH("/me/events/:id/reschedule", eventHandler.Reschedule)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
