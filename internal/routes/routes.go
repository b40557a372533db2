package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-site/internal/audit"
	"github.com/BruksfildServices01/booking-site/internal/config"
	domain "github.com/BruksfildServices01/booking-site/internal/domain/booking"
	"github.com/BruksfildServices01/booking-site/internal/handlers"
	infraRepo "github.com/BruksfildServices01/booking-site/internal/infra/repository"
	"github.com/BruksfildServices01/booking-site/internal/locker"
	"github.com/BruksfildServices01/booking-site/internal/middleware"
	"github.com/BruksfildServices01/booking-site/internal/timezone"
	ucBooking "github.com/BruksfildServices01/booking-site/internal/usecase/booking"
)

// Deps are the process-wide singletons built in main. Redis is optional.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  *redis.Client
	Log    *zap.Logger
	Audit  *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)

	var dayLocker domain.Locker
	var limiter middleware.Limiter
	if d.Redis != nil {
		dayLocker = locker.NewRedisLocker(d.Redis, cfg.BookingLockTTL, cfg.BookingLockWait, d.Log)
		limiter = middleware.NewRedisLimiter(d.Redis, cfg.PublicRateLimit, cfg.PublicRateWindow)
	} else {
		dayLocker = locker.NewLocalLocker(cfg.BookingLockWait)
		limiter = middleware.NewLocalLimiter(cfg.PublicRateLimit, cfg.PublicRateWindow)
	}

	defaults := ucBooking.Defaults{
		Timezone: cfg.DefaultTimezone,
		SlotStep: cfg.SlotStepMinutes,
	}
	clock := timezone.Clock(timezone.SystemClock)

	// ======================================================
	// USE CASES: BOOKINGS
	// ======================================================
	getAvailabilityUC := ucBooking.NewGetAvailability(bookingRepo, defaults, clock)
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, dayLocker, d.Audit, defaults, clock, d.Log)
	changeStatusUC := ucBooking.NewChangeStatus(bookingRepo, d.Audit, clock)
	cancelByClientUC := ucBooking.NewCancelByClient(bookingRepo, d.Audit, defaults, clock)
	listByDateUC := ucBooking.NewListBookingsByDate(bookingRepo)
	listByMonthUC := ucBooking.NewListBookingsByMonth(bookingRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, cfg)
	meHandler := handlers.NewMeHandler(d.DB)
	settingsHandler := handlers.NewSettingsHandler(d.DB, cfg, d.Audit)
	serviceHandler := handlers.NewServiceHandler(d.DB, d.Audit)
	weeklyRulesHandler := handlers.NewWeeklyRulesHandler(d.DB, d.Audit)
	serviceSlotsHandler := handlers.NewServiceSlotsHandler(d.DB, d.Audit)
	blocksHandler := handlers.NewScheduleBlocksHandler(d.DB, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	bookingHandler := handlers.NewBookingHandler(
		getAvailabilityUC,
		createBookingUC,
		changeStatusUC,
		listByDateUC,
		listByMonthUC,
	)

	publicHandler := handlers.NewPublicHandler(
		bookingRepo,
		getAvailabilityUC,
		createBookingUC,
		cancelByClientUC,
	)

	rateLimited := middleware.RateLimit(limiter, d.Log)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public/:slug")
		{
			publicAPI.GET("", publicHandler.GetProfile)
			publicAPI.GET("/available-slots", publicHandler.AvailableSlots)
			publicAPI.POST("/bookings", rateLimited, publicHandler.CreateBooking)
			publicAPI.POST("/bookings/:token/cancel", rateLimited, publicHandler.CancelBooking)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", rateLimited, authHandler.Register)
		api.POST("/auth/login", rateLimited, authHandler.Login)

		// ------------------------------
		// OWNER
		// ------------------------------
		me := api.Group("/me")
		me.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			me.GET("", meHandler.GetMe)

			me.GET("/settings", settingsHandler.Get)
			me.PUT("/settings", settingsHandler.Update)

			me.GET("/services", serviceHandler.List)
			me.POST("/services", serviceHandler.Create)
			me.PATCH("/services/:id", serviceHandler.Update)

			me.GET("/services/:id/availability", serviceSlotsHandler.List)
			me.POST("/services/:id/availability", serviceSlotsHandler.Create)
			me.PATCH("/services/:id/availability/:slotId", serviceSlotsHandler.Update)
			me.DELETE("/services/:id/availability/:slotId", serviceSlotsHandler.Delete)

			me.GET("/weekly-rules", weeklyRulesHandler.List)
			me.POST("/weekly-rules", weeklyRulesHandler.Create)
			me.PATCH("/weekly-rules/:id", weeklyRulesHandler.Update)
			me.DELETE("/weekly-rules/:id", weeklyRulesHandler.Delete)

			me.GET("/schedule-blocks", blocksHandler.List)
			me.POST("/schedule-blocks", blocksHandler.Create)
			me.PATCH("/schedule-blocks/:id", blocksHandler.Update)
			me.DELETE("/schedule-blocks/:id", blocksHandler.Delete)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			me.GET("/available-slots", bookingHandler.AvailableSlots)
			me.POST("/bookings", bookingHandler.Create)
			me.GET("/bookings", bookingHandler.ListByDate)
			me.GET("/bookings/month", bookingHandler.ListByMonth)
			me.PUT("/bookings/:id/status", bookingHandler.UpdateStatus)

			me.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
