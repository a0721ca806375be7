package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/petshop-scheduler/internal/auth"
	"github.com/BruksfildServices01/petshop-scheduler/internal/cache"
	"github.com/BruksfildServices01/petshop-scheduler/internal/config"
	domain "github.com/BruksfildServices01/petshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petshop-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/petshop-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/petshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/petshop-scheduler/internal/middleware"
	"github.com/BruksfildServices01/petshop-scheduler/internal/storage"
	"github.com/BruksfildServices01/petshop-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/petshop-scheduler/internal/usecase/appointment"
	ucDashboard "github.com/BruksfildServices01/petshop-scheduler/internal/usecase/dashboard"
	"github.com/BruksfildServices01/petshop-scheduler/internal/validators"
)

// Deps are the long-lived components built by the caller; the caller also
// owns their shutdown (audit dispatcher, cache).
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Audit   *audit.Dispatcher
	Cache   cache.Store
	Photos  storage.PhotoStore
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	cfg := deps.Config
	db := deps.DB

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	photos := deps.Photos
	if photos == nil {
		photos = storage.NewMemory()
	}

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.CORSMiddleware(),
	)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	// ======================================================
	// INFRA
	// ======================================================
	loc := timezone.Location(cfg.ShopTimezone)
	rules := domain.NewRules(loc, cfg.ClosedWeekdays)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	dashboardRepo := infraRepo.NewDashboardGormRepository(db)

	// ======================================================
	// USE CASES
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, rules, deps.Audit, deps.Metrics)
	updateAppointmentUC := ucAppointment.NewUpdateAppointment(appointmentRepo, rules, deps.Audit, deps.Metrics)
	changeStatusUC := ucAppointment.NewChangeStatus(appointmentRepo, deps.Audit, deps.Metrics)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, rules)
	byDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo, loc)
	upcomingUC := ucAppointment.NewListUpcoming(appointmentRepo, loc)

	statsUC := ucDashboard.NewGetStats(dashboardRepo, deps.Cache, cfg.StatsCacheTTL, loc, deps.Metrics)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(db, issuer, deps.Audit)
	meHandler := handlers.NewMeHandler(db)

	clientHandler := handlers.NewClientHandler(
		db,
		loc,
		validators.EmailChecker{CheckDomain: cfg.CheckEmailDomain},
		photos,
		deps.Audit,
		statsUC,
	)
	petHandler := handlers.NewPetHandler(db, loc, photos, deps.Audit, statsUC)
	serviceHandler := handlers.NewServiceHandler(db, deps.Audit, statsUC)

	appointmentHandler := handlers.NewAppointmentHandler(
		appointmentRepo,
		loc,
		deps.Audit,
		statsUC,
		createAppointmentUC,
		updateAppointmentUC,
		changeStatusUC,
		availabilityUC,
		byDateUC,
		upcomingUC,
	)

	dashboardHandler := handlers.NewDashboardHandler(statsUC, upcomingUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, loc)

	// ======================================================
	// PUBLIC
	// ======================================================
	r.GET("/health", healthHandler.Check)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api")

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/refresh", authHandler.Refresh)

	// ======================================================
	// API PRIVADA
	// ======================================================
	secured := api.Group("/")
	secured.Use(middleware.AuthMiddleware(issuer))
	{
		secured.GET("/auth/me", meHandler.GetMe)

		// ------------------------------
		// CLIENTS
		// ------------------------------
		secured.GET("/clients", clientHandler.List)
		secured.POST("/clients", clientHandler.Create)
		secured.GET("/clients/:id", clientHandler.Get)
		secured.PUT("/clients/:id", clientHandler.Update)
		secured.PATCH("/clients/:id", clientHandler.Update)
		secured.DELETE("/clients/:id", clientHandler.Delete)
		secured.GET("/clients/:id/details", clientHandler.Details)

		// ------------------------------
		// PETS
		// ------------------------------
		secured.GET("/pets", petHandler.List)
		secured.POST("/pets", petHandler.Create)
		secured.GET("/pets/:id", petHandler.Get)
		secured.PUT("/pets/:id", petHandler.Update)
		secured.PATCH("/pets/:id", petHandler.Update)
		secured.DELETE("/pets/:id", petHandler.Delete)
		secured.GET("/pets/:id/details", petHandler.Details)
		secured.PUT("/pets/:id/photo", petHandler.UploadPhoto)
		secured.GET("/pets/:id/photo", petHandler.GetPhoto)

		// ------------------------------
		// SERVICES
		// ------------------------------
		secured.GET("/services", serviceHandler.List)
		secured.POST("/services", serviceHandler.Create)
		secured.GET("/services/:id", serviceHandler.Get)
		secured.PUT("/services/:id", serviceHandler.Update)
		secured.PATCH("/services/:id", serviceHandler.Update)
		secured.DELETE("/services/:id", serviceHandler.Delete)

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		secured.GET("/appointments", appointmentHandler.List)
		secured.POST("/appointments", appointmentHandler.Create)
		secured.GET("/appointments/available-slots", appointmentHandler.AvailableSlots)
		secured.GET("/appointments/today", appointmentHandler.Today)
		secured.GET("/appointments/upcoming", appointmentHandler.Upcoming)
		secured.GET("/appointments/:id", appointmentHandler.Get)
		secured.PUT("/appointments/:id", appointmentHandler.Update)
		secured.PATCH("/appointments/:id", appointmentHandler.Update)
		secured.DELETE("/appointments/:id", appointmentHandler.Delete)
		secured.POST("/appointments/:id/confirm", appointmentHandler.Confirm)
		secured.POST("/appointments/:id/cancel", appointmentHandler.Cancel)
		secured.POST("/appointments/:id/complete", appointmentHandler.Complete)

		// ------------------------------
		// DASHBOARD / AUDIT
		// ------------------------------
		secured.GET("/dashboard/stats", dashboardHandler.Stats)
		secured.GET("/dashboard/upcoming", dashboardHandler.Upcoming)

		secured.GET("/audit-logs", auditLogsHandler.List)
	}
}
