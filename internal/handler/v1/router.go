package v1

import (
	"net/http"

	"github.com/caredesk/hospital-api/internal/config"
	"github.com/caredesk/hospital-api/internal/domain"
	"github.com/caredesk/hospital-api/pkg/auth"
	"github.com/caredesk/hospital-api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Config       *config.Config
	Log          *zap.Logger
	Metrics      *metrics.Collector
	JWTManager   *auth.JWTManager
	Appointments *AppointmentHandler
	Patients     *PatientHandler
	Auth         *AuthHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	if d.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		RequestID(),
		RequestLogger(d.Log),
		Recovery(d.Log),
		CORS(d.Config.CORS),
		RateLimit(d.Config.RateLimit),
		HTTPMetrics(d.Metrics),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": d.Config.App.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", d.Auth.Login)
		authRoutes.POST("/refresh", d.Auth.Refresh)
		authRoutes.POST("/change-password", AuthRequired(d.JWTManager), d.Auth.ChangePassword)
		authRoutes.POST("/register",
			AuthRequired(d.JWTManager),
			RequireRoles(domain.RoleAdmin),
			d.Auth.RegisterUser,
		)
	}

	clinical := api.Group("")
	clinical.Use(AuthRequired(d.JWTManager))
	{
		clinical.POST("/appointments/bulk", d.Appointments.CreateBulk)
		clinical.GET("/appointments/by-reason", d.Appointments.GetByReason)
		clinical.GET("/appointments/latest", d.Appointments.GetLatest)
		clinical.DELETE("/appointments",
			RequireRoles(domain.RoleAdmin, domain.RoleReceptionist),
			d.Appointments.DeleteByOwner,
		)

		clinical.POST("/patients",
			RequireRoles(domain.RoleAdmin, domain.RoleReceptionist),
			d.Patients.Register,
		)
		clinical.GET("/patients/:id", d.Patients.Get)
		clinical.GET("/patients", d.Patients.List)
	}

	return r
}
