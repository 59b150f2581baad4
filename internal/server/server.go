package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/petalbook/internal/auth"
	authdomain "github.com/smallbiznis/petalbook/internal/auth/domain"
	"github.com/smallbiznis/petalbook/internal/auth/session"
	"github.com/smallbiznis/petalbook/internal/authorization"
	"github.com/smallbiznis/petalbook/internal/clock"
	"github.com/smallbiznis/petalbook/internal/config"
	"github.com/smallbiznis/petalbook/internal/migration"
	"github.com/smallbiznis/petalbook/internal/observability"
	obsmiddleware "github.com/smallbiznis/petalbook/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/petalbook/internal/observability/metrics"
	"github.com/smallbiznis/petalbook/internal/organization"
	organizationdomain "github.com/smallbiznis/petalbook/internal/organization/domain"
	"github.com/smallbiznis/petalbook/internal/seed"
	"github.com/smallbiznis/petalbook/internal/user"
	userdomain "github.com/smallbiznis/petalbook/internal/user/domain"
	"github.com/smallbiznis/petalbook/internal/week"
	weekdomain "github.com/smallbiznis/petalbook/internal/week/domain"
	"github.com/smallbiznis/petalbook/internal/withdrawal"
	withdrawaldomain "github.com/smallbiznis/petalbook/internal/withdrawal/domain"
	"github.com/smallbiznis/petalbook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	observability.Module,
	clock.Module,
	db.Module,
	migration.Module,
	fx.Provide(newGenID),
	fx.Provide(registerGin),
	authorization.Module,
	auth.Module,
	organization.Module,
	user.Module,
	week.Module,
	withdrawal.Module,
	seed.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           !cfg.IsProduction(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", httpMetrics.Handler())

	return r
}

func registerGin(cfg config.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(cfg, httpMetrics)
}

func newGenID() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.UsingDefaultSecrets() {
				log.Warn("jwt secrets are the built-in defaults, set JWT_ACCESS_SECRET and JWT_REFRESH_SECRET")
			}
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	authsvc       authdomain.Service
	sessions      *session.Manager
	genID         *snowflake.Node
	authzSvc      authorization.Service
	usersvc       userdomain.Service
	orgsvc        organizationdomain.Service
	weeksvc       weekdomain.Service
	withdrawalsvc withdrawaldomain.Service
	loginLimiter  *rateLimiter
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	Authsvc       authdomain.Service
	Sessions      *session.Manager
	GenID         *snowflake.Node
	AuthzSvc      authorization.Service
	Usersvc       userdomain.Service
	Orgsvc        organizationdomain.Service
	Weeksvc       weekdomain.Service
	Withdrawalsvc withdrawaldomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		authsvc:       p.Authsvc,
		sessions:      p.Sessions,
		genID:         p.GenID,
		authzSvc:      p.AuthzSvc,
		usersvc:       p.Usersvc,
		orgsvc:        p.Orgsvc,
		weeksvc:       p.Weeksvc,
		withdrawalsvc: p.Withdrawalsvc,
		loginLimiter:  newRateLimiter(10, time.Minute),
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.LoginRateLimit(), s.Register)
	auth.POST("/login", s.LoginRateLimit(), s.Login)
	auth.POST("/refresh", s.Refresh)
	auth.POST("/logout", s.AuthRequired(), s.Logout)
	auth.POST("/change-password", s.AuthRequired(), s.ChangePassword)
	auth.GET("/profile", s.AuthRequired(), s.Profile)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	// -------- Users --------
	api.GET("/users", s.ListUsers)
	api.POST("/users", s.CreateUser)
	api.GET("/users/:id", s.GetUser)
	api.PATCH("/users/:id/role", s.UpdateUserRole)
	api.DELETE("/users/:id", s.DeleteUser)

	// -------- Organizations --------
	api.GET("/organizations/:orgId", s.GetOrganization)
	api.PATCH("/organizations/:orgId", s.UpdateOrganization)

	// -------- Weeks --------
	api.GET("/weeks", s.ListWeeks)
	api.POST("/weeks", s.CreateWeek)
	api.GET("/weeks/summary", s.GetWeekSummary)
	api.GET("/weeks/dashboard", s.GetDashboard)
	api.GET("/weeks/:id", s.GetWeek)
	api.PATCH("/weeks/:id", s.UpdateWeek)
	api.DELETE("/weeks/:id", s.DeleteWeek)

	// -------- Withdrawals --------
	api.GET("/withdrawals", s.ListWithdrawals)
	api.POST("/withdrawals", s.CreateWithdrawal)
	api.GET("/withdrawals/summary", s.GetWithdrawalSummary)
	api.GET("/withdrawals/:id", s.GetWithdrawal)
	api.DELETE("/withdrawals/:id", s.DeleteWithdrawal)
}
