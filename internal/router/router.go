package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vcambrosio/experimentepro-sub000/internal/auth"
	"github.com/vcambrosio/experimentepro-sub000/internal/checklist"
	"github.com/vcambrosio/experimentepro-sub000/internal/ledger"
	"github.com/vcambrosio/experimentepro-sub000/internal/logging"
	"github.com/vcambrosio/experimentepro-sub000/internal/metrics"
	"github.com/vcambrosio/experimentepro-sub000/internal/middleware"
	"github.com/vcambrosio/experimentepro-sub000/internal/order"
)

type Deps struct {
	Log            logrus.FieldLogger
	Metrics        *metrics.Registry
	Validator      *auth.Validator
	AllowedOrigins []string

	Checklist      *checklist.Handler
	ChecklistAdmin *checklist.AdminHandler
	Orders         *order.Handler
	Ledger         *ledger.Handler
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(d.Log))

	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	staff := []gin.HandlerFunc{
		middleware.AuthMiddleware(d.Validator),
		middleware.RequireRole(auth.RoleStaff, auth.RoleAdmin),
	}

	// ───────────────────────── ORDERS + CHECKLIST ─────────────────────────
	orders := r.Group("/orders", staff...)
	{
		orders.GET("/calendar", d.Orders.Calendar)
		orders.GET("/:id", d.Orders.Get)
		orders.GET("/:id/checklist", d.Checklist.Get)
		orders.POST("/:id/checklist/sessions", d.Checklist.OpenSession)
	}

	sessions := r.Group("/checklist/sessions", staff...)
	{
		sessions.GET("/:sid", d.Checklist.GetSession)
		sessions.DELETE("/:sid", d.Checklist.CloseSession)
		sessions.POST("/:sid/entries/:eid/toggle", d.Checklist.Toggle)
		sessions.GET("/:sid/export", d.Checklist.Export)
	}

	// ───────────────────────── ADMIN ROUTES ─────────────────────────
	admin := r.Group("/admin",
		middleware.AuthMiddleware(d.Validator),
		middleware.RequireRole(auth.RoleAdmin),
	)
	{
		admin.GET("/products/:id/checklist", d.ChecklistAdmin.List)
		admin.POST("/products/:id/checklist", d.ChecklistAdmin.Save)
		admin.DELETE("/products/:id/checklist/:itemId", d.ChecklistAdmin.Delete)
	}

	ledgerGroup := r.Group("/ledger",
		middleware.AuthMiddleware(d.Validator),
		middleware.RequireRole(auth.RoleAdmin),
	)
	{
		ledgerGroup.GET("/summary", d.Ledger.Summary)
	}

	return r
}
