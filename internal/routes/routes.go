package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/audit"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/config"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/handlers"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/middleware"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/models"
)

func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) {
	router.Use(corsMiddleware(cfg.AllowedOriginsRaw))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "jobticketinvoice-backend"})
	})

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	recorder := audit.NewRecorder(db)

	authHandler := handlers.NewAuthHandler(db, cfg, recorder)
	signupHandler := handlers.NewSignupHandler(db, cfg, recorder)
	companyHandler := handlers.NewCompanyHandler(db, recorder)
	ticketHandler := handlers.NewJobTicketHandler(db, recorder)
	invoiceHandler := handlers.NewInvoiceHandler(db, recorder)
	inviteHandler := handlers.NewInviteHandler(db, cfg, recorder)
	auditHandler := handlers.NewAuditHandler(db, recorder)
	dashboardHandler := handlers.NewDashboardHandler(db)
	userHandler := handlers.NewUserHandler(db, recorder)

	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/forgot-password/start", authHandler.ForgotPasswordStart)
		api.POST("/auth/forgot-password/verify", authHandler.ForgotPasswordVerify)
		api.POST("/auth/refresh", authHandler.Refresh)
		api.POST("/auth/logout", authHandler.Logout)

		api.POST("/signup/manager", signupHandler.ManagerSignup)
		api.GET("/signup/check-company/:name", signupHandler.CheckCompanyAvailability)

		// Field technicians submit without an account; invite links are
		// validated and redeemed before any session exists.
		api.POST("/job-tickets/submit", ticketHandler.Submit)
		api.GET("/tech-invites/validate", inviteHandler.Validate)
		api.POST("/tech-invites/redeem", inviteHandler.Redeem)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthRequired(cfg.JwtSecret))
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me", authHandler.UpdateProfile)
		protected.PUT("/me/password", authHandler.ChangePassword)

		protected.GET("/dashboard", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), dashboardHandler.Get)

		protected.GET("/companies/my-company", companyHandler.MyCompany)
		protected.PUT("/companies/my-company", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), companyHandler.UpdateMyCompany)
		protected.DELETE("/companies/my-company", middleware.RequireAnyRole(models.RoleAdmin), companyHandler.DeactivateMyCompany)

		protected.GET("/users/technicians", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), userHandler.ListTechnicians)
		protected.POST("/users/technicians", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), userHandler.CreateTechnician)
		protected.GET("/users/:id", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), userHandler.Get)

		protected.GET("/job-tickets", ticketHandler.List)
		protected.POST("/job-tickets", ticketHandler.Create)
		protected.GET("/job-tickets/:id", ticketHandler.Get)
		protected.PUT("/job-tickets/:id", ticketHandler.Update)
		protected.DELETE("/job-tickets/:id", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), ticketHandler.Delete)

		protected.GET("/invoices", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), invoiceHandler.List)
		protected.POST("/invoices", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), invoiceHandler.Create)
		protected.GET("/invoices/check-duplicate/:number", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), invoiceHandler.CheckDuplicate)
		protected.GET("/invoices/:id", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), invoiceHandler.Get)
		protected.PUT("/invoices/:id", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), invoiceHandler.Update)
		protected.DELETE("/invoices/:id", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), invoiceHandler.Delete)
		protected.GET("/invoices/:id/pdf", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), invoiceHandler.Pdf)

		protected.POST("/tech-invites", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), inviteHandler.Create)
		protected.GET("/tech-invites", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), inviteHandler.List)
		protected.DELETE("/tech-invites/:id", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), inviteHandler.Cancel)

		protected.POST("/audit/log", auditHandler.Log)
		protected.GET("/audit/logs", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), auditHandler.List)
		protected.GET("/audit/export", middleware.RequireAnyRole(models.RoleManager, models.RoleAdmin), auditHandler.Export)
	}
}

func corsMiddleware(allowed string) gin.HandlerFunc {
	origins := []string{}
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	allowAll := len(origins) == 0

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowedOrigin := range origins {
				if origin == allowedOrigin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					c.Writer.Header().Set("Vary", "Origin")
					break
				}
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
