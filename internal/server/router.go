// Package server assembles the gin router: CORS, auth middleware and
// the route table.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/roomkeep/dataroom/internal/auth"
	"github.com/roomkeep/dataroom/internal/handlers"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Documents  *handlers.DocumentHandler
	Users      *handlers.UserHandler
	Grants     *handlers.GrantHandler
	Audit      *handlers.AuditHandler
	Categories *handlers.CategoryHandler
}

// Options configure the router.
type Options struct {
	CORSOrigin string
	JWTSecret  string
	Verify     auth.UserVerifier
}

// New builds the engine. Every /api route answers pre-flight requests
// with permissive cross-origin headers; everything except health,
// signup and login requires a bearer token.
func New(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if opts.CORSOrigin == "" || opts.CORSOrigin == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = []string{opts.CORSOrigin}
	}
	r.Use(cors.New(corsCfg))

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/api/auth/signup", h.Auth.Signup)
	r.POST("/api/auth/login", h.Auth.Login)

	api := r.Group("/api")
	api.Use(auth.Middleware(opts.JWTSecret, opts.Verify))

	api.GET("/me", h.Auth.Me)
	api.GET("/categories", h.Categories.List)

	api.GET("/documents", h.Documents.List)
	api.POST("/documents", h.Documents.Upload)
	api.GET("/documents/:id", h.Documents.Get)
	api.GET("/documents/:id/download", h.Documents.Download)
	api.DELETE("/documents/:id", h.Documents.Delete)

	api.GET("/users", h.Users.List)
	api.POST("/users", h.Users.Create)
	api.PATCH("/users/:id/active", h.Users.SetActive)
	api.GET("/users/:id/grants", h.Grants.Get)
	api.PUT("/users/:id/grants", h.Grants.Set)

	api.GET("/audit", h.Audit.List)

	return r
}
