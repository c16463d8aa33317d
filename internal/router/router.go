package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"authapi/internal/handler"
	"authapi/internal/metrics"
	authmw "authapi/internal/middleware"
	"authapi/internal/security"
)

// Dependencies are the collaborators the routes are wired to.
type Dependencies struct {
	Log      logrus.FieldLogger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Oracle   security.Oracle

	Identify     echo.MiddlewareFunc
	RequireAdmin echo.MiddlewareFunc

	AuthHandler *handler.AuthHandler
	UserHandler *handler.UserHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, deps Dependencies) {
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(deps.Log)

	e.Use(middleware.RequestID())
	e.Use(authmw.RequestLogger(deps.Log))
	e.Use(deps.Metrics.Middleware())
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if deps.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler(deps.Gatherer)))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	secure := authmw.Security(deps.Oracle, deps.Log, deps.Metrics)

	// Public routes
	e.POST("/sign-up", deps.AuthHandler.SignUp, secure)
	e.POST("/sign-in", deps.AuthHandler.SignIn, secure)
	e.POST("/sign-out", deps.AuthHandler.SignOut, secure)

	// Identity is resolved before the security check so limits apply per
	// role; callers without a valid token are checked in the guest tier
	// before being rejected.
	users := e.Group("/users", deps.Identify, secure, authmw.RequireIdentity())
	users.GET("", deps.UserHandler.ListUsers, deps.RequireAdmin)
	users.GET("/:id", deps.UserHandler.GetUser, deps.RequireAdmin)
	users.PUT("/:id", deps.UserHandler.UpdateUser)
	users.DELETE("/:id", deps.UserHandler.DeleteUser)
}
