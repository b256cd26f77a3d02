// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"boomerang/internal/http/handlers"
	"boomerang/internal/http/middleware"
	"boomerang/internal/infra"
	"boomerang/internal/modules/assign"
	"boomerang/internal/modules/driver"
	"boomerang/internal/modules/notify"
	"boomerang/internal/modules/order"
	"boomerang/internal/modules/support"
)

type RouterDeps struct {
	Order    *order.Service
	Assign   *assign.Service
	Drivers  *driver.Store
	Tokens   *notify.TokenStore
	Support  *support.Service
	Supports *support.Store
	Verifier infra.TokenVerifier
	Log      zerolog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.Logging(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	api.Use(middleware.Auth(deps.Verifier))

	orderHandler := handlers.NewOrderHandler(deps.Order, deps.Assign)
	api.POST("/orders", orderHandler.Create)
	api.GET("/orders/:id", orderHandler.Get)
	api.GET("/orders/:id/history", orderHandler.History)
	api.POST("/orders/:id/cancel", orderHandler.Cancel)

	assignmentHandler := handlers.NewAssignmentHandler(deps.Assign)
	api.POST("/orders/:id/assignment", assignmentHandler.Start)
	api.POST("/orders/:id/assignment/accept", assignmentHandler.Accept)
	api.POST("/orders/:id/assignment/cancel", assignmentHandler.Cancel)
	api.GET("/orders/:id/assignment", assignmentHandler.Status)

	driverHandler := handlers.NewDriverHandler(deps.Drivers, deps.Tokens)
	api.POST("/drivers/:id/availability", driverHandler.SetAvailability)
	api.PUT("/drivers/:id/location", driverHandler.UpdateLocation)
	api.POST("/push-tokens", driverHandler.RegisterPushToken)

	supportHandler := handlers.NewSupportHandler(deps.Support, deps.Supports)
	api.GET("/support/escalations", supportHandler.Backlog)
	api.POST("/support/escalations/:id/resolve", supportHandler.Resolve)

	return r
}
