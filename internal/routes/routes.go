package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"camino_routes/internal/controllers"
	"camino_routes/internal/middleware"
)

// Deps are the handlers mounted by SetupRouter. Drafts may be nil, in which
// case the draft endpoints are not mounted.
type Deps struct {
	Routes *controllers.RouteController
	Drafts *controllers.DraftController
	Auth   *controllers.AuthController
	Feed   *controllers.FeedController
	JWT    *middleware.Auth
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	AuthRoutes(api, d)
	RouteRoutes(api, d)
	if d.Drafts != nil {
		DraftRoutes(api, d)
	}
	WebSocketRoutes(r, d)

	return r
}
