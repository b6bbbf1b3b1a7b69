package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"camino_routes/internal/events"
	"camino_routes/internal/middleware"
)

// FeedController upgrades clients onto the route event feed.
type FeedController struct {
	hub      *events.Hub
	auth     *middleware.Auth
	upgrader websocket.Upgrader
}

// NewFeedController accepts connections from allowedOrigins, or from any
// origin when the list is empty.
func NewFeedController(hub *events.Hub, auth *middleware.Auth, allowedOrigins []string) *FeedController {
	allow := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allow[o] = true
	}
	return &FeedController{
		hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allow) == 0 || origin == "" || allow[origin]
			},
		},
	}
}

// HandleRouteFeed streams route.created and route.updated events. The
// optional route_id query parameter narrows the feed to one route. When
// auth is enabled the JWT comes in the token query parameter.
func (fc *FeedController) HandleRouteFeed(c *gin.Context) {
	if fc.auth.Enabled() {
		if _, err := fc.auth.ValidateToken(c.Query("token")); err != nil {
			logrus.WithError(err).Warn("Route feed connection attempt rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}
	}

	conn, err := fc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	routeID := c.Query("route_id")
	fc.hub.Register(routeID, conn)
	defer fc.hub.Unregister(routeID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logrus.WithError(err).WithField("conn_ptr", fmt.Sprintf("%p", conn)).Debug("Route feed read ended")
			}
			break
		}
	}
	logrus.WithFields(logrus.Fields{
		"route_id": routeID,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Route feed connection closed.")
}
