package routes

import (
	"github.com/gin-gonic/gin"
)

func WebSocketRoutes(r *gin.Engine, d Deps) {
	ws := r.Group("/ws")
	{
		ws.GET("/routes", d.Feed.HandleRouteFeed)
	}
}
