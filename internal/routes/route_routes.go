package routes

import (
	"github.com/gin-gonic/gin"
)

func RouteRoutes(r *gin.RouterGroup, d Deps) {
	routes := r.Group("/routes")
	{
		routes.GET("", d.Routes.ListRoutes)
		routes.GET("/export", d.Routes.ExportRoutes)
		routes.GET("/:route_id", d.Routes.GetRoute)
		routes.GET("/:route_id/accommodations.geojson", d.Routes.AccommodationsGeoJSON)

		routes.POST("", d.JWT.RequireAuth(), d.Routes.CreateRoute)
		routes.PUT("/:route_id", d.JWT.RequireAuth(), d.Routes.UpdateRoute)
	}
}
