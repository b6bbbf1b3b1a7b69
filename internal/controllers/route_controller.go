package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"camino_routes/internal/events"
	"camino_routes/internal/geo"
	"camino_routes/internal/store"
	"camino_routes/internal/trail"
)

// ExportFilename is the download name of GET /routes/export.
const ExportFilename = "routes.json"

// RouteController serves the route endpoints.
type RouteController struct {
	repo    store.Repository
	decoder *trail.Decoder
	events  events.Publisher
}

func NewRouteController(repo store.Repository, decoder *trail.Decoder, pub events.Publisher) *RouteController {
	if decoder == nil {
		decoder = trail.NewDecoder(nil)
	}
	if pub == nil {
		pub = events.Discard{}
	}
	return &RouteController{repo: repo, decoder: decoder, events: pub}
}

func format(c *gin.Context) trail.Format {
	return trail.ParseFormat(c.Query("format"))
}

func (rc *RouteController) respondRoute(c *gin.Context, status int, route trail.Route) {
	doc, err := trail.ExternalDocument(route, format(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, doc)
}

// CreateRoute accepts a bare route or an envelope; only the first element of
// an envelope is stored.
func (rc *RouteController) CreateRoute(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read body: " + err.Error()})
		return
	}

	route, err := rc.decoder.Decode(body)
	if err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid route payload")
		respondError(c, err)
		return
	}

	stored, err := rc.repo.Create(c.Request.Context(), route)
	if err != nil {
		respondError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"route_id": stored.Route.RouteID, "id": stored.ID}).Info("Route created")
	rc.events.Publish(events.NewEvent(events.RouteCreated, stored.Route))
	rc.respondRoute(c, http.StatusCreated, stored.Route)
}

func (rc *RouteController) ListRoutes(c *gin.Context) {
	stored, err := rc.repo.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	env, err := trail.Envelope(store.Routes(stored), format(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// ExportRoutes downloads every route as an indented envelope.
func (rc *RouteController) ExportRoutes(c *gin.Context) {
	stored, err := rc.repo.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	b, err := trail.EncodeEnvelope(store.Routes(stored), format(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

func (rc *RouteController) GetRoute(c *gin.Context) {
	stored, err := rc.repo.FindByID(c.Request.Context(), c.Param("route_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	rc.respondRoute(c, http.StatusOK, stored.Route)
}

// UpdateRoute replaces the stored route. The path id wins over the body;
// a body without route_id takes the path id.
func (rc *RouteController) UpdateRoute(c *gin.Context) {
	routeID := c.Param("route_id")

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read body: " + err.Error()})
		return
	}
	doc, err := trail.ParseDocument(body)
	if err != nil {
		respondError(c, err)
		return
	}
	if id, _ := doc[trail.FieldRouteID.External].(string); strings.TrimSpace(id) == "" {
		doc[trail.FieldRouteID.External] = routeID
	}

	route, err := rc.decoder.DecodeDocument(doc)
	if err != nil {
		logrus.WithError(err).WithField("route_id", routeID).Warn("UpdateRoute: invalid route payload")
		respondError(c, err)
		return
	}
	route.RouteID = routeID

	stored, err := rc.repo.UpdateByID(c.Request.Context(), routeID, route)
	if err != nil {
		respondError(c, err)
		return
	}

	logrus.WithField("route_id", routeID).Info("Route replaced")
	rc.events.Publish(events.NewEvent(events.RouteUpdated, stored.Route))
	rc.respondRoute(c, http.StatusOK, stored.Route)
}

// AccommodationsGeoJSON serves the accommodations of one route as a GeoJSON
// FeatureCollection.
func (rc *RouteController) AccommodationsGeoJSON(c *gin.Context) {
	stored, err := rc.repo.FindByID(c.Request.Context(), c.Param("route_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	b, err := geo.AccommodationsGeoJSON(stored.Route)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/geo+json", b)
}
