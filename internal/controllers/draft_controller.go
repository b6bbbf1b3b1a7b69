package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"camino_routes/internal/drafts"
	"camino_routes/internal/editor"
	"camino_routes/internal/events"
	"camino_routes/internal/store"
	"camino_routes/internal/trail"
)

// DraftController serves the form editing endpoints.
type DraftController struct {
	drafts *drafts.Store
	editor *editor.Editor
	repo   store.Repository
	events events.Publisher
}

func NewDraftController(ds *drafts.Store, ed *editor.Editor, repo store.Repository, pub events.Publisher) *DraftController {
	if pub == nil {
		pub = events.Discard{}
	}
	return &DraftController{drafts: ds, editor: ed, repo: repo, events: pub}
}

func respondDraft(c *gin.Context, status int, d *editor.Draft, extra gin.H) {
	doc, err := trail.ExternalDocument(d.Route, trail.Canonical)
	if err != nil {
		respondError(c, err)
		return
	}
	body := gin.H{
		"draft_id":   d.ID,
		"updated_at": d.UpdatedAt,
		"route":      doc,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// CreateDraft starts a draft. With ?from=<route_id> the stored route is
// copied; otherwise a route body, if any, is pasted in.
func (dc *DraftController) CreateDraft(c *gin.Context) {
	ctx := c.Request.Context()

	var start trail.Route
	if from := c.Query("from"); from != "" {
		stored, err := dc.repo.FindByID(ctx, from)
		if err != nil {
			respondError(c, err)
			return
		}
		start = stored.Route
	}

	d, err := dc.drafts.Create(ctx, start)
	if err != nil {
		respondError(c, err)
		return
	}

	body, _ := c.GetRawData()
	if len(bytes.TrimSpace(body)) > 0 && dc.editor.Paste(d, body) {
		if err := dc.drafts.Save(ctx, d); err != nil {
			respondError(c, err)
			return
		}
	}

	respondDraft(c, http.StatusCreated, d, nil)
}

func (dc *DraftController) GetDraft(c *gin.Context) {
	d, err := dc.drafts.Get(c.Request.Context(), c.Param("draft_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondDraft(c, http.StatusOK, d, nil)
}

// ApplyEdits applies one command or a list of commands. Either all apply
// or the stored draft is left unchanged.
func (dc *DraftController) ApplyEdits(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read body: " + err.Error()})
		return
	}
	cmds, err := parseCommands(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid edit commands: " + err.Error()})
		return
	}

	d, err := dc.drafts.Get(ctx, c.Param("draft_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	for i, cmd := range cmds {
		if err := dc.editor.Apply(d, cmd); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{"draft_id": d.ID, "op": cmd.Op, "command": i}).Warn("ApplyEdits: edit rejected")
			respondError(c, err)
			return
		}
	}
	if err := dc.drafts.Save(ctx, d); err != nil {
		respondError(c, err)
		return
	}
	respondDraft(c, http.StatusOK, d, nil)
}

func parseCommands(body []byte) ([]editor.Command, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var cmds []editor.Command
		err := json.Unmarshal(body, &cmds)
		return cmds, err
	}
	var cmd editor.Command
	if err := json.Unmarshal(body, &cmd); err != nil {
		return nil, err
	}
	return []editor.Command{cmd}, nil
}

// PasteDraft replaces the draft route with the request body. A body that
// does not parse is ignored and the draft is returned unchanged.
func (dc *DraftController) PasteDraft(c *gin.Context) {
	ctx := c.Request.Context()

	d, err := dc.drafts.Get(ctx, c.Param("draft_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	body, _ := c.GetRawData()
	applied := dc.editor.Paste(d, body)
	if applied {
		if err := dc.drafts.Save(ctx, d); err != nil {
			respondError(c, err)
			return
		}
	}
	respondDraft(c, http.StatusOK, d, gin.H{"applied": applied})
}

// SubmitDraft validates the draft and stores it, replacing any route with
// the same route_id. The draft is discarded on success.
func (dc *DraftController) SubmitDraft(c *gin.Context) {
	ctx := c.Request.Context()

	d, err := dc.drafts.Get(ctx, c.Param("draft_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	route, err := dc.editor.Submit(d)
	if err != nil {
		respondError(c, err)
		return
	}

	stored, created, err := store.Save(ctx, dc.repo, route)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := dc.drafts.Delete(ctx, d.ID); err != nil {
		logrus.WithError(err).WithField("draft_id", d.ID).Warn("SubmitDraft: could not discard draft")
	}

	status, kind := http.StatusOK, events.RouteUpdated
	if created {
		status, kind = http.StatusCreated, events.RouteCreated
	}
	dc.events.Publish(events.NewEvent(kind, stored.Route))

	doc, err := trail.ExternalDocument(stored.Route, format(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, doc)
}

func (dc *DraftController) DeleteDraft(c *gin.Context) {
	if err := dc.drafts.Delete(c.Request.Context(), c.Param("draft_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
