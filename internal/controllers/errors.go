package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"camino_routes/internal/accounts"
	"camino_routes/internal/drafts"
	"camino_routes/internal/editor"
	"camino_routes/internal/trail"
)

var badEdits = []error{
	editor.ErrIndexOutOfRange,
	editor.ErrUnknownService,
	editor.ErrDuplicateService,
	editor.ErrUnknownList,
	editor.ErrUnknownOp,
	editor.ErrInvalidValue,
}

// respondError maps domain errors to HTTP responses.
func respondError(c *gin.Context, err error) {
	var verr *trail.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Error(), "fields": verr.Fields})
		return
	}
	if errors.Is(err, trail.ErrNotFound) || errors.Is(err, drafts.ErrDraftNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	for _, target := range badEdits {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if errors.Is(err, accounts.ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
