package routes

import (
	"github.com/gin-gonic/gin"
)

func DraftRoutes(r *gin.RouterGroup, d Deps) {
	drafts := r.Group("/drafts")
	drafts.Use(d.JWT.RequireAuth())
	{
		drafts.POST("", d.Drafts.CreateDraft)
		drafts.GET("/:draft_id", d.Drafts.GetDraft)
		drafts.POST("/:draft_id/edits", d.Drafts.ApplyEdits)
		drafts.POST("/:draft_id/paste", d.Drafts.PasteDraft)
		drafts.POST("/:draft_id/submit", d.Drafts.SubmitDraft)
		drafts.DELETE("/:draft_id", d.Drafts.DeleteDraft)
	}
}
