package handler

import (
	"log/slog"
	"net/http"
	"time"

	"trendscope/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type SavedStore interface {
	Save(s *model.SavedInspiration) error
	ListByOrg(orgID string) ([]model.SavedInspiration, error)
	Delete(id, orgID string) (bool, error)
}

type SavedHandler struct {
	store    SavedStore
	validate *validator.Validate
}

func NewSavedHandler(store SavedStore) *SavedHandler {
	return &SavedHandler{store: store, validate: validator.New()}
}

func (h *SavedHandler) Save(c *gin.Context) {
	tenant := tenantFrom(c)

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Items without a permalink are saved under a local reference so they
	// stay resolvable from the saved list.
	permalink := ""
	switch {
	case req.Permalink != nil && *req.Permalink != "":
		permalink = *req.Permalink
	case req.PostID != nil && *req.PostID != "":
		permalink = "local://post/" + *req.PostID
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either permalink or post_id is required"})
		return
	}

	s := model.SavedInspiration{
		OrgID:     tenant.OrgID,
		Platform:  req.Platform,
		Permalink: permalink,
		Tags:      req.Tags,
	}

	if err := h.store.Save(&s); err != nil {
		slog.Error("error saving inspiration", "error", err, "org_id", tenant.OrgID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Save failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, savedItemResponse(s))
}

func (h *SavedHandler) List(c *gin.Context) {
	tenant := tenantFrom(c)

	items, err := h.store.ListByOrg(tenant.OrgID)
	if err != nil {
		slog.Error("error fetching saved items", "error", err, "org_id", tenant.OrgID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := SavedListResponse{Total: len(items)}
	for _, s := range items {
		res.Items = append(res.Items, savedItemResponse(s))
	}

	c.JSON(http.StatusOK, res)
}

func (h *SavedHandler) Delete(c *gin.Context) {
	tenant := tenantFrom(c)
	id := c.Param("id")

	deleted, err := h.store.Delete(id, tenant.OrgID)
	if err != nil {
		slog.Error("error deleting saved item", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Saved item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func savedItemResponse(s model.SavedInspiration) SavedItemResponse {
	return SavedItemResponse{
		ID:        s.ID,
		Platform:  s.Platform,
		Permalink: s.Permalink,
		Tags:      s.Tags,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}
