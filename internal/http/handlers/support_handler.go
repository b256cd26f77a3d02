// README: Support handlers: dispatcher backlog and resolution.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boomerang/internal/modules/support"
)

type SupportHandler struct {
	support *support.Service
	store   *support.Store
}

func NewSupportHandler(svc *support.Service, store *support.Store) *SupportHandler {
	return &SupportHandler{support: svc, store: store}
}

func (h *SupportHandler) Backlog(c *gin.Context) {
	escalations, err := h.support.Backlog(c.Request.Context())
	if err != nil {
		writeOrderError(c, err)
		return
	}
	out := make([]map[string]any, len(escalations))
	for i, e := range escalations {
		out[i] = map[string]any{
			"id":         e.ID,
			"order_id":   e.OrderID,
			"reason":     e.Reason,
			"detail":     e.Detail,
			"created_at": e.CreatedAt,
		}
	}
	writeJSON(c, http.StatusOK, map[string]any{"escalations": out})
}

func (h *SupportHandler) Resolve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid escalation id")
		return
	}
	if err := h.store.Resolve(c.Request.Context(), id); err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"resolved": true})
}
