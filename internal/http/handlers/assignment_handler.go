// README: Assignment handlers: start, accept, cancel, status.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boomerang/internal/modules/assign"
	"boomerang/internal/types"
)

type AssignmentHandler struct {
	assign *assign.Service
}

func NewAssignmentHandler(svc *assign.Service) *AssignmentHandler {
	return &AssignmentHandler{assign: svc}
}

type startAssignmentReq struct {
	PickupLat *float64 `json:"pickup_lat"`
	PickupLng *float64 `json:"pickup_lng"`
}

func (h *AssignmentHandler) Start(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing order id")
		return
	}
	var req startAssignmentReq
	// Body is optional; the engine falls back to the stored pickup point.
	_ = c.ShouldBindJSON(&req)

	var pickup *types.Point
	if req.PickupLat != nil && req.PickupLng != nil {
		pickup = &types.Point{Lat: *req.PickupLat, Lng: *req.PickupLng}
	}

	started, err := h.assign.AssignOrderToDrivers(c.Request.Context(), types.ID(id), pickup)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	if !started {
		writeJSON(c, http.StatusAccepted, map[string]any{
			"started": false,
			"message": "no eligible drivers; escalated to support",
		})
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"started": true})
}

type acceptReq struct {
	DriverID int64 `json:"driver_id"`
}

func (h *AssignmentHandler) Accept(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing order id")
		return
	}
	var req acceptReq
	if err := c.ShouldBindJSON(&req); err != nil || req.DriverID == 0 {
		writeError(c, http.StatusBadRequest, "missing driver_id")
		return
	}

	res, err := h.assign.HandleDriverAcceptance(c.Request.Context(), types.ID(id), req.DriverID)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	if !res.Success {
		// Stale or unauthorized acceptance: no state changed, the driver
		// just lost the race.
		writeJSON(c, http.StatusConflict, map[string]any{
			"success": false,
			"message": res.Message,
		})
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{
		"success":             true,
		"message":             res.Message,
		"driver_id":           res.DriverID,
		"completion_deadline": res.CompletionDeadline,
		"timeline":            res.Timeline,
	})
}

func (h *AssignmentHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing order id")
		return
	}
	cancelled := h.assign.CancelAssignment(types.ID(id))
	writeJSON(c, http.StatusOK, map[string]any{"cancelled": cancelled})
}

func (h *AssignmentHandler) Status(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing order id")
		return
	}
	st, ok := h.assign.GetAssignmentStatus(types.ID(id))
	if !ok {
		writeError(c, http.StatusNotFound, "no open assignment window")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{
		"assigned_drivers":  st.AssignedDrivers,
		"start_time":        st.StartTime,
		"priority_level":    int(st.PriorityLevel),
		"time_remaining_ms": st.TimeRemaining.Milliseconds(),
	})
}
