// README: Order handlers for create/get/history/cancel.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boomerang/internal/modules/assign"
	"boomerang/internal/modules/order"
	"boomerang/internal/types"
)

type OrderHandler struct {
	order  *order.Service
	assign *assign.Service
}

func NewOrderHandler(orderSvc *order.Service, assignSvc *assign.Service) *OrderHandler {
	return &OrderHandler{order: orderSvc, assign: assignSvc}
}

type createOrderReq struct {
	CustomerID string   `json:"customer_id"`
	PickupLat  *float64 `json:"pickup_lat"`
	PickupLng  *float64 `json:"pickup_lng"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CustomerID == "" {
		writeError(c, http.StatusBadRequest, "missing customer_id")
		return
	}
	var pickup *types.Point
	if req.PickupLat != nil && req.PickupLng != nil {
		pickup = &types.Point{Lat: *req.PickupLat, Lng: *req.PickupLng}
	}
	id, err := h.order.Create(c.Request.Context(), order.CreateCommand{
		CustomerID: types.ID(req.CustomerID),
		Pickup:     pickup,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, map[string]any{"order_id": id, "status": order.StatusCreated})
}

func (h *OrderHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing order id")
		return
	}
	o, err := h.order.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	resp := map[string]any{
		"order_id": o.ID,
		"status":   o.Status,
	}
	if o.DriverID != nil {
		resp["driver_id"] = *o.DriverID
	}
	if o.CompletionDeadline != nil {
		resp["completion_deadline"] = *o.CompletionDeadline
	}
	writeJSON(c, http.StatusOK, resp)
}

func (h *OrderHandler) History(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing order id")
		return
	}
	events, err := h.order.Events(c.Request.Context(), types.ID(id))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	out := make([]map[string]any, len(events))
	for i, e := range events {
		out[i] = map[string]any{
			"status":    e.ToStatus,
			"timestamp": e.CreatedAt,
			"note":      e.Note,
			"metadata":  e.Metadata,
		}
	}
	writeJSON(c, http.StatusOK, map[string]any{"order_id": id, "history": out})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing order id")
		return
	}
	// Close any open assignment window first so a late acceptance cannot
	// bind a driver to a cancelled order.
	h.assign.CancelAssignment(types.ID(id))
	err := h.order.Cancel(c.Request.Context(), order.CancelCommand{
		OrderID: types.ID(id),
		Reason:  "customer_cancelled",
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": order.StatusCancelled})
}
