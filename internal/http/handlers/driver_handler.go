// README: Driver handlers for presence, location, and push-token registration.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"boomerang/internal/modules/driver"
	"boomerang/internal/modules/notify"
	"boomerang/internal/types"
)

type DriverHandler struct {
	drivers *driver.Store
	tokens  *notify.TokenStore
}

func NewDriverHandler(drivers *driver.Store, tokens *notify.TokenStore) *DriverHandler {
	return &DriverHandler{drivers: drivers, tokens: tokens}
}

func (h *DriverHandler) driverID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "invalid driver id")
		return 0, false
	}
	return id, true
}

type availabilityReq struct {
	Online bool `json:"online"`
}

func (h *DriverHandler) SetAvailability(c *gin.Context) {
	id, ok := h.driverID(c)
	if !ok {
		return
	}
	var req availabilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.drivers.SetOnline(c.Request.Context(), id, req.Online); err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"online": req.Online})
}

type locationReq struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	id, ok := h.driverID(c)
	if !ok {
		return
	}
	var req locationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	pos := types.Point{Lat: req.Lat, Lng: req.Lng}
	if !pos.Valid() {
		writeError(c, http.StatusBadRequest, "coordinates out of range")
		return
	}
	if err := h.drivers.UpdateLocation(c.Request.Context(), id, pos); err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"updated": true})
}

type pushTokenReq struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

func (h *DriverHandler) RegisterPushToken(c *gin.Context) {
	var req pushTokenReq
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.Token == "" {
		writeError(c, http.StatusBadRequest, "missing user_id or token")
		return
	}
	if err := h.tokens.SaveToken(c.Request.Context(), req.UserID, req.Token); err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"registered": true})
}
