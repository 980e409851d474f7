package handlers

import (
	"errors"
	"net/http"

	"smoking_chamber/internal/display"
	"smoking_chamber/internal/input"
	"smoking_chamber/internal/panel"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK      = "ok"
	statusPressed = "pressed"

	errGetState        = "failed to load state"
	errPanelBusy       = "panel busy, retry later"
	errPanelOffline    = "panel not available"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// pressRequest is the virtual button payload.
type pressRequest struct {
	Button string `json:"button" binding:"required"` // UP | DOWN | OK | BACK
}

// PressRequest is an exported model for Swagger docs of the press payload.
type PressRequest struct {
	// Button to press. Allowed: UP, DOWN, OK, BACK
	Button string `json:"button" example:"OK"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get chamber state
// @Description  Run state, telemetry, network status and the program list.
// @Tags         chamber
// @Produce      json
// @Success      200  {object}  models.ChamberState
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/state [get]
func (h *Handler) getState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "chamber_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Press a panel button
// @Description  Queues a virtual button press; the panel handles it like a physical one.
// @Tags         panel
// @Accept       json
// @Produce      json
// @Param        body  body      PressRequest  true  "Button payload"
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/panel/press [post]
// @Security     BearerAuth
func (h *Handler) pressButton(c *gin.Context) {
	var req pressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ev, err := input.ParseEvent(req.Button)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.services.Panel == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errPanelOffline})
		return
	}
	if err := h.services.Panel.Press(ev); err != nil {
		if errors.Is(err, panel.ErrPanelBusy) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": errPanelBusy})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errPanelOffline, "panel_press_failed", err, "button", ev.String())
		return
	}
	if h.log != nil {
		h.log.Infow("panel_remote_press", "button", ev.String(), "operator_id", operatorID(c))
	}
	c.JSON(http.StatusAccepted, gin.H{"status": statusPressed, "button": ev.String()})
}

// @Summary      Get the OLED frame
// @Description  Rows of the last rendered panel frame, top to bottom.
// @Tags         panel
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "rows"
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/panel/frame [get]
func (h *Handler) getFrame(c *gin.Context) {
	if h.services.Panel == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errPanelOffline})
		return
	}
	rows := h.services.Panel.Frame()
	if rows == nil {
		rows = []display.Row{}
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}
