package handlers

import (
	"errors"
	"net/http"

	"smoking_chamber/internal/models"
	"smoking_chamber/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusCreated = "created"
	statusUpdated = "updated"
	statusDeleted = "deleted"

	errListPrograms  = "failed to load programs"
	errSaveProgram   = "failed to save program"
	errDeleteProgram = "failed to delete program"
)

// programRequest is the create/update payload.
type programRequest struct {
	Name  string               `json:"name"`
	Steps []models.ProgramStep `json:"steps" binding:"required"`
}

// writeProgramError maps service errors onto HTTP codes.
func (h *Handler) writeProgramError(c *gin.Context, userMsg, logKey string, err error, name string) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBuiltInReadOnly):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidProgram):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, userMsg, logKey, err, "program", name)
	}
}

// @Summary      List programs
// @Description  Built-in programs first, then user programs.
// @Tags         programs
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, programs"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/programs [get]
func (h *Handler) listPrograms(c *gin.Context) {
	programs, err := h.services.Programs.ListPrograms(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListPrograms, "programs_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(programs),
		"programs": programs,
	})
}

// @Summary      Get program
// @Tags         programs
// @Produce      json
// @Param        name  path      string  true  "Program name"
// @Success      200   {object}  models.SmokingProgram
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/programs/{name} [get]
func (h *Handler) getProgram(c *gin.Context) {
	name := c.Param("name")
	p, err := h.services.Programs.GetProgram(c.Request.Context(), name)
	if err != nil {
		h.writeProgramError(c, errListPrograms, "program_get_failed", err, name)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Create program
// @Tags         programs
// @Accept       json
// @Produce      json
// @Param        body  body      models.SmokingProgram  true  "Program"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/programs [post]
// @Security     BearerAuth
func (h *Handler) createProgram(c *gin.Context) {
	var req programRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	p := models.SmokingProgram{Name: req.Name, Steps: req.Steps}
	if err := h.services.Programs.CreateProgram(c.Request.Context(), p); err != nil {
		h.writeProgramError(c, errSaveProgram, "program_create_failed", err, req.Name)
		return
	}
	if h.log != nil {
		h.log.Infow("program_created", "program", req.Name, "steps", len(req.Steps), "operator_id", operatorID(c))
	}
	c.JSON(http.StatusCreated, gin.H{"status": statusCreated, "name": req.Name})
}

// @Summary      Update program
// @Description  Replaces the steps; a different name in the body renames the program.
// @Tags         programs
// @Accept       json
// @Produce      json
// @Param        name  path      string                 true  "Program name"
// @Param        body  body      models.SmokingProgram  true  "Program"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/programs/{name} [put]
// @Security     BearerAuth
func (h *Handler) updateProgram(c *gin.Context) {
	name := c.Param("name")
	var req programRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	p := models.SmokingProgram{Name: req.Name, Steps: req.Steps}
	if err := h.services.Programs.UpdateProgram(c.Request.Context(), name, p); err != nil {
		h.writeProgramError(c, errSaveProgram, "program_update_failed", err, name)
		return
	}
	if h.log != nil {
		h.log.Infow("program_updated", "program", name, "new_name", req.Name, "steps", len(req.Steps), "operator_id", operatorID(c))
	}
	c.JSON(http.StatusOK, gin.H{"status": statusUpdated})
}

// @Summary      Delete program
// @Tags         programs
// @Produce      json
// @Param        name  path      string  true  "Program name"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/programs/{name} [delete]
// @Security     BearerAuth
func (h *Handler) deleteProgram(c *gin.Context) {
	name := c.Param("name")
	if err := h.services.Programs.DeleteProgram(c.Request.Context(), name); err != nil {
		h.writeProgramError(c, errDeleteProgram, "program_delete_failed", err, name)
		return
	}
	if h.log != nil {
		h.log.Infow("program_deleted", "program", name, "operator_id", operatorID(c))
	}
	c.JSON(http.StatusOK, gin.H{"status": statusDeleted})
}
