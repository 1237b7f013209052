package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/acadify/acadify-api/internal/service"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
	"github.com/acadify/acadify-api/pkg/response"
)

// GradeHandler exposes the grade record and score ledger endpoints.
type GradeHandler struct {
	grades *service.GradeService
}

// NewGradeHandler constructs handler.
func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// Get godoc
// @Summary Get grade record
// @Tags Grades
// @Produce json
// @Param id path string true "Assessment ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /assessments/{id}/grades/{studentId} [get]
func (h *GradeHandler) Get(c *gin.Context) {
	grade, err := h.grades.Get(c.Request.Context(), c.Param("id"), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// RecordItem godoc
// @Summary Record a score item
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path string true "Assessment ID"
// @Param studentId path string true "Student ID"
// @Param payload body service.RecordScoreItemRequest true "Score item payload"
// @Success 200 {object} response.Envelope
// @Router /assessments/{id}/grades/{studentId}/items [post]
func (h *GradeHandler) RecordItem(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.RecordScoreItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.grades.RecordScoreItem(c.Request.Context(), c.Param("id"), c.Param("studentId"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// UpdateItem godoc
// @Summary Update a score item
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path string true "Assessment ID"
// @Param studentId path string true "Student ID"
// @Param component path string true "Component name"
// @Param index path int true "Item index"
// @Param payload body service.UpdateScoreItemRequest true "Partial item payload"
// @Success 200 {object} response.Envelope
// @Router /assessments/{id}/grades/{studentId}/components/{component}/items/{index} [put]
func (h *GradeHandler) UpdateItem(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "item index must be an integer"))
		return
	}
	var req service.UpdateScoreItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.grades.UpdateScoreItem(c.Request.Context(), c.Param("id"), c.Param("studentId"), claims.UserID, c.Param("component"), index, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// DeleteItem godoc
// @Summary Delete a score item
// @Tags Grades
// @Produce json
// @Param id path string true "Assessment ID"
// @Param studentId path string true "Student ID"
// @Param component path string true "Component name"
// @Param index path int true "Item index"
// @Success 200 {object} response.Envelope
// @Router /assessments/{id}/grades/{studentId}/components/{component}/items/{index} [delete]
func (h *GradeHandler) DeleteItem(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "item index must be an integer"))
		return
	}
	grade, err := h.grades.DeleteScoreItem(c.Request.Context(), c.Param("id"), c.Param("studentId"), claims.UserID, c.Param("component"), index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// ComponentSummary godoc
// @Summary Summarize a component's score items
// @Tags Grades
// @Produce json
// @Param id path string true "Assessment ID"
// @Param studentId path string true "Student ID"
// @Param component path string true "Component name"
// @Success 200 {object} response.Envelope
// @Router /assessments/{id}/grades/{studentId}/components/{component}/summary [get]
func (h *GradeHandler) ComponentSummary(c *gin.Context) {
	summary, err := h.grades.ComponentSummary(c.Request.Context(), c.Param("id"), c.Param("studentId"), c.Param("component"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// SetOverride godoc
// @Summary Override the final grade
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path string true "Assessment ID"
// @Param studentId path string true "Student ID"
// @Param payload body service.OverrideRequest true "Override payload"
// @Success 200 {object} response.Envelope
// @Router /assessments/{id}/grades/{studentId}/override [post]
func (h *GradeHandler) SetOverride(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.grades.SetOverride(c.Request.Context(), c.Param("id"), c.Param("studentId"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// ClearOverride godoc
// @Summary Remove a manual override
// @Tags Grades
// @Produce json
// @Param id path string true "Assessment ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /assessments/{id}/grades/{studentId}/override [delete]
func (h *GradeHandler) ClearOverride(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	grade, err := h.grades.ClearOverride(c.Request.Context(), c.Param("id"), c.Param("studentId"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// Recalculate godoc
// @Summary Recompute derived grade fields
// @Tags Grades
// @Produce json
// @Param id path string true "Assessment ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /assessments/{id}/grades/{studentId}/recalculate [post]
func (h *GradeHandler) Recalculate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	grade, err := h.grades.Recalculate(c.Request.Context(), c.Param("id"), c.Param("studentId"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}
