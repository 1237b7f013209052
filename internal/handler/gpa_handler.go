package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadify/acadify-api/internal/models"
	"github.com/acadify/acadify-api/internal/service"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
	"github.com/acadify/acadify-api/pkg/response"
)

// GPAHandler exposes GPA aggregation endpoints.
type GPAHandler struct {
	gpa   *service.GPAService
	terms *service.TermService
}

// NewGPAHandler constructs handler.
func NewGPAHandler(gpa *service.GPAService, terms *service.TermService) *GPAHandler {
	return &GPAHandler{gpa: gpa, terms: terms}
}

// Semester godoc
// @Summary Semester GPA
// @Tags GPA
// @Produce json
// @Param id path string true "Student ID"
// @Param schoolYear query string false "School year, defaults to current"
// @Param semester query string false "Semester, defaults to current"
// @Param method query string false "weighted, simple or major_only"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/gpa/semester [get]
func (h *GPAHandler) Semester(c *gin.Context) {
	term := models.TermContext{
		SchoolYear: c.Query("schoolYear"),
		Semester:   c.Query("semester"),
	}
	if term.SchoolYear == "" || term.Semester == "" {
		current, err := h.terms.Current(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		if term.SchoolYear == "" {
			term.SchoolYear = current.SchoolYear
		}
		if term.Semester == "" {
			term.Semester = current.Semester
		}
	}
	result, err := h.gpa.SemesterGPA(c.Request.Context(), c.Param("id"), term, models.GPAMethod(c.DefaultQuery("method", string(models.GPAWeighted))))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Cumulative godoc
// @Summary Cumulative GPA
// @Tags GPA
// @Produce json
// @Param id path string true "Student ID"
// @Param method query string false "weighted, simple or major_only"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/gpa/cumulative [get]
func (h *GPAHandler) Cumulative(c *gin.Context) {
	result, err := h.gpa.CumulativeGPA(c.Request.Context(), c.Param("id"), models.GPAMethod(c.DefaultQuery("method", string(models.GPAWeighted))))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Invalidate godoc
// @Summary Drop cached GPAs for a student
// @Tags GPA
// @Param id path string true "Student ID"
// @Success 204 {object} response.Envelope
// @Router /students/{id}/gpa/cache [delete]
func (h *GPAHandler) Invalidate(c *gin.Context) {
	if err := h.gpa.Invalidate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to invalidate gpa cache"))
		return
	}
	response.NoContent(c)
}
