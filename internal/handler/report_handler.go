package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadify/acadify-api/internal/models"
	"github.com/acadify/acadify-api/internal/service"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
	"github.com/acadify/acadify-api/pkg/response"
)

// ReportHandler exposes report card endpoints.
type ReportHandler struct {
	reports *service.ReportService
	terms   *service.TermService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports *service.ReportService, terms *service.TermService) *ReportHandler {
	return &ReportHandler{reports: reports, terms: terms}
}

// ReportCard godoc
// @Summary Student report card
// @Description Returns the report card as JSON, or as a CSV/PDF download when format is set
// @Tags Reports
// @Produce json
// @Param id path string true "Student ID"
// @Param schoolYear query string false "School year, defaults to current"
// @Param semester query string false "Semester, defaults to current"
// @Param format query string false "csv or pdf"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/report-card [get]
func (h *ReportHandler) ReportCard(c *gin.Context) {
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

	studentID := c.Param("id")
	switch c.Query("format") {
	case "":
		card, err := h.reports.Build(c.Request.Context(), studentID, term)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, card, nil)
	case "csv":
		data, err := h.reports.RenderCSV(c.Request.Context(), studentID, term)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=report-card-%s.csv", studentID))
		c.Data(http.StatusOK, "text/csv", data)
	case "pdf":
		data, err := h.reports.RenderPDF(c.Request.Context(), studentID, term)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=report-card-%s.pdf", studentID))
		c.Data(http.StatusOK, "application/pdf", data)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}
