package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadify/acadify-api/internal/models"
	"github.com/acadify/acadify-api/internal/service"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
	"github.com/acadify/acadify-api/pkg/response"
)

// FormulaHandler exposes grading formula and conversion table endpoints.
type FormulaHandler struct {
	formulas *service.FormulaService
}

// NewFormulaHandler constructs handler.
func NewFormulaHandler(formulas *service.FormulaService) *FormulaHandler {
	return &FormulaHandler{formulas: formulas}
}

// Get godoc
// @Summary Get class grading formula
// @Tags Formulas
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/formula [get]
func (h *FormulaHandler) Get(c *gin.Context) {
	formula, err := h.formulas.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, formula, nil)
}

// Editable godoc
// @Summary Check whether the formula can still change
// @Tags Formulas
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/formula/editable [get]
func (h *FormulaHandler) Editable(c *gin.Context) {
	editable, err := h.formulas.CanEdit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, editable, nil)
}

// Update godoc
// @Summary Replace class grading formula
// @Tags Formulas
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body service.UpdateFormulaRequest true "Formula payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /classes/{id}/formula [put]
func (h *FormulaHandler) Update(c *gin.Context) {
	var req service.UpdateFormulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	formula, err := h.formulas.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, formula, nil)
}

// GetConversionTable godoc
// @Summary Get class conversion table
// @Tags Formulas
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/conversion-table [get]
func (h *FormulaHandler) GetConversionTable(c *gin.Context) {
	table, err := h.formulas.GetConversionTable(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, table, nil)
}

// SetConversionTable godoc
// @Summary Store a custom conversion table
// @Tags Formulas
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body models.ConversionTable true "Conversion table"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/conversion-table [put]
func (h *FormulaHandler) SetConversionTable(c *gin.Context) {
	var table models.ConversionTable
	if err := c.ShouldBindJSON(&table); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid conversion table"))
		return
	}
	if err := h.formulas.SetConversionTable(c.Request.Context(), c.Param("id"), &table); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, table, nil)
}

// ClearConversionTable godoc
// @Summary Revert to the standard conversion table
// @Tags Formulas
// @Param id path string true "Class ID"
// @Success 204 {object} response.Envelope
// @Router /classes/{id}/conversion-table [delete]
func (h *FormulaHandler) ClearConversionTable(c *gin.Context) {
	if err := h.formulas.SetConversionTable(c.Request.Context(), c.Param("id"), nil); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
