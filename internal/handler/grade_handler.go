package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dersly/dersly-api/internal/service"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
	"github.com/dersly/dersly-api/pkg/response"
)

// GradeHandler exposes grade book and GPA endpoints.
type GradeHandler struct {
	grades *service.GradeService
}

// NewGradeHandler constructs handler.
func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// List godoc
// @Summary List grade entries
// @Tags Grades
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.grades.List(sessionFromContext(c)), nil)
}

// Create godoc
// @Summary Record a grade
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.CreateGradeRequest true "Grade payload"
// @Success 201 {object} response.Envelope
// @Router /grades [post]
func (h *GradeHandler) Create(c *gin.Context) {
	var req service.CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.grades.Create(sessionFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, grade)
}

// Update godoc
// @Summary Replace a grade entry
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path int true "Grade ID"
// @Param payload body service.UpdateGradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /grades/{id} [put]
func (h *GradeHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.grades.Update(sessionFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// Delete godoc
// @Summary Delete a grade entry
// @Tags Grades
// @Param id path int true "Grade ID"
// @Success 204
// @Router /grades/{id} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.grades.Delete(sessionFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Statistics godoc
// @Summary Cumulative and per-semester GPA figures
// @Tags Grades
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grades/statistics [get]
func (h *GradeHandler) Statistics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.grades.Statistics(sessionFromContext(c)), nil)
}

// Scales godoc
// @Summary List built-in grading scales
// @Tags Grades
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grades/scales [get]
func (h *GradeHandler) Scales(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.grades.Scales(), nil)
}

// Convert godoc
// @Summary Convert a grade token to its point value
// @Tags Grades
// @Produce json
// @Param scale query string true "Scale name"
// @Param token query string true "Letter or percentage token"
// @Success 200 {object} response.Envelope
// @Router /grades/convert [get]
func (h *GradeHandler) Convert(c *gin.Context) {
	points, err := h.grades.ConvertGrade(c.Query("scale"), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"token": c.Query("token"), "points": points}, nil)
}

// Required godoc
// @Summary Required average over future credits to reach a target GPA
// @Tags Grades
// @Produce json
// @Param currentGpa query number true "Current cumulative GPA"
// @Param currentCredits query int true "Credits completed"
// @Param targetGpa query number true "Target cumulative GPA"
// @Param newCredits query int true "Credits still to take"
// @Success 200 {object} response.Envelope
// @Router /grades/required [get]
func (h *GradeHandler) Required(c *gin.Context) {
	currentGPA, err1 := strconv.ParseFloat(c.Query("currentGpa"), 64)
	currentCredits, err2 := strconv.Atoi(c.Query("currentCredits"))
	targetGPA, err3 := strconv.ParseFloat(c.Query("targetGpa"), 64)
	newCredits, err4 := strconv.Atoi(c.Query("newCredits"))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		response.Error(c, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "currentGpa, currentCredits, targetGpa and newCredits are required numeric parameters"))
		return
	}
	required := h.grades.RequiredGPA(currentGPA, currentCredits, targetGPA, newCredits)
	response.JSON(c, http.StatusOK, gin.H{
		"required":   required,
		"achievable": required >= 0,
	}, nil)
}

// Report godoc
// @Summary Download the grade book as CSV or PDF
// @Tags Grades
// @Produce octet-stream
// @Param format query string true "csv or pdf"
// @Success 200 {file} binary
// @Router /grades/report [get]
func (h *GradeHandler) Report(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.grades.Report(sessionFromContext(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=dersly-grades.%s", format))
	c.Data(http.StatusOK, contentType, payload)
}
