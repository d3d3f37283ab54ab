package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/babyline/internal/pkg/errcode"
	"github.com/xxxsen/babyline/internal/pkg/response"
	"github.com/xxxsen/babyline/internal/service"
)

type MeasurementHandler struct {
	measurements *service.MeasurementService
}

func NewMeasurementHandler(measurements *service.MeasurementService) *MeasurementHandler {
	return &MeasurementHandler{measurements: measurements}
}

type measurementRequest struct {
	MeasuredAt string  `json:"measured_at"`
	WeightKg   float64 `json:"weight_kg"`
	HeightCm   float64 `json:"height_cm"`
	Notes      string  `json:"notes"`
}

func (h *MeasurementHandler) Create(c *gin.Context) {
	var req measurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	m, err := h.measurements.Create(c.Request.Context(), getUserID(c), c.Param("id"), service.MeasurementInput{
		MeasuredAt: req.MeasuredAt,
		WeightKg:   req.WeightKg,
		HeightCm:   req.HeightCm,
		Notes:      req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, m)
}

func (h *MeasurementHandler) List(c *gin.Context) {
	limit := uint(0)
	if value := c.Query("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = uint(parsed)
		}
	}
	start := c.Query("start_date")
	end := c.Query("end_date")
	ctx := c.Request.Context()
	if start != "" && end != "" {
		items, err := h.measurements.ListByDateRange(ctx, getUserID(c), c.Param("id"), start, end)
		if err != nil {
			handleError(c, err)
			return
		}
		response.Success(c, gin.H{"items": items})
		return
	}
	items, err := h.measurements.List(ctx, getUserID(c), c.Param("id"), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

func (h *MeasurementHandler) Stats(c *gin.Context) {
	stats, err := h.measurements.Stats(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, stats)
}

func (h *MeasurementHandler) Update(c *gin.Context) {
	var req measurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	m, err := h.measurements.Update(c.Request.Context(), getUserID(c), c.Param("id"), service.MeasurementInput{
		WeightKg: req.WeightKg,
		HeightCm: req.HeightCm,
		Notes:    req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, m)
}

func (h *MeasurementHandler) Delete(c *gin.Context) {
	if err := h.measurements.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
