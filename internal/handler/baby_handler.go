package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/babyline/internal/pkg/errcode"
	"github.com/xxxsen/babyline/internal/pkg/response"
	"github.com/xxxsen/babyline/internal/service"
)

type BabyHandler struct {
	babies *service.BabyService
}

func NewBabyHandler(babies *service.BabyService) *BabyHandler {
	return &BabyHandler{babies: babies}
}

type babyRequest struct {
	Name      string `json:"name"`
	Birthdate string `json:"birthdate"`
}

func (h *BabyHandler) Create(c *gin.Context) {
	var req babyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	baby, err := h.babies.Create(c.Request.Context(), getUserID(c), strings.TrimSpace(req.Name), req.Birthdate)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, baby)
}

func (h *BabyHandler) List(c *gin.Context) {
	items, err := h.babies.List(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

func (h *BabyHandler) Get(c *gin.Context) {
	baby, err := h.babies.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, baby)
}

func (h *BabyHandler) Update(c *gin.Context) {
	var req babyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	baby, err := h.babies.Update(c.Request.Context(), getUserID(c), c.Param("id"), strings.TrimSpace(req.Name), req.Birthdate)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, baby)
}

func (h *BabyHandler) Delete(c *gin.Context) {
	if err := h.babies.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
