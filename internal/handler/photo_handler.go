package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/babyline/internal/filestore"
	"github.com/xxxsen/babyline/internal/pkg/errcode"
	"github.com/xxxsen/babyline/internal/pkg/response"
	"github.com/xxxsen/babyline/internal/service"
)

type PhotoHandler struct {
	photos *service.PhotoService
	store  filestore.Store
}

func NewPhotoHandler(photos *service.PhotoService, store filestore.Store) *PhotoHandler {
	return &PhotoHandler{photos: photos, store: store}
}

func (h *PhotoHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "file is required")
		return
	}
	if file.Size > service.MaxPhotoSizeBytes {
		response.Error(c, errcode.ErrInvalidFile, "file too large")
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "failed to open file")
		return
	}
	defer opened.Close()

	photo, err := h.photos.Upload(c.Request.Context(), getUserID(c), c.Param("id"), service.UploadPhotoInput{
		Filename: file.Filename,
		Size:     file.Size,
		Caption:  c.PostForm("caption"),
		TakenAt:  c.PostForm("taken_at"),
		Body:     opened,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, photo)
}

func (h *PhotoHandler) List(c *gin.Context) {
	items, err := h.photos.List(c.Request.Context(), getUserID(c), c.Param("id"), queryLimit(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

func (h *PhotoHandler) Delete(c *gin.Context) {
	if err := h.photos.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

// GetFile serves blobs for the local store; s3 photos are fetched through
// their signed URLs instead.
func (h *PhotoHandler) GetFile(c *gin.Context) {
	key := c.Param("key")
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "\\") {
		c.Status(http.StatusBadRequest)
		return
	}
	file, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer file.Close()
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	_, _ = io.Copy(c.Writer, file)
}
