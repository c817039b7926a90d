package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lexkit/lexdoc/internal/pkg/errcode"
	"github.com/lexkit/lexdoc/internal/pkg/response"
	"github.com/lexkit/lexdoc/internal/service"
)

type UploadHandler struct {
	uploads *service.UploadService
}

func NewUploadHandler(uploads *service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "file is required")
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "failed to open file")
		return
	}
	defer func() { _ = opened.Close() }()
	upload, err := h.uploads.Save(c.Request.Context(), getUserID(c), file.Filename, opened, file.Size)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, upload)
}

func (h *UploadHandler) List(c *gin.Context) {
	limit, offset := parsePage(c)
	uploads, err := h.uploads.List(c.Request.Context(), getUserID(c), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, uploads)
}

func (h *UploadHandler) Text(c *gin.Context) {
	upload, err := h.uploads.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"id":          upload.ID,
		"filename":    upload.Filename,
		"status":      upload.Status,
		"document_id": upload.DocumentID,
		"text":        upload.ExtractedText,
	})
}

func (h *UploadHandler) Delete(c *gin.Context) {
	if err := h.uploads.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
