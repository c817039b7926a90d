package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lexkit/lexdoc/internal/pkg/errcode"
	"github.com/lexkit/lexdoc/internal/pkg/response"
	"github.com/lexkit/lexdoc/internal/service"
	"github.com/lexkit/lexdoc/internal/summarizer"
)

type DocumentHandler struct {
	documents *service.DocumentService
}

func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

type documentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *DocumentHandler) Create(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.Title == "" {
		response.Error(c, errcode.ErrInvalid, "title required")
		return
	}
	doc, err := h.documents.Create(c.Request.Context(), getUserID(c), req.Title, req.Content, "")
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

func (h *DocumentHandler) List(c *gin.Context) {
	userID := getUserID(c)
	query := c.Query("q")
	limit, offset := parsePage(c)
	var err error
	var docs interface{}
	if query != "" {
		docs, err = h.documents.Search(c.Request.Context(), userID, query, limit, offset)
	} else {
		docs, err = h.documents.List(c.Request.Context(), userID, limit, offset)
	}
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, docs)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.documents.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

func (h *DocumentHandler) Update(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.Title == "" {
		response.Error(c, errcode.ErrInvalid, "title required")
		return
	}
	doc, err := h.documents.Update(c.Request.Context(), getUserID(c), c.Param("id"), req.Title, req.Content)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

type setSummaryRequest struct {
	Summary string `json:"summary"`
}

func (h *DocumentHandler) SetSummary(c *gin.Context) {
	var req setSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	doc, err := h.documents.SetSummary(c.Request.Context(), getUserID(c), c.Param("id"), req.Summary)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

type summarizeRequest struct {
	Tier   string `json:"tier"`
	Engine string `json:"engine"`
}

func (h *DocumentHandler) Summarize(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	doc, engine, err := h.documents.Summarize(c.Request.Context(), getUserID(c), c.Param("id"), summarizer.Tier(req.Tier), req.Engine)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"document_id": doc.ID,
		"summary":     doc.Summary,
		"engine":      engine,
	})
}

type chatRequest struct {
	Query string `json:"query"`
}

func (h *DocumentHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.Query == "" {
		response.Error(c, errcode.ErrInvalid, "query required")
		return
	}
	answer, err := h.documents.Chat(c.Request.Context(), getUserID(c), c.Param("id"), req.Query)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"answer": answer})
}

func parsePage(c *gin.Context) (uint, uint) {
	limit := uint(0)
	offset := uint(0)
	if value := c.Query("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = uint(parsed)
		}
	}
	if value := c.Query("offset"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			offset = uint(parsed)
		}
	}
	return limit, offset
}
