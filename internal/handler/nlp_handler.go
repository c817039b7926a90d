package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lexkit/lexdoc/internal/pkg/errcode"
	"github.com/lexkit/lexdoc/internal/pkg/response"
	"github.com/lexkit/lexdoc/internal/service"
	"github.com/lexkit/lexdoc/internal/summarizer"
)

// NLPHandler exposes summarization and question answering over either
// raw text or a stored document.
type NLPHandler struct {
	documents *service.DocumentService
	summarize *service.SummaryService
}

func NewNLPHandler(documents *service.DocumentService, summarize *service.SummaryService) *NLPHandler {
	return &NLPHandler{documents: documents, summarize: summarize}
}

type nlpSummarizeRequest struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
	Tier       string `json:"tier"`
	Engine     string `json:"engine"`
}

func (h *NLPHandler) Summarize(c *gin.Context) {
	var req nlpSummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	tier := service.NormalizeTier(summarizer.Tier(req.Tier))

	if req.DocumentID != "" {
		doc, engine, err := h.documents.Summarize(c.Request.Context(), getUserID(c), req.DocumentID, tier, req.Engine)
		if err != nil {
			handleError(c, err)
			return
		}
		response.Success(c, gin.H{
			"document_id": doc.ID,
			"summary":     doc.Summary,
			"tier":        string(tier),
			"engine":      engine,
		})
		return
	}

	summary, engine := h.summarize.Summarize(c.Request.Context(), req.Text, tier, req.Engine)
	response.Success(c, gin.H{
		"summary": summary,
		"tier":    string(tier),
		"engine":  engine,
	})
}

type nlpAskRequest struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
	Query      string `json:"query"`
}

func (h *NLPHandler) Ask(c *gin.Context) {
	var req nlpAskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		response.Error(c, errcode.ErrInvalid, "query required")
		return
	}
	if req.DocumentID != "" {
		answer, err := h.documents.Chat(c.Request.Context(), getUserID(c), req.DocumentID, req.Query)
		if err != nil {
			handleError(c, err)
			return
		}
		response.Success(c, gin.H{"answer": answer})
		return
	}
	response.Success(c, gin.H{"answer": summarizer.Answer(req.Text, req.Query)})
}
