package service

import (
	"context"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/lexkit/lexdoc/internal/model"
	appErr "github.com/lexkit/lexdoc/internal/pkg/errors"
	"github.com/lexkit/lexdoc/internal/pkg/timeutil"
	"github.com/lexkit/lexdoc/internal/repo"
	"github.com/lexkit/lexdoc/internal/summarizer"
)

const pendingSummaryBatchSize = 50

type DocumentService struct {
	docs      *repo.DocumentRepo
	summaries *repo.DocumentSummaryRepo
	summarize *SummaryService
}

func NewDocumentService(docs *repo.DocumentRepo, summaries *repo.DocumentSummaryRepo, summarize *SummaryService) *DocumentService {
	return &DocumentService{docs: docs, summaries: summaries, summarize: summarize}
}

func (s *DocumentService) Create(ctx context.Context, userID, title, content, filename string) (*model.Document, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, appErr.ErrInvalid
	}
	now := timeutil.NowUnix()
	doc := &model.Document{
		ID:       newID(),
		UserID:   userID,
		Title:    title,
		Content:  content,
		Filename: filename,
		State:    repo.DocumentStateNormal,
		Ctime:    now,
		Mtime:    now,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) Get(ctx context.Context, userID, docID string) (*model.Document, error) {
	doc, err := s.docs.GetByID(ctx, userID, docID)
	if err != nil {
		return nil, err
	}
	if stored, err := s.summaries.GetByDocID(ctx, userID, docID); err == nil {
		doc.Summary = stored.Summary
	} else if !appErr.IsNotFound(err) {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) Update(ctx context.Context, userID, docID, title, content string) (*model.Document, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, appErr.ErrInvalid
	}
	doc := &model.Document{
		ID:      docID,
		UserID:  userID,
		Title:   title,
		Content: content,
		Mtime:   timeutil.NowUnix(),
	}
	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, docID)
}

func (s *DocumentService) List(ctx context.Context, userID string, limit, offset uint) ([]model.Document, error) {
	docs, err := s.docs.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.attachSummaries(ctx, userID, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *DocumentService) Search(ctx context.Context, userID, query string, limit, offset uint) ([]model.Document, error) {
	docs, err := s.docs.SearchLike(ctx, userID, strings.TrimSpace(query), limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.attachSummaries(ctx, userID, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *DocumentService) Delete(ctx context.Context, userID, docID string) error {
	if err := s.docs.Delete(ctx, userID, docID, timeutil.NowUnix()); err != nil {
		return err
	}
	if err := s.summaries.Delete(ctx, userID, docID); err != nil {
		logutil.GetLogger(ctx).Warn("delete stored summary failed",
			zap.String("doc_id", docID),
			zap.Error(err),
		)
	}
	return nil
}

// SetSummary stores a caller-provided summary, replacing whatever engine
// wrote the previous one.
func (s *DocumentService) SetSummary(ctx context.Context, userID, docID, summary string) (*model.Document, error) {
	doc, err := s.docs.GetByID(ctx, userID, docID)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	if err := s.summaries.Upsert(ctx, userID, docID, summary, string(s.summarize.DefaultTier()), "manual", now); err != nil {
		return nil, err
	}
	doc.Summary = summary
	return doc, nil
}

// Summarize generates and persists a summary for the document. Empty
// content is rejected before any engine is involved.
func (s *DocumentService) Summarize(ctx context.Context, userID, docID string, tier summarizer.Tier, engine string) (*model.Document, string, error) {
	doc, err := s.docs.GetByID(ctx, userID, docID)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(doc.Content) == "" {
		return nil, "", appErr.ErrNoContent
	}
	tier = NormalizeTier(tier)
	summary, engineUsed := s.summarize.Summarize(ctx, doc.Content, tier, engine)
	if err := s.summaries.Upsert(ctx, userID, docID, summary, string(tier), engineUsed, timeutil.NowUnix()); err != nil {
		return nil, "", err
	}
	doc.Summary = summary
	return doc, engineUsed, nil
}

// Chat answers a question about the document using its stored summary
// when one exists, otherwise the raw content.
func (s *DocumentService) Chat(ctx context.Context, userID, docID, query string) (string, error) {
	doc, err := s.Get(ctx, userID, docID)
	if err != nil {
		return "", err
	}
	text := doc.Summary
	if strings.TrimSpace(text) == "" {
		text = doc.Content
	}
	return summarizer.Answer(text, query), nil
}

// ProcessPendingSummaries summarizes documents whose content changed
// since their summary was written. Documents modified within the last
// delaySeconds are left for the next run so edit bursts settle.
func (s *DocumentService) ProcessPendingSummaries(ctx context.Context, delaySeconds int64) error {
	cutoff := timeutil.NowUnix() - delaySeconds
	docs, err := s.summaries.ListPendingDocuments(ctx, pendingSummaryBatchSize, cutoff)
	if err != nil {
		return err
	}
	logger := logutil.GetLogger(ctx)
	for _, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			continue
		}
		tier := s.summarize.DefaultTier()
		summary, engineUsed := s.summarize.Summarize(ctx, doc.Content, tier, EngineSmart)
		if err := s.summaries.Upsert(ctx, doc.UserID, doc.ID, summary, string(tier), engineUsed, timeutil.NowUnix()); err != nil {
			logger.Error("store background summary failed",
				zap.String("doc_id", doc.ID),
				zap.Error(err),
			)
			continue
		}
		logger.Info("background summary refreshed",
			zap.String("doc_id", doc.ID),
			zap.String("engine", engineUsed),
		)
	}
	return nil
}

func (s *DocumentService) attachSummaries(ctx context.Context, userID string, docs []model.Document) error {
	if len(docs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	summaries, err := s.summaries.ListByDocIDs(ctx, userID, ids)
	if err != nil {
		return err
	}
	for i := range docs {
		docs[i].Summary = summaries[docs[i].ID]
	}
	return nil
}
