package repo

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/lexkit/lexdoc/internal/model"
	appErr "github.com/lexkit/lexdoc/internal/pkg/errors"
)

// StoredSummary is a persisted summary plus how it was produced.
type StoredSummary struct {
	Summary string `json:"summary"`
	Tier    string `json:"tier"`
	Engine  string `json:"engine"`
	Mtime   int64  `json:"mtime"`
}

type DocumentSummaryRepo struct {
	db *sql.DB
}

func NewDocumentSummaryRepo(db *sql.DB) *DocumentSummaryRepo {
	return &DocumentSummaryRepo{db: db}
}

func (r *DocumentSummaryRepo) Upsert(ctx context.Context, userID, docID, summary, tier, engine string, now int64) error {
	const query = `
		INSERT INTO document_summaries (document_id, user_id, summary, tier, engine, ctime, mtime)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (document_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			summary = EXCLUDED.summary,
			tier = EXCLUDED.tier,
			engine = EXCLUDED.engine,
			mtime = EXCLUDED.mtime
	`
	_, err := r.db.ExecContext(ctx, query, docID, userID, summary, tier, engine, now, now)
	return err
}

func (r *DocumentSummaryRepo) GetByDocID(ctx context.Context, userID, docID string) (*StoredSummary, error) {
	const query = `SELECT summary, tier, engine, mtime FROM document_summaries WHERE document_id = $1 AND user_id = $2`
	row := r.db.QueryRowContext(ctx, query, docID, userID)
	var stored StoredSummary
	if err := row.Scan(&stored.Summary, &stored.Tier, &stored.Engine, &stored.Mtime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &stored, nil
}

func (r *DocumentSummaryRepo) ListByDocIDs(ctx context.Context, userID string, docIDs []string) (map[string]string, error) {
	if len(docIDs) == 0 {
		return map[string]string{}, nil
	}
	query := `SELECT document_id, summary FROM document_summaries WHERE user_id = ? AND document_id IN (?)`
	query, args, err := sqlx.In(query, userID, docIDs)
	if err != nil {
		return nil, err
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	result := make(map[string]string)
	for rows.Next() {
		var docID string
		var summary string
		if err := rows.Scan(&docID, &summary); err != nil {
			return nil, err
		}
		result[docID] = summary
	}
	return result, rows.Err()
}

// ListPendingDocuments returns documents whose content changed after the
// stored summary was written (or that never got one), skipping anything
// modified after maxMtime so in-flight edits settle first.
func (r *DocumentSummaryRepo) ListPendingDocuments(ctx context.Context, limit int, maxMtime int64) ([]model.Document, error) {
	const query = `
		SELECT d.id, d.user_id, d.title, d.content
		FROM documents d
		LEFT JOIN document_summaries s ON d.id = s.document_id
		WHERE d.state = $1
			AND (s.document_id IS NULL OR d.mtime > s.mtime)
			AND d.mtime < $2
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, DocumentStateNormal, maxMtime, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var docs []model.Document
	for rows.Next() {
		var doc model.Document
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.Title, &doc.Content); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *DocumentSummaryRepo) Delete(ctx context.Context, userID, docID string) error {
	const query = `DELETE FROM document_summaries WHERE document_id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, query, docID, userID)
	return err
}
