package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/lexkit/lexdoc/internal/model"
	"github.com/lexkit/lexdoc/internal/pkg/dbutil"
	appErr "github.com/lexkit/lexdoc/internal/pkg/errors"
)

var uploadFields = []string{"id", "user_id", "document_id", "filename", "file_key", "content_type", "size", "extracted_text", "status", "ctime", "mtime"}

type UploadRepo struct {
	db *sql.DB
}

func NewUploadRepo(db *sql.DB) *UploadRepo {
	return &UploadRepo{db: db}
}

func (r *UploadRepo) Create(ctx context.Context, upload *model.Upload) error {
	data := map[string]interface{}{
		"id":             upload.ID,
		"user_id":        upload.UserID,
		"document_id":    upload.DocumentID,
		"filename":       upload.Filename,
		"file_key":       upload.FileKey,
		"content_type":   upload.ContentType,
		"size":           upload.Size,
		"extracted_text": upload.ExtractedText,
		"status":         upload.Status,
		"ctime":          upload.Ctime,
		"mtime":          upload.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("uploads", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *UploadRepo) GetByID(ctx context.Context, userID, uploadID string) (*model.Upload, error) {
	where := map[string]interface{}{
		"id":      uploadID,
		"user_id": userID,
	}
	sqlStr, args, err := builder.BuildSelect("uploads", where, uploadFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	upload, err := scanUpload(rows)
	if err != nil {
		return nil, err
	}
	return upload, nil
}

func (r *UploadRepo) List(ctx context.Context, userID string, limit, offset uint) ([]model.Upload, error) {
	where := map[string]interface{}{
		"user_id":  userID,
		"_orderby": "ctime desc",
	}
	if limit > 0 {
		where["_limit"] = []uint{offset, limit}
	}
	sqlStr, args, err := builder.BuildSelect("uploads", where, uploadFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	uploads := make([]model.Upload, 0)
	for rows.Next() {
		upload, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, *upload)
	}
	return uploads, rows.Err()
}

func (r *UploadRepo) Delete(ctx context.Context, userID, uploadID string) error {
	where := map[string]interface{}{
		"id":      uploadID,
		"user_id": userID,
	}
	sqlStr, args, err := builder.BuildDelete("uploads", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func scanUpload(rows *sql.Rows) (*model.Upload, error) {
	var upload model.Upload
	if err := rows.Scan(&upload.ID, &upload.UserID, &upload.DocumentID, &upload.Filename, &upload.FileKey, &upload.ContentType, &upload.Size, &upload.ExtractedText, &upload.Status, &upload.Ctime, &upload.Mtime); err != nil {
		return nil, err
	}
	return &upload, nil
}
