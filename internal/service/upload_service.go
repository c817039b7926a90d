package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/lexkit/lexdoc/internal/extract"
	"github.com/lexkit/lexdoc/internal/filestore"
	"github.com/lexkit/lexdoc/internal/model"
	appErr "github.com/lexkit/lexdoc/internal/pkg/errors"
	"github.com/lexkit/lexdoc/internal/pkg/timeutil"
	"github.com/lexkit/lexdoc/internal/repo"
)

// unsupportedExtractionNote is stored for accepted formats we keep but
// cannot parse.
const unsupportedExtractionNote = "Unsupported file format for text extraction"

var allowedUploadExts = map[string]struct{}{
	".pdf":      {},
	".txt":      {},
	".md":       {},
	".markdown": {},
	".doc":      {},
	".docx":     {},
}

type UploadService struct {
	uploads *repo.UploadRepo
	docs    *DocumentService
	store   filestore.Store
	maxSize int64
}

func NewUploadService(uploads *repo.UploadRepo, docs *DocumentService, store filestore.Store, maxSize int64) *UploadService {
	return &UploadService{uploads: uploads, docs: docs, store: store, maxSize: maxSize}
}

// Save stores the file, extracts text from parseable formats and, when
// extraction yields anything, materializes the text as a document. Files
// we cannot parse are still kept with status stored.
func (s *UploadService) Save(ctx context.Context, userID, filename string, file filestore.ReadSeekCloser, size int64) (*model.Upload, error) {
	if size <= 0 {
		return nil, appErr.ErrInvalidFile
	}
	if s.maxSize > 0 && size > s.maxSize {
		return nil, appErr.ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedUploadExts[ext]; !ok {
		return nil, appErr.ErrInvalidFile
	}
	contentType, err := detectContentType(file)
	if err != nil {
		return nil, err
	}
	fileKey := buildFileKey(userID, ext)
	if err := s.store.Save(ctx, fileKey, file, size); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	now := timeutil.NowUnix()
	upload := &model.Upload{
		ID:          newID(),
		UserID:      userID,
		Filename:    filename,
		FileKey:     fileKey,
		ContentType: contentType,
		Size:        size,
		Status:      model.UploadStatusStored,
		Ctime:       now,
		Mtime:       now,
	}

	if !extract.Supported(filename) {
		upload.ExtractedText = unsupportedExtractionNote
	} else {
		text, err := extract.Text(filename, file, size)
		if err != nil {
			upload.Status = model.UploadStatusFailed
			logutil.GetLogger(ctx).Warn("text extraction failed",
				zap.String("filename", filename),
				zap.Error(err),
			)
		} else if text != "" {
			upload.Status = model.UploadStatusParsed
			upload.ExtractedText = text
			doc, err := s.docs.Create(ctx, userID, documentTitle(filename), text, filename)
			if err != nil {
				return nil, err
			}
			upload.DocumentID = doc.ID
		}
	}

	if err := s.uploads.Create(ctx, upload); err != nil {
		return nil, err
	}
	return upload, nil
}

func (s *UploadService) Get(ctx context.Context, userID, uploadID string) (*model.Upload, error) {
	return s.uploads.GetByID(ctx, userID, uploadID)
}

func (s *UploadService) List(ctx context.Context, userID string, limit, offset uint) ([]model.Upload, error) {
	return s.uploads.List(ctx, userID, limit, offset)
}

// Delete removes the upload record and its linked document. The stored
// file is removed best-effort when the backing store supports it.
func (s *UploadService) Delete(ctx context.Context, userID, uploadID string) error {
	upload, err := s.uploads.GetByID(ctx, userID, uploadID)
	if err != nil {
		return err
	}
	if err := s.uploads.Delete(ctx, userID, uploadID); err != nil {
		return err
	}
	if upload.DocumentID != "" {
		if err := s.docs.Delete(ctx, userID, upload.DocumentID); err != nil && !appErr.IsNotFound(err) {
			logutil.GetLogger(ctx).Warn("delete linked document failed",
				zap.String("doc_id", upload.DocumentID),
				zap.Error(err),
			)
		}
	}
	if remover, ok := s.store.(filestore.Remover); ok {
		if err := remover.Remove(ctx, upload.FileKey); err != nil {
			logutil.GetLogger(ctx).Warn("remove stored file failed",
				zap.String("file_key", upload.FileKey),
				zap.Error(err),
			)
		}
	}
	return nil
}

func detectContentType(r io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := r.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

func buildFileKey(userID, ext string) string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)
	return userID + "_" + hex.EncodeToString(bytes) + ext
}

func documentTitle(filename string) string {
	base := filepath.Base(filename)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.TrimSpace(title) == "" {
		return base
	}
	return title
}
