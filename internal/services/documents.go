package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/roomkeep/dataroom/gate"
	"github.com/roomkeep/dataroom/internal/models"
	"github.com/roomkeep/dataroom/internal/policy"
	"github.com/roomkeep/dataroom/internal/storage"
)

// DocumentService orchestrates upload, download and delete against the
// catalog database and the blob store, appending audit rows for each
// successful storage-affecting action.
type DocumentService struct {
	db      *gorm.DB
	blobs   storage.BlobStore
	gate    *policy.AuthGate
	audit   *AuditService
	maxSize int64
}

// NewDocumentService creates the service. maxSize is the per-file
// upload ceiling in bytes.
func NewDocumentService(db *gorm.DB, blobs storage.BlobStore, authGate *policy.AuthGate, audit *AuditService, maxSize int64) *DocumentService {
	return &DocumentService{db: db, blobs: blobs, gate: authGate, audit: audit, maxSize: maxSize}
}

// UploadInput describes one file to upload with its metadata.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader

	Name        string
	Description string
	Tags        []string
	Category    string
	Subcategory string
}

// Upload runs the upload orchestration for one file:
// admin check, size ceiling (before any blob write), blob write under a
// collision-resistant path, catalog insert with a compensating blob
// delete on failure, then a best-effort audit append.
func (s *DocumentService) Upload(ctx context.Context, actorID uint, in UploadInput, meta RequestMeta) (*models.Document, error) {
	if err := s.gate.Authorize(ctx, actorID, gate.ActionUpload, policy.ResourceDocument, nil); err != nil {
		return nil, ErrForbidden
	}
	if in.Filename == "" {
		return nil, fmt.Errorf("%w: file is required", ErrValidation)
	}
	if s.maxSize > 0 && in.Size > s.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds ceiling of %d", ErrFileTooLarge, in.Size, s.maxSize)
	}

	name := in.Name
	if name == "" {
		name = in.Filename
	}
	path := storagePath(in.Filename)

	if err := s.blobs.Put(ctx, path, in.Reader, in.Size, in.ContentType); err != nil {
		return nil, fmt.Errorf("blob write: %w", err)
	}

	doc := models.Document{
		ID:          uuid.NewString(),
		Name:        name,
		Description: in.Description,
		StoragePath: path,
		Size:        in.Size,
		MimeType:    in.ContentType,
		Tags:        datatypes.NewJSONSlice(in.Tags),
		Category:    in.Category,
		Subcategory: in.Subcategory,
		UploadedBy:  actorID,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		// Compensating delete. Not guaranteed: a second failure here
		// leaves an orphaned blob, which Download reports as
		// not-found-on-storage.
		if rmErr := s.blobs.Remove(ctx, path); rmErr != nil {
			slog.Error("compensating blob delete failed", "path", path, "error", rmErr)
		}
		return nil, fmt.Errorf("catalog insert: %w", err)
	}

	s.audit.Record(ctx, actorID, doc.ID, models.AuditUpload, meta)
	return &doc, nil
}

// UploadResult aggregates a multi-file upload. Files are processed
// sequentially; a per-file failure does not abort the remaining files.
type UploadResult struct {
	Uploaded  int                `json:"uploaded"`
	Total     int                `json:"total"`
	Documents []*models.Document `json:"documents"`
	Failures  []UploadFailure    `json:"failures,omitempty"`
}

// UploadFailure names one file that could not be uploaded.
type UploadFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// UploadBatch uploads files one by one and reports how many succeeded.
func (s *DocumentService) UploadBatch(ctx context.Context, actorID uint, inputs []UploadInput, meta RequestMeta) UploadResult {
	result := UploadResult{Total: len(inputs)}
	for _, in := range inputs {
		doc, err := s.Upload(ctx, actorID, in, meta)
		if err != nil {
			result.Failures = append(result.Failures, UploadFailure{Filename: in.Filename, Error: err.Error()})
			continue
		}
		result.Uploaded++
		result.Documents = append(result.Documents, doc)
	}
	return result
}

// Download runs the download orchestration: catalog lookup, permission
// check, blob fetch, best-effort audit append. The caller streams the
// returned object and must close its Reader.
func (s *DocumentService) Download(ctx context.Context, actorID uint, documentID string, meta RequestMeta) (*models.Document, *storage.Object, error) {
	doc, err := s.find(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.gate.Authorize(ctx, actorID, gate.ActionDownload, policy.ResourceDocument, doc.ID); err != nil {
		return nil, nil, ErrForbidden
	}
	obj, err := s.blobs.Get(ctx, doc.StoragePath)
	if errors.Is(err, storage.ErrBlobNotFound) {
		return nil, nil, ErrNotFoundOnStorage
	}
	if err != nil {
		return nil, nil, fmt.Errorf("blob read: %w", err)
	}

	s.audit.Record(ctx, actorID, doc.ID, models.AuditDownload, meta)
	return doc, obj, nil
}

// Delete removes the blob (best-effort; a missing blob is not an
// error), then the catalog row together with its grants, then appends
// the audit row. Admin-only.
func (s *DocumentService) Delete(ctx context.Context, actorID uint, documentID string, meta RequestMeta) error {
	if err := s.gate.Authorize(ctx, actorID, gate.ActionDelete, policy.ResourceDocument, documentID); err != nil {
		return ErrForbidden
	}
	doc, err := s.find(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.blobs.Remove(ctx, doc.StoragePath); err != nil {
		slog.Warn("blob delete failed", "path", doc.StoragePath, "error", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", doc.ID).Delete(&models.AccessGrant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Document{}, "id = ?", doc.ID).Error
	})
	if err != nil {
		return fmt.Errorf("catalog delete: %w", err)
	}

	s.audit.Record(ctx, actorID, doc.ID, models.AuditDelete, meta)
	return nil
}

// Get returns a single catalog row, permission-checked like download.
// Reading metadata is not storage-affecting, so no audit row is
// appended.
func (s *DocumentService) Get(ctx context.Context, actorID uint, documentID string) (*models.Document, error) {
	doc, err := s.find(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, actorID, gate.ActionView, policy.ResourceDocument, doc.ID); err != nil {
		return nil, ErrForbidden
	}
	return doc, nil
}

// ListFilter narrows document listings.
type ListFilter struct {
	Category    string
	Subcategory string
	Query       string
	Page        int
	PageSize    int
}

// List returns the documents visible to the actor: everything for
// admins, granted documents only for regular users. The SQL mirrors
// the permission predicate so a row the actor may not download never
// appears in a listing.
func (s *DocumentService) List(ctx context.Context, actorID uint, filter ListFilter) ([]models.Document, int64, error) {
	if err := s.gate.Authorize(ctx, actorID, gate.ActionList, policy.ResourceDocument, nil); err != nil {
		return nil, 0, ErrForbidden
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 200 {
		filter.PageSize = 20
	}

	q := s.db.WithContext(ctx).Model(&models.Document{})
	if !s.gate.IsAdmin(ctx, actorID) {
		q = q.Where("EXISTS (SELECT 1 FROM access_grants g WHERE g.document_id = documents.id AND g.user_id = ?)", actorID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Subcategory != "" {
		q = q.Where("subcategory = ?", filter.Subcategory)
	}
	if filter.Query != "" {
		q = q.Where("name LIKE ?", "%"+filter.Query+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var docs []models.Document
	err := q.Order("created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&docs).Error
	return docs, total, err
}

func (s *DocumentService) find(ctx context.Context, documentID string) (*models.Document, error) {
	var doc models.Document
	err := s.db.WithContext(ctx).First(&doc, "id = ?", documentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// storagePath generates a collision-resistant blob path: unix
// timestamp, random token, then the sanitized original filename.
func storagePath(filename string) string {
	base := filepath.Base(filename)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	token := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%d-%s-%s", time.Now().Unix(), token, base)
}
