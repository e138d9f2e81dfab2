package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"sitedocs/internal/authz"
	"sitedocs/internal/model"
	"sitedocs/internal/repository"
	"sitedocs/internal/storage"
)

// DocumentAnalyzer is the hosted AI boundary: one call to classify a
// document, one to extract structured fields from it. Both are
// best-effort during ingestion; neither failure is fatal there.
type DocumentAnalyzer interface {
	Classify(ctx context.Context, data []byte, mimeType string) (model.Classification, error)
	Extract(ctx context.Context, data []byte, mimeType string, category model.Classification) (model.ExtractedInfo, error)
}

type DocumentService struct {
	documents *repository.DocumentRepository
	projects  *repository.ProjectRepository
	blobs     storage.Store
	analyzer  DocumentAnalyzer // nil skips the AI calls entirely
	events    EventPublisher
}

type IngestInput struct {
	ProjectID      uuid.UUID
	FileName       string
	FileType       string
	Size           int64
	Data           []byte
	Classification string // optional caller-supplied category
}

func NewDocumentService(
	documents *repository.DocumentRepository,
	projects *repository.ProjectRepository,
	blobs storage.Store,
	analyzer DocumentAnalyzer,
	events EventPublisher,
) *DocumentService {
	return &DocumentService{
		documents: documents,
		projects:  projects,
		blobs:     blobs,
		analyzer:  analyzer,
		events:    events,
	}
}

// Ingest stores the raw bytes first, then attempts classification and
// extraction, then inserts the row. Only a blob-store or database failure
// aborts the upload; the AI calls degrade to defaults.
func (s *DocumentService) Ingest(ctx context.Context, actor model.Identity, input IngestInput) (*DocumentDetail, error) {
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" || len(input.Data) == 0 || input.ProjectID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	fallback := model.ClassificationConstruction
	if input.Classification != "" {
		supplied := model.Classification(input.Classification)
		if !supplied.Valid() {
			return nil, ErrInvalidInput
		}
		fallback = supplied
	}

	project, err := s.projects.GetByID(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	if !authz.CanUploadToProject(actor, project) {
		return nil, ErrForbidden
	}

	fileType := input.FileType
	if fileType == "" {
		fileType = "application/octet-stream"
	}

	uploadedAt := time.Now()
	key := storage.ObjectKey(uploadedAt, fileName)
	if err := s.blobs.Put(ctx, key, fileType, bytes.NewReader(input.Data)); err != nil {
		return nil, fmt.Errorf("store document bytes failed: %w", err)
	}

	classification := fallback
	if s.analyzer != nil && input.Classification == "" {
		got, err := s.analyzer.Classify(ctx, input.Data, fileType)
		if err != nil {
			log.Printf("document classification degraded to %s: %v", fallback, err)
		} else if got.Valid() {
			classification = got
		}
	}

	var info model.ExtractedInfo
	if s.analyzer != nil {
		got, err := s.analyzer.Extract(ctx, input.Data, fileType, classification)
		if err != nil {
			log.Printf("document extraction skipped: %v", err)
		} else {
			info = got
		}
	}

	doc := &model.Document{
		Name:           fileName,
		FilePath:       key,
		FileType:       fileType,
		Size:           input.Size,
		Classification: classification,
		ExtractedInfo:  info,
		Status:         model.DocumentStatusPending,
		UploadDate:     uploadedAt,
		ProjectID:      input.ProjectID,
		UploadedByID:   actor.ID,
	}
	doc.SetReviewerIDs(nil)
	if err := s.documents.Create(doc); err != nil {
		// The bytes are already durable; reclaim them since no row
		// will ever reference the key.
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			log.Printf("orphaned blob %s cleanup failed: %v", key, delErr)
		}
		return nil, err
	}

	s.publish(ctx, model.Event{
		Type:       model.EventDocumentIngested,
		EntityID:   doc.ID,
		ProjectID:  doc.ProjectID,
		ActorID:    actor.ID,
		OccurredAt: uploadedAt,
	})

	return s.reload(doc.ID)
}

// List returns the documents of every project the actor leads or belongs
// to, newest upload first.
func (s *DocumentService) List(actor model.Identity) ([]DocumentListItem, error) {
	docs, err := s.documents.ListForUser(actor.ID)
	if err != nil {
		return nil, err
	}
	items := make([]DocumentListItem, 0, len(docs))
	for i := range docs {
		items = append(items, documentListItemView(&docs[i]))
	}
	return items, nil
}

// GetMeta returns the document detail view; readable by anyone who can
// read the owning project.
func (s *DocumentService) GetMeta(actor model.Identity, id uuid.UUID) (*DocumentDetail, error) {
	doc, err := s.authorizedDocument(actor, id)
	if err != nil {
		return nil, err
	}
	detail := documentDetailView(doc)
	return &detail, nil
}

// Open returns the stored bytes for download. A blob-store failure on an
// explicit download is the operation itself failing upstream.
func (s *DocumentService) Open(ctx context.Context, actor model.Identity, id uuid.UUID) (*model.Document, io.ReadCloser, error) {
	doc, err := s.authorizedDocument(actor, id)
	if err != nil {
		return nil, nil, err
	}
	reader, err := s.blobs.Get(ctx, doc.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return doc, reader, nil
}

// Delete removes the document; owning project's team lead only. The row
// goes first; the blob is reclaimed best-effort afterwards.
func (s *DocumentService) Delete(ctx context.Context, actor model.Identity, id uuid.UUID) error {
	doc, err := s.documents.GetByID(id)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrNotFound
	}
	if !authz.CanDeleteDocument(actor, doc) {
		return ErrForbidden
	}

	if err := s.documents.Delete(id); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, doc.FilePath); err != nil {
		log.Printf("blob %s cleanup failed: %v", doc.FilePath, err)
	}

	s.publish(ctx, model.Event{
		Type:       model.EventDocumentDeleted,
		EntityID:   id,
		ProjectID:  doc.ProjectID,
		ActorID:    actor.ID,
		OccurredAt: time.Now(),
	})
	return nil
}

// Analyze re-runs extraction against the stored bytes and persists the
// result. Here the analysis is the whole request, so an AI or blob-store
// failure surfaces as ErrUpstream instead of degrading.
func (s *DocumentService) Analyze(ctx context.Context, actor model.Identity, id uuid.UUID) (*DocumentDetail, error) {
	doc, err := s.authorizedDocument(actor, id)
	if err != nil {
		return nil, err
	}
	if s.analyzer == nil {
		return nil, fmt.Errorf("%w: analysis is not configured", ErrUpstream)
	}

	reader, err := s.blobs.Get(ctx, doc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	info, err := s.analyzer.Extract(ctx, data, doc.FileType, doc.Classification)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if err := s.documents.SaveExtractedInfo(id, info); err != nil {
		return nil, err
	}
	return s.reload(id)
}

// Annotate appends an annotation; any member of the owning project.
func (s *DocumentService) Annotate(actor model.Identity, id uuid.UUID, text string) (*AnnotationView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrInvalidInput
	}

	doc, err := s.authorizedDocument(actor, id)
	if err != nil {
		return nil, err
	}

	created, err := s.documents.CreateAnnotation(&model.Annotation{
		DocumentID: doc.ID,
		UserID:     actor.ID,
		Text:       text,
	})
	if err != nil {
		return nil, err
	}
	view := AnnotationView{
		ID:        created.ID,
		Text:      created.Text,
		User:      userRef(created.User),
		CreatedAt: created.CreatedAt,
	}
	return &view, nil
}

func (s *DocumentService) authorizedDocument(actor model.Identity, id uuid.UUID) (*model.Document, error) {
	doc, err := s.documents.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	if !authz.CanViewDocument(actor, doc) {
		return nil, ErrForbidden
	}
	return doc, nil
}

func (s *DocumentService) reload(id uuid.UUID) (*DocumentDetail, error) {
	doc, err := s.documents.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	detail := documentDetailView(doc)
	return &detail, nil
}

func (s *DocumentService) publish(ctx context.Context, event model.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		log.Printf("publish %s event failed: %v", event.Type, err)
	}
}
