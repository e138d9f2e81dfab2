package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sitedocs/internal/model"
	"sitedocs/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Document{},
		&model.Annotation{},
		&model.Note{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		Name:         email,
		Role:         model.RoleEngineer,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func identityOf(user *model.User) model.Identity {
	return model.Identity{ID: user.ID, Email: user.Email, Name: user.Name}
}

func seedProject(t *testing.T, db *gorm.DB, lead *model.User, members ...*model.User) *model.Project {
	t.Helper()
	project := &model.Project{
		Name:       "Harbor Warehouse",
		StartDate:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC),
		Status:     model.ProjectStatusInProgress,
		TeamLeadID: lead.ID,
	}
	require.NoError(t, db.Create(project).Error)
	for _, m := range members {
		require.NoError(t, db.Model(project).Association("TeamMembers").Append(&model.User{ID: m.ID}))
	}
	return project
}

func seedDocument(t *testing.T, db *gorm.DB, project *model.Project, uploader *model.User, key string) *model.Document {
	t.Helper()
	doc := &model.Document{
		Name:           "plan.pdf",
		FilePath:       key,
		FileType:       "application/pdf",
		Size:           4,
		Classification: model.ClassificationConstruction,
		Status:         model.DocumentStatusPending,
		UploadDate:     time.Now(),
		ProjectID:      project.ID,
		UploadedByID:   uploader.ID,
	}
	doc.SetReviewerIDs(nil)
	require.NoError(t, db.Create(doc).Error)
	return doc
}

// fakeBlobStore is an in-memory storage.Store with injectable failures.
type fakeBlobStore struct {
	objects map[string][]byte
	putErr  error
	getErr  error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (f *fakeBlobStore) Put(_ context.Context, key, _ string, data io.Reader) error {
	if f.putErr != nil {
		return f.putErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.objects[key] = b
	return nil
}

func (f *fakeBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object not found: " + key)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *fakeBlobStore) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

// fakeAnalyzer answers with canned results or canned failures.
type fakeAnalyzer struct {
	classification model.Classification
	classifyErr    error
	info           model.ExtractedInfo
	extractErr     error

	classifyCalls int
	extractCalls  int
}

func (f *fakeAnalyzer) Classify(_ context.Context, _ []byte, _ string) (model.Classification, error) {
	f.classifyCalls++
	if f.classifyErr != nil {
		return model.ClassificationUnknown, f.classifyErr
	}
	return f.classification, nil
}

func (f *fakeAnalyzer) Extract(_ context.Context, _ []byte, _ string, _ model.Classification) (model.ExtractedInfo, error) {
	f.extractCalls++
	if f.extractErr != nil {
		return model.ExtractedInfo{}, f.extractErr
	}
	return f.info, nil
}

// fakePublisher records everything published.
type fakePublisher struct {
	events []model.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event model.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func newDocumentFixture(t *testing.T) (*gorm.DB, *DocumentService, *fakeBlobStore, *fakeAnalyzer, *fakePublisher) {
	t.Helper()
	db := newTestDB(t)
	blobs := newFakeBlobStore()
	analyzer := &fakeAnalyzer{classification: model.ClassificationConstruction}
	publisher := &fakePublisher{}
	svc := NewDocumentService(
		repository.NewDocumentRepository(db),
		repository.NewProjectRepository(db),
		blobs,
		analyzer,
		publisher,
	)
	return db, svc, blobs, analyzer, publisher
}
