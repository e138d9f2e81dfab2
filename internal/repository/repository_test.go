package repository

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sitedocs/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One in-memory sqlite database per connection; pin the pool so every
	// query sees the same database.
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

func seedProject(t *testing.T, db *gorm.DB, lead *model.User, members ...*model.User) *model.Project {
	t.Helper()
	project := &model.Project{
		Name:       "Riverside Tower",
		StartDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:     model.ProjectStatusPending,
		TeamLeadID: lead.ID,
	}
	require.NoError(t, db.Create(project).Error)
	for _, m := range members {
		require.NoError(t, db.Model(project).Association("TeamMembers").Append(&model.User{ID: m.ID}))
	}
	return project
}

func seedDocument(t *testing.T, db *gorm.DB, project *model.Project, uploader *model.User, name string, uploadedAt time.Time) *model.Document {
	t.Helper()
	doc := &model.Document{
		Name:           name,
		FilePath:       "key-" + uuid.NewString(),
		FileType:       "application/pdf",
		Size:           128,
		Classification: model.ClassificationConstruction,
		Status:         model.DocumentStatusPending,
		UploadDate:     uploadedAt,
		ProjectID:      project.ID,
		UploadedByID:   uploader.ID,
	}
	doc.SetReviewerIDs(nil)
	require.NoError(t, db.Create(doc).Error)
	return doc
}
