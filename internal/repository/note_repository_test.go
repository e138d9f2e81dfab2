package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitedocs/internal/model"
)

func TestCreateWithAuthorUpsertsMissingUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewNoteRepository(db)

	lead := seedUser(t, db, "lead@example.com")
	project := seedProject(t, db, lead)

	// An identity whose user row does not exist yet.
	ghost := model.Identity{ID: uuid.New(), Email: "ghost@example.com", Name: "ghost"}
	note := &model.Note{Content: "first walkthrough done", ProjectID: project.ID}

	require.NoError(t, repo.CreateWithAuthor(note, ghost))
	require.NotNil(t, note.User)
	assert.Equal(t, ghost.ID, note.User.ID)

	var user model.User
	require.NoError(t, db.First(&user, "id = ?", ghost.ID).Error)
	assert.Equal(t, "ghost@example.com", user.Email)
	assert.Equal(t, model.RoleEngineer, user.Role, "upserted authors default to engineer")
}

func TestCreateWithAuthorKeepsExistingUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewNoteRepository(db)

	lead := seedUser(t, db, "lead@example.com")
	require.NoError(t, db.Model(lead).Update("role", model.RoleManager).Error)
	project := seedProject(t, db, lead)

	note := &model.Note{Content: "note", ProjectID: project.ID}
	require.NoError(t, repo.CreateWithAuthor(note, model.Identity{
		ID:    lead.ID,
		Email: "different@example.com",
		Name:  "Different",
	}))

	var user model.User
	require.NoError(t, db.First(&user, "id = ?", lead.ID).Error)
	assert.Equal(t, "lead@example.com", user.Email, "existing rows are never overwritten")
	assert.Equal(t, model.RoleManager, user.Role)
}

func TestUpdateByAuthor(t *testing.T) {
	db := newTestDB(t)
	repo := NewNoteRepository(db)

	author := seedUser(t, db, "author@example.com")
	other := seedUser(t, db, "other@example.com")
	project := seedProject(t, db, author, other)

	note := &model.Note{Content: "draft", ProjectID: project.ID}
	require.NoError(t, repo.CreateWithAuthor(note, model.Identity{ID: author.ID, Email: author.Email, Name: author.Name}))

	_, err := repo.UpdateByAuthor(note.ID, other.ID, "hijacked")
	assert.ErrorIs(t, err, ErrNotAuthor)

	updated, err := repo.UpdateByAuthor(note.ID, author.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)

	_, err = repo.UpdateByAuthor(uuid.New(), author.ID, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteByAuthor(t *testing.T) {
	db := newTestDB(t)
	repo := NewNoteRepository(db)

	author := seedUser(t, db, "author@example.com")
	other := seedUser(t, db, "other@example.com")
	project := seedProject(t, db, author, other)

	note := &model.Note{Content: "to be removed", ProjectID: project.ID}
	require.NoError(t, repo.CreateWithAuthor(note, model.Identity{ID: author.ID, Email: author.Email, Name: author.Name}))

	assert.ErrorIs(t, repo.DeleteByAuthor(note.ID, other.ID), ErrNotAuthor)
	require.NoError(t, repo.DeleteByAuthor(note.ID, author.ID))
	assert.ErrorIs(t, repo.DeleteByAuthor(note.ID, author.ID), ErrNotFound)
}
