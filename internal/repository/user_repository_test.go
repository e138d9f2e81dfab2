package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitedocs/internal/model"
)

func TestUserCreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(&model.User{
		Email:        "lead@example.com",
		Name:         "Lead",
		PasswordHash: "x",
	}))

	err := repo.Create(&model.User{
		Email:        "lead@example.com",
		Name:         "Impostor",
		PasswordHash: "y",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserGetByEmailMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.GetByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserGetByIDMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.GetByID(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserGetByIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	a := seedUser(t, db, "a@example.com")
	b := seedUser(t, db, "b@example.com")

	users, err := repo.GetByIDs([]uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, users, 2, "unknown ids are silently absent")

	users, err = repo.GetByIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}
