package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sitedocs/internal/model"
	"sitedocs/internal/repository"
)

func newProjectService(t *testing.T) (*gorm.DB, *ProjectService, *fakeBlobStore, *fakePublisher) {
	t.Helper()
	db := newTestDB(t)
	blobs := newFakeBlobStore()
	publisher := &fakePublisher{}
	svc := NewProjectService(
		repository.NewProjectRepository(db),
		repository.NewDocumentRepository(db),
		repository.NewUserRepository(db),
		blobs,
		publisher,
	)
	return db, svc, blobs, publisher
}

func TestProjectCreate(t *testing.T) {
	db, svc, _, publisher := newProjectService(t)
	lead := seedUser(t, db, "lead@example.com")
	member := seedUser(t, db, "member@example.com")

	summary, err := svc.Create(context.Background(), identityOf(lead), CreateProjectInput{
		Name:          "Harbor Warehouse",
		Description:   "two-bay storage",
		StartDate:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC),
		TeamMemberIDs: []uuid.UUID{member.ID, lead.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, lead.ID, summary.TeamLead.ID, "creator becomes team lead")
	assert.Equal(t, model.ProjectStatusPending, summary.Status, "status defaults to pending")
	require.Len(t, summary.TeamMembers, 1, "the lead is not duplicated into the member list")
	assert.Equal(t, member.ID, summary.TeamMembers[0].ID)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, model.EventProjectCreated, publisher.events[0].Type)
}

func TestProjectCreateValidation(t *testing.T) {
	db, svc, _, _ := newProjectService(t)
	lead := seedUser(t, db, "lead@example.com")
	actor := identityOf(lead)
	ctx := context.Background()

	_, err := svc.Create(ctx, actor, CreateProjectInput{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, actor, CreateProjectInput{Name: "x", Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, actor, CreateProjectInput{
		Name:          "x",
		TeamMemberIDs: []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(t, err, ErrInvalidInput, "unknown member ids are rejected")
}

func TestProjectGetOrdering(t *testing.T) {
	db, svc, _, _ := newProjectService(t)
	lead := seedUser(t, db, "lead@example.com")
	member := seedUser(t, db, "member@example.com")
	outsider := seedUser(t, db, "outsider@example.com")
	project := seedProject(t, db, lead, member)

	// Absent project: not found, even for a non-member.
	_, err := svc.Get(identityOf(outsider), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	// Existing project, non-member: forbidden.
	_, err = svc.Get(identityOf(outsider), project.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	detail, err := svc.Get(identityOf(member), project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, detail.ID)
	assert.NotNil(t, detail.Documents)
	assert.NotNil(t, detail.Notes)
}

func TestProjectUpdateLeadOnly(t *testing.T) {
	db, svc, _, _ := newProjectService(t)
	lead := seedUser(t, db, "lead@example.com")
	member := seedUser(t, db, "member@example.com")
	project := seedProject(t, db, lead, member)

	name := "Harbor Warehouse Phase 2"
	_, err := svc.Update(identityOf(member), project.ID, UpdateProjectInput{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden, "members cannot update")

	status := model.ProjectStatusCompleted
	detail, err := svc.Update(identityOf(lead), project.ID, UpdateProjectInput{
		Name:   &name,
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, name, detail.Name)
	assert.Equal(t, model.ProjectStatusCompleted, detail.Status)
	require.Len(t, detail.TeamMembers, 1, "untouched member list survives a partial update")
}

func TestProjectUpdateReplacesMembers(t *testing.T) {
	db, svc, _, _ := newProjectService(t)
	lead := seedUser(t, db, "lead@example.com")
	first := seedUser(t, db, "first@example.com")
	second := seedUser(t, db, "second@example.com")
	project := seedProject(t, db, lead, first)

	detail, err := svc.Update(identityOf(lead), project.ID, UpdateProjectInput{
		TeamMemberIDs: []uuid.UUID{second.ID},
	})
	require.NoError(t, err)
	require.Len(t, detail.TeamMembers, 1)
	assert.Equal(t, second.ID, detail.TeamMembers[0].ID)
}

func TestProjectDelete(t *testing.T) {
	db, svc, _, publisher := newProjectService(t)
	lead := seedUser(t, db, "lead@example.com")
	member := seedUser(t, db, "member@example.com")
	project := seedProject(t, db, lead, member)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, identityOf(member), project.ID), ErrForbidden)

	require.NoError(t, svc.Delete(ctx, identityOf(lead), project.ID))
	require.Len(t, publisher.events, 1)
	assert.Equal(t, model.EventProjectDeleted, publisher.events[0].Type)

	assert.ErrorIs(t, svc.Delete(ctx, identityOf(lead), project.ID), ErrNotFound)
}

func TestProjectDeleteReclaimsBlobs(t *testing.T) {
	db, svc, blobs, _ := newProjectService(t)
	lead := seedUser(t, db, "lead@example.com")
	project := seedProject(t, db, lead)

	for _, key := range []string{"key-a", "key-b"} {
		blobs.objects[key] = []byte("%PDF")
		seedDocument(t, db, project, lead, key)
	}
	blobs.objects["key-other"] = []byte("unrelated")

	require.NoError(t, svc.Delete(context.Background(), identityOf(lead), project.ID))
	assert.NotContains(t, blobs.objects, "key-a")
	assert.NotContains(t, blobs.objects, "key-b")
	assert.Contains(t, blobs.objects, "key-other", "only the project's blobs are reclaimed")
}

func TestProjectListDocumentCounts(t *testing.T) {
	db, svc, _, _ := newProjectService(t)
	lead := seedUser(t, db, "lead@example.com")
	withDocs := seedProject(t, db, lead)
	empty := seedProject(t, db, lead)

	seedDocument(t, db, withDocs, lead, "key-a")
	seedDocument(t, db, withDocs, lead, "key-b")

	summaries, err := svc.List(identityOf(lead))
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := map[string]int64{}
	for _, s := range summaries {
		byID[s.ID.String()] = s.DocumentCount
	}
	assert.EqualValues(t, 2, byID[withDocs.ID.String()])
	assert.EqualValues(t, 0, byID[empty.ID.String()])
}

func TestProjectListScopedToMembership(t *testing.T) {
	db, svc, _, _ := newProjectService(t)
	lead := seedUser(t, db, "lead@example.com")
	outsider := seedUser(t, db, "outsider@example.com")
	seedProject(t, db, lead)

	mine, err := svc.List(identityOf(lead))
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.List(identityOf(outsider))
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestProjectEventFailureDoesNotFailOperation(t *testing.T) {
	db, svc, _, publisher := newProjectService(t)
	publisher.err = assert.AnError
	lead := seedUser(t, db, "lead@example.com")

	_, err := svc.Create(context.Background(), identityOf(lead), CreateProjectInput{Name: "x"})
	assert.NoError(t, err, "a broker failure never fails the request")
}
