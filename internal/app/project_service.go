package app

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"sitedocs/internal/authz"
	"sitedocs/internal/model"
	"sitedocs/internal/repository"
	"sitedocs/internal/storage"
)

// EventPublisher emits best-effort lifecycle events. A nil publisher, or a
// publish failure, never affects the outcome of an operation.
type EventPublisher interface {
	Publish(ctx context.Context, event model.Event) error
}

type ProjectService struct {
	projects  *repository.ProjectRepository
	documents *repository.DocumentRepository
	users     *repository.UserRepository
	blobs     storage.Store
	events    EventPublisher
}

type CreateProjectInput struct {
	Name          string
	Description   string
	StartDate     time.Time
	EndDate       time.Time
	Status        model.ProjectStatus
	TeamMemberIDs []uuid.UUID
}

// UpdateProjectInput carries a partial field set; nil pointers leave the
// field untouched.
type UpdateProjectInput struct {
	Name          *string
	Description   *string
	StartDate     *time.Time
	EndDate       *time.Time
	Status        *model.ProjectStatus
	TeamMemberIDs []uuid.UUID
}

func NewProjectService(
	projects *repository.ProjectRepository,
	documents *repository.DocumentRepository,
	users *repository.UserRepository,
	blobs storage.Store,
	events EventPublisher,
) *ProjectService {
	return &ProjectService{
		projects:  projects,
		documents: documents,
		users:     users,
		blobs:     blobs,
		events:    events,
	}
}

// List returns the projects the actor leads or belongs to.
func (s *ProjectService) List(actor model.Identity) ([]ProjectSummary, error) {
	projects, err := s.projects.ListForUser(actor.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(projects))
	for i := range projects {
		ids = append(ids, projects[i].ID)
	}
	counts, err := s.projects.CountDocumentsByProject(ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]ProjectSummary, 0, len(projects))
	for i := range projects {
		summaries = append(summaries, projectSummaryView(&projects[i], counts[projects[i].ID]))
	}
	return summaries, nil
}

// Create makes the actor the team lead of a new project.
func (s *ProjectService) Create(ctx context.Context, actor model.Identity, input CreateProjectInput) (*ProjectSummary, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	status := input.Status
	if status == "" {
		status = model.ProjectStatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidInput
	}

	members, err := s.resolveMembers(actor, input.TeamMemberIDs)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		Name:        name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      status,
		TeamLeadID:  actor.ID,
	}
	if err := s.projects.Create(project); err != nil {
		return nil, err
	}
	if len(members) > 0 {
		if err := s.projects.ReplaceMembers(project, members); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, model.Event{
		Type:       model.EventProjectCreated,
		EntityID:   project.ID,
		ProjectID:  project.ID,
		ActorID:    actor.ID,
		OccurredAt: time.Now(),
	})

	created, err := s.projects.GetByID(project.ID)
	if err != nil {
		return nil, err
	}
	summary := projectSummaryView(created, 0)
	return &summary, nil
}

// Get returns the full detail view. Existence is checked before
// membership so an absent project is a not-found, never a forbidden.
func (s *ProjectService) Get(actor model.Identity, id uuid.UUID) (*ProjectDetail, error) {
	project, err := s.projects.GetDetail(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	if !authz.CanViewProject(actor, project) {
		return nil, ErrForbidden
	}
	detail := projectDetailView(project)
	return &detail, nil
}

// Update applies a partial update; team lead only.
func (s *ProjectService) Update(actor model.Identity, id uuid.UUID, input UpdateProjectInput) (*ProjectDetail, error) {
	project, err := s.projects.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	if !authz.CanManageProject(actor, project) {
		return nil, ErrForbidden
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.StartDate != nil {
		fields["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		fields["end_date"] = *input.EndDate
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidInput
		}
		fields["status"] = *input.Status
	}
	if err := s.projects.UpdateFields(id, fields); err != nil {
		return nil, err
	}

	if input.TeamMemberIDs != nil {
		members, err := s.resolveMembers(actor, input.TeamMemberIDs)
		if err != nil {
			return nil, err
		}
		if err := s.projects.ReplaceMembers(project, members); err != nil {
			return nil, err
		}
	}

	updated, err := s.projects.GetDetail(id)
	if err != nil {
		return nil, err
	}
	detail := projectDetailView(updated)
	return &detail, nil
}

// Delete removes the project and everything scoped to it; team lead only.
// A concurrent delete landing first is reported as not-found.
func (s *ProjectService) Delete(ctx context.Context, actor model.Identity, id uuid.UUID) error {
	project, err := s.projects.GetByID(id)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrNotFound
	}
	if !authz.CanManageProject(actor, project) {
		return ErrForbidden
	}

	// Collect the storage keys before the cascade removes the rows that
	// reference them.
	keys, err := s.documents.FilePathsForProject(id)
	if err != nil {
		return err
	}
	if err := s.projects.Delete(id); err != nil {
		return err
	}
	if s.blobs != nil {
		for _, key := range keys {
			if err := s.blobs.Delete(ctx, key); err != nil {
				log.Printf("blob %s cleanup failed: %v", key, err)
			}
		}
	}

	s.publish(ctx, model.Event{
		Type:       model.EventProjectDeleted,
		EntityID:   id,
		ProjectID:  id,
		ActorID:    actor.ID,
		OccurredAt: time.Now(),
	})
	return nil
}

// resolveMembers validates a member id list. Unknown ids are a caller
// mistake; the lead is excluded since leadership already implies access.
func (s *ProjectService) resolveMembers(actor model.Identity, ids []uuid.UUID) ([]model.User, error) {
	filtered := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != actor.ID {
			filtered = append(filtered, id)
		}
	}
	if len(filtered) == 0 {
		return []model.User{}, nil
	}
	users, err := s.users.GetByIDs(filtered)
	if err != nil {
		return nil, err
	}
	if len(users) != len(filtered) {
		return nil, ErrInvalidInput
	}
	return users, nil
}

func (s *ProjectService) publish(ctx context.Context, event model.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		log.Printf("publish %s event failed: %v", event.Type, err)
	}
}
