package app

import (
	"time"

	"github.com/google/uuid"

	"sitedocs/internal/model"
)

// View shapes composed from repository reads. These carry no state of
// their own; they are exactly what the list and detail endpoints return.

type UserRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ProjectRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ProjectSummary struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	StartDate     time.Time           `json:"startDate"`
	EndDate       time.Time           `json:"endDate"`
	Status        model.ProjectStatus `json:"status"`
	TeamLead      UserRef             `json:"teamLead"`
	TeamMembers   []UserRef           `json:"teamMembers"`
	DocumentCount int64               `json:"documentCount"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type ProjectDetail struct {
	ProjectSummary
	Documents []DocumentSummary `json:"documents"`
	Notes     []NoteView        `json:"notes"`
}

// DocumentSummary is the shape embedded in a project detail view.
type DocumentSummary struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	FileType       string               `json:"fileType"`
	UploadDate     time.Time            `json:"uploadDate"`
	Classification model.Classification `json:"classification"`
}

// DocumentListItem is the shape of the cross-project document dashboard.
type DocumentListItem struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	FileType       string               `json:"fileType"`
	Size           int64                `json:"size"`
	Classification model.Classification `json:"classification"`
	Status         model.DocumentStatus `json:"status"`
	UploadDate     time.Time            `json:"uploadDate"`
	Project        ProjectRef           `json:"project"`
	UploadedBy     UserRef              `json:"uploadedBy"`
}

type DocumentDetail struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	FilePath       string               `json:"filePath"`
	FileType       string               `json:"fileType"`
	Size           int64                `json:"size"`
	Classification model.Classification `json:"classification"`
	ExtractedInfo  model.ExtractedInfo  `json:"extractedInfo"`
	Status         model.DocumentStatus `json:"status"`
	Reviewers      []string             `json:"reviewers"`
	UploadDate     time.Time            `json:"uploadDate"`
	Project        ProjectRef           `json:"project"`
	UploadedBy     UserRef              `json:"uploadedBy"`
	Annotations    []AnnotationView     `json:"annotations"`
}

type NoteView struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	ProjectID uuid.UUID `json:"projectId"`
	User      UserRef   `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AnnotationView struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	User      UserRef   `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

func userRef(u *model.User) UserRef {
	if u == nil {
		return UserRef{}
	}
	return UserRef{ID: u.ID, Name: u.Name}
}

func userRefs(users []model.User) []UserRef {
	refs := make([]UserRef, 0, len(users))
	for i := range users {
		refs = append(refs, userRef(&users[i]))
	}
	return refs
}

func projectSummaryView(p *model.Project, documentCount int64) ProjectSummary {
	return ProjectSummary{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		Status:        p.Status,
		TeamLead:      userRef(p.TeamLead),
		TeamMembers:   userRefs(p.TeamMembers),
		DocumentCount: documentCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func projectDetailView(p *model.Project) ProjectDetail {
	detail := ProjectDetail{
		ProjectSummary: projectSummaryView(p, int64(len(p.Documents))),
		Documents:      make([]DocumentSummary, 0, len(p.Documents)),
		Notes:          make([]NoteView, 0, len(p.Notes)),
	}
	for i := range p.Documents {
		d := &p.Documents[i]
		detail.Documents = append(detail.Documents, DocumentSummary{
			ID:             d.ID,
			Name:           d.Name,
			FileType:       d.FileType,
			UploadDate:     d.UploadDate,
			Classification: d.Classification,
		})
	}
	for i := range p.Notes {
		detail.Notes = append(detail.Notes, noteView(&p.Notes[i]))
	}
	return detail
}

func documentListItemView(d *model.Document) DocumentListItem {
	item := DocumentListItem{
		ID:             d.ID,
		Name:           d.Name,
		FileType:       d.FileType,
		Size:           d.Size,
		Classification: d.Classification,
		Status:         d.Status,
		UploadDate:     d.UploadDate,
		UploadedBy:     userRef(d.UploadedBy),
	}
	if d.Project != nil {
		item.Project = ProjectRef{ID: d.Project.ID, Name: d.Project.Name}
	}
	return item
}

func documentDetailView(d *model.Document) DocumentDetail {
	detail := DocumentDetail{
		ID:             d.ID,
		Name:           d.Name,
		FilePath:       d.FilePath,
		FileType:       d.FileType,
		Size:           d.Size,
		Classification: d.Classification,
		ExtractedInfo:  d.ExtractedInfo,
		Status:         d.Status,
		Reviewers:      d.ReviewerIDs(),
		UploadDate:     d.UploadDate,
		UploadedBy:     userRef(d.UploadedBy),
		Annotations:    make([]AnnotationView, 0, len(d.Annotations)),
	}
	if detail.Reviewers == nil {
		detail.Reviewers = []string{}
	}
	if d.Project != nil {
		detail.Project = ProjectRef{ID: d.Project.ID, Name: d.Project.Name}
	}
	for i := range d.Annotations {
		a := &d.Annotations[i]
		detail.Annotations = append(detail.Annotations, AnnotationView{
			ID:        a.ID,
			Text:      a.Text,
			User:      userRef(a.User),
			CreatedAt: a.CreatedAt,
		})
	}
	return detail
}

func noteView(n *model.Note) NoteView {
	return NoteView{
		ID:        n.ID,
		Content:   n.Content,
		ProjectID: n.ProjectID,
		User:      userRef(n.User),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
