// Package authz holds the per-entity access rules as pure predicates over
// an already-resolved identity and an entity snapshot. No rule grants a
// transitive admin override.
package authz

import (
	"sitedocs/internal/model"
)

// CanViewProject allows the team lead and every team member.
// project.TeamMembers must be loaded.
func CanViewProject(actor model.Identity, project *model.Project) bool {
	if project == nil {
		return false
	}
	return project.HasMember(actor.ID)
}

// CanManageProject allows update and delete for the team lead only.
func CanManageProject(actor model.Identity, project *model.Project) bool {
	if project == nil {
		return false
	}
	return project.TeamLeadID == actor.ID
}

// CanUploadToProject mirrors the read rule: any lead or member may upload.
func CanUploadToProject(actor model.Identity, project *model.Project) bool {
	return CanViewProject(actor, project)
}

// CanViewDocument allows whoever can view the owning project.
func CanViewDocument(actor model.Identity, doc *model.Document) bool {
	if doc == nil {
		return false
	}
	return CanViewProject(actor, doc.Project)
}

// CanDeleteDocument allows the owning project's team lead only.
func CanDeleteDocument(actor model.Identity, doc *model.Document) bool {
	if doc == nil {
		return false
	}
	return CanManageProject(actor, doc.Project)
}

// CanAddNote allows any lead or member of the owning project.
func CanAddNote(actor model.Identity, project *model.Project) bool {
	return CanViewProject(actor, project)
}

// CanModifyNote allows the note's author only, regardless of project role.
func CanModifyNote(actor model.Identity, note *model.Note) bool {
	if note == nil {
		return false
	}
	return note.UserID == actor.ID
}
