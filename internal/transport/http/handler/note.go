package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitedocs/internal/app"
	"sitedocs/internal/transport/http/response"
)

type NoteHandler struct {
	notes *app.NoteService
}

func NewNoteHandler(notes *app.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

type addNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

// Update and delete address the note through the request body rather
// than the path; the path only scopes the project.
type updateNoteRequest struct {
	NoteID  string `json:"noteId" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type deleteNoteRequest struct {
	NoteID string `json:"noteId" binding:"required"`
}

func (h *NoteHandler) Add(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req addNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid request body")
		return
	}

	note, err := h.notes.Add(identity, projectID, req.Content)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Created(c, note)
}

func (h *NoteHandler) Update(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	if _, ok := uuidParam(c, "id"); !ok {
		return
	}

	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid request body")
		return
	}
	noteID, err := uuid.Parse(req.NoteID)
	if err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid noteId")
		return
	}

	note, err := h.notes.Update(identity, noteID, req.Content)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.OK(c, note)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	if _, ok := uuidParam(c, "id"); !ok {
		return
	}

	var req deleteNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid request body")
		return
	}
	noteID, err := uuid.Parse(req.NoteID)
	if err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid noteId")
		return
	}

	if err := h.notes.Remove(identity, noteID); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
