package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitedocs/internal/app"
	"sitedocs/internal/transport/http/response"
)

// maxUploadSize bounds what a single upload request may carry.
const maxUploadSize = 50 << 20

type DocumentHandler struct {
	documents *app.DocumentService
}

func NewDocumentHandler(documents *app.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

type annotateRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *DocumentHandler) List(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	items, err := h.documents.List(identity)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.OK(c, items)
}

// Upload takes a multipart form: the file itself, the owning projectId,
// and an optional classification that pre-empts the AI one.
func (h *DocumentHandler) Upload(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, 400, response.CodeBadRequest, "file is required")
		return
	}
	if fileHeader.Size > maxUploadSize {
		response.Error(c, 400, response.CodeBadRequest, "file exceeds the upload limit")
		return
	}
	projectID, err := uuid.Parse(c.PostForm("projectId"))
	if err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid projectId")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, 400, response.CodeBadRequest, "unreadable file")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		response.Error(c, 400, response.CodeBadRequest, "unreadable file")
		return
	}
	if int64(len(data)) > maxUploadSize {
		response.Error(c, 400, response.CodeBadRequest, "file exceeds the upload limit")
		return
	}

	detail, err := h.documents.Ingest(c.Request.Context(), identity, app.IngestInput{
		ProjectID:      projectID,
		FileName:       fileHeader.Filename,
		FileType:       fileHeader.Header.Get("Content-Type"),
		Size:           int64(len(data)),
		Data:           data,
		Classification: c.PostForm("classification"),
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Created(c, detail)
}

// Download streams the stored bytes back under the original filename.
func (h *DocumentHandler) Download(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	doc, reader, err := h.documents.Open(c.Request.Context(), identity, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, doc.Size, doc.FileType, reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.Name),
	})
}

func (h *DocumentHandler) Metadata(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.documents.GetMeta(identity, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.OK(c, detail)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.documents.Delete(c.Request.Context(), identity, id); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DocumentHandler) Analyze(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.documents.Analyze(c.Request.Context(), identity, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.OK(c, detail)
}

func (h *DocumentHandler) Annotate(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req annotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid request body")
		return
	}

	annotation, err := h.documents.Annotate(identity, id, req.Text)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Created(c, annotation)
}
