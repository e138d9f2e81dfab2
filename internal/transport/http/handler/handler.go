package handler

import (
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitedocs/internal/app"
	"sitedocs/internal/model"
	"sitedocs/internal/transport/http/middleware"
	"sitedocs/internal/transport/http/response"
)

// mustIdentity reads the identity set by the session middleware. Routes
// calling it are always registered behind SessionAuth; a miss means a
// wiring mistake, answered as 401 rather than a panic.
func mustIdentity(c *gin.Context) (model.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error(c, 401, response.CodeUnauthorized, "authentication required")
		return model.Identity{}, false
	}
	return identity, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// serviceError maps the service sentinel taxonomy onto HTTP. Anything
// outside the taxonomy is an internal failure and gets logged here, once.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, 400, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrEmailExists):
		response.Error(c, 400, response.CodeEmailExists, "email already registered")
	case errors.Is(err, app.ErrInvalidCredential):
		response.Error(c, 401, response.CodeInvalidCredentials, "invalid email or password")
	case errors.Is(err, app.ErrForbidden):
		response.Error(c, 403, response.CodeForbidden, "not allowed")
	case errors.Is(err, app.ErrNotFound):
		response.Error(c, 404, response.CodeNotFound, "not found")
	case errors.Is(err, app.ErrUpstream):
		response.Error(c, 502, response.CodeUpstreamFailed, "upstream dependency failed")
	default:
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		response.Error(c, 500, response.CodeInternalServer, "internal server error")
	}
}

// parseDate accepts both a bare calendar date and a full RFC 3339
// timestamp, so clients can send "2024-03-01" and read back
// "2024-03-01T00:00:00Z" for the same day.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
