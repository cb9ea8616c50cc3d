// Package handler holds helpers shared by the resource handlers.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/service/access"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/pagination"
)

// ParseID reads a UUID path parameter. A malformed id is a 400 naming the
// resource, e.g. "Invalid doctor ID".
func ParseID(c *gin.Context, param, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, apperrors.BadRequest("Invalid "+resource+" ID", err)
	}
	return id, nil
}

// Page reads page and limit from the query string.
func Page(c *gin.Context, maxLimit int) pagination.Params {
	return pagination.Parse(c.Query("page"), c.Query("limit"), maxLimit)
}

// Actor returns the authenticated caller. Routes that call it sit behind
// the auth middleware, so a missing actor is a 401.
func Actor(c *gin.Context) (access.Actor, error) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return access.Actor{}, apperrors.Unauthorized("Access token required", nil)
	}
	return actor, nil
}
