package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

func testContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestParseID(t *testing.T) {
	c := testContext("/")
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	_, err := ParseID(c, "id", "doctor")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	assert.Contains(t, err.Error(), "Invalid doctor ID")

	c.Params = gin.Params{{Key: "id", Value: "5f0c8a4e-4b71-4c35-9d0e-2a3b7c1d9e11"}}
	id, err := ParseID(c, "id", "doctor")
	require.NoError(t, err)
	assert.Equal(t, "5f0c8a4e-4b71-4c35-9d0e-2a3b7c1d9e11", id.String())
}

func TestPage(t *testing.T) {
	p := Page(testContext("/?page=3&limit=500"), 100)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 100, p.Limit)

	p = Page(testContext("/?page=abc"), 100)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
}

func TestActor_Missing(t *testing.T) {
	_, err := Actor(testContext("/"))
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}
