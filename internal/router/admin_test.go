package router

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/threadline/shopapi/pkg/mongo"
)

func catalogErrorStatus(t *testing.T, resource string, err error) (int, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondCatalogError(c, resource, err)
	return w.Code, w.Body.String()
}

func TestRespondCatalogErrorDuplicateSlug(t *testing.T) {
	code, body := catalogErrorStatus(t, "Product", mongo.ErrDuplicateSlug)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, body, "duplicate_slug")
}

func TestRespondCatalogErrorInvalidParent(t *testing.T) {
	code, body := catalogErrorStatus(t, "Category", mongo.ErrInvalidParent)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, "invalid_parent")
}

func TestRespondCatalogErrorNotFound(t *testing.T) {
	code, body := catalogErrorStatus(t, "Product", mongo.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, "Product not found")
}

func TestRespondCatalogErrorGeneric(t *testing.T) {
	code, _ := catalogErrorStatus(t, "Product", errors.New("socket closed"))
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestStaleProductCacheSlug(t *testing.T) {
	stale, ok := staleProductCacheSlug("old-runner", "new-runner")
	assert.True(t, ok)
	assert.Equal(t, "old-runner", stale)

	_, ok = staleProductCacheSlug("same-runner", "same-runner")
	assert.False(t, ok)

	_, ok = staleProductCacheSlug("", "fresh-runner")
	assert.False(t, ok)
}
