package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabhub-in/collabhub/internal/hub"
)

func newCodeshareServer() (*httptest.Server, *hub.Router) {
	gin.SetMode(gin.TestMode)
	router := hub.NewRouter(hub.NewState(), hub.NewRegistry(), hub.NewRooms())
	h := &CodeshareHandler{Hub: router}

	r := gin.New()
	r.GET("/api/codeshare/:id", h.Get)
	r.POST("/api/codeshare/:id", h.Post)
	return httptest.NewServer(r), router
}

func TestCodeshareRoundTrip(t *testing.T) {
	srv, _ := newCodeshareServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/codeshare/r1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/codeshare/r1", "application/json", strings.NewReader(`{"code":"package main"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/codeshare/r1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var doc hub.CodeDoc
	require.NoError(t, jsonDecode(resp.Body, &doc))
	assert.Equal(t, "package main", doc.Code)
	assert.False(t, doc.UpdatedAt.IsZero())
}

func TestCodesharePostRequiresCode(t *testing.T) {
	srv, _ := newCodeshareServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/codeshare/r1", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCodeshareWriteIsVisibleToHubState(t *testing.T) {
	srv, router := newCodeshareServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/codeshare/shared", "application/json", strings.NewReader(`{"code":"v1"}`))
	require.NoError(t, err)
	resp.Body.Close()

	doc, ok := router.State().Code("shared")
	require.True(t, ok)
	assert.Equal(t, "v1", doc.Code)
}
