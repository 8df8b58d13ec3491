package messages

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/compassremodeling/cms/internal/telemetry/metrics"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupMessagesRouterForTests(t *testing.T) (*mux.Router, *TestRepo) {
	t.Helper()

	repo := NewTestRepo()
	r := mux.NewRouter()
	handler := NewHandler(repo, metrics.NewTestManager())
	handler.SetupRoutes(r)

	return r, repo
}

func TestHandler_Routes(t *testing.T) {
	r, _ := setupMessagesRouterForTests(t)

	for caseName, route := range map[string]struct {
		name   string
		path   string
		method string
	}{
		"new-message": {
			name:   "new-message",
			path:   "/api/messages",
			method: "POST",
		},
		"list-messages": {
			name:   "list-messages",
			path:   "/api/admin/messages",
			method: "GET",
		},
	} {
		t.Run(caseName, func(t *testing.T) {
			req, err := http.NewRequest(route.method, route.path, nil)
			require.NoError(t, err)

			routeMatch := &mux.RouteMatch{}
			muxRoute := r.Get(route.name)
			require.NotNil(t, muxRoute)
			assert.True(t, muxRoute.Match(req, routeMatch), caseName)
		})
	}
}

func TestHandler_Submit(t *testing.T) {
	r, repo := setupMessagesRouterForTests(t)

	name := gofakeit.Name()
	email := gofakeit.Email()
	body := fmt.Sprintf(
		`{"name":"%s","email":"%s","phone":"555-0101","message":"need a kitchen remodel quote"}`,
		name, email,
	)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("POST", "/api/messages", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	assert.Equal(t, "received", resp.Status)

	msgs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, resp.ID, msgs[0].ID)
	assert.Equal(t, name, msgs[0].Name)
	assert.Equal(t, email, msgs[0].Email)
	assert.False(t, msgs[0].Read)
}

func TestHandler_Submit_BadRequest(t *testing.T) {
	r, repo := setupMessagesRouterForTests(t)

	for caseName, body := range map[string]string{
		"not-json":   "name=joe",
		"no-name":    `{"email":"a@b.c","message":"hi"}`,
		"no-email":   `{"name":"Joe","message":"hi"}`,
		"no-message": `{"name":"Joe","email":"a@b.c"}`,
	} {
		t.Run(caseName, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest("POST", "/api/messages", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	msgs, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestHandler_AdminList(t *testing.T) {
	r, repo := setupMessagesRouterForTests(t)

	// empty store serves an empty array, not null
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/api/admin/messages", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())

	ctx := context.Background()
	id1, err := repo.Insert(ctx, &Message{Name: "Joe", Email: "joe@test.com", Message: "first"})
	require.NoError(t, err)
	id2, err := repo.Insert(ctx, &Message{Name: "Ann", Email: "ann@test.com", Message: "second"})
	require.NoError(t, err)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/api/admin/messages", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var msgs []Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msgs))
	require.Len(t, msgs, 2)

	// insertion order, with ids included for the admin
	assert.Equal(t, id1, msgs[0].ID)
	assert.Equal(t, "first", msgs[0].Message)
	assert.Equal(t, id2, msgs[1].ID)
	assert.Equal(t, "second", msgs[1].Message)
}
