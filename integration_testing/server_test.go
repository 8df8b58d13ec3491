package integration_testing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/compassremodeling/cms/internal/auth"
	"github.com/compassremodeling/cms/internal/content"
	"github.com/compassremodeling/cms/internal/messages"
	"github.com/compassremodeling/cms/internal/misc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	suite := newSuite(ctx)
	defer suite.cleanup()

	t.Run("root", func(t *testing.T) {
		resp, err := http.Get(serverEndpoint + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, `{"message":"Compass Remodeling CMS API running"}`, string(body))
	})

	t.Run("store diagnostics", func(t *testing.T) {
		resp, err := http.Get(serverEndpoint + "/test")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var diag map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&diag))
		assert.Equal(t, "✅ Running", diag["backend"])
		assert.Equal(t, "✅ Connected", diag["database"])
		assert.Equal(t, testDBName, diag["database_name"])

		collections, ok := diag["collections"].([]any)
		require.True(t, ok)
		assert.Len(t, collections, len(misc.Collections))
	})

	var token string
	t.Run("login with seeded admin", func(t *testing.T) {
		resp, err := http.Post(
			serverEndpoint+"/api/auth/login",
			"application/json",
			strings.NewReader(fmt.Sprintf(
				`{"email":"%s","password":"%s"}`, testAdminEmail, testAdminPassword,
			)),
		)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var loginResp struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
		require.NotEmpty(t, loginResp.AccessToken)
		assert.Equal(t, "bearer", loginResp.TokenType)
		token = loginResp.AccessToken
	})

	t.Run("create service requires auth", func(t *testing.T) {
		resp, err := http.Post(
			serverEndpoint+"/api/admin/services",
			"application/json",
			strings.NewReader(`{"title":"Kitchens","description":"d"}`),
		)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("create and list service", func(t *testing.T) {
		req, err := http.NewRequest(
			"POST", serverEndpoint+"/api/admin/services",
			strings.NewReader(`{"title":"Kitchens","description":"Full kitchen remodeling","featured":true,"order":1}`),
		)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		listResp, err := http.Get(serverEndpoint + "/api/services")
		require.NoError(t, err)
		defer listResp.Body.Close()
		require.Equal(t, http.StatusOK, listResp.StatusCode)

		var services []content.Service
		require.NoError(t, json.NewDecoder(listResp.Body).Decode(&services))
		require.Len(t, services, 1)
		assert.Equal(t, "Kitchens", services[0].Title)
		assert.True(t, services[0].Featured)
		assert.Empty(t, services[0].ID)
	})

	t.Run("contact message roundtrip", func(t *testing.T) {
		resp, err := http.Post(
			serverEndpoint+"/api/messages",
			"application/json",
			strings.NewReader(`{"name":"Joe","email":"joe@test.com","phone":"555-0101","message":"quote please"}`),
		)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		req, err := http.NewRequest("GET", serverEndpoint+"/api/admin/messages", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)

		listResp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer listResp.Body.Close()
		require.Equal(t, http.StatusOK, listResp.StatusCode)

		var msgs []messages.Message
		require.NoError(t, json.NewDecoder(listResp.Body).Decode(&msgs))
		require.Len(t, msgs, 1)
		assert.Equal(t, "quote please", msgs[0].Message)
		assert.False(t, msgs[0].Read)
	})

	t.Run("repos against real postgres", func(t *testing.T) {
		adminsRepo := auth.NewAdminsRepo(suite.DB)
		admin, err := adminsRepo.GetByEmail(ctx, testAdminEmail)
		require.NoError(t, err)
		assert.Equal(t, "Compass Admin", admin.Name)
		assert.True(t, admin.Active)

		_, err = adminsRepo.GetByEmail(ctx, "nobody@test.com")
		assert.ErrorIs(t, err, auth.ErrAdminNotFound)

		testimonialsRepo := content.NewTestimonialsRepo(suite.DB)
		id, err := testimonialsRepo.Insert(ctx, &content.Testimonial{
			ClientName:  "Jane D.",
			Description: "great work",
		})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		testimonials, err := testimonialsRepo.List(ctx)
		require.NoError(t, err)
		require.Len(t, testimonials, 1)
		assert.Equal(t, id, testimonials[0].ID)
		assert.Equal(t, "Jane D.", testimonials[0].ClientName)
	})

	t.Run("diagnostics table names", func(t *testing.T) {
		diagnostics := misc.NewDBDiagnostics(suite.DB)
		require.NoError(t, diagnostics.Ping(ctx))

		names, err := diagnostics.TableNames(ctx)
		require.NoError(t, err)
		for _, collection := range misc.Collections {
			assert.Contains(t, names, collection)
		}
	})
}
