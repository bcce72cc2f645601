package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guarded-chat-be/internal/config"
	"guarded-chat-be/internal/pkg/serverutils"
	"guarded-chat-be/internal/service"
)

type fixedCounter int

func (c fixedCounter) Count() int { return int(c) }

func newTestApp(t *testing.T, secret string) *fiber.App {
	t.Helper()
	corpus, err := service.LoadCorpus(context.Background(), config.GroundingConfig{}, nil)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewKnowledgeController(
		service.NewKnowledgeService(corpus),
		fixedCounter(3),
		"mock",
		serverutils.NewJwtMiddleware(secret),
	).RegisterRoutes(app.Group("/api"))
	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, "")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := decodeBody(t, resp.Body)["data"].(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, float64(4), data["documents"])
	assert.Equal(t, float64(3), data["activeConnections"])
	assert.Equal(t, "mock", data["generator"])
}

func TestListDocuments(t *testing.T) {
	app := newTestApp(t, "")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/knowledge/documents", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := decodeBody(t, resp.Body)["data"].([]interface{})
	require.Len(t, data, 4)
	assert.Equal(t, "kb/contact.md", data[0].(map[string]interface{})["id"])
}

func TestVerify(t *testing.T) {
	app := newTestApp(t, "")

	tests := []struct {
		name       string
		body       string
		wantStatus int
		check      func(t *testing.T, body map[string]interface{})
	}{
		{
			name:       "grounded",
			body:       `{"query":"Vad kostar standard?","reply":"Standard kostar 299 kr/månad."}`,
			wantStatus: fiber.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				assert.Equal(t, true, data["grounded"])
				assert.Equal(t, "none", data["failReason"])
				assert.Equal(t, []interface{}{"299"}, data["numbers"])
				citations := data["citations"].([]interface{})
				require.Len(t, citations, 1)
				assert.Equal(t, "kb/pricing.md", citations[0].(map[string]interface{})["sourceId"])
			},
		},
		{
			name:       "ungrounded",
			body:       `{"query":"Vad kostar standard?","reply":"Standard kostar 999 kr/månad."}`,
			wantStatus: fiber.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				assert.Equal(t, false, data["grounded"])
				assert.Equal(t, "ungrounded_numbers", data["failReason"])
			},
		},
		{
			name:       "missing query",
			body:       `{"reply":"hej"}`,
			wantStatus: fiber.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "required", body["errors"].(map[string]interface{})["query"])
			},
		},
		{
			name:       "malformed body",
			body:       `{"query":`,
			wantStatus: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/grounding/verify", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.check != nil {
				tt.check(t, decodeBody(t, resp.Body))
			}
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, "secret")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/knowledge/documents", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u-1"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/api/knowledge/documents", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
