package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minbot/dashboard/internal/adapters/db/sqlstore"
	"github.com/minbot/dashboard/internal/application"
	"github.com/minbot/dashboard/internal/domain"
	"github.com/minbot/dashboard/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testGuild = "112233445566778899"
	testUser  = "223344556677889900"
	testMod   = "445566778899001122"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	db, err := sqlstore.Open("sqlite", filepath.Join(t.TempDir(), "http_test.db"))
	require.NoError(t, err)
	require.NoError(t, sqlstore.RunMigrations(ctx, db))
	stats, err := sqlstore.NewStatsReader(db)
	require.NoError(t, err)
	service := application.NewDashboardService(sqlstore.NewDashboardRepository(db), nil, stats, nil, logging.Discard())
	return NewRouter(service, logging.Discard())
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	rec, body := do(t, newTestRouter(t), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
}

func TestApplyExperienceClampsAndWraps(t *testing.T) {
	h := newTestRouter(t)
	path := "/api/guilds/" + testGuild + "/levels/" + testUser + "/xp"

	rec, body := do(t, h, http.MethodPost, path, `{"delta":150}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	record := body["data"].(map[string]any)["record"].(map[string]any)
	assert.EqualValues(t, 150, record["experience"])
	assert.EqualValues(t, 1, record["level"])

	rec, body = do(t, h, http.MethodPost, path, `{"delta":-1000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	record = body["data"].(map[string]any)["record"].(map[string]any)
	assert.EqualValues(t, 0, record["experience"])
	assert.EqualValues(t, 0, record["level"])

	rec, body = do(t, h, http.MethodGet, "/api/guilds/"+testGuild+"/levels/"+testUser, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, body["experience"])
}

func TestValidationErrorsListFields(t *testing.T) {
	h := newTestRouter(t)
	rec, body := do(t, h, http.MethodPost, "/api/guilds/"+testGuild+"/levels/"+testUser+"/xp", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"delta"}, body["details"])

	rec, _ = do(t, h, http.MethodPost, "/api/guilds/"+testGuild+"/levels/"+testUser+"/xp", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = do(t, h, http.MethodPost, "/api/guilds/"+testGuild+"/levels/"+testUser+"/xp", `{"delta":9223372036854775807}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, []any{"delta"}, body["details"])

	rec, body = do(t, h, http.MethodGet, "/api/guilds/nope/levels/"+testUser, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["details"], "guild_id")

	rec, _ = do(t, h, http.MethodGet, "/api/guilds/"+testGuild+"/leaderboard?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotFoundMapsTo404(t *testing.T) {
	h := newTestRouter(t)
	rec, _ := do(t, h, http.MethodGet, "/api/punishments/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/api/guilds/"+testGuild+"/leaderboard", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommandOverrideRoundTrip(t *testing.T) {
	h := newTestRouter(t)
	rec, _ := do(t, h, http.MethodPost, "/api/commands", `{"name":"Ping","description":"pong","cooldown_seconds":5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	path := "/api/guilds/" + testGuild + "/commands/ping"
	rec, body := do(t, h, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["enabled"])
	assert.Equal(t, false, body["overridden"])
	assert.EqualValues(t, 0, body["usage_count"])

	rec, body = do(t, h, http.MethodPut, path, `{"enabled":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["enabled"])
	assert.EqualValues(t, 5, data["cooldown_seconds"])
	assert.Equal(t, true, data["overridden"])

	rec, body = do(t, h, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["data"].(map[string]any)["enabled"])

	rec, _ = do(t, h, http.MethodPut, "/api/guilds/"+testGuild+"/commands/missing", `{"enabled":true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordPunishmentWithoutDiscordReportsWarning(t *testing.T) {
	h := newTestRouter(t)
	payload := `{"user_id":"` + testUser + `","moderator_id":"` + testMod + `","action":"ban","reason":"spam","enforce":true}`
	rec, body := do(t, h, http.MethodPost, "/api/guilds/"+testGuild+"/punishments", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["warnings"])

	punishment := body["data"].(map[string]any)["punishment"].(map[string]any)
	id := int(punishment["id"].(float64))
	assert.Equal(t, true, punishment["active"])

	revokePath := "/api/punishments/" + jsonInt(id) + "/revoke"
	rec, body = do(t, h, http.MethodPost, revokePath, `{"revoked_by":"`+testMod+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, false, body["data"].(map[string]any)["active"])

	rec, body = do(t, h, http.MethodPost, revokePath, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["data"].(map[string]any)["active"])

	rec, _ = do(t, h, http.MethodPost, "/api/guilds/"+testGuild+"/punishments", `{"user_id":"`+testUser+`","action":"hug"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBotStatusDefaultsThenSaves(t *testing.T) {
	h := newTestRouter(t)
	rec, body := do(t, h, http.MethodGet, "/api/bot/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "online", body["status"])

	rec, _ = do(t, h, http.MethodPut, "/api/bot/status", `{"status":"DND","activity_type":"watching","activity_text":"the logs"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, body = do(t, h, http.MethodGet, "/api/bot/status", "")
	assert.Equal(t, "dnd", body["status"])
	assert.Equal(t, "the logs", body["activity_text"])

	rec, _ = do(t, h, http.MethodPut, "/api/bot/status", `{"status":"asleep","activity_type":"playing"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardRendersGuildAndSearch(t *testing.T) {
	h := newTestRouter(t)
	rec, _ := do(t, h, http.MethodGet, "/dashboard/"+testGuild, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/api/guilds", `{"id":"`+testGuild+`","name":"Minbot HQ"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec, _ = do(t, h, http.MethodPost, "/api/guilds/"+testGuild+"/levels/"+testUser+"/xp", `{"delta":500}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/dashboard/"+testGuild, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Minbot HQ")
	assert.Contains(t, rec.Body.String(), testUser)

	rec, _ = do(t, h, http.MethodPost, "/dashboard/"+testGuild+"/leaderboard/search", `{"leaderboardQuery":"nobody","leaderboardLimit":"10"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No members ranked yet.")

	rec, _ = do(t, h, http.MethodPost, "/dashboard/"+testGuild+"/leaderboard/search", `{"leaderboardQuery":"2233","leaderboardLimit":"10"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), testUser)

	rec, _ = do(t, h, http.MethodPost, "/dashboard/"+testGuild+"/leaderboard/search", `{"leaderboardLimit":"zero"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteErrorMapsUpstreamStatus(t *testing.T) {
	h := &Handler{log: logging.Discard()}
	cases := []struct {
		status int
		want   int
	}{
		{http.StatusForbidden, http.StatusForbidden},
		{http.StatusNotFound, http.StatusNotFound},
		{http.StatusTooManyRequests, http.StatusInternalServerError},
		{0, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		err := &domain.UpstreamError{Service: "discord", Status: tc.status, Message: "nope"}
		h.writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), err)
		assert.Equal(t, tc.want, rec.Code, "upstream status %d", tc.status)
	}

	rec := httptest.NewRecorder()
	h.writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")
}

func TestRecoverJSONAnswersPanics(t *testing.T) {
	h := &Handler{log: logging.Discard()}
	handler := h.recoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func jsonInt(v int) string {
	b, _ := json.Marshal(v)
	return string(b)
}
