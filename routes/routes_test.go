package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/cup-simulator/brackets"
	"github.com/Dosada05/cup-simulator/catalog"
	"github.com/Dosada05/cup-simulator/handlers"
	"github.com/Dosada05/cup-simulator/repositories"
	"github.com/Dosada05/cup-simulator/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type apiFixture struct {
	server *httptest.Server
	hub    *brackets.Hub
}

func newAPI(t *testing.T) apiFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hash, err := bcrypt.GenerateFromPassword([]byte("operator-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	hub := brackets.NewHub(logger)
	go hub.Run()

	auth := services.NewAuthService(string(hash), "route-secret", time.Hour)
	svc := services.NewTournamentService(services.TournamentServiceDeps{
		Engine:   services.NewEngine(services.NewEloSimulator(), brackets.NewRandomSource(77), services.DefaultFormat()),
		Store:    repositories.NewMemoryTournamentStore(),
		Teams:    repositories.NewStaticTeamRepository(catalog.Default()),
		Notifier: hub,
		Logger:   logger,
	})

	router := chi.NewRouter()
	SetupRoutes(router, auth,
		handlers.NewAuthHandler(auth),
		handlers.NewTournamentHandler(svc),
		handlers.NewWebSocketHandler(hub, logger))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return apiFixture{server: server, hub: hub}
}

func (a apiFixture) do(t *testing.T, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, a.server.URL+path, bytes.NewBufferString(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (a apiFixture) login(t *testing.T) string {
	t.Helper()
	status, body := a.do(t, http.MethodPost, "/auth/login", "", `{"password":"operator-pass"}`)
	require.Equal(t, http.StatusOK, status)
	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func field(t *testing.T, v interface{}, path ...interface{}) interface{} {
	t.Helper()
	for _, p := range path {
		switch key := p.(type) {
		case string:
			m, ok := v.(map[string]interface{})
			require.True(t, ok, "expected object at %v", key)
			v = m[key]
		case int:
			s, ok := v.([]interface{})
			require.True(t, ok, "expected array at %d", key)
			require.Greater(t, len(s), key)
			v = s[key]
		}
	}
	return v
}

func TestHealthAndLogin(t *testing.T) {
	api := newAPI(t)

	resp, err := http.Get(api.server.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, _ := api.do(t, http.MethodPost, "/auth/login", "", `{"password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = api.do(t, http.MethodPost, "/auth/login", "", `{"password":"x","extra":1}`)
	assert.Equal(t, http.StatusBadRequest, status)

	assert.NotEmpty(t, api.login(t))
}

func TestMutationsRequireOperatorToken(t *testing.T) {
	api := newAPI(t)

	status, _ := api.do(t, http.MethodPost, "/tournaments", "", `{"name":"Cup"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = api.do(t, http.MethodPost, "/tournaments", "forged", `{"name":"Cup"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := api.do(t, http.MethodGet, "/tournaments", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["tournaments"])
}

func TestTournamentLifecycleOverHTTP(t *testing.T) {
	api := newAPI(t)
	token := api.login(t)

	status, body := api.do(t, http.MethodPost, "/tournaments", token, `{"name":"HTTP Cup"}`)
	require.Equal(t, http.StatusCreated, status)
	id := field(t, body, "tournament", "id").(string)
	groupID := field(t, body, "tournament", "qualifier_groups", 0, "id").(string)
	matchID := field(t, body, "tournament", "qualifier_groups", 0, "matches", 0, "id").(string)
	base := "/tournaments/" + id

	status, _ = api.do(t, http.MethodGet, "/tournaments/missing", "", "")
	assert.Equal(t, http.StatusNotFound, status)

	resultPath := base + "/groups/" + groupID + "/matches/" + matchID + "/result"
	status, _ = api.do(t, http.MethodPost, resultPath, token, `{"home_score":-1,"away_score":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	status, body = api.do(t, http.MethodPost, resultPath, token, `{"home_score":2,"away_score":1}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, field(t, body, "match", "played"))
	status, _ = api.do(t, http.MethodPost, resultPath, token, `{"home_score":0,"away_score":0}`)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = api.do(t, http.MethodPost, base+"/qualifiers/draw", token, "")
	assert.Equal(t, http.StatusConflict, status)
	status, _ = api.do(t, http.MethodPost, base+"/world-cup", token, "")
	assert.Equal(t, http.StatusConflict, status)
	status, _ = api.do(t, http.MethodPost, base+"/export", token, "")
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, body = api.do(t, http.MethodPost, base+"/groups/"+groupID+"/simulate", token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["matches"], 19)

	for _, step := range []string{"/simulate-stage", "/world-cup", "/simulate-stage", "/knockout", "/knockout/draw"} {
		status, body = api.do(t, http.MethodPost, base+step, token, "")
		require.Equal(t, http.StatusOK, status, "%s: %v", step, body)
	}
	assert.Equal(t, "knockout_in_progress", field(t, body, "tournament", "status"))
	koMatch := field(t, body, "tournament", "world_cup", "bracket", "round_of_32", 0, "id").(string)

	koPath := base + "/knockout/matches/" + koMatch + "/result"
	status, _ = api.do(t, http.MethodPost, koPath, token, `{"home_score":1,"away_score":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	status, body = api.do(t, http.MethodPost, koPath, token, `{"home_score":1,"away_score":1,"penalties":{"home":5,"away":3}}`)
	require.Equal(t, http.StatusOK, status)
	assert.NotNil(t, field(t, body, "match", "penalties"))

	status, _ = api.do(t, http.MethodPost, base+"/knockout/draw", token, "")
	assert.Equal(t, http.StatusConflict, status)

	// round of 32, round of 16, quarterfinals, semifinals, then third place and final
	for round := 0; round < 5; round++ {
		status, body = api.do(t, http.MethodPost, base+"/knockout/simulate-round", token, "")
		require.Equal(t, http.StatusOK, status, "round %d: %v", round, body)
	}
	status, _ = api.do(t, http.MethodPost, base+"/knockout/simulate-round", token, "")
	assert.Equal(t, http.StatusConflict, status)

	status, body = api.do(t, http.MethodGet, base, "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "champion_decided", field(t, body, "tournament", "status"))
	assert.NotEmpty(t, field(t, body, "tournament", "world_cup", "champion_id"))
	assert.NotEmpty(t, field(t, body, "tournament", "world_cup", "fourth_place_id"))

	status, _ = api.do(t, http.MethodPost, base+"/advance", token, "")
	assert.Equal(t, http.StatusConflict, status)
}

func TestWebSocketReceivesMatchEvents(t *testing.T) {
	api := newAPI(t)
	token := api.login(t)

	status, body := api.do(t, http.MethodPost, "/tournaments", token, `{"name":"Live Cup"}`)
	require.Equal(t, http.StatusCreated, status)
	id := field(t, body, "tournament", "id").(string)
	groupID := field(t, body, "tournament", "qualifier_groups", 0, "id").(string)
	matchID := field(t, body, "tournament", "qualifier_groups", 0, "matches", 0, "id").(string)

	wsURL := "ws" + strings.TrimPrefix(api.server.URL, "http") + "/ws/tournaments/" + id
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool {
		return api.hub.ClientCount(brackets.RoomForTournament(id)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	status, _ = api.do(t, http.MethodPost, "/tournaments/"+id+"/groups/"+groupID+"/matches/"+matchID+"/result", token, `{"home_score":1,"away_score":0}`)
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	first := strings.SplitN(string(raw), "\n", 2)[0]
	var msg brackets.WebSocketMessage
	require.NoError(t, json.Unmarshal([]byte(first), &msg))
	assert.Equal(t, brackets.EventMatchPlayed, msg.Type)
	assert.Equal(t, brackets.RoomForTournament(id), msg.RoomID)
}

func TestQualifierListingAndDelete(t *testing.T) {
	api := newAPI(t)
	token := api.login(t)

	status, body := api.do(t, http.MethodPost, "/tournaments", token, `{"name":"Cup"}`)
	require.Equal(t, http.StatusCreated, status)
	id := field(t, body, "tournament", "id").(string)

	status, body = api.do(t, http.MethodGet, "/tournaments/"+id+"/qualifiers?region=oceania", "", "")
	require.Equal(t, http.StatusOK, status)
	groups := field(t, body, "groups").([]interface{})
	assert.Len(t, groups, 3)
	assert.Equal(t, "Oceania Group 1", field(t, groups, 0, "name"))

	status, body = api.do(t, http.MethodGet, "/tournaments/"+id+"/qualifiers", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, field(t, body, "groups"), 42)

	groupID := field(t, groups, 0, "id").(string)
	matchID := field(t, groups, 0, "matches", 0, "id").(string)
	simulate := "/tournaments/" + id + "/groups/" + groupID + "/matches/" + matchID + "/simulate"
	status, _ = api.do(t, http.MethodPost, simulate, "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, body = api.do(t, http.MethodPost, simulate, token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, field(t, body, "match", "played"))
	status, _ = api.do(t, http.MethodPost, simulate, token, "")
	assert.Equal(t, http.StatusConflict, status)

	status, _ = api.do(t, http.MethodGet, "/tournaments/"+id+"/qualifiers?region=atlantis", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = api.do(t, http.MethodDelete, "/tournaments/"+id, "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = api.do(t, http.MethodDelete, "/tournaments/"+id, token, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = api.do(t, http.MethodGet, "/tournaments/"+id, "", "")
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = api.do(t, http.MethodDelete, "/tournaments/"+id, token, "")
	assert.Equal(t, http.StatusNotFound, status)
}
