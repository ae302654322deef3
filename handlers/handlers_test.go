package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/Dosada05/chess-statistics/models"
	"github.com/Dosada05/chess-statistics/services"
)

type fakePlayerService struct {
	players      map[string]models.Player
	lastCreate   services.CreatePlayerInput
	lastUpdate   services.UpdatePlayerInput
	avatarBytes  []byte
	failWith     error
	listResponse []models.PlayerWithStats
}

func newFakePlayerService() *fakePlayerService {
	return &fakePlayerService{players: map[string]models.Player{
		"p1": {ID: "p1", Name: "Alex Grandmaster", Username: "Grandmaster123", Rating: 2450},
	}}
}

func (f *fakePlayerService) ListPlayers(ctx context.Context) ([]models.PlayerWithStats, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.listResponse, nil
}

func (f *fakePlayerService) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, services.ErrPlayerNotFound
	}
	return &p, nil
}

func (f *fakePlayerService) CreatePlayer(ctx context.Context, in services.CreatePlayerInput) (*models.Player, error) {
	f.lastCreate = in
	if in.Name == "" {
		return nil, &services.ValidationError{Fields: map[string]string{"name": "is required"}}
	}
	for _, p := range f.players {
		if p.Username == in.Username {
			return nil, services.ErrUsernameTaken
		}
	}
	p := models.Player{ID: "p2", Name: in.Name, Username: in.Username, Rating: models.DefaultRating}
	f.players[p.ID] = p
	return &p, nil
}

func (f *fakePlayerService) UpdatePlayer(ctx context.Context, id string, in services.UpdatePlayerInput) (*models.Player, error) {
	f.lastUpdate = in
	p, ok := f.players[id]
	if !ok {
		return nil, services.ErrPlayerNotFound
	}
	models.PlayerUpdate{Name: in.Name, Username: in.Username, Rating: in.Rating, Avatar: in.Avatar}.Apply(&p)
	f.players[id] = p
	return &p, nil
}

func (f *fakePlayerService) DeletePlayer(ctx context.Context, id string) error {
	if _, ok := f.players[id]; !ok {
		return services.ErrPlayerNotFound
	}
	delete(f.players, id)
	return nil
}

func (f *fakePlayerService) UploadAvatar(ctx context.Context, id string, file io.Reader) (*models.Player, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	f.avatarBytes = data
	if string(data) == "not an image" {
		return nil, services.ErrInvalidAvatar
	}
	url := "/uploads/avatars/" + id + ".png"
	return f.UpdatePlayer(ctx, id, services.UpdatePlayerInput{Avatar: &url})
}

type fakeGameService struct {
	games      []models.Game
	lastFilter models.GameFilter
	lastUpdate services.UpdateGameInput
	failWith   error
}

func (f *fakeGameService) ListGames(ctx context.Context, filter models.GameFilter) ([]models.Game, error) {
	f.lastFilter = filter
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.games, nil
}

func (f *fakeGameService) GetGame(ctx context.Context, id string) (*models.Game, error) {
	for _, g := range f.games {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, services.ErrGameNotFound
}

func (f *fakeGameService) ListPlayerGames(ctx context.Context, playerID string) ([]models.Game, error) {
	return f.ListGames(ctx, models.GameFilter{PlayerID: playerID})
}

func (f *fakeGameService) PlayerStatistics(ctx context.Context, playerID string) (models.GameStatistics, error) {
	return models.GameStatistics{TotalGames: 3, Wins: 1, WinRate: 100.0 / 3, RecentGames: []models.Game{}}, nil
}

func (f *fakeGameService) CreateGame(ctx context.Context, in services.CreateGameInput) (*models.Game, error) {
	if in.Result != models.ResultWin && in.Result != models.ResultLoss && in.Result != models.ResultDraw {
		return nil, &services.ValidationError{Fields: map[string]string{"result": "must be one of: win, loss, draw"}}
	}
	g := models.Game{ID: "g-new", Date: in.Date, PlayerID: in.PlayerID, OpponentID: in.OpponentID, Result: in.Result}
	return &g, nil
}

func (f *fakeGameService) UpdateGame(ctx context.Context, id string, in services.UpdateGameInput) (*models.Game, error) {
	f.lastUpdate = in
	g, err := f.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Moves != nil {
		g.Moves = *in.Moves
	}
	return g, nil
}

func (f *fakeGameService) DeleteGame(ctx context.Context, id string) error {
	if _, err := f.GetGame(ctx, id); err != nil {
		return err
	}
	return nil
}

func newTestRouter(ps services.PlayerService, gs services.GameService) http.Handler {
	ph := NewPlayerHandler(ps)
	gh := NewGameHandler(gs)

	r := chi.NewRouter()
	r.Route("/players", func(r chi.Router) {
		r.Get("/", ph.ListPlayers)
		r.Post("/", ph.CreatePlayer)
		r.Get("/{id}", ph.GetPlayer)
		r.Put("/{id}", ph.UpdatePlayer)
		r.Patch("/{id}", ph.UpdatePlayer)
		r.Delete("/{id}", ph.DeletePlayer)
		r.Post("/{id}/avatar", ph.UploadAvatar)
	})
	r.Route("/games", func(r chi.Router) {
		r.Get("/", gh.ListGames)
		r.Post("/", gh.CreateGame)
		r.Get("/player/{playerId}", gh.ListPlayerGames)
		r.Get("/player/{playerId}/statistics", gh.PlayerStatistics)
		r.Get("/{id}", gh.GetGame)
		r.Put("/{id}", gh.UpdateGame)
		r.Delete("/{id}", gh.DeleteGame)
	})
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestPlayerEndpoints(t *testing.T) {
	ps := newFakePlayerService()
	h := newTestRouter(ps, &fakeGameService{})

	t.Run("get", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/players/p1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var p map[string]interface{}
		decodeBody(t, rec, &p)
		if p["username"] != "Grandmaster123" || p["rating"] != float64(2450) {
			t.Fatalf("unexpected body %v", p)
		}
		if _, ok := p["avatar"]; ok {
			t.Fatalf("nil avatar must be omitted: %v", p)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/players/nope", "")
		var body map[string]string
		decodeBody(t, rec, &body)
		if rec.Code != http.StatusNotFound || body["error"] != "Player not found" {
			t.Fatalf("expected 404 Player not found, got %d %v", rec.Code, body)
		}
	})

	t.Run("create", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/players", `{"name":"Emma Speed","username":"SpeedChess","extra":true}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if ps.lastCreate.Rating != nil {
			t.Fatalf("absent rating must stay nil")
		}
	})

	t.Run("create conflict", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/players", `{"name":"X","username":"Grandmaster123"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("create invalid", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/players", `{"username":"u"}`)
		var body struct {
			Error map[string]string `json:"error"`
		}
		decodeBody(t, rec, &body)
		if rec.Code != http.StatusBadRequest || body.Error["name"] != "is required" {
			t.Fatalf("expected 400 with field errors, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/players", `{"name":`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		rec = doRequest(t, h, http.MethodPost, "/players", `{"name":"a","username":"b"}{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for trailing data, got %d", rec.Code)
		}
		rec = doRequest(t, h, http.MethodPost, "/players", `{"name":"a","username":"b","rating":"high"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for wrong type, got %d", rec.Code)
		}
	})

	t.Run("sparse update", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPut, "/players/p1", `{"rating":2460}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ps.lastUpdate.Name != nil || ps.lastUpdate.Username != nil || ps.lastUpdate.Avatar != nil {
			t.Fatalf("absent fields must decode as nil: %+v", ps.lastUpdate)
		}
		var p models.Player
		decodeBody(t, rec, &p)
		if p.Rating != 2460 || p.Name != "Alex Grandmaster" {
			t.Fatalf("unexpected player %+v", p)
		}

		rec = doRequest(t, h, http.MethodPatch, "/players/p1", `{}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("empty patch: expected 200, got %d", rec.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodDelete, "/players/p2", "")
		if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
			t.Fatalf("expected empty 204, got %d", rec.Code)
		}
		rec = doRequest(t, h, http.MethodDelete, "/players/p2", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("list failure hides details", func(t *testing.T) {
		ps.failWith = errors.New("disk on fire")
		defer func() { ps.failWith = nil }()
		rec := doRequest(t, h, http.MethodGet, "/players", "")
		if rec.Code != http.StatusInternalServerError || strings.Contains(rec.Body.String(), "disk") {
			t.Fatalf("expected generic 500, got %d %s", rec.Code, rec.Body.String())
		}
	})
}

func multipartAvatar(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "avatar.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write(content)
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadAvatarEndpoint(t *testing.T) {
	ps := newFakePlayerService()
	h := newTestRouter(ps, &fakeGameService{})

	send := func(field string, content []byte) *httptest.ResponseRecorder {
		body, ct := multipartAvatar(t, field, content)
		req := httptest.NewRequest(http.MethodPost, "/players/p1/avatar", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := send("avatar", []byte("png bytes"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var p models.Player
	decodeBody(t, rec, &p)
	if p.Avatar == nil || *p.Avatar != "/uploads/avatars/p1.png" || string(ps.avatarBytes) != "png bytes" {
		t.Fatalf("unexpected player %+v", p)
	}

	if rec := send("picture", []byte("png bytes")); rec.Code != http.StatusBadRequest {
		t.Fatalf("wrong field name: expected 400, got %d", rec.Code)
	}
	if rec := send("avatar", []byte("not an image")); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid image: expected 400, got %d", rec.Code)
	}
}

func TestGameEndpoints(t *testing.T) {
	gs := &fakeGameService{games: []models.Game{
		{ID: "g1", Date: "2024-01-03", PlayerID: "p1", OpponentID: "p2", Result: models.ResultWin, Color: models.ColorWhite, TimeControl: models.TimeControlBlitz, Moves: 30, Rating: models.GameRating{Before: 2100, After: 2115, Change: 15}},
	}}
	h := newTestRouter(newFakePlayerService(), gs)

	rec := doRequest(t, h, http.MethodGet, "/games?playerId=p1", "")
	if rec.Code != http.StatusOK || gs.lastFilter.PlayerID != "p1" {
		t.Fatalf("expected filtered listing, got %d filter %+v", rec.Code, gs.lastFilter)
	}
	var games []map[string]interface{}
	decodeBody(t, rec, &games)
	if len(games) != 1 || games[0]["timeControl"] != "blitz" || games[0]["playerId"] != "p1" {
		t.Fatalf("unexpected games %v", games)
	}
	rating, _ := games[0]["rating"].(map[string]interface{})
	if rating["change"] != float64(15) {
		t.Fatalf("unexpected rating %v", rating)
	}

	rec = doRequest(t, h, http.MethodGet, "/games/player/p9", "")
	if rec.Code != http.StatusOK || gs.lastFilter.PlayerID != "p9" {
		t.Fatalf("expected player listing, got %d filter %+v", rec.Code, gs.lastFilter)
	}

	rec = doRequest(t, h, http.MethodGet, "/games/player/p1/statistics", "")
	var st map[string]interface{}
	decodeBody(t, rec, &st)
	if rec.Code != http.StatusOK || st["totalGames"] != float64(3) {
		t.Fatalf("unexpected statistics %d %v", rec.Code, st)
	}
	if recent, ok := st["recentGames"].([]interface{}); !ok || len(recent) != 0 {
		t.Fatalf("recentGames must be an empty array, got %v", st["recentGames"])
	}

	rec = doRequest(t, h, http.MethodGet, "/games/g404", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPost, "/games", `{"date":"2024-01-05","playerId":"p1","opponentId":"p2","result":"resign"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	rec = doRequest(t, h, http.MethodPost, "/games", `{"date":"2024-01-05","playerId":"p1","opponentId":"p2","result":"win"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPut, "/games/g1", `{"moves":55,"rating":{"before":1,"after":2,"change":1}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gs.lastUpdate.Rating == nil || *gs.lastUpdate.Rating.After != 2 || gs.lastUpdate.Date != nil {
		t.Fatalf("unexpected decoded update %+v", gs.lastUpdate)
	}

	rec = doRequest(t, h, http.MethodDelete, "/games/g1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"single object", `{"name":"x"}`, ""},
		{"trailing whitespace", "{\"name\":\"x\"}\n  ", ""},
		{"unknown field ignored", `{"name":"x","extra":1}`, ""},
		{"empty body", ``, "body must not be empty"},
		{"trailing bracket", `{"name":"x"}]`, "body must only contain a single JSON value"},
		{"trailing brace", `{"name":"x"}}`, "body must only contain a single JSON value"},
		{"second object", `{"name":"x"}{"name":"y"}`, "body must only contain a single JSON value"},
		{"wrong type", `{"name":1}`, "incorrect JSON type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst struct {
				Name string `json:"name"`
			}
			err := readJSON(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if dst.Name != "x" {
					t.Fatalf("name = %q", dst.Name)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
