package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/chess-statistics/db"
	"github.com/Dosada05/chess-statistics/models"
	"github.com/Dosada05/chess-statistics/repositories"
	"github.com/Dosada05/chess-statistics/storage"
)

type memoryUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemoryUploader() *memoryUploader {
	return &memoryUploader{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryUploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (*storage.UploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return &storage.UploadResult{Key: key, Location: m.GetPublicURL(key)}, nil
}

func (m *memoryUploader) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (m *memoryUploader) KeyFromURL(publicURL string) (string, bool) {
	key, ok := strings.CutPrefix(publicURL, "https://cdn.test/")
	return key, ok && key != ""
}

func (m *memoryUploader) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

type testEnv struct {
	players  PlayerService
	games    GameService
	uploader *memoryUploader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn, err := db.Connect(filepath.Join(t.TempDir(), "services.db"), 5*time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := db.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	playerRepo := repositories.NewPlayerRepository(conn)
	gameRepo := repositories.NewGameRepository(conn)
	uploader := newMemoryUploader()
	return &testEnv{
		players:  NewPlayerService(playerRepo, gameRepo, uploader),
		games:    NewGameService(gameRepo, playerRepo),
		uploader: uploader,
	}
}

func ptr[T any](v T) *T { return &v }

func (e *testEnv) player(t *testing.T, username string, rating int) *models.Player {
	t.Helper()
	p, err := e.players.CreatePlayer(context.Background(), CreatePlayerInput{Name: username, Username: username, Rating: &rating})
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	return p
}

func gameInput(playerID, opponentID, date string, result models.GameResult, before, after int) CreateGameInput {
	return CreateGameInput{
		Date:        date,
		PlayerID:    playerID,
		OpponentID:  opponentID,
		Result:      result,
		Color:       models.ColorWhite,
		TimeControl: models.TimeControlRapid,
		Moves:       ptr(40),
		Rating:      &RatingInput{Before: ptr(before), After: ptr(after), Change: ptr(after - before)},
	}
}

func (e *testEnv) game(t *testing.T, in CreateGameInput) *models.Game {
	t.Helper()
	g, err := e.games.CreateGame(context.Background(), in)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return g
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("validation error must match ErrValidationFailed")
	}
	return verr.Fields
}

func TestCreatePlayer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	p, err := env.players.CreatePlayer(ctx, CreatePlayerInput{Name: "  Anna Novice ", Username: "ChessNovice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Rating != models.DefaultRating || p.Name != "Anna Novice" {
		t.Fatalf("unexpected player %+v", p)
	}

	_, err = env.players.CreatePlayer(ctx, CreatePlayerInput{Name: "Other", Username: "ChessNovice"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	_, err = env.players.CreatePlayer(ctx, CreatePlayerInput{Name: " ", Username: ""})
	fields := validationFields(t, err)
	if fields["name"] != "is required" || fields["username"] != "is required" {
		t.Fatalf("unexpected field errors %v", fields)
	}

	zero, err := env.players.CreatePlayer(ctx, CreatePlayerInput{Name: "Zero", Username: "zero", Rating: ptr(0)})
	if err != nil || zero.Rating != 0 {
		t.Fatalf("explicit zero rating must be kept: %v %+v", err, zero)
	}
}

func TestUpdatePlayer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.player(t, "alpha", 2000)
	env.player(t, "beta", 1900)

	got, err := env.players.UpdatePlayer(ctx, a.ID, UpdatePlayerInput{Rating: ptr(2050)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Rating != 2050 || got.Username != "alpha" {
		t.Fatalf("unexpected player %+v", got)
	}

	if _, err := env.players.UpdatePlayer(ctx, a.ID, UpdatePlayerInput{Username: ptr("beta")}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := env.players.UpdatePlayer(ctx, a.ID, UpdatePlayerInput{Username: ptr("alpha")}); err != nil {
		t.Fatalf("keeping own username must succeed: %v", err)
	}

	fields := validationFields(t, func() error {
		_, err := env.players.UpdatePlayer(ctx, a.ID, UpdatePlayerInput{Name: ptr("   ")})
		return err
	}())
	if fields["name"] != "must not be empty" {
		t.Fatalf("unexpected field errors %v", fields)
	}

	if _, err := env.players.UpdatePlayer(ctx, "missing", UpdatePlayerInput{Rating: ptr(1)}); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
	if _, err := env.players.UpdatePlayer(ctx, "missing", UpdatePlayerInput{}); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound for empty update, got %v", err)
	}
}

func TestDeletePlayerCascades(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.player(t, "a", 1500)
	b := env.player(t, "b", 1500)
	env.game(t, gameInput(a.ID, b.ID, "2024-01-01", models.ResultWin, 1500, 1510))
	env.game(t, gameInput(b.ID, a.ID, "2024-01-01", models.ResultLoss, 1500, 1490))

	if err := env.players.DeletePlayer(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := env.players.DeletePlayer(ctx, a.ID); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
	games, err := env.games.ListGames(ctx, models.GameFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected games to be cascaded, got %d", len(games))
	}
}

func TestListPlayersOrdersByRecency(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	strong := env.player(t, "strong", 2400)
	active := env.player(t, "active", 1600)
	env.player(t, "idle", 1800)

	env.game(t, gameInput(active.ID, strong.ID, "2024-01-05", models.ResultWin, 1600, 1620))
	env.game(t, gameInput(strong.ID, active.ID, "2024-01-02", models.ResultDraw, 2400, 2400))

	list, err := env.players.ListPlayers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var order []string
	for _, p := range list {
		order = append(order, p.Username)
	}
	if strings.Join(order, ",") != "active,strong,idle" {
		t.Fatalf("unexpected order %v", order)
	}
	if list[0].Stats.CurrentRating != 1620 || list[0].Stats.Wins != 1 || *list[0].Stats.LastGameDate != "2024-01-05" {
		t.Fatalf("unexpected summary %+v", list[0].Stats)
	}
	if list[2].Stats.CurrentRating != 1800 || list[2].Stats.LastGameDate != nil {
		t.Fatalf("idle player must fall back to stored rating: %+v", list[2].Stats)
	}
}

func TestUploadAvatar(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p := env.player(t, "pic", 1500)

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := env.players.UploadAvatar(ctx, p.ID, bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if got.Avatar == nil || !strings.HasPrefix(*got.Avatar, "https://cdn.test/avatars/"+p.ID+"-") || !strings.HasSuffix(*got.Avatar, ".png") {
		t.Fatalf("unexpected avatar %v", got.Avatar)
	}
	key := strings.TrimPrefix(*got.Avatar, "https://cdn.test/")
	if env.uploader.types[key] != "image/png" {
		t.Fatalf("expected image/png content type, got %q", env.uploader.types[key])
	}

	if _, err := env.players.UploadAvatar(ctx, p.ID, strings.NewReader("not an image")); !errors.Is(err, ErrInvalidAvatar) {
		t.Fatalf("expected ErrInvalidAvatar, got %v", err)
	}
	big := io.LimitReader(zeroReader{}, MaxAvatarSize+10)
	if _, err := env.players.UploadAvatar(ctx, p.ID, big); !errors.Is(err, ErrAvatarTooLarge) {
		t.Fatalf("expected ErrAvatarTooLarge, got %v", err)
	}
	if _, err := env.players.UploadAvatar(ctx, "missing", bytes.NewReader(buf.Bytes())); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
	if len(env.uploader.objects) != 1 {
		t.Fatalf("expected exactly one stored object, got %d", len(env.uploader.objects))
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func avatarKey(t *testing.T, p *models.Player) string {
	t.Helper()
	if p.Avatar == nil {
		t.Fatal("player has no avatar")
	}
	return strings.TrimPrefix(*p.Avatar, "https://cdn.test/")
}

func TestReplacedAvatarObjectsAreRemoved(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p := env.player(t, "pic", 1500)

	first, err := env.players.UploadAvatar(ctx, p.ID, bytes.NewReader(pngBytes(t)))
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	firstKey := avatarKey(t, first)

	second, err := env.players.UploadAvatar(ctx, p.ID, bytes.NewReader(pngBytes(t)))
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	secondKey := avatarKey(t, second)
	if env.uploader.has(firstKey) || !env.uploader.has(secondKey) {
		t.Fatalf("after replace: first stored=%v second stored=%v", env.uploader.has(firstKey), env.uploader.has(secondKey))
	}

	if _, err := env.players.UpdatePlayer(ctx, p.ID, UpdatePlayerInput{Name: ptr("Renamed")}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if !env.uploader.has(secondKey) {
		t.Fatal("update without avatar field removed the avatar object")
	}

	cleared, err := env.players.UpdatePlayer(ctx, p.ID, UpdatePlayerInput{Avatar: ptr("")})
	if err != nil {
		t.Fatalf("clear avatar: %v", err)
	}
	if cleared.Avatar != nil || env.uploader.has(secondKey) {
		t.Fatalf("clearing avatar left avatar=%v stored=%v", cleared.Avatar, env.uploader.has(secondKey))
	}

	third, err := env.players.UploadAvatar(ctx, p.ID, bytes.NewReader(pngBytes(t)))
	if err != nil {
		t.Fatalf("third upload: %v", err)
	}
	thirdKey := avatarKey(t, third)
	if err := env.players.DeletePlayer(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if env.uploader.has(thirdKey) {
		t.Fatal("deleting the player left its avatar object behind")
	}
	if len(env.uploader.objects) != 0 {
		t.Fatalf("expected no stored objects, got %d", len(env.uploader.objects))
	}
}

func TestForeignAvatarURLsAreNotDeleted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p := env.player(t, "pic", 1500)

	env.uploader.objects["logos/site.png"] = []byte("keep")
	for _, avatar := range []string{"https://cdn.test/logos/site.png", "https://gravatar.example.com/x.png"} {
		if _, err := env.players.UpdatePlayer(ctx, p.ID, UpdatePlayerInput{Avatar: ptr(avatar)}); err != nil {
			t.Fatalf("set avatar %s: %v", avatar, err)
		}
	}
	if _, err := env.players.UploadAvatar(ctx, p.ID, bytes.NewReader(pngBytes(t))); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !env.uploader.has("logos/site.png") {
		t.Fatal("object outside the avatar prefix was deleted")
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func TestCreateGameValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.player(t, "a", 1500)
	b := env.player(t, "b", 1500)

	tests := []struct {
		name   string
		mutate func(*CreateGameInput)
		field  string
	}{
		{"bad date", func(in *CreateGameInput) { in.Date = "01/02/2024" }, "date"},
		{"bad result", func(in *CreateGameInput) { in.Result = "resigned" }, "result"},
		{"bad color", func(in *CreateGameInput) { in.Color = "red" }, "color"},
		{"bad time control", func(in *CreateGameInput) { in.TimeControl = "daily" }, "timeControl"},
		{"negative moves", func(in *CreateGameInput) { in.Moves = ptr(-1) }, "moves"},
		{"missing moves", func(in *CreateGameInput) { in.Moves = nil }, "moves"},
		{"missing rating", func(in *CreateGameInput) { in.Rating = nil }, "rating"},
		{"partial rating", func(in *CreateGameInput) { in.Rating.Change = nil }, "rating.change"},
		{"same players", func(in *CreateGameInput) { in.OpponentID = in.PlayerID }, "opponentId"},
		{"unknown opponent", func(in *CreateGameInput) { in.OpponentID = "ghost" }, "opponentId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := gameInput(a.ID, b.ID, "2024-01-01", models.ResultWin, 1500, 1510)
			tt.mutate(&in)
			_, err := env.games.CreateGame(ctx, in)
			fields := validationFields(t, err)
			if _, ok := fields[tt.field]; !ok {
				t.Fatalf("expected error on %s, got %v", tt.field, fields)
			}
		})
	}

	zero := gameInput(a.ID, b.ID, "2024-01-01", models.ResultDraw, 1500, 1500)
	zero.Moves = ptr(0)
	if _, err := env.games.CreateGame(ctx, zero); err != nil {
		t.Fatalf("zero moves and zero change must be accepted: %v", err)
	}
}

func TestUpdateGame(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.player(t, "a", 1500)
	b := env.player(t, "b", 1500)
	c := env.player(t, "c", 1500)
	g := env.game(t, gameInput(a.ID, b.ID, "2024-01-01", models.ResultWin, 1500, 1510))

	got, err := env.games.UpdateGame(ctx, g.ID, UpdateGameInput{
		Notes:  ptr("Time trouble"),
		Rating: &RatingInput{Before: ptr(1500), After: ptr(1520), Change: ptr(20)},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Rating != (models.GameRating{Before: 1500, After: 1520, Change: 20}) || *got.Notes != "Time trouble" || got.Result != models.ResultWin {
		t.Fatalf("unexpected game %+v", got)
	}

	if _, err := env.games.UpdateGame(ctx, g.ID, UpdateGameInput{OpponentID: ptr(a.ID)}); err == nil {
		t.Fatalf("expected error when opponent equals player")
	}
	moved, err := env.games.UpdateGame(ctx, g.ID, UpdateGameInput{OpponentID: ptr(c.ID)})
	if err != nil || moved.OpponentID != c.ID {
		t.Fatalf("opponent change failed: %v %+v", err, moved)
	}

	fields := validationFields(t, func() error {
		_, err := env.games.UpdateGame(ctx, g.ID, UpdateGameInput{Rating: &RatingInput{Before: ptr(1)}})
		return err
	}())
	if _, ok := fields["rating.after"]; !ok {
		t.Fatalf("partial rating must be rejected: %v", fields)
	}
	validationFields(t, func() error {
		_, err := env.games.UpdateGame(ctx, g.ID, UpdateGameInput{Date: ptr("")})
		return err
	}())

	if _, err := env.games.UpdateGame(ctx, "missing", UpdateGameInput{Moves: ptr(3)}); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
	if _, err := env.games.UpdateGame(ctx, "missing", UpdateGameInput{PlayerID: ptr(c.ID)}); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
	if err := env.games.DeleteGame(ctx, g.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.games.GetGame(ctx, g.ID); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestPlayerStatistics(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p1 := env.player(t, "p1", 2100)
	p2 := env.player(t, "p2", 2100)

	env.game(t, gameInput(p1.ID, p2.ID, "2024-01-01", models.ResultDraw, 2090, 2100))
	env.game(t, gameInput(p1.ID, p2.ID, "2024-01-03", models.ResultWin, 2100, 2115))
	loss := gameInput(p1.ID, p2.ID, "2024-01-02", models.ResultLoss, 2115, 2100)
	loss.Color = models.ColorBlack
	env.game(t, loss)

	st, err := env.games.PlayerStatistics(ctx, p1.ID)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if st.TotalGames != 3 || st.AverageRating != 2105 || st.RatingChange != 25 {
		t.Fatalf("unexpected statistics %+v", st)
	}
	if st.GamesByColor.White != 2 || st.GamesByColor.Black != 1 {
		t.Fatalf("unexpected color breakdown %+v", st.GamesByColor)
	}
	if st.RecentGames[0].Date != "2024-01-03" {
		t.Fatalf("recent games must be newest first")
	}

	empty, err := env.games.PlayerStatistics(ctx, "nobody")
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if empty.TotalGames != 0 || empty.RecentGames == nil || len(empty.RecentGames) != 0 {
		t.Fatalf("expected zero statistics, got %+v", empty)
	}
}

func TestSameDayGamesAgreeAcrossViews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.player(t, "a", 1500)
	b := env.player(t, "b", 1500)
	c := env.player(t, "c", 1500)

	env.game(t, gameInput(b.ID, c.ID, "2024-01-04", models.ResultDraw, 1500, 1500))
	for _, before := range []int{1500, 1510, 1520} {
		env.game(t, gameInput(a.ID, b.ID, "2024-01-05", models.ResultWin, before, before+10))
		env.game(t, gameInput(c.ID, b.ID, "2024-01-05", models.ResultLoss, 1500, 1490))
	}

	listed, err := env.players.ListPlayers(ctx)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	var summary models.PlayerSummary
	for _, p := range listed {
		if p.ID == a.ID {
			summary = p.Stats
		}
	}

	games, err := env.games.ListPlayerGames(ctx, a.ID)
	if err != nil {
		t.Fatalf("list player games: %v", err)
	}
	st, err := env.games.PlayerStatistics(ctx, a.ID)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}

	if summary.CurrentRating != 1530 || games[0].Rating.After != 1530 {
		t.Fatalf("newest game disagrees: summary %d, player games %d", summary.CurrentRating, games[0].Rating.After)
	}
	if st.RatingChange != 30 {
		t.Fatalf("rating change = %d, want 30", st.RatingChange)
	}
	if st.RecentGames[0].ID != games[0].ID {
		t.Fatalf("recent games start with %s, want %s", st.RecentGames[0].ID, games[0].ID)
	}
}
