package routes

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"

	"github.com/Dosada05/chess-statistics/config"
	"github.com/Dosada05/chess-statistics/docs"
	"github.com/Dosada05/chess-statistics/handlers"
	"github.com/Dosada05/chess-statistics/middleware"
	"github.com/Dosada05/chess-statistics/storage"
)

func SetupRoutes(
	router *chi.Mux,
	cfg *config.Config,
	logger *slog.Logger,
	playerHandler *handlers.PlayerHandler,
	gameHandler *handlers.GameHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if cfg.RateLimitRPS > 0 {
		router.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Handler)
	}
	router.Use(chiMiddleware.Compress(5))
	router.Use(chiMiddleware.Timeout(30 * time.Second))

	prefix := cfg.APIPrefix
	docs.SwaggerInfo.BasePath = prefix
	if docs.SwaggerInfo.BasePath == "" {
		docs.SwaggerInfo.BasePath = "/"
	}

	api := chi.NewRouter()

	api.Get("/health", healthHandler.Health)

	api.Get("/docs.json", serveSwaggerDoc)
	api.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, prefix+"/docs/index.html", http.StatusMovedPermanently)
	})
	api.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL(prefix+"/docs.json")))

	if !cfg.S3Enabled() {
		uploads := prefix + storage.LocalPathPrefix
		api.Handle(storage.LocalPathPrefix+"/*", http.StripPrefix(uploads, noDirListing(http.FileServer(http.Dir(cfg.UploadDir)))))
	}

	requireAuth := middleware.BasicAuth(cfg.AuthUsername, cfg.AuthPassword)

	api.With(requireAuth).Post("/auth/verify", handlers.VerifyAuth)

	api.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.ListPlayers)
		r.Get("/{id}", playerHandler.GetPlayer)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/", playerHandler.CreatePlayer)
			r.Put("/{id}", playerHandler.UpdatePlayer)
			r.Patch("/{id}", playerHandler.UpdatePlayer)
			r.Delete("/{id}", playerHandler.DeletePlayer)
			r.Post("/{id}/avatar", playerHandler.UploadAvatar)
		})
	})

	api.Route("/games", func(r chi.Router) {
		r.Get("/", gameHandler.ListGames)
		r.Get("/player/{playerId}", gameHandler.ListPlayerGames)
		r.Get("/player/{playerId}/statistics", gameHandler.PlayerStatistics)
		r.Get("/{id}", gameHandler.GetGame)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/", gameHandler.CreateGame)
			r.Put("/{id}", gameHandler.UpdateGame)
			r.Patch("/{id}", gameHandler.UpdateGame)
			r.Delete("/{id}", gameHandler.DeleteGame)
		})
	})

	if prefix == "" {
		router.Mount("/", api)
	} else {
		router.Mount(prefix, api)
	}
}

func serveSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		slog.Error("failed to render swagger document", slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
