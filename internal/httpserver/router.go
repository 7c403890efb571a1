package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"socialnet/internal/config"
	"socialnet/internal/domain"
	"socialnet/internal/security"
	"socialnet/internal/service"
	"socialnet/internal/store/sqlite"
)

// NewRouter constructs the main HTTP router and wires routes, services, and
// middleware.
func NewRouter(cfg *config.Config, db *sql.DB, tokenSvc *security.TokenService, passwordHasher *security.PasswordHasher) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Repositories
	userRepo := sqlite.NewUserRepo(db)
	followRepo := sqlite.NewFollowRepo(db)
	postRepo := sqlite.NewPostRepo(db)
	convRepo := sqlite.NewConversationRepo(db)
	msgRepo := sqlite.NewMessageRepo(db)

	// Services
	authSvc := service.NewAuthService(userRepo, tokenSvc, passwordHasher)
	userSvc := service.NewUserService(userRepo, followRepo)
	postSvc := service.NewPostService(postRepo)
	chatSvc := service.NewChatService(convRepo, msgRepo, userRepo)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handleRegister(authSvc))
			r.Post("/login", handleLogin(authSvc))
		})

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(tokenSvc, userRepo))

			r.Get("/auth/me", handleMe())

			r.Route("/users", func(r chi.Router) {
				r.Get("/search", handleSearchUsers(userSvc))
				r.Get("/{username}", handleGetUser(userSvc))
				r.Get("/{username}/stats", handleUserStats(userSvc))
				r.Get("/{username}/posts", handleUserPosts(userSvc, postSvc))
				r.Put("/me", handleUpdateProfile(userSvc))
				r.Post("/{username}/follow", handleFollow(userSvc))
				r.Delete("/{username}/follow", handleUnfollow(userSvc))
				r.Get("/{username}/followers", handleFollowers(userSvc))
				r.Get("/{username}/following", handleFollowing(userSvc))
			})

			r.Route("/posts", func(r chi.Router) {
				r.Get("/feed", handleFeed(postSvc))
				r.Get("/explore", handleExplore(postSvc))
				r.Get("/bookmarks", handleBookmarkedPosts(postSvc))
				r.Post("/", handleCreatePost(postSvc))
				r.Get("/{postID}", handleGetPost(postSvc))
				r.Delete("/{postID}", handleDeletePost(postSvc))
				r.Post("/{postID}/like", handleLike(postSvc))
				r.Delete("/{postID}/like", handleUnlike(postSvc))
				r.Post("/{postID}/bookmark", handleBookmark(postSvc))
				r.Delete("/{postID}/bookmark", handleUnbookmark(postSvc))
				r.Get("/{postID}/comments", handleListComments(postSvc))
				r.Post("/{postID}/comments", handleAddComment(postSvc))
			})

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", handleListConversations(chatSvc))
				r.Post("/direct", handleDirectConversation(chatSvc))
				r.Post("/group", handleGroupConversation(chatSvc))
				r.Get("/{conversationID}/messages", handleListMessages(chatSvc))
				r.Post("/{conversationID}/messages", handleSendMessage(chatSvc))
			})

			r.Mount("/uploads", UploadRoutes(cfg))
		})
	})

	return r
}

// writeJSON is a small helper to send JSON responses.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps domain errors to HTTP status codes. Store-level failures
// collapse to a generic server error.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
