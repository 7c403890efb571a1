package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"socialnet/internal/domain"
	"socialnet/internal/service"
)

// userByUsername resolves the {username} path parameter to a user, writing
// the error response itself when resolution fails.
func userByUsername(w http.ResponseWriter, r *http.Request, userSvc *service.UserService) *domain.User {
	username := chi.URLParam(r, "username")
	user, err := userSvc.GetByUsername(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return nil
	}
	if user == nil {
		writeError(w, domain.ErrNotFound)
		return nil
	}
	return user
}

func handleSearchUsers(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CurrentUser(r)
		results, err := userSvc.Search(r.Context(), r.URL.Query().Get("q"), caller.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		if results == nil {
			results = []*domain.UserDetail{}
		}
		writeJSON(w, http.StatusOK, results)
	}
}

func handleGetUser(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userByUsername(w, r, userSvc)
		if user == nil {
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func handleUserStats(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userByUsername(w, r, userSvc)
		if user == nil {
			return
		}
		stats, err := userSvc.Stats(r.Context(), user.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func handleUpdateProfile(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.ProfileUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		caller := CurrentUser(r)
		user, err := userSvc.UpdateProfile(r.Context(), caller.ID, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func handleFollow(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := userByUsername(w, r, userSvc)
		if target == nil {
			return
		}
		caller := CurrentUser(r)
		if err := userSvc.Follow(r.Context(), caller.ID, target.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}

func handleUnfollow(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := userByUsername(w, r, userSvc)
		if target == nil {
			return
		}
		caller := CurrentUser(r)
		if err := userSvc.Unfollow(r.Context(), caller.ID, target.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}

func handleFollowers(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userByUsername(w, r, userSvc)
		if user == nil {
			return
		}
		if r.URL.Query().Get("details") == "true" {
			details, err := userSvc.FollowersWithDetails(r.Context(), user.ID)
			if err != nil {
				writeError(w, err)
				return
			}
			if details == nil {
				details = []*domain.UserDetail{}
			}
			writeJSON(w, http.StatusOK, details)
			return
		}
		users, err := userSvc.Followers(r.Context(), user.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		if users == nil {
			users = []*domain.User{}
		}
		writeJSON(w, http.StatusOK, users)
	}
}

func handleFollowing(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userByUsername(w, r, userSvc)
		if user == nil {
			return
		}
		if r.URL.Query().Get("details") == "true" {
			details, err := userSvc.FollowingWithDetails(r.Context(), user.ID)
			if err != nil {
				writeError(w, err)
				return
			}
			if details == nil {
				details = []*domain.UserDetail{}
			}
			writeJSON(w, http.StatusOK, details)
			return
		}
		users, err := userSvc.Following(r.Context(), user.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		if users == nil {
			users = []*domain.User{}
		}
		writeJSON(w, http.StatusOK, users)
	}
}

func handleUserPosts(userSvc *service.UserService, postSvc *service.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userByUsername(w, r, userSvc)
		if user == nil {
			return
		}
		posts, err := postSvc.ByUser(r.Context(), user.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		if posts == nil {
			posts = []*domain.PostView{}
		}
		writeJSON(w, http.StatusOK, posts)
	}
}
