package httpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"socialnet/internal/domain"
	"socialnet/internal/service"
)

type createPostRequest struct {
	Content string  `json:"content"`
	Image   *string `json:"image"`
}

type addCommentRequest struct {
	Content string `json:"content"`
}

func handleCreatePost(postSvc *service.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		caller := CurrentUser(r)
		post, err := postSvc.Create(r.Context(), caller.ID, service.PostCreateInput{
			Content: req.Content,
			Image:   req.Image,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, post)
	}
}

func handleGetPost(postSvc *service.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := postSvc.Get(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if post == nil {
			writeError(w, domain.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func handleDeletePost(postSvc *service.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CurrentUser(r)
		if err := postSvc.Delete(r.Context(), caller.ID, chi.URLParam(r, "postID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}

func handleFeed(postSvc *service.PostService) http.HandlerFunc {
	return listPosts(func(r *http.Request, svc *service.PostService) ([]*domain.PostView, error) {
		return svc.Feed(r.Context(), CurrentUser(r).ID)
	}, postSvc)
}

func handleExplore(postSvc *service.PostService) http.HandlerFunc {
	return listPosts(func(r *http.Request, svc *service.PostService) ([]*domain.PostView, error) {
		return svc.Explore(r.Context(), CurrentUser(r).ID)
	}, postSvc)
}

func handleBookmarkedPosts(postSvc *service.PostService) http.HandlerFunc {
	return listPosts(func(r *http.Request, svc *service.PostService) ([]*domain.PostView, error) {
		return svc.Bookmarked(r.Context(), CurrentUser(r).ID)
	}, postSvc)
}

func listPosts(fetch func(*http.Request, *service.PostService) ([]*domain.PostView, error), postSvc *service.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := fetch(r, postSvc)
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

func handleLike(postSvc *service.PostService) http.HandlerFunc {
	return postEdge(postSvc, (*service.PostService).Like)
}

func handleUnlike(postSvc *service.PostService) http.HandlerFunc {
	return postEdge(postSvc, (*service.PostService).Unlike)
}

func handleBookmark(postSvc *service.PostService) http.HandlerFunc {
	return postEdge(postSvc, (*service.PostService).Bookmark)
}

func handleUnbookmark(postSvc *service.PostService) http.HandlerFunc {
	return postEdge(postSvc, (*service.PostService).Unbookmark)
}

func postEdge(postSvc *service.PostService, op func(*service.PostService, context.Context, string, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CurrentUser(r)
		if err := op(postSvc, r.Context(), chi.URLParam(r, "postID"), caller.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}

func handleListComments(postSvc *service.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comments, err := postSvc.Comments(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if comments == nil {
			comments = []*domain.CommentView{}
		}
		writeJSON(w, http.StatusOK, comments)
	}
}

func handleAddComment(postSvc *service.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		caller := CurrentUser(r)
		comment, err := postSvc.AddComment(r.Context(), caller.ID, chi.URLParam(r, "postID"), req.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, comment)
	}
}
