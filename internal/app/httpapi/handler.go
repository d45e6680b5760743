// Package httpapi exposes the blog REST API. Handlers only parse requests,
// delegate to the services and shape responses; every domain outcome maps to
// an HTTP status through the service error taxonomy.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	app "github.com/inkwell-labs/blog-server/internal/app"
	"github.com/inkwell-labs/blog-server/internal/app/metrics"
	"github.com/inkwell-labs/blog-server/internal/app/services/comments"
	"github.com/inkwell-labs/blog-server/internal/app/services/posts"
	apperrors "github.com/inkwell-labs/blog-server/internal/errors"
	"github.com/inkwell-labs/blog-server/internal/httputil"
	"github.com/inkwell-labs/blog-server/internal/middleware"
	"github.com/inkwell-labs/blog-server/pkg/logger"
)

// maxUploadBytes bounds the in-memory portion of multipart parsing.
const maxUploadBytes = 10 << 20

// Config controls optional router features.
type Config struct {
	// UploadDir, when non-empty, is served under /uploads/ so stored
	// images stay retrievable.
	UploadDir string

	// AuthSecret enables token parsing on incoming requests. Claims are
	// attached to the request context but requests are never rejected.
	AuthSecret []byte
}

type handler struct {
	app *app.Application
	log *logger.Logger
}

// NewHandler returns a router exposing the REST API.
func NewHandler(application *app.Application, cfg Config, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	h := &handler{app: application, log: log}

	r := mux.NewRouter()

	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.MetricsMiddleware())
	if len(cfg.AuthSecret) > 0 {
		r.Use(middleware.NewAuthMiddleware(cfg.AuthSecret, false, log).Handler())
	}

	r.HandleFunc("/api/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/api/login", h.login).Methods(http.MethodPost)

	r.HandleFunc("/api/posts", h.createPost).Methods(http.MethodPost)
	r.HandleFunc("/api/posts", h.listPosts).Methods(http.MethodGet)
	// Legacy listing route kept for older clients.
	r.HandleFunc("/api/blogs", h.listPosts).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/author/{username}", h.listPostsByAuthor).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/{postId}", h.deletePost).Methods(http.MethodDelete)
	r.HandleFunc("/api/posts/{postId}/details", h.postDetails).Methods(http.MethodGet)

	r.HandleFunc("/api/posts/{postId}/comments", h.createComment).Methods(http.MethodPost)
	r.HandleFunc("/api/posts/{postId}/comments", h.listComments).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/{postId}/comments/{commentId}", h.deleteComment).Methods(http.MethodDelete)

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	if cfg.UploadDir != "" {
		r.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	return r
}

// --- auth -------------------------------------------------------------------

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !httputil.DecodeJSON(w, r, &payload) {
		return
	}

	userID, err := h.app.Auth.Register(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "user registered",
		"userId":  userID,
	})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !httputil.DecodeJSON(w, r, &payload) {
		return
	}

	session, err := h.app.Auth.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, session)
}

// --- posts ------------------------------------------------------------------

func (h *handler) createPost(w http.ResponseWriter, r *http.Request) {
	// Posts arrive as multipart form data so an image can ride along; plain
	// form bodies work too.
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		httputil.BadRequest(w, "invalid form body")
		return
	}

	in := posts.CreateInput{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Author:  r.FormValue("author"),
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		in.Image = &posts.Upload{Filename: header.Filename, Reader: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// No attachment.
	default:
		httputil.BadRequest(w, "invalid image upload")
		return
	}

	created, err := h.app.Posts.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *handler) listPosts(w http.ResponseWriter, r *http.Request) {
	excludeAuthor := r.URL.Query().Get("excludeAuthor")

	result, err := h.app.Posts.List(r.Context(), excludeAuthor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *handler) listPostsByAuthor(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	result, err := h.app.Posts.ListByAuthor(r.Context(), username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *handler) deletePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]

	if err := h.app.Posts.Delete(r.Context(), postID); err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

func (h *handler) postDetails(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]

	details, err := h.app.Posts.Details(r.Context(), postID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, details)
}

// --- comments ---------------------------------------------------------------

func (h *handler) createComment(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]

	var payload struct {
		Content         string  `json:"content"`
		Author          string  `json:"author"`
		ParentCommentID *string `json:"parentCommentId"`
	}
	if !httputil.DecodeJSON(w, r, &payload) {
		return
	}

	created, err := h.app.Comments.Create(r.Context(), postID, comments.CreateInput{
		Content:         payload.Content,
		Author:          payload.Author,
		ParentCommentID: payload.ParentCommentID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *handler) listComments(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]

	result, err := h.app.Comments.ListByPost(r.Context(), postID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	commentID := mux.Vars(r)["commentId"]

	if err := h.app.Comments.Delete(r.Context(), commentID); err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}

// --- misc -------------------------------------------------------------------

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	se := apperrors.GetServiceError(err)
	if se == nil {
		se = apperrors.Internal("internal server error", err)
	}

	entry := h.log.WithError(err).WithFields(map[string]interface{}{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": se.HTTPStatus,
	})
	if se.HTTPStatus >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	httputil.WriteErrorResponse(w, se.HTTPStatus, string(se.Code), se.Message, se.Details)
}
