// Package app wires the domain services to their stores.
package app

import (
	"time"

	"github.com/inkwell-labs/blog-server/internal/app/blob"
	"github.com/inkwell-labs/blog-server/internal/app/services/auth"
	"github.com/inkwell-labs/blog-server/internal/app/services/comments"
	"github.com/inkwell-labs/blog-server/internal/app/services/posts"
	"github.com/inkwell-labs/blog-server/internal/app/storage"
	"github.com/inkwell-labs/blog-server/internal/app/storage/memory"
	"github.com/inkwell-labs/blog-server/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Users    storage.UserStore
	Posts    storage.PostStore
	Comments storage.CommentStore
}

// DevAuthSecret signs tokens when no secret is configured. It is only
// acceptable for local development.
const DevAuthSecret = "dev-insecure-secret"

// Options carries cross-service configuration.
type Options struct {
	// AuthSecret signs issued bearer tokens.
	AuthSecret []byte
	// TokenTTL overrides the default token lifetime when positive.
	TokenTTL time.Duration
	// Blobs persists uploaded images; nil disables uploads.
	Blobs blob.Store
}

// Application ties the services together.
type Application struct {
	log *logger.Logger

	Auth     *auth.Service
	Posts    *posts.Service
	Comments *comments.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, opts Options, log *logger.Logger) *Application {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Users == nil {
		stores.Users = mem
	}
	if stores.Posts == nil {
		stores.Posts = mem
	}
	if stores.Comments == nil {
		stores.Comments = mem
	}

	secret := opts.AuthSecret
	if len(secret) == 0 {
		secret = []byte(DevAuthSecret)
		log.Warn("no auth secret configured; using development default")
	}

	return &Application{
		log:      log,
		Auth:     auth.New(stores.Users, secret, log, auth.WithTokenTTL(opts.TokenTTL)),
		Posts:    posts.New(stores.Posts, stores.Comments, opts.Blobs, log),
		Comments: comments.New(stores.Comments, log),
	}
}
