// Package posts creates, lists and deletes blog posts.
package posts

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/inkwell-labs/blog-server/internal/app/blob"
	"github.com/inkwell-labs/blog-server/internal/app/domain/post"
	"github.com/inkwell-labs/blog-server/internal/app/storage"
	apperrors "github.com/inkwell-labs/blog-server/internal/errors"
	"github.com/inkwell-labs/blog-server/pkg/logger"
)

// Upload is an optional image payload accompanying a post.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// CreateInput carries the fields of a new post. Image may be nil.
type CreateInput struct {
	Title   string
	Content string
	Author  string
	Image   *Upload
}

// Service manages the post lifecycle.
type Service struct {
	posts    storage.PostStore
	comments storage.CommentStore
	blobs    blob.Store
	log      *logger.Logger
}

// New constructs a post service. blobs may be nil when uploads are disabled.
func New(posts storage.PostStore, comments storage.CommentStore, blobs blob.Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("posts")
	}
	return &Service{posts: posts, comments: comments, blobs: blobs, log: log}
}

// Create validates the input, persists any attached image first, and stores
// the post with the current time.
func (s *Service) Create(ctx context.Context, in CreateInput) (post.Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" || strings.TrimSpace(in.Author) == "" {
		return post.Post{}, apperrors.Validation("title, content and author are required")
	}

	p := post.Post{
		Title:   in.Title,
		Content: in.Content,
		Author:  in.Author,
		Date:    time.Now().UTC(),
	}

	if in.Image != nil {
		if s.blobs == nil {
			return post.Post{}, apperrors.Internal("uploads not configured", nil)
		}
		url, err := s.blobs.Save(ctx, in.Image.Filename, in.Image.Reader)
		if err != nil {
			return post.Post{}, apperrors.Internal("save image", err)
		}
		p.ImageURL = &url
	}

	created, err := s.posts.CreatePost(ctx, p)
	if err != nil {
		return post.Post{}, apperrors.Internal("create post", err)
	}

	s.log.WithField("post_id", created.ID).WithField("author", created.Author).Info("post created")
	return created, nil
}

// List returns all posts, skipping those by excludeAuthor when non-empty.
func (s *Service) List(ctx context.Context, excludeAuthor string) ([]post.Post, error) {
	result, err := s.posts.ListPosts(ctx, excludeAuthor)
	if err != nil {
		return nil, apperrors.Internal("list posts", err)
	}
	return result, nil
}

// ListByAuthor returns all posts whose author matches username.
func (s *Service) ListByAuthor(ctx context.Context, username string) ([]post.Post, error) {
	result, err := s.posts.ListPostsByAuthor(ctx, username)
	if err != nil {
		return nil, apperrors.Internal("list posts by author", err)
	}
	return result, nil
}

// Delete removes a post by id. Its comments are left in place.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.posts.DeletePost(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("post not found")
		}
		return apperrors.Internal("delete post", err)
	}
	s.log.WithField("post_id", id).Info("post deleted")
	return nil
}

// Details returns the post merged with every comment that references it.
func (s *Service) Details(ctx context.Context, id string) (post.Details, error) {
	p, err := s.posts.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return post.Details{}, apperrors.NotFound("post not found")
		}
		return post.Details{}, apperrors.Internal("get post", err)
	}

	comments, err := s.comments.ListCommentsByPost(ctx, id)
	if err != nil {
		return post.Details{}, apperrors.Internal("list comments", err)
	}

	return post.Details{Post: p, Comments: comments}, nil
}
