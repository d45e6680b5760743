// Package comments creates, lists and deletes comments on posts.
package comments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/inkwell-labs/blog-server/internal/app/domain/comment"
	"github.com/inkwell-labs/blog-server/internal/app/storage"
	apperrors "github.com/inkwell-labs/blog-server/internal/errors"
	"github.com/inkwell-labs/blog-server/pkg/logger"
)

// CreateInput carries the fields of a new comment. ParentCommentID is nil for
// top-level comments.
type CreateInput struct {
	Content         string
	Author          string
	ParentCommentID *string
}

// Service manages the comment lifecycle.
type Service struct {
	store storage.CommentStore
	log   *logger.Logger
}

// New constructs a comment service.
func New(store storage.CommentStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("comments")
	}
	return &Service{store: store, log: log}
}

// Create persists a comment against the given post id. The post id is taken
// verbatim and the parent reference is stored without an existence check.
func (s *Service) Create(ctx context.Context, postID string, in CreateInput) (comment.Comment, error) {
	if strings.TrimSpace(in.Content) == "" || strings.TrimSpace(in.Author) == "" {
		return comment.Comment{}, apperrors.Validation("content and author are required")
	}

	c := comment.Comment{
		Content:         in.Content,
		Author:          in.Author,
		PostID:          postID,
		ParentCommentID: in.ParentCommentID,
		Date:            time.Now().UTC(),
	}

	created, err := s.store.CreateComment(ctx, c)
	if err != nil {
		return comment.Comment{}, apperrors.Internal("create comment", err)
	}

	s.log.WithField("comment_id", created.ID).WithField("post_id", postID).Info("comment created")
	return created, nil
}

// ListByPost returns every comment on the given post, in insertion order.
func (s *Service) ListByPost(ctx context.Context, postID string) ([]comment.Comment, error) {
	result, err := s.store.ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, apperrors.Internal("list comments", err)
	}
	return result, nil
}

// Delete removes a comment by id, regardless of which post it belongs to.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteComment(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("comment not found")
		}
		return apperrors.Internal("delete comment", err)
	}
	s.log.WithField("comment_id", id).Info("comment deleted")
	return nil
}
