package storage

import (
	"context"
	"errors"

	"github.com/inkwell-labs/blog-server/internal/app/domain/comment"
	"github.com/inkwell-labs/blog-server/internal/app/domain/post"
	"github.com/inkwell-labs/blog-server/internal/app/domain/user"
)

// ErrNotFound is returned by lookups and deletes that match no record.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// UserStore persists user records. Username and email are unique; CreateUser
// returns ErrDuplicate when either is already taken.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
}

// PostStore persists post records.
type PostStore interface {
	CreatePost(ctx context.Context, p post.Post) (post.Post, error)
	GetPost(ctx context.Context, id string) (post.Post, error)

	// ListPosts returns every post, skipping those whose author equals
	// excludeAuthor when it is non-empty.
	ListPosts(ctx context.Context, excludeAuthor string) ([]post.Post, error)
	ListPostsByAuthor(ctx context.Context, author string) ([]post.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// CommentStore persists comment records. Deleting a post never touches its
// comments; orphaned comments stay queryable by post id.
type CommentStore interface {
	CreateComment(ctx context.Context, c comment.Comment) (comment.Comment, error)
	ListCommentsByPost(ctx context.Context, postID string) ([]comment.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}
