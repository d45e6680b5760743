package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/inkwell-labs/blog-server/internal/app/domain/comment"
	"github.com/inkwell-labs/blog-server/internal/app/domain/post"
	"github.com/inkwell-labs/blog-server/internal/app/domain/user"
	"github.com/inkwell-labs/blog-server/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL. Uniqueness of
// usernames and emails is enforced by the schema's unique constraints; the
// application-level checks are only a fast path.
type Store struct {
	db *sql.DB
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.PostStore = (*Store)(nil)
var _ storage.CommentStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const uniqueViolation = "23505"

func mapInsertErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", pqErr.Constraint, storage.ErrDuplicate)
	}
	return err
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blog_users (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
	`, u.ID, u.Username, u.Email, u.PasswordHash)
	if err != nil {
		return user.User{}, mapInsertErr(err)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return s.getUser(ctx, `SELECT id, username, email, password_hash FROM blog_users WHERE username = $1`, username)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return s.getUser(ctx, `SELECT id, username, email, password_hash FROM blog_users WHERE email = $1`, email)
}

func (s *Store) getUser(ctx context.Context, query, arg string) (user.User, error) {
	var u user.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, fmt.Errorf("user %s: %w", arg, storage.ErrNotFound)
	}
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

// --- PostStore --------------------------------------------------------------

func (s *Store) CreatePost(ctx context.Context, p post.Post) (post.Post, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blog_posts (id, title, content, author, image_url, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.Title, p.Content, p.Author, p.ImageURL, p.Date)
	if err != nil {
		return post.Post{}, mapInsertErr(err)
	}
	return p, nil
}

func (s *Store) GetPost(ctx context.Context, id string) (post.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, author, image_url, date
		FROM blog_posts
		WHERE id = $1
	`, id)

	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return post.Post{}, fmt.Errorf("post %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return post.Post{}, err
	}
	return p, nil
}

func (s *Store) ListPosts(ctx context.Context, excludeAuthor string) ([]post.Post, error) {
	return s.listPosts(ctx, `
		SELECT id, title, content, author, image_url, date
		FROM blog_posts
		WHERE $1 = '' OR author <> $1
		ORDER BY date, id
	`, excludeAuthor)
}

func (s *Store) ListPostsByAuthor(ctx context.Context, author string) ([]post.Post, error) {
	return s.listPosts(ctx, `
		SELECT id, title, content, author, image_url, date
		FROM blog_posts
		WHERE author = $1
		ORDER BY date, id
	`, author)
}

func (s *Store) listPosts(ctx context.Context, query, arg string) ([]post.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]post.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("post %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (post.Post, error) {
	var (
		p        post.Post
		imageURL sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Author, &imageURL, &p.Date); err != nil {
		return post.Post{}, err
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	return p, nil
}

// --- CommentStore -----------------------------------------------------------

func (s *Store) CreateComment(ctx context.Context, c comment.Comment) (comment.Comment, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Date.IsZero() {
		c.Date = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blog_comments (id, content, author, post_id, parent_comment_id, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.Content, c.Author, c.PostID, c.ParentCommentID, c.Date)
	if err != nil {
		return comment.Comment{}, mapInsertErr(err)
	}
	return c, nil
}

func (s *Store) ListCommentsByPost(ctx context.Context, postID string) ([]comment.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, author, post_id, parent_comment_id, date
		FROM blog_comments
		WHERE post_id = $1
		ORDER BY date, id
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]comment.Comment, 0)
	for rows.Next() {
		var (
			c      comment.Comment
			parent sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Content, &c.Author, &c.PostID, &parent, &c.Date); err != nil {
			return nil, err
		}
		if parent.Valid {
			c.ParentCommentID = &parent.String
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM blog_comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("comment %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
