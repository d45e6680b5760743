package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/inkwell-labs/blog-server/internal/app/domain/comment"
	"github.com/inkwell-labs/blog-server/internal/app/domain/post"
	"github.com/inkwell-labs/blog-server/internal/app/domain/user"
	"github.com/inkwell-labs/blog-server/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local development.
// Records keep insertion order, which gives listings a deterministic sequence.
type Store struct {
	mu              sync.RWMutex
	nextID          int64
	users           map[string]user.User
	usersByUsername map[string]string
	usersByEmail    map[string]string
	posts           map[string]post.Post
	postOrder       []string
	comments        map[string]comment.Comment
	commentOrder    []string
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.PostStore = (*Store)(nil)
var _ storage.CommentStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:          1,
		users:           make(map[string]user.User),
		usersByUsername: make(map[string]string),
		usersByEmail:    make(map[string]string),
		posts:           make(map[string]post.Post),
		comments:        make(map[string]comment.Comment),
	}
}

func (s *Store) nextIDLocked() string {
	id := s.nextID
	s.nextID++
	return fmt.Sprintf("%d", id)
}

// UserStore implementation ----------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	usernameKey := strings.ToLower(u.Username)
	emailKey := strings.ToLower(u.Email)
	if _, exists := s.usersByUsername[usernameKey]; exists {
		return user.User{}, fmt.Errorf("username %s: %w", u.Username, storage.ErrDuplicate)
	}
	if _, exists := s.usersByEmail[emailKey]; exists {
		return user.User{}, fmt.Errorf("email %s: %w", u.Email, storage.ErrDuplicate)
	}

	if u.ID == "" {
		u.ID = s.nextIDLocked()
	} else if _, exists := s.users[u.ID]; exists {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrDuplicate)
	}

	s.users[u.ID] = u
	s.usersByUsername[usernameKey] = u.ID
	s.usersByEmail[emailKey] = u.ID
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByUsername[strings.ToLower(username)]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", username, storage.ErrNotFound)
	}
	return s.users[id], nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[strings.ToLower(email)]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
	}
	return s.users[id], nil
}

// PostStore implementation ----------------------------------------------------

func (s *Store) CreatePost(_ context.Context, p post.Post) (post.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = s.nextIDLocked()
	} else if _, exists := s.posts[p.ID]; exists {
		return post.Post{}, fmt.Errorf("post %s: %w", p.ID, storage.ErrDuplicate)
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}

	s.posts[p.ID] = clonePost(p)
	s.postOrder = append(s.postOrder, p.ID)
	return p, nil
}

func (s *Store) GetPost(_ context.Context, id string) (post.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return post.Post{}, fmt.Errorf("post %s: %w", id, storage.ErrNotFound)
	}
	return clonePost(p), nil
}

func (s *Store) ListPosts(_ context.Context, excludeAuthor string) ([]post.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]post.Post, 0, len(s.posts))
	for _, id := range s.postOrder {
		p, ok := s.posts[id]
		if !ok {
			continue
		}
		if excludeAuthor != "" && p.Author == excludeAuthor {
			continue
		}
		result = append(result, clonePost(p))
	}
	return result, nil
}

func (s *Store) ListPostsByAuthor(_ context.Context, author string) ([]post.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]post.Post, 0)
	for _, id := range s.postOrder {
		p, ok := s.posts[id]
		if !ok {
			continue
		}
		if p.Author == author {
			result = append(result, clonePost(p))
		}
	}
	return result, nil
}

func (s *Store) DeletePost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return fmt.Errorf("post %s: %w", id, storage.ErrNotFound)
	}
	delete(s.posts, id)
	return nil
}

// CommentStore implementation -------------------------------------------------

func (s *Store) CreateComment(_ context.Context, c comment.Comment) (comment.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = s.nextIDLocked()
	} else if _, exists := s.comments[c.ID]; exists {
		return comment.Comment{}, fmt.Errorf("comment %s: %w", c.ID, storage.ErrDuplicate)
	}
	if c.Date.IsZero() {
		c.Date = time.Now().UTC()
	}

	s.comments[c.ID] = cloneComment(c)
	s.commentOrder = append(s.commentOrder, c.ID)
	return c, nil
}

func (s *Store) ListCommentsByPost(_ context.Context, postID string) ([]comment.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]comment.Comment, 0)
	for _, id := range s.commentOrder {
		c, ok := s.comments[id]
		if !ok {
			continue
		}
		if c.PostID == postID {
			result = append(result, cloneComment(c))
		}
	}
	return result, nil
}

func (s *Store) DeleteComment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return fmt.Errorf("comment %s: %w", id, storage.ErrNotFound)
	}
	delete(s.comments, id)
	return nil
}

// Helpers --------------------------------------------------------------------

func clonePost(p post.Post) post.Post {
	if p.ImageURL != nil {
		url := *p.ImageURL
		p.ImageURL = &url
	}
	return p
}

func cloneComment(c comment.Comment) comment.Comment {
	if c.ParentCommentID != nil {
		parent := *c.ParentCommentID
		c.ParentCommentID = &parent
	}
	return c
}
