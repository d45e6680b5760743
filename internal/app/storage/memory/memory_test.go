package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/inkwell-labs/blog-server/internal/app/domain/comment"
	"github.com/inkwell-labs/blog-server/internal/app/domain/post"
	"github.com/inkwell-labs/blog-server/internal/app/domain/user"
	"github.com/inkwell-labs/blog-server/internal/app/storage"
)

func TestUserUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, user.User{Username: "alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	_, err := s.CreateUser(ctx, user.User{Username: "alice", Email: "other@example.com"})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected duplicate username error, got %v", err)
	}

	_, err = s.CreateUser(ctx, user.User{Username: "bob", Email: "alice@example.com"})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected duplicate email error, got %v", err)
	}

	if _, err := s.GetUserByUsername(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostListingKeepsInsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		author := "alice"
		if title == "second" {
			author = "bob"
		}
		if _, err := s.CreatePost(ctx, post.Post{Title: title, Content: "c", Author: author}); err != nil {
			t.Fatalf("create post: %v", err)
		}
	}

	all, err := s.ListPosts(ctx, "")
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(all) != 3 || all[0].Title != "first" || all[2].Title != "third" {
		t.Fatalf("unexpected order: %+v", all)
	}

	filtered, err := s.ListPosts(ctx, "alice")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Author != "bob" {
		t.Fatalf("excludeAuthor filter broken: %+v", filtered)
	}

	byAuthor, err := s.ListPostsByAuthor(ctx, "alice")
	if err != nil {
		t.Fatalf("list by author: %v", err)
	}
	if len(byAuthor) != 2 {
		t.Fatalf("expected 2 posts by alice, got %d", len(byAuthor))
	}
}

func TestDeletePostLeavesComments(t *testing.T) {
	s := New()
	ctx := context.Background()

	p, err := s.CreatePost(ctx, post.Post{Title: "t", Content: "c", Author: "a"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if _, err := s.CreateComment(ctx, comment.Comment{PostID: p.ID, Content: "hi", Author: "b"}); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	if err := s.DeletePost(ctx, p.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if err := s.DeletePost(ctx, p.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}

	orphans, err := s.ListCommentsByPost(ctx, p.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(orphans) != 1 {
		t.Fatalf("expected orphaned comment to survive, got %d", len(orphans))
	}
}

func TestCommentThreading(t *testing.T) {
	s := New()
	ctx := context.Background()

	top, err := s.CreateComment(ctx, comment.Comment{PostID: "p1", Content: "top", Author: "a"})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if top.ParentCommentID != nil {
		t.Fatalf("expected top-level comment to have nil parent")
	}

	// The parent reference is stored verbatim, even when it points nowhere.
	ghost := "no-such-comment"
	reply, err := s.CreateComment(ctx, comment.Comment{PostID: "p1", Content: "re", Author: "b", ParentCommentID: &ghost})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}
	if reply.ParentCommentID == nil || *reply.ParentCommentID != ghost {
		t.Fatalf("parent reference not preserved: %+v", reply)
	}

	list, err := s.ListCommentsByPost(ctx, "p1")
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(list) != 2 || list[0].Content != "top" {
		t.Fatalf("unexpected comment listing: %+v", list)
	}
}
