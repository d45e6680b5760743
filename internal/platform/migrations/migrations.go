// Package migrations applies the embedded database schema at startup. Each
// statement is idempotent so repeated application is safe.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS blog_users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		CONSTRAINT blog_users_username_key UNIQUE (username),
		CONSTRAINT blog_users_email_key UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS blog_posts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		author TEXT NOT NULL,
		image_url TEXT,
		date TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS blog_comments (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		author TEXT NOT NULL,
		post_id TEXT NOT NULL,
		parent_comment_id TEXT,
		date TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS blog_posts_author_idx ON blog_posts (author)`,
	`CREATE INDEX IF NOT EXISTS blog_comments_post_idx ON blog_comments (post_id)`,
}

// Apply executes every schema statement in order.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i, err)
		}
	}
	return nil
}
