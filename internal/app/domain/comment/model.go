package comment

import "time"

// Comment belongs to a post and may reply to another comment. A nil
// ParentCommentID marks a top-level comment and serializes as null; the
// reference is advisory and never validated against existing comments.
type Comment struct {
	ID              string    `json:"id"`
	Content         string    `json:"content"`
	Author          string    `json:"author"`
	PostID          string    `json:"postId"`
	ParentCommentID *string   `json:"parentCommentId"`
	Date            time.Time `json:"date"`
}
