package post

import (
	"time"

	"github.com/inkwell-labs/blog-server/internal/app/domain/comment"
)

// Post is a published blog entry. ImageURL is nil when the post carries no
// attachment, which keeps the field absent on the wire.
type Post struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Author   string    `json:"author"`
	ImageURL *string   `json:"imageUrl,omitempty"`
	Date     time.Time `json:"date"`
}

// Details is a post merged with its comments, as returned by the details
// endpoint.
type Details struct {
	Post
	Comments []comment.Comment `json:"comments"`
}
