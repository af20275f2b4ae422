package forum

import "time"

// Post categories mirror the community tabs.
const (
	CategoryOutfit = "outfit"
	CategoryPlant  = "plant"
)

// Post is one community post with denormalized counters.
type Post struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	AuthorName    string    `json:"authorName,omitempty"`
	Category      string    `json:"category"`
	Title         string    `json:"title"`
	Content       string    `json:"content,omitempty"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	Temperature   *float64  `json:"temperature,omitempty"`
	Humidity      *float64  `json:"humidity,omitempty"`
	LikesCount    int       `json:"likesCount"`
	CommentsCount int       `json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Comment is one reply under a post.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	UserID     string    `json:"userId"`
	AuthorName string    `json:"authorName,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SearchMatch is a post ranked by embedding distance; lower is closer.
type SearchMatch struct {
	Post     Post    `json:"post"`
	Distance float64 `json:"distance"`
}

// CreatePostRequest publishes a new post, optionally stamped with the
// environment readings at posting time.
type CreatePostRequest struct {
	Category    string   `json:"category" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Content     string   `json:"content"`
	ImageURL    string   `json:"imageUrl"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

// CommentRequest adds a comment to a post.
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}
