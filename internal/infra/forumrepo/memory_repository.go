package forumrepo

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/linwei/smartliving/internal/domain/forum"
)

type memoryPost struct {
	post      forum.Post
	embedding []float32
}

// MemoryRepository is an in-memory forum.Repository used for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	posts    map[string]memoryPost
	comments map[string][]forum.Comment
	likes    map[string]map[string]struct{}
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		posts:    make(map[string]memoryPost),
		comments: make(map[string][]forum.Comment),
		likes:    make(map[string]map[string]struct{}),
	}
}

func (r *MemoryRepository) InsertPost(_ context.Context, post forum.Post, embedding []float32) error {
	r.mu.Lock()
	r.posts[post.ID] = memoryPost{post: post, embedding: embedding}
	r.mu.Unlock()
	return nil
}

// counted returns the post with live like/comment counters applied.
func (r *MemoryRepository) counted(entry memoryPost) forum.Post {
	post := entry.post
	post.LikesCount = len(r.likes[post.ID])
	post.CommentsCount = len(r.comments[post.ID])
	return post
}

func (r *MemoryRepository) ListPosts(_ context.Context, category string, limit int) ([]forum.Post, error) {
	r.mu.RLock()
	var out []forum.Post
	for _, entry := range r.posts {
		if category != "" && entry.post.Category != category {
			continue
		}
		out = append(out, r.counted(entry))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) GetPost(_ context.Context, postID string) (forum.Post, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.posts[postID]
	if !ok {
		return forum.Post{}, false, nil
	}
	return r.counted(entry), true, nil
}

func (r *MemoryRepository) InsertComment(_ context.Context, comment forum.Comment) error {
	r.mu.Lock()
	r.comments[comment.PostID] = append(r.comments[comment.PostID], comment)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) ListComments(_ context.Context, postID string) ([]forum.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := r.comments[postID]
	out := make([]forum.Comment, len(rows))
	copy(out, rows)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) HasLike(_ context.Context, postID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.likes[postID][userID]
	return ok, nil
}

func (r *MemoryRepository) InsertLike(_ context.Context, postID, userID string) error {
	r.mu.Lock()
	if r.likes[postID] == nil {
		r.likes[postID] = make(map[string]struct{})
	}
	r.likes[postID][userID] = struct{}{}
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) DeleteLike(_ context.Context, postID, userID string) error {
	r.mu.Lock()
	delete(r.likes[postID], userID)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) NearestPosts(_ context.Context, embedding []float32, limit int) ([]forum.SearchMatch, error) {
	r.mu.RLock()
	var matches []forum.SearchMatch
	for _, entry := range r.posts {
		if len(entry.embedding) == 0 {
			continue
		}
		matches = append(matches, forum.SearchMatch{
			Post:     r.counted(entry),
			Distance: euclideanDistance(embedding, entry.embedding),
		})
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (r *MemoryRepository) KeywordPosts(_ context.Context, query string, limit int) ([]forum.Post, error) {
	needle := strings.ToLower(query)
	r.mu.RLock()
	var out []forum.Post
	for _, entry := range r.posts {
		haystack := strings.ToLower(entry.post.Title + "\n" + entry.post.Content)
		if strings.Contains(haystack, needle) {
			out = append(out, r.counted(entry))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func euclideanDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
