package http

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/linwei/smartliving/internal/domain/feedback"
	"github.com/linwei/smartliving/internal/domain/forum"
	"github.com/linwei/smartliving/internal/domain/uploads"
	apperrors "github.com/linwei/smartliving/pkg/errors"
)

const maxUploadMemory = 8 << 20

// CommunityHandler serves the forum, feedback and image uploads.
type CommunityHandler struct {
	forumSvc    forum.Service
	feedbackSvc feedback.Service
	uploadsSvc  uploads.Service
	logger      *slog.Logger
}

// NewCommunityHandler constructs the handler.
func NewCommunityHandler(forumSvc forum.Service, feedbackSvc feedback.Service, uploadsSvc uploads.Service, logger *slog.Logger) *CommunityHandler {
	return &CommunityHandler{
		forumSvc:    forumSvc,
		feedbackSvc: feedbackSvc,
		uploadsSvc:  uploadsSvc,
		logger:      logger.With("component", "http.community"),
	}
}

// Posts lists forum posts, optionally filtered by category.
func (h *CommunityHandler) Posts(c *gin.Context) {
	rows, err := h.forumSvc.Posts(c.Request.Context(), c.Query("category"))
	if err != nil {
		abortWithError(c, storageHTTPError(err, "forum_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": rows})
}

// CreatePost publishes a new forum post.
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "login required", nil))
		return
	}
	var req forum.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	post, err := h.forumSvc.CreatePost(c.Request.Context(), claims.UserID, req)
	if err != nil {
		abortWithError(c, storageHTTPError(err, "forum_failed"))
		return
	}
	c.JSON(http.StatusCreated, post)
}

// ToggleLike flips the caller's like on a post.
func (h *CommunityHandler) ToggleLike(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "login required", nil))
		return
	}
	liked, err := h.forumSvc.ToggleLike(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		abortWithError(c, storageHTTPError(err, "forum_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// Comments lists the comments under a post.
func (h *CommunityHandler) Comments(c *gin.Context) {
	rows, err := h.forumSvc.Comments(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, storageHTTPError(err, "forum_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": rows})
}

// AddComment replies to a post.
func (h *CommunityHandler) AddComment(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "login required", nil))
		return
	}
	var req forum.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	comment, err := h.forumSvc.AddComment(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		abortWithError(c, storageHTTPError(err, "forum_failed"))
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// SearchPosts ranks posts by similarity to the query.
func (h *CommunityHandler) SearchPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	matches, err := h.forumSvc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		abortWithError(c, storageHTTPError(err, "forum_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": matches})
}

// SubmitFeedback accepts a feedback form submission. No login needed.
func (h *CommunityHandler) SubmitFeedback(c *gin.Context) {
	var req feedback.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	entry, err := h.feedbackSvc.Submit(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, storageHTTPError(err, "feedback_failed"))
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// RecentFeedback lists the latest feedback entries.
func (h *CommunityHandler) RecentFeedback(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	rows, err := h.feedbackSvc.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, storageHTTPError(err, "feedback_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": rows})
}

// UploadImage stores a multipart image and returns its public URL.
func (h *CommunityHandler) UploadImage(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "login required", nil))
		return
	}
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid multipart form", err))
		return
	}
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "image field missing", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read image", err))
		return
	}

	url, err := h.uploadsSvc.UploadImage(c.Request.Context(), claims.UserID, header.Header.Get("Content-Type"), data)
	if err != nil {
		status := http.StatusInternalServerError
		code := "upload_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "upload_disabled"):
			status = http.StatusServiceUnavailable
			code = "upload_disabled"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
