package handlers

import (
	"errors"
	"net/http"
	"strings"

	"inkwell/internal/db"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{comments: services.NewCommentService(db.DB)}
}

// Create adds a comment to a post, optionally as a reply. AJAX clients get
// the new comment back as JSON; browsers are redirected to the post page.
// A missing identity is a client error on both paths — a 400 with an error
// payload, never a login redirect.
func (h *CommentHandler) Create(c *gin.Context) {
	v, exists := c.Get(middleware.CheckUserKey)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "You must be logged in to comment"})
		return
	}
	user := v.(*models.User)

	var post models.Post
	if err := db.DB.Where("slug = ?", c.Param("slug")).First(&post).Error; err != nil {
		clientError(c, "Post not found")
		return
	}

	content := strings.TrimSpace(c.PostForm("content"))
	if content == "" {
		clientError(c, "Comment content is required")
		return
	}

	var parentID *uint
	if raw := c.PostForm("parent"); raw != "" {
		id := utils.StringToUint(raw)
		if id == 0 {
			clientError(c, "Invalid parent comment")
			return
		}
		parentID = &id
	}

	record, err := h.comments.Create(post.ID, user.ID, parentID, content)
	if err != nil {
		if errors.Is(err, services.ErrParentNotFound) {
			clientError(c, "Parent comment not found on this post")
			return
		}
		clientError(c, "Could not save the comment")
		return
	}

	if isAjax(c) {
		c.JSON(http.StatusOK, record)
		return
	}
	c.Redirect(http.StatusFound, post.AbsoluteURL())
}
