package handlers

import (
	"net/http"

	"inkwell/internal/db"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratings *services.RatingService
}

func NewRatingHandler() *RatingHandler {
	return &RatingHandler{ratings: services.NewRatingService(db.DB)}
}

// Rate casts, flips, or retracts a vote for the acting identity and returns
// the fresh rating sum. Works for anonymous visitors too: the ledger is
// keyed by client address, not user id.
func (h *RatingHandler) Rate(c *gin.Context) {
	postID := utils.StringToUint(c.PostForm("post_id"))
	if postID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Invalid post id"})
		return
	}
	var post models.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Post not found"})
		return
	}

	value := utils.StringToInt(c.PostForm("value"))
	if value != 1 && value != -1 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Vote value must be 1 or -1"})
		return
	}

	userID, addr := services.ResolveIdentity(c)
	status, sum, err := h.ratings.CastVote(post.ID, addr, userID, value)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Could not record the vote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"rating_sum": sum,
	})
}
