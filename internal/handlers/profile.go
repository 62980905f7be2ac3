package handlers

import (
	"net/http"
	"strings"
	"time"

	"inkwell/internal/db"
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

func (h *ProfileHandler) Detail(c *gin.Context) {
	var profile models.Profile
	if err := db.DB.Where("slug = ?", c.Param("slug")).First(&profile).Error; err != nil {
		NotFound(c)
		return
	}
	var user models.User
	if err := db.DB.First(&user, profile.UserID).Error; err != nil {
		NotFound(c)
		return
	}

	var posts []models.Post
	db.DB.Where("user_id = ?", user.ID).Order("created_at DESC").Limit(20).Find(&posts)

	Render(c, http.StatusOK, "profile/detail.html", gin.H{
		"Title":   "Profile: " + user.Username,
		"Profile": profile,
		"User":    user,
		"Posts":   posts,
	})
}

func (h *ProfileHandler) ShowEdit(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	Render(c, http.StatusOK, "profile/edit.html", gin.H{
		"Title":   "Edit profile: " + user.Username,
		"Profile": user.Profile,
	})
}

// Update writes the account fields and the profile fields in one
// transaction; a failure in either rolls back both.
func (h *ProfileHandler) Update(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	bio := c.PostForm("bio")
	avatar := c.PostForm("avatar")
	birthRaw := c.PostForm("birth_date")

	if username == "" || !strings.Contains(email, "@") {
		Render(c, http.StatusBadRequest, "profile/edit.html", gin.H{
			"Error":   "Username and a valid email are required",
			"Profile": user.Profile,
		})
		return
	}

	var birthDate *time.Time
	if birthRaw != "" {
		parsed, err := time.Parse("2006-01-02", birthRaw)
		if err != nil {
			Render(c, http.StatusBadRequest, "profile/edit.html", gin.H{
				"Error":   "Birth date must be YYYY-MM-DD",
				"Profile": user.Profile,
			})
			return
		}
		birthDate = &parsed
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Updates(map[string]interface{}{"username": username, "email": email}).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{"bio": bio, "birth_date": birthDate}
		if avatar != "" {
			updates["avatar"] = avatar
		}
		return tx.Model(&models.Profile{}).Where("user_id = ?", user.ID).Updates(updates).Error
	})
	if err != nil {
		Render(c, http.StatusBadRequest, "profile/edit.html", gin.H{
			"Error":   "Username or email already taken",
			"Profile": user.Profile,
		})
		return
	}

	c.Redirect(http.StatusFound, user.Profile.AbsoluteURL())
}
