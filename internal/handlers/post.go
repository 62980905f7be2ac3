package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"inkwell/internal/db"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const postsPerPage = 10

type PostHandler struct {
	ratings  *services.RatingService
	comments *services.CommentService
}

func NewPostHandler() *PostHandler {
	return &PostHandler{
		ratings:  services.NewRatingService(db.DB),
		comments: services.NewCommentService(db.DB),
	}
}

// fillCommentCounts batch-fills comment counts for a page of posts
func fillCommentCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	db.DB.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
}

func pageParam(c *gin.Context) int {
	page := utils.StringToInt(c.Query("page"))
	if page < 1 {
		page = 1
	}
	return page
}

func (h *PostHandler) renderList(c *gin.Context, title string, query *gorm.DB) {
	page := pageParam(c)

	var posts []models.Post
	query.Preload("User").Preload("Category").Preload("Tags").
		Order("created_at DESC").
		Offset((page - 1) * postsPerPage).
		Limit(postsPerPage).
		Find(&posts)
	fillCommentCounts(posts)

	Render(c, http.StatusOK, "post/list.html", gin.H{
		"Title": title,
		"Posts": posts,
		"Page":  page,
	})
}

func (h *PostHandler) List(c *gin.Context) {
	h.renderList(c, "Home", db.DB.Model(&models.Post{}))
}

// ListByCategory lists the category's posts; when the category itself has
// none, falls back to posts from its direct child categories.
func (h *PostHandler) ListByCategory(c *gin.Context) {
	slug := c.Param("slug")

	var category models.Category
	if err := db.DB.Where("slug = ?", slug).First(&category).Error; err != nil {
		NotFound(c)
		return
	}

	var count int64
	db.DB.Model(&models.Post{}).Where("category_id = ?", category.ID).Count(&count)

	query := db.DB.Model(&models.Post{})
	if count > 0 {
		query = query.Where("category_id = ?", category.ID)
	} else {
		query = query.Where("category_id IN (?)",
			db.DB.Model(&models.Category{}).Select("id").Where("parent_id = ?", category.ID))
	}

	h.renderList(c, "Posts in category: "+category.Title, query)
}

func (h *PostHandler) ListByTag(c *gin.Context) {
	slug := c.Param("slug")

	var tag models.Tag
	if err := db.DB.Where("slug = ?", slug).First(&tag).Error; err != nil {
		NotFound(c)
		return
	}

	query := db.DB.Model(&models.Post{}).
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Where("post_tags.tag_id = ?", tag.ID)
	h.renderList(c, "Posts tagged: "+tag.Name, query)
}

func (h *PostHandler) Detail(c *gin.Context) {
	slug := c.Param("slug")

	var post models.Post
	if err := db.DB.Preload("User").Preload("User.Profile").
		Preload("Category").Preload("Tags").
		Where("slug = ?", slug).First(&post).Error; err != nil {
		NotFound(c)
		return
	}

	cacheKey := fmt.Sprintf("post:detail:%s", slug)
	var body interface{}
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		body = cached
	} else {
		body = utils.RenderMarkdown(post.Content)
		utils.GetCache().Set(cacheKey, body, 5*time.Minute)
	}

	thread, err := h.comments.Thread(post.ID)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to load comments")
		return
	}
	sum, err := h.ratings.SumRating(post.ID)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to load rating")
		return
	}

	Render(c, http.StatusOK, "post/detail.html", gin.H{
		"Title":     post.Title,
		"Post":      post,
		"Body":      body,
		"Comments":  thread,
		"SumRating": sum,
	})
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "post/create.html", gin.H{"Title": "New post"})
}

func (h *PostHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	title := strings.TrimSpace(c.PostForm("title"))
	content := c.PostForm("content")
	if title == "" || content == "" {
		Render(c, http.StatusBadRequest, "post/create.html", gin.H{"Error": "Title and content are required"})
		return
	}

	post := models.Post{
		Title:   title,
		Slug:    uniquePostSlug(title),
		UserID:  user.ID,
		Content: content,
	}
	if categoryID := utils.StringToUint(c.PostForm("category_id")); categoryID > 0 {
		post.CategoryID = &categoryID
	}
	post.Tags = resolveTags(c.PostForm("tags"))

	if err := db.DB.Create(&post).Error; err != nil {
		Render(c, http.StatusBadRequest, "post/create.html", gin.H{"Error": "Could not save the post"})
		return
	}

	c.Redirect(http.StatusFound, post.AbsoluteURL())
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var post models.Post
	if err := db.DB.Preload("Tags").Where("slug = ?", c.Param("slug")).First(&post).Error; err != nil {
		NotFound(c)
		return
	}
	if post.UserID != user.ID {
		RenderError(c, http.StatusForbidden, "Only the author can edit this post")
		return
	}

	Render(c, http.StatusOK, "post/edit.html", gin.H{
		"Title": "Edit: " + post.Title,
		"Post":  post,
	})
}

// Update is author-only; everyone else gets a 403 before any write.
func (h *PostHandler) Update(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var post models.Post
	if err := db.DB.Where("slug = ?", c.Param("slug")).First(&post).Error; err != nil {
		NotFound(c)
		return
	}
	if post.UserID != user.ID {
		RenderError(c, http.StatusForbidden, "Only the author can edit this post")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	content := c.PostForm("content")
	if title == "" || content == "" {
		Render(c, http.StatusBadRequest, "post/edit.html", gin.H{"Error": "Title and content are required", "Post": post})
		return
	}

	post.Title = title
	post.Content = content
	if categoryID := utils.StringToUint(c.PostForm("category_id")); categoryID > 0 {
		post.CategoryID = &categoryID
	}
	if err := db.DB.Save(&post).Error; err != nil {
		Render(c, http.StatusBadRequest, "post/edit.html", gin.H{"Error": "Could not save the post", "Post": post})
		return
	}
	if tags := c.PostForm("tags"); tags != "" {
		db.DB.Model(&post).Association("Tags").Replace(resolveTags(tags))
	}

	utils.GetCache().Delete(fmt.Sprintf("post:detail:%s", post.Slug))
	c.Redirect(http.StatusFound, post.AbsoluteURL())
}

// uniquePostSlug appends a numeric suffix when the title slug is taken.
func uniquePostSlug(title string) string {
	base := utils.Slugify(title)
	slug := base
	for i := 2; ; i++ {
		var count int64
		db.DB.Model(&models.Post{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// resolveTags maps a comma-separated tag list to Tag rows, creating
// missing ones.
func resolveTags(raw string) []models.Tag {
	var tags []models.Tag
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag := models.Tag{Name: name, Slug: utils.Slugify(name)}
		db.DB.Where(models.Tag{Slug: tag.Slug}).FirstOrCreate(&tag)
		tags = append(tags, tag)
	}
	return tags
}
