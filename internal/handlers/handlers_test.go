package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"inkwell/internal/db"
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestRouter wires the JSON endpoints against an in-memory database.
// The returned setUser swaps the acting user for subsequent requests.
func setupTestRouter(t *testing.T) (*gin.Engine, func(u *models.User)) {
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	db.DB = conn

	var currentUser *models.User
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if currentUser != nil {
			c.Set(middleware.CheckUserKey, currentUser)
		}
		c.Next()
	})

	r.POST("/rating", NewRatingHandler().Rate)
	r.POST("/post/:slug/comments", NewCommentHandler().Create)

	return r, func(u *models.User) { currentUser = u }
}

func seedUser(t *testing.T, username string) *models.User {
	user := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	profile := models.Profile{UserID: user.ID, Slug: username, Avatar: "/static/images/avatars/default.jpg"}
	if err := db.DB.Create(&profile).Error; err != nil {
		t.Fatalf("Failed to create profile: %v", err)
	}
	user.Profile = profile
	return &user
}

func seedPost(t *testing.T, author *models.User, slug string) *models.Post {
	post := models.Post{Title: slug, Slug: slug, UserID: author.ID, Content: "body"}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	return &post
}

func postForm(r *gin.Engine, path string, form url.Values, ajax bool, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if ajax {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	if addr != "" {
		req.RemoteAddr = addr
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateEndpoint(t *testing.T) {
	r, _ := setupTestRouter(t)
	author := seedUser(t, "author")
	post := seedPost(t, author, "p1")

	t.Run("RejectsUnknownPost", func(t *testing.T) {
		w := postForm(r, "/rating", url.Values{"post_id": {"999"}, "value": {"1"}}, false, "1.2.3.4:100")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp["status"])
	})

	t.Run("RejectsOutOfDomainValue", func(t *testing.T) {
		w := postForm(r, "/rating", url.Values{"post_id": {"1"}, "value": {"7"}}, false, "1.2.3.4:100")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("AnonymousToggle", func(t *testing.T) {
		form := url.Values{"post_id": {"1"}, "value": {"1"}}

		w := postForm(r, "/rating", form, false, "1.2.3.4:100")
		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Status    string `json:"status"`
			RatingSum int    `json:"rating_sum"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "created", resp.Status)
		assert.Equal(t, 1, resp.RatingSum)

		// Same vote again from the same address retracts it
		w = postForm(r, "/rating", form, false, "1.2.3.4:100")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "deleted", resp.Status)
		assert.Equal(t, 0, resp.RatingSum)
	})

	t.Run("ForwardedAddressIsTheLedgerKey", func(t *testing.T) {
		form := url.Values{"post_id": {"1"}, "value": {"-1"}}
		req := httptest.NewRequest("POST", "/rating", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Forwarded-For", "8.8.8.8, 10.0.0.1")
		req.RemoteAddr = "127.0.0.1:9000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var rating models.Rating
		err := db.DB.Where("post_id = ? AND ip_address = ?", post.ID, "8.8.8.8").First(&rating).Error
		assert.NoError(t, err)
		assert.Equal(t, -1, rating.Value)
	})
}

func TestCommentEndpoint(t *testing.T) {
	r, setUser := setupTestRouter(t)
	author := seedUser(t, "author")
	seedPost(t, author, "p1")

	t.Run("UnauthenticatedAjaxGetsJSONError", func(t *testing.T) {
		w := postForm(r, "/post/p1/comments", url.Values{"content": {"hi"}}, true, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp["status"])
		assert.NotEmpty(t, resp["error"])

		// Nothing was persisted
		var count int64
		db.DB.Model(&models.Comment{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("UnauthenticatedBrowserGetsClientError", func(t *testing.T) {
		// No redirect on the browser path either: the rejection is a 400
		// carrying a message, same shape as the AJAX one
		w := postForm(r, "/post/p1/comments", url.Values{"content": {"hi"}}, false, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Header().Get("Location"))

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp["status"])
		assert.NotEmpty(t, resp["error"])

		var count int64
		db.DB.Model(&models.Comment{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("AuthenticatedAjaxGetsRecord", func(t *testing.T) {
		setUser(author)
		defer setUser(nil)

		w := postForm(r, "/post/p1/comments", url.Values{"content": {"nice post"}}, true, "")
		assert.Equal(t, http.StatusOK, w.Code)

		var record struct {
			ID          uint   `json:"id"`
			IsChild     bool   `json:"is_child"`
			Author      string `json:"author"`
			ParentID    *uint  `json:"parent_id"`
			TimeCreate  string `json:"time_create"`
			Avatar      string `json:"avatar"`
			Content     string `json:"content"`
			AbsoluteURL string `json:"get_absolute_url"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
		assert.NotZero(t, record.ID)
		assert.False(t, record.IsChild)
		assert.Nil(t, record.ParentID)
		assert.Equal(t, "author", record.Author)
		assert.Equal(t, "nice post", record.Content)
		assert.Equal(t, "/u/author", record.AbsoluteURL)
		assert.Equal(t, "/static/images/avatars/default.jpg", record.Avatar)

		// A reply to it is flagged as a child node
		form := url.Values{"content": {"agreed"}, "parent": {"1"}}
		w = postForm(r, "/post/p1/comments", form, true, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
		assert.True(t, record.IsChild)
		if assert.NotNil(t, record.ParentID) {
			assert.Equal(t, uint(1), *record.ParentID)
		}
	})

	t.Run("CrossPostParentRejected", func(t *testing.T) {
		setUser(author)
		defer setUser(nil)
		seedPost(t, author, "p2")

		form := url.Values{"content": {"stray"}, "parent": {"1"}}
		w := postForm(r, "/post/p2/comments", form, true, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("EmptyContentRejected", func(t *testing.T) {
		setUser(author)
		defer setUser(nil)

		w := postForm(r, "/post/p1/comments", url.Values{"content": {"   "}}, true, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
