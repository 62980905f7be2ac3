package services

import (
	"net/http/httptest"
	"testing"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestClientAddress(t *testing.T) {
	t.Run("ForwardedHeaderFirstEntry", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/rating", nil)
		req.RemoteAddr = "127.0.0.1:54321"
		req.Header.Set("X-Forwarded-For", " 1.2.3.4 , 10.0.0.1, 172.16.0.1")
		assert.Equal(t, "1.2.3.4", ClientAddress(req))
	})

	t.Run("FallsBackToPeerAddress", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/rating", nil)
		req.RemoteAddr = "192.168.1.7:54321"
		assert.Equal(t, "192.168.1.7", ClientAddress(req))
	})

	t.Run("EmptyHeaderFallsBack", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/rating", nil)
		req.RemoteAddr = "192.168.1.7:54321"
		req.Header.Set("X-Forwarded-For", "")
		assert.Equal(t, "192.168.1.7", ClientAddress(req))
	})
}

func TestResolveIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Anonymous", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("POST", "/rating", nil)
		c.Request.RemoteAddr = "10.1.1.1:1000"

		userID, addr := ResolveIdentity(c)
		assert.Nil(t, userID)
		assert.Equal(t, "10.1.1.1", addr)
	})

	t.Run("Authenticated", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("POST", "/rating", nil)
		c.Request.RemoteAddr = "10.1.1.1:1000"
		user := &models.User{ID: 42}
		c.Set(middleware.CheckUserKey, user)

		userID, addr := ResolveIdentity(c)
		if assert.NotNil(t, userID) {
			assert.Equal(t, uint(42), *userID)
		}
		assert.Equal(t, "10.1.1.1", addr)
	})
}
