package handlers

import (
	"net/http"

	"inkwell/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user, exists := c.Get(middleware.CheckUserKey); exists {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the shared error page
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// isAjax reports whether the client asked for a machine-readable response.
func isAjax(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}

// clientError answers a caller-contract violation: JSON for AJAX clients,
// the error page otherwise.
func clientError(c *gin.Context, message string) {
	if isAjax(c) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": message})
		return
	}
	RenderError(c, http.StatusBadRequest, message)
}

// NotFound handles unmatched routes
func NotFound(c *gin.Context) {
	RenderError(c, http.StatusNotFound, "Page not found or moved")
}

// ServerError is wired into gin's recovery middleware
func ServerError(c *gin.Context, _ interface{}) {
	RenderError(c, http.StatusInternalServerError, "Internal error, please return to the home page")
}
