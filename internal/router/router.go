package router

import (
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler()
	commentHandler := handlers.NewCommentHandler()
	ratingHandler := handlers.NewRatingHandler()
	profileHandler := handlers.NewProfileHandler()

	// Public routes
	r.GET("/", postHandler.List)
	r.GET("/post/:slug", postHandler.Detail)
	r.GET("/category/:slug", postHandler.ListByCategory)
	r.GET("/tag/:slug", postHandler.ListByTag)
	r.GET("/u/:slug", profileHandler.Detail)

	r.GET("/signup", authHandler.ShowRegister)
	r.POST("/signup", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// Votes accept anonymous identities, and unauthenticated comment
	// attempts must get a JSON error rather than a login redirect, so
	// both stay outside the AuthRequired group.
	r.POST("/rating", ratingHandler.Rate)
	r.POST("/post/:slug/comments", commentHandler.Create)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/submit", postHandler.ShowCreate)
		authorized.POST("/submit", postHandler.Create)
		authorized.GET("/post/:slug/edit", postHandler.ShowEdit)
		authorized.POST("/post/:slug/edit", postHandler.Update)

		authorized.GET("/settings/profile", profileHandler.ShowEdit)
		authorized.POST("/settings/profile", profileHandler.Update)
	}

	r.NoRoute(handlers.NotFound)
}
