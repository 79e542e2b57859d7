package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/devconnect/internal/api/handlers"
	"github.com/yoockh/devconnect/internal/api/middleware"
)

type Deps struct {
	Profile *handlers.ProfileHandler
	User    *handlers.UserHandler
	WS      *handlers.WSHandler
	Tokens  middleware.TokenParser
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authed := middleware.JWTAuth(d.Tokens)
	api := r.Group("/api")

	users := api.Group("/users")
	users.POST("/register", d.User.Register)
	users.POST("/login", d.User.Login)
	users.GET("/current", authed, d.User.Current)
	users.POST("/avatar", authed, d.User.UploadAvatar)

	profile := api.Group("/profile")
	profile.GET("/test", d.Profile.Test)
	profile.GET("/all", d.Profile.All)
	profile.GET("/handle/:handle", d.Profile.ByHandle)
	profile.GET("/user/:user_id", d.Profile.ByUserID)

	own := profile.Group("")
	own.Use(authed)
	own.GET("", d.Profile.Me)
	own.POST("", d.Profile.Upsert)
	own.DELETE("", d.Profile.DeleteAccount)
	own.POST("/experience", d.Profile.AddExperience)
	own.DELETE("/experience/:exp_id", d.Profile.DeleteExperience)
	own.POST("/education", d.Profile.AddEducation)
	own.DELETE("/education/:edu_id", d.Profile.DeleteEducation)

	admin := api.Group("/admin")
	admin.Use(authed, middleware.RequireAdmin())
	admin.DELETE("/users/:user_id", d.Profile.AdminDeleteAccount)

	if d.WS != nil {
		r.GET("/ws/profile/user/:user_id", d.WS.ProfileFeed)
	}
}
