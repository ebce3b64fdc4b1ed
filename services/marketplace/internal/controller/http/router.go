package http

import (
	"estate-market/pkg/guard"
	"estate-market/pkg/middleware"
	"estate-market/pkg/models"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth        *AuthHandler
	Posters     *PosterHandler
	Categories  *CategoryHandler
	Consultants *ConsultantHandler
	Favorites   *FavoriteHandler
	Chats       *ChatHandler
	Dashboard   *DashboardHandler
}

// RegisterRoutes mounts the marketplace API under /api/v1. limiter may be nil.
func RegisterRoutes(r *gin.Engine, g *guard.Guard, h Handlers, limiter gin.HandlerFunc) {
	api := r.Group("/api/v1")
	api.Use(middleware.OptionalIdentity(g))
	if limiter != nil {
		api.Use(limiter)
	}

	authenticated := middleware.RequireRoles(g)
	admin := middleware.RequireRoles(g, models.AdminRoles...)
	superAdmin := middleware.RequireRoles(g, models.RoleSuperAdmin)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", authenticated, h.Auth.Me)
	}

	users := api.Group("/users")
	{
		users.GET("", admin, h.Auth.ListUsers)
		users.PUT("/:id/role", superAdmin, h.Auth.ChangeRole)
		users.DELETE("/:id", superAdmin, h.Auth.DeleteUser)
	}

	posters := api.Group("/posters")
	{
		posters.GET("", h.Posters.ListPosters)
		posters.GET("/mine", authenticated, h.Posters.MyPosters)
		posters.GET("/:id", h.Posters.GetPoster)
		posters.POST("", authenticated, h.Posters.CreatePoster)
		posters.PUT("/:id", authenticated, h.Posters.UpdatePoster)
		posters.PUT("/:id/status", admin, h.Posters.SetPosterStatus)
		posters.DELETE("/:id", authenticated, h.Posters.DeletePoster)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.Categories.ListCategories)
		categories.GET("/tree", h.Categories.CategoryTree)
		categories.GET("/:id", h.Categories.GetCategory)
		categories.POST("", admin, h.Categories.CreateCategory)
		categories.PUT("/:id", admin, h.Categories.UpdateCategory)
		categories.DELETE("/:id", admin, h.Categories.DeleteCategory)
	}

	consultants := api.Group("/consultants")
	{
		consultants.GET("", h.Consultants.ListConsultants)
		consultants.GET("/:id", h.Consultants.GetConsultant)
		consultants.POST("", admin, h.Consultants.CreateConsultant)
		consultants.PUT("/:id", admin, h.Consultants.UpdateConsultant)
		consultants.DELETE("/:id", admin, h.Consultants.DeleteConsultant)
	}

	tops := api.Group("/top-consultants")
	{
		tops.GET("", h.Consultants.ListTopConsultants)
		tops.PUT("/:rank", admin, h.Consultants.SetTopConsultant)
		tops.DELETE("/:rank", admin, h.Consultants.RemoveTopConsultant)
	}

	favorites := api.Group("/favorites", authenticated)
	{
		favorites.GET("", h.Favorites.ListFavorites)
		favorites.POST("/:posterId", h.Favorites.AddFavorite)
		favorites.DELETE("/:posterId", h.Favorites.RemoveFavorite)
	}

	chats := api.Group("/chat-rooms", authenticated)
	{
		chats.POST("", h.Chats.OpenChatRoom)
		chats.GET("", h.Chats.ListChatRooms)
		chats.GET("/:id", h.Chats.GetChatRoom)
		chats.POST("/:id/messages", h.Chats.SendMessage)
	}

	api.GET("/dashboard/counters", admin, h.Dashboard.Counters)
}
