package routes

import (
	"foodgram-backend/internal/api/handlers"
	"foodgram-backend/internal/middleware"
	"foodgram-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App            *fiber.App
	UserHandler    handlers.UserHandler
	RecipeHandler  handlers.RecipeHandler
	CatalogHandler handlers.CatalogHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Auth()
	c.User()
	c.Catalog()
	c.Recipe()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth")
	auth.Post("/token/login", c.UserHandler.Login)
}

func (c *Config) User() {
	authed := c.Middleware.AuthMiddleware(c.JWTService)
	// signup ignores any bearer token, so it is registered ahead of the group
	c.App.Post("/api/users", c.UserHandler.Register)

	user := c.App.Group("/api/users", c.Middleware.OptionalAuthMiddleware(c.JWTService))
	// static paths go before /:id
	{
		user.Get("", c.UserHandler.GetUsers)
		user.Get("/me", authed, c.UserHandler.Me)
		user.Post("/set_password", authed, c.UserHandler.SetPassword)
		user.Get("/subscriptions", authed, c.UserHandler.GetSubscriptions)
		user.Get("/:id", c.UserHandler.GetUser)
		user.Post("/:id/subscribe", authed, c.UserHandler.Subscribe)
		user.Delete("/:id/subscribe", authed, c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Catalog() {
	tags := c.App.Group("/api/tags")
	tags.Get("", c.CatalogHandler.GetTags)
	tags.Get("/:id", c.CatalogHandler.GetTag)

	ingredients := c.App.Group("/api/ingredients")
	ingredients.Get("", c.CatalogHandler.GetIngredients)
	ingredients.Get("/:id", c.CatalogHandler.GetIngredient)
}

func (c *Config) Recipe() {
	authed := c.Middleware.AuthMiddleware(c.JWTService)
	recipes := c.App.Group("/api/recipes", c.Middleware.OptionalAuthMiddleware(c.JWTService))

	recipes.Get("", c.RecipeHandler.GetRecipes)
	recipes.Post("", authed, c.RecipeHandler.CreateRecipe)

	// Shopping list
	recipes.Get("/download_shopping_cart", authed, c.RecipeHandler.DownloadShoppingCart)
	recipes.Post("/send_shopping_cart", authed, c.RecipeHandler.SendShoppingCart)

	recipes.Get("/:id", c.RecipeHandler.GetRecipe)
	recipes.Put("/:id", authed, c.RecipeHandler.UpdateRecipe)
	recipes.Patch("/:id", authed, c.RecipeHandler.PatchRecipe)
	recipes.Delete("/:id", authed, c.RecipeHandler.DeleteRecipe)

	recipes.Post("/:id/favorite", authed, c.RecipeHandler.AddFavorite)
	recipes.Delete("/:id/favorite", authed, c.RecipeHandler.RemoveFavorite)
	recipes.Post("/:id/shopping_cart", authed, c.RecipeHandler.AddToShoppingCart)
	recipes.Delete("/:id/shopping_cart", authed, c.RecipeHandler.RemoveFromShoppingCart)
}
