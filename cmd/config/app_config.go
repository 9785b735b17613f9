package config

import (
	"os"
	"time"

	"foodgram-backend/internal/api/handlers"
	"foodgram-backend/internal/api/routes"
	"foodgram-backend/internal/middleware"
	"foodgram-backend/internal/utils"
	"foodgram-backend/internal/utils/mailing"
	"foodgram-backend/internal/utils/storage"
	"foodgram-backend/pkg/document"
	"foodgram-backend/pkg/ingredient"
	"foodgram-backend/pkg/jwt"
	"foodgram-backend/pkg/membership"
	"foodgram-backend/pkg/recipe"
	"foodgram-backend/pkg/tag"
	"foodgram-backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

// Dependencies are the outside services the API talks to.
type Dependencies struct {
	S3         storage.AwsS3
	Mailer     mailing.Mailer
	Renderer   document.Renderer
	JWTService jwt.JWTService
}

func NewApp(db *gorm.DB) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         16 * 1024 * 1024,
	})

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	Register(app, db, Dependencies{
		S3:         storage.NewAwsS3(),
		Mailer:     mailing.NewMailer(),
		Renderer:   document.NewRenderer(utils.GetConfig("PDF_FONT_PATH")),
		JWTService: jwt.NewJWTService(utils.GetConfig("JWT_SECRET")),
	})
	return app, nil
}

// Register wires repositories, services and handlers onto app.
func Register(app *fiber.App, db *gorm.DB, deps Dependencies) {
	utils.InitValidator()
	validator := utils.Validate
	middlewares := middleware.NewMiddleware()

	// Repository
	userRepository := user.NewUserRepository(db)
	subscriptionRepository := user.NewSubscriptionRepository(db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	membershipRepository := membership.NewMembershipRepository(db)

	// Service
	userService := user.NewUserService(userRepository, subscriptionRepository, deps.JWTService)
	tagService := tag.NewTagService(tagRepository)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	recipeService := recipe.NewRecipeService(
		validator,
		recipeRepository,
		membershipRepository,
		tagRepository,
		ingredientRepository,
		subscriptionRepository,
		deps.S3,
	)
	shoppingListService := recipe.NewShoppingListService(recipeRepository, userRepository, deps.Renderer, deps.Mailer)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	catalogHandler := handlers.NewCatalogHandler(tagService, ingredientService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, shoppingListService)

	// routes
	routesConfig := routes.Config{
		App:            app,
		UserHandler:    userHandler,
		RecipeHandler:  recipeHandler,
		CatalogHandler: catalogHandler,
		Middleware:     middlewares,
		JWTService:     deps.JWTService,
	}
	routesConfig.Setup()
}
