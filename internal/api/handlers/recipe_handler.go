package handlers

import (
	"fmt"

	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"
	"foodgram-backend/internal/middleware"
	"foodgram-backend/pkg/recipe"

	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipe(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		PatchRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		AddToShoppingCart(c *fiber.Ctx) error
		RemoveFromShoppingCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
		SendShoppingCart(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService       recipe.RecipeService
		shoppingListService recipe.ShoppingListService
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, shoppingListService recipe.ShoppingListService) RecipeHandler {
	return &recipeHandler{
		recipeService:       recipeService,
		shoppingListService: shoppingListService,
	}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	filter := domain.RecipeFilter{
		AuthorID:         c.Query("author"),
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
	}
	for _, slug := range c.Context().QueryArgs().PeekMulti("tags") {
		filter.Tags = append(filter.Tags, string(slug))
	}
	page := pageRequest(c)

	res, count, err := h.recipeService.GetRecipes(c.Context(), filter, page, middleware.Viewer(c))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, paginated(res, count, page), fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipe(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipe(c.Context(), c.Params("id"), middleware.Viewer(c))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

// Recipe bodies are validated by the service, after the ownership check.
func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	req := new(domain.RecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), *req, middleware.Viewer(c))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	return h.update(c, false)
}

func (h *recipeHandler) PatchRecipe(c *fiber.Ctx) error {
	return h.update(c, true)
}

func (h *recipeHandler) update(c *fiber.Ctx, partial bool) error {
	req := new(domain.RecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), c.Params("id"), *req, partial, middleware.Viewer(c))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	if err := h.recipeService.DeleteRecipe(c.Context(), c.Params("id"), middleware.Viewer(c)); err != nil {
		return presenters.Failed(c, domain.MessageFailedDeleteRecipe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) AddFavorite(c *fiber.Ctx) error {
	return h.addToSet(c, domain.MembershipFavorite, domain.MessageSuccessAddFavorite, domain.MessageFailedAddFavorite)
}

func (h *recipeHandler) RemoveFavorite(c *fiber.Ctx) error {
	return h.removeFromSet(c, domain.MembershipFavorite, domain.MessageSuccessRemoveFavorite, domain.MessageFailedRemoveFavorite)
}

func (h *recipeHandler) AddToShoppingCart(c *fiber.Ctx) error {
	return h.addToSet(c, domain.MembershipShoppingCart, domain.MessageSuccessAddShoppingCart, domain.MessageFailedAddShoppingCart)
}

func (h *recipeHandler) RemoveFromShoppingCart(c *fiber.Ctx) error {
	return h.removeFromSet(c, domain.MembershipShoppingCart, domain.MessageSuccessRemoveShoppingCart, domain.MessageFailedRemoveShoppingCart)
}

func (h *recipeHandler) addToSet(c *fiber.Ctx, kind domain.MembershipKind, success, failed string) error {
	res, err := h.recipeService.AddToSet(c.Context(), kind, c.Params("id"), middleware.Viewer(c))
	if err != nil {
		return presenters.Failed(c, failed, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, success)
}

func (h *recipeHandler) removeFromSet(c *fiber.Ctx, kind domain.MembershipKind, success, failed string) error {
	if err := h.recipeService.RemoveFromSet(c.Context(), kind, c.Params("id"), middleware.Viewer(c)); err != nil {
		return presenters.Failed(c, failed, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, success)
}

func (h *recipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	pdf, err := h.shoppingListService.DownloadShoppingList(c.Context(), middleware.Viewer(c))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedDownloadShoppingList, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", domain.ShoppingListFileName))
	return c.Status(fiber.StatusOK).Send(pdf)
}

func (h *recipeHandler) SendShoppingCart(c *fiber.Ctx) error {
	if err := h.shoppingListService.SendShoppingList(c.Context(), middleware.Viewer(c)); err != nil {
		return presenters.Failed(c, domain.MessageFailedSendShoppingList, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessSendShoppingList)
}
