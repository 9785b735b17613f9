package recipe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils"
	"foodgram-backend/internal/utils/images"
	"foodgram-backend/internal/utils/storage"
	"foodgram-backend/pkg/ingredient"
	"foodgram-backend/pkg/membership"
	"foodgram-backend/pkg/tag"
	"foodgram-backend/pkg/user"
	"foodgram-backend/pkg/view"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const imageFolder = "recipes/images"

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page domain.PageRequest, viewer domain.Viewer) ([]domain.RecipeView, int64, error)
		GetRecipe(ctx context.Context, id string, viewer domain.Viewer) (domain.RecipeView, error)
		CreateRecipe(ctx context.Context, req domain.RecipeRequest, viewer domain.Viewer) (domain.RecipeView, error)
		UpdateRecipe(ctx context.Context, id string, req domain.RecipeRequest, partial bool, viewer domain.Viewer) (domain.RecipeView, error)
		DeleteRecipe(ctx context.Context, id string, viewer domain.Viewer) error
		AddToSet(ctx context.Context, kind domain.MembershipKind, id string, viewer domain.Viewer) (domain.RecipeMinified, error)
		RemoveFromSet(ctx context.Context, kind domain.MembershipKind, id string, viewer domain.Viewer) error
	}

	recipeService struct {
		validate               *validator.Validate
		recipeRepository       RecipeRepository
		membershipRepository   membership.MembershipRepository
		tagRepository          tag.TagRepository
		ingredientRepository   ingredient.IngredientRepository
		subscriptionRepository user.SubscriptionRepository
		s3                     storage.AwsS3
	}
)

func NewRecipeService(
	validate *validator.Validate,
	recipeRepository RecipeRepository,
	membershipRepository membership.MembershipRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	subscriptionRepository user.SubscriptionRepository,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		validate:               validate,
		recipeRepository:       recipeRepository,
		membershipRepository:   membershipRepository,
		tagRepository:          tagRepository,
		ingredientRepository:   ingredientRepository,
		subscriptionRepository: subscriptionRepository,
		s3:                     s3,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page domain.PageRequest, viewer domain.Viewer) ([]domain.RecipeView, int64, error) {
	filters, err := BuildFilters(filter, viewer)
	if err != nil {
		return nil, 0, err
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filters, page)
	if err != nil {
		return nil, 0, err
	}

	vctx, err := s.viewContext(ctx, viewer, recipes)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.RecipeView, 0, len(recipes))
	for _, r := range recipes {
		res = append(res, view.Recipe(r, vctx))
	}
	return res, count, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, id string, viewer domain.Viewer) (domain.RecipeView, error) {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.RecipeView{}, err
	}
	return s.render(ctx, recipe, viewer)
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.RecipeRequest, viewer domain.Viewer) (domain.RecipeView, error) {
	if !viewer.IsAuthenticated {
		return domain.RecipeView{}, domain.ErrUnauthenticated
	}

	draft, img, err := s.check(ctx, req, true)
	if err != nil {
		return domain.RecipeView{}, err
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    viewer.ID,
		Name:        draft.Name,
		Text:        draft.Text,
		CookingTime: draft.CookingTime,
	}

	objectKey, err := s.storeImage(ctx, recipe, img)
	if err != nil {
		return domain.RecipeView{}, err
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, draft); err != nil {
		s.discardImage(ctx, objectKey)
		return domain.RecipeView{}, s.writeError(ctx, req, draft, err)
	}

	return s.GetRecipe(ctx, recipe.ID.String(), viewer)
}

// UpdateRecipe replaces the recipe's fields and collections. A partial update
// keeps the stored image when none is supplied; tags and ingredients are
// required either way.
func (s *recipeService) UpdateRecipe(ctx context.Context, id string, req domain.RecipeRequest, partial bool, viewer domain.Viewer) (domain.RecipeView, error) {
	if !viewer.IsAuthenticated {
		return domain.RecipeView{}, domain.ErrUnauthenticated
	}

	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.RecipeView{}, err
	}
	if recipe.AuthorID != viewer.ID {
		return domain.RecipeView{}, domain.ErrUnauthorizedRecipeAccess
	}

	draft, img, err := s.check(ctx, req, !partial)
	if err != nil {
		return domain.RecipeView{}, err
	}

	previousImage := recipe.Image
	recipe.Name = draft.Name
	recipe.Text = draft.Text
	recipe.CookingTime = draft.CookingTime
	recipe.UpdatedAt = time.Now()

	objectKey, err := s.storeImage(ctx, recipe, img)
	if err != nil {
		return domain.RecipeView{}, err
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, draft); err != nil {
		s.discardImage(ctx, objectKey)
		return domain.RecipeView{}, s.writeError(ctx, req, draft, err)
	}
	if img != nil && previousImage != recipe.Image {
		s.discardImage(ctx, s.s3.GetObjectKeyFromLink(previousImage))
	}

	return s.GetRecipe(ctx, recipe.ID.String(), viewer)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id string, viewer domain.Viewer) error {
	if !viewer.IsAuthenticated {
		return domain.ErrUnauthenticated
	}

	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return err
	}
	if recipe.AuthorID != viewer.ID {
		return domain.ErrUnauthorizedRecipeAccess
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID); err != nil {
		return err
	}
	s.discardImage(ctx, s.s3.GetObjectKeyFromLink(recipe.Image))
	return nil
}

// AddToSet puts the recipe into the viewer's favorites or shopping cart.
func (s *recipeService) AddToSet(ctx context.Context, kind domain.MembershipKind, id string, viewer domain.Viewer) (domain.RecipeMinified, error) {
	if !viewer.IsAuthenticated {
		return domain.RecipeMinified{}, domain.ErrUnauthenticated
	}
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.RecipeMinified{}, err
	}

	if err := s.membershipRepository.Add(ctx, kind, viewer.ID, recipe.ID); err != nil {
		return domain.RecipeMinified{}, err
	}
	return view.Minified(recipe), nil
}

func (s *recipeService) RemoveFromSet(ctx context.Context, kind domain.MembershipKind, id string, viewer domain.Viewer) error {
	if !viewer.IsAuthenticated {
		return domain.ErrUnauthenticated
	}
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return err
	}
	return s.membershipRepository.Remove(ctx, kind, viewer.ID, recipe.ID)
}

func (s *recipeService) getRecipe(ctx context.Context, id string) (*entities.Recipe, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrRecipeNotFound
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) render(ctx context.Context, recipe *entities.Recipe, viewer domain.Viewer) (domain.RecipeView, error) {
	vctx, err := s.viewContext(ctx, viewer, []*entities.Recipe{recipe})
	if err != nil {
		return domain.RecipeView{}, err
	}
	return view.Recipe(recipe, vctx), nil
}

// viewContext loads the viewer's membership sets for one page of recipes:
// one query per set, nothing for anonymous viewers.
func (s *recipeService) viewContext(ctx context.Context, viewer domain.Viewer, recipes []*entities.Recipe) (view.Context, error) {
	vctx := view.Context{Viewer: viewer}
	if !viewer.IsAuthenticated || len(recipes) == 0 {
		return vctx, nil
	}

	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	var err error
	if vctx.Favorited, err = s.membershipRepository.RecipeIDs(ctx, domain.MembershipFavorite, viewer.ID, recipeIDs); err != nil {
		return vctx, err
	}
	if vctx.InCart, err = s.membershipRepository.RecipeIDs(ctx, domain.MembershipShoppingCart, viewer.ID, recipeIDs); err != nil {
		return vctx, err
	}
	if vctx.Subscribed, err = s.subscriptionRepository.FollowedIDs(ctx, viewer.ID, authorIDs); err != nil {
		return vctx, err
	}
	return vctx, nil
}

// check validates a write before anything is stored. The image is decoded
// here so an undecodable payload is reported with the other field errors.
func (s *recipeService) check(ctx context.Context, req domain.RecipeRequest, imageRequired bool) (domain.RecipeDraft, *images.Decoded, error) {
	verr := &domain.ValidationError{}
	if err := utils.ValidateStruct(s.validate, req); err != nil {
		if !errors.As(err, &verr) {
			return domain.RecipeDraft{}, nil, err
		}
	}

	var img *images.Decoded
	switch {
	case req.Image == "" && imageRequired:
		verr.Add("image", "this field is required")
	case req.Image != "":
		decoded, err := images.DecodeDataURL(req.Image)
		switch {
		case errors.Is(err, images.ErrTooLarge):
			verr.Add("image", err.Error())
		case err != nil:
			verr.Add("image", "upload a valid image")
		}
		img = decoded
	}

	if err := verr.OrNil(); err != nil {
		return domain.RecipeDraft{}, nil, err
	}

	draft, err := s.toDraft(ctx, req)
	if err != nil {
		return domain.RecipeDraft{}, nil, err
	}
	return draft, img, nil
}

// toDraft resolves tag and ingredient references. Every referenced row must
// exist.
func (s *recipeService) toDraft(ctx context.Context, req domain.RecipeRequest) (domain.RecipeDraft, error) {
	draft := domain.RecipeDraft{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		TagIDs:      make([]uuid.UUID, 0, len(req.Tags)),
		Ingredients: make([]domain.IngredientAmount, 0, len(req.Ingredients)),
	}
	for _, id := range req.Tags {
		draft.TagIDs = append(draft.TagIDs, uuid.MustParse(id))
	}
	ingredientIDs := make([]uuid.UUID, 0, len(req.Ingredients))
	for _, ia := range req.Ingredients {
		id := uuid.MustParse(ia.ID)
		ingredientIDs = append(ingredientIDs, id)
		draft.Ingredients = append(draft.Ingredients, domain.IngredientAmount{IngredientID: id, Amount: ia.Amount})
	}

	verr := &domain.ValidationError{}

	tags, err := s.tagRepository.GetTagsByIDs(ctx, draft.TagIDs)
	if err != nil {
		return domain.RecipeDraft{}, err
	}
	found := make(map[uuid.UUID]bool, len(tags))
	for _, t := range tags {
		found[t.ID] = true
	}
	for i, id := range draft.TagIDs {
		if !found[id] {
			verr.Add(fmt.Sprintf("tags[%d]", i), fmt.Sprintf("tag %s does not exist", id))
		}
	}

	ingredients, err := s.ingredientRepository.GetIngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return domain.RecipeDraft{}, err
	}
	found = make(map[uuid.UUID]bool, len(ingredients))
	for _, ing := range ingredients {
		found[ing.ID] = true
	}
	for i, id := range ingredientIDs {
		if !found[id] {
			verr.Add(fmt.Sprintf("ingredients[%d].id", i), fmt.Sprintf("ingredient %s does not exist", id))
		}
	}

	return draft, verr.OrNil()
}

// writeError reports a foreign key failure as field errors. A tag or
// ingredient removed after it was cached is dropped from the cache and the
// references are resolved again.
func (s *recipeService) writeError(ctx context.Context, req domain.RecipeRequest, draft domain.RecipeDraft, err error) error {
	if !utils.IsForeignKeyViolation(err) {
		return err
	}

	s.tagRepository.Forget(draft.TagIDs...)
	ingredientIDs := make([]uuid.UUID, 0, len(draft.Ingredients))
	for _, ia := range draft.Ingredients {
		ingredientIDs = append(ingredientIDs, ia.IngredientID)
	}
	s.ingredientRepository.Forget(ingredientIDs...)

	if _, rerr := s.toDraft(ctx, req); rerr != nil {
		return rerr
	}
	return domain.ErrRecipeReferenceGone
}

// storeImage uploads img and points the recipe at it. It returns the object
// key so a failed write can remove the orphan.
func (s *recipeService) storeImage(ctx context.Context, recipe *entities.Recipe, img *images.Decoded) (string, error) {
	if img == nil {
		return "", nil
	}

	placeholder, err := images.Placeholder(img.Image)
	if err != nil {
		log.Warnf("recipe %s: blurhash failed: %v", recipe.ID, err)
	}

	suffix, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate image name: %w", err)
	}
	fileName := fmt.Sprintf("%s-%s.%s", recipe.ID, suffix, img.Extension())
	objectKey, err := s.s3.UploadFile(ctx, fileName, img.Data, img.ContentType, imageFolder, storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrContentTypeNotAllowed) {
			return "", domain.ErrRecipeImageInvalid
		}
		return "", err
	}

	recipe.Image = s.s3.GetPublicLinkKey(objectKey)
	recipe.ImagePlaceholder = placeholder
	return objectKey, nil
}

func (s *recipeService) discardImage(ctx context.Context, objectKey string) {
	if objectKey == "" {
		return
	}
	if err := s.s3.DeleteFile(ctx, objectKey); err != nil {
		log.Warnf("failed to delete image %s: %v", objectKey, err)
	}
}
