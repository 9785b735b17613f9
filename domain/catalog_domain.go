package domain

var (
	MessageSuccessGetTags        = "success get tags"
	MessageSuccessGetTag         = "success get tag"
	MessageSuccessGetIngredients = "success get ingredients"
	MessageSuccessGetIngredient  = "success get ingredient"
	MessageFailedGetTags         = "failed to get tags"
	MessageFailedGetTag          = "failed to get tag"
	MessageFailedGetIngredients  = "failed to get ingredients"
	MessageFailedGetIngredient   = "failed to get ingredient"

	ErrTagNotFound        = newClassError(ErrNotFound, "tag not found")
	ErrIngredientNotFound = newClassError(ErrNotFound, "ingredient not found")
)
