package domain

var (
	MessageSuccessRegister         = "user registered successfully"
	MessageSuccessLogin            = "login successful"
	MessageSuccessGetUsers         = "success get users"
	MessageSuccessGetUser          = "success get user"
	MessageSuccessGetSubscriptions = "success get subscriptions"
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"
	MessageSuccessSetPassword      = "password changed successfully"
	MessageFailedRegister          = "failed to register user"
	MessageFailedLogin             = "failed to login"
	MessageFailedGetUsers          = "failed to get users"
	MessageFailedGetUser           = "failed to get user"
	MessageFailedGetSubscriptions  = "failed to get subscriptions"
	MessageFailedSubscribe         = "failed to subscribe"
	MessageFailedUnsubscribe       = "failed to unsubscribe"
	MessageFailedSetPassword       = "failed to change password"

	ErrUserNotFound          = newClassError(ErrNotFound, "user not found")
	ErrInvalidCredentials    = NewFieldError("password", "unable to log in with provided credentials")
	ErrEmailAlreadyExists    = newClassError(ErrConflict, "user with this email already exists")
	ErrUsernameAlreadyExists = newClassError(ErrConflict, "user with this username already exists")
	ErrSelfSubscription      = NewFieldError("author", "you cannot subscribe to yourself")
	ErrAlreadySubscribed     = newClassError(ErrConflict, "you are already subscribed to this user")
	ErrNotSubscribed         = newClassError(ErrNotFound, "you are not subscribed to this user")
	ErrPasswordTooLong       = NewFieldError("password", "ensure this field has no more than 72 bytes")
	ErrNewPasswordTooLong    = NewFieldError("new_password", "ensure this field has no more than 72 bytes")
	ErrCurrentPasswordWrong  = NewFieldError("current_password", "invalid password")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150,username"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=72"`
	}

	RegisterResponse struct {
		Email     string `json:"email"`
		ID        string `json:"id"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	SetPasswordRequest struct {
		NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
		CurrentPassword string `json:"current_password" validate:"required"`
	}

	LoginResponse struct {
		AuthToken string `json:"auth_token"`
	}

	UserProfile struct {
		Email        string `json:"email"`
		ID           string `json:"id"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	// SubscriptionView is a followed user together with a preview of their recipes.
	SubscriptionView struct {
		UserProfile
		Recipes      []RecipeMinified `json:"recipes"`
		RecipesCount int64            `json:"recipes_count"`
	}
)
