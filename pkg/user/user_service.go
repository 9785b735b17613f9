package user

import (
	"context"
	"errors"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils"
	"foodgram-backend/pkg/jwt"
	"foodgram-backend/pkg/view"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, viewer domain.Viewer) (domain.UserProfile, error)
		SetPassword(ctx context.Context, viewer domain.Viewer, req domain.SetPasswordRequest) error
		GetUsers(ctx context.Context, page domain.PageRequest, viewer domain.Viewer) ([]domain.UserProfile, int64, error)
		GetUser(ctx context.Context, id string, viewer domain.Viewer) (domain.UserProfile, error)
		GetSubscriptions(ctx context.Context, viewer domain.Viewer, page domain.PageRequest, recipesLimit int) ([]domain.SubscriptionView, int64, error)
		Subscribe(ctx context.Context, viewer domain.Viewer, id string, recipesLimit int) (domain.SubscriptionView, error)
		Unsubscribe(ctx context.Context, viewer domain.Viewer, id string) error
	}

	userService struct {
		userRepository         UserRepository
		subscriptionRepository SubscriptionRepository
		jwtService             jwt.JWTService
	}
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

func NewUserService(userRepository UserRepository, subscriptionRepository SubscriptionRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository:         userRepository,
		subscriptionRepository: subscriptionRepository,
		jwtService:             jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if len(req.Password) > maxPasswordBytes {
		return domain.RegisterResponse{}, domain.ErrPasswordTooLong
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := s.userRepository.IsEmailTaken(ctx, email)
	if err != nil {
		return domain.RegisterResponse{}, err
	}
	if taken {
		return domain.RegisterResponse{}, domain.ErrEmailAlreadyExists
	}
	taken, err = s.userRepository.IsUsernameTaken(ctx, req.Username)
	if err != nil {
		return domain.RegisterResponse{}, err
	}
	if taken {
		return domain.RegisterResponse{}, domain.ErrUsernameAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		Email:     email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hash),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if utils.IsDuplicateKey(err) {
			return domain.RegisterResponse{}, domain.ErrUsernameAlreadyExists
		}
		return domain.RegisterResponse{}, err
	}

	return domain.RegisterResponse{
		Email:     user.Email,
		ID:        user.ID.String(),
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), domain.RoleUser)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) Me(ctx context.Context, viewer domain.Viewer) (domain.UserProfile, error) {
	if !viewer.IsAuthenticated {
		return domain.UserProfile{}, domain.ErrUnauthenticated
	}
	return s.GetUser(ctx, viewer.ID.String(), viewer)
}

// SetPassword replaces the viewer's password once the current one matches.
func (s *userService) SetPassword(ctx context.Context, viewer domain.Viewer, req domain.SetPasswordRequest) error {
	if !viewer.IsAuthenticated {
		return domain.ErrUnauthenticated
	}
	if len(req.NewPassword) > maxPasswordBytes {
		return domain.ErrNewPasswordTooLong
	}

	user, err := s.getUser(ctx, viewer.ID.String())
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrCurrentPasswordWrong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepository.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) GetUsers(ctx context.Context, page domain.PageRequest, viewer domain.Viewer) ([]domain.UserProfile, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page)
	if err != nil {
		return nil, 0, err
	}

	vctx, err := s.viewContext(ctx, viewer, users)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.UserProfile, 0, len(users))
	for _, u := range users {
		res = append(res, view.Profile(u, vctx))
	}
	return res, count, nil
}

func (s *userService) GetUser(ctx context.Context, id string, viewer domain.Viewer) (domain.UserProfile, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return domain.UserProfile{}, err
	}

	vctx, err := s.viewContext(ctx, viewer, []*entities.User{user})
	if err != nil {
		return domain.UserProfile{}, err
	}
	return view.Profile(user, vctx), nil
}

func (s *userService) GetSubscriptions(ctx context.Context, viewer domain.Viewer, page domain.PageRequest, recipesLimit int) ([]domain.SubscriptionView, int64, error) {
	if !viewer.IsAuthenticated {
		return nil, 0, domain.ErrUnauthenticated
	}

	users, count, err := s.subscriptionRepository.GetSubscriptions(ctx, viewer.ID, page)
	if err != nil {
		return nil, 0, err
	}

	res, err := s.subscriptionViews(ctx, viewer, users, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return res, count, nil
}

// Subscribe rejects self-subscription before looking the target up.
func (s *userService) Subscribe(ctx context.Context, viewer domain.Viewer, id string, recipesLimit int) (domain.SubscriptionView, error) {
	if !viewer.IsAuthenticated {
		return domain.SubscriptionView{}, domain.ErrUnauthenticated
	}
	followedID, err := uuid.Parse(id)
	if err != nil {
		return domain.SubscriptionView{}, domain.ErrUserNotFound
	}
	if followedID == viewer.ID {
		return domain.SubscriptionView{}, domain.ErrSelfSubscription
	}

	if err := s.subscriptionRepository.Subscribe(ctx, viewer.ID, followedID); err != nil {
		return domain.SubscriptionView{}, err
	}

	followed, err := s.getUser(ctx, id)
	if err != nil {
		return domain.SubscriptionView{}, err
	}
	views, err := s.subscriptionViews(ctx, viewer, []*entities.User{followed}, recipesLimit)
	if err != nil {
		return domain.SubscriptionView{}, err
	}
	return views[0], nil
}

func (s *userService) Unsubscribe(ctx context.Context, viewer domain.Viewer, id string) error {
	if !viewer.IsAuthenticated {
		return domain.ErrUnauthenticated
	}
	followedID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}
	return s.subscriptionRepository.Unsubscribe(ctx, viewer.ID, followedID)
}

func (s *userService) getUser(ctx context.Context, id string) (*entities.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) viewContext(ctx context.Context, viewer domain.Viewer, users []*entities.User) (view.Context, error) {
	vctx := view.Context{Viewer: viewer}
	if !viewer.IsAuthenticated {
		return vctx, nil
	}
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := s.subscriptionRepository.FollowedIDs(ctx, viewer.ID, ids)
	if err != nil {
		return vctx, err
	}
	vctx.Subscribed = subscribed
	return vctx, nil
}

func (s *userService) subscriptionViews(ctx context.Context, viewer domain.Viewer, users []*entities.User, recipesLimit int) ([]domain.SubscriptionView, error) {
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	vctx, err := s.viewContext(ctx, viewer, users)
	if err != nil {
		return nil, err
	}
	previews, err := s.subscriptionRepository.GetRecipePreviews(ctx, ids, recipesLimit)
	if err != nil {
		return nil, err
	}
	counts, err := s.subscriptionRepository.CountRecipes(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]domain.SubscriptionView, 0, len(users))
	for _, u := range users {
		recipes := make([]domain.RecipeMinified, 0, len(previews[u.ID]))
		for _, r := range previews[u.ID] {
			recipes = append(recipes, view.Minified(r))
		}
		res = append(res, domain.SubscriptionView{
			UserProfile:  view.Profile(u, vctx),
			Recipes:      recipes,
			RecipesCount: counts[u.ID],
		})
	}
	return res, nil
}
