package user

import (
	"context"
	"strings"
	"sync"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/testutil"
	"foodgram-backend/internal/utils"
	"foodgram-backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (UserService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewUserService(NewUserRepository(db), NewSubscriptionRepository(db), jwt.NewJWTService("secret"))
	return svc, db
}

var firstPage = domain.PageRequest{Page: 1, Limit: 10}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, domain.RegisterRequest{
		Email:     "Chef@Example.com",
		Username:  "chef",
		FirstName: "Gordon",
		LastName:  "Ramsay",
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "chef@example.com", res.Email)
	assert.NotEmpty(t, res.ID)

	token, err := svc.Login(ctx, domain.LoginRequest{Email: "chef@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AuthToken)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "chef@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	req := domain.RegisterRequest{Email: "a@example.com", Username: "a", FirstName: "A", LastName: "A", Password: "password1"}

	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrConflict)

	req.Email = "b@example.com"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)
}

func TestRegisterRejectsPasswordsBcryptCannotHash(t *testing.T) {
	svc, db := newService(t)
	utils.InitValidator()
	req := domain.RegisterRequest{Email: "a@example.com", Username: "a", FirstName: "A", LastName: "A"}

	req.Password = strings.Repeat("x", 100)
	err := utils.ValidateStruct(utils.Validate, req)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// 40 runes pass the length rule but take 80 bytes
	req.Password = strings.Repeat("é", 40)
	require.NoError(t, utils.ValidateStruct(utils.Validate, req))

	_, err = svc.Register(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrValidation)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Fields[0].Field)

	var count int64
	require.NoError(t, db.Model(&entities.User{}).Count(&count).Error)
	assert.Zero(t, count)

	req.Password = strings.Repeat("x", 72)
	_, err = svc.Register(context.Background(), req)
	assert.NoError(t, err)
}

func TestSetPassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, domain.RegisterRequest{
		Email: "cook@example.com", Username: "cook", FirstName: "C", LastName: "C", Password: "old-password",
	})
	require.NoError(t, err)
	viewer := domain.NewViewer(uuid.MustParse(res.ID))

	err = svc.SetPassword(ctx, domain.AnonymousViewer, domain.SetPasswordRequest{NewPassword: "new-password", CurrentPassword: "old-password"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	err = svc.SetPassword(ctx, viewer, domain.SetPasswordRequest{NewPassword: "new-password", CurrentPassword: "nope"})
	assert.ErrorIs(t, err, domain.ErrCurrentPasswordWrong)

	err = svc.SetPassword(ctx, viewer, domain.SetPasswordRequest{NewPassword: strings.Repeat("é", 40), CurrentPassword: "old-password"})
	assert.ErrorIs(t, err, domain.ErrNewPasswordTooLong)

	require.NoError(t, svc.SetPassword(ctx, viewer, domain.SetPasswordRequest{NewPassword: "new-password", CurrentPassword: "old-password"}))

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "cook@example.com", Password: "old-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, domain.LoginRequest{Email: "cook@example.com", Password: "new-password"})
	assert.NoError(t, err)
}

func TestSelfSubscriptionIsRejected(t *testing.T) {
	svc, db := newService(t)
	me := testutil.CreateUser(t, db, "me")

	_, err := svc.Subscribe(context.Background(), domain.NewViewer(me.ID), me.ID.String(), 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrSelfSubscription)

	var count int64
	require.NoError(t, db.Model(&entities.Subscription{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubscribeLifecycle(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	me := testutil.CreateUser(t, db, "me")
	chef := testutil.CreateUser(t, db, "chef")
	viewer := domain.NewViewer(me.ID)

	tag := testutil.CreateTag(t, db, "lunch", "#00FF00")
	testutil.CreateRecipe(t, db, chef, "soup", []*entities.Tag{tag})
	testutil.CreateRecipe(t, db, chef, "salad", []*entities.Tag{tag})

	sub, err := svc.Subscribe(ctx, viewer, chef.ID.String(), 1)
	require.NoError(t, err)
	assert.True(t, sub.IsSubscribed)
	assert.Len(t, sub.Recipes, 1)
	assert.EqualValues(t, 2, sub.RecipesCount)

	_, err = svc.Subscribe(ctx, viewer, chef.ID.String(), 1)
	assert.ErrorIs(t, err, domain.ErrConflict)

	subs, count, err := svc.GetSubscriptions(ctx, viewer, firstPage, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, subs, 1)
	assert.Equal(t, "chef", subs[0].Username)
	assert.Len(t, subs[0].Recipes, 2)

	require.NoError(t, svc.Unsubscribe(ctx, viewer, chef.ID.String()))
	err = svc.Unsubscribe(ctx, viewer, chef.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubscribeUnknownUser(t *testing.T) {
	svc, db := newService(t)
	me := testutil.CreateUser(t, db, "me")

	_, err := svc.Subscribe(context.Background(), domain.NewViewer(me.ID), uuid.NewString(), 0)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.Subscribe(context.Background(), domain.NewViewer(me.ID), "42", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIsSubscribedPerViewer(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	me := testutil.CreateUser(t, db, "me")
	other := testutil.CreateUser(t, db, "other")
	chef := testutil.CreateUser(t, db, "chef")

	_, err := svc.Subscribe(ctx, domain.NewViewer(me.ID), chef.ID.String(), 0)
	require.NoError(t, err)

	profile, err := svc.GetUser(ctx, chef.ID.String(), domain.NewViewer(me.ID))
	require.NoError(t, err)
	assert.True(t, profile.IsSubscribed)

	profile, err = svc.GetUser(ctx, chef.ID.String(), domain.NewViewer(other.ID))
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)

	profile, err = svc.GetUser(ctx, chef.ID.String(), domain.AnonymousViewer)
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)

	users, count, err := svc.GetUsers(ctx, firstPage, domain.NewViewer(me.ID))
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	for _, u := range users {
		assert.Equal(t, u.Username == "chef", u.IsSubscribed, u.Username)
	}
}

func TestConcurrentSubscribe(t *testing.T) {
	svc, db := newService(t)
	me := testutil.CreateUser(t, db, "me")
	chef := testutil.CreateUser(t, db, "chef")

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Subscribe(context.Background(), domain.NewViewer(me.ID), chef.ID.String(), 0)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, successes)

	var count int64
	require.NoError(t, db.Model(&entities.Subscription{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMeRequiresAuthentication(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Me(context.Background(), domain.AnonymousViewer)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
