package config

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"foodgram-backend/internal/testutil"
	"foodgram-backend/internal/utils/mailing"
	"foodgram-backend/pkg/document"
	"foodgram-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryS3 struct {
	objects map[string][]byte
}

func (m *memoryS3) UploadFile(_ context.Context, fileName string, data []byte, _ string, folder string, _ ...string) (string, error) {
	key := folder + "/" + fileName
	m.objects[key] = data
	return key, nil
}

func (m *memoryS3) DeleteFile(_ context.Context, objectKey string) error {
	delete(m.objects, objectKey)
	return nil
}

func (m *memoryS3) GetPublicLinkKey(objectKey string) string {
	return "https://media.example/" + objectKey
}

func (m *memoryS3) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://media.example/")
}

type discardMailer struct {
	sent []string
}

func (d *discardMailer) Send(toEmail string, _ string, _ string, _ ...mailing.Attachment) error {
	d.sent = append(d.sent, toEmail)
	return nil
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type client struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
	s3  *memoryS3
}

func newClient(t *testing.T) *client {
	t.Helper()
	db := testutil.NewDB(t)
	s3 := &memoryS3{objects: map[string][]byte{}}
	app := fiber.New()
	Register(app, db, Dependencies{
		S3:         s3,
		Mailer:     &discardMailer{},
		Renderer:   document.NewRenderer(""),
		JWTService: jwt.NewJWTService("test-secret"),
	})
	return &client{t: t, app: app, db: db, s3: s3}
}

func (c *client) do(method, path, token string, body any) (*http.Response, apiResponse) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)

	var out apiResponse
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func (c *client) signUp(username string) (id, token string) {
	c.t.Helper()
	resp, body := c.do(http.MethodPost, "/api/users", "", map[string]string{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": username,
		"last_name":  "Cook",
		"password":   "correct-horse",
	})
	require.Equal(c.t, fiber.StatusCreated, resp.StatusCode)
	var user struct {
		ID string `json:"id"`
	}
	require.NoError(c.t, json.Unmarshal(body.Data, &user))

	resp, body = c.do(http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email":    username + "@example.com",
		"password": "correct-horse",
	})
	require.Equal(c.t, fiber.StatusOK, resp.StatusCode)
	var login struct {
		AuthToken string `json:"auth_token"`
	}
	require.NoError(c.t, json.Unmarshal(body.Data, &login))
	return user.ID, login.AuthToken
}

func pngPayload(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRecipeFlow(t *testing.T) {
	c := newClient(t)
	_, authorToken := c.signUp("author")
	_, readerToken := c.signUp("reader")
	lunch := testutil.CreateTag(t, c.db, "lunch", "#00FF00")
	salt := testutil.CreateIngredient(t, c.db, "Salt", "g")

	body := map[string]any{
		"name":         "Soup",
		"text":         "Boil.",
		"image":        pngPayload(t),
		"cooking_time": 20,
		"tags":         []string{lunch.ID.String()},
		"ingredients":  []map[string]any{{"id": salt.ID.String(), "amount": 5}},
	}

	resp, _ := c.do(http.MethodPost, "/api/recipes", "", body)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, created := c.do(http.MethodPost, "/api/recipes", authorToken, body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var recipe struct {
		ID          string `json:"id"`
		Image       string `json:"image"`
		IsFavorited bool   `json:"is_favorited"`
	}
	require.NoError(t, json.Unmarshal(created.Data, &recipe))
	assert.True(t, strings.HasPrefix(recipe.Image, "https://media.example/recipes/images/"))
	assert.Len(t, c.s3.objects, 1)

	resp, _ = c.do(http.MethodPost, "/api/recipes/"+recipe.ID+"/favorite", readerToken, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp, _ = c.do(http.MethodPost, "/api/recipes/"+recipe.ID+"/favorite", readerToken, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, list := c.do(http.MethodGet, "/api/recipes?is_favorited=1", readerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var page struct {
		Count   int64 `json:"count"`
		Results []struct {
			ID          string `json:"id"`
			IsFavorited bool   `json:"is_favorited"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(list.Data, &page))
	require.Equal(t, int64(1), page.Count)
	assert.True(t, page.Results[0].IsFavorited)

	resp, list = c.do(http.MethodGet, "/api/recipes?tags=lunch", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(list.Data, &page))
	require.Len(t, page.Results, 1)
	assert.False(t, page.Results[0].IsFavorited)

	resp, _ = c.do(http.MethodPatch, "/api/recipes/"+recipe.ID, readerToken, body)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = c.do(http.MethodGet, "/api/recipes/"+uuid.NewString(), "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/api/recipes/"+recipe.ID+"/shopping_cart", readerToken, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = c.do(http.MethodGet, "/api/recipes/download_shopping_cart", readerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="shopping_cart.pdf"`, resp.Header.Get("Content-Disposition"))
	pdf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	resp, _ = c.do(http.MethodDelete, "/api/recipes/"+recipe.ID, authorToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, c.s3.objects)
}

func TestRecipeValidationErrorListsFields(t *testing.T) {
	c := newClient(t)
	_, token := c.signUp("author")

	resp, body := c.do(http.MethodPost, "/api/recipes", token, map[string]any{
		"name":         "Soup",
		"text":         "Boil.",
		"cooking_time": 0,
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var fields []struct {
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(body.Error, &fields))
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	assert.ElementsMatch(t, []string{"cooking_time", "tags", "ingredients", "image"}, names)
}

func TestSubscriptionsEndpoints(t *testing.T) {
	c := newClient(t)
	authorID, _ := c.signUp("author")
	readerID, readerToken := c.signUp("reader")

	resp, _ := c.do(http.MethodPost, "/api/users/"+readerID+"/subscribe", readerToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/api/users/"+authorID+"/subscribe?recipes_limit=2", readerToken, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := c.do(http.MethodGet, "/api/users/"+authorID, readerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var profile struct {
		IsSubscribed bool `json:"is_subscribed"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &profile))
	assert.True(t, profile.IsSubscribed)

	resp, _ = c.do(http.MethodGet, "/api/users/subscriptions", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = c.do(http.MethodDelete, "/api/users/"+authorID+"/subscribe", readerToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = c.do(http.MethodDelete, "/api/users/"+authorID+"/subscribe", readerToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, me := c.do(http.MethodGet, "/api/users/me", readerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var self struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(me.Data, &self))
	assert.Equal(t, "reader", self.Username)
}

func TestCatalogEndpoints(t *testing.T) {
	c := newClient(t)
	testutil.CreateIngredient(t, c.db, "Salt", "g")
	testutil.CreateIngredient(t, c.db, "salsa", "ml")
	testutil.CreateIngredient(t, c.db, "Sugar", "g")

	resp, body := c.do(http.MethodGet, "/api/ingredients?name=Sa", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var ingredients []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &ingredients))
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Salt", ingredients[0].Name)

	resp, _ = c.do(http.MethodGet, "/api/tags/"+uuid.NewString(), "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestInvalidTokenIsRejected(t *testing.T) {
	c := newClient(t)

	resp, body := c.do(http.MethodGet, "/api/recipes", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, body.Status)
	assert.NotEmpty(t, body.Message)
}

func TestSignUpIgnoresStaleToken(t *testing.T) {
	c := newClient(t)

	resp, _ := c.do(http.MethodPost, "/api/users", "expired-token", map[string]string{
		"email":      "late@example.com",
		"username":   "late",
		"first_name": "Late",
		"last_name":  "Cook",
		"password":   "correct-horse",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestSetPasswordEndpoint(t *testing.T) {
	c := newClient(t)
	_, token := c.signUp("chef")

	resp, _ := c.do(http.MethodPost, "/api/users/set_password", "", map[string]string{
		"new_password":     "battery-staple",
		"current_password": "correct-horse",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/api/users/set_password", token, map[string]string{
		"new_password":     "battery-staple",
		"current_password": "wrong-horse",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/api/users/set_password", token, map[string]string{
		"new_password":     "battery-staple",
		"current_password": "correct-horse",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email":    "chef@example.com",
		"password": "battery-staple",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email":    "chef@example.com",
		"password": "correct-horse",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
