package recipe

import (
	"context"
	"fmt"
	"html"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/internal/utils/mailing"
	"foodgram-backend/pkg/document"
	"foodgram-backend/pkg/user"
)

type (
	ShoppingListService interface {
		GetShoppingList(ctx context.Context, viewer domain.Viewer) ([]domain.ShoppingListLine, error)
		DownloadShoppingList(ctx context.Context, viewer domain.Viewer) ([]byte, error)
		SendShoppingList(ctx context.Context, viewer domain.Viewer) error
	}

	shoppingListService struct {
		recipeRepository RecipeRepository
		userRepository   user.UserRepository
		renderer         document.Renderer
		mailer           mailing.Mailer
	}
)

func NewShoppingListService(recipeRepository RecipeRepository, userRepository user.UserRepository, renderer document.Renderer, mailer mailing.Mailer) ShoppingListService {
	return &shoppingListService{
		recipeRepository: recipeRepository,
		userRepository:   userRepository,
		renderer:         renderer,
		mailer:           mailer,
	}
}

func (s *shoppingListService) GetShoppingList(ctx context.Context, viewer domain.Viewer) ([]domain.ShoppingListLine, error) {
	if !viewer.IsAuthenticated {
		return nil, domain.ErrUnauthenticated
	}
	return s.recipeRepository.GetShoppingList(ctx, viewer.ID)
}

func (s *shoppingListService) DownloadShoppingList(ctx context.Context, viewer domain.Viewer) ([]byte, error) {
	lines, err := s.GetShoppingList(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return s.renderer.ShoppingList(lines)
}

// SendShoppingList mails the rendered list to the viewer's own address.
func (s *shoppingListService) SendShoppingList(ctx context.Context, viewer domain.Viewer) error {
	lines, err := s.GetShoppingList(ctx, viewer)
	if err != nil {
		return err
	}
	u, err := s.userRepository.GetUserByID(ctx, viewer.ID.String())
	if err != nil {
		return err
	}

	pdf, err := s.renderer.ShoppingList(lines)
	if err != nil {
		return err
	}

	if err := s.mailer.Send(u.Email, document.ShoppingListTitle, shoppingListBody(u.FirstName, lines), mailing.Attachment{
		FileName: domain.ShoppingListFileName,
		Data:     pdf,
	}); err != nil {
		return fmt.Errorf("send shopping list to %s: %w", u.Email, err)
	}
	return nil
}

func shoppingListBody(name string, lines []domain.ShoppingListLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(name))
	if len(lines) == 0 {
		b.WriteString("<p>Your shopping cart is empty.</p>")
		return b.String()
	}
	b.WriteString("<p>Your shopping list is attached.</p><ul>")
	for _, l := range lines {
		fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(l.String()))
	}
	b.WriteString("</ul>")
	return b.String()
}
