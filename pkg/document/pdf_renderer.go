// Package document renders exported documents.
package document

import (
	"bytes"
	"fmt"

	"foodgram-backend/domain"

	"github.com/go-pdf/fpdf"
)

const (
	ShoppingListTitle = "Shopping Cart"
	fontFamily        = "body"
)

type (
	Renderer interface {
		ShoppingList(lines []domain.ShoppingListLine) ([]byte, error)
	}

	pdfRenderer struct {
		fontPath string
		compress bool
	}
)

// NewRenderer returns a PDF renderer. With an empty fontPath the core
// Helvetica font is used and text is transcoded to cp1252; a TTF path
// enables full UTF-8 output.
func NewRenderer(fontPath string) Renderer {
	return &pdfRenderer{fontPath: fontPath, compress: true}
}

func (r *pdfRenderer) ShoppingList(lines []domain.ShoppingListLine) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetTitle(ShoppingListTitle, true)

	family := "Helvetica"
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if r.fontPath != "" {
		pdf.AddUTF8Font(fontFamily, "", r.fontPath)
		family = fontFamily
		translate = func(s string) string { return s }
	}

	pdf.AddPage()
	pdf.SetFont(family, "", 20)
	pdf.CellFormat(0, 12, translate(ShoppingListTitle), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(family, "", 12)
	for _, line := range lines {
		pdf.MultiCell(0, 7, translate(line.String()), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render shopping list: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render shopping list: %w", err)
	}
	return buf.Bytes(), nil
}
