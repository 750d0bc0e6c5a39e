// Package pdf renders the booking card with gofpdf.
//
// The card is a single A4 page: the template image fills the page, the boat
// photo sits in a rounded frame at the top and the booking fields are printed
// in white at fixed positions below it.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aretw0/charter/internal/logging"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/phpdave11/gofpdf"
)

// FileName is the name of the rendered card.
const FileName = "аренда.pdf"

// MIME is the content type of the rendered card.
const MIME = "application/pdf"

// Page geometry in points. Positions below are measured from the bottom
// edge of the page and flipped when drawn.
const (
	pageHeight = 841.89
	fontSize   = 12

	photoX      = 19
	photoY      = 460
	photoWidth  = 558
	photoHeight = 372
	photoRadius = 30
)

type field struct {
	x, y  float64
	value func(domain.Draft) string
}

var layout = []field{
	{22, 370, func(d domain.Draft) string { return d.Date + " в " + d.Time }},
	{22, 315, func(d domain.Draft) string { return d.Boat }},
	{22, 260, func(d domain.Draft) string { return intOr(d.RemainingPayment) + " руб." }},
	{429, 370, func(d domain.Draft) string { return d.Hours + " ч." }},
	{429, 315, func(d domain.Draft) string { return d.ClientName }},
	{429, 260, func(d domain.Draft) string { return intOr(d.Guests) }},
	{208, 315, func(d domain.Draft) string { return d.CaptainName }},
	{208, 260, func(d domain.Draft) string { return d.CaptainPhone }},
	{208, 370, func(d domain.Draft) string { return d.Pier }},
}

// documentDate is stamped into every card so identical input yields identical bytes.
var documentDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Renderer implements ports.Renderer.
type Renderer struct {
	template  string
	photosDir string
	fontPath  string
	logger    *slog.Logger
}

// Option configures the Renderer.
type Option func(*Renderer)

// WithPhotosDir sets the directory relative photo references are resolved against.
func WithPhotosDir(dir string) Option {
	return func(r *Renderer) {
		r.photosDir = dir
	}
}

// WithFont sets a TrueType font used for all text. Without it the card falls
// back to Helvetica, which cannot print Cyrillic.
func WithFont(path string) Option {
	return func(r *Renderer) {
		r.fontPath = path
	}
}

// WithLogger sets the renderer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Renderer drawing on top of the given template image (PNG or JPEG).
func New(template string, opts ...Option) *Renderer {
	r := &Renderer{
		template: template,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Check verifies that the template and the font can be read.
func (r *Renderer) Check() error {
	if _, err := os.Stat(r.template); err != nil {
		return fmt.Errorf("template: %w", err)
	}
	if r.fontPath != "" {
		if _, err := os.Stat(r.fontPath); err != nil {
			return fmt.Errorf("font: %w", err)
		}
	}
	return nil
}

// PhotoPath resolves a catalog photo reference.
func (r *Renderer) PhotoPath(photo string) string {
	if photo == "" || filepath.IsAbs(photo) || r.photosDir == "" {
		return photo
	}
	return filepath.Join(r.photosDir, photo)
}

// Render draws the card for a complete draft.
func (r *Renderer) Render(ctx context.Context, d domain.Draft, boat domain.Boat) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if missing := d.Missing(); len(missing) > 0 {
		return nil, r.fail(boat, fmt.Errorf("draft is missing %v", missing))
	}
	if _, err := os.Stat(r.template); err != nil {
		return nil, r.fail(boat, fmt.Errorf("template: %w", err))
	}
	photo := r.PhotoPath(boat.Photo)
	if photo == "" {
		return nil, r.fail(boat, fmt.Errorf("boat has no photo"))
	}
	if _, err := os.Stat(photo); err != nil {
		return nil, r.fail(boat, fmt.Errorf("photo: %w", err))
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(d.Boat, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPage()

	width, height := pdf.GetPageSize()
	pdf.ImageOptions(r.template, 0, 0, width, height, false, gofpdf.ImageOptions{}, 0, "")

	top := pageHeight - photoY - photoHeight
	pdf.ClipRoundedRect(photoX, top, photoWidth, photoHeight, photoRadius, false)
	pdf.ImageOptions(photo, photoX, top, photoWidth, photoHeight, false, gofpdf.ImageOptions{}, 0, "")
	pdf.ClipEnd()

	tr := r.setFont(pdf)
	pdf.SetTextColor(255, 255, 255)
	for _, f := range layout {
		pdf.Text(f.x, pageHeight-f.y, tr(f.value(d)))
	}

	if err := pdf.Error(); err != nil {
		return nil, r.fail(boat, err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, r.fail(boat, err)
	}
	return &domain.Document{Name: FileName, MIME: MIME, Bytes: buf.Bytes()}, nil
}

// setFont selects the text font and returns the string encoder that goes with it.
func (r *Renderer) setFont(pdf *gofpdf.Fpdf) func(string) string {
	if r.fontPath != "" {
		pdf.AddUTF8Font("card", "", r.fontPath)
		pdf.SetFont("card", "", fontSize)
		return func(s string) string { return s }
	}
	pdf.SetFont("Helvetica", "", fontSize)
	return pdf.UnicodeTranslatorFromDescriptor("")
}

func (r *Renderer) fail(boat domain.Boat, err error) error {
	r.logger.Debug("render failed", "boat", boat.Name, "err", err)
	return &domain.RenderError{Boat: boat.Name, Err: err}
}

func intOr(v *int) string {
	if v == nil {
		return "0"
	}
	return strconv.Itoa(*v)
}
