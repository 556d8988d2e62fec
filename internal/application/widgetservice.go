package application

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
	"github.com/ericfisherdev/shopfront/internal/domain/port/driven"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// WidgetView is the chat widget configuration as served to the storefront:
// the stored settings plus the greeting rendered to sanitized HTML.
type WidgetView struct {
	Settings     model.ChatWidgetSettings
	GreetingHTML string
}

// WidgetService manages the chat widget singleton configuration.
type WidgetService struct {
	store driven.ChatWidgetStore
}

// NewWidgetService creates a WidgetService with the required dependencies.
func NewWidgetService(store driven.ChatWidgetStore) *WidgetService {
	return &WidgetService{store: store}
}

// Get returns the current widget configuration, applying defaults when
// nothing has been saved yet.
func (s *WidgetService) Get(ctx context.Context) (*WidgetView, error) {
	settings, err := s.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load widget settings: %w", err)
	}
	if settings == nil {
		defaults := model.DefaultChatWidgetSettings()
		settings = &defaults
	}

	return &WidgetView{
		Settings:     *settings,
		GreetingHTML: renderMarkdown(settings.Greeting),
	}, nil
}

// Update validates and replaces the widget configuration.
func (s *WidgetService) Update(ctx context.Context, settings model.ChatWidgetSettings) (*WidgetView, error) {
	if settings.Position != model.WidgetBottomRight && settings.Position != model.WidgetBottomLeft {
		return nil, fmt.Errorf("%w: position must be bottom-right or bottom-left", ErrInvalidInput)
	}
	if !hexColorRe.MatchString(settings.AccentColor) {
		return nil, fmt.Errorf("%w: accent color must be a #rrggbb hex value", ErrInvalidInput)
	}

	settings.UpdatedAt = time.Now().UTC()
	if err := s.store.Set(ctx, settings); err != nil {
		return nil, fmt.Errorf("save widget settings: %w", err)
	}

	return &WidgetView{
		Settings:     settings,
		GreetingHTML: renderMarkdown(settings.Greeting),
	}, nil
}

// renderMarkdown converts a markdown string to sanitized HTML. Returns empty
// string for empty input; on a render failure the raw text is sanitized
// instead so user content never reaches the page unescaped.
func renderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}
