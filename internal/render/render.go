// Package render turns stored page sections into HTML.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer draws hero, rich_text and cta sections. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse section templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// richText carries admin-authored markup that is emitted unescaped.
type richText struct {
	HTML template.HTML
}

// Sections renders sections in the given order. Sections of an unknown type
// or with undecodable data are skipped with a warning.
func (r *Renderer) Sections(ctx context.Context, sections []domain.PageSection) (template.HTML, error) {
	var buf bytes.Buffer
	for _, s := range sections {
		decoded, err := domain.DecodeSection(s.Type, s.Data)
		if err != nil {
			logger.Warn(ctx, "skipping page section", zap.String("section_id", s.ID), zap.String("type", s.Type), zap.Error(err))
			continue
		}
		data := decoded
		if rt, ok := decoded.(*domain.RichTextSection); ok {
			data = richText{HTML: template.HTML(rt.HTML)} //nolint: gosec
		}
		if err := r.tmpl.ExecuteTemplate(&buf, s.Type, data); err != nil {
			return "", fmt.Errorf("render %s section: %w", s.Type, err)
		}
	}
	return template.HTML(buf.String()), nil //nolint: gosec
}
