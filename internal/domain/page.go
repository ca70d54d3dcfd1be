package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Section types understood by the page renderer.
const (
	SectionHero     = "hero"
	SectionRichText = "rich_text"
	SectionCTA      = "cta"
)

type Page struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	MetaTitle       string        `json:"metaTitle,omitempty"`
	MetaDescription string        `json:"metaDescription,omitempty"`
	Published       bool          `json:"published"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
	Sections        []PageSection `json:"sections"`
}

type PageSection struct {
	ID        string          `json:"id"`
	PageID    string          `json:"-"`
	Type      string          `json:"type"`
	SortOrder int             `json:"order"`
	Data      json.RawMessage `json:"data"`
}

type HeroSection struct {
	Title    string `json:"title" validate:"required"`
	Subtitle string `json:"subtitle,omitempty"`
	ImageURL string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	CTALabel string `json:"ctaLabel,omitempty"`
	CTAURL   string `json:"ctaUrl,omitempty"`
}

type RichTextSection struct {
	HTML string `json:"html" validate:"required"`
}

type CTASection struct {
	Title       string `json:"title" validate:"required"`
	Text        string `json:"text,omitempty"`
	ButtonLabel string `json:"buttonLabel,omitempty"`
	ButtonURL   string `json:"buttonUrl,omitempty"`
}

// ErrUnknownSection is returned for a section type the renderer cannot draw.
var ErrUnknownSection = errors.New("unknown section type")

// DecodeSection unmarshals data into the typed struct for sectionType and
// returns a pointer to it.
func DecodeSection(sectionType string, data json.RawMessage) (any, error) {
	var target any
	switch sectionType {
	case SectionHero:
		target = &HeroSection{}
	case SectionRichText:
		target = &RichTextSection{}
	case SectionCTA:
		target = &CTASection{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, sectionType)
	}
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	if err := json.Unmarshal(data, target); err != nil {
		return nil, fmt.Errorf("decode %s section: %w", sectionType, err)
	}
	return target, nil
}
