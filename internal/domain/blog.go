package domain

import "time"

type BlogCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

type BlogTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Content is a blog post.
type Content struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Excerpt     string        `json:"excerpt,omitempty"`
	Body        string        `json:"body"`
	CoverImage  string        `json:"coverImage,omitempty"`
	Published   bool          `json:"published"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty"`
	CategoryID  *string       `json:"categoryId,omitempty"`
	AuthorID    *string       `json:"authorId,omitempty"`
	Category    *BlogCategory `json:"category,omitempty"`
	Tags        []BlogTag     `json:"tags"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type ContentFilter struct {
	CategorySlug  string
	TagSlug       string
	IncludeDrafts bool
	Limit         int
	Offset        int
}

type ContentPage struct {
	Results []Content `json:"results"`
	Total   int       `json:"total"`
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
}
