package domain

import "time"

// NewsArticle is an item appended by the conversational collaborator's
// ingest workflow. This module only stores and lists articles; it never
// writes them itself.
type NewsArticle struct {
	// ID is the article's unique identifier (UUID).
	ID string

	// Title is the headline.
	Title string

	// Summary is a short abstract, may be empty.
	Summary string

	// Content is the full article text, may be empty.
	Content string

	// URL links to the original article.
	URL string

	// Source names the publisher.
	Source string

	// Category is a coarse topic label.
	Category string

	// PublishedAt is the publication timestamp.
	PublishedAt time.Time

	// Active controls whether the article appears in listings.
	Active bool

	// CreatedAt is when the row was inserted.
	CreatedAt time.Time
}
