package models

import "time"

type PostType string

const (
	PostTypeBlog         PostType = "blog"
	PostTypeSuccessStory PostType = "success_story"
)

type ClientLogo struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Website  string `json:"website,omitempty"`
}

type Post struct {
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Type         PostType  `json:"type"`
	Excerpt      string    `json:"excerpt,omitempty"`
	Author       string    `json:"author,omitempty"`
	HeroImageURL string    `json:"heroImageUrl,omitempty"`
	PublishedAt  time.Time `json:"publishedAt"`
}

type Product struct {
	Slug     string   `json:"slug"`
	Name     string   `json:"name"`
	Tagline  string   `json:"tagline,omitempty"`
	IconURL  string   `json:"iconUrl,omitempty"`
	Features []string `json:"features,omitempty"`
}

type Reference struct {
	Slug     string   `json:"slug"`
	Company  string   `json:"company"`
	Industry string   `json:"industry,omitempty"`
	Quote    string   `json:"quote,omitempty"`
	LogoURL  string   `json:"logoUrl,omitempty"`
	Products []string `json:"products,omitempty"`
}
