package domain

// Article is a candidate item from the content source. URL is its identity;
// everything else is opaque payload.
type Article struct {
	Source      string  `json:"source"`
	Author      *string `json:"author"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt string  `json:"publishedAt"`
	Content     *string `json:"content"`
}

// FeedMode selects how the pool is assembled.
type FeedMode string

const (
	ModeFocused     FeedMode = "focused"
	ModeDiversified FeedMode = "diversified"
)
