package models

import "time"

// AccountMetrics is a snapshot of a creator account's public counters.
// Records are always fully populated — absent counters default to 0 at
// extraction time, never to a partially-filled struct.
type AccountMetrics struct {
	Username   string
	Followers  int
	Following  int
	Posts      int
	LikesTotal int
	Verified   bool
}

// PostMetrics is a snapshot of a single post's engagement counters.
type PostMetrics struct {
	PostURL        string
	Views          int
	Likes          int
	Comments       int
	Shares         int
	Bookmarks      int
	EngagementRate float64
}

// NewPostMetrics builds a PostMetrics with the engagement rate derived from
// the counters. The rate is always recomputed here — upstream values are
// never trusted.
func NewPostMetrics(postURL string, views, likes, comments, shares, bookmarks int) *PostMetrics {
	p := &PostMetrics{
		PostURL:   postURL,
		Views:     views,
		Likes:     likes,
		Comments:  comments,
		Shares:    shares,
		Bookmarks: bookmarks,
	}
	p.EngagementRate = EngagementRate(views, likes, comments, shares, bookmarks)
	return p
}

// EngagementRate returns round((likes+comments+shares+bookmarks)/views*100, 2),
// or 0.0 when there are no views.
func EngagementRate(views, likes, comments, shares, bookmarks int) float64 {
	if views <= 0 {
		return 0.0
	}
	total := float64(likes + comments + shares + bookmarks)
	return Round2(total / float64(views) * 100)
}

// Round2 rounds to two decimal places.
func Round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// PostSnapshot wraps PostMetrics with scrape provenance for CSV/DB storage.
type PostSnapshot struct {
	*PostMetrics
	Account   string
	Caption   string
	SlideText string // OCR output for carousel posts, empty when OCR is off
	IsRepost  bool   // caption content already seen under another URL
	Source    string // "api" or "dom"
	ScrapedAt time.Time
}

// AccountSnapshot wraps AccountMetrics with scrape provenance.
type AccountSnapshot struct {
	*AccountMetrics
	Source    string
	ScrapedAt time.Time
}

// EngagementReport holds the computed analytics over a scraped dataset.
type EngagementReport struct {
	TotalPosts     int
	TotalViews     int
	AverageViews   float64
	MinViews       int
	MaxViews       int
	AverageRate    float64
	RepostCount    int
	TopPosts       []*PostSnapshot
	PostsByAccount map[string]int
}
