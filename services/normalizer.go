package services

import (
	"strings"
	"unicode"

	"tiktok-scraper/cache"
	"tiktok-scraper/models"
	"tiktok-scraper/utils"
)

// Normalizer validates and deduplicates raw snapshots before storage. When
// a content cache is provided it also flags reposts: posts whose caption
// content was already recorded under a different URL.
type Normalizer struct {
	logger *utils.Logger
	store  cache.Store
}

// NewNormalizer creates a Normalizer. store may be nil, which disables
// repost detection.
func NewNormalizer(logger *utils.Logger, store cache.Store) *Normalizer {
	return &Normalizer{logger: logger, store: store}
}

// NormalizePosts drops snapshots without a post URL, deduplicates by URL
// (first occurrence wins), recomputes engagement rates from the raw
// counters, and marks reposted caption content.
func (n *Normalizer) NormalizePosts(raw []*models.PostSnapshot) []*models.PostSnapshot {
	seen := make(map[string]struct{})
	result := make([]*models.PostSnapshot, 0, len(raw))

	for _, r := range raw {
		url := strings.TrimSpace(r.PostURL)
		if url == "" {
			n.logger.Warn("[normalizer] Dropping snapshot with empty post URL (account: %s)", r.Account)
			continue
		}

		if _, dup := seen[url]; dup {
			n.logger.Debug("[normalizer] Duplicate post URL skipped: %s", url)
			continue
		}
		seen[url] = struct{}{}

		snapshot := &models.PostSnapshot{
			PostMetrics: models.NewPostMetrics(url,
				r.Views, r.Likes, r.Comments, r.Shares, r.Bookmarks),
			Account:   normaliseUsername(r.Account),
			Caption:   normaliseText(r.Caption),
			SlideText: normaliseText(r.SlideText),
			Source:    r.Source,
			ScrapedAt: r.ScrapedAt,
		}
		snapshot.IsRepost = n.detectRepost(snapshot)

		result = append(result, snapshot)
	}

	n.logger.Info("[normalizer] Normalized %d → %d post snapshots (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// NormalizeAccounts drops snapshots without a username and deduplicates by
// username, keeping the first occurrence.
func (n *Normalizer) NormalizeAccounts(raw []*models.AccountSnapshot) []*models.AccountSnapshot {
	seen := make(map[string]struct{})
	result := make([]*models.AccountSnapshot, 0, len(raw))

	for _, r := range raw {
		username := normaliseUsername(r.Username)
		if username == "" {
			n.logger.Warn("[normalizer] Dropping account snapshot with empty username")
			continue
		}
		if _, dup := seen[username]; dup {
			n.logger.Debug("[normalizer] Duplicate account skipped: %s", username)
			continue
		}
		seen[username] = struct{}{}

		snapshot := *r
		snapshot.AccountMetrics = &models.AccountMetrics{
			Username:   username,
			Followers:  r.Followers,
			Following:  r.Following,
			Posts:      r.Posts,
			LikesTotal: r.LikesTotal,
			Verified:   r.Verified,
		}
		result = append(result, &snapshot)
	}

	n.logger.Info("[normalizer] Normalized %d → %d account snapshots (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// detectRepost fingerprints the caption's canonicalized content and checks
// whether it was already recorded under a different post URL. First sighting
// claims the fingerprint.
func (n *Normalizer) detectRepost(p *models.PostSnapshot) bool {
	if n.store == nil || p.Caption == "" {
		return false
	}

	fp := cache.FingerprintText(p.Caption)
	owner, ok, err := n.store.Get(fp)
	if err != nil {
		n.logger.Warn("[normalizer] Content cache lookup failed: %v", err)
		return false
	}
	if ok {
		if owner != p.PostURL {
			n.logger.Debug("[normalizer] Repost detected: %s matches %s", p.PostURL, owner)
			return true
		}
		return false
	}

	if err := n.store.Put(fp, p.PostURL); err != nil {
		n.logger.Warn("[normalizer] Content cache write failed: %v", err)
	}
	return false
}

// normaliseText strips leading/trailing whitespace and collapses internal
// whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}

func normaliseUsername(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "@"))
}
