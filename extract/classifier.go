package extract

import (
	"encoding/json"
	"strings"

	"tiktok-scraper/models"
)

// Result carries the single record produced by a successful classification.
// Exactly one of Account or Post is set.
type Result struct {
	Account *models.AccountMetrics
	Post    *models.PostMetrics
}

// Known payload shapes, tried in fixed priority order. The first decoder
// that matches structurally wins; partial data is never merged across
// shapes.
type userFields struct {
	UniqueID string `json:"uniqueId"`
	Verified bool   `json:"verified"`
}

type accountStats struct {
	FollowerCount  int `json:"followerCount"`
	FollowingCount int `json:"followingCount"`
	VideoCount     int `json:"videoCount"`
	HeartCount     int `json:"heartCount"`
}

// userInfoEnvelope matches the flat user-detail API payload:
// {"userInfo": {"user": {...}, "stats": {...}}}.
type userInfoEnvelope struct {
	UserInfo *struct {
		User  userFields   `json:"user"`
		Stats accountStats `json:"stats"`
	} `json:"userInfo"`
}

// userModuleEnvelope matches the hydration payload keyed by user ID:
// {"UserModule": {"<id>": {"uniqueId": ..., "stats": {...}}}}.
type userModuleEnvelope struct {
	UserModule map[string]json.RawMessage `json:"UserModule"`
}

type userModuleEntry struct {
	UniqueID string        `json:"uniqueId"`
	Verified bool          `json:"verified"`
	Stats    *accountStats `json:"stats"`
}

type postStats struct {
	PlayCount    int `json:"playCount"`
	DiggCount    int `json:"diggCount"`
	CommentCount int `json:"commentCount"`
	ShareCount   int `json:"shareCount"`
	CollectCount int `json:"collectCount"`
}

type itemStruct struct {
	Stats *postStats `json:"stats"`
}

// itemInfoEnvelope matches the video-detail API payload:
// {"itemInfo": {"itemStruct": {"stats": {...}}}}.
type itemInfoEnvelope struct {
	ItemInfo *struct {
		ItemStruct *itemStruct `json:"itemStruct"`
	} `json:"itemInfo"`
}

// defaultScopeEnvelope matches the universal data blob embedded in rendered
// pages, which nests the same itemStruct under webapp.video-detail.
type defaultScopeEnvelope struct {
	DefaultScope *struct {
		VideoDetail *struct {
			ItemInfo *struct {
				ItemStruct *itemStruct `json:"itemStruct"`
			} `json:"itemInfo"`
		} `json:"webapp.video-detail"`
	} `json:"__DEFAULT_SCOPE__"`
}

// Classify inspects one intercepted network response and extracts a
// canonical metrics record from it, or nil when the response is not a
// metrics payload. Non-200 statuses, non-JSON content types, malformed
// bodies and unrecognized shapes are all expected no-match cases, never
// errors. The function is pure: no state is read or written.
func Classify(url string, status int, contentType string, body []byte) *Result {
	if status != 200 {
		return nil
	}
	if !strings.Contains(strings.ToLower(contentType), "json") {
		return nil
	}

	if acct := decodeUserInfo(body); acct != nil {
		return &Result{Account: acct}
	}
	if acct := decodeUserModule(body); acct != nil {
		return &Result{Account: acct}
	}
	if post := decodeItemInfo(url, body); post != nil {
		return &Result{Post: post}
	}
	if post := decodeDefaultScope(url, body); post != nil {
		return &Result{Post: post}
	}
	return nil
}

func decodeUserInfo(body []byte) *models.AccountMetrics {
	var env userInfoEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.UserInfo == nil {
		return nil
	}
	return accountFrom(env.UserInfo.User, env.UserInfo.Stats)
}

func decodeUserModule(body []byte) *models.AccountMetrics {
	var env userModuleEnvelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.UserModule) == 0 {
		return nil
	}
	// First entry whose value is an object carrying a stats field wins;
	// remaining entries are ignored (first-match, not best-match).
	for _, raw := range env.UserModule {
		var entry userModuleEntry
		if err := json.Unmarshal(raw, &entry); err != nil || entry.Stats == nil {
			continue
		}
		user := userFields{UniqueID: entry.UniqueID, Verified: entry.Verified}
		return accountFrom(user, *entry.Stats)
	}
	return nil
}

func decodeItemInfo(url string, body []byte) *models.PostMetrics {
	var env itemInfoEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	if env.ItemInfo == nil || env.ItemInfo.ItemStruct == nil {
		return nil
	}
	return postFrom(url, env.ItemInfo.ItemStruct)
}

func decodeDefaultScope(url string, body []byte) *models.PostMetrics {
	var env defaultScopeEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	if env.DefaultScope == nil || env.DefaultScope.VideoDetail == nil ||
		env.DefaultScope.VideoDetail.ItemInfo == nil {
		return nil
	}
	return postFrom(url, env.DefaultScope.VideoDetail.ItemInfo.ItemStruct)
}

func accountFrom(user userFields, stats accountStats) *models.AccountMetrics {
	return &models.AccountMetrics{
		Username:   user.UniqueID,
		Followers:  clampNonNegative(stats.FollowerCount),
		Following:  clampNonNegative(stats.FollowingCount),
		Posts:      clampNonNegative(stats.VideoCount),
		LikesTotal: clampNonNegative(stats.HeartCount),
		Verified:   user.Verified,
	}
}

func postFrom(url string, item *itemStruct) *models.PostMetrics {
	if item == nil || item.Stats == nil {
		return nil
	}
	st := item.Stats
	return models.NewPostMetrics(url,
		clampNonNegative(st.PlayCount),
		clampNonNegative(st.DiggCount),
		clampNonNegative(st.CommentCount),
		clampNonNegative(st.ShareCount),
		clampNonNegative(st.CollectCount),
	)
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
