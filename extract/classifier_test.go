package extract

import (
	"reflect"
	"testing"

	"tiktok-scraper/models"
)

const userDetailURL = "https://www.tiktok.com/api/user/detail/?uniqueId=acct1"

func classifyJSON(t *testing.T, body string) *Result {
	t.Helper()
	return Classify(userDetailURL, 200, "application/json", []byte(body))
}

func TestClassifyUserInfoShape(t *testing.T) {
	body := `{"userInfo":{"user":{"uniqueId":"acct1","verified":true},"stats":{"followerCount":500,"videoCount":12}}}`

	res := classifyJSON(t, body)
	if res == nil || res.Account == nil {
		t.Fatal("expected an account record")
	}

	want := &models.AccountMetrics{
		Username:   "acct1",
		Followers:  500,
		Following:  0,
		Posts:      12,
		LikesTotal: 0,
		Verified:   true,
	}
	if !reflect.DeepEqual(res.Account, want) {
		t.Errorf("account: got %+v, want %+v", res.Account, want)
	}
}

func TestClassifyUserModuleShape(t *testing.T) {
	body := `{"UserModule":{"12345":{"uniqueId":"acct2","verified":false,"stats":{"followerCount":42,"followingCount":7,"heartCount":99}}}}`

	res := classifyJSON(t, body)
	if res == nil || res.Account == nil {
		t.Fatal("expected an account record")
	}
	if res.Account.Username != "acct2" || res.Account.Followers != 42 ||
		res.Account.Following != 7 || res.Account.LikesTotal != 99 {
		t.Errorf("unexpected account: %+v", res.Account)
	}
}

func TestClassifyUserModuleSkipsEntriesWithoutStats(t *testing.T) {
	// The metadata entry carries no stats field and must be passed over.
	body := `{"UserModule":{"meta":{"uniqueId":"ignored"},"1":{"uniqueId":"real","stats":{"followerCount":5}}}}`

	res := classifyJSON(t, body)
	if res == nil || res.Account == nil {
		t.Fatal("expected an account record")
	}
	if res.Account.Username != "real" {
		t.Errorf("username: got %q, want %q", res.Account.Username, "real")
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// Both shapes present with different counts — userInfo must win.
	body := `{
		"userInfo":{"user":{"uniqueId":"flat"},"stats":{"followerCount":100}},
		"UserModule":{"1":{"uniqueId":"nested","stats":{"followerCount":999}}}
	}`

	res := classifyJSON(t, body)
	if res == nil || res.Account == nil {
		t.Fatal("expected an account record")
	}
	if res.Account.Username != "flat" || res.Account.Followers != 100 {
		t.Errorf("priority violated: got %+v", res.Account)
	}
}

func TestClassifyDefaultToZero(t *testing.T) {
	body := `{"userInfo":{"user":{},"stats":{}}}`

	res := classifyJSON(t, body)
	if res == nil || res.Account == nil {
		t.Fatal("expected an account record")
	}

	a := res.Account
	if a.Followers != 0 || a.Following != 0 || a.Posts != 0 || a.LikesTotal != 0 || a.Verified {
		t.Errorf("expected all-zero unverified record, got %+v", a)
	}
}

func TestClassifyItemInfoShape(t *testing.T) {
	url := "https://www.tiktok.com/api/item/detail/?itemId=789"
	body := `{"itemInfo":{"itemStruct":{"stats":{"playCount":1000,"diggCount":10,"commentCount":5,"shareCount":0,"collectCount":0}}}}`

	res := Classify(url, 200, "application/json", []byte(body))
	if res == nil || res.Post == nil {
		t.Fatal("expected a post record")
	}
	if res.Post.Views != 1000 || res.Post.Likes != 10 || res.Post.Comments != 5 {
		t.Errorf("unexpected post: %+v", res.Post)
	}
	if res.Post.EngagementRate != 1.5 {
		t.Errorf("engagement rate: got %v, want 1.5", res.Post.EngagementRate)
	}
}

func TestClassifyEmbeddedScopeShape(t *testing.T) {
	body := `{"__DEFAULT_SCOPE__":{"webapp.video-detail":{"itemInfo":{"itemStruct":{"stats":{"playCount":50}}}}}}`

	res := classifyJSON(t, body)
	if res == nil || res.Post == nil {
		t.Fatal("expected a post record")
	}
	if res.Post.Views != 50 {
		t.Errorf("views: got %d, want 50", res.Post.Views)
	}
}

func TestClassifyRejectsNonMetricsResponses(t *testing.T) {
	validBody := []byte(`{"userInfo":{"user":{"uniqueId":"a"},"stats":{}}}`)

	tests := []struct {
		name        string
		status      int
		contentType string
		body        []byte
	}{
		{"non-200 status", 404, "application/json", validBody},
		{"html content type", 200, "text/html", validBody},
		{"truncated json", 200, "application/json", []byte(`{"userInfo":{`)},
		{"non-object json", 200, "application/json", []byte(`[1,2,3]`)},
		{"unknown shape", 200, "application/json", []byte(`{"commentList":[]}`)},
		{"userInfo is a string", 200, "application/json", []byte(`{"userInfo":"nope"}`)},
		{"empty body", 200, "application/json", nil},
	}

	for _, tt := range tests {
		if res := Classify(userDetailURL, tt.status, tt.contentType, tt.body); res != nil {
			t.Errorf("%s: expected no match, got %+v", tt.name, res)
		}
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	body := `{"userInfo":{"user":{"uniqueId":"acct1","verified":true},"stats":{"followerCount":500}}}`

	first := classifyJSON(t, body)
	second := classifyJSON(t, body)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("classification not idempotent: %+v vs %+v", first, second)
	}
}
