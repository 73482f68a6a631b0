package scraptik

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eldorado-p2p/influencer-api/internal/config"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(
		config.ScrapTikConfig{
			BaseURL: server.URL,
			Host:    "scraptik.p.rapidapi.com",
			APIKey:  "test-rapidapi-key",
			Timeout: 5 * time.Second,
			Region:  "GB",
		},
		config.SyncConfig{
			Mention:  "@El Dorado P2P",
			PageSize: 20,
		},
		slog.Default(),
	)
	return c, server
}

func TestAccountID_EnvelopeShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"uid string", `{"uid":"6784563999"}`, "6784563999"},
		{"uid number", `{"uid":6784563999}`, "6784563999"},
		{"uid number beyond float64", `{"uid":6784563999123456789}`, "6784563999123456789"},
		{"nested numeric user_id", `{"data":{"user_id":7300000000000000001}}`, "7300000000000000001"},
		{"user_id", `{"user_id":"123456"}`, "123456"},
		{"nested data.user_id", `{"data":{"user_id":"987654"}}`, "987654"},
		{"plain id", `{"id":"555"}`, "555"},
		{"unknown shape", `{"whatever":"x"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/username-to-id" {
					t.Errorf("path = %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("username"); got != "someuser" {
					t.Errorf("username param = %q", got)
				}
				if r.Header.Get("X-RapidAPI-Key") != "test-rapidapi-key" {
					t.Error("missing RapidAPI key header")
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))

			if got := c.AccountID(context.Background(), "@someuser"); got != tt.want {
				t.Errorf("AccountID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAccountID_ProviderError(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	if got := c.AccountID(context.Background(), "someuser"); got != "" {
		t.Errorf("AccountID = %q, want empty on provider error", got)
	}
}

func TestRecentPosts_DataEnvelope(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user-posts" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("user_id"); got != "6784563999" {
			t.Errorf("user_id param = %q", got)
		}
		if got := r.URL.Query().Get("count"); got != "20" {
			t.Errorf("count param = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"aweme_id":"111","desc":"hello"}]}`))
	}))

	batch := c.RecentPosts(context.Background(), "6784563999", 0)
	if batch == nil {
		t.Fatal("batch should not be nil")
	}
	posts := batch.Posts()
	if len(posts) != 1 || posts[0].VideoID() != "111" {
		t.Errorf("posts = %+v", posts)
	}
}

func TestRecentPosts_Failure(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	if batch := c.RecentPosts(context.Background(), "123", 10); batch != nil {
		t.Errorf("batch = %+v, want nil on provider error", batch)
	}
}

func TestFilterSponsored(t *testing.T) {
	c, _ := testClient(t, http.NotFoundHandler())

	batch := &PostBatch{
		AwemeList: []Post{
			{AwemeID: "111", Desc: "Check out @El Dorado P2P today!"},
			{AwemeID: "222", Desc: "unrelated dance video"},
			{AwemeID: "333", Desc: "loving @el dorado p2p"},
			{Desc: "@El Dorado P2P but no id"},
		},
	}
	batch.AwemeList[0].Statistics.PlayCount = 1000
	batch.AwemeList[0].Statistics.DiggCount = 80
	batch.AwemeList[0].CreateTime = 1717200000
	batch.AwemeList[0].Video.PlayAddr.URLList = []string{"https://cdn/a", "https://cdn/b", "https://cdn/c", "https://cdn/d"}
	batch.AwemeList[2].Author.UniqueID = "someuser"

	drafts := c.FilterSponsored(batch)
	if len(drafts) != 2 {
		t.Fatalf("drafts = %d, want 2 (mention match is case-insensitive, id-less skipped)", len(drafts))
	}

	first := drafts[0]
	if first.TikTokVideoID != "111" {
		t.Errorf("TikTokVideoID = %q", first.TikTokVideoID)
	}
	if first.ViewCount != 1000 || first.LikeCount != 80 {
		t.Errorf("counters = %d/%d", first.ViewCount, first.LikeCount)
	}
	if first.PublishedAt == nil || first.PublishedAt.Unix() != 1717200000 {
		t.Errorf("PublishedAt = %v", first.PublishedAt)
	}
	if first.WatermarkFreeURL != "https://cdn/a" || first.WatermarkFreeURLAlt1 != "https://cdn/b" || first.WatermarkFreeURLAlt2 != "https://cdn/c" {
		t.Errorf("download urls = %q/%q/%q", first.WatermarkFreeURL, first.WatermarkFreeURLAlt1, first.WatermarkFreeURLAlt2)
	}

	// No share_url in the payload, so the public URL is constructed.
	second := drafts[1]
	if second.PublicVideoURL != "https://www.tiktok.com/@someuser/video/333" {
		t.Errorf("PublicVideoURL = %q", second.PublicVideoURL)
	}
}

func TestSponsoredVideos_ShortCircuits(t *testing.T) {
	// Unknown username shape means no account id, so the pipeline must
	// stop before fetching posts.
	postsCalled := false
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/username-to-id":
			w.Write([]byte(`{}`))
		case "/user-posts":
			postsCalled = true
			w.Write([]byte(`{}`))
		}
	}))

	drafts := c.SponsoredVideos(context.Background(), "ghost")
	if drafts != nil {
		t.Errorf("drafts = %+v, want nil", drafts)
	}
	if postsCalled {
		t.Error("user-posts should not be fetched without an account id")
	}
}

func TestSponsoredVideos_EndToEnd(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/username-to-id":
			json.NewEncoder(w).Encode(map[string]string{"uid": "42"})
		case "/user-posts":
			w.Write([]byte(`{"aweme_list":[
				{"aweme_id":7300000000000000001,"desc":"promo @El Dorado P2P","share_url":"https://www.tiktok.com/@u/video/7300000000000000001"},
				{"aweme_id":"x","desc":"nothing here"}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	drafts := c.SponsoredVideos(context.Background(), "someuser")
	if len(drafts) != 1 {
		t.Fatalf("drafts = %d, want 1", len(drafts))
	}
	if drafts[0].TikTokVideoID != "7300000000000000001" {
		t.Errorf("numeric aweme_id should decode losslessly, got %q", drafts[0].TikTokVideoID)
	}
}

func TestTruncate_MultiByteCaption(t *testing.T) {
	caption := "promoção açaí do Eldorado"
	got := truncate(caption, 10)
	if got != "promoção a..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate should leave short strings alone, got %q", got)
	}
}
