package scraptik

import (
	"bytes"
	"encoding/json"
)

// FlexID decodes an identifier the provider may send as either a JSON
// string or a JSON number.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// PostBatch is the raw user-posts response. The provider has shipped the
// post list under both "aweme_list" and "data".
type PostBatch struct {
	AwemeList []Post `json:"aweme_list"`
	Data      []Post `json:"data"`
}

// Posts returns whichever list the provider populated.
func (b *PostBatch) Posts() []Post {
	if len(b.AwemeList) > 0 {
		return b.AwemeList
	}
	return b.Data
}

// Post is one raw TikTok post from the provider.
type Post struct {
	AwemeID    FlexID `json:"aweme_id"`
	ID         FlexID `json:"id"`
	Desc       string `json:"desc"`
	CreateTime int64  `json:"create_time"`
	ShareURL   string `json:"share_url"`

	Author struct {
		UniqueID string `json:"unique_id"`
	} `json:"author"`

	Statistics struct {
		PlayCount    int64 `json:"play_count"`
		DiggCount    int64 `json:"digg_count"`
		CommentCount int64 `json:"comment_count"`
		ShareCount   int64 `json:"share_count"`
	} `json:"statistics"`

	Video struct {
		PlayAddr struct {
			URLList []string `json:"url_list"`
		} `json:"play_addr"`
		DownloadAddr struct {
			URLList []string `json:"url_list"`
		} `json:"download_addr"`
	} `json:"video"`
}

// VideoID returns the post id, preferring aweme_id over id.
func (p *Post) VideoID() string {
	if id := p.AwemeID.String(); id != "" {
		return id
	}
	return p.ID.String()
}

// downloadURLs picks up to three direct-download candidates, preferring the
// play address list and falling back to the download address.
func (p *Post) downloadURLs() (primary, alt1, alt2 string) {
	urls := p.Video.PlayAddr.URLList
	if len(urls) == 0 {
		urls = p.Video.DownloadAddr.URLList
	}
	if len(urls) > 0 {
		primary = urls[0]
	}
	if len(urls) > 1 {
		alt1 = urls[1]
	}
	if len(urls) > 2 {
		alt2 = urls[2]
	}
	return primary, alt1, alt2
}
