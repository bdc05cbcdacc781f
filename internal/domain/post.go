package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
)

// PostID is the post identifier. The backend assigns numeric ids while
// locally cached posts carry a "local_" prefixed one, so the wire value may
// be either a JSON number or a JSON string.
type PostID string

func (id *PostID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = PostID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("post id must be a string or number: %w", err)
	}
	*id = PostID(n.String())
	return nil
}

// Post is a feed entry as served by the backend.
type Post struct {
	ID          PostID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Image       string `json:"image"`
	LikesCount  int    `json:"likes_count"`
	Liked       bool   `json:"liked"`
}

// PostPatch is a partial post as returned by the update endpoint. Fields the
// server omits stay nil so a merge never clobbers local values.
type PostPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Image       *string `json:"image"`
	LikesCount  *int    `json:"likes_count"`
	Liked       *bool   `json:"liked"`
}

// Apply merges the non-nil fields of patch over the post in place.
func (p *Post) Apply(patch PostPatch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.LikesCount != nil {
		p.LikesCount = *patch.LikesCount
	}
	if patch.Liked != nil {
		p.Liked = *patch.Liked
	}
}

// LocalPost is the fallback record written to durable storage whenever a
// post is created. It mirrors the shape kept under the "localPosts" key.
type LocalPost struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	ImagePreview string `json:"imagePreview"`
	LikesCount   int    `json:"likes_count"`
	Liked        bool   `json:"liked"`
}

// PostInput is the user-collected payload for create and update.
type PostInput struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	Location    string
	Image       *ImageAttachment
}

// ImageAttachment is a single image picked by the user.
type ImageAttachment struct {
	FileName string
	Data     []byte
}

// DataURI encodes the attachment as a data URI for the local preview copy.
func (a *ImageAttachment) DataURI() string {
	if a == nil || len(a.Data) == 0 {
		return ""
	}
	mime := http.DetectContentType(a.Data)
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(a.Data))
}
