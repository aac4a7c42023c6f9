package models

import "github.com/dmitrijs2005/songkeeper/internal/schema"

type Review struct {
	ID      int64   `json:"id"`
	OwnerID string  `json:"owner_id"`
	SongID  int64   `json:"song_id"`
	Rating  int64   `json:"rating"`
	Text    *string `json:"text,omitempty"`
}

type ReviewPatch struct {
	Rating *int64
	Text   *string
}

var ratingRange = &schema.Range{Min: 1, Max: 5}

var ReviewCreateSchema = schema.Schema{Fields: []schema.Field{
	{Name: "owner_id", Type: schema.String, Required: true},
	{Name: "song_id", Type: schema.Int, Required: true},
	{Name: "rating", Type: schema.Int, Required: true, Range: ratingRange},
	{Name: "text", Type: schema.String},
}}

var ReviewUpdateSchema = schema.Schema{Fields: []schema.Field{
	{Name: "rating", Type: schema.Int, Range: ratingRange},
	{Name: "text", Type: schema.String},
}}

func ReviewFromValues(v schema.Values) *Review {
	return &Review{
		OwnerID: v.String("owner_id"),
		SongID:  v.Int("song_id"),
		Rating:  v.Int("rating"),
		Text:    v.StringPtr("text"),
	}
}

func ReviewPatchFromValues(v schema.Values) ReviewPatch {
	p := ReviewPatch{Text: v.StringPtr("text")}
	if v.Has("rating") {
		n := v.Int("rating")
		p.Rating = &n
	}
	return p
}
