package models

import "github.com/dmitrijs2005/songkeeper/internal/schema"

// Song is the primary structured record.
type Song struct {
	ID      int64   `json:"id"`
	OwnerID string  `json:"owner_id"`
	Name    string  `json:"name"`
	Artist  string  `json:"artist"`
	Length  int64   `json:"length"`
	Album   *string `json:"album,omitempty"`
	Genre   *string `json:"genre,omitempty"`
}

// SongPatch holds the mutable song fields; nil means unchanged.
type SongPatch struct {
	Name   *string
	Artist *string
	Length *int64
	Album  *string
	Genre  *string
}

// SongDetail is a song with the records attached to it.
type SongDetail struct {
	*Song
	Reviews []*Review `json:"reviews"`
	Photos  []*Photo  `json:"photos"`
}

var SongCreateSchema = schema.Schema{Fields: []schema.Field{
	{Name: "owner_id", Type: schema.String, Required: true},
	{Name: "name", Type: schema.String, Required: true},
	{Name: "artist", Type: schema.String, Required: true},
	{Name: "length", Type: schema.Int, Required: true, Range: &schema.Range{Min: 0, Max: 1 << 31}},
	{Name: "album", Type: schema.String},
	{Name: "genre", Type: schema.String},
}}

// SongUpdateSchema has no owner_id: ownership is fixed at creation.
var SongUpdateSchema = schema.Schema{Fields: []schema.Field{
	{Name: "name", Type: schema.String},
	{Name: "artist", Type: schema.String},
	{Name: "length", Type: schema.Int, Range: &schema.Range{Min: 0, Max: 1 << 31}},
	{Name: "album", Type: schema.String},
	{Name: "genre", Type: schema.String},
}}

func SongFromValues(v schema.Values) *Song {
	return &Song{
		OwnerID: v.String("owner_id"),
		Name:    v.String("name"),
		Artist:  v.String("artist"),
		Length:  v.Int("length"),
		Album:   v.StringPtr("album"),
		Genre:   v.StringPtr("genre"),
	}
}

func SongPatchFromValues(v schema.Values) SongPatch {
	p := SongPatch{
		Name:   v.StringPtr("name"),
		Artist: v.StringPtr("artist"),
		Album:  v.StringPtr("album"),
		Genre:  v.StringPtr("genre"),
	}
	if v.Has("length") {
		n := v.Int("length")
		p.Length = &n
	}
	return p
}
