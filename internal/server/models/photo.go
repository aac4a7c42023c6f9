package models

import "github.com/dmitrijs2005/songkeeper/internal/schema"

// Photo is cover art attached to a song. The image itself lives in object
// storage under StorageKey; clients upload and download it through
// presigned URLs.
type Photo struct {
	ID         int64   `json:"id"`
	OwnerID    string  `json:"owner_id"`
	SongID     int64   `json:"song_id"`
	Caption    *string `json:"caption,omitempty"`
	StorageKey string  `json:"storage_key"`
}

// PhotoWithURL is returned on create (upload URL) and read (download URL).
type PhotoWithURL struct {
	*Photo
	URL string `json:"url,omitempty"`
}

var PhotoCreateSchema = schema.Schema{Fields: []schema.Field{
	{Name: "owner_id", Type: schema.String, Required: true},
	{Name: "song_id", Type: schema.Int, Required: true},
	{Name: "caption", Type: schema.String},
}}

var PhotoUpdateSchema = schema.Schema{Fields: []schema.Field{
	{Name: "caption", Type: schema.String, Required: true},
}}

func PhotoFromValues(v schema.Values) *Photo {
	return &Photo{
		OwnerID: v.String("owner_id"),
		SongID:  v.Int("song_id"),
		Caption: v.StringPtr("caption"),
	}
}
