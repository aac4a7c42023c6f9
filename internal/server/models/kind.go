// Package models defines the records and documents the server stores.
package models

// RecordKind names a kind of owned relational record.
type RecordKind string

const (
	KindSong   RecordKind = "song"
	KindReview RecordKind = "review"
	KindPhoto  RecordKind = "photo"
)

// OwnershipField is the user document list that holds ids of this kind.
// The result is always one of a fixed set of names.
func (k RecordKind) OwnershipField() string {
	switch k {
	case KindSong:
		return "songs"
	case KindReview:
		return "reviews"
	case KindPhoto:
		return "photos"
	default:
		return ""
	}
}

func (k RecordKind) Valid() bool {
	return k.OwnershipField() != ""
}
