package models

import "github.com/dmitrijs2005/songkeeper/internal/schema"

// User is the profile document kept in the document store. PasswordHash is
// only populated when a read asks for it and is never serialized.
type User struct {
	ID           string  `json:"_id"`
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Songs        []int64 `json:"songs"`
	Reviews      []int64 `json:"reviews"`
	Photos       []int64 `json:"photos"`
}

// OwnedIDs returns the ownership list for kind.
func (u *User) OwnedIDs(kind RecordKind) []int64 {
	switch kind {
	case KindSong:
		return u.Songs
	case KindReview:
		return u.Reviews
	case KindPhoto:
		return u.Photos
	}
	return nil
}

var UserCreateSchema = schema.Schema{Fields: []schema.Field{
	{Name: "user_id", Type: schema.String, Required: true},
	{Name: "name", Type: schema.String, Required: true},
	{Name: "email", Type: schema.String, Required: true},
	{Name: "password", Type: schema.String, Required: true},
}}

// Credentials is the login request body. Both fields are required when it
// is bound from a request.
type Credentials struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}
