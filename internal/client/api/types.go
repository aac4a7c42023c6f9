package api

type Song struct {
	ID      int64   `json:"id"`
	OwnerID string  `json:"owner_id"`
	Name    string  `json:"name"`
	Artist  string  `json:"artist"`
	Length  int64   `json:"length"`
	Album   *string `json:"album,omitempty"`
	Genre   *string `json:"genre,omitempty"`
}

type Review struct {
	ID      int64   `json:"id"`
	OwnerID string  `json:"owner_id"`
	SongID  int64   `json:"song_id"`
	Rating  int64   `json:"rating"`
	Text    *string `json:"text,omitempty"`
}

type Photo struct {
	ID      int64   `json:"id"`
	SongID  int64   `json:"song_id"`
	Caption *string `json:"caption,omitempty"`
}

type SongDetail struct {
	Song
	Reviews []Review `json:"reviews"`
	Photos  []Photo  `json:"photos"`
}

type SongPage struct {
	Records    []Song            `json:"records"`
	PageNumber int               `json:"pageNumber"`
	TotalPages int               `json:"totalPages"`
	PageSize   int               `json:"pageSize"`
	TotalCount int               `json:"totalCount"`
	Links      map[string]string `json:"links"`
}

type NewUser struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type NewSong struct {
	OwnerID string  `json:"owner_id"`
	Name    string  `json:"name"`
	Artist  string  `json:"artist"`
	Length  int64   `json:"length"`
	Album   *string `json:"album,omitempty"`
	Genre   *string `json:"genre,omitempty"`
}

type NewReview struct {
	OwnerID string  `json:"owner_id"`
	SongID  int64   `json:"song_id"`
	Rating  int64   `json:"rating"`
	Text    *string `json:"text,omitempty"`
}

type NewPhoto struct {
	OwnerID string  `json:"owner_id"`
	SongID  int64   `json:"song_id"`
	Caption *string `json:"caption,omitempty"`
}
