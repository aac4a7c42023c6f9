package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/dmitrijs2005/songkeeper/internal/logging"
	"github.com/dmitrijs2005/songkeeper/internal/pagination"
	"github.com/dmitrijs2005/songkeeper/internal/schema"
	"github.com/dmitrijs2005/songkeeper/internal/server/auth"
	"github.com/dmitrijs2005/songkeeper/internal/server/models"
	"github.com/dmitrijs2005/songkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPing(t *testing.T) {
	h := newHarness()
	rec := h.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestListSongs(t *testing.T) {
	h := newHarness()
	h.songs.page = &services.SongPage{
		Window:  pagination.Compute(2, 25, 10),
		Records: []*models.Song{{ID: 11, Name: "a"}},
	}

	rec := h.do(t, http.MethodGet, "/songs?page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, h.songs.gotPage)

	body := decode(t, rec)
	assert.EqualValues(t, 2, body["pageNumber"])
	assert.EqualValues(t, 3, body["totalPages"])
	assert.EqualValues(t, 10, body["pageSize"])
	assert.EqualValues(t, 25, body["totalCount"])
	assert.Len(t, body["records"], 1)

	links := body["links"].(map[string]any)
	assert.Equal(t, "/songs?page=3", links["nextPage"])
	assert.Equal(t, "/songs?page=1", links["prevPage"])
}

func TestListSongs_BadPageAndEmpty(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodGet, "/songs?page=abc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, h.songs.gotPage)
	assert.Equal(t, []any{}, decode(t, rec)["records"])
}

func TestListSongs_StoreError(t *testing.T) {
	h := newHarness()
	h.songs.err = errors.New("connection refused to 10.0.0.5")

	rec := h.do(t, http.MethodGet, "/songs", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestCreateSong(t *testing.T) {
	h := newHarness()
	h.songs.createID = 7

	rec := h.do(t, http.MethodPost, "/songs", `{"owner_id":"alice","name":"n","artist":"a","length":120}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	assert.EqualValues(t, 7, body["id"])
	assert.Equal(t, "/songs/7", body["links"].(map[string]any)["song"])
	assert.Equal(t, json.Number("120"), h.songs.gotBody["length"])
}

func TestCreateSong_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"not json", `{`, nil, http.StatusBadRequest},
		{"array", `[1,2]`, nil, http.StatusBadRequest},
		{"null", `null`, nil, http.StatusBadRequest},
		{"empty", ``, nil, http.StatusBadRequest},
		{"trailing object", `{"owner_id":"a"} {"x":1}`, nil, http.StatusBadRequest},
		{"trailing garbage", `{"owner_id":"a"} garbage`, nil, http.StatusBadRequest},
		{"validation", `{}`, &schema.ValidationError{Violations: []schema.Violation{{Field: "name", Reason: "is required"}}}, http.StatusBadRequest},
		{"unknown owner", `{}`, fmt.Errorf("%w: %q", common.ErrOwnerNotFound, "ghost"), http.StatusBadRequest},
		{"partial failure", `{}`, &services.PartialFailureError{Kind: models.KindSong, RecordID: 1, OwnerID: "a", Err: common.ErrorNotFound}, http.StatusInternalServerError},
		{"store", `{}`, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.songs.err = tt.err
			rec := h.do(t, http.MethodPost, "/songs", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCreateSong_TrailingDataNeverReachesService(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodPost, "/songs", `{"owner_id":"a"} {"x":1} garbage`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "unexpected data")
	assert.Nil(t, h.songs.gotBody)

	rec = h.do(t, http.MethodPost, "/songs", "{\"owner_id\":\"a\"}\n\t ")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateSong_ValidationViolationsInBody(t *testing.T) {
	h := newHarness()
	h.songs.err = &schema.ValidationError{Violations: []schema.Violation{{Field: "length", Reason: "must be an integer"}}}

	rec := h.do(t, http.MethodPost, "/songs", `{"length":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	v := decode(t, rec)["violations"].([]any)
	require.Len(t, v, 1)
	assert.Equal(t, "length", v[0].(map[string]any)["field"])
}

func TestGetSong(t *testing.T) {
	h := newHarness()
	h.songs.detail = &models.SongDetail{
		Song:    &models.Song{ID: 5, Name: "x"},
		Reviews: []*models.Review{{ID: 1, SongID: 5, Rating: 4}},
		Photos:  []*models.Photo{},
	}

	rec := h.do(t, http.MethodGet, "/songs/5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), h.songs.gotID)

	body := decode(t, rec)
	assert.Equal(t, "x", body["name"])
	assert.Len(t, body["reviews"], 1)
	assert.Equal(t, []any{}, body["photos"])
}

func TestGetSong_NotFound(t *testing.T) {
	h := newHarness()
	h.songs.err = common.ErrorNotFound

	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/songs/5", nil).Code)
}

func TestNonNumericID_IsNotFound(t *testing.T) {
	h := newHarness()
	for _, path := range []string{"/songs/abc", "/reviews/1.5", "/photos/x"} {
		rec := h.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodDelete, "/songs/abc", nil).Code)
	assert.Zero(t, h.songs.gotID)
}

func TestUpdateSong(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodPut, "/songs/9", `{"name":"new"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/songs/9", decode(t, rec)["links"].(map[string]any)["song"])
	assert.Equal(t, "new", h.songs.gotBody["name"])

	h.songs.err = common.ErrorNotFound
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodPut, "/songs/9", `{"name":"new"}`).Code)
}

func TestDeleteSong(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodDelete, "/songs/9", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	h.songs.err = common.ErrorNotFound
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodDelete, "/songs/9", nil).Code)
}

func TestReviewRoutes(t *testing.T) {
	h := newHarness()
	h.reviews.review = &models.Review{ID: 3, Rating: 5}

	rec := h.do(t, http.MethodPost, "/reviews", `{"owner_id":"a","song_id":1,"rating":5}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/reviews/3", decode(t, rec)["links"].(map[string]any)["review"])

	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/reviews/3", nil).Code)
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodPut, "/reviews/3", `{"rating":1}`).Code)
	assert.Equal(t, http.StatusNoContent, h.do(t, http.MethodDelete, "/reviews/3", nil).Code)

	h.reviews.err = common.ErrReferenceNotFound
	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPost, "/reviews", `{"song_id":99}`).Code)
}

func TestPhotoRoutes(t *testing.T) {
	h := newHarness()
	h.photos.photo = &models.PhotoWithURL{Photo: &models.Photo{ID: 4, StorageKey: "k"}, URL: "https://s3.test/get"}

	rec := h.do(t, http.MethodPost, "/photos", `{"owner_id":"a","song_id":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "https://s3.test/put", body["uploadURL"])
	assert.Equal(t, "/photos/4", body["links"].(map[string]any)["photo"])

	rec = h.do(t, http.MethodGet, "/photos/4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://s3.test/get", decode(t, rec)["url"])

	assert.Equal(t, http.StatusOK, h.do(t, http.MethodPut, "/photos/4", `{"caption":"c"}`).Code)
	assert.Equal(t, http.StatusNoContent, h.do(t, http.MethodDelete, "/photos/4", nil).Code)
}

func TestRegister(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodPost, "/users", `{"user_id":"alice","name":"A","email":"a@x","password":"p"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "doc-1", body["_id"])
	assert.Equal(t, "/users/alice", body["links"].(map[string]any)["user"])

	h.users.err = common.ErrAlreadyExists
	assert.Equal(t, http.StatusConflict, h.do(t, http.MethodPost, "/users", `{"user_id":"alice"}`).Code)
}

func TestLogin(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodPost, "/users/login", `{"user_id":"alice","password":"p"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", decode(t, rec)["token"])
	assert.Equal(t, "alice", h.users.creds.UserID)

	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPost, "/users/login", `nope`).Code)

	h.users.loginErr = common.ErrorUnauthorized
	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodPost, "/users/login", `{"user_id":"alice","password":"bad"}`).Code)

	h.users.loginErr = nil
	h.users.creds = models.Credentials{}
	for _, body := range []string{`{}`, `{"user_id":"alice"}`, `{"password":"p"}`, `{"user_id":"","password":"p"}`} {
		rec := h.do(t, http.MethodPost, "/users/login", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, decode(t, rec)["error"], "required", body)
	}
	assert.Empty(t, h.users.creds.UserID, "service must not be called without credentials")
}

func TestProfile_AccessControl(t *testing.T) {
	h := newHarness()
	h.users.user = &models.User{ID: "doc-1", UserID: "alice", PasswordHash: "secret-hash"}

	foreign, err := auth.NewTokenService([]byte("other-secret"), time.Hour).Issue("alice")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header []string
		want   int
	}{
		{"no header", nil, http.StatusUnauthorized},
		{"wrong scheme", []string{"Authorization", "Basic abc"}, http.StatusUnauthorized},
		{"garbage token", []string{"Authorization", "Bearer abc.def.ghi"}, http.StatusUnauthorized},
		{"other user", h.bearer(t, "bob"), http.StatusForbidden},
		{"lowercase scheme", []string{"Authorization", "bearer " + h.bearer(t, "alice")[1][len("Bearer "):]}, http.StatusOK},
		{"self", h.bearer(t, "alice"), http.StatusOK},
		{"foreign secret", []string{"Authorization", "Bearer " + foreign}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, http.MethodGet, "/users/alice", nil, tt.header...)
			assert.Equal(t, tt.want, rec.Code)
			assert.NotContains(t, rec.Body.String(), "secret-hash")
		})
	}
}

func TestProfile_NotFound(t *testing.T) {
	h := newHarness()
	h.users.err = common.ErrorNotFound

	rec := h.do(t, http.MethodGet, "/users/alice", nil, h.bearer(t, "alice")...)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOwnerListings(t *testing.T) {
	h := newHarness()
	h.songs.owned = []*models.Song{{ID: 1, OwnerID: "alice"}}
	bearer := h.bearer(t, "alice")

	rec := h.do(t, http.MethodGet, "/users/alice/songs", nil, bearer...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["records"], 1)
	assert.Equal(t, "alice", h.songs.listOwner)

	rec = h.do(t, http.MethodGet, "/users/alice/reviews", nil, bearer...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decode(t, rec)["records"])

	rec = h.do(t, http.MethodGet, "/users/alice/photos", nil, bearer...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["records"], 1)

	assert.Equal(t, http.StatusForbidden, h.do(t, http.MethodGet, "/users/bob/songs", nil, bearer...).Code)
	assert.NotEqual(t, "bob", h.songs.listOwner)
}

func TestRecovery(t *testing.T) {
	h := newHarness()
	h.srv.engine.GET("/boom", func(*gin.Context) { panic("kaboom") })

	rec := h.do(t, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "kaboom")
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness()
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/playlists", nil).Code)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	srv := NewServer("127.0.0.1:0", logging.NopLogger{}, nil, Services{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{common.ErrValidation, http.StatusBadRequest},
		{common.ErrOwnerNotFound, http.StatusBadRequest},
		{common.ErrReferenceNotFound, http.StatusBadRequest},
		{common.ErrUnauthenticated, http.StatusUnauthorized},
		{common.ErrorUnauthorized, http.StatusUnauthorized},
		{common.ErrForbidden, http.StatusForbidden},
		{common.ErrorNotFound, http.StatusNotFound},
		{common.ErrAlreadyExists, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", common.ErrorNotFound), http.StatusNotFound},
		{&services.PartialFailureError{Err: common.ErrorNotFound}, http.StatusInternalServerError},
		{errors.New("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		code, msg := statusFor(tt.err)
		assert.Equal(t, tt.want, code, tt.err.Error())
		if code == http.StatusInternalServerError {
			assert.Equal(t, internalErrorMessage, msg)
		}
	}
}
