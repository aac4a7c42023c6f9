package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second)
}

func TestLogin_StoresTokenAndSendsBearer(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "alice", body["user_id"])
			_, _ = w.Write([]byte(`{"token":"tok"}`))
		case "/users/alice/songs":
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{"records":[{"id":1,"name":"a"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	require.NoError(t, c.Login(context.Background(), "alice", "pw"))
	assert.Equal(t, "tok", c.Token())

	songs, err := c.MySongs(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, common.ErrValidation},
		{http.StatusUnauthorized, common.ErrorUnauthorized},
		{http.StatusForbidden, common.ErrForbidden},
		{http.StatusNotFound, common.ErrorNotFound},
		{http.StatusConflict, common.ErrAlreadyExists},
		{http.StatusInternalServerError, common.ErrorInternal},
	}

	for _, tt := range tests {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte(`{"error":"nope"}`))
		})

		_, err := c.GetSong(context.Background(), 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, tt.want)

		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "nope", se.Message)
	}
}

func TestCreateAndListSongs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/songs":
			var s NewSong
			require.NoError(t, json.NewDecoder(r.Body).Decode(&s))
			assert.Equal(t, int64(200), s.Length)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":12,"links":{"song":"/songs/12"}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/songs":
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			_, _ = w.Write([]byte(`{"records":[],"pageNumber":2,"totalPages":2,"pageSize":10,"totalCount":11,"links":{"prevPage":"/songs?page=1"}}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	id, err := c.CreateSong(context.Background(), NewSong{OwnerID: "a", Name: "n", Artist: "x", Length: 200})
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	p, err := c.ListSongs(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, p.PageNumber)
	assert.Equal(t, 11, p.TotalCount)
	assert.Equal(t, "/songs?page=1", p.Links["prevPage"])

	require.NoError(t, c.DeleteSong(context.Background(), 12))
}

func TestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := NewClient(addr, time.Second)
	err := c.Ping(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCreatePhotoAndUpload(t *testing.T) {
	var uploaded []byte
	var c *Client
	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/photos":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":4,"uploadURL":"` + c.baseURL + `/bucket/photos/k","links":{"photo":"/photos/4"}}`))
		case "/bucket/photos/k":
			assert.Equal(t, http.MethodPut, r.Method)
			uploaded, _ = io.ReadAll(r.Body)
		}
	})

	id, u, err := c.CreatePhoto(context.Background(), NewPhoto{OwnerID: "a", SongID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)

	require.NoError(t, c.Upload(context.Background(), u, []byte("img")))
	assert.Equal(t, "img", string(uploaded))
}
