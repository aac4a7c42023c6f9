package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKind_OwnershipField(t *testing.T) {
	assert.Equal(t, "songs", KindSong.OwnershipField())
	assert.Equal(t, "reviews", KindReview.OwnershipField())
	assert.Equal(t, "photos", KindPhoto.OwnershipField())
	assert.Equal(t, "", RecordKind("playlist").OwnershipField())
	assert.False(t, RecordKind("users; DROP").Valid())
}

func TestUser_OwnedIDs(t *testing.T) {
	u := &User{Songs: []int64{1}, Reviews: []int64{2, 3}, Photos: []int64{4}}
	assert.Equal(t, []int64{1}, u.OwnedIDs(KindSong))
	assert.Equal(t, []int64{2, 3}, u.OwnedIDs(KindReview))
	assert.Equal(t, []int64{4}, u.OwnedIDs(KindPhoto))
	assert.Nil(t, u.OwnedIDs("other"))
}

func TestSongFromValues(t *testing.T) {
	v, err := SongCreateSchema.Validate(map[string]any{
		"owner_id": "alice", "name": "So What", "artist": "Miles Davis",
		"length": float64(562), "genre": "jazz",
	})
	require.NoError(t, err)

	s := SongFromValues(v)
	assert.Equal(t, "alice", s.OwnerID)
	assert.Equal(t, int64(562), s.Length)
	assert.Nil(t, s.Album)
	require.NotNil(t, s.Genre)
	assert.Equal(t, "jazz", *s.Genre)
}

func TestSongUpdateSchema_IgnoresOwner(t *testing.T) {
	v, err := SongUpdateSchema.Validate(map[string]any{"owner_id": "mallory", "length": float64(10)})
	require.NoError(t, err)
	assert.False(t, v.Has("owner_id"))

	p := SongPatchFromValues(v)
	require.NotNil(t, p.Length)
	assert.Equal(t, int64(10), *p.Length)
	assert.Nil(t, p.Name)
}

func TestSongUpdateSchema_OwnerOnlyIsRejected(t *testing.T) {
	_, err := SongUpdateSchema.Validate(map[string]any{"owner_id": "mallory"})
	require.Error(t, err)
}

func TestReviewCreateSchema_RatingRange(t *testing.T) {
	base := map[string]any{"owner_id": "a", "song_id": float64(1)}

	for _, r := range []float64{1, 3, 5} {
		base["rating"] = r
		v, err := ReviewCreateSchema.Validate(base)
		require.NoError(t, err)
		assert.Equal(t, int64(r), ReviewFromValues(v).Rating)
	}
	for _, r := range []float64{0, 6, 2.5} {
		base["rating"] = r
		_, err := ReviewCreateSchema.Validate(base)
		require.Error(t, err, "rating %v", r)
	}
}

func TestReviewPatchFromValues(t *testing.T) {
	v, err := ReviewUpdateSchema.Validate(map[string]any{"text": "great"})
	require.NoError(t, err)
	p := ReviewPatchFromValues(v)
	assert.Nil(t, p.Rating)
	assert.Equal(t, "great", *p.Text)
}

func TestPhotoFromValues(t *testing.T) {
	v, err := PhotoCreateSchema.Validate(map[string]any{"owner_id": "a", "song_id": float64(9)})
	require.NoError(t, err)
	p := PhotoFromValues(v)
	assert.Equal(t, int64(9), p.SongID)
	assert.Nil(t, p.Caption)
	assert.Empty(t, p.StorageKey)
}
