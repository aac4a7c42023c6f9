package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/dmitrijs2005/songkeeper/internal/dbx"
	"github.com/dmitrijs2005/songkeeper/internal/logging"
	"github.com/dmitrijs2005/songkeeper/internal/server/models"
	"github.com/dmitrijs2005/songkeeper/internal/server/repositories/photos"
	"github.com/dmitrijs2005/songkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/songkeeper/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/songkeeper/internal/server/repositories/songs"
	"github.com/dmitrijs2005/songkeeper/internal/server/repositories/users"
)

// -------- test fakes --------

type fakeUsersRepo struct {
	users.Repository
	byID map[string]*models.User

	getErr    error
	createErr error
	appendErr error

	appendCalls int
	lastOpts    []users.FetchOption
}

func newFakeUsersRepo(ids ...string) *fakeUsersRepo {
	f := &fakeUsersRepo{byID: map[string]*models.User{}}
	for _, id := range ids {
		f.byID[id] = &models.User{ID: "doc-" + id, UserID: id}
	}
	return f
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	if _, ok := f.byID[u.UserID]; ok {
		return "", common.ErrAlreadyExists
	}
	cp := *u
	cp.ID = "doc-" + u.UserID
	f.byID[u.UserID] = &cp
	return cp.ID, nil
}

func (f *fakeUsersRepo) GetByUserID(ctx context.Context, userID string, opts ...users.FetchOption) (*models.User, error) {
	f.lastOpts = opts
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) AppendOwnedRecord(ctx context.Context, userID string, kind models.RecordKind, id int64) error {
	f.appendCalls++
	if f.appendErr != nil {
		return f.appendErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	switch kind {
	case models.KindSong:
		u.Songs = append(u.Songs, id)
	case models.KindReview:
		u.Reviews = append(u.Reviews, id)
	case models.KindPhoto:
		u.Photos = append(u.Photos, id)
	}
	return nil
}

func (f *fakeUsersRepo) Ping(ctx context.Context) error { return f.getErr }

type fakeSongsRepo struct {
	songs.Repository
	rows   map[int64]*models.Song
	nextID int64

	createErr error
	countErr  error

	lastOffset, lastLimit int
	deleted               []int64
	updated               []models.SongPatch
}

func newFakeSongsRepo() *fakeSongsRepo {
	return &fakeSongsRepo{rows: map[int64]*models.Song{}}
}

func (f *fakeSongsRepo) Create(ctx context.Context, s *models.Song) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	cp := *s
	cp.ID = f.nextID
	f.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeSongsRepo) GetByID(ctx context.Context, id int64) (*models.Song, error) {
	return f.rows[id], nil
}

func (f *fakeSongsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Song, error) {
	var out []*models.Song
	for id := int64(1); id <= f.nextID; id++ {
		if s, ok := f.rows[id]; ok && s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSongsRepo) Count(ctx context.Context) (int, error) {
	return len(f.rows), f.countErr
}

func (f *fakeSongsRepo) ListPage(ctx context.Context, offset, limit int) ([]*models.Song, error) {
	f.lastOffset, f.lastLimit = offset, limit
	var all []*models.Song
	for id := int64(1); id <= f.nextID; id++ {
		if s, ok := f.rows[id]; ok {
			all = append(all, s)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (f *fakeSongsRepo) Update(ctx context.Context, id int64, p models.SongPatch) (int64, error) {
	s, ok := f.rows[id]
	if !ok {
		return 0, nil
	}
	f.updated = append(f.updated, p)
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Length != nil {
		s.Length = *p.Length
	}
	return 1, nil
}

func (f *fakeSongsRepo) Delete(ctx context.Context, id int64) (int64, error) {
	f.deleted = append(f.deleted, id)
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

type fakeReviewsRepo struct {
	reviews.Repository
	rows   map[int64]*models.Review
	nextID int64

	createErr       error
	deleteBySongErr error
	deletedBySong   []int64
}

func newFakeReviewsRepo() *fakeReviewsRepo {
	return &fakeReviewsRepo{rows: map[int64]*models.Review{}}
}

func (f *fakeReviewsRepo) Create(ctx context.Context, r *models.Review) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	cp := *r
	cp.ID = f.nextID
	f.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeReviewsRepo) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	return f.rows[id], nil
}

func (f *fakeReviewsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Review, error) {
	var out []*models.Review
	for _, r := range f.rows {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewsRepo) ListBySong(ctx context.Context, songID int64) ([]*models.Review, error) {
	out := []*models.Review{}
	for _, r := range f.rows {
		if r.SongID == songID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewsRepo) Update(ctx context.Context, id int64, p models.ReviewPatch) (int64, error) {
	r, ok := f.rows[id]
	if !ok {
		return 0, nil
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	if p.Text != nil {
		r.Text = p.Text
	}
	return 1, nil
}

func (f *fakeReviewsRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

func (f *fakeReviewsRepo) DeleteBySong(ctx context.Context, songID int64) (int64, error) {
	f.deletedBySong = append(f.deletedBySong, songID)
	if f.deleteBySongErr != nil {
		return 0, f.deleteBySongErr
	}
	var n int64
	for id, r := range f.rows {
		if r.SongID == songID {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

type fakePhotosRepo struct {
	photos.Repository
	rows   map[int64]*models.Photo
	nextID int64

	createCalls   int
	deletedBySong []int64
}

func newFakePhotosRepo() *fakePhotosRepo {
	return &fakePhotosRepo{rows: map[int64]*models.Photo{}}
}

func (f *fakePhotosRepo) Create(ctx context.Context, p *models.Photo) (int64, error) {
	f.createCalls++
	f.nextID++
	cp := *p
	cp.ID = f.nextID
	f.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakePhotosRepo) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	return f.rows[id], nil
}

func (f *fakePhotosRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Photo, error) {
	var out []*models.Photo
	for _, p := range f.rows {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePhotosRepo) ListBySong(ctx context.Context, songID int64) ([]*models.Photo, error) {
	out := []*models.Photo{}
	for _, p := range f.rows {
		if p.SongID == songID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePhotosRepo) UpdateCaption(ctx context.Context, id int64, caption string) (int64, error) {
	p, ok := f.rows[id]
	if !ok {
		return 0, nil
	}
	p.Caption = &caption
	return 1, nil
}

func (f *fakePhotosRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

func (f *fakePhotosRepo) DeleteBySong(ctx context.Context, songID int64) (int64, error) {
	f.deletedBySong = append(f.deletedBySong, songID)
	var n int64
	for id, p := range f.rows {
		if p.SongID == songID {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	s *fakeSongsRepo
	r *fakeReviewsRepo
	p *fakePhotosRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{s: newFakeSongsRepo(), r: newFakeReviewsRepo(), p: newFakePhotosRepo()}
}

func (m *fakeRepoManager) Songs(db dbx.DBTX) songs.Repository     { return m.s }
func (m *fakeRepoManager) Reviews(db dbx.DBTX) reviews.Repository { return m.r }
func (m *fakeRepoManager) Photos(db dbx.DBTX) photos.Repository   { return m.p }

type fakePresigner struct {
	keys    int
	putErr  error
	getErr  error
	lastKey string
}

func (f *fakePresigner) NewKey() string {
	f.keys++
	f.lastKey = "photos/test/" + string(rune('a'+f.keys-1))
	return f.lastKey
}

func (f *fakePresigner) PresignPut(ctx context.Context, key string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	return "https://s3.test/put/" + key, nil
}

func (f *fakePresigner) PresignGet(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return "https://s3.test/get/" + key, nil
}

// recordingLogger keeps error messages and their args.
type recordingLogger struct {
	logging.NopLogger
	errors []recordedEntry
}

type recordedEntry struct {
	msg  string
	args []any
}

func (l *recordingLogger) Error(ctx context.Context, msg string, args ...any) {
	l.errors = append(l.errors, recordedEntry{msg: msg, args: args})
}

func (l *recordingLogger) With(...any) logging.Logger { return l }

var errStore = errors.New("store down")

// -------- helpers --------

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func songPayload(owner string) map[string]any {
	return map[string]any{
		"owner_id": owner,
		"name":     "Blue in Green",
		"artist":   "Miles Davis",
		"length":   float64(337),
	}
}
