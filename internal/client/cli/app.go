package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/songkeeper/internal/client/api"
	"github.com/dmitrijs2005/songkeeper/internal/client/config"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// apiClient is the part of *api.Client the commands use.
type apiClient interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, u api.NewUser) (string, error)
	Login(ctx context.Context, userID, password string) error
	SetToken(token string)
	ListSongs(ctx context.Context, page int) (*api.SongPage, error)
	GetSong(ctx context.Context, id int64) (*api.SongDetail, error)
	CreateSong(ctx context.Context, s api.NewSong) (int64, error)
	DeleteSong(ctx context.Context, id int64) error
	CreateReview(ctx context.Context, r api.NewReview) (int64, error)
	CreatePhoto(ctx context.Context, p api.NewPhoto) (int64, string, error)
	Upload(ctx context.Context, uploadURL string, data []byte) error
	MySongs(ctx context.Context, userID string) ([]api.Song, error)
}

type App struct {
	config *config.Config
	api    apiClient
	userID string
	Mode   Mode
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (app *App) setMode(mode Mode) {
	if app.Mode != mode {
		app.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.userID != ""
}

func (a *App) getStatus() string {
	s := string(a.Mode)
	if a.userID != "" {
		s = a.userID + " " + s
	}
	return s
}

// Run starts the reachability watcher and the REPL on stdin.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Println("Welcome to songkeeper CLI (type 'help' for commands)")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
