// Package httpapi exposes the services as a JSON API over gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/songkeeper/internal/logging"
	"github.com/dmitrijs2005/songkeeper/internal/server/models"
	"github.com/dmitrijs2005/songkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

type SongService interface {
	Create(ctx context.Context, payload map[string]any) (int64, error)
	Get(ctx context.Context, id int64) (*models.SongDetail, error)
	List(ctx context.Context, page int) (*services.SongPage, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Song, error)
	Update(ctx context.Context, id int64, payload map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type ReviewService interface {
	Create(ctx context.Context, payload map[string]any) (int64, error)
	Get(ctx context.Context, id int64) (*models.Review, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Review, error)
	Update(ctx context.Context, id int64, payload map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type PhotoService interface {
	Create(ctx context.Context, payload map[string]any) (int64, string, error)
	Get(ctx context.Context, id int64) (*models.PhotoWithURL, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Photo, error)
	Update(ctx context.Context, id int64, payload map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type UserService interface {
	Register(ctx context.Context, payload map[string]any) (string, error)
	Login(ctx context.Context, c models.Credentials) (string, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
}

// Authenticator is satisfied by *auth.Guard.
type Authenticator interface {
	Authenticate(rawHeader string) (string, error)
	AuthorizeSelf(actingUserID, targetUserID string) error
}

type Services struct {
	Songs   SongService
	Reviews ReviewService
	Photos  PhotoService
	Users   UserService
}

type Server struct {
	address string
	logger  logging.Logger
	guard   Authenticator
	svc     Services
	engine  *gin.Engine

	shutdownTimeout time.Duration
}

func NewServer(a string, l logging.Logger, guard Authenticator, svc Services) *Server {
	s := &Server{
		address:         a,
		logger:          l.With("module", "http_server"),
		guard:           guard,
		svc:             svc,
		shutdownTimeout: 5 * time.Second,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.requestLogger(), s.recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/songs", s.listSongs)
	r.POST("/songs", s.createSong)
	r.GET("/songs/:id", s.getSong)
	r.PUT("/songs/:id", s.updateSong)
	r.DELETE("/songs/:id", s.deleteSong)

	r.POST("/reviews", s.createReview)
	r.GET("/reviews/:id", s.getReview)
	r.PUT("/reviews/:id", s.updateReview)
	r.DELETE("/reviews/:id", s.deleteReview)

	r.POST("/photos", s.createPhoto)
	r.GET("/photos/:id", s.getPhoto)
	r.PUT("/photos/:id", s.updatePhoto)
	r.DELETE("/photos/:id", s.deletePhoto)

	users := r.Group("/users")
	users.POST("", s.register)
	users.POST("/login", s.login)

	self := users.Group("/:userID", s.requireSelf())
	{
		self.GET("", s.profile)
		self.GET("/songs", s.userSongs)
		self.GET("/reviews", s.userReviews)
		self.GET("/photos", s.userPhotos)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
