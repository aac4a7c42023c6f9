package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/dmitrijs2005/songkeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) register(c *gin.Context) {
	payload, err := readPayload(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	id, err := s.svc.Users.Register(c.Request.Context(), payload)
	if err != nil {
		s.writeError(c, err)
		return
	}

	userID, _ := payload["user_id"].(string)
	c.JSON(http.StatusCreated, gin.H{"_id": id, "links": gin.H{"user": "/users/" + userID}})
}

func (s *Server) login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	token, err := s.svc.Users.Login(c.Request.Context(), creds)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) profile(c *gin.Context) {
	u, err := s.svc.Users.Profile(c.Request.Context(), c.Param("userID"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) userSongs(c *gin.Context) {
	records, err := s.svc.Songs.ListByOwner(c.Request.Context(), c.Param("userID"))
	respondRecords(s, c, records, err)
}

func (s *Server) userReviews(c *gin.Context) {
	records, err := s.svc.Reviews.ListByOwner(c.Request.Context(), c.Param("userID"))
	respondRecords(s, c, records, err)
}

func (s *Server) userPhotos(c *gin.Context) {
	records, err := s.svc.Photos.ListByOwner(c.Request.Context(), c.Param("userID"))
	respondRecords(s, c, records, err)
}

func respondRecords[T any](s *Server, c *gin.Context, records []T, err error) {
	if err != nil {
		s.writeError(c, err)
		return
	}
	if records == nil {
		records = []T{}
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}
