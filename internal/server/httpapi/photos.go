package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func photoLink(id int64) string { return fmt.Sprintf("/photos/%d", id) }

// createPhoto answers with a presigned PUT URL; the client uploads the
// image bytes there directly.
func (s *Server) createPhoto(c *gin.Context) {
	payload, err := readPayload(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	id, uploadURL, err := s.svc.Photos.Create(c.Request.Context(), payload)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        id,
		"uploadURL": uploadURL,
		"links":     gin.H{"photo": photoLink(id)},
	})
}

func (s *Server) getPhoto(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	p, err := s.svc.Photos.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (s *Server) updatePhoto(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	payload, err := readPayload(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.svc.Photos.Update(c.Request.Context(), id, payload); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": gin.H{"photo": photoLink(id)}})
}

func (s *Server) deletePhoto(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.svc.Photos.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
