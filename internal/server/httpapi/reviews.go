package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func reviewLink(id int64) string { return fmt.Sprintf("/reviews/%d", id) }

func (s *Server) createReview(c *gin.Context) {
	payload, err := readPayload(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	id, err := s.svc.Reviews.Create(c.Request.Context(), payload)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "links": gin.H{"review": reviewLink(id)}})
}

func (s *Server) getReview(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	r, err := s.svc.Reviews.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

func (s *Server) updateReview(c *gin.Context) {
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

	if err := s.svc.Reviews.Update(c.Request.Context(), id, payload); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": gin.H{"review": reviewLink(id)}})
}

func (s *Server) deleteReview(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.svc.Reviews.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
