package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/songkeeper/internal/pagination"
	"github.com/dmitrijs2005/songkeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

func songLink(id int64) string { return fmt.Sprintf("/songs/%d", id) }

func (s *Server) listSongs(c *gin.Context) {
	page, err := s.svc.Songs.List(c.Request.Context(), pagination.ParsePage(c.Query("page")))
	if err != nil {
		s.writeError(c, err)
		return
	}

	records := page.Records
	if records == nil {
		records = []*models.Song{}
	}

	c.JSON(http.StatusOK, gin.H{
		"records":    records,
		"pageNumber": page.Window.Page,
		"totalPages": page.Window.TotalPages,
		"pageSize":   page.Window.PageSize,
		"totalCount": page.Window.TotalCount,
		"links":      page.Window.Links("/songs"),
	})
}

func (s *Server) createSong(c *gin.Context) {
	payload, err := readPayload(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	id, err := s.svc.Songs.Create(c.Request.Context(), payload)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "links": gin.H{"song": songLink(id)}})
}

func (s *Server) getSong(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	song, err := s.svc.Songs.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, song)
}

func (s *Server) updateSong(c *gin.Context) {
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

	if err := s.svc.Songs.Update(c.Request.Context(), id, payload); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": gin.H{"song": songLink(id)}})
}

func (s *Server) deleteSong(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.svc.Songs.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
