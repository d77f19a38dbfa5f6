package rest

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/plms/internal/common"
	"github.com/dmitrijs2005/plms/internal/server/models"
	"github.com/dmitrijs2005/plms/internal/server/services"
	"github.com/gin-gonic/gin"
)

// toolView adds the German display labels to a tool.
type toolView struct {
	models.Tool
	StatusLabel   string `json:"status_label"`
	CategoryLabel string `json:"category_label"`
}

func newToolView(t models.Tool) toolView {
	return toolView{Tool: t, StatusLabel: t.Status.Label(), CategoryLabel: t.Category.Label()}
}

type toolListResponse struct {
	Tools []toolView `json:"tools"`
	Total int        `json:"total"`
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func (s *Server) listTools(c *gin.Context) {
	limit, err := queryInt(c, "limit", services.DefaultPageSize)
	if err != nil {
		s.writeError(c, common.ErrorValidation)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		s.writeError(c, common.ErrorValidation)
		return
	}

	page, err := s.tools.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := toolListResponse{Tools: make([]toolView, 0, len(page.Tools)), Total: page.Total}
	for _, t := range page.Tools {
		resp.Tools = append(resp.Tools, newToolView(t))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) createTool(c *gin.Context) {
	var in models.NewTool
	if err := c.ShouldBindJSON(&in); err != nil {
		s.writeError(c, common.ErrorValidation)
		return
	}

	tool, err := s.tools.Create(c.Request.Context(), in)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newToolView(*tool))
}

func (s *Server) documentUploadURL(c *gin.Context) {
	up, err := s.documents.UploadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":        up.Key,
		"upload_url": up.URL,
		"expires_in": int(services.PresignLifetime.Seconds()),
	})
}

func (s *Server) documentURL(c *gin.Context) {
	url, err := s.documents.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"download_url": url,
		"expires_in":   int(services.PresignLifetime.Seconds()),
	})
}

type commitDocumentRequest struct {
	Key string `json:"key" binding:"required"`
}

// commitDocument attaches an uploaded object to the tool.
func (s *Server) commitDocument(c *gin.Context) {
	var req commitDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, common.ErrorValidation)
		return
	}

	tool, err := s.documents.CommitDocument(c.Request.Context(), c.Param("id"), req.Key)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newToolView(*tool))
}
