package file

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/abenov/filestash/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterRoutes mounts the authenticated file operations and the content
// endpoint. The content route goes on the identified group: anonymous callers
// may fetch public content.
func RegisterRoutes(protected, identified *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	protected.POST("/files", handler.upload)
	protected.GET("/files", handler.list)
	protected.GET("/files/:id", handler.show)
	protected.PUT("/files/:id/publish", handler.publish)
	protected.PUT("/files/:id/unpublish", handler.unpublish)
	identified.GET("/files/:id/data", handler.content)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) upload(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing name"})
		return
	}

	entity, err := h.service.Upload(c.Request.Context(), auth.CurrentUser(c), req)
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		if errors.Is(err, ErrContentWrite) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create file"})
		return
	}

	c.JSON(http.StatusCreated, entity.View())
}

func (h *httpHandler) show(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	entity, err := h.service.Get(c.Request.Context(), id, auth.CurrentUser(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load file"})
		return
	}

	c.JSON(http.StatusOK, entity.View())
}

func (h *httpHandler) list(c *gin.Context) {
	var parentID uuid.NullUUID
	if raw := c.Query("parentId"); raw != "" && raw != "0" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		parentID = uuid.NullUUID{UUID: parsed, Valid: true}
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}

	entities, err := h.service.List(c.Request.Context(), parentID, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return
	}

	views := make([]View, 0, len(entities))
	for _, e := range entities {
		views = append(views, e.View())
	}

	c.JSON(http.StatusOK, views)
}

func (h *httpHandler) publish(c *gin.Context) {
	h.setPublic(c, true)
}

func (h *httpHandler) unpublish(c *gin.Context) {
	h.setPublic(c, false)
}

func (h *httpHandler) setPublic(c *gin.Context, public bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	entity, err := h.service.SetPublic(c.Request.Context(), id, auth.CurrentUser(c), public)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update file"})
		return
	}

	c.JSON(http.StatusOK, entity.View())
}

func (h *httpHandler) content(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	data, contentType, err := h.service.ReadContent(c.Request.Context(), id, auth.CurrentUser(c), c.Query("size"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotAFile):
			c.JSON(http.StatusBadRequest, gin.H{"error": "A folder doesn't have content"})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		}
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

// validationMessage maps validation errors to their client-facing wording.
func validationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrMissingName):
		return "Missing name", true
	case errors.Is(err, ErrMissingType):
		return "Missing type", true
	case errors.Is(err, ErrMissingData):
		return "Missing data", true
	case errors.Is(err, ErrParentNotFound):
		return "Parent not found", true
	case errors.Is(err, ErrParentNotAFolder):
		return "Parent is not a folder", true
	}
	return "", false
}
