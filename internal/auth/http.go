package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts account and session endpoints. Registration and
// connect are open; disconnect and the profile endpoint sit behind the
// identity middleware.
func RegisterRoutes(public, protected *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	public.POST("/users", handler.register)
	public.GET("/connect", handler.connect)
	protected.GET("/disconnect", handler.disconnect)
	protected.GET("/users/me", handler.me)
}

type httpHandler struct {
	service *Service
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *httpHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email"})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case ErrMissingEmail:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email"})
		case ErrMissingPassword:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing password"})
		case ErrEmailAlreadyExists:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Already exist"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, user.View())
}

func (h *httpHandler) connect(c *gin.Context) {
	email, password, ok := c.Request.BasicAuth()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	token, err := h.service.Connect(c.Request.Context(), email, password)
	if err != nil {
		if err == ErrUnauthorized {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *httpHandler) disconnect(c *gin.Context) {
	if err := h.service.Disconnect(c.Request.Context(), c.GetHeader(TokenHeader)); err != nil {
		if err == ErrUnauthorized {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign out"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *httpHandler) me(c *gin.Context) {
	user, err := h.service.CurrentUser(c.Request.Context(), c.GetHeader(TokenHeader))
	if err != nil {
		if err == ErrUnauthorized {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, user.View())
}
