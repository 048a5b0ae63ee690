package preferences

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/pkg/logger"
	"go.uber.org/zap"
)

type PreferencesHandler struct {
	useCase PreferencesUseCase
}

func NewPreferencesHandler(useCase PreferencesUseCase) *PreferencesHandler {
	return &PreferencesHandler{
		useCase: useCase,
	}
}

// Get serves GET /user/:userId/preferences.
func (h *PreferencesHandler) Get(c *gin.Context) {
	userID := c.Param("userId")
	prefs, err := h.useCase.Get(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// Set serves POST /user/:userId/preferences.
func (h *PreferencesHandler) Set(c *gin.Context) {
	userID := c.Param("userId")
	var input PreferencesInputDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	if err := h.useCase.Set(c.Request.Context(), userID, input.EventTypes); err != nil {
		h.fail(c, userID, err)
		return
	}
	c.JSON(http.StatusCreated, MessageOutputDTO{Message: "Preferences set successfully"})
}

// Update serves PUT /user/:userId/preferences.
func (h *PreferencesHandler) Update(c *gin.Context) {
	userID := c.Param("userId")
	var input PreferencesInputDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	if err := h.useCase.Update(c.Request.Context(), userID, input.EventTypes); err != nil {
		h.fail(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, MessageOutputDTO{Message: "Preference updated"})
}

func (h *PreferencesHandler) fail(c *gin.Context, userID string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPreferences):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User preferences not found"})
	default:
		logger.Ctx(c.Request.Context()).Error("Error handling preferences request",
			zap.String("userID", userID),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to handle preferences request"})
	}
}
