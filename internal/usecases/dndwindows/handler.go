package dndwindows

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/pkg/logger"
	"go.uber.org/zap"
)

type DndWindowsHandler struct {
	useCase DndWindowsUseCase
}

func NewDndWindowsHandler(useCase DndWindowsUseCase) *DndWindowsHandler {
	return &DndWindowsHandler{
		useCase: useCase,
	}
}

// Add serves POST /user/:userId/dnd-windows.
func (h *DndWindowsHandler) Add(c *gin.Context) {
	userID := c.Param("userId")
	var input DndWindowInputDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	windowID, err := h.useCase.Add(c.Request.Context(), userID, input.ToWindow())
	if err != nil {
		h.fail(c, userID, err)
		return
	}
	c.JSON(http.StatusCreated, AddWindowOutputDTO{
		WindowID: windowID,
		Message:  "DND window added successfully",
	})
}

// List serves GET /user/:userId/dnd-windows.
func (h *DndWindowsHandler) List(c *gin.Context) {
	userID := c.Param("userId")
	windows, err := h.useCase.List(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, windows)
}

// Remove serves DELETE /user/:userId/dnd-windows/:windowId.
func (h *DndWindowsHandler) Remove(c *gin.Context) {
	userID := c.Param("userId")
	if err := h.useCase.Remove(c.Request.Context(), userID, c.Param("windowId")); err != nil {
		h.fail(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, MessageOutputDTO{Message: "DND window removed successfully"})
}

func (h *DndWindowsHandler) fail(c *gin.Context, userID string, err error) {
	if errors.Is(err, domain.ErrInvalidWindow) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logger.Ctx(c.Request.Context()).Error("Error handling DND window request",
		zap.String("userID", userID),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to handle DND window request"})
}
