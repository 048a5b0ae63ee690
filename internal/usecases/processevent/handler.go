package processevent

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/pkg/logger"
	"go.uber.org/zap"
)

type ProcessEventHandler struct {
	useCase ProcessEventUseCase
}

func NewProcessEventHandler(useCase ProcessEventUseCase) *ProcessEventHandler {
	return &ProcessEventHandler{
		useCase: useCase,
	}
}

// Handle serves POST /event. PROCESS_NOTIFICATION answers 202, every
// DO_NOT_NOTIFY answers 200; both carry the decision as the body.
func (h *ProcessEventHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	var input ProcessEventInputDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	event, err := input.ToEvent()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	decision, err := h.useCase.Execute(ctx, event)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User preferences not found"})
			return
		}
		logger.Ctx(ctx).Error("Error processing notification event",
			zap.String("eventID", event.EventID),
			zap.String("userID", event.UserID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process notification event"})
		return
	}

	switch decision.Outcome {
	case domain.OutcomeProcessNotification:
		c.JSON(http.StatusAccepted, decision)
	case domain.OutcomeDoNotNotify:
		c.JSON(http.StatusOK, decision)
	default:
		logger.Ctx(ctx).Error("Unknown decision outcome",
			zap.String("eventID", event.EventID),
			zap.String("decision", string(decision.Outcome)),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process notification event"})
	}
}
