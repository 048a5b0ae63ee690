package preferences

import "github.com/medeiros-dev/notification-decision/internal/domain"

// PreferencesInputDTO is the body of POST and PUT /user/:userId/preferences.
type PreferencesInputDTO struct {
	EventTypes domain.EventTypes `json:"eventTypes" binding:"required"`
}

type MessageOutputDTO struct {
	Message string `json:"message"`
}
