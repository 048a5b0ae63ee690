package preferences

import "github.com/medeiros-dev/notification-decision/internal/domain/port/store"

func NewPreferences(s store.PreferencesStore) *PreferencesHandler {
	useCase := NewPreferencesUseCase(s)
	return NewPreferencesHandler(useCase)
}
