package dndwindows

import "github.com/medeiros-dev/notification-decision/internal/domain/port/store"

func NewDndWindows(s store.PreferencesStore) *DndWindowsHandler {
	useCase := NewDndWindowsUseCase(s)
	return NewDndWindowsHandler(useCase)
}
