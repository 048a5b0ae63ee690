package processevent

import (
	"github.com/medeiros-dev/notification-decision/internal/app/chain"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/audit"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/store"
)

func NewProcessEvent(reader store.PreferencesReader, recorder audit.Recorder) *ProcessEventHandler {
	useCase := NewProcessEventUseCase(chain.New(reader), recorder)
	return NewProcessEventHandler(useCase)
}
