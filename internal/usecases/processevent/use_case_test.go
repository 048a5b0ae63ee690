package processevent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockDecider struct {
	mock.Mock
}

func (m *MockDecider) Process(ctx context.Context, event domain.NotificationEvent) (domain.Decision, error) {
	args := m.Called(ctx, event)
	decision, _ := args.Get(0).(domain.Decision)
	return decision, args.Error(1)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, cmd domain.NotificationCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockProcessEventUseCase struct {
	mock.Mock
}

func (m *MockProcessEventUseCase) Execute(ctx context.Context, event domain.NotificationEvent) (domain.Decision, error) {
	args := m.Called(ctx, event)
	decision, _ := args.Get(0).(domain.Decision)
	return decision, args.Error(1)
}

// --- Tests ---

func testEvent() domain.NotificationEvent {
	return domain.NotificationEvent{
		EventID:   "evt_12345",
		UserID:    "usr_abc",
		EventType: "item_shipped",
		Timestamp: time.Date(2025, 5, 28, 10, 0, 0, 0, time.UTC),
	}
}

func TestProcessEventUseCase_Execute(t *testing.T) {
	event := testEvent()
	received := time.Date(2025, 5, 28, 10, 0, 1, 0, time.UTC)
	expectedCmd := domain.NewNotificationCommand(event, received)
	process := domain.ProcessNotification(event, []string{"email"})
	chainErr := errors.New("store unavailable")
	auditErr := errors.New("audit sink down")

	tests := []struct {
		name        string
		decision    domain.Decision
		chainErr    error
		auditErr    error
		expectedErr error
	}{
		{
			name:     "Success",
			decision: process,
		},
		{
			name:     "Do not notify",
			decision: domain.DoNotNotify(event, domain.ReasonDndActive),
		},
		{
			name:        "Chain error propagates",
			chainErr:    chainErr,
			expectedErr: chainErr,
		},
		{
			name:        "Audit failure is fatal",
			decision:    process,
			auditErr:    auditErr,
			expectedErr: auditErr,
		},
		{
			name:        "Chain error wins over audit error",
			chainErr:    chainErr,
			auditErr:    auditErr,
			expectedErr: chainErr,
		},
		{
			name:        "NotFound from chain propagates",
			chainErr:    domain.ErrNotFound,
			expectedErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decider := new(MockDecider)
			recorder := new(MockRecorder)
			decider.On("Process", mock.Anything, event).Return(tt.decision, tt.chainErr).Once()
			recorder.On("Record", mock.Anything, expectedCmd).Return(tt.auditErr).Once()

			uc := NewProcessEventUseCase(decider, recorder).(*processEventUseCase)
			uc.now = func() time.Time { return received }

			decision, err := uc.Execute(context.Background(), event)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Equal(t, domain.Decision{}, decision)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.decision, decision)
			}
			decider.AssertExpectations(t)
			recorder.AssertExpectations(t)
		})
	}
}

func TestProcessEventUseCase_AwaitsSlowAudit(t *testing.T) {
	event := testEvent()
	decider := new(MockDecider)
	recorder := new(MockRecorder)
	finished := make(chan struct{})

	decider.On("Process", mock.Anything, event).Return(domain.ProcessNotification(event, []string{"sms"}), nil).Once()
	recorder.On("Record", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			time.Sleep(20 * time.Millisecond)
			close(finished)
		}).
		Return(nil).Once()

	_, err := NewProcessEventUseCase(decider, recorder).Execute(context.Background(), event)
	require.NoError(t, err)

	select {
	case <-finished:
	default:
		t.Fatal("Execute returned before the audit record completed")
	}
}
