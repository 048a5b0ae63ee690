package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/internal/infrastructure/store/memory"
	"github.com/medeiros-dev/notification-decision/internal/observability/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetUserPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	args := m.Called(ctx, userID)
	prefs, _ := args.Get(0).(domain.UserPreferences)
	return prefs, args.Error(1)
}

func (m *MockStore) GetDndWindows(ctx context.Context, userID string) ([]domain.DndWindow, error) {
	args := m.Called(ctx, userID)
	windows, _ := args.Get(0).([]domain.DndWindow)
	return windows, args.Error(1)
}

func (m *MockStore) SetUserPreferences(ctx context.Context, userID string, eventTypes domain.EventTypes) error {
	return m.Called(ctx, userID, eventTypes).Error(0)
}

func (m *MockStore) UpdateUserPreferences(ctx context.Context, userID string, eventTypes domain.EventTypes) error {
	return m.Called(ctx, userID, eventTypes).Error(0)
}

func (m *MockStore) AddDndWindow(ctx context.Context, userID string, window domain.DndWindow) (string, error) {
	args := m.Called(ctx, userID, window)
	return args.String(0), args.Error(1)
}

func (m *MockStore) RemoveDndWindow(ctx context.Context, userID, windowID string) error {
	return m.Called(ctx, userID, windowID).Error(0)
}

func newTestStore(inner *MockStore, maxRetries int) (*Store, *[]time.Duration) {
	var sleeps []time.Duration
	s := Wrap(inner, maxRetries, 10*time.Millisecond).(*Store)
	s.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return ctx.Err()
	}
	return s, &sleeps
}

func TestWrap_Disabled(t *testing.T) {
	inner := memory.New()
	assert.Same(t, inner, Wrap(inner, 0, time.Millisecond))
}

func TestStore_GetUserPreferences(t *testing.T) {
	transient := errors.New("throttled")
	prefs := domain.UserPreferences{UserID: "usr_1", EventTypes: domain.EventTypes{}}

	tests := []struct {
		name          string
		setup         func(m *MockStore)
		expectedErr   error
		expectedCalls int
		expectedSleep int
	}{
		{
			name: "Succeeds first time",
			setup: func(m *MockStore) {
				m.On("GetUserPreferences", mock.Anything, "usr_1").Return(prefs, nil).Once()
			},
			expectedCalls: 1,
		},
		{
			name: "Recovers after transient failures",
			setup: func(m *MockStore) {
				m.On("GetUserPreferences", mock.Anything, "usr_1").Return(domain.UserPreferences{}, transient).Twice()
				m.On("GetUserPreferences", mock.Anything, "usr_1").Return(prefs, nil).Once()
			},
			expectedCalls: 3,
			expectedSleep: 2,
		},
		{
			name: "Gives up after max retries",
			setup: func(m *MockStore) {
				m.On("GetUserPreferences", mock.Anything, "usr_1").Return(domain.UserPreferences{}, transient).Times(4)
			},
			expectedErr:   transient,
			expectedCalls: 4,
			expectedSleep: 3,
		},
		{
			name: "Malformed record is not retried",
			setup: func(m *MockStore) {
				corrupt := fmt.Errorf("%w: event types for user usr_1: unexpected end of JSON input", domain.ErrMalformedRecord)
				m.On("GetUserPreferences", mock.Anything, "usr_1").Return(domain.UserPreferences{}, corrupt).Once()
			},
			expectedErr:   domain.ErrMalformedRecord,
			expectedCalls: 1,
		},
		{
			name: "Not found is not retried",
			setup: func(m *MockStore) {
				m.On("GetUserPreferences", mock.Anything, "usr_1").Return(domain.UserPreferences{}, domain.ErrNotFound).Once()
			},
			expectedErr:   domain.ErrNotFound,
			expectedCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := new(MockStore)
			tt.setup(inner)
			s, sleeps := newTestStore(inner, 3)

			got, err := s.GetUserPreferences(context.Background(), "usr_1")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, prefs, got)
			}
			inner.AssertNumberOfCalls(t, "GetUserPreferences", tt.expectedCalls)
			assert.Len(t, *sleeps, tt.expectedSleep)
			inner.AssertExpectations(t)
		})
	}
}

func TestStore_StopsWhenContextCancelled(t *testing.T) {
	inner := new(MockStore)
	transient := errors.New("connection refused")
	inner.On("GetDndWindows", mock.Anything, "usr_1").Return(nil, transient).Once()
	s, _ := newTestStore(inner, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetDndWindows(ctx, "usr_1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, transient)
	inner.AssertNumberOfCalls(t, "GetDndWindows", 1)
}

func TestStore_CountsRetries(t *testing.T) {
	inner := new(MockStore)
	transient := errors.New("busy")
	inner.On("RemoveDndWindow", mock.Anything, "usr_1", "w1").Return(transient).Once()
	inner.On("RemoveDndWindow", mock.Anything, "usr_1", "w1").Return(nil).Once()
	s, _ := newTestStore(inner, 2)

	counter := metrics.StoreRetriesTotal.WithLabelValues("remove_dnd_window")
	before := testutil.ToFloat64(counter)

	require.NoError(t, s.RemoveDndWindow(context.Background(), "usr_1", "w1"))
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestStore_WritesDelegate(t *testing.T) {
	inner := new(MockStore)
	eventTypes := domain.EventTypes{"a": {Enabled: true, Channels: []string{"email"}}}
	window := domain.DndWindow{Days: []string{"monday"}, StartTime: "08:00", EndTime: "09:00"}
	inner.On("SetUserPreferences", mock.Anything, "usr_1", eventTypes).Return(nil).Once()
	inner.On("UpdateUserPreferences", mock.Anything, "usr_1", eventTypes).Return(domain.ErrNotFound).Once()
	inner.On("AddDndWindow", mock.Anything, "usr_1", window).Return("", errors.New("disk full")).Once()
	s, sleeps := newTestStore(inner, 3)
	ctx := context.Background()

	assert.NoError(t, s.SetUserPreferences(ctx, "usr_1", eventTypes))
	assert.ErrorIs(t, s.UpdateUserPreferences(ctx, "usr_1", eventTypes), domain.ErrNotFound)
	_, err := s.AddDndWindow(ctx, "usr_1", window)
	assert.EqualError(t, err, "disk full")

	assert.Empty(t, *sleeps)
	inner.AssertExpectations(t)
	assert.Same(t, inner, s.Unwrap())
}

func TestStore_DeadlineDuringBackoff(t *testing.T) {
	inner := new(MockStore)
	transient := errors.New("throttled")
	inner.On("GetUserPreferences", mock.Anything, "usr_1").Return(domain.UserPreferences{}, transient).Once()
	s, _ := newTestStore(inner, 3)
	s.sleep = func(ctx context.Context, d time.Duration) error {
		return context.DeadlineExceeded
	}

	_, err := s.GetUserPreferences(context.Background(), "usr_1")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, transient)
	inner.AssertNumberOfCalls(t, "GetUserPreferences", 1)
}
