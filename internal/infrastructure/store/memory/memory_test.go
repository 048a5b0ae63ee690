package memory

import (
	"context"
	"testing"
	"time"

	"github.com/medeiros-dev/notification-decision/internal/app/registry"
	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/store"
	"github.com/medeiros-dev/notification-decision/internal/infrastructure/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreContract(t *testing.T) {
	storetest.RunContract(t, func(t *testing.T) store.PreferencesStore {
		return New()
	})
}

func TestStore_DeterministicClockAndIDs(t *testing.T) {
	s := New()
	fixed := time.Date(2025, 5, 28, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	s.newID = func() string { return "window-1" }

	ctx := context.Background()
	id, err := s.AddDndWindow(ctx, "usr_1", domain.DndWindow{WindowID: "ignored", UserID: "ignored", Days: []string{"monday"}, StartTime: "08:00", EndTime: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, "window-1", id)

	windows, err := s.GetDndWindows(ctx, "usr_1")
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, "usr_1", windows[0].UserID)
	assert.Equal(t, fixed, windows[0].CreatedAt)
}

func TestStore_RegisteredDriver(t *testing.T) {
	factory, err := registry.GetStoreFactory(DriverName)
	require.NoError(t, err)

	s, err := factory(nil)
	require.NoError(t, err)
	assert.IsType(t, &Store{}, s)
}
