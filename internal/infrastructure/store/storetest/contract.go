// Package storetest holds the behaviour every store.PreferencesStore
// implementation is expected to share.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/medeiros-dev/notification-decision/internal/domain"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunContract runs the shared store tests. newStore must return an empty store.
func RunContract(t *testing.T, newStore func(t *testing.T) store.PreferencesStore) {
	t.Run("GetUserPreferences missing user", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetUserPreferences(context.Background(), "nobody")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("Set then get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		eventTypes := domain.EventTypes{
			"item_shipped":      {Enabled: true, Channels: []string{"push", "email"}},
			"invoice_generated": {Enabled: false, Channels: []string{}},
		}

		require.NoError(t, s.SetUserPreferences(ctx, "usr_1", eventTypes))

		prefs, err := s.GetUserPreferences(ctx, "usr_1")
		require.NoError(t, err)
		assert.Equal(t, "usr_1", prefs.UserID)
		assert.Equal(t, []string{"push", "email"}, prefs.EventTypes["item_shipped"].Channels)
		assert.True(t, prefs.EventTypes["item_shipped"].Enabled)
		assert.False(t, prefs.EventTypes["invoice_generated"].Enabled)
		assert.Empty(t, prefs.EventTypes["invoice_generated"].Channels)
		assert.False(t, prefs.CreatedAt.IsZero())
		assert.True(t, prefs.CreatedAt.Equal(prefs.UpdatedAt))
	})

	t.Run("Set replaces wholesale", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.SetUserPreferences(ctx, "usr_1", domain.EventTypes{"a": {Enabled: true, Channels: []string{"email"}}}))
		require.NoError(t, s.SetUserPreferences(ctx, "usr_1", domain.EventTypes{"b": {Enabled: true, Channels: []string{"sms"}}}))

		prefs, err := s.GetUserPreferences(ctx, "usr_1")
		require.NoError(t, err)
		assert.NotContains(t, prefs.EventTypes, "a")
		assert.Contains(t, prefs.EventTypes, "b")
	})

	t.Run("Update keeps creation time", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.SetUserPreferences(ctx, "usr_1", domain.EventTypes{"a": {Enabled: true, Channels: []string{"email"}}}))
		before, err := s.GetUserPreferences(ctx, "usr_1")
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		require.NoError(t, s.UpdateUserPreferences(ctx, "usr_1", domain.EventTypes{"b": {Enabled: false, Channels: []string{}}}))

		after, err := s.GetUserPreferences(ctx, "usr_1")
		require.NoError(t, err)
		assert.True(t, before.CreatedAt.Equal(after.CreatedAt))
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
		assert.NotContains(t, after.EventTypes, "a")
		assert.Contains(t, after.EventTypes, "b")
	})

	t.Run("Update missing user", func(t *testing.T) {
		s := newStore(t)
		err := s.UpdateUserPreferences(context.Background(), "nobody", domain.EventTypes{})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("Returned preferences are not shared", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		eventTypes := domain.EventTypes{"a": {Enabled: true, Channels: []string{"email"}}}
		require.NoError(t, s.SetUserPreferences(ctx, "usr_1", eventTypes))
		eventTypes["a"].Channels[0] = "changed"

		prefs, err := s.GetUserPreferences(ctx, "usr_1")
		require.NoError(t, err)
		prefs.EventTypes["a"].Channels[0] = "changed again"

		again, err := s.GetUserPreferences(ctx, "usr_1")
		require.NoError(t, err)
		assert.Equal(t, "email", again.EventTypes["a"].Channels[0])
	})

	t.Run("No windows yields empty list", func(t *testing.T) {
		s := newStore(t)
		windows, err := s.GetDndWindows(context.Background(), "usr_1")
		require.NoError(t, err)
		assert.NotNil(t, windows)
		assert.Empty(t, windows)
	})

	t.Run("Add windows keeps order and assigns ids", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first, err := s.AddDndWindow(ctx, "usr_1", domain.DndWindow{Days: []string{"monday"}, StartTime: "22:00", EndTime: "06:00"})
		require.NoError(t, err)
		second, err := s.AddDndWindow(ctx, "usr_1", domain.DndWindow{Days: []string{"saturday", "sunday"}, StartTime: "08:00", EndTime: "10:00", Timezone: "Europe/Warsaw"})
		require.NoError(t, err)
		_, err = s.AddDndWindow(ctx, "usr_2", domain.DndWindow{Days: []string{"friday"}, StartTime: "08:00", EndTime: "10:00"})
		require.NoError(t, err)

		assert.NotEmpty(t, first)
		assert.NotEqual(t, first, second)

		windows, err := s.GetDndWindows(ctx, "usr_1")
		require.NoError(t, err)
		require.Len(t, windows, 2)
		assert.Equal(t, first, windows[0].WindowID)
		assert.Equal(t, "usr_1", windows[0].UserID)
		assert.Equal(t, domain.DefaultTimezone, windows[0].Timezone)
		assert.Equal(t, []string{"monday"}, windows[0].Days)
		assert.Equal(t, "22:00", windows[0].StartTime)
		assert.Equal(t, "06:00", windows[0].EndTime)
		assert.Equal(t, second, windows[1].WindowID)
		assert.Equal(t, "Europe/Warsaw", windows[1].Timezone)
		assert.Equal(t, []string{"saturday", "sunday"}, windows[1].Days)
	})

	t.Run("Remove window", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		keep, err := s.AddDndWindow(ctx, "usr_1", domain.DndWindow{Days: []string{"monday"}, StartTime: "08:00", EndTime: "09:00"})
		require.NoError(t, err)
		drop, err := s.AddDndWindow(ctx, "usr_1", domain.DndWindow{Days: []string{"tuesday"}, StartTime: "08:00", EndTime: "09:00"})
		require.NoError(t, err)

		require.NoError(t, s.RemoveDndWindow(ctx, "usr_1", drop))

		windows, err := s.GetDndWindows(ctx, "usr_1")
		require.NoError(t, err)
		require.Len(t, windows, 1)
		assert.Equal(t, keep, windows[0].WindowID)
	})

	t.Run("Remove unknown window is a no-op", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		keep, err := s.AddDndWindow(ctx, "usr_1", domain.DndWindow{Days: []string{"monday"}, StartTime: "08:00", EndTime: "09:00"})
		require.NoError(t, err)

		assert.NoError(t, s.RemoveDndWindow(ctx, "usr_1", "does-not-exist"))
		assert.NoError(t, s.RemoveDndWindow(ctx, "nobody", "does-not-exist"))
		assert.NoError(t, s.RemoveDndWindow(ctx, "usr_2", keep))

		windows, err := s.GetDndWindows(ctx, "usr_1")
		require.NoError(t, err)
		require.Len(t, windows, 1)
		assert.Equal(t, keep, windows[0].WindowID)
	})

	t.Run("Concurrent use", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.SetUserPreferences(ctx, "usr_1", domain.EventTypes{"a": {Enabled: true, Channels: []string{"email"}}}))

		var wg sync.WaitGroup
		errs := make(chan error, 40)
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, err := s.AddDndWindow(ctx, "usr_1", domain.DndWindow{Days: []string{"monday"}, StartTime: "08:00", EndTime: "09:00"})
				errs <- err
			}()
			go func() {
				defer wg.Done()
				_, err := s.GetUserPreferences(ctx, "usr_1")
				errs <- err
				_, err = s.GetDndWindows(ctx, "usr_1")
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			assert.NoError(t, err)
		}

		windows, err := s.GetDndWindows(ctx, "usr_1")
		require.NoError(t, err)
		assert.Len(t, windows, 10)
	})
}
