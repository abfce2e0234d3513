package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/pushgate/internal/model"
	"github.com/dtroode/pushgate/internal/testutil"
)

func newGatekeeper(prefs model.PreferenceReader, notifier model.Notifier, focuser model.Focuser) *Gatekeeper {
	return NewGatekeeper(prefs, notifier, focuser, "/icons/icon-192.png", 20*time.Millisecond, testutil.MakeNoopLogger())
}

func TestGatekeeper_MaybeShow_PreferenceDisabled(t *testing.T) {
	userID := uuid.New()
	prefs := &MockPreferenceReader{}
	prefs.On("CategoryEnabled", mock.Anything, userID, model.CategorySales).Return(false)
	notifier := &MockNotifier{}

	g := newGatekeeper(prefs, notifier, &MockFocuser{})
	shown := g.MaybeShow(context.Background(), userID, model.CategorySales, "Sale", "New sale logged", "sale-1")

	assert.False(t, shown)
	notifier.AssertNotCalled(t, "Show", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Permission")
}

func TestGatekeeper_MaybeShow_PermissionNotGranted(t *testing.T) {
	for _, permission := range []model.Permission{model.PermissionDenied, model.PermissionDefault} {
		t.Run(string(permission), func(t *testing.T) {
			userID := uuid.New()
			prefs := &MockPreferenceReader{}
			prefs.On("CategoryEnabled", mock.Anything, userID, model.CategoryBatches).Return(true)

			notifier := &MockNotifier{}
			notifier.On("Permission").Return(permission)

			g := newGatekeeper(prefs, notifier, &MockFocuser{})
			shown := g.MaybeShow(context.Background(), userID, model.CategoryBatches, "Batch", "Batch ready", "batch-7")

			assert.False(t, shown)
			notifier.AssertNotCalled(t, "Show", mock.Anything, mock.Anything)
			// A background delivery path must never prompt.
			notifier.AssertNotCalled(t, "RequestPermission", mock.Anything)
		})
	}
}

func TestGatekeeper_MaybeShow_Displays(t *testing.T) {
	userID := uuid.New()
	prefs := &MockPreferenceReader{}
	prefs.On("CategoryEnabled", mock.Anything, userID, model.CategoryReports).Return(true)

	active := newFakeActiveNotification()
	notifier := &MockNotifier{}
	notifier.On("Permission").Return(model.PermissionGranted)
	notifier.On("Show", mock.Anything, model.Notification{
		Title: "Report",
		Body:  "Weekly report is ready",
		Tag:   "report-weekly",
		Icon:  "/icons/icon-192.png",
	}).Return(active, nil).Once()

	g := newGatekeeper(prefs, notifier, &MockFocuser{})
	shown := g.MaybeShow(context.Background(), userID, model.CategoryReports, "Report", "Weekly report is ready", "report-weekly")

	assert.True(t, shown)
	notifier.AssertExpectations(t)
}

func TestGatekeeper_MaybeShow_DisplayFailureIsSuppressed(t *testing.T) {
	userID := uuid.New()
	prefs := &MockPreferenceReader{}
	prefs.On("CategoryEnabled", mock.Anything, userID, model.CategorySales).Return(true)

	notifier := &MockNotifier{}
	notifier.On("Permission").Return(model.PermissionGranted)
	notifier.On("Show", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	g := newGatekeeper(prefs, notifier, &MockFocuser{})

	assert.False(t, g.MaybeShow(context.Background(), userID, model.CategorySales, "Sale", "New sale", "sale-2"))
}

func TestGatekeeper_AutoDismissAfterInterval(t *testing.T) {
	userID := uuid.New()
	prefs := &MockPreferenceReader{}
	prefs.On("CategoryEnabled", mock.Anything, userID, model.CategorySales).Return(true)

	active := newFakeActiveNotification()
	notifier := &MockNotifier{}
	notifier.On("Permission").Return(model.PermissionGranted)
	notifier.On("Show", mock.Anything, mock.Anything).Return(active, nil)

	g := newGatekeeper(prefs, notifier, &MockFocuser{})
	require.True(t, g.MaybeShow(context.Background(), userID, model.CategorySales, "Sale", "New sale", "sale-3"))

	select {
	case <-active.dismissed:
	case <-time.After(time.Second):
		t.Fatal("notification was not auto-dismissed")
	}
}

func TestGatekeeper_ClickFocusesAndDismisses(t *testing.T) {
	userID := uuid.New()
	prefs := &MockPreferenceReader{}
	prefs.On("CategoryEnabled", mock.Anything, userID, model.CategorySales).Return(true)

	active := newFakeActiveNotification()
	notifier := &MockNotifier{}
	notifier.On("Permission").Return(model.PermissionGranted)
	notifier.On("Show", mock.Anything, mock.Anything).Return(active, nil)

	focused := make(chan struct{})
	focuser := &MockFocuser{}
	focuser.On("Focus", mock.Anything).Run(func(mock.Arguments) { close(focused) }).Return(nil)

	g := NewGatekeeper(prefs, notifier, focuser, "", time.Minute, testutil.MakeNoopLogger())
	require.True(t, g.MaybeShow(context.Background(), userID, model.CategorySales, "Sale", "New sale", "sale-4"))

	close(active.clicked)

	select {
	case <-focused:
	case <-time.After(time.Second):
		t.Fatal("click did not focus the application")
	}
	select {
	case <-active.dismissed:
	case <-time.After(time.Second):
		t.Fatal("click did not dismiss the notification")
	}
}
