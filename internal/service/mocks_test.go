package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/pushgate/internal/model"
)

// MockWorkerRuntime mocks the WorkerRuntime interface
type MockWorkerRuntime struct {
	mock.Mock
}

func (m *MockWorkerRuntime) Registration(ctx context.Context, scope string) (model.Worker, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Worker), args.Error(1)
}

func (m *MockWorkerRuntime) Register(ctx context.Context, script, scope string) (model.Worker, error) {
	args := m.Called(ctx, script, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Worker), args.Error(1)
}

// MockWorker mocks the Worker interface
type MockWorker struct {
	mock.Mock
}

func (m *MockWorker) Subscription(ctx context.Context) (model.PushSubscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.PushSubscription), args.Error(1)
}

func (m *MockWorker) Subscribe(ctx context.Context, applicationKey []byte) (model.PushSubscription, error) {
	args := m.Called(ctx, applicationKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.PushSubscription), args.Error(1)
}

// MockPushSubscription mocks the PushSubscription interface
type MockPushSubscription struct {
	mock.Mock
}

func (m *MockPushSubscription) Endpoint() string {
	return m.Called().String(0)
}

func (m *MockPushSubscription) Keys() (string, string) {
	args := m.Called()
	return args.String(0), args.String(1)
}

func (m *MockPushSubscription) Unsubscribe(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockNotifier mocks the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Permission() model.Permission {
	return m.Called().Get(0).(model.Permission)
}

func (m *MockNotifier) RequestPermission(ctx context.Context) (model.Permission, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Permission), args.Error(1)
}

func (m *MockNotifier) Show(ctx context.Context, n model.Notification) (model.ActiveNotification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.ActiveNotification), args.Error(1)
}

// MockFocuser mocks the Focuser interface
type MockFocuser struct {
	mock.Mock
}

func (m *MockFocuser) Focus(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockSubscriptionStore mocks the SubscriptionStore interface
type MockSubscriptionStore struct {
	mock.Mock
}

func (m *MockSubscriptionStore) Upsert(ctx context.Context, record model.SubscriptionRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockSubscriptionStore) Disable(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockSubscriptionStore) GetByUserID(ctx context.Context, userID uuid.UUID) (model.SubscriptionRecord, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.SubscriptionRecord), args.Error(1)
}

func (m *MockSubscriptionStore) ExistsByEndpoint(ctx context.Context, userID uuid.UUID, endpoint string) (bool, error) {
	args := m.Called(ctx, userID, endpoint)
	return args.Bool(0), args.Error(1)
}

// MockSubscriptionSyncer mocks the SubscriptionSyncer interface
type MockSubscriptionSyncer struct {
	mock.Mock
}

func (m *MockSubscriptionSyncer) Save(ctx context.Context, userID uuid.UUID, descriptor model.SubscriptionDescriptor) error {
	return m.Called(ctx, userID, descriptor).Error(0)
}

func (m *MockSubscriptionSyncer) Remove(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockSubscriptionSyncer) PreferenceState(ctx context.Context, userID uuid.UUID) (model.PreferenceState, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.PreferenceState), args.Error(1)
}

// MockCapabilityDetector mocks the CapabilityDetector interface
type MockCapabilityDetector struct {
	mock.Mock
}

func (m *MockCapabilityDetector) Detect(ctx context.Context) model.CapabilityReport {
	return m.Called(ctx).Get(0).(model.CapabilityReport)
}

// MockWorkerRegistrar mocks the WorkerRegistrar interface
type MockWorkerRegistrar struct {
	mock.Mock
}

func (m *MockWorkerRegistrar) EnsureRegistered(ctx context.Context) (model.Worker, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Worker), args.Error(1)
}

func (m *MockWorkerRegistrar) Current(ctx context.Context) (model.Worker, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Worker), args.Error(1)
}

// MockPermissionNegotiator mocks the PermissionNegotiator interface
type MockPermissionNegotiator struct {
	mock.Mock
}

func (m *MockPermissionNegotiator) Request(ctx context.Context) (model.Permission, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Permission), args.Error(1)
}

// MockPreferenceCache mocks the PreferenceCache interface
type MockPreferenceCache struct {
	mock.Mock
}

func (m *MockPreferenceCache) Get(ctx context.Context, userID uuid.UUID) (model.PreferencePatch, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.PreferencePatch), args.Error(1)
}

func (m *MockPreferenceCache) Put(ctx context.Context, userID uuid.UUID, patch model.PreferencePatch) error {
	return m.Called(ctx, userID, patch).Error(0)
}

// MockPreferenceFlagStore mocks the PreferenceFlagStore interface
type MockPreferenceFlagStore struct {
	mock.Mock
}

func (m *MockPreferenceFlagStore) SetEnabled(ctx context.Context, userID uuid.UUID, enabled bool) error {
	return m.Called(ctx, userID, enabled).Error(0)
}

// MockPreferenceReader mocks the PreferenceReader interface
type MockPreferenceReader struct {
	mock.Mock
}

func (m *MockPreferenceReader) CategoryEnabled(ctx context.Context, userID uuid.UUID, category model.Category) bool {
	return m.Called(ctx, userID, category).Bool(0)
}

// fakeActiveNotification is a channel-backed ActiveNotification for
// gatekeeper tests.
type fakeActiveNotification struct {
	clicked   chan struct{}
	dismissed chan struct{}
}

func newFakeActiveNotification() *fakeActiveNotification {
	return &fakeActiveNotification{
		clicked:   make(chan struct{}),
		dismissed: make(chan struct{}, 1),
	}
}

func (f *fakeActiveNotification) Dismiss() {
	select {
	case f.dismissed <- struct{}{}:
	default:
	}
}

func (f *fakeActiveNotification) Clicked() <-chan struct{} {
	return f.clicked
}
