package service_test

import (
	"context"

	"evenza/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockEventStore struct {
	mock.Mock
	// InsertID Insert 成功時回填的 id
	InsertID string
}

func NewMockEventStore() *MockEventStore {
	return &MockEventStore{InsertID: "evt-new"}
}

func (m *MockEventStore) ListOrdered(ctx context.Context) ([]model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventStore) FindByID(ctx context.Context, id string) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventStore) Insert(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	if args.Error(0) == nil {
		event.ID = m.InsertID
	}
	return args.Error(0)
}

func (m *MockEventStore) Update(ctx context.Context, id string, params model.UpdateEventParams) error {
	args := m.Called(ctx, id, params)
	return args.Error(0)
}

func (m *MockEventStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventStore) AddParticipant(ctx context.Context, eventID string, participant model.Participant) error {
	args := m.Called(ctx, eventID, participant)
	return args.Error(0)
}

func (m *MockEventStore) RemoveParticipant(ctx context.Context, eventID string, email string) error {
	args := m.Called(ctx, eventID, email)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Reload(ctx context.Context, uid string) (*model.Identity, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Identity), args.Error(1)
}

type MockIdentityReloader struct {
	mock.Mock
}

func (m *MockIdentityReloader) Reload(ctx context.Context, uid string) (*model.Identity, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Identity), args.Error(1)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, imageBase64 string) (string, error) {
	args := m.Called(ctx, imageBase64)
	return args.String(0), args.Error(1)
}

type MockJoinedCache struct {
	mock.Mock
}

func (m *MockJoinedCache) Load(ctx context.Context, uid string) ([]model.Event, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockJoinedCache) Save(ctx context.Context, uid string, events []model.Event) error {
	args := m.Called(ctx, uid, events)
	return args.Error(0)
}

func (m *MockJoinedCache) Remove(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}
