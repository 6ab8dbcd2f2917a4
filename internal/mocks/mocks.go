package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chat-relay/internal/models"
	"chat-relay/internal/repositories"
)

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) AppendMessage(ctx context.Context, user, message, room, createdAt string) (int64, error) {
	args := m.Called(ctx, user, message, room, createdAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageRepositoryMock) ListMessages(ctx context.Context) ([]models.ChatMessage, error) {
	args := m.Called(ctx)
	var msgs []models.ChatMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.ChatMessage)
	}
	return msgs, args.Error(1)
}

type RoomRepositoryMock struct {
	mock.Mock
}

func (m *RoomRepositoryMock) AppendRoom(ctx context.Context, name, date string) (int64, error) {
	args := m.Called(ctx, name, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RoomRepositoryMock) ListRooms(ctx context.Context) ([]models.RoomAnnouncement, error) {
	args := m.Called(ctx)
	var rooms []models.RoomAnnouncement
	if val := args.Get(0); val != nil {
		rooms = val.([]models.RoomAnnouncement)
	}
	return rooms, args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error) {
	args := m.Called(ctx, username, email, passwordHash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.RoomRepository = (*RoomRepositoryMock)(nil)
var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
