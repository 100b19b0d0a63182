package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/coolair/coolair-backend/internal/events"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, e events.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockPublisher) expect(eventType string, err error) {
	m.On("Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
		return e.Type == eventType
	})).Return(err).Once()
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
