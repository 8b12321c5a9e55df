package agent

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SenaryLabs/identity-binding/internal/cesr"
)

// MockClient is a mock implementation of Client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) ListNotifications(ctx context.Context) ([]Notification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockClient) GetExchange(ctx context.Context, said string) (*ExchangeMessage, error) {
	args := m.Called(ctx, said)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ExchangeMessage), args.Error(1)
}

func (m *MockClient) Agree(ctx context.Context, params AgreeParams) (*AgreeReply, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AgreeReply), args.Error(1)
}

func (m *MockClient) SubmitAgree(ctx context.Context, senderName string, reply *AgreeReply, recipients []string) error {
	args := m.Called(ctx, senderName, reply, recipients)
	return args.Error(0)
}

func (m *MockClient) DeleteNotification(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClient) GetKeyState(ctx context.Context, aid string) (*KeyState, error) {
	args := m.Called(ctx, aid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*KeyState), args.Error(1)
}

// qb64Verfer encodes a raw Ed25519 key under the "D" code.
func qb64Verfer(raw []byte) string {
	padded := base64.RawURLEncoding.EncodeToString(append([]byte{0}, raw...))
	return "D" + padded[1:]
}

func TestStateResolverResolvesCurrentKey(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i)
	}

	client := new(MockClient)
	client.On("GetKeyState", mock.Anything, "EHOLDER").Return(&KeyState{
		Aid:         "EHOLDER",
		Sequence:    "0",
		CurrentKeys: []string{qb64Verfer(raw)},
	}, nil).Once()

	r := NewStateResolver(client)
	key, err := r.ResolveHolderKey(context.Background(), "EHOLDER")
	require.NoError(t, err)
	assert.Equal(t, raw, key)
	client.AssertExpectations(t)
}

func TestStateResolverEmptyKeyState(t *testing.T) {
	client := new(MockClient)
	client.On("GetKeyState", mock.Anything, "EHOLDER").Return(&KeyState{Aid: "EHOLDER"}, nil).Once()

	r := NewStateResolver(client)
	_, err := r.ResolveHolderKey(context.Background(), "EHOLDER")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no current keys")
}

func TestStateResolverBadVerfer(t *testing.T) {
	client := new(MockClient)
	client.On("GetKeyState", mock.Anything, "EHOLDER").Return(&KeyState{
		Aid:         "EHOLDER",
		CurrentKeys: []string{"Znotakey"},
	}, nil).Once()

	r := NewStateResolver(client)
	_, err := r.ResolveHolderKey(context.Background(), "EHOLDER")
	require.Error(t, err)
	assert.ErrorIs(t, err, cesr.ErrUnknownSignatureCode)
}

func TestStateResolverPropagatesClientError(t *testing.T) {
	client := new(MockClient)
	client.On("GetKeyState", mock.Anything, "EHOLDER").Return(nil, errors.New("boom")).Once()

	r := NewStateResolver(client)
	_, err := r.ResolveHolderKey(context.Background(), "EHOLDER")
	require.Error(t, err)
}
