package agent

import (
	"context"

	"github.com/pkg/errors"

	"github.com/SenaryLabs/identity-binding/internal/cesr"
)

// StateResolver adapts the agent's key-state lookup into the binding
// assembler's KeyResolver capability: the holder's current signing key is
// the first entry of the key state, CESR-decoded to raw bytes.
type StateResolver struct {
	client Client
}

func NewStateResolver(client Client) *StateResolver {
	return &StateResolver{client: client}
}

func (r *StateResolver) ResolveHolderKey(ctx context.Context, aid string) ([]byte, error) {
	state, err := r.client.GetKeyState(ctx, aid)
	if err != nil {
		return nil, err
	}
	if state == nil || len(state.CurrentKeys) == 0 {
		return nil, errors.Errorf("key state for %s has no current keys", aid)
	}

	key, err := cesr.DecodeVerfer(state.CurrentKeys[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode current key for %s", aid)
	}
	return key, nil
}
