// Package predict computes where an account's upcoming contract creations
// will land.
package predict

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/wowBlaBla/beefy-contracts/core"
)

// Addresses are the vault and strategy addresses for a deployer that creates
// the vault first and the strategy right after it.
type Addresses struct {
	Vault    common.Address
	Strategy common.Address
}

type NonceSource interface {
	NonceAt(ctx context.Context, account common.Address) (uint64, error)
}

type Predictor struct {
	dial func(rpc string) NonceSource
}

func New() *Predictor {
	return NewWithDialer(func(rpc string) NonceSource {
		return core.NewClient(rpc, nil)
	})
}

func NewWithDialer(dial func(rpc string) NonceSource) *Predictor {
	return &Predictor{dial: dial}
}

// Predict reads creator's current nonce from rpc. Any transaction the creator
// sends between this call and the deployments invalidates the result.
func (p *Predictor) Predict(ctx context.Context, creator common.Address, rpc string) (Addresses, error) {
	nonce, err := p.dial(rpc).NonceAt(ctx, creator)
	if err != nil {
		return Addresses{}, errors.Wrapf(err, "predict addresses for %s", creator.Hex())
	}
	return FromNonce(creator, nonce), nil
}

func FromNonce(creator common.Address, nonce uint64) Addresses {
	return Addresses{
		Vault:    crypto.CreateAddress(creator, nonce),
		Strategy: crypto.CreateAddress(creator, nonce+1),
	}
}
