package deploy

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/wowBlaBla/beefy-contracts/core"
)

// HardhatEnv deploys hardhat build artifacts through a signing client.
type HardhatEnv struct {
	Client    *core.Client
	Artifacts core.Artifacts
	Compiler  core.HardhatCompiler
}

func (h *HardhatEnv) Compile(ctx context.Context) error {
	return h.Compiler.Compile(ctx)
}

func (h *HardhatEnv) GetContractFactory(name string) (ContractFactory, error) {
	factory, err := h.Artifacts.GetContractFactory(h.Client, name)
	if err != nil {
		return nil, err
	}
	return hardhatFactory{factory}, nil
}

func (h *HardhatEnv) GetSigners(context.Context) ([]common.Address, error) {
	from := h.Client.From()
	if from == (common.Address{}) {
		return nil, core.ErrNoAccount
	}
	return []common.Address{from}, nil
}

type hardhatFactory struct {
	*core.ContractFactory
}

func (f hardhatFactory) Deploy(ctx context.Context, args ...interface{}) (PendingContract, error) {
	pending, err := f.ContractFactory.Deploy(ctx, args...)
	if err != nil {
		return nil, err
	}
	return pending, nil
}
