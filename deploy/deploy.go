// Package deploy wires a vault to a leveraged lending strategy and deploys
// both.
package deploy

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/wowBlaBla/beefy-contracts/display"
	"github.com/wowBlaBla/beefy-contracts/predict"
)

const (
	VaultContractName = "BeefyVaultV6"

	// PredictionRPC is always used for address prediction, whatever network
	// the deployment targets.
	PredictionRPC = "https://rpc.ftm.tools"
)

var ErrFatalBuild = errors.New("fatal build error")

// buildError keeps the compiler's error as its cause while matching
// ErrFatalBuild.
type buildError struct {
	err error
}

func (e *buildError) Error() string {
	return ErrFatalBuild.Error() + ": " + e.err.Error()
}

func (e *buildError) Is(target error) bool {
	return target == ErrFatalBuild
}

func (e *buildError) Unwrap() error {
	return e.err
}

// Env is the contract toolchain the orchestrator drives.
type Env interface {
	Compile(ctx context.Context) error
	GetContractFactory(name string) (ContractFactory, error)
	GetSigners(ctx context.Context) ([]common.Address, error)
}

type ContractFactory interface {
	Deploy(ctx context.Context, args ...interface{}) (PendingContract, error)
}

type PendingContract interface {
	TxHash() common.Hash
	Deployed(ctx context.Context) (common.Address, error)
}

type Predictor interface {
	Predict(ctx context.Context, creator common.Address, rpc string) (predict.Addresses, error)
}

type NetworkResolver interface {
	Resolve(network string) (string, error)
}

type Orchestrator struct {
	Env       Env
	Predictor Predictor
	Networks  NetworkResolver
}

type Result struct {
	Vault             common.Address
	Strategy          common.Address
	PredictedStrategy common.Address
}

// Deploy creates the vault pointing at the predicted strategy address, then
// the strategy pointing at the vault. Nothing is retried or rolled back: a
// strategy failure leaves the vault deployed, and a strategy landing away
// from the prediction leaves the vault pointing at the wrong address.
func (o *Orchestrator) Deploy(ctx context.Context, network string, config StratLendConfig) (Result, error) {
	if err := config.Validate(); err != nil {
		return Result{}, err
	}

	if err := o.Env.Compile(ctx); err != nil {
		return Result{}, &buildError{err: err}
	}

	vaultFactory, err := o.Env.GetContractFactory(VaultContractName)
	if err != nil {
		return Result{}, err
	}
	strategyFactory, err := o.Env.GetContractFactory(*config.StrategyName)
	if err != nil {
		return Result{}, err
	}

	signers, err := o.Env.GetSigners(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "get signers")
	}
	if len(signers) == 0 {
		return Result{}, errors.New("no deployer account")
	}
	deployer := signers[0]

	rpc, err := o.Networks.Resolve(network)
	if err != nil {
		return Result{}, err
	}
	display.PrintfWithTime("network %s rpc %s\n", network, rpc)

	display.Println("Deploying:", *config.MooName)

	predicted, err := o.Predictor.Predict(ctx, deployer, PredictionRPC)
	if err != nil {
		return Result{}, err
	}

	vault, err := deployContract(ctx, vaultFactory, config.vaultArgs(predicted.Strategy)...)
	if err != nil {
		return Result{}, err
	}

	strategy, err := deployContract(ctx, strategyFactory, config.strategyArgs(vault)...)
	if err != nil {
		return Result{Vault: vault, PredictedStrategy: predicted.Strategy}, err
	}

	result := Result{Vault: vault, Strategy: strategy, PredictedStrategy: predicted.Strategy}
	result.print()
	return result, nil
}

func deployContract(ctx context.Context, factory ContractFactory, args ...interface{}) (common.Address, error) {
	pending, err := factory.Deploy(ctx, args...)
	if err != nil {
		return common.Address{}, err
	}
	display.PrintfWithTime("txHash: %s\n", pending.TxHash().Hex())
	return pending.Deployed(ctx)
}

func (r Result) print() {
	display.Println("Vault deployed to:", r.Vault.Hex())
	display.Println("Strategy deployed to:", r.Strategy.Hex())
	if r.Strategy != r.PredictedStrategy {
		display.Fail("strategy address %s differs from predicted %s, vault points at the wrong strategy",
			r.Strategy.Hex(), r.PredictedStrategy.Hex())
	}
}
