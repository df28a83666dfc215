package deploy

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"os"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wowBlaBla/beefy-contracts/core"
	"github.com/wowBlaBla/beefy-contracts/display"
	"github.com/wowBlaBla/beefy-contracts/predict"
)

var (
	deployer          = common.HexToAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")
	predictedVault    = common.HexToAddress("0xcd234a471b72ba2f1ccf0a70fcaba648a5eecd8d")
	predictedStrategy = common.HexToAddress("0x343c43a37d37dff08ae8c4a11544c718abb4fcf8")
)

type deployment struct {
	name string
	args []interface{}
}

type fakeEnv struct {
	calls       []string
	deployments []deployment
	addresses   map[string]common.Address
	compileErr  error
	deployErr   map[string]error
	signers     []common.Address
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		addresses: map[string]common.Address{
			VaultContractName: predictedVault,
			"StrategyScream":  predictedStrategy,
		},
		deployErr: map[string]error{},
		signers:   []common.Address{deployer},
	}
}

func (e *fakeEnv) Compile(context.Context) error {
	e.calls = append(e.calls, "compile")
	return e.compileErr
}

func (e *fakeEnv) GetContractFactory(name string) (ContractFactory, error) {
	e.calls = append(e.calls, "factory:"+name)
	if _, ok := e.addresses[name]; !ok {
		return nil, errors.Wrap(core.ErrArtifactNotFound, name)
	}
	return &fakeFactory{env: e, name: name}, nil
}

func (e *fakeEnv) GetSigners(context.Context) ([]common.Address, error) {
	e.calls = append(e.calls, "signers")
	return e.signers, nil
}

type fakeFactory struct {
	env  *fakeEnv
	name string
}

func (f *fakeFactory) Deploy(_ context.Context, args ...interface{}) (PendingContract, error) {
	f.env.calls = append(f.env.calls, "deploy:"+f.name)
	f.env.deployments = append(f.env.deployments, deployment{name: f.name, args: args})
	if err := f.env.deployErr[f.name]; err != nil {
		return nil, err
	}
	return &fakePending{env: f.env, name: f.name}, nil
}

type fakePending struct {
	env  *fakeEnv
	name string
}

func (p *fakePending) TxHash() common.Hash {
	return deployTxHash(p.name)
}

func deployTxHash(name string) common.Hash {
	return common.BytesToHash([]byte(name))
}

func (p *fakePending) Deployed(context.Context) (common.Address, error) {
	p.env.calls = append(p.env.calls, "deployed:"+p.name)
	return p.env.addresses[p.name], nil
}

type fakePredictor struct {
	rpc     string
	creator common.Address
	called  bool
}

func (p *fakePredictor) Predict(_ context.Context, creator common.Address, rpc string) (predict.Addresses, error) {
	p.called = true
	p.rpc = rpc
	p.creator = creator
	return predict.FromNonce(creator, 0), nil
}

func newOrchestrator(env *fakeEnv, predictor *fakePredictor) *Orchestrator {
	return &Orchestrator{Env: env, Predictor: predictor, Networks: core.DefaultNetworks()}
}

func quiet(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	display.SetOutput(&buf)
	t.Cleanup(func() { display.SetOutput(os.Stdout) })
	return &buf
}

func TestDeploy(t *testing.T) {
	out := quiet(t)
	env := newFakeEnv()
	predictor := &fakePredictor{}
	config := DefaultStratLendConfig()

	result, err := newOrchestrator(env, predictor).Deploy(context.Background(), "fantom", config)
	require.NoError(t, err)

	assert.Equal(t, Result{Vault: predictedVault, Strategy: predictedStrategy, PredictedStrategy: predictedStrategy}, result)
	assert.Equal(t, []string{
		"compile",
		"factory:BeefyVaultV6",
		"factory:StrategyScream",
		"signers",
		"deploy:BeefyVaultV6",
		"deployed:BeefyVaultV6",
		"deploy:StrategyScream",
		"deployed:StrategyScream",
	}, env.calls)

	assert.Equal(t, deployer, predictor.creator)

	require.Len(t, env.deployments, 2)
	assert.Equal(t, []interface{}{predictedStrategy, "Moo Scream WBTC", "mooScreamWBTC", big.NewInt(21600)}, env.deployments[0].args)

	strategyArgs := env.deployments[1].args
	require.Len(t, strategyArgs, 12)
	assert.Equal(t, big.NewInt(72), strategyArgs[0])
	assert.Equal(t, big.NewInt(75), strategyArgs[1])
	assert.Equal(t, big.NewInt(4), strategyArgs[2])
	assert.Equal(t, big.NewInt(1), strategyArgs[3])
	assert.Equal(t, config.OutputToNativeRoute, strategyArgs[4])
	assert.Equal(t, config.OutputToWantRoute, strategyArgs[5])
	assert.Equal(t, config.Markets, strategyArgs[6])
	assert.Equal(t, predictedVault, strategyArgs[7])
	assert.Equal(t, *config.Unirouter, strategyArgs[8])
	assert.Equal(t, *config.BeefyFeeRecipient, strategyArgs[11])

	assert.Contains(t, out.String(), "Deploying: Moo Scream WBTC")
	assert.Contains(t, out.String(), "Vault deployed to: "+predictedVault.Hex())
	assert.Contains(t, out.String(), "Strategy deployed to: "+predictedStrategy.Hex())
	assert.Contains(t, out.String(), "txHash: "+deployTxHash("BeefyVaultV6").Hex())
	assert.Contains(t, out.String(), "txHash: "+deployTxHash("StrategyScream").Hex())
}

func TestDeploy_PredictsOnFixedRPC(t *testing.T) {
	quiet(t)
	predictor := &fakePredictor{}

	_, err := newOrchestrator(newFakeEnv(), predictor).Deploy(context.Background(), "bsc", DefaultStratLendConfig())
	require.NoError(t, err)

	assert.Equal(t, PredictionRPC, predictor.rpc)
}

func TestDeploy_AbsentFieldTouchesNothing(t *testing.T) {
	mutations := map[string]func(*StratLendConfig){
		"strategyName":        func(c *StratLendConfig) { c.StrategyName = nil },
		"mooName":             func(c *StratLendConfig) { c.MooName = nil },
		"delay":               func(c *StratLendConfig) { c.Delay = nil },
		"borrowDepth":         func(c *StratLendConfig) { c.BorrowDepth = nil },
		"outputToWantRoute":   func(c *StratLendConfig) { c.OutputToWantRoute = nil },
		"markets":             func(c *StratLendConfig) { c.Markets = nil },
		"keeper":              func(c *StratLendConfig) { c.Keeper = nil },
		"beefyFeeRecipient":   func(c *StratLendConfig) { c.BeefyFeeRecipient = nil },
		"outputToNativeRoute": func(c *StratLendConfig) { c.OutputToNativeRoute = nil },
	}
	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			env := newFakeEnv()
			predictor := &fakePredictor{}
			config := DefaultStratLendConfig()
			mutate(&config)

			_, err := newOrchestrator(env, predictor).Deploy(context.Background(), "fantom", config)

			require.ErrorIs(t, err, ErrConfiguration)
			assert.Contains(t, err.Error(), field)
			assert.Empty(t, env.calls)
			assert.False(t, predictor.called)
		})
	}
}

func TestDeploy_CompileFailure(t *testing.T) {
	env := newFakeEnv()
	env.compileErr = errors.New("HH600: Compilation failed")

	_, err := newOrchestrator(env, &fakePredictor{}).Deploy(context.Background(), "fantom", DefaultStratLendConfig())

	require.ErrorIs(t, err, ErrFatalBuild)
	assert.Contains(t, err.Error(), "HH600")
	assert.Equal(t, []string{"compile"}, env.calls)
}

type compilerExit struct {
	code int
}

func (e *compilerExit) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func TestDeploy_CompileFailureKeepsCause(t *testing.T) {
	env := newFakeEnv()
	env.compileErr = errors.Wrap(&compilerExit{code: 1}, "npx hardhat compile")

	_, err := newOrchestrator(env, &fakePredictor{}).Deploy(context.Background(), "fantom", DefaultStratLendConfig())

	require.ErrorIs(t, err, ErrFatalBuild)
	var exit *compilerExit
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, 1, exit.code)
	assert.EqualError(t, err, "fatal build error: npx hardhat compile: exit status 1")
}

func TestDeploy_UnknownNetwork(t *testing.T) {
	env := newFakeEnv()
	predictor := &fakePredictor{}

	_, err := newOrchestrator(env, predictor).Deploy(context.Background(), "ropsten", DefaultStratLendConfig())

	require.ErrorIs(t, err, core.ErrUnknownNetwork)
	assert.False(t, predictor.called)
	assert.NotContains(t, env.calls, "deploy:BeefyVaultV6")
}

func TestDeploy_MissingStrategyArtifact(t *testing.T) {
	env := newFakeEnv()
	config := DefaultStratLendConfig()
	config.StrategyName = strPtr("StrategyGeist")

	_, err := newOrchestrator(env, &fakePredictor{}).Deploy(context.Background(), "fantom", config)

	require.ErrorIs(t, err, core.ErrArtifactNotFound)
	assert.Empty(t, env.deployments)
}

func TestDeploy_StrategyFailureLeavesVault(t *testing.T) {
	quiet(t)
	env := newFakeEnv()
	env.deployErr["StrategyScream"] = errors.New("insufficient funds for gas * price + value")

	result, err := newOrchestrator(env, &fakePredictor{}).Deploy(context.Background(), "fantom", DefaultStratLendConfig())

	require.Error(t, err)
	assert.Equal(t, predictedVault, result.Vault)
	assert.Equal(t, common.Address{}, result.Strategy)
	assert.Len(t, env.deployments, 2)
}

func TestDeploy_StrategyOffPredictionStillSucceeds(t *testing.T) {
	out := quiet(t)
	env := newFakeEnv()
	moved := common.HexToAddress("0xf778b86fa74e846c4f0a1fbd1335fe81c00a0c91")
	env.addresses["StrategyScream"] = moved

	result, err := newOrchestrator(env, &fakePredictor{}).Deploy(context.Background(), "fantom", DefaultStratLendConfig())

	require.NoError(t, err)
	assert.Equal(t, moved, result.Strategy)
	assert.Equal(t, predictedStrategy, result.PredictedStrategy)
	assert.Contains(t, out.String(), "differs from predicted")
}

func TestDeploy_NoSigners(t *testing.T) {
	env := newFakeEnv()
	env.signers = nil

	_, err := newOrchestrator(env, &fakePredictor{}).Deploy(context.Background(), "fantom", DefaultStratLendConfig())

	assert.Error(t, err)
	assert.Empty(t, env.deployments)
}
