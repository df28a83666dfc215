package core

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

const (
	methodApprove      = "approve"
	methodBalanceOf    = "balanceOf"
	methodToken0       = "token0"
	methodToken1       = "token1"
	methodDeposit      = "deposit"
	methodAddLiquidity = "addLiquidity"
	methodToken        = "token"
	methodWant         = "want"
	methodPaused       = "paused"
	methodUnpause      = "unpause"
)

type baseContract struct {
	address common.Address
	abi     *abi.ABI
	client  *Client
}

func (c *baseContract) Address() common.Address {
	return c.address
}

func (c *baseContract) call(ctx context.Context, out interface{}, method string, args ...interface{}) error {
	msg, err := packInput(c.abi, c.client.From(), c.address, method, args...)
	if err != nil {
		return err
	}
	resData, err := c.client.CallContract(ctx, msg)
	if err != nil {
		return errors.Wrapf(err, "call %s", method)
	}
	return unpackOutput(out, c.abi, method, resData)
}

func (c *baseContract) transact(ctx context.Context, value *big.Int, method string, args ...interface{}) error {
	msg, err := packInput(c.abi, c.client.From(), c.address, method, args...)
	if err != nil {
		return err
	}
	_, err = c.client.Transact(ctx, c.address, msg.Data, value)
	return errors.Wrapf(err, "transact %s", method)
}

type Erc20Contract struct {
	baseContract
}

func NewErc20Contract(client *Client, address common.Address) *Erc20Contract {
	return &Erc20Contract{baseContract{address: address, abi: erc20Abi, client: client}}
}

func (c *Erc20Contract) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	resp := big.NewInt(0)
	err := c.call(ctx, &resp, methodBalanceOf, owner)
	return resp, err
}

func (c *Erc20Contract) Approve(ctx context.Context, spender common.Address, amount *big.Int) error {
	return c.transact(ctx, nil, methodApprove, spender, amount)
}

// PairContract reads a Uniswap V2 style pair. Token0/Token1 fail on
// contracts that are not pairs.
type PairContract struct {
	baseContract
}

func NewPairContract(client *Client, address common.Address) *PairContract {
	return &PairContract{baseContract{address: address, abi: pairAbi, client: client}}
}

func (c *PairContract) Token0(ctx context.Context) (common.Address, error) {
	var addr common.Address
	err := c.call(ctx, &addr, methodToken0)
	return addr, err
}

func (c *PairContract) Token1(ctx context.Context) (common.Address, error) {
	var addr common.Address
	err := c.call(ctx, &addr, methodToken1)
	return addr, err
}

type WrappedNativeContract struct {
	baseContract
}

func NewWrappedNativeContract(client *Client, address common.Address) *WrappedNativeContract {
	return &WrappedNativeContract{baseContract{address: address, abi: wrappedNativeAbi, client: client}}
}

// Deposit wraps value native currency.
func (c *WrappedNativeContract) Deposit(ctx context.Context, value *big.Int) error {
	return c.transact(ctx, value, methodDeposit)
}

type RouterContract struct {
	baseContract
	iface string
}

// NewRouterContract binds a router through one of the RouterInterface* ABIs.
func NewRouterContract(client *Client, address common.Address, iface string) (*RouterContract, error) {
	routerAbi, ok := routerAbis[iface]
	if !ok {
		return nil, errors.Errorf("unknown router interface %q", iface)
	}
	return &RouterContract{
		baseContract: baseContract{address: address, abi: routerAbi, client: client},
		iface:        iface,
	}, nil
}

func (c *RouterContract) Interface() string {
	return c.iface
}

// SwapExactNativeForTokens calls the swapExact<Native>ForTokens method named
// by signature, attaching value as native currency.
func (c *RouterContract) SwapExactNativeForTokens(ctx context.Context, signature string, amountOutMin *big.Int, path []common.Address, to common.Address, deadline, value *big.Int) error {
	return c.transact(ctx, value, signature, amountOutMin, path, to, deadline)
}

func (c *RouterContract) AddLiquidity(ctx context.Context, tokenA, tokenB common.Address, amountADesired, amountBDesired, amountAMin, amountBMin *big.Int, to common.Address, deadline *big.Int) error {
	return c.transact(ctx, nil, methodAddLiquidity, tokenA, tokenB, amountADesired, amountBDesired, amountAMin, amountBMin, to, deadline)
}

type VaultContract struct {
	baseContract
}

func NewVaultContract(client *Client, address common.Address) *VaultContract {
	return &VaultContract{baseContract{address: address, abi: vaultAbi, client: client}}
}

func (c *VaultContract) Token(ctx context.Context) (common.Address, error) {
	var addr common.Address
	err := c.call(ctx, &addr, methodToken)
	return addr, err
}

func (c *VaultContract) Want(ctx context.Context) (common.Address, error) {
	var addr common.Address
	err := c.call(ctx, &addr, methodWant)
	return addr, err
}

type StrategyContract struct {
	baseContract
}

func NewStrategyContract(client *Client, address common.Address) *StrategyContract {
	return &StrategyContract{baseContract{address: address, abi: strategyAbi, client: client}}
}

// Connect returns the same strategy sending transactions through client.
func (c *StrategyContract) Connect(client *Client) *StrategyContract {
	return NewStrategyContract(client, c.address)
}

func (c *StrategyContract) Paused(ctx context.Context) (bool, error) {
	var paused bool
	err := c.call(ctx, &paused, methodPaused)
	return paused, err
}

func (c *StrategyContract) Unpause(ctx context.Context) error {
	return c.transact(ctx, nil, methodUnpause)
}

func packInput(pabi *abi.ABI, from, toContract common.Address, methodName string, args ...interface{}) (ethereum.CallMsg, error) {
	inputParams, err := pabi.Pack(methodName, args...)
	if err != nil {
		return ethereum.CallMsg{}, errors.Wrapf(err, "pack %s", methodName)
	}
	return ethereum.CallMsg{From: from, To: &toContract, Data: inputParams}, nil
}

func unpackOutput(out interface{}, pabi *abi.ABI, methodName string, resData []byte) error {
	method, ok := pabi.Methods[methodName]
	if !ok {
		return errors.New("not found method:" + methodName)
	}
	a, err := method.Outputs.Unpack(resData)
	if err != nil {
		return errors.Wrapf(err, "unpack %s", methodName)
	}
	return method.Outputs.Copy(out, a)
}
