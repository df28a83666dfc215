// Package testhelpers funds test accounts with a vault's want token by
// swapping native currency through a router.
//
// Funding is best effort: swap and liquidity failures are logged and recorded
// in the returned Outcome, never returned as errors. Test suites check the
// resulting balances instead.
package testhelpers

import (
	"context"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/wowBlaBla/beefy-contracts/core"
)

// Deadline is far enough in the future that routers never reject on time.
const Deadline = 5000000000

var ErrWantUnresolved = errors.New("vault want token unresolved")

type Token interface {
	Address() common.Address
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	Approve(ctx context.Context, spender common.Address, amount *big.Int) error
}

type Pair interface {
	Token0(ctx context.Context) (common.Address, error)
	Token1(ctx context.Context) (common.Address, error)
}

type WrappedNative interface {
	Deposit(ctx context.Context, value *big.Int) error
}

type Router interface {
	Address() common.Address
	SwapExactNativeForTokens(ctx context.Context, signature string, amountOutMin *big.Int, path []common.Address, to common.Address, deadline, value *big.Int) error
	AddLiquidity(ctx context.Context, tokenA, tokenB common.Address, amountADesired, amountBDesired, amountAMin, amountBMin *big.Int, to common.Address, deadline *big.Int) error
}

// Contracts binds contract handles at an address.
type Contracts interface {
	Pair(address common.Address) Pair
	Token(address common.Address) Token
	WrappedNative(address common.Address) WrappedNative
}

type WantSource interface {
	Token(ctx context.Context) (common.Address, error)
	Want(ctx context.Context) (common.Address, error)
}

type Pausable interface {
	Paused(ctx context.Context) (bool, error)
}

type Unpauser interface {
	Unpause(ctx context.Context) error
}

type WantKind int

const (
	SimpleToken WantKind = iota
	LiquidityPoolToken
)

func (k WantKind) String() string {
	if k == LiquidityPoolToken {
		return "lp"
	}
	return "simple"
}

// Want is a classified want token. Token0 and Token1 are set only for
// LiquidityPoolToken.
type Want struct {
	Kind   WantKind
	Token0 Token
	Token1 Token
}

type Action string

const (
	ActionSwap         Action = "swap"
	ActionWrap         Action = "wrap"
	ActionApprove      Action = "approve"
	ActionAddLiquidity Action = "addLiquidity"
)

type Step struct {
	Action Action
	Token  common.Address
	Amount *big.Int
	Err    error
}

// Outcome is what ZapNativeToToken attempted. Err is set when the funding
// path was abandoned part way.
type Outcome struct {
	Want  WantKind
	Steps []Step
	Err   error
}

// Failed reports whether any step, or the path as a whole, failed.
func (o Outcome) Failed() bool {
	if o.Err != nil {
		return true
	}
	for _, s := range o.Steps {
		if s.Err != nil {
			return true
		}
	}
	return false
}

type FundParams struct {
	Amount          *big.Int
	Want            Token
	NativeTokenAddr common.Address
	Unirouter       Router
	SwapSignature   string
	Recipient       common.Address
}

type SwapParams struct {
	Unirouter       Router
	Amount          *big.Int
	NativeTokenAddr common.Address
	Token           Token
	Recipient       common.Address
	SwapSignature   string
}

type Helper struct {
	contracts Contracts
	log       zerolog.Logger
}

func New(contracts Contracts, log zerolog.Logger) *Helper {
	return &Helper{contracts: contracts, log: log}
}

// ConsoleLogger is the default human readable logger for test runs.
func ConsoleLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// ClassifyWant probes want for token0()/token1(). Both answering makes it an
// LP token; any failure makes it a simple token.
func (h *Helper) ClassifyWant(ctx context.Context, want common.Address) Want {
	pair := h.contracts.Pair(want)
	token0, err := pair.Token0(ctx)
	if err != nil {
		return Want{Kind: SimpleToken}
	}
	token1, err := pair.Token1(ctx)
	if err != nil {
		return Want{Kind: SimpleToken}
	}
	return Want{
		Kind:   LiquidityPoolToken,
		Token0: h.contracts.Token(token0),
		Token1: h.contracts.Token(token1),
	}
}

// ZapNativeToToken funds p.Recipient with p.Want. Simple tokens get one swap
// of the full amount. LP tokens get half the amount swapped into each side
// (an odd wei is dropped) and whatever landed is added as liquidity.
func (h *Helper) ZapNativeToToken(ctx context.Context, p FundParams) Outcome {
	want := h.ClassifyWant(ctx, p.Want.Address())
	out := Outcome{Want: want.Kind}

	if want.Kind == LiquidityPoolToken {
		if err := h.addLiquidity(ctx, p, want, &out); err != nil {
			h.log.Error().Err(err).Msg("Could not add LP liquidity.")
			out.Err = err
		}
		return out
	}

	step, err := h.SwapNativeForToken(ctx, SwapParams{
		Unirouter:       p.Unirouter,
		Token:           p.Want,
		Recipient:       p.Recipient,
		NativeTokenAddr: p.NativeTokenAddr,
		Amount:          p.Amount,
		SwapSignature:   p.SwapSignature,
	})
	out.Steps = append(out.Steps, step)
	if err != nil {
		h.log.Error().Err(err).Msg("Could not swap for want.")
		out.Err = err
	}
	return out
}

func (h *Helper) addLiquidity(ctx context.Context, p FundParams, want Want, out *Outcome) error {
	half := new(big.Int).Div(p.Amount, big.NewInt(2))

	for _, token := range []Token{want.Token0, want.Token1} {
		step, err := h.SwapNativeForToken(ctx, SwapParams{
			Unirouter:       p.Unirouter,
			Token:           token,
			Recipient:       p.Recipient,
			NativeTokenAddr: p.NativeTokenAddr,
			Amount:          half,
			SwapSignature:   p.SwapSignature,
		})
		out.Steps = append(out.Steps, step)
		if err != nil {
			return err
		}
	}

	token0Bal, err := want.Token0.BalanceOf(ctx, p.Recipient)
	if err != nil {
		return err
	}
	token1Bal, err := want.Token1.BalanceOf(ctx, p.Recipient)
	if err != nil {
		return err
	}

	for _, approval := range []struct {
		token  Token
		amount *big.Int
	}{{want.Token0, token0Bal}, {want.Token1, token1Bal}} {
		err := approval.token.Approve(ctx, p.Unirouter.Address(), approval.amount)
		out.Steps = append(out.Steps, Step{Action: ActionApprove, Token: approval.token.Address(), Amount: approval.amount, Err: err})
		if err != nil {
			return err
		}
	}

	err = p.Unirouter.AddLiquidity(ctx,
		want.Token0.Address(), want.Token1.Address(),
		token0Bal, token1Bal,
		big.NewInt(1), big.NewInt(1),
		p.Recipient, big.NewInt(Deadline))
	out.Steps = append(out.Steps, Step{Action: ActionAddLiquidity, Token: p.Want.Address(), Err: err})
	return err
}

// SwapNativeForToken buys p.Token with p.Amount of native currency, or wraps
// it when p.Token is the wrapped native token. A failed swap is logged and
// recorded in the Step; only a failed wrap is returned.
func (h *Helper) SwapNativeForToken(ctx context.Context, p SwapParams) (Step, error) {
	token := p.Token.Address()
	if token == p.NativeTokenAddr {
		err := h.wrapNative(ctx, p.Amount, p.NativeTokenAddr)
		return Step{Action: ActionWrap, Token: token, Amount: p.Amount, Err: err}, err
	}

	step := Step{Action: ActionSwap, Token: token, Amount: p.Amount}
	err := p.Unirouter.SwapExactNativeForTokens(ctx, p.SwapSignature,
		big.NewInt(0), []common.Address{p.NativeTokenAddr, token}, p.Recipient,
		big.NewInt(Deadline), p.Amount)
	if err != nil {
		h.log.Warn().Err(err).Msgf("Could not swap for %s", token.Hex())
		step.Err = err
	}
	return step, nil
}

func (h *Helper) wrapNative(ctx context.Context, amount *big.Int, wNativeAddr common.Address) error {
	return h.contracts.WrappedNative(wNativeAddr).Deposit(ctx, amount)
}

// LogTokenBalance logs wallet's balance of token in ether units.
func (h *Helper) LogTokenBalance(ctx context.Context, token Token, wallet common.Address) error {
	balance, err := token.BalanceOf(ctx, wallet)
	if err != nil {
		return err
	}
	h.log.Info().Msgf("Balance: %s", core.FormatEther(balance))
	return nil
}

// GetVaultWant resolves the vault's want token through token(), then want(),
// then nativeTokenAddr. With no fallback configured it fails.
func (h *Helper) GetVaultWant(ctx context.Context, vault WantSource, nativeTokenAddr common.Address) (Token, error) {
	wantAddr, err := vault.Token(ctx)
	if err != nil {
		wantAddr, err = vault.Want(ctx)
		if err != nil {
			if nativeTokenAddr == (common.Address{}) {
				return nil, errors.Wrap(ErrWantUnresolved, "vault has neither token() nor want() and no native token is configured")
			}
			wantAddr = nativeTokenAddr
		}
	}
	return h.contracts.Token(wantAddr), nil
}

// UnpauseIfPaused unpauses strat through keeper, the same strategy bound to
// the keeper's account, when it is paused. It reports whether it unpaused.
func UnpauseIfPaused(ctx context.Context, strat Pausable, keeper Unpauser) (bool, error) {
	paused, err := strat.Paused(ctx)
	if err != nil {
		return false, err
	}
	if !paused {
		return false, nil
	}
	return true, keeper.Unpause(ctx)
}
