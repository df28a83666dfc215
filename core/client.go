package core

import (
	"context"
	"encoding/hex"
	"math/big"
	"strings"
	"time"

	"github.com/coming-chat/wallet-SDK/core/eth"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"

	"github.com/wowBlaBla/beefy-contracts/connpool"
	"github.com/wowBlaBla/beefy-contracts/display"
)

const (
	gasLimitRate   = 1.3
	priorityRate   = 1.5
	maxFeeRate     = 1.1
	receiptPolling = 3 * time.Second
)

var (
	ErrNoAccount = errors.New("client has no signing account")
	ErrTxFailed  = errors.New("transaction failed")
)

// Client talks to one RPC endpoint, optionally signing as one account.
type Client struct {
	rpc     string
	pool    *connpool.EVMPool
	account *eth.Account
}

// NewClient returns a client for rpcURL. account may be nil for read-only use.
func NewClient(rpcURL string, account *eth.Account) *Client {
	return &Client{
		rpc:     rpcURL,
		pool:    getConnectPool(rpcURL),
		account: account,
	}
}

// LoadAccount restores a signing account from a BIP-39 mnemonic.
func LoadAccount(words string) (*eth.Account, error) {
	if strings.TrimSpace(words) == "" {
		return nil, errors.New("empty mnemonic")
	}
	account, err := eth.NewAccountWithMnemonic(words)
	if err != nil {
		return nil, errors.Wrap(err, "load account")
	}
	return account, nil
}

func (c *Client) RPC() string {
	return c.rpc
}

// WithAccount returns a client on the same endpoint signing as account.
func (c *Client) WithAccount(account *eth.Account) *Client {
	return &Client{rpc: c.rpc, pool: c.pool, account: account}
}

// From is the signing address, or the zero address for read-only clients.
func (c *Client) From() common.Address {
	if c.account == nil {
		return common.Address{}
	}
	return common.HexToAddress(c.account.Address())
}

func (c *Client) NonceAt(ctx context.Context, account common.Address) (uint64, error) {
	var nonce uint64
	err := c.pool.Call(func(client *ethclient.Client, _ *rpc.Client) error {
		var err error
		nonce, err = client.NonceAt(ctx, account, nil)
		return err
	})
	return nonce, errors.Wrap(err, "get nonce")
}

func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	var balance *big.Int
	err := c.pool.Call(func(client *ethclient.Client, _ *rpc.Client) error {
		var err error
		balance, err = client.BalanceAt(ctx, account, nil)
		return err
	})
	return balance, errors.Wrap(err, "get balance")
}

func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	var res []byte
	err := c.pool.Call(func(client *ethclient.Client, _ *rpc.Client) error {
		var err error
		res, err = client.CallContract(ctx, msg, nil)
		return err
	})
	return res, err
}

// SendTransaction builds, signs and broadcasts a transaction. A nil to
// creates a contract. The returned nonce is the one the transaction used.
func (c *Client) SendTransaction(ctx context.Context, to *common.Address, data []byte, value *big.Int) (common.Hash, uint64, error) {
	if c.account == nil {
		return common.Hash{}, 0, ErrNoAccount
	}
	if value == nil {
		value = big.NewInt(0)
	}
	msg := ethereum.CallMsg{From: c.From(), To: to, Data: data, Value: value}

	var (
		rawBytes []byte
		nonce    uint64
	)
	err := c.pool.Call(func(client *ethclient.Client, _ *rpc.Client) error {
		var err error
		rawBytes, nonce, err = createRawTx(ctx, client, msg)
		return err
	})
	if err != nil {
		return common.Hash{}, 0, err
	}
	txHash, err := signAndSendTx(rawBytes, c.rpc, c.account)
	if err != nil {
		return common.Hash{}, 0, errors.Wrap(err, "send tx")
	}
	return common.HexToHash(txHash), nonce, nil
}

// Transact sends a transaction and blocks until it is mined successfully.
func (c *Client) Transact(ctx context.Context, to common.Address, data []byte, value *big.Int) (*types.Receipt, error) {
	txHash, _, err := c.SendTransaction(ctx, &to, data, value)
	if err != nil {
		return nil, err
	}
	return c.WaitForTx(ctx, txHash)
}

// WaitForTx polls until txHash has a receipt. A reverted transaction is
// reported as ErrTxFailed.
func (c *Client) WaitForTx(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	display.Pending("wait tx %s", txHash.Hex())

	ticker := time.NewTicker(receiptPolling)
	defer ticker.Stop()

	for {
		var receipt *types.Receipt
		err := c.pool.Call(func(client *ethclient.Client, _ *rpc.Client) error {
			var err error
			receipt, err = client.TransactionReceipt(ctx, txHash)
			return err
		})
		if err == nil && receipt != nil {
			if receipt.Status == types.ReceiptStatusFailed {
				display.Fail("tx failed %s", txHash.Hex())
				return receipt, errors.Wrap(ErrTxFailed, txHash.Hex())
			}
			display.Success("tx success %s", txHash.Hex())
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, errors.Wrapf(err, "receipt %s", txHash.Hex())
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func createRawTx(ctx context.Context, client *ethclient.Client, msg ethereum.CallMsg) ([]byte, uint64, error) {
	nonce, err := client.PendingNonceAt(ctx, msg.From)
	if err != nil {
		return nil, 0, errors.Wrap(err, "pending nonce")
	}
	estimateGas, err := client.EstimateGas(ctx, msg)
	if err != nil {
		return nil, 0, errors.Wrap(err, "estimate gas")
	}
	gasLimit := mulRate(new(big.Int).SetUint64(estimateGas), gasLimitRate).Uint64()

	var maxPriorityFee, maxFee *big.Int
	header, err := client.HeaderByNumber(ctx, nil)
	if err != nil || header.BaseFee == nil {
		gasPrice, err := client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, 0, errors.Wrap(err, "gas price")
		}
		maxPriorityFee = mulRate(gasPrice, maxFeeRate)
		maxFee = maxPriorityFee
	} else {
		priorityFee, err := client.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, 0, errors.Wrap(err, "gas tip cap")
		}
		// MaxFee = (MaxPriorityFee + BaseFee) * maxFeeRate
		maxPriorityFee = mulRate(priorityFee, priorityRate)
		maxFee = mulRate(new(big.Int).Add(maxPriorityFee, header.BaseFee), maxFeeRate)
	}

	rawTx := types.NewTx(&types.DynamicFeeTx{
		Nonce:     nonce,
		To:        msg.To,
		Value:     msg.Value,
		Gas:       gasLimit,
		GasFeeCap: maxFee,
		GasTipCap: maxPriorityFee,
		Data:      msg.Data,
	})
	rawBytes, err := rawTx.MarshalBinary()
	return rawBytes, nonce, err
}

func signAndSendTx(rawBytes []byte, rpcURL string, account *eth.Account) (string, error) {
	wallet := eth.NewChainWithRpc(rpcURL)
	privateKeyHex, err := account.PrivateKeyHex()
	if err != nil {
		return "", err
	}
	tx, err := eth.NewTransactionFromHex(hex.EncodeToString(rawBytes))
	if err != nil {
		return "", err
	}
	signedTx, err := wallet.SignTransaction(privateKeyHex, tx)
	if err != nil {
		return "", err
	}
	return wallet.SendRawTransaction(signedTx.Value)
}
