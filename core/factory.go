package core

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/wowBlaBla/beefy-contracts/display"
)

var (
	ErrArtifactNotFound = errors.New("artifact not found")
	errStopWalk         = errors.New("stop walk")
)

// artifact is the subset of a hardhat build artifact needed to deploy.
type artifact struct {
	ContractName string          `json:"contractName"`
	Abi          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// Artifacts looks up compiled contracts under a hardhat artifacts directory.
type Artifacts struct {
	Root string
}

func (a Artifacts) find(name string) (string, error) {
	var found string
	err := filepath.WalkDir(a.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == name+".json" {
			found = path
			return errStopWalk
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopWalk) {
		return "", errors.Wrapf(err, "scan %s", a.Root)
	}
	if found == "" {
		return "", errors.Wrapf(ErrArtifactNotFound, "%s in %s", name, a.Root)
	}
	return found, nil
}

// GetContractFactory loads the artifact for name and binds it to client.
func (a Artifacts) GetContractFactory(client *Client, name string) (*ContractFactory, error) {
	path, err := a.find(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	contractAbi, err := abi.JSON(bytes.NewReader(art.Abi))
	if err != nil {
		return nil, errors.Wrapf(err, "abi of %s", name)
	}
	bytecode, err := hexutil.Decode(art.Bytecode)
	if err != nil || len(bytecode) == 0 {
		return nil, errors.Errorf("%s has no deployable bytecode", name)
	}
	return &ContractFactory{name: name, abi: &contractAbi, bytecode: bytecode, client: client}, nil
}

type ContractFactory struct {
	name     string
	abi      *abi.ABI
	bytecode []byte
	client   *Client
}

func (f *ContractFactory) Name() string {
	return f.name
}

// Deploy submits the creation transaction. Use Deployed on the result to
// wait for it to be mined.
func (f *ContractFactory) Deploy(ctx context.Context, args ...interface{}) (*PendingContract, error) {
	input, err := f.abi.Pack("", args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s constructor", f.name)
	}
	data := append(append([]byte{}, f.bytecode...), input...)
	txHash, nonce, err := f.client.SendTransaction(ctx, nil, data, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "deploy %s", f.name)
	}
	return &PendingContract{
		name:    f.name,
		txHash:  txHash,
		address: crypto.CreateAddress(f.client.From(), nonce),
		client:  f.client,
	}, nil
}

type PendingContract struct {
	name    string
	txHash  common.Hash
	address common.Address
	client  *Client
}

func (p *PendingContract) TxHash() common.Hash {
	return p.txHash
}

// Deployed waits for the creation transaction and returns the contract
// address from its receipt.
func (p *PendingContract) Deployed(ctx context.Context) (common.Address, error) {
	receipt, err := p.client.WaitForTx(ctx, p.txHash)
	if err != nil {
		return common.Address{}, errors.Wrapf(err, "deploy %s", p.name)
	}
	if receipt.ContractAddress != (common.Address{}) {
		return receipt.ContractAddress, nil
	}
	return p.address, nil
}

// HardhatCompiler runs `npx hardhat compile` in Dir.
type HardhatCompiler struct {
	Dir string
}

func (h HardhatCompiler) Compile(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "npx", "hardhat", "compile")
	cmd.Dir = h.Dir
	var stderr bytes.Buffer
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr
	display.PrintfWithTime("compiling contracts in %s\n", h.Dir)
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "hardhat compile: %s", strings.TrimSpace(stderr.String()))
	}
	return nil
}
