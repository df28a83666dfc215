package testhelpers

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/wowBlaBla/beefy-contracts/core"
)

type chainContracts struct {
	client *core.Client
}

// ChainContracts binds contracts on a live node through client.
func ChainContracts(client *core.Client) Contracts {
	return chainContracts{client: client}
}

func (c chainContracts) Pair(address common.Address) Pair {
	return core.NewPairContract(c.client, address)
}

func (c chainContracts) Token(address common.Address) Token {
	return core.NewErc20Contract(c.client, address)
}

func (c chainContracts) WrappedNative(address common.Address) WrappedNative {
	return core.NewWrappedNativeContract(c.client, address)
}

// Unirouter binds the router at address with the interface GetUnirouterData
// picks for it, and returns the swap method to use with it.
func Unirouter(client *core.Client, address string) (*core.RouterContract, string, error) {
	data := GetUnirouterData(address)
	router, err := core.NewRouterContract(client, common.HexToAddress(address), data.Interface)
	if err != nil {
		return nil, "", err
	}
	return router, data.SwapSignature, nil
}
