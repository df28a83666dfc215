package core

import (
	"bytes"
	"embed"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	RouterInterfaceETH   = "IUniswapRouterETH"
	RouterInterfaceAVAX  = "IUniswapRouterAVAX"
	RouterInterfaceMATIC = "IUniswapRouterMATIC"
)

//go:embed abi/*.json
var abiFiles embed.FS

var (
	erc20Abi         *abi.ABI
	pairAbi          *abi.ABI
	wrappedNativeAbi *abi.ABI
	vaultAbi         *abi.ABI
	strategyAbi      *abi.ABI
	routerAbis       = map[string]*abi.ABI{}
)

func init() {
	initAbi(&erc20Abi, "abi/erc20.json")
	initAbi(&pairAbi, "abi/IUniswapV2Pair.json")
	initAbi(&wrappedNativeAbi, "abi/IWrappedNative.json")
	initAbi(&vaultAbi, "abi/IVault.json")
	initAbi(&strategyAbi, "abi/IStrategy.json")
	for _, name := range []string{RouterInterfaceETH, RouterInterfaceAVAX, RouterInterfaceMATIC} {
		var a *abi.ABI
		initAbi(&a, "abi/"+name+".json")
		routerAbis[name] = a
	}
}

func initAbi(a **abi.ABI, path string) {
	data, err := abiFiles.ReadFile(path)
	if err != nil {
		panic(err)
	}
	tmpAbi, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		panic(err)
	}
	*a = &tmpAbi
}
