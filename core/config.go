package core

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrUnknownNetwork = errors.New("unknown network")

type Config struct {
	Networks Networks `yaml:"networks"`
}

type Networks map[string]Network

type Network struct {
	ChainId int    `yaml:"chainid"`
	Rpc     string `yaml:"rpc"`
}

var defaultNetworks = Networks{
	"bsc":       {ChainId: 56, Rpc: "https://bsc-dataseed2.defibit.io/"},
	"heco":      {ChainId: 128, Rpc: "https://http-mainnet-node.huobichain.com"},
	"avax":      {ChainId: 43114, Rpc: "https://api.avax.network/ext/bc/C/rpc"},
	"polygon":   {ChainId: 137, Rpc: "https://polygon-rpc.com/"},
	"fantom":    {ChainId: 250, Rpc: "https://rpc.ftm.tools"},
	"one":       {ChainId: 1666600000, Rpc: "https://api.s0.t.hmny.io/"},
	"arbitrum":  {ChainId: 42161, Rpc: "https://arb1.arbitrum.io/rpc"},
	"celo":      {ChainId: 42220, Rpc: "https://forno.celo.org"},
	"moonriver": {ChainId: 1285, Rpc: "https://rpc.moonriver.moonbeam.network"},
	"cronos":    {ChainId: 25, Rpc: "https://evm-cronos.crypto.org"},
	"aurora":    {ChainId: 1313161554, Rpc: "https://mainnet.aurora.dev"},
	"fuse":      {ChainId: 122, Rpc: "https://rpc.fuse.io"},
	"metis":     {ChainId: 1088, Rpc: "https://andromeda.metis.io/?owner=1088"},
	"moonbeam":  {ChainId: 1284, Rpc: "https://rpc.api.moonbeam.network"},
	"localhost": {ChainId: 31337, Rpc: "http://127.0.0.1:8545"},
}

// DefaultNetworks returns a copy of the built-in network table.
func DefaultNetworks() Networks {
	n := make(Networks, len(defaultNetworks))
	for name, network := range defaultNetworks {
		n[name] = network
	}
	return n
}

// Resolve maps a hardhat network name to its RPC endpoint.
func (n Networks) Resolve(name string) (string, error) {
	network, ok := n[name]
	if !ok || network.Rpc == "" {
		return "", errors.Wrapf(ErrUnknownNetwork, "%q", name)
	}
	return network.Rpc, nil
}

// LoadConfig reads a yaml config file and layers its networks over the
// built-in table.
func LoadConfig(path string) (Config, error) {
	config := Config{Networks: DefaultNetworks()}
	data, err := os.ReadFile(path)
	if err != nil {
		return config, errors.Wrap(err, "read config")
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return config, errors.Wrapf(err, "parse config %s", path)
	}
	for name, network := range file.Networks {
		config.Networks[name] = network
	}
	return config, nil
}
