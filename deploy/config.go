package deploy

import (
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrConfiguration = errors.New("one of config values undefined")

// StratLendConfig describes one vault + leveraged lending strategy pair.
// A nil field is an absent value.
type StratLendConfig struct {
	StrategyName        *string          `yaml:"strategyName"`
	MooName             *string          `yaml:"mooName"`
	MooSymbol           *string          `yaml:"mooSymbol"`
	Delay               *uint64          `yaml:"delay"`
	BorrowRate          *uint64          `yaml:"borrowRate"`
	BorrowRateMax       *uint64          `yaml:"borrowRateMax"`
	BorrowDepth         *uint64          `yaml:"borrowDepth"`
	MinLeverage         *uint64          `yaml:"minLeverage"`
	OutputToNativeRoute []common.Address `yaml:"outputToNativeRoute"`
	OutputToWantRoute   []common.Address `yaml:"outputToWantRoute"`
	Markets             []common.Address `yaml:"markets"`
	Unirouter           *common.Address  `yaml:"unirouter"`
	Keeper              *common.Address  `yaml:"keeper"`
	Strategist          *common.Address  `yaml:"strategist"`
	BeefyFeeRecipient   *common.Address  `yaml:"beefyFeeRecipient"`
}

// Fantom addressbook entries used by the Scream WBTC deployment.
var (
	fantomSCREAM     = common.HexToAddress("0xe0654C8e6fd4D733349ac7E09f6f23DA256bF475")
	fantomWFTM       = common.HexToAddress("0x21be370D5312f44cB42ce377BC9b8a0cEF1A4C83")
	fantomWBTC       = common.HexToAddress("0x321162Cd933E2Be498Cd2267a90534A804051b11")
	screamWBTCMarket = common.HexToAddress("0x4565DC3Ef685E4775cdF920129111DdF43B9d882")
	spookyRouter     = common.HexToAddress("0xF491e7B69E4244ad4002BC14e878a34207E38c29")
	beefyKeeper      = common.HexToAddress("0x10aee6B5594942433e7Fc2783598c979B030eF3D")
	beefyStrategist  = common.HexToAddress("0x010dA5FF62B6e45f89FA7B2d8CEd5a8b5754eC1b")
	beefyFeeRecip    = common.HexToAddress("0x32C82EE8Fca98ce5114D2060c5715AEc714152FB")
)

// DefaultStratLendConfig is the Scream WBTC vault on fantom.
func DefaultStratLendConfig() StratLendConfig {
	return StratLendConfig{
		StrategyName:        strPtr("StrategyScream"),
		MooName:             strPtr("Moo Scream WBTC"),
		MooSymbol:           strPtr("mooScreamWBTC"),
		Delay:               uintPtr(21600),
		BorrowRate:          uintPtr(72),
		BorrowRateMax:       uintPtr(75),
		BorrowDepth:         uintPtr(4),
		MinLeverage:         uintPtr(1),
		OutputToNativeRoute: []common.Address{fantomSCREAM, fantomWFTM},
		OutputToWantRoute:   []common.Address{fantomSCREAM, fantomWFTM, fantomWBTC},
		Markets:             []common.Address{screamWBTCMarket},
		Unirouter:           addrPtr(spookyRouter),
		Keeper:              addrPtr(beefyKeeper),
		Strategist:          addrPtr(beefyStrategist),
		BeefyFeeRecipient:   addrPtr(beefyFeeRecip),
	}
}

// LoadStratLendConfig reads a complete config from a yaml file. Keys left
// out of the file stay absent.
func LoadStratLendConfig(path string) (StratLendConfig, error) {
	var config StratLendConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return config, errors.Wrap(err, "read deploy config")
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "parse deploy config %s", path)
	}
	return config, nil
}

// Validate reports every absent field at once.
func (c StratLendConfig) Validate() error {
	var missing []string
	check := func(name string, absent bool) {
		if absent {
			missing = append(missing, name)
		}
	}
	check("strategyName", c.StrategyName == nil)
	check("mooName", c.MooName == nil)
	check("mooSymbol", c.MooSymbol == nil)
	check("delay", c.Delay == nil)
	check("borrowRate", c.BorrowRate == nil)
	check("borrowRateMax", c.BorrowRateMax == nil)
	check("borrowDepth", c.BorrowDepth == nil)
	check("minLeverage", c.MinLeverage == nil)
	check("outputToNativeRoute", c.OutputToNativeRoute == nil)
	check("outputToWantRoute", c.OutputToWantRoute == nil)
	check("markets", c.Markets == nil)
	check("unirouter", c.Unirouter == nil)
	check("keeper", c.Keeper == nil)
	check("strategist", c.Strategist == nil)
	check("beefyFeeRecipient", c.BeefyFeeRecipient == nil)

	if len(missing) > 0 {
		return errors.Wrapf(ErrConfiguration, "missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// vaultArgs are the BeefyVaultV6 constructor arguments.
func (c StratLendConfig) vaultArgs(strategy common.Address) []interface{} {
	return []interface{}{strategy, *c.MooName, *c.MooSymbol, new(big.Int).SetUint64(*c.Delay)}
}

// strategyArgs are the lending strategy constructor arguments.
func (c StratLendConfig) strategyArgs(vault common.Address) []interface{} {
	return []interface{}{
		new(big.Int).SetUint64(*c.BorrowRate),
		new(big.Int).SetUint64(*c.BorrowRateMax),
		new(big.Int).SetUint64(*c.BorrowDepth),
		new(big.Int).SetUint64(*c.MinLeverage),
		c.OutputToNativeRoute,
		c.OutputToWantRoute,
		c.Markets,
		vault,
		*c.Unirouter,
		*c.Keeper,
		*c.Strategist,
		*c.BeefyFeeRecipient,
	}
}

func strPtr(s string) *string { return &s }

func uintPtr(v uint64) *uint64 { return &v }

func addrPtr(a common.Address) *common.Address { return &a }
