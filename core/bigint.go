package core

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const etherDecimals = 18

// FormatEther renders a wei amount as a decimal ether string, the way
// ethers.utils.formatEther does ("1.5", "0.0", "1000.0").
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}
	d := decimal.NewFromBigInt(wei, -etherDecimals)
	s := d.String()
	if d.Equal(d.Truncate(0)) {
		s += ".0"
	}
	return s
}

// ParseEther converts a decimal ether string to wei.
func ParseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return d.Mul(decimal.New(1, etherDecimals)).BigInt(), nil
}

// mulRate scales amount by a float rate, used for gas limit and fee headroom.
func mulRate(amount *big.Int, rate float64) *big.Int {
	return decimal.NewFromBigInt(amount, 0).Mul(decimal.NewFromFloat(rate)).BigInt()
}
