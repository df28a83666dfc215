package testhelpers

import (
	"github.com/pkg/errors"

	"github.com/wowBlaBla/beefy-contracts/core"
)

var ErrUnknownNetwork = errors.New("Unknown network.")

type UnirouterData struct {
	Interface     string
	SwapSignature string
}

var (
	unirouterAVAX  = UnirouterData{Interface: core.RouterInterfaceAVAX, SwapSignature: "swapExactAVAXForTokens"}
	unirouterMATIC = UnirouterData{Interface: core.RouterInterfaceMATIC, SwapSignature: "swapExactMATICForTokens"}
	unirouterETH   = UnirouterData{Interface: core.RouterInterfaceETH, SwapSignature: "swapExactETHForTokens"}
)

// GetUnirouterData picks the router interface and native swap method for a
// router address. The match is on the exact string; anything unrecognised
// gets the ETH-style pair.
func GetUnirouterData(address string) UnirouterData {
	switch address {
	case "0xA52aBE4676dbfd04Df42eF7755F01A3c41f28D27":
		return unirouterAVAX
	case "0xf38a7A7Ac2D745E2204c13F824c00139DF831FFf":
		return unirouterMATIC
	default:
		return unirouterETH
	}
}

// GetWrappedNativeAddr returns the wrapped native token for a network id.
func GetWrappedNativeAddr(networkID string) (string, error) {
	switch networkID {
	case "bsc":
		return "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", nil
	case "avax":
		return "0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7", nil
	case "polygon":
		return "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", nil
	case "heco":
		return "0x5545153CCFcA01fbd7Dd11C0b23ba694D9509A6F", nil
	case "fantom":
		return "0x21be370D5312f44cB42ce377BC9b8a0cEF1A4C83", nil
	default:
		return "", errors.Wrapf(ErrUnknownNetwork, "%q", networkID)
	}
}
