package types

import (
	"fmt"
	"strconv"
	"strings"
)

// NetworkID identifies a ledger network. It is encoded as a single byte on ledger.
type NetworkID uint8

// Known networks.
const (
	Mainnet   NetworkID = 0x01
	Stokenet  NetworkID = 0x02
	Adapanet  NetworkID = 0x0a
	Nebunet   NetworkID = 0x0b
	Kisharnet NetworkID = 0x0c
	Ansharnet NetworkID = 0x0d
	Zabanet   NetworkID = 0x0e
	Enkinet   NetworkID = 0x21
	Hammunet  NetworkID = 0x22
	Nergalnet NetworkID = 0x23
	Mardunet  NetworkID = 0x24
	LocalNet  NetworkID = 0xf0
	Simulator NetworkID = 0xf2
)

var networkNames = map[NetworkID]string{
	Mainnet:   "mainnet",
	Stokenet:  "stokenet",
	Adapanet:  "adapanet",
	Nebunet:   "nebunet",
	Kisharnet: "kisharnet",
	Ansharnet: "ansharnet",
	Zabanet:   "zabanet",
	Enkinet:   "enkinet",
	Hammunet:  "hammunet",
	Nergalnet: "nergalnet",
	Mardunet:  "mardunet",
	LocalNet:  "localnet",
	Simulator: "simulator",
}

// LogicalName returns the lowercase network name, or the hex id for unnamed networks.
func (n NetworkID) LogicalName() string {
	if name, ok := networkNames[n]; ok {
		return name
	}
	return fmt.Sprintf("network-%#02x", uint8(n))
}

func (n NetworkID) String() string { return n.LogicalName() }

// HRPSuffix returns the Bech32m human readable part suffix used in addresses.
func (n NetworkID) HRPSuffix() string {
	switch n {
	case Mainnet:
		return "rdx"
	case LocalNet:
		return "loc"
	case Simulator:
		return "sim"
	default:
		return fmt.Sprintf("tdx_%x_", uint8(n))
	}
}

// ParseNetworkID accepts a logical name ("stokenet") or a decimal/hex id ("2", "0x0a").
func ParseNetworkID(s string) (NetworkID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for id, name := range networkNames {
		if name == s {
			return id, nil
		}
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown network %q", s)
	}
	return NetworkID(v), nil
}
