package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cosmos/cosmos-sdk/types/bech32"
)

var (
	bech32ShapeRegex = regexp.MustCompile(`^[a-z0-9]{39,59}$`)
	evmAddressRegex  = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// LooksLikeBech32 is a coarse charset/length check. It does not verify the
// checksum; use ValidateBech32 for that.
func LooksLikeBech32(address string, prefix string) bool {
	if !bech32ShapeRegex.MatchString(address) {
		return false
	}
	if prefix == "" {
		return true
	}
	return strings.HasPrefix(address, prefix+"1") || strings.HasPrefix(address, prefix+"valoper1") || strings.HasPrefix(address, prefix+"valcons1")
}

func LooksLikeEVMAddress(address string) bool {
	return evmAddressRegex.MatchString(address)
}

// GetAddressPrefix returns the human readable part of a bech32 address.
func GetAddressPrefix(address string) string {
	idx := strings.LastIndex(address, "1")
	if idx < 1 {
		return ""
	}
	return address[:idx]
}

func IsValidatorOperator(address string) bool {
	return strings.HasSuffix(GetAddressPrefix(address), "valoper")
}

// ValidateBech32 decodes address and checks its prefix when one is given.
func ValidateBech32(address string, expectedPrefix string) error {
	hrp, _, err := bech32.DecodeAndConvert(address)
	if err != nil {
		return fmt.Errorf("invalid bech32 address %s: %w", address, err)
	}
	if expectedPrefix != "" && hrp != expectedPrefix && hrp != expectedPrefix+"valoper" && hrp != expectedPrefix+"valcons" {
		return fmt.Errorf("address %s has prefix %s, expected %s", address, hrp, expectedPrefix)
	}
	return nil
}

// ConsensusAddress encodes raw proposer/consensus address bytes as a
// <prefix>valcons bech32 string.
func ConsensusAddress(prefix string, addr []byte) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("account prefix not set")
	}
	return bech32.ConvertAndEncode(prefix+"valcons", addr)
}
