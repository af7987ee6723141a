// Package value validates literal values against their declared types.
//
// Integer literals are bounds-checked per width using 256-bit arithmetic;
// field, group and scalar literals must be canonical BN254 scalar-field
// elements, matching the arithmetization the flattened tree is compiled to.
package value

import (
	"fmt"
	"math/big"
	"strings"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"

	"github.com/vela-lang/go-vela/types"
)

// CheckInteger validates the digits of an integer literal against the given
// width. Text may carry a leading minus for signed widths.
func CheckInteger(text string, width types.IntegerWidth) error {
	neg := strings.HasPrefix(text, "-")
	digits := strings.TrimPrefix(text, "-")
	if digits == "" {
		return fmt.Errorf("empty integer literal")
	}

	v, err := uint256.FromDecimal(digits)
	if err != nil {
		return fmt.Errorf("invalid integer literal %q: %w", text, err)
	}

	bits := width.Bits()
	if !width.Signed() {
		if neg {
			return fmt.Errorf("negative literal %s is out of range for %s", text, width)
		}
		if v.BitLen() > int(bits) {
			return fmt.Errorf("literal %s is out of range for %s", text, width)
		}
		return nil
	}

	// Signed range: [-2^(bits-1), 2^(bits-1)-1].
	limit := new(uint256.Int).Lsh(uint256.NewInt(1), bits-1)
	if neg {
		if v.Gt(limit) {
			return fmt.Errorf("literal %s is out of range for %s", text, width)
		}
		return nil
	}
	if v.Cmp(limit) >= 0 {
		return fmt.Errorf("literal %s is out of range for %s", text, width)
	}
	return nil
}

// CheckFieldElement validates a field, group or scalar literal as a
// canonical element of the BN254 scalar field. Values at or above the
// modulus are rejected rather than silently reduced.
func CheckFieldElement(text string) error {
	n, ok := new(big.Int).SetString(text, 10)
	if !ok || n.Sign() < 0 {
		return fmt.Errorf("invalid field element %q", text)
	}
	if n.Cmp(fr.Modulus()) >= 0 {
		return fmt.Errorf("field element %q is not below the field modulus", text)
	}
	return nil
}

// CheckAddress validates an address literal. Addresses are bech32-style
// strings beginning with the account prefix.
func CheckAddress(text string) error {
	if !strings.HasPrefix(text, "vela1") || len(text) != 63 {
		return fmt.Errorf("invalid address literal %q", text)
	}
	for _, r := range text[5:] {
		if !strings.ContainsRune("qpzry9x8gf2tvdw0s3jn54khce6mua7l", r) {
			return fmt.Errorf("invalid address literal %q: bad character %q", text, r)
		}
	}
	return nil
}
