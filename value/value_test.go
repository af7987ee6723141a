package value

import (
	"strings"
	"testing"

	"github.com/vela-lang/go-vela/types"
)

func TestCheckInteger(t *testing.T) {
	tests := []struct {
		text  string
		width types.IntegerWidth
		ok    bool
	}{
		{"0", types.U8, true},
		{"255", types.U8, true},
		{"256", types.U8, false},
		{"-1", types.U8, false},
		{"65535", types.U16, true},
		{"65536", types.U16, false},
		{"18446744073709551615", types.U64, true},
		{"18446744073709551616", types.U64, false},
		{"340282366920938463463374607431768211455", types.U128, true},
		{"340282366920938463463374607431768211456", types.U128, false},
		{"127", types.I8, true},
		{"128", types.I8, false},
		{"-128", types.I8, true},
		{"-129", types.I8, false},
		{"-170141183460469231731687303715884105728", types.I128, true},
		{"-170141183460469231731687303715884105729", types.I128, false},
		{"", types.U8, false},
		{"12x", types.U8, false},
	}
	for _, tt := range tests {
		err := CheckInteger(tt.text, tt.width)
		if tt.ok && err != nil {
			t.Errorf("%q as %s: unexpected error %v", tt.text, tt.width, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%q as %s: expected an error", tt.text, tt.width)
		}
	}
}

func TestCheckFieldElement(t *testing.T) {
	// The BN254 scalar field modulus.
	const modulus = "21888242871839275222246405745257275088548364400416034343698204186575808495617"
	const modulusMinusOne = "21888242871839275222246405745257275088548364400416034343698204186575808495616"

	if err := CheckFieldElement("0"); err != nil {
		t.Errorf("zero: %v", err)
	}
	if err := CheckFieldElement("12345678901234567890"); err != nil {
		t.Errorf("valid element: %v", err)
	}
	if err := CheckFieldElement(modulusMinusOne); err != nil {
		t.Errorf("modulus-1 is canonical: %v", err)
	}
	if err := CheckFieldElement(modulus); err == nil {
		t.Error("expected an error for the modulus itself")
	}
	if err := CheckFieldElement("-1"); err == nil {
		t.Error("expected an error for a negative element")
	}
	if err := CheckFieldElement("not-a-number"); err == nil {
		t.Error("expected an error for a malformed element")
	}
}

func TestCheckAddress(t *testing.T) {
	valid := "vela1" + strings.Repeat("q", 58)
	if err := CheckAddress(valid); err != nil {
		t.Errorf("valid address: %v", err)
	}
	// Too short, too long, wrong prefix, character outside the charset.
	tests := []string{
		"vela1" + strings.Repeat("q", 57),
		"vela1" + strings.Repeat("q", 59),
		"mint1" + strings.Repeat("q", 58),
		"vela1" + strings.Repeat("q", 57) + "b",
	}
	for _, text := range tests {
		if err := CheckAddress(text); err == nil {
			t.Errorf("%q: expected an error", text)
		}
	}
}
