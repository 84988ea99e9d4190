// Package usdc converts between the settlement stablecoin's smallest unit
// and its human display form. USDC carries 6 fractional decimals, so a
// display amount X.YYYYYY corresponds to the integer X*1_000_000+YYYYYY.
package usdc

import (
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"
)

// Decimals is the fractional digit count of the settlement stablecoin
const Decimals = 6

// ToUnits parses a display amount like "5.00" into smallest units.
func ToUnits(display string) (*big.Int, error) {
	d, err := decimal.NewFromString(display)
	if err != nil {
		return nil, xerrors.Errorf("parse display amount %q: %w", display, err)
	}
	shifted := d.Shift(Decimals)
	if !shifted.IsInteger() {
		return nil, xerrors.Errorf("amount %q has more than %d decimals", display, Decimals)
	}
	return shifted.BigInt(), nil
}

// Format renders smallest units as a display amount, trimming trailing zeros.
func Format(units *big.Int) string {
	return decimal.NewFromBigInt(units, -Decimals).String()
}
