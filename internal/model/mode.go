package model

import (
	"fmt"
	"strings"
)

// Mode selects how the output price path of a run is determined.
// Keep these values stable; they appear in config files and API payloads.
type Mode string

const (
	// PriceExogenous takes the expected price path as given and runs a
	// single simulation pass under it.
	PriceExogenous Mode = "exogenous"

	// PriceEndogenous searches for the price path that the model itself
	// reproduces, so expectations are consistent with market clearing.
	PriceEndogenous Mode = "endogenous"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case PriceExogenous:
		return PriceExogenous, nil
	case PriceEndogenous:
		return PriceEndogenous, nil
	}
	return "", fmt.Errorf("unknown price mode %q (want %q or %q)", s, PriceExogenous, PriceEndogenous)
}

func (m Mode) Valid() bool {
	return m == PriceExogenous || m == PriceEndogenous
}
