package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParametersValidate(t *testing.T) {
	valid := Parameters{
		Interest:       0.05,
		Depreciation:   0.05,
		AdjustCost:     0.5,
		CapitalPrice:   1,
		Elasticity:     -0.5,
		DemandScale:    80,
		SteadyPrice:    1,
		InitialCapital: 80,
	}

	tests := []struct {
		name        string
		mutate      func(*Parameters)
		expectError string
	}{
		{
			name:   "valid",
			mutate: func(*Parameters) {},
		},
		{
			name:        "negative interest",
			mutate:      func(p *Parameters) { p.Interest = -0.01 },
			expectError: "Interest must be >= 0",
		},
		{
			name:        "zero depreciation",
			mutate:      func(p *Parameters) { p.Depreciation = 0 },
			expectError: "Depreciation must be in (0, 1]",
		},
		{
			name:        "depreciation above one",
			mutate:      func(p *Parameters) { p.Depreciation = 1.2 },
			expectError: "Depreciation must be in (0, 1]",
		},
		{
			name:        "zero adjustment cost",
			mutate:      func(p *Parameters) { p.AdjustCost = 0 },
			expectError: "AdjustCost must be > 0",
		},
		{
			name:        "zero capital price",
			mutate:      func(p *Parameters) { p.CapitalPrice = 0 },
			expectError: "CapitalPrice must be > 0",
		},
		{
			name:        "upward sloping demand",
			mutate:      func(p *Parameters) { p.Elasticity = 0.5 },
			expectError: "Elasticity must be < 0 (demand slopes down)",
		},
		{
			name:        "zero demand scale",
			mutate:      func(p *Parameters) { p.DemandScale = 0 },
			expectError: "DemandScale must be > 0",
		},
		{
			name:        "zero steady price",
			mutate:      func(p *Parameters) { p.SteadyPrice = 0 },
			expectError: "SteadyPrice must be > 0",
		},
		{
			name:        "zero initial capital",
			mutate:      func(p *Parameters) { p.InitialCapital = 0 },
			expectError: "InitialCapital must be > 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.expectError != "" {
				require.EqualError(t, err, tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}
