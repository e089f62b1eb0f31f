package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExogenousPathValidate(t *testing.T) {
	tests := []struct {
		name        string
		path        ExogenousPath
		expectError string
	}{
		{
			name: "valid",
			path: ConstantPath(3, ExoRecord{Technology: 1}),
		},
		{
			name:        "empty",
			path:        ExogenousPath{},
			expectError: "exogenous path is empty",
		},
		{
			name: "period gap",
			path: ExogenousPath{
				{Period: 0, Technology: 1},
				{Period: 2, Technology: 1},
			},
			expectError: "exogenous record 1 has period 2, want 1",
		},
		{
			name: "does not start at zero",
			path: ExogenousPath{
				{Period: 1, Technology: 1},
			},
			expectError: "exogenous record 0 has period 1, want 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.path.Validate()
			if tt.expectError != "" {
				require.EqualError(t, err, tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestExogenousPathTruncate(t *testing.T) {
	path := ConstantPath(10, ExoRecord{Technology: 1})

	short, err := path.Truncate(4)
	require.NoError(t, err)
	require.Len(t, short, 5)
	require.Equal(t, 4, short.Horizon())
	require.Equal(t, 4, short[4].Period)

	// Truncation copies; mutating the result must not touch the source.
	short[0].Technology = 99
	require.Equal(t, 1.0, path[0].Technology)

	_, err = path.Truncate(20)
	require.EqualError(t, err, "input path ends at period 10, cannot cover horizon 20")

	_, err = path.Truncate(-1)
	require.EqualError(t, err, "horizon must be >= 0, got -1")
}

func TestConstantPath(t *testing.T) {
	rec := ExoRecord{Technology: 1.5, DividendTax: 0.2, ProductionCredit: 0.1, InvestmentCredit: 0.05}
	path := ConstantPath(4, rec)

	require.Len(t, path, 5)
	require.NoError(t, path.Validate())
	for i, got := range path {
		require.Equal(t, i, got.Period)
		require.Equal(t, rec.Technology, got.Technology)
		require.Equal(t, rec.DividendTax, got.DividendTax)
		require.Equal(t, rec.ProductionCredit, got.ProductionCredit)
		require.Equal(t, rec.InvestmentCredit, got.InvestmentCredit)
	}
}
