package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestOverall(t *testing.T) {
	tests := []struct {
		name     string
		market   *int
		severity *int
		want     *int
	}{
		{name: "market and severity", market: intPtr(80), severity: intPtr(4), want: intPtr(68)},
		{name: "severity raised", market: intPtr(80), severity: intPtr(9), want: intPtr(83)},
		{name: "no market score", market: nil, severity: intPtr(9), want: nil},
		{name: "no severity", market: intPtr(50), severity: nil, want: nil},
		{name: "odd market truncates", market: intPtr(81), severity: intPtr(4), want: intPtr(68)},
		{name: "half point truncates", market: intPtr(85), severity: intPtr(4), want: intPtr(71)},
		{name: "fraction below next point", market: intPtr(99), severity: intPtr(1), want: intPtr(72)},
		{name: "max severity", market: intPtr(90), severity: intPtr(10), want: intPtr(93)},
		{name: "upper clamp", market: intPtr(100), severity: intPtr(10), want: intPtr(100)},
		{name: "zero", market: intPtr(0), severity: intPtr(1), want: intPtr(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overall(tt.market, tt.severity)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestOverallDeterministic(t *testing.T) {
	first := Overall(intPtr(73), intPtr(6))
	for i := 0; i < 10; i++ {
		assert.Equal(t, *first, *Overall(intPtr(73), intPtr(6)))
	}
}

func TestBandOf(t *testing.T) {
	assert.Equal(t, BandHuge, BandOf(90))
	assert.Equal(t, BandLarge, BandOf(89))
	assert.Equal(t, BandLarge, BandOf(70))
	assert.Equal(t, BandMedium, BandOf(69))
	assert.Equal(t, BandSmall, BandOf(30))
	assert.Equal(t, BandTiny, BandOf(29))
	assert.Equal(t, BandTiny, BandOf(0))
}

func TestReconcileMarketScore(t *testing.T) {
	// declared band is lower than the score: lowered to the top of the declared band
	assert.Equal(t, 69, ReconcileMarketScore(85, BandMedium))
	assert.Equal(t, 29, ReconcileMarketScore(31, BandTiny))
	// declared band is higher: the score already sits in the lower band
	assert.Equal(t, 55, ReconcileMarketScore(55, BandLarge))
	// agreement or no band
	assert.Equal(t, 72, ReconcileMarketScore(72, BandLarge))
	assert.Equal(t, 72, ReconcileMarketScore(72, ""))
}

func TestParseBand(t *testing.T) {
	b, ok := ParseBand("large")
	assert.True(t, ok)
	assert.Equal(t, BandLarge, b)

	_, ok = ParseBand("enormous")
	assert.False(t, ok)
}
