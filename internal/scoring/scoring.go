// Package scoring computes the overall confidence score of a problem.
package scoring

// Weights in tenths: market counts 0.7 and each severity point 3. The sum is truncated.
const (
	marketTenths   = 7
	severityTenths = 30
)

// Overall combines a 0..100 market score and a 1..10 severity into a 0..100 score.
// It returns nil unless both inputs are present.
func Overall(market *int, severity *int) *int {
	if market == nil || severity == nil {
		return nil
	}
	score := (*market*marketTenths + *severity*severityTenths) / 10
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return &score
}

// Band names the market size band a 0..100 score falls in.
type Band string

const (
	BandHuge   Band = "huge"
	BandLarge  Band = "large"
	BandMedium Band = "medium"
	BandSmall  Band = "small"
	BandTiny   Band = "tiny"
)

var bandFloors = []struct {
	band  Band
	floor int
}{
	{BandHuge, 90},
	{BandLarge, 70},
	{BandMedium, 50},
	{BandSmall, 30},
	{BandTiny, 0},
}

// BandOf returns the band containing score.
func BandOf(score int) Band {
	for _, b := range bandFloors {
		if score >= b.floor {
			return b.band
		}
	}
	return BandTiny
}

// ParseBand maps a model-declared band label onto a Band. Unknown labels return false.
func ParseBand(label string) (Band, bool) {
	switch Band(label) {
	case BandHuge, BandLarge, BandMedium, BandSmall, BandTiny:
		return Band(label), true
	}
	return "", false
}

// ReconcileMarketScore resolves a disagreement between a score and its declared band
// by lowering the score to the top of the lower of the two bands.
func ReconcileMarketScore(score int, declared Band) int {
	actual := BandOf(score)
	if declared == "" || declared == actual {
		return score
	}
	lower := declared
	if bandRank(actual) < bandRank(declared) {
		lower = actual
	}
	if bandRank(lower) == bandRank(actual) {
		return score
	}
	return bandTop(lower)
}

func bandRank(b Band) int {
	for i, bf := range bandFloors {
		if bf.band == b {
			return len(bandFloors) - i
		}
	}
	return 0
}

func bandTop(b Band) int {
	top := 100
	for _, bf := range bandFloors {
		if bf.band == b {
			return top
		}
		top = bf.floor - 1
	}
	return top
}
