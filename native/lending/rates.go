package lending

// RateTable maps credit-score thresholds to interest rates in basis points.
// Resolution walks the thresholds from highest to lowest; a score below every
// threshold falls into the base tier.
type RateTable map[uint32]uint32

// Thresholds is the fixed set of score tiers, ascending. The table installed
// at initialization covers exactly these keys.
var Thresholds = []uint32{300, 400, 500, 600, 700, 800}

// defaultRates mirrors the initialization values so a missing or tampered
// table entry degrades to the same behaviour instead of a zero rate.
var defaultRates = map[uint32]uint32{
	300: 2500,
	400: 2000,
	500: 1500,
	600: 1200,
	700: 1000,
	800: 800,
}

// DefaultRateTable returns the tier table installed during initialization.
func DefaultRateTable() RateTable {
	table := make(RateTable, len(defaultRates))
	for threshold, rate := range defaultRates {
		table[threshold] = rate
	}
	return table
}

// Clone returns a copy of the table.
func (t RateTable) Clone() RateTable {
	if t == nil {
		return nil
	}
	clone := make(RateTable, len(t))
	for threshold, rate := range t {
		clone[threshold] = rate
	}
	return clone
}

// Resolve returns the basis-point rate for a credit score. Descending
// threshold walk, first match wins; each lookup falls back to the tier's
// default when the stored table lacks the entry. There is no failure mode.
func (t RateTable) Resolve(score uint32) uint32 {
	for i := len(Thresholds) - 1; i > 0; i-- {
		if score >= Thresholds[i] {
			return t.tierRate(Thresholds[i])
		}
	}
	return t.tierRate(Thresholds[0])
}

func (t RateTable) tierRate(threshold uint32) uint32 {
	if t != nil {
		if rate, ok := t[threshold]; ok {
			return rate
		}
	}
	return defaultRates[threshold]
}
