package lending

import "testing"

func TestResolveDefaults(t *testing.T) {
	table := DefaultRateTable()
	cases := []struct {
		score uint32
		want  uint32
	}{
		{850, 800},
		{800, 800},
		{799, 1000},
		{700, 1000},
		{699, 1200},
		{600, 1200},
		{599, 1500},
		{500, 1500},
		{499, 2000},
		{400, 2000},
		{399, 2500},
		{300, 2500},
		{0, 2500},
	}
	for _, tc := range cases {
		if got := table.Resolve(tc.score); got != tc.want {
			t.Fatalf("Resolve(%d) = %d, want %d", tc.score, got, tc.want)
		}
	}
}

func TestResolveMonotoneNonIncreasing(t *testing.T) {
	table := DefaultRateTable()
	prev := table.Resolve(0)
	for score := uint32(1); score <= 900; score++ {
		rate := table.Resolve(score)
		if rate > prev {
			t.Fatalf("rate increased with score: Resolve(%d)=%d > %d", score, rate, prev)
		}
		prev = rate
	}
}

func TestResolveFallsBackPerTier(t *testing.T) {
	// A tampered table missing entries degrades to the initialization values.
	table := RateTable{700: 999}
	if got := table.Resolve(720); got != 999 {
		t.Fatalf("Resolve(720) = %d, want stored 999", got)
	}
	if got := table.Resolve(820); got != 800 {
		t.Fatalf("Resolve(820) = %d, want default 800", got)
	}
	if got := table.Resolve(450); got != 2000 {
		t.Fatalf("Resolve(450) = %d, want default 2000", got)
	}

	var nilTable RateTable
	if got := nilTable.Resolve(650); got != 1200 {
		t.Fatalf("nil table Resolve(650) = %d, want default 1200", got)
	}
}
