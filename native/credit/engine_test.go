package credit

import (
	"errors"
	"math/big"
	"testing"

	"giglend/crypto"
	nativecommon "giglend/native/common"
)

func makeAddress(fill byte) crypto.Address {
	b := make([]byte, 20)
	for i := range b {
		b[i] = fill
	}
	return crypto.NewAddress(crypto.GigPrefix, b)
}

type mockProfileState struct {
	profiles map[string]*Profile
}

func newMockProfileState() *mockProfileState {
	return &mockProfileState{profiles: make(map[string]*Profile)}
}

func (s *mockProfileState) GetProfile(addr crypto.Address) (*Profile, bool, error) {
	p, ok := s.profiles[addr.String()]
	return p, ok, nil
}

func (s *mockProfileState) PutProfile(profile *Profile) error {
	s.profiles[profile.User.String()] = profile
	return nil
}

func newTestEngine(state *mockProfileState, now uint64) *Engine {
	engine := NewEngine()
	engine.SetState(state)
	engine.SetNowFunc(func() uint64 { return now })
	return engine
}

func TestUpdateProfileFullReplace(t *testing.T) {
	user := makeAddress(0x11)
	state := newMockProfileState()
	engine := newTestEngine(state, 1_700_000_000)

	first, err := engine.UpdateProfile(user, user, big.NewInt(50_000), big.NewInt(4_000), []string{"uber", "doordash"})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if first.CreditScore != 600 {
		t.Fatalf("expected score 600, got %d", first.CreditScore)
	}
	if first.PaymentHistory != InitialPaymentHistory || first.VerificationLevel != InitialVerificationLevel {
		t.Fatalf("expected reset defaults, got history=%d level=%d", first.PaymentHistory, first.VerificationLevel)
	}
	if first.LastUpdated != 1_700_000_000 {
		t.Fatalf("expected ledger timestamp, got %d", first.LastUpdated)
	}

	// A second write replaces everything; no merge with the stored record.
	second, err := engine.UpdateProfile(user, user, big.NewInt(100), big.NewInt(100), nil)
	if err != nil {
		t.Fatalf("second UpdateProfile: %v", err)
	}
	if second.CreditScore != 350 {
		t.Fatalf("expected score 350 after replace, got %d", second.CreditScore)
	}
	if len(second.GigPlatforms) != 0 {
		t.Fatalf("expected platform list replaced, got %v", second.GigPlatforms)
	}

	stored, ok, err := engine.Profile(user)
	if err != nil || !ok {
		t.Fatalf("Profile: ok=%v err=%v", ok, err)
	}
	if stored.CreditScore != 350 {
		t.Fatalf("stored profile not replaced: score %d", stored.CreditScore)
	}
}

func TestUpdateProfileRequiresOwner(t *testing.T) {
	user := makeAddress(0x11)
	other := makeAddress(0x22)
	state := newMockProfileState()
	engine := newTestEngine(state, 1)

	if _, err := engine.UpdateProfile(other, user, big.NewInt(1), big.NewInt(1), nil); !errors.Is(err, nativecommon.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if len(state.profiles) != 0 {
		t.Fatalf("unauthorised call wrote a profile")
	}
}

func TestUpdateProfileKeepsPlatformOrderAndDuplicates(t *testing.T) {
	user := makeAddress(0x11)
	state := newMockProfileState()
	engine := newTestEngine(state, 1)

	platforms := []string{"uber", "uber", "lyft", "doordash"}
	profile, err := engine.UpdateProfile(user, user, big.NewInt(1), big.NewInt(1), platforms)
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if len(profile.GigPlatforms) != 4 {
		t.Fatalf("expected 4 platform entries, got %d", len(profile.GigPlatforms))
	}
	for i, want := range platforms {
		if profile.GigPlatforms[i] != want {
			t.Fatalf("platform order lost at %d: got %q want %q", i, profile.GigPlatforms[i], want)
		}
	}
}
