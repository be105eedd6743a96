package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sort"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"giglend/crypto"
	"giglend/native/credit"
	"giglend/native/lending"
	"giglend/storage"
)

// Manager owns the logical key layout of the protocol state on top of the
// key-value port. Every record sits under its own keccak-hashed key so the
// host ledger can address them independently.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

var (
	loanPrefix     = []byte("lending/loan:")
	profilePrefix  = []byte("credit/profile:")
	depositsPrefix = []byte("lending/deposits:")

	loanCounterKey    = ethcrypto.Keccak256([]byte("lending/loan-counter"))
	totalLiquidityKey = ethcrypto.Keccak256([]byte("lending/total-liquidity"))
	rateTableKey      = ethcrypto.Keccak256([]byte("lending/interest-rates"))
	adminKey          = ethcrypto.Keccak256([]byte("ledger/admin"))
	pausedKey         = ethcrypto.Keccak256([]byte("ledger/paused"))
)

func loanKey(id uint64) []byte {
	buf := make([]byte, len(loanPrefix)+8)
	copy(buf, loanPrefix)
	binary.BigEndian.PutUint64(buf[len(loanPrefix):], id)
	return ethcrypto.Keccak256(buf)
}

func addressKey(prefix []byte, addr crypto.Address) []byte {
	buf := make([]byte, len(prefix)+len(addr.Bytes()))
	copy(buf, prefix)
	copy(buf[len(prefix):], addr.Bytes())
	return ethcrypto.Keccak256(buf)
}

// --- signed amounts ---

// RLP only carries unsigned integers, so signed ledger amounts are persisted
// as an explicit magnitude plus sign flag.
type storedAmount struct {
	Neg bool
	Abs *big.Int
}

func encodeAmount(v *big.Int) storedAmount {
	if v == nil {
		return storedAmount{Abs: big.NewInt(0)}
	}
	return storedAmount{Neg: v.Sign() < 0, Abs: new(big.Int).Abs(v)}
}

func decodeAmount(s storedAmount) *big.Int {
	if s.Abs == nil {
		return big.NewInt(0)
	}
	v := new(big.Int).Set(s.Abs)
	if s.Neg {
		v.Neg(v)
	}
	return v
}

// --- raw access helpers ---

func (m *Manager) read(key []byte, out interface{}) (bool, error) {
	data, err := m.db.Get(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, fmt.Errorf("state: decode %T: %w", out, err)
	}
	return true, nil
}

func (m *Manager) write(key []byte, in interface{}) error {
	data, err := rlp.EncodeToBytes(in)
	if err != nil {
		return fmt.Errorf("state: encode %T: %w", in, err)
	}
	return m.db.Put(key, data)
}

// --- loans ---

type storedLoan struct {
	Borrower     []byte
	Amount       storedAmount
	Collateral   storedAmount
	InterestRate uint32
	Duration     uint64
	CreatedAt    uint64
	DueDate      uint64
	Active       bool
	CreditScore  uint32
}

// LendingGetLoan returns the loan stored under the id, if present.
func (m *Manager) LendingGetLoan(id uint64) (*lending.Loan, bool, error) {
	stored := new(storedLoan)
	ok, err := m.read(loanKey(id), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &lending.Loan{
		Borrower:     crypto.NewAddress(crypto.GigPrefix, stored.Borrower),
		Amount:       decodeAmount(stored.Amount),
		Collateral:   decodeAmount(stored.Collateral),
		InterestRate: stored.InterestRate,
		Duration:     stored.Duration,
		CreatedAt:    stored.CreatedAt,
		DueDate:      stored.DueDate,
		Active:       stored.Active,
		CreditScore:  stored.CreditScore,
	}, true, nil
}

// LendingPutLoan writes the loan record under the id.
func (m *Manager) LendingPutLoan(id uint64, loan *lending.Loan) error {
	if loan == nil {
		return fmt.Errorf("state: nil loan")
	}
	return m.write(loanKey(id), &storedLoan{
		Borrower:     loan.Borrower.Bytes(),
		Amount:       encodeAmount(loan.Amount),
		Collateral:   encodeAmount(loan.Collateral),
		InterestRate: loan.InterestRate,
		Duration:     loan.Duration,
		CreatedAt:    loan.CreatedAt,
		DueDate:      loan.DueDate,
		Active:       loan.Active,
		CreditScore:  loan.CreditScore,
	})
}

// LendingLoanCounter returns the next loan id, zero when uninitialised.
func (m *Manager) LendingLoanCounter() (uint64, error) {
	var counter uint64
	ok, err := m.read(loanCounterKey, &counter)
	if err != nil || !ok {
		return 0, err
	}
	return counter, nil
}

// LendingSetLoanCounter stores the next loan id.
func (m *Manager) LendingSetLoanCounter(counter uint64) error {
	return m.write(loanCounterKey, counter)
}

// --- liquidity ---

type storedDeposit struct {
	Provider        []byte
	Amount          storedAmount
	APY             uint32
	ProvidedAt      uint64
	AccruedInterest storedAmount
	Active          bool
}

// LendingDeposits returns the ordered deposit list for a provider. A provider
// with no history yields an empty slice.
func (m *Manager) LendingDeposits(provider crypto.Address) ([]*lending.LiquidityDeposit, error) {
	var stored []storedDeposit
	ok, err := m.read(addressKey(depositsPrefix, provider), &stored)
	if err != nil || !ok {
		return nil, err
	}
	deposits := make([]*lending.LiquidityDeposit, 0, len(stored))
	for _, d := range stored {
		deposits = append(deposits, &lending.LiquidityDeposit{
			Provider:        crypto.NewAddress(crypto.GigPrefix, d.Provider),
			Amount:          decodeAmount(d.Amount),
			APY:             d.APY,
			ProvidedAt:      d.ProvidedAt,
			AccruedInterest: decodeAmount(d.AccruedInterest),
			Active:          d.Active,
		})
	}
	return deposits, nil
}

// LendingPutDeposits replaces the ordered deposit list for a provider.
func (m *Manager) LendingPutDeposits(provider crypto.Address, deposits []*lending.LiquidityDeposit) error {
	stored := make([]storedDeposit, 0, len(deposits))
	for _, d := range deposits {
		if d == nil {
			continue
		}
		stored = append(stored, storedDeposit{
			Provider:        d.Provider.Bytes(),
			Amount:          encodeAmount(d.Amount),
			APY:             d.APY,
			ProvidedAt:      d.ProvidedAt,
			AccruedInterest: encodeAmount(d.AccruedInterest),
			Active:          d.Active,
		})
	}
	return m.write(addressKey(depositsPrefix, provider), stored)
}

// TotalLiquidity returns the aggregate pool value, zero when uninitialised.
// The aggregate is maintained incrementally by the lending engine and never
// recomputed from the deposit records.
func (m *Manager) TotalLiquidity() (*big.Int, error) {
	stored := new(storedAmount)
	ok, err := m.read(totalLiquidityKey, stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return decodeAmount(*stored), nil
}

// SetTotalLiquidity stores the aggregate pool value.
func (m *Manager) SetTotalLiquidity(total *big.Int) error {
	amount := encodeAmount(total)
	return m.write(totalLiquidityKey, &amount)
}

// --- interest rates ---

type storedRateTier struct {
	Threshold uint32
	RateBps   uint32
}

// LendingRateTable returns the stored tier table. An absent table comes back
// nil; resolution then degrades to the per-tier defaults.
func (m *Manager) LendingRateTable() (lending.RateTable, error) {
	var tiers []storedRateTier
	ok, err := m.read(rateTableKey, &tiers)
	if err != nil || !ok {
		return nil, err
	}
	table := make(lending.RateTable, len(tiers))
	for _, tier := range tiers {
		table[tier.Threshold] = tier.RateBps
	}
	return table, nil
}

// LendingSetRateTable stores the tier table as a threshold-sorted pair list.
func (m *Manager) LendingSetRateTable(table lending.RateTable) error {
	tiers := make([]storedRateTier, 0, len(table))
	for threshold, rate := range table {
		tiers = append(tiers, storedRateTier{Threshold: threshold, RateBps: rate})
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Threshold < tiers[j].Threshold })
	return m.write(rateTableKey, tiers)
}

// --- credit profiles ---

type storedProfile struct {
	User              []byte
	TotalIncome       storedAmount
	AvgMonthlyIncome  storedAmount
	PaymentHistory    uint32
	GigPlatforms      []string
	VerificationLevel uint32
	CreditScore       uint32
	LastUpdated       uint64
}

// CreditGetProfile returns the profile stored for the address, if present.
func (m *Manager) CreditGetProfile(addr crypto.Address) (*credit.Profile, bool, error) {
	stored := new(storedProfile)
	ok, err := m.read(addressKey(profilePrefix, addr), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &credit.Profile{
		User:              crypto.NewAddress(crypto.GigPrefix, stored.User),
		TotalIncome:       decodeAmount(stored.TotalIncome),
		AvgMonthlyIncome:  decodeAmount(stored.AvgMonthlyIncome),
		PaymentHistory:    stored.PaymentHistory,
		GigPlatforms:      stored.GigPlatforms,
		VerificationLevel: stored.VerificationLevel,
		CreditScore:       stored.CreditScore,
		LastUpdated:       stored.LastUpdated,
	}, true, nil
}

// CreditPutProfile writes the profile keyed by its owner.
func (m *Manager) CreditPutProfile(profile *credit.Profile) error {
	if profile == nil {
		return fmt.Errorf("state: nil profile")
	}
	return m.write(addressKey(profilePrefix, profile.User), &storedProfile{
		User:              profile.User.Bytes(),
		TotalIncome:       encodeAmount(profile.TotalIncome),
		AvgMonthlyIncome:  encodeAmount(profile.AvgMonthlyIncome),
		PaymentHistory:    profile.PaymentHistory,
		GigPlatforms:      profile.GigPlatforms,
		VerificationLevel: profile.VerificationLevel,
		CreditScore:       profile.CreditScore,
		LastUpdated:       profile.LastUpdated,
	})
}

// --- ledger meta ---

// Admin returns the stored admin identity, if any.
func (m *Manager) Admin() (crypto.Address, bool, error) {
	var raw []byte
	ok, err := m.read(adminKey, &raw)
	if err != nil || !ok {
		return crypto.Address{}, false, err
	}
	return crypto.NewAddress(crypto.GigPrefix, raw), true, nil
}

// SetAdmin stores the admin identity.
func (m *Manager) SetAdmin(addr crypto.Address) error {
	return m.write(adminKey, addr.Bytes())
}

// Paused returns the protocol pause flag, false when unset.
func (m *Manager) Paused() (bool, error) {
	var paused bool
	ok, err := m.read(pausedKey, &paused)
	if err != nil || !ok {
		return false, err
	}
	return paused, nil
}

// SetPaused stores the protocol pause flag.
func (m *Manager) SetPaused(paused bool) error {
	return m.write(pausedKey, paused)
}
