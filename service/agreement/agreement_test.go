package agreement

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"creditrust/core"
	"creditrust/internal/cid"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryAgreements struct {
	mu   sync.Mutex
	rows map[string]*core.Agreement
}

func newMemoryAgreements() *memoryAgreements {
	return &memoryAgreements{rows: map[string]*core.Agreement{}}
}

func (s *memoryAgreements) Create(ctx context.Context, agreement *core.Agreement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.rows[agreement.CID]; ok {
		*agreement = *existing
		return nil
	}

	row := *agreement
	s.rows[agreement.CID] = &row
	return nil
}

func (s *memoryAgreements) Find(ctx context.Context, id string) (*core.Agreement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrAgreementNotFound, id)
	}

	agreement := *row
	return &agreement, nil
}

func (s *memoryAgreements) FindByBorrower(ctx context.Context, borrower string) ([]*core.Agreement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var agreements []*core.Agreement
	for _, row := range s.rows {
		if row.Borrower == borrower {
			agreement := *row
			agreements = append(agreements, &agreement)
		}
	}
	return agreements, nil
}

func (s *memoryAgreements) UpdatePin(ctx context.Context, id, pinned string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row, ok := s.rows[id]; ok {
		row.PinnedCID = pinned
	}
	return nil
}

func loanAgreement() *core.LoanAgreement {
	return &core.LoanAgreement{
		Borrower:     "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		Lender:       "0x90F79bf6EB2c4f870365E785982E1f101E93b906",
		Vault:        "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0",
		ChainID:      31337,
		Principal:    decimal.RequireFromString("400000000000000000000"),
		Collateral:   decimal.RequireFromString("1000000000000000000000"),
		APR:          800,
		CreditScore:  720,
		DueDate:      1702592000,
		AgreementRef: "loan-1",
		CreatedAt:    1700000000,
	}
}

func TestCanonical(t *testing.T) {
	a, err := Canonical(map[string]interface{}{"b": 1, "a": "x<y", "c": []int{2, 1}})
	require.Nil(t, err)
	assert.Equal(t, `{"a":"x<y","b":1,"c":[2,1]}`, string(a))

	// large integers survive untouched
	b, err := Canonical(json.RawMessage(`{"z":123456789012345678901234567890,"y":0.5}`))
	require.Nil(t, err)
	assert.Equal(t, `{"y":0.5,"z":123456789012345678901234567890}`, string(b))
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	store := newMemoryAgreements()
	s := New(store, nil)

	record, err := s.Put(ctx, loanAgreement())
	require.Nil(t, err)
	assert.True(t, cid.Verify(record.CID, record.Content))
	assert.Empty(t, record.PinnedCID)

	// same document, same cid
	again, err := s.Put(ctx, loanAgreement())
	require.Nil(t, err)
	assert.Equal(t, record.CID, again.CID)
	assert.Len(t, store.rows, 1)

	got, err := s.Get(ctx, record.CID)
	require.Nil(t, err)
	assert.Equal(t, int64(800), got.APR)
	assert.Equal(t, "400000000000000000000", got.Principal.String())

	other := loanAgreement()
	other.APR = 500
	changed, err := s.Put(ctx, other)
	require.Nil(t, err)
	assert.NotEqual(t, record.CID, changed.CID)
}

func TestGetErrors(t *testing.T) {
	ctx := context.Background()
	store := newMemoryAgreements()
	s := New(store, nil)

	_, err := s.Get(ctx, "not-a-cid")
	assert.Equal(t, core.ErrInvalidArgument, core.CodeOf(err))

	_, err = s.Get(ctx, cid.Sum([]byte("missing")))
	assert.Equal(t, core.ErrAgreementNotFound, core.CodeOf(err))

	record, err := s.Put(ctx, loanAgreement())
	require.Nil(t, err)

	// tamper with the stored content
	store.rows[record.CID].Content = []byte(`{"borrower":"0x0000000000000000000000000000000000000000"}`)
	_, err = s.Get(ctx, record.CID)
	assert.Equal(t, core.ErrAgreementMismatch, core.CodeOf(err))
}

func TestPutRejects(t *testing.T) {
	s := New(newMemoryAgreements(), nil)

	bad := loanAgreement()
	bad.Borrower = "alice"
	_, err := s.Put(context.Background(), bad)
	assert.Equal(t, core.ErrInvalidArgument, core.CodeOf(err))
}

func TestPinata(t *testing.T) {
	var (
		mu      sync.Mutex
		headers http.Header
		body    map[string]json.RawMessage
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		assert.Equal(t, "/pinning/pinJSONToIPFS", r.URL.Path)
		headers = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"IpfsHash":"QmPinned","PinSize":120,"Timestamp":"2024-01-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	pinner := NewPinata(srv.URL+"/", "key", "secret")
	store := newMemoryAgreements()
	s := New(store, pinner)

	record, err := s.Put(context.Background(), loanAgreement())
	require.Nil(t, err)
	assert.Equal(t, "QmPinned", record.PinnedCID)
	assert.Equal(t, "QmPinned", store.rows[record.CID].PinnedCID)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "key", headers.Get("pinata_api_key"))
	assert.Equal(t, "secret", headers.Get("pinata_secret_api_key"))
	assert.JSONEq(t, string(record.Content), string(body["pinataContent"]))
}

func TestPinataFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid key"}`))
	}))
	defer srv.Close()

	s := New(newMemoryAgreements(), NewPinata(srv.URL, "", ""))

	// stored locally even when pinning fails
	record, err := s.Put(context.Background(), loanAgreement())
	require.Nil(t, err)
	assert.Empty(t, record.PinnedCID)

	_, err = s.Get(context.Background(), record.CID)
	assert.Nil(t, err)
}
