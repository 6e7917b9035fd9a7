package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/store"
	"marketplace/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

// memoryBank keeps profiles and jobs in memory and enforces the same
// updated_at guard as the SQL stores.
type memoryBank struct {
	mu        sync.Mutex
	clock     time.Time
	profiles  map[int64]models.Profile
	jobs      map[int64]models.JobWithContract
	contracts map[int64]models.Contract
	ledger    []store.LedgerEntryInput
	audits    []string

	afterGetByID func(profileID int64)
	updateErr    error
	markPaidErr  error
}

func newMemoryBank() *memoryBank {
	return &memoryBank{
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		profiles:  map[int64]models.Profile{},
		jobs:      map[int64]models.JobWithContract{},
		contracts: map[int64]models.Contract{},
	}
}

func (b *memoryBank) tick() time.Time {
	b.clock = b.clock.Add(time.Microsecond)
	return b.clock
}

func (b *memoryBank) addProfile(id int64, kind models.ProfileType, balance string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profiles[id] = models.Profile{
		ID:        id,
		FirstName: "First",
		LastName:  "Last",
		Balance:   decimal.RequireFromString(balance),
		Type:      kind,
		UpdatedAt: b.tick(),
	}
}

func (b *memoryBank) addContract(id, clientID, contractorID int64, status models.ContractStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.contracts[id] = models.Contract{ID: id, ClientID: clientID, ContractorID: contractorID, Status: status}
}

func (b *memoryBank) addJob(id, contractID int64, price string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jobs[id] = models.JobWithContract{
		Job:      models.Job{ID: id, ContractID: contractID, Price: decimal.RequireFromString(price)},
		Contract: b.contracts[contractID],
	}
}

func (b *memoryBank) balance(id int64) decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.profiles[id].Balance
}

func (b *memoryBank) totalBalance() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := decimal.Zero
	for _, p := range b.profiles {
		total = total.Add(p.Balance)
	}
	return total
}

func (b *memoryBank) jobPaid(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.jobs[id].Paid
}

// bumpVersion simulates a concurrent writer touching the profile row.
func (b *memoryBank) bumpVersion(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.profiles[id]
	p.UpdatedAt = b.tick()
	b.profiles[id] = p
}

func (b *memoryBank) GetByID(_ context.Context, profileID int64) (models.Profile, error) {
	b.mu.Lock()
	p, ok := b.profiles[profileID]
	b.mu.Unlock()
	if !ok {
		return models.Profile{}, store.ErrNotFound
	}
	if b.afterGetByID != nil {
		b.afterGetByID(profileID)
	}
	return p, nil
}

func (b *memoryBank) GetInTx(_ context.Context, _ store.Getter, profileID int64) (models.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.profiles[profileID]
	if !ok {
		return models.Profile{}, store.ErrNotFound
	}
	return p, nil
}

func (b *memoryBank) UpdateBalance(_ context.Context, _ store.Execer, profileID int64, balance decimal.Decimal, expectedUpdatedAt time.Time) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.updateErr != nil {
		return 0, b.updateErr
	}
	p, ok := b.profiles[profileID]
	if !ok || !p.UpdatedAt.Equal(expectedUpdatedAt) {
		return 0, nil
	}
	p.Balance = balance
	p.UpdatedAt = b.tick()
	b.profiles[profileID] = p
	return 1, nil
}

func (b *memoryBank) GetPayableForClient(_ context.Context, jobID, clientID int64) (models.JobWithContract, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	job, ok := b.jobs[jobID]
	if !ok || job.Contract.ClientID != clientID {
		return models.JobWithContract{}, store.ErrNotFound
	}
	return job, nil
}

func (b *memoryBank) MarkPaid(_ context.Context, _ store.Execer, jobID int64, paidAt time.Time) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.markPaidErr != nil {
		return 0, b.markPaidErr
	}
	job, ok := b.jobs[jobID]
	if !ok || job.Paid {
		return 0, nil
	}
	job.Paid = true
	job.PaymentDate = &paidAt
	b.jobs[jobID] = job
	return 1, nil
}

func (b *memoryBank) SumUnpaidForClient(_ context.Context, clientID int64) (decimal.Decimal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := decimal.Zero
	for _, job := range b.jobs {
		if job.Contract.ClientID == clientID && !job.Paid {
			total = total.Add(job.Price)
		}
	}
	return total, nil
}

func (b *memoryBank) InsertEntries(_ context.Context, _ store.Execer, entries []store.LedgerEntryInput) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ledger = append(b.ledger, entries...)
	return nil
}

func (b *memoryBank) Log(_ context.Context, _ store.Execer, _ int64, action, _ string, _ int64, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.audits = append(b.audits, action)
	return nil
}

type bankSnapshot struct {
	profiles map[int64]models.Profile
	jobs     map[int64]models.JobWithContract
	ledger   int
	audits   int
}

func (b *memoryBank) snapshot() bankSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	snap := bankSnapshot{
		profiles: make(map[int64]models.Profile, len(b.profiles)),
		jobs:     make(map[int64]models.JobWithContract, len(b.jobs)),
		ledger:   len(b.ledger),
		audits:   len(b.audits),
	}
	for id, p := range b.profiles {
		snap.profiles[id] = p
	}
	for id, j := range b.jobs {
		snap.jobs[id] = j
	}
	return snap
}

func (b *memoryBank) restore(snap bankSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profiles = snap.profiles
	b.jobs = snap.jobs
	b.ledger = b.ledger[:snap.ledger]
	b.audits = b.audits[:snap.audits]
}

// memoryTxRunner serializes transactions and rolls the bank back when fn fails.
type memoryTxRunner struct {
	mu   sync.Mutex
	bank *memoryBank
}

func (r *memoryTxRunner) WithTx(_ context.Context, fn func(*sqlx.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.bank.snapshot()
	if err := fn(nil); err != nil {
		r.bank.restore(snap)
		return err
	}
	return nil
}

type stubHub struct {
	mu    sync.Mutex
	calls []websocket.BalanceUpdate
}

func (s *stubHub) BroadcastBalance(update websocket.BalanceUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, update)
}

var errStorage = errors.New("connection reset")
