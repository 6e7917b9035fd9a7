package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/models"
	"marketplace/internal/services"
	"marketplace/internal/store"
	"marketplace/internal/websocket"

	"github.com/shopspring/decimal"
)

const testSecret = "secret"

type stubProfileStore struct {
	getByIDFn func(ctx context.Context, profileID int64) (models.Profile, error)
}

func (s stubProfileStore) GetByID(ctx context.Context, profileID int64) (models.Profile, error) {
	if s.getByIDFn == nil {
		return models.Profile{ID: profileID, FirstName: "Harry", LastName: "Potter", Type: models.ProfileClient}, nil
	}
	return s.getByIDFn(ctx, profileID)
}

type stubContractStore struct {
	getForProfileFn func(ctx context.Context, contractID, profileID int64) (models.Contract, error)
	listActiveFn    func(ctx context.Context, profileID int64) ([]models.Contract, error)
}

func (s stubContractStore) GetForProfile(ctx context.Context, contractID, profileID int64) (models.Contract, error) {
	if s.getForProfileFn == nil {
		return models.Contract{}, store.ErrNotFound
	}
	return s.getForProfileFn(ctx, contractID, profileID)
}

func (s stubContractStore) ListActiveForProfile(ctx context.Context, profileID int64) ([]models.Contract, error) {
	if s.listActiveFn == nil {
		return []models.Contract{}, nil
	}
	return s.listActiveFn(ctx, profileID)
}

type stubJobStore struct {
	listUnpaidFn func(ctx context.Context, profileID int64) ([]models.JobWithContract, error)
}

func (s stubJobStore) ListUnpaidForProfile(ctx context.Context, profileID int64) ([]models.JobWithContract, error) {
	if s.listUnpaidFn == nil {
		return []models.JobWithContract{}, nil
	}
	return s.listUnpaidFn(ctx, profileID)
}

type stubReportStore struct {
	bestProfessionFn func(ctx context.Context, start, end time.Time) (models.ProfessionEarnings, error)
	bestClientsFn    func(ctx context.Context, start, end time.Time, limit int) ([]models.ClientPayments, error)
}

func (s stubReportStore) BestProfession(ctx context.Context, start, end time.Time) (models.ProfessionEarnings, error) {
	if s.bestProfessionFn == nil {
		return models.ProfessionEarnings{}, store.ErrNotFound
	}
	return s.bestProfessionFn(ctx, start, end)
}

func (s stubReportStore) BestClients(ctx context.Context, start, end time.Time, limit int) ([]models.ClientPayments, error) {
	if s.bestClientsFn == nil {
		return []models.ClientPayments{}, nil
	}
	return s.bestClientsFn(ctx, start, end, limit)
}

type stubLedgerStore struct {
	sumByProfileFn func(ctx context.Context, profileID int64) (decimal.Decimal, error)
}

func (s stubLedgerStore) SumByProfile(ctx context.Context, profileID int64) (decimal.Decimal, error) {
	if s.sumByProfileFn == nil {
		return decimal.Zero, nil
	}
	return s.sumByProfileFn(ctx, profileID)
}

type stubPaymentService struct {
	payFn func(ctx context.Context, clientID, jobID int64) (services.PaymentResult, error)
}

func (s stubPaymentService) PayForJob(ctx context.Context, clientID, jobID int64) (services.PaymentResult, error) {
	if s.payFn == nil {
		return services.PaymentResult{}, nil
	}
	return s.payFn(ctx, clientID, jobID)
}

type stubDepositService struct {
	depositFn func(ctx context.Context, callerID, targetID int64, amount decimal.Decimal) (services.DepositResult, error)
}

func (s stubDepositService) Deposit(ctx context.Context, callerID, targetID int64, amount decimal.Decimal) (services.DepositResult, error) {
	if s.depositFn == nil {
		return services.DepositResult{}, nil
	}
	return s.depositFn(ctx, callerID, targetID, amount)
}

type testDeps struct {
	profiles  stubProfileStore
	contracts stubContractStore
	jobs      stubJobStore
	reports   stubReportStore
	ledger    stubLedgerStore
	payments  stubPaymentService
	deposits  stubDepositService
	hub       *websocket.Hub
}

func newTestHandler(deps testDeps) *Handler {
	cfg := config.Default()
	cfg.JWTSecret = testSecret
	cfg.AdminProfileIDs = []int64{1}
	hub := deps.hub
	if hub == nil {
		hub = websocket.NewHub()
	}
	return New(cfg, deps.profiles, deps.contracts, deps.jobs, deps.reports, deps.ledger, deps.payments, deps.deposits, hub, nil)
}

// serve sends the request through the full router as profile profileID (0 sends no credentials).
func serve(t *testing.T, handler *Handler, method, target string, profileID int64, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := newRequest(method, target, body)
	if profileID != 0 {
		req.Header.Set("profile_id", strconv.FormatInt(profileID, 10))
	}
	return record(handler, req)
}

func newRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func record(handler *Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	return rr
}
