package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/vestlock/internal/adapter/http/dto"
	"github.com/iho/vestlock/internal/domain"
	"github.com/iho/vestlock/internal/usecase"
)

// LedgerService is the use case surface the HTTP layer depends on.
type LedgerService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Operation, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*usecase.WithdrawResult, error)
	Transfer(ctx context.Context, input usecase.TransferInput) (*domain.Operation, error)
	BalanceOf(account string) (decimal.Decimal, error)
	ScheduleOf(account string) (*domain.Schedule, error)
	CheckConsistency(ctx context.Context) (bool, error)
}

// ReportCache caches rendered responses for expensive read endpoints.
type ReportCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const consistencyCacheKey = "consistency:report"

// LedgerHandler handles ledger HTTP requests.
type LedgerHandler struct {
	svc      LedgerService
	cache    ReportCache
	cacheTTL time.Duration
}

// NewLedgerHandler creates a new LedgerHandler. cache may be nil.
func NewLedgerHandler(svc LedgerService, cache ReportCache, cacheTTL time.Duration) *LedgerHandler {
	return &LedgerHandler{
		svc:      svc,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Deposit accepts an external asset deposit for an account.
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(accountID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	op, err := h.svc.Deposit(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to deposit", err.Error())
		return
	}

	h.invalidateReport(r.Context())
	writeJSON(w, http.StatusCreated, dto.OperationFromDomain(op))
}

// Withdraw redeems vested value from an account.
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(accountID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	result, err := h.svc.Withdraw(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to withdraw", err.Error())
		return
	}

	h.invalidateReport(r.Context())
	writeJSON(w, http.StatusCreated, dto.WithdrawResponse{
		Operation: dto.OperationFromDomain(result.Operation),
		Redeemed:  result.Redeemed,
	})
}

// Transfer moves vested value between two accounts.
func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	op, err := h.svc.Transfer(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to transfer", err.Error())
		return
	}

	h.invalidateReport(r.Context())
	writeJSON(w, http.StatusCreated, dto.OperationFromDomain(op))
}

// invalidateReport drops the cached consistency report after a mutation
// so the next check reflects the new books.
func (h *LedgerHandler) invalidateReport(ctx context.Context) {
	if h.cache != nil {
		_ = h.cache.Delete(ctx, consistencyCacheKey)
	}
}

// GetBalance returns the account's currently available balance.
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	balance, err := h.svc.BalanceOf(accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountID: accountID,
		Balance:   balance,
		AsOf:      time.Now().UTC(),
	})
}

// GetSchedule returns the account's vesting schedule.
func (h *LedgerHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	schedule, err := h.svc.ScheduleOf(accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get schedule", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ScheduleFromDomain(accountID, schedule))
}

// CheckConsistency verifies the books balance. The report is cached for
// a short interval because the check walks every account under lock.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), consistencyCacheKey); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Report-Cached", "true")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(cached))
			return
		}
	}

	consistent, err := h.svc.CheckConsistency(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrInconsistentLedger) {
			writeJSON(w, http.StatusConflict, dto.ConsistencyResponse{
				Status:     "inconsistent",
				Consistent: false,
				Message:    err.Error(),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	resp := dto.ConsistencyResponse{
		Status:     "consistent",
		Consistent: consistent,
	}

	if h.cache != nil && h.cacheTTL > 0 {
		if body, err := json.Marshal(resp); err == nil {
			_ = h.cache.Set(r.Context(), consistencyCacheKey, string(body), h.cacheTTL)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
