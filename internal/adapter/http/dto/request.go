package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/vestlock/internal/usecase"
)

// DepositRequest represents a request to deposit the external asset.
// Amount is in external asset units.
type DepositRequest struct {
	Amount string `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *DepositRequest) ToUseCaseInput(accountID string) (usecase.DepositInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return usecase.DepositInput{}, err
	}
	return usecase.DepositInput{
		AccountID: accountID,
		Amount:    amount,
	}, nil
}

// WithdrawRequest represents a request to withdraw vested value.
// Amount is in internal ledger units.
type WithdrawRequest struct {
	Amount string `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *WithdrawRequest) ToUseCaseInput(accountID string) (usecase.WithdrawInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return usecase.WithdrawInput{}, err
	}
	return usecase.WithdrawInput{
		AccountID: accountID,
		Amount:    amount,
	}, nil
}

// TransferRequest represents a request to move vested value between
// accounts. Amount is in internal ledger units.
type TransferRequest struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() (usecase.TransferInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return usecase.TransferInput{}, err
	}
	return usecase.TransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        amount,
	}, nil
}
