package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateWithdrawalRequest struct {
	Amount      float64   `json:"amount" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Description string    `json:"description"`
}

type Service interface {
	// Create runs the savings-sufficiency check and the insert inside one
	// transaction serialized per organization.
	Create(ctx context.Context, req CreateWithdrawalRequest) (Withdrawal, error)
	List(ctx context.Context) ([]Withdrawal, error)
	Get(ctx context.Context, id snowflake.ID) (Withdrawal, error)
	Delete(ctx context.Context, id snowflake.ID) error
	GetSummary(ctx context.Context) (Summary, error)
}

var (
	ErrNotFound       = errors.New("withdrawal not found")
	ErrInsufficient   = errors.New("insufficient savings")
	ErrInvalidRequest = errors.New("invalid withdrawal request")
)
