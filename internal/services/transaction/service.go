// Package transaction is the read side of the ledger: history, single
// lookups and per-user aggregates, always scoped to the requesting user.
package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "payvault/internal/errors"
	"payvault/internal/models"
	"payvault/internal/repositories"
)

// View is a transaction as seen by one of its parties. Direction and
// counterparty depend on who is asking, so the same row renders
// differently for the sender and the recipient.
type View struct {
	ID                    uuid.UUID                `json:"id"`
	Amount                models.Money             `json:"amount"`
	Type                  models.TransactionType   `json:"type"`
	Status                models.TransactionStatus `json:"status"`
	Description           string                   `json:"description"`
	FromUserID            uuid.UUID                `json:"from_user_id"`
	ToUserID              uuid.UUID                `json:"to_user_id"`
	FromUser              *models.UserSummary      `json:"from_user,omitempty"`
	ToUser                *models.UserSummary      `json:"to_user,omitempty"`
	IsIncoming            bool                     `json:"is_incoming"`
	Counterparty          *models.UserSummary      `json:"counterparty,omitempty"`
	ReversalTransactionID *uuid.UUID               `json:"reversal_transaction_id,omitempty"`
	CreatedAt             time.Time                `json:"created_at"`
}

// Stats aggregates a user's completed transactions.
type Stats struct {
	TotalReceived       models.Money `json:"total_received"`
	TotalSent           models.Money `json:"total_sent"`
	ReceivedCount       int64        `json:"received_count"`
	SentCount           int64        `json:"sent_count"`
	TransactionCount    int64        `json:"transaction_count"`
	LastTransactionDate *time.Time   `json:"last_transaction_date,omitempty"`
}

type Service interface {
	History(ctx context.Context, userID uuid.UUID) ([]View, error)
	GetByID(ctx context.Context, id, requestingUserID uuid.UUID) (*View, error)
	Stats(ctx context.Context, userID uuid.UUID) (*Stats, error)
}

type service struct {
	transactions repositories.TransactionRepository
}

func NewService(transactions repositories.TransactionRepository) Service {
	return &service{transactions: transactions}
}

func (s *service) History(ctx context.Context, userID uuid.UUID) ([]View, error) {
	rows, err := s.transactions.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, ViewOf(&rows[i], userID))
	}
	return views, nil
}

func (s *service) GetByID(ctx context.Context, id, requestingUserID uuid.UUID) (*View, error) {
	row, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !row.Involves(requestingUserID) {
		return nil, apperrors.ErrNotTransactionParty
	}
	view := ViewOf(row, requestingUserID)
	return &view, nil
}

func (s *service) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	raw, err := s.transactions.StatsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalReceived:       models.NewMoney(raw.TotalReceived),
		TotalSent:           models.NewMoney(raw.TotalSent),
		ReceivedCount:       raw.ReceivedCount,
		SentCount:           raw.SentCount,
		TransactionCount:    raw.ReceivedCount + raw.SentCount,
		LastTransactionDate: raw.LastTransactionDate,
	}, nil
}

// ViewOf renders a transaction from one party's perspective. A row is
// incoming iff the viewer is its recipient; self-referencing rows are
// their own counterparty.
func ViewOf(t *models.Transaction, userID uuid.UUID) View {
	view := View{
		ID:                    t.ID,
		Amount:                models.NewMoney(t.Amount),
		Type:                  t.Type,
		Status:                t.Status,
		Description:           t.Description,
		FromUserID:            t.FromUserID,
		ToUserID:              t.ToUserID,
		IsIncoming:            t.ToUserID == userID,
		ReversalTransactionID: t.ReversalTransactionID,
		CreatedAt:             t.CreatedAt,
	}
	if t.FromUser != nil {
		view.FromUser = summaryOf(t.FromUser)
	}
	if t.ToUser != nil {
		view.ToUser = summaryOf(t.ToUser)
	}
	if view.IsIncoming {
		view.Counterparty = view.FromUser
	} else {
		view.Counterparty = view.ToUser
	}
	return view
}

func summaryOf(u *models.User) *models.UserSummary {
	s := u.Summary()
	return &s
}
