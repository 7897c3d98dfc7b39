package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

// ErrPurchaseCanceled is returned by a PurchaseProvider when the user backs
// out of the store sheet.
var ErrPurchaseCanceled = errors.New("purchase canceled")

// PurchaseProvider is the platform store. Receipts it returns are forwarded
// to the backend and never trusted as a credit on their own.
type PurchaseProvider interface {
	Purchase(ctx context.Context, productID string) (models.Receipt, error)
	Restore(ctx context.Context) ([]models.Receipt, error)
}

// TokenLedger mirrors the backend token balance for UI gating. The value is
// advisory: it is only ever overwritten by a backend refresh, never adjusted
// locally. Safe for concurrent use.
type TokenLedger struct {
	client   client.Client
	provider PurchaseProvider
	log      logging.Logger

	mu      sync.RWMutex
	balance int
	known   bool
}

func NewTokenLedger(c client.Client, provider PurchaseProvider, log logging.Logger) *TokenLedger {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &TokenLedger{client: c, provider: provider, log: log}
}

// Refresh fetches the authoritative balance and overwrites the local value.
func (l *TokenLedger) Refresh(ctx context.Context) (int, error) {
	n, err := l.client.Balance(ctx)
	if err != nil {
		l.log.Warn(ctx, "balance refresh failed", "error", err)
		return l.Balance(), fmt.Errorf("refresh balance: %w", err)
	}
	if n < 0 {
		n = 0
	}

	l.mu.Lock()
	l.balance, l.known = n, true
	l.mu.Unlock()

	l.log.Debug(ctx, "balance refreshed", "balance", n)
	return n, nil
}

// Balance is the last known value, zero before the first refresh.
func (l *TokenLedger) Balance() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance
}

// Known reports whether a refresh has ever succeeded.
func (l *TokenLedger) Known() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.known
}

func (l *TokenLedger) CanAfford(amount int) bool {
	return l.Balance() >= amount
}

// Purchase buys productID through the store, hands the receipt to the
// backend and returns the refreshed balance.
func (l *TokenLedger) Purchase(ctx context.Context, productID string) (int, error) {
	if l.provider == nil {
		return l.Balance(), errors.New("purchases are not available")
	}

	receipt, err := l.provider.Purchase(ctx, productID)
	if err != nil {
		return l.Balance(), err
	}
	if receipt.ProductID == "" {
		receipt.ProductID = productID
	}

	if _, err := l.client.RedeemReceipt(ctx, receipt); err != nil {
		l.log.Error(ctx, "receipt redeem failed", "product", productID, "transaction", receipt.TransactionID, "error", err)
		return l.Balance(), fmt.Errorf("redeem receipt: %w", err)
	}
	l.log.Info(ctx, "purchase redeemed", "product", productID, "transaction", receipt.TransactionID)

	return l.Refresh(ctx)
}

// Restore forwards every restored receipt. Receipts the backend rejects are
// reported together; the balance is refreshed either way.
func (l *TokenLedger) Restore(ctx context.Context) (int, error) {
	if l.provider == nil {
		return l.Balance(), errors.New("purchases are not available")
	}

	receipts, err := l.provider.Restore(ctx)
	if err != nil {
		return l.Balance(), err
	}

	var errs []error
	for _, r := range receipts {
		if _, err := l.client.RedeemReceipt(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("receipt %s: %w", r.TransactionID, err))
		}
	}
	l.log.Info(ctx, "purchases restored", "receipts", len(receipts), "failed", len(errs))

	n, err := l.Refresh(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	return n, errors.Join(errs...)
}
