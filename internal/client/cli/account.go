package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/importflow"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/client/services"
)

// Products sold in the store, in tokens.
var products = []struct {
	ID     string
	Tokens int
}{
	{"tokens_10", 10},
	{"tokens_25", 25},
	{"tokens_60", 60},
}

func (a *App) Login(ctx context.Context) error {
	token, err := GetSecret(a.reader, "Paste access token", a.out)
	if err != nil {
		return err
	}
	if err := a.session.SetToken(token); err != nil {
		return err
	}

	n, err := a.ledger.Refresh(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.session.Clear()
			return err
		}
		a.println("Signed in. Balance unavailable right now.")
		return nil
	}
	a.setMode(ModeOnline)
	a.printf("Signed in. You have %d tokens.\n", n)
	return nil
}

// Logout forgets the token and wipes cached recipes.
func (a *App) Logout(ctx context.Context) error {
	a.session.Clear()
	if err := a.recipes.SignOut(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	a.println("Signed out.")
	return nil
}

func (a *App) Balance(ctx context.Context) error {
	n, err := a.ledger.Refresh(ctx)
	if err != nil {
		if a.ledger.Known() {
			a.printf("Could not refresh; last known balance is %d tokens.\n", a.ledger.Balance())
			return nil
		}
		return err
	}
	a.printf("You have %d tokens.\n", n)
	return nil
}

func (a *App) Buy(ctx context.Context, productID string) error {
	if !knownProduct(productID) {
		a.printf("Unknown product %q. Available: %s\n", productID, productList())
		return nil
	}

	n, err := a.ledger.Purchase(ctx, productID)
	if errors.Is(err, services.ErrPurchaseCanceled) {
		a.println("Purchase canceled.")
		return nil
	}
	if err != nil {
		return err
	}
	a.printf("Purchase complete. You have %d tokens.\n", n)
	return nil
}

func (a *App) Restore(ctx context.Context) error {
	n, err := a.ledger.Restore(ctx)
	if errors.Is(err, services.ErrPurchaseCanceled) {
		a.println("Restore canceled.")
		return nil
	}
	if err != nil {
		a.printf("Some purchases could not be restored: %v\n", err)
	}
	a.printf("You have %d tokens.\n", n)
	return nil
}

// promptPurchase is the insufficient-tokens hook for imports.
func (a *App) promptPurchase(e importflow.InsufficientTokensError) {
	a.printf("This import costs %d tokens and you have %d.\n", e.Required, e.Available)
	a.printf("Buy more with 'buy <product>': %s\n", productList())
}

func knownProduct(id string) bool {
	for _, p := range products {
		if p.ID == id {
			return true
		}
	}
	return false
}

func productList() string {
	s := make([]string, len(products))
	for i, p := range products {
		s[i] = fmt.Sprintf("%s (%d tokens)", p.ID, p.Tokens)
	}
	return strings.Join(s, ", ")
}

// promptPurchaseProvider stands in for the platform store: the user completes
// the purchase elsewhere and pastes the receipt it produced.
type promptPurchaseProvider struct {
	reader *bufio.Reader
	out    io.Writer
}

func (p *promptPurchaseProvider) Purchase(ctx context.Context, productID string) (models.Receipt, error) {
	fmt.Fprintf(p.out, "Complete the purchase of %s in the store.\n", productID)

	tx, err := GetSimpleText(p.reader, "Transaction id (empty to cancel)", p.out)
	if err != nil {
		return models.Receipt{}, err
	}
	if tx == "" {
		return models.Receipt{}, services.ErrPurchaseCanceled
	}

	payload, err := GetSimpleText(p.reader, "Receipt payload", p.out)
	if err != nil && !errors.Is(err, io.EOF) {
		return models.Receipt{}, err
	}

	return models.Receipt{ProductID: productID, TransactionID: tx, Payload: payload}, nil
}

// Restore reads receipts as "<product> <transaction> [payload]" lines.
func (p *promptPurchaseProvider) Restore(ctx context.Context) ([]models.Receipt, error) {
	lines, err := GetMultiline(p.reader, "Paste receipts, one per line: <product> <transaction> [payload]", p.out)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, services.ErrPurchaseCanceled
	}

	receipts := make([]models.Receipt, 0, len(lines))
	for i, line := range lines {
		f := strings.Fields(line)
		if len(f) < 2 {
			return nil, fmt.Errorf("receipt line %d: want <product> <transaction> [payload]", i+1)
		}
		r := models.Receipt{ProductID: f[0], TransactionID: f[1]}
		if len(f) > 2 {
			r.Payload = strings.Join(f[2:], " ")
		}
		receipts = append(receipts, r)
	}
	return receipts, nil
}
