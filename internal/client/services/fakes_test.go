package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

// fakeClient implements client.Client for unit tests.
type fakeClient struct {
	mu sync.Mutex

	ImportRet models.RecipeImportResult
	ImportErr error
	// ImportBlock, when set, is waited on before an import returns.
	ImportBlock chan struct{}

	BalanceRet  int
	BalanceErr  error
	BalanceSeq  []int
	RedeemErr   error
	RedeemErrOn map[string]error

	ListRet []models.CachedRecipe
	ListErr error
	GetRet  *models.CachedRecipeDetail
	GetErr  error

	LastURL   client.URLImportRequest
	LastMedia client.MediaImportRequest
	Redeemed  []models.Receipt
	Calls     map[string]int
}

func (f *fakeClient) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Calls == nil {
		f.Calls = map[string]int{}
	}
	f.Calls[name]++
}

func (f *fakeClient) calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

func (f *fakeClient) wait(ctx context.Context) error {
	if f.ImportBlock == nil {
		return nil
	}
	select {
	case <-f.ImportBlock:
		return nil
	case <-ctx.Done():
		return client.ErrCanceled
	}
}

func (f *fakeClient) ImportURL(ctx context.Context, req client.URLImportRequest) (models.RecipeImportResult, error) {
	f.count("ImportURL")
	f.mu.Lock()
	f.LastURL = req
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return models.RecipeImportResult{}, err
	}
	return f.ImportRet, f.ImportErr
}

func (f *fakeClient) ImportMedia(ctx context.Context, req client.MediaImportRequest) (models.RecipeImportResult, error) {
	f.count("ImportMedia")
	f.mu.Lock()
	f.LastMedia = req
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return models.RecipeImportResult{}, err
	}
	return f.ImportRet, f.ImportErr
}

func (f *fakeClient) Balance(ctx context.Context) (int, error) {
	f.count("Balance")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.BalanceErr != nil {
		return 0, f.BalanceErr
	}
	if len(f.BalanceSeq) > 0 {
		n := f.BalanceSeq[0]
		f.BalanceSeq = f.BalanceSeq[1:]
		return n, nil
	}
	return f.BalanceRet, nil
}

func (f *fakeClient) RedeemReceipt(ctx context.Context, r models.Receipt) (int, error) {
	f.count("RedeemReceipt")
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.RedeemErrOn[r.TransactionID]; err != nil {
		return 0, err
	}
	if f.RedeemErr != nil {
		return 0, f.RedeemErr
	}
	f.Redeemed = append(f.Redeemed, r)
	return f.BalanceRet, nil
}

func (f *fakeClient) ListRecipes(ctx context.Context) ([]models.CachedRecipe, error) {
	f.count("ListRecipes")
	return f.ListRet, f.ListErr
}

func (f *fakeClient) GetRecipe(ctx context.Context, id string) (*models.CachedRecipeDetail, error) {
	f.count("GetRecipe")
	return f.GetRet, f.GetErr
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }

// fakeUploader records uploads and returns predictable paths.
type fakeUploader struct {
	mu       sync.Mutex
	Err      error
	Uploaded map[string][]byte
	Types    map[string]string
	n        int
}

func (u *fakeUploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return "", u.Err
	}
	if u.Uploaded == nil {
		u.Uploaded = map[string][]byte{}
		u.Types = map[string]string{}
	}
	u.n++
	path := fmt.Sprintf("imports/%s", data)
	u.Uploaded[path] = data
	u.Types[path] = contentType
	return path, nil
}

type fakeProvider struct {
	PurchaseRet models.Receipt
	PurchaseErr error
	RestoreRet  []models.Receipt
	RestoreErr  error

	LastProduct string
}

func (p *fakeProvider) Purchase(ctx context.Context, productID string) (models.Receipt, error) {
	p.LastProduct = productID
	return p.PurchaseRet, p.PurchaseErr
}

func (p *fakeProvider) Restore(ctx context.Context) ([]models.Receipt, error) {
	return p.RestoreRet, p.RestoreErr
}
