package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/recipekeeper/internal/client/auth"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/netx"
)

const maxResponseBytes = 4 << 20

type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	session    auth.SessionProvider
	requestID  func() string
}

// NewRecipeClient builds an HTTPClient for baseURL. timeout bounds every
// request and should be generous: imports run transcription and extraction
// server-side before answering.
func NewRecipeClient(baseURL string, timeout time.Duration, session auth.SessionProvider) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("backend url %q: must be absolute http(s)", baseURL)
	}

	return &HTTPClient{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
		session:    session,
		requestID:  uuid.NewString,
	}, nil
}

// WithHTTPClient swaps the transport, e.g. for httptest servers.
func (c *HTTPClient) WithHTTPClient(hc *http.Client) *HTTPClient {
	c.httpClient = hc
	return c
}

func (c *HTTPClient) ImportURL(ctx context.Context, req URLImportRequest) (models.RecipeImportResult, error) {
	var resp importResponse
	if err := c.do(ctx, http.MethodPost, "/import/url", req.body(), &resp); err != nil {
		return models.RecipeImportResult{}, err
	}
	return toResult(resp)
}

func (c *HTTPClient) ImportMedia(ctx context.Context, req MediaImportRequest) (models.RecipeImportResult, error) {
	var resp importResponse
	if err := c.do(ctx, http.MethodPost, "/import/media", req.body(), &resp); err != nil {
		return models.RecipeImportResult{}, err
	}
	return toResult(resp)
}

func (c *HTTPClient) Balance(ctx context.Context) (int, error) {
	var resp balanceResponse
	if err := c.do(ctx, http.MethodGet, "/tokens/balance", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

func (c *HTTPClient) RedeemReceipt(ctx context.Context, receipt models.Receipt) (int, error) {
	var resp balanceResponse
	if err := c.do(ctx, http.MethodPost, "/tokens/receipts", receipt, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

func (c *HTTPClient) ListRecipes(ctx context.Context) ([]models.CachedRecipe, error) {
	var resp recipesResponse
	if err := c.do(ctx, http.MethodGet, "/recipes", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Recipes == nil {
		resp.Recipes = []models.CachedRecipe{}
	}
	return resp.Recipes, nil
}

func (c *HTTPClient) GetRecipe(ctx context.Context, id string) (*models.CachedRecipeDetail, error) {
	if id == "" {
		return nil, &ContentError{Status: http.StatusNotFound, Message: "recipe id is empty"}
	}
	var resp models.CachedRecipeDetail
	if err := c.do(ctx, http.MethodGet, "/recipes/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var resp healthResponse
	if err := c.send(ctx, http.MethodGet, "/health", "", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func toResult(resp importResponse) (models.RecipeImportResult, error) {
	if resp.Error != "" || resp.RecipeID == "" {
		return models.RecipeImportResult{Success: false, ErrorMessage: sanitizeMessage(resp.Error)},
			statusError(http.StatusOK, errorResponse{Error: resp.Error, Code: resp.Code})
	}
	return models.RecipeImportResult{
		Success:          true,
		RecipeID:         resp.RecipeID,
		RecipeName:       resp.RecipeName,
		StepsCount:       resp.StepsCount,
		IngredientsCount: resp.IngredientsCount,
	}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	token, err := c.session.AccessToken(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return c.mapError(ctx, err)
		}
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return c.send(ctx, method, path, token, in, out)
}

// send performs one request; an empty token sends no Authorization header.
func (c *HTTPClient) send(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	req.Header.Set(common.RequestIDHeaderName, c.requestID())
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.mapError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.mapError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e errorResponse
		_ = json.Unmarshal(data, &e)
		return statusError(resp.StatusCode, e)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapError translates transport failures. Cancellation by the caller is kept
// apart from an unreachable or timed-out backend.
func (c *HTTPClient) mapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(ctx.Err(), context.Canceled), errors.Is(err, context.Canceled):
		return ErrCanceled
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: request timed out", ErrUnavailable)
	case netx.IsUnreachable(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return fmt.Errorf("http error: %w", err)
	}
}

func statusError(status int, e errorResponse) error {
	msg := sanitizeMessage(e.Error)

	if e.Code == CodeInsufficientTokens || status == http.StatusPaymentRequired {
		return ErrInsufficientBalance
	}

	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	case status >= 500 && msg == "":
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	default:
		return &ContentError{Status: status, Code: e.Code, Message: msg}
	}
}
