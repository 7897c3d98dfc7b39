// Package fakebackend is an in-memory stand-in for the recipe backend. It
// speaks the same HTTP/JSON protocol as the real service (imports, token
// balance, receipts, recipe reads) and is used by integration tests and for
// local development of the CLI.
package fakebackend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/recipekeeper/internal/client/importer"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

type ctxKey struct{}

// Failure makes the next imports fail with the given status and payload.
type Failure struct {
	Status  int
	Code    string
	Message string
}

type Server struct {
	secret []byte

	mu          sync.Mutex
	balances    map[string]int
	recipes     map[string]*models.CachedRecipeDetail
	order       []string
	redeemed    map[string]bool
	products    map[string]int
	failure     *Failure
	importDelay time.Duration
	lastURLBody map[string]any

	importCalls atomic.Int64
	started     chan struct{}
}

func New(secret []byte) *Server {
	return &Server{
		secret:   secret,
		balances: make(map[string]int),
		recipes:  make(map[string]*models.CachedRecipeDetail),
		redeemed: make(map[string]bool),
		products: map[string]int{"tokens_10": 10, "tokens_25": 25, "tokens_60": 60},
		started:  make(chan struct{}, 16),
	}
}

// IssueToken signs an HS256 access token for subject.
func (s *Server) IssueToken(subject string, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) SetBalance(subject string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[subject] = n
}

func (s *Server) Balance(subject string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[subject]
}

// SetImportDelay makes every import take at least d (or until the client
// goes away).
func (s *Server) SetImportDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.importDelay = d
}

// FailImports makes imports fail until cleared with nil.
func (s *Server) FailImports(f *Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = f
}

// ImportCalls counts import requests that reached a handler.
func (s *Server) ImportCalls() int { return int(s.importCalls.Load()) }

// ImportStarted receives a value each time an import handler starts.
func (s *Server) ImportStarted() <-chan struct{} { return s.started }

// LastURLImport returns the raw JSON body of the latest URL import.
func (s *Server) LastURLImport() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastURLBody
}

func (s *Server) AddRecipe(d models.CachedRecipeDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putRecipeLocked(&d)
}

func (s *Server) putRecipeLocked(d *models.CachedRecipeDetail) {
	if _, ok := s.recipes[d.ID]; !ok {
		s.order = append(s.order, d.ID)
	}
	s.recipes[d.ID] = d
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/import/url", s.importURL)
		r.Post("/import/media", s.importMedia)
		r.Get("/tokens/balance", s.balance)
		r.Post("/tokens/receipts", s.redeemReceipt)
		r.Get("/recipes", s.listRecipes)
		r.Get("/recipes/{id}", s.getRecipe)
	})

	return r
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "", "missing bearer token")
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.Subject == "" {
			writeError(w, http.StatusUnauthorized, "", "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims.Subject)))
	})
}

func subject(r *http.Request) string {
	sub, _ := r.Context().Value(ctxKey{}).(string)
	return sub
}

type urlImportBody struct {
	URL            string `json:"url"`
	Language       string `json:"language"`
	Translate      bool   `json:"translate"`
	StartTimestamp *int   `json:"startTimestamp"`
	EndTimestamp   *int   `json:"endTimestamp"`
}

type mediaImportBody struct {
	StoragePaths []string `json:"storagePaths"`
	MediaType    string   `json:"mediaType"`
	Language     string   `json:"language"`
	Translate    bool     `json:"translate"`
}

func (s *Server) importURL(w http.ResponseWriter, r *http.Request) {
	s.markStarted()

	var raw map[string]any
	var body urlImportBody
	if err := decodeTwice(r, &raw, &body); err != nil {
		writeError(w, http.StatusBadRequest, "", "malformed request")
		return
	}
	s.mu.Lock()
	s.lastURLBody = raw
	s.mu.Unlock()

	c, ok := importer.Classify(body.URL)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "invalid_url", "The link could not be opened.")
		return
	}

	s.runImport(w, r, c.Cost, recipeFromURL(c.URL))
}

func (s *Server) importMedia(w http.ResponseWriter, r *http.Request) {
	s.markStarted()

	var body mediaImportBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "", "malformed request")
		return
	}
	if len(body.StoragePaths) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "no_media", "No pages were uploaded.")
		return
	}
	if body.MediaType != string(models.MediaImage) && body.MediaType != string(models.MediaPDF) {
		writeError(w, http.StatusUnprocessableEntity, "bad_media", "Unsupported media type.")
		return
	}

	name := fmt.Sprintf("Scanned recipe (%d %s)", len(body.StoragePaths), body.MediaType)
	s.runImport(w, r, importer.CostMedia, newRecipe(name, ""))
}

func (s *Server) runImport(w http.ResponseWriter, r *http.Request, cost int, recipe *models.CachedRecipeDetail) {
	s.mu.Lock()
	delay, failure := s.importDelay, s.failure
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if failure != nil {
		writeError(w, failure.Status, failure.Code, failure.Message)
		return
	}

	sub := subject(r)

	s.mu.Lock()
	if s.balances[sub] < cost {
		s.mu.Unlock()
		writeError(w, http.StatusPaymentRequired, "insufficient_tokens", "Not enough tokens for this import.")
		return
	}
	s.balances[sub] -= cost
	s.putRecipeLocked(recipe)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"recipeId":         recipe.ID,
		"recipeName":       recipe.Name,
		"stepsCount":       len(recipe.Steps),
		"ingredientsCount": len(recipe.Ingredients),
	})
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"balance": s.Balance(subject(r))})
}

func (s *Server) redeemReceipt(w http.ResponseWriter, r *http.Request) {
	var rc models.Receipt
	if err := json.NewDecoder(r.Body).Decode(&rc); err != nil || rc.TransactionID == "" {
		writeError(w, http.StatusBadRequest, "", "malformed receipt")
		return
	}

	sub := subject(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, ok := s.products[rc.ProductID]
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown_product", "Unknown product.")
		return
	}
	if !s.redeemed[rc.TransactionID] {
		s.redeemed[rc.TransactionID] = true
		s.balances[sub] += tokens
	}
	writeJSON(w, http.StatusOK, map[string]int{"balance": s.balances[sub]})
}

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	list := make([]models.CachedRecipe, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.recipes[id].CachedRecipe)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"recipes": list})
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	d, ok := s.recipes[id]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "Recipe not found.")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) markStarted() {
	s.importCalls.Add(1)
	select {
	case s.started <- struct{}{}:
	default:
	}
}

func recipeFromURL(raw string) *models.CachedRecipeDetail {
	name := "Imported recipe"
	if u, err := url.Parse(raw); err == nil {
		if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
			name = strings.ReplaceAll(base, "-", " ")
		}
	}
	return newRecipe(name, raw)
}

func newRecipe(name, source string) *models.CachedRecipeDetail {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.CachedRecipeDetail{
		CachedRecipe: models.CachedRecipe{
			ID:        uuid.NewString(),
			Name:      name,
			SourceURL: source,
			Servings:  2,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Ingredients: []models.Ingredient{
			{Name: "flour", Quantity: "200", Unit: "g"},
			{Name: "water", Quantity: "120", Unit: "ml"},
			{Name: "salt", Quantity: "1", Unit: "tsp"},
		},
		Steps: []models.RecipeStep{
			{Position: 1, Description: "Prep: weigh the ingredients"},
			{Position: 2, Description: "Mix everything into a dough"},
			{Position: 3, Description: "Rest: cover and leave for 30 minutes"},
			{Position: 4, Description: "Cook: fry until golden"},
		},
	}
}

func decodeTwice(r *http.Request, raw *map[string]any, v any) error {
	var buf json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&buf); err != nil {
		return err
	}
	if err := json.Unmarshal(buf, raw); err != nil {
		return err
	}
	return json.Unmarshal(buf, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}
