package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/punchamoorthee/chainvault/internal/ledger"
	"github.com/punchamoorthee/chainvault/internal/nodeapi"
	"github.com/punchamoorthee/chainvault/internal/record"
	"github.com/punchamoorthee/chainvault/internal/store"
	"github.com/punchamoorthee/chainvault/internal/vaultcrypt"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vault_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "endpoint"})
)

// Vault is the ledger-facing surface the handlers need; satisfied by
// *ledger.Client.
type Vault interface {
	Account() ledger.Account
	GetBalance(ctx context.Context, address string) (string, error)
	CreateAccount(ctx context.Context, passphrase string) (*ledger.Account, error)
	Transfer(ctx context.Context, recipient string) (*ledger.Receipt, error)
	StoreRecord(ctx context.Context, rec map[string]any) (*ledger.Receipt, error)
	ListRecords(ctx context.Context) ([]ledger.Record, error)
	ListTransactions(ctx context.Context, withMessage bool, txType int) ([]nodeapi.Transaction, error)
}

// RecordIndex is the cached-metadata surface; satisfied by *store.Store.
type RecordIndex interface {
	ListRecords(ctx context.Context) ([]store.RecordMeta, error)
}

type Handler struct {
	vault Vault
	index RecordIndex
}

func NewHandler(vault Vault, index RecordIndex) *Handler {
	return &Handler{vault: vault, index: index}
}

func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, "GET", "/health", http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, "GET", "/account", http.StatusOK, h.vault.Account())
}

func (h *Handler) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("GET", "/balance"))
	defer timer.ObserveDuration()

	balance, err := h.vault.GetBalance(r.Context(), r.URL.Query().Get("address"))
	if err != nil {
		respondWithOperationError(w, "GET", "/balance", err)
		return
	}
	respondWithJSON(w, "GET", "/balance", http.StatusOK, map[string]string{"balance": balance})
}

func (h *Handler) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/accounts"))
	defer timer.ObserveDuration()

	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, "POST", "/accounts", http.StatusBadRequest, "Malformed JSON body")
		return
	}
	if req.Passphrase == "" {
		respondWithError(w, "POST", "/accounts", http.StatusUnprocessableEntity, "Passphrase required")
		return
	}

	account, err := h.vault.CreateAccount(r.Context(), req.Passphrase)
	if err != nil {
		respondWithOperationError(w, "POST", "/accounts", err)
		return
	}
	respondWithJSON(w, "POST", "/accounts", http.StatusCreated, account)
}

func (h *Handler) CreateTransferHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/transfers"))
	defer timer.ObserveDuration()

	var req struct {
		Recipient string `json:"recipient"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, "POST", "/transfers", http.StatusBadRequest, "Malformed JSON body")
		return
	}
	if req.Recipient == "" {
		respondWithError(w, "POST", "/transfers", http.StatusUnprocessableEntity, "Recipient required")
		return
	}

	receipt, err := h.vault.Transfer(r.Context(), req.Recipient)
	if err != nil {
		respondWithOperationError(w, "POST", "/transfers", err)
		return
	}
	respondWithJSON(w, "POST", "/transfers", http.StatusCreated, receipt)
}

func (h *Handler) CreateRecordHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/records"))
	defer timer.ObserveDuration()

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondWithError(w, "POST", "/records", http.StatusBadRequest, "Malformed JSON body")
		return
	}
	if len(fields) == 0 {
		respondWithError(w, "POST", "/records", http.StatusUnprocessableEntity, "Record needs at least one field")
		return
	}

	receipt, err := h.vault.StoreRecord(r.Context(), fields)
	if err != nil {
		respondWithOperationError(w, "POST", "/records", err)
		return
	}
	respondWithJSON(w, "POST", "/records", http.StatusCreated, receipt)
}

func (h *Handler) ListRecordsHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("GET", "/records"))
	defer timer.ObserveDuration()

	records, err := h.vault.ListRecords(r.Context())
	if err != nil {
		respondWithOperationError(w, "GET", "/records", err)
		return
	}
	respondWithJSON(w, "GET", "/records", http.StatusOK, records)
}

// ListRecordIndexHandler serves the cached metadata view: what exists
// on the chain, without node round-trips or decryption.
func (h *Handler) ListRecordIndexHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("GET", "/records/index"))
	defer timer.ObserveDuration()

	metas, err := h.index.ListRecords(r.Context())
	if err != nil {
		respondWithError(w, "GET", "/records/index", http.StatusInternalServerError, "Record index unavailable")
		return
	}
	respondWithJSON(w, "GET", "/records/index", http.StatusOK, metas)
}

func (h *Handler) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("GET", "/transactions"))
	defer timer.ObserveDuration()

	withMessage := r.URL.Query().Get("withMessage") == "true"
	txType := 0
	if v := r.URL.Query().Get("type"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			respondWithError(w, "GET", "/transactions", http.StatusBadRequest, "Invalid type parameter")
			return
		}
		txType = parsed
	}

	txs, err := h.vault.ListTransactions(r.Context(), withMessage, txType)
	if err != nil {
		respondWithOperationError(w, "GET", "/transactions", err)
		return
	}
	respondWithJSON(w, "GET", "/transactions", http.StatusOK, txs)
}

// respondWithOperationError maps the client's error taxonomy onto HTTP
// statuses. Encryption failures are reported without their message so
// no key material ever reaches a response body.
func respondWithOperationError(w http.ResponseWriter, method, endpoint string, err error) {
	var terr *nodeapi.TransportError
	var oerr *ledger.OperationError
	var eerr *vaultcrypt.EncryptionError
	var ferr *record.FormatError

	switch {
	case errors.As(err, &terr):
		respondWithError(w, method, endpoint, http.StatusBadGateway, "Ledger node unreachable")
	case errors.As(err, &oerr):
		respondWithError(w, method, endpoint, http.StatusUnprocessableEntity, oerr.Error())
	case errors.As(err, &eerr):
		respondWithError(w, method, endpoint, http.StatusInternalServerError, "Encryption failure")
	case errors.As(err, &ferr):
		respondWithError(w, method, endpoint, http.StatusUnprocessableEntity, ferr.Error())
	default:
		respondWithError(w, method, endpoint, http.StatusInternalServerError, "Internal Server Error")
	}
}

func respondWithError(w http.ResponseWriter, method, endpoint string, code int, message string) {
	respondWithJSON(w, method, endpoint, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, method, endpoint string, code int, payload interface{}) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}
