package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/punchamoorthee/chainvault/internal/amount"
	"github.com/punchamoorthee/chainvault/internal/api"
	"github.com/punchamoorthee/chainvault/internal/config"
	"github.com/punchamoorthee/chainvault/internal/ledger"
	"github.com/punchamoorthee/chainvault/internal/nodeapi"
	"github.com/punchamoorthee/chainvault/internal/record"
	"github.com/punchamoorthee/chainvault/internal/store"
	"github.com/punchamoorthee/chainvault/internal/vaultcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DBSource == "" {
		log.Fatal("DB_SOURCE environment variable is required")
	}

	recordIndex, err := store.NewStore(cfg.DBSource)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer recordIndex.Close()

	// Initialize Layers
	transport := nodeapi.NewClient(cfg.NodeURL)
	codec := record.NewCodec(vaultcrypt.New(cfg.EncryptionSecret()))
	vault := ledger.NewClient(cfg, transport, codec, amount.NewConverter(cfg.Decimals))
	handler := api.NewHandler(vault, recordIndex)

	// advisory only; the facade still starts when the node is down
	if ok, err := vault.HasMinimumBalance(context.Background()); err != nil {
		log.Printf("Balance check skipped: %v", err)
	} else if !ok {
		log.Printf("Warning: account balance below %d NQT, stores may fail", cfg.MinBalanceNQT)
	}

	// Router
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", handler.HealthCheckHandler)

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/account", handler.GetAccountHandler).Methods("GET")
	apiV1.HandleFunc("/balance", handler.GetBalanceHandler).Methods("GET")
	apiV1.HandleFunc("/accounts", handler.CreateAccountHandler).Methods("POST")
	apiV1.HandleFunc("/transfers", handler.CreateTransferHandler).Methods("POST")
	apiV1.HandleFunc("/records", handler.CreateRecordHandler).Methods("POST")
	apiV1.HandleFunc("/records", handler.ListRecordsHandler).Methods("GET")
	apiV1.HandleFunc("/records/index", handler.ListRecordIndexHandler).Methods("GET")
	apiV1.HandleFunc("/transactions", handler.ListTransactionsHandler).Methods("GET")

	log.Printf("Vault facade starting on :%s (node %s)", cfg.Port, cfg.NodeURL)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
