package main

import (
	"context"
	"log"

	"github.com/punchamoorthee/chainvault/internal/amount"
	"github.com/punchamoorthee/chainvault/internal/config"
	"github.com/punchamoorthee/chainvault/internal/ledger"
	"github.com/punchamoorthee/chainvault/internal/nodeapi"
	"github.com/punchamoorthee/chainvault/internal/record"
	"github.com/punchamoorthee/chainvault/internal/store"
	"github.com/punchamoorthee/chainvault/internal/vaultcrypt"
)

// Rebuilds the record-metadata cache from the chain. Safe to run at
// any time; the chain is the source of truth and the cache only ever
// holds record identities and field names.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DBSource == "" {
		log.Fatal("DB_SOURCE environment variable is required")
	}

	ctx := context.Background()

	recordIndex, err := store.NewStore(cfg.DBSource)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer recordIndex.Close()

	if err := recordIndex.EnsureSchema(ctx); err != nil {
		log.Fatalf("Schema setup failed: %v", err)
	}

	codec := record.NewCodec(vaultcrypt.New(cfg.EncryptionSecret()))
	vault := ledger.NewClient(cfg, nodeapi.NewClient(cfg.NodeURL), codec, amount.NewConverter(cfg.Decimals))

	log.Println("--- Syncing record index from chain ---")

	records, err := vault.ListRecords(ctx)
	if err != nil {
		log.Fatalf("Chain scan failed: %v", err)
	}

	existing, err := recordIndex.ListRecords(ctx)
	if err != nil {
		log.Fatalf("Index read failed: %v", err)
	}

	keepIDs := make([]string, 0, len(records))
	metas := make([]store.RecordMeta, 0, len(records))
	for _, rec := range records {
		keepIDs = append(keepIDs, rec.TransactionID)

		fieldNames := make([]string, 0, len(rec.Fields))
		for name := range rec.Fields {
			if name == record.DiscriminatorKey {
				continue
			}
			fieldNames = append(fieldNames, name)
		}

		metas = append(metas, store.RecordMeta{
			TxID:       rec.TransactionID,
			Timestamp:  rec.Timestamp,
			Confirmed:  rec.Confirmed,
			FieldNames: fieldNames,
		})
	}

	if len(existing) == 0 {
		// empty cache: bulk load, the fastest path
		copied, err := recordIndex.CopyRecords(ctx, metas)
		if err != nil {
			log.Fatalf("Bulk load failed: %v", err)
		}
		log.Printf("Loaded %d records into an empty index.", copied)
		return
	}

	for _, meta := range metas {
		if err := recordIndex.UpsertRecord(ctx, meta); err != nil {
			log.Fatalf("Upsert of %s failed: %v", meta.TxID, err)
		}
	}

	pruned, err := recordIndex.Prune(ctx, keepIDs)
	if err != nil {
		log.Fatalf("Prune failed: %v", err)
	}

	log.Printf("Synced %d records, pruned %d stale rows.", len(records), pruned)
}
