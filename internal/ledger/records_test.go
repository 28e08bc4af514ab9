package ledger

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/punchamoorthee/chainvault/internal/amount"
	"github.com/punchamoorthee/chainvault/internal/config"
	"github.com/punchamoorthee/chainvault/internal/nodeapi"
	"github.com/punchamoorthee/chainvault/internal/record"
	"github.com/punchamoorthee/chainvault/internal/vaultcrypt"
	"github.com/stretchr/testify/assert"
)

func TestListRecords(t *testing.T) {
	cfg := &config.Config{
		Address:           "NXT-SELF",
		Passphrase:        "test passphrase",
		FeeNQT:            150,
		DeadlineMinutes:   60,
		MinAccountBalance: 100000,
		Decimals:          8,
	}
	codec := record.NewCodec(vaultcrypt.New(cfg.EncryptionSecret()))

	// content the node's decryptFrom hands back, keyed by attachment data
	stored, err := codec.Encode(map[string]any{"site": "chain.example"})
	assert.NoError(t, err)
	contents := map[string]string{
		"rec":     stored,
		"pending": fmt.Sprintf(`{"%s":true,"site":"pending.example"}`, record.DiscriminatorKey),
		"note":    "milk, eggs",
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch q.Get("requestType") {
		case "getBlockchainTransactions":
			fmt.Fprint(w, `{"transactions":[
				{"transaction":"C1","timestamp":10,"senderRS":"NXT-SELF","attachment":{"encryptedMessage":{"data":"rec","nonce":"n1"}}},
				{"transaction":"C2","timestamp":11,"senderRS":"NXT-SELF","attachment":{"encryptedMessage":{"data":"note","nonce":"n2"}}},
				{"transaction":"C3","timestamp":12,"senderRS":"NXT-OTHER","attachment":{"encryptedMessage":{"data":"foreign","nonce":"n3"}}},
				{"transaction":"C4","timestamp":13}]}`)
		case "getUnconfirmedTransactions":
			fmt.Fprint(w, `{"unconfirmedTransactions":[
				{"transaction":"U1","timestamp":20,"senderRS":"NXT-SELF","attachment":{"encryptedMessage":{"data":"pending","nonce":"n4"}}}]}`)
		case "decryptFrom":
			content, ok := contents[q.Get("data")]
			if !ok {
				fmt.Fprint(w, `{"errorCode":5,"errorDescription":"Incorrect data"}`)
				return
			}
			fmt.Fprintf(w, `{"decryptedMessageText":%q}`, content)
		default:
			fmt.Fprint(w, `{"errorCode":1}`)
		}
	}))
	defer srv.Close()

	client := NewClient(cfg, nodeapi.NewClient(srv.URL+"/nxt"), codec, amount.NewConverter(cfg.Decimals))

	records, err := client.ListRecords(context.Background())
	assert.NoError(t, err)
	assert.Len(t, records, 2, "note, foreign and message-less transactions are skipped")

	// pending record surfaces before the confirmed one
	assert.Equal(t, "U1", records[0].TransactionID)
	assert.False(t, records[0].Confirmed)
	assert.Equal(t, "pending.example", records[0].Fields["site"])

	assert.Equal(t, "C1", records[1].TransactionID)
	assert.True(t, records[1].Confirmed)
	assert.Equal(t, "chain.example", records[1].Fields["site"])
}
