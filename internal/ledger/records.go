package ledger

import (
	"context"
	"errors"

	"github.com/punchamoorthee/chainvault/internal/record"
)

// Record is one decoded vault record found on the chain.
type Record struct {
	TransactionID string         `json:"transaction_id"`
	Timestamp     int64          `json:"timestamp"`
	Confirmed     bool           `json:"confirmed"`
	Fields        map[string]any `json:"fields"`
}

// ListRecords scans the account's message transactions and returns the
// decoded vault records, pending first. Messages that are not vault
// records -- foreign ciphertexts, plain notes, records of other
// applications -- are skipped, not errors: the discriminator field
// decides ownership. Transport failures still propagate.
func (c *Client) ListRecords(ctx context.Context) ([]Record, error) {
	txs, err := c.ListTransactions(ctx, true, MessageTransactionType)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(txs))
	for _, tx := range txs {
		if tx.Attachment == nil || tx.Attachment.EncryptedMessage == nil {
			continue
		}

		content, err := c.FetchDecryptedMessage(ctx, tx.Sender,
			tx.Attachment.EncryptedMessage.Data, tx.Attachment.EncryptedMessage.Nonce)
		if err != nil {
			// the node cannot unwrap messages meant for other keys
			var oerr *OperationError
			if errors.As(err, &oerr) {
				continue
			}
			return nil, err
		}

		fields, err := c.decodeContent(content)
		if err != nil || !record.IsVaultRecord(fields) {
			continue
		}

		records = append(records, Record{
			TransactionID: tx.ID,
			Timestamp:     tx.Timestamp,
			Confirmed:     tx.Confirmed,
			Fields:        fields,
		})
	}
	return records, nil
}

// decodeContent interprets unwrapped message content: first as an
// application-layer ciphertext (the write path of StoreRecord), then
// as bare record JSON for content stored without the extra layer.
func (c *Client) decodeContent(content string) (map[string]any, error) {
	if fields, err := c.codec.Decode(content); err == nil {
		return fields, nil
	}
	return record.Parse(content)
}
