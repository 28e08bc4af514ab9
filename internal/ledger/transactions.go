package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/punchamoorthee/chainvault/internal/nodeapi"
)

// MessageTransactionType is the node's transaction type for arbitrary
// and encrypted messages.
const MessageTransactionType = 1

// ListTransactions fetches the configured account's unconfirmed and
// confirmed transactions concurrently and merges them into a single
// ordered view: pending transactions first, newest pending at the
// head, then confirmed history in node order. The merge is
// deterministic regardless of which fetch completes first.
func (c *Client) ListTransactions(ctx context.Context, withMessage bool, txType int) ([]nodeapi.Transaction, error) {
	var confirmed, unconfirmed []nodeapi.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		confirmed, err = c.listConfirmed(gctx, withMessage, txType)
		return err
	})
	g.Go(func() error {
		var err error
		unconfirmed, err = c.listUnconfirmed(gctx, withMessage, txType)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]nodeapi.Transaction, 0, len(unconfirmed)+len(confirmed))
	merged = append(merged, unconfirmed...)
	merged = append(merged, confirmed...)
	return merged, nil
}

func (c *Client) listConfirmed(ctx context.Context, withMessage bool, txType int) ([]nodeapi.Transaction, error) {
	body, err := c.transport.Get(ctx, "getBlockchainTransactions", c.historyParams(withMessage, txType))
	if err != nil {
		return nil, err
	}

	var resp nodeapi.ConfirmedTransactionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("getBlockchainTransactions response: %w", err)
	}
	if resp.ErrorCode != 0 {
		return nil, &OperationError{RequestType: "getBlockchainTransactions", RawResponse: string(body)}
	}

	// a node with no history omits the field; normalize to empty
	txs := resp.Transactions
	if txs == nil {
		txs = []nodeapi.Transaction{}
	}
	for i := range txs {
		txs[i].Confirmed = true
	}
	return txs, nil
}

// listUnconfirmed returns pending transactions newest-first. The node
// reports them oldest-pending-first, so the order is reversed here.
func (c *Client) listUnconfirmed(ctx context.Context, withMessage bool, txType int) ([]nodeapi.Transaction, error) {
	body, err := c.transport.Get(ctx, "getUnconfirmedTransactions", c.historyParams(withMessage, txType))
	if err != nil {
		return nil, err
	}

	var resp nodeapi.UnconfirmedTransactionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("getUnconfirmedTransactions response: %w", err)
	}
	if resp.ErrorCode != 0 {
		return nil, &OperationError{RequestType: "getUnconfirmedTransactions", RawResponse: string(body)}
	}

	server := resp.UnconfirmedTransactions
	txs := make([]nodeapi.Transaction, 0, len(server))
	for i := len(server) - 1; i >= 0; i-- {
		tx := server[i]
		tx.Confirmed = false
		txs = append(txs, tx)
	}
	return txs, nil
}

func (c *Client) historyParams(withMessage bool, txType int) nodeapi.Params {
	return nodeapi.Params{
		"account":     c.address,
		"withMessage": strconv.FormatBool(withMessage),
		"type":        strconv.Itoa(txType),
	}
}
