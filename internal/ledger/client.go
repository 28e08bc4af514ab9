package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/punchamoorthee/chainvault/internal/amount"
	"github.com/punchamoorthee/chainvault/internal/config"
	"github.com/punchamoorthee/chainvault/internal/nodeapi"
	"github.com/punchamoorthee/chainvault/internal/record"
)

// Transport is the node access the client consumes; satisfied by
// nodeapi.Client and by test stubs.
type Transport interface {
	Get(ctx context.Context, requestType string, params nodeapi.Params) ([]byte, error)
	Post(ctx context.Context, requestType string, params nodeapi.Params) ([]byte, error)
}

// OperationError reports a call the node accepted at the HTTP level
// but rejected at the business level (non-zero errorCode, or a write
// that came back without a signature hash). RawResponse carries the
// whole body for operator diagnosis.
type OperationError struct {
	RequestType string
	RawResponse string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("node rejected %s: %s", e.RequestType, e.RawResponse)
}

// Account identifies a ledger account. Immutable once created.
type Account struct {
	Address   string `json:"address"`
	PublicKey string `json:"public_key,omitempty"`
}

// Receipt is the node's acknowledgement of a submitted transaction.
type Receipt struct {
	TransactionID string `json:"transaction_id"`
	FullHash      string `json:"full_hash"`
}

// Client implements the vault's ledger operations over an injected
// transport, codec and converter. It holds only read-only
// configuration; every method is independently callable.
type Client struct {
	transport Transport
	codec     *record.Codec
	converter *amount.Converter

	address         string
	passphrase      string
	publicKey       string
	feeNQT          int64
	deadlineMinutes int
	fundingNQT      int64
	minBalanceNQT   int64
}

func NewClient(cfg *config.Config, transport Transport, codec *record.Codec, converter *amount.Converter) *Client {
	return &Client{
		transport:       transport,
		codec:           codec,
		converter:       converter,
		address:         cfg.Address,
		passphrase:      cfg.Passphrase,
		publicKey:       cfg.PublicKey,
		feeNQT:          cfg.FeeNQT,
		deadlineMinutes: cfg.DeadlineMinutes,
		fundingNQT:      cfg.MinAccountBalance,
		minBalanceNQT:   cfg.MinBalanceNQT,
	}
}

// Codec exposes the record codec for callers that decode scanned
// messages themselves.
func (c *Client) Codec() *record.Codec { return c.codec }

// Account returns the configured account's identity.
func (c *Client) Account() Account {
	return Account{Address: c.address, PublicKey: c.publicKey}
}

// GetBalance fetches an account balance and returns it in major
// units. An empty address defaults to the configured account.
func (c *Client) GetBalance(ctx context.Context, address string) (string, error) {
	nqt, err := c.balanceNQT(ctx, address)
	if err != nil {
		return "", err
	}
	return c.converter.ToMajor(nqt)
}

// HasMinimumBalance reports whether the configured account holds at
// least the configured minimum working balance, i.e. whether store
// and transfer operations can still cover their fees.
func (c *Client) HasMinimumBalance(ctx context.Context) (bool, error) {
	nqt, err := c.balanceNQT(ctx, "")
	if err != nil {
		return false, err
	}

	balance, err := decimal.NewFromString(nqt)
	if err != nil {
		return false, fmt.Errorf("node balance %q: %w", nqt, err)
	}
	return balance.Cmp(decimal.NewFromInt(c.minBalanceNQT)) >= 0, nil
}

func (c *Client) balanceNQT(ctx context.Context, address string) (string, error) {
	if address == "" {
		address = c.address
	}

	body, err := c.transport.Get(ctx, "getBalance", nodeapi.Params{"account": address})
	if err != nil {
		return "", err
	}

	var resp nodeapi.BalanceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("getBalance response: %w", err)
	}
	if resp.ErrorCode != 0 {
		return "", &OperationError{RequestType: "getBalance", RawResponse: string(body)}
	}

	if resp.BalanceNQT == "" {
		return "0", nil
	}
	return resp.BalanceNQT, nil
}

// CreateAccount derives the account belonging to a passphrase. No
// ledger state is created; the account materializes on its first
// funded transaction.
func (c *Client) CreateAccount(ctx context.Context, passphrase string) (*Account, error) {
	body, err := c.transport.Post(ctx, "getAccountId", nodeapi.Params{"secretPhrase": passphrase})
	if err != nil {
		return nil, err
	}

	var resp nodeapi.AccountResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("getAccountId response: %w", err)
	}
	if resp.ErrorCode != 0 {
		return nil, &OperationError{RequestType: "getAccountId", RawResponse: string(body)}
	}

	return &Account{Address: resp.AccountRS, PublicKey: resp.PublicKey}, nil
}

// Transfer funds a recipient with the configured minimum account
// balance, using the configured fee and deadline.
func (c *Client) Transfer(ctx context.Context, recipient string) (*Receipt, error) {
	body, err := c.transport.Post(ctx, "sendMoney", nodeapi.Params{
		"recipient":    recipient,
		"amountNQT":    strconv.FormatInt(c.fundingNQT, 10),
		"secretPhrase": c.passphrase,
		"feeNQT":       strconv.FormatInt(c.feeNQT, 10),
		"deadline":     strconv.Itoa(c.deadlineMinutes),
	})
	if err != nil {
		return nil, err
	}
	return checkSend("sendMoney", body)
}

// StoreRecord encodes a record and submits it as an encrypted,
// compressed message to the configured account itself.
func (c *Client) StoreRecord(ctx context.Context, rec map[string]any) (*Receipt, error) {
	ciphertext, err := c.codec.Encode(rec)
	if err != nil {
		return nil, err
	}

	body, err := c.transport.Post(ctx, "sendMessage", nodeapi.Params{
		"recipient":                c.address,
		"secretPhrase":             c.passphrase,
		"messageToEncrypt":         ciphertext,
		"messageToEncryptIsText":   "true",
		"compressMessageToEncrypt": "true",
		"feeNQT":                   strconv.FormatInt(c.feeNQT, 10),
		"deadline":                 strconv.Itoa(c.deadlineMinutes),
	})
	if err != nil {
		return nil, err
	}
	return checkSend("sendMessage", body)
}

// FetchDecryptedMessage has the node unwrap an encrypted attachment
// addressed to the configured account and returns the raw content.
// Callers apply the record codec if the content is a vault record.
func (c *Client) FetchDecryptedMessage(ctx context.Context, sender, data, nonce string) (string, error) {
	body, err := c.transport.Post(ctx, "decryptFrom", nodeapi.Params{
		"account":                sender,
		"data":                   data,
		"nonce":                  nonce,
		"decryptedMessageIsText": "true",
		"secretPhrase":           c.passphrase,
	})
	if err != nil {
		return "", err
	}

	var resp nodeapi.DecryptResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decryptFrom response: %w", err)
	}
	if resp.ErrorCode != 0 {
		return "", &OperationError{RequestType: "decryptFrom", RawResponse: string(body)}
	}
	return resp.DecryptedMessage, nil
}

// checkSend validates a sendMoney/sendMessage response. A non-zero
// error code or a null fullHash both mean the node did not process
// the transaction.
func checkSend(requestType string, body []byte) (*Receipt, error) {
	var resp nodeapi.SendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%s response: %w", requestType, err)
	}
	if resp.ErrorCode != 0 || resp.FullHash == nil {
		return nil, &OperationError{RequestType: requestType, RawResponse: string(body)}
	}
	return &Receipt{TransactionID: resp.Transaction, FullHash: *resp.FullHash}, nil
}
