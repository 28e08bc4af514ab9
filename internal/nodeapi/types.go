package nodeapi

// Response envelopes and transaction DTOs for the node API. Amount
// fields are decimal strings of minor units (NQT), as the node returns
// them; they are never parsed into floats.

// EncryptedMessage is the ciphertext+nonce pair inside an attachment.
type EncryptedMessage struct {
	Data  string `json:"data"`
	Nonce string `json:"nonce"`
}

// Attachment is a transaction's payload container.
type Attachment struct {
	EncryptedMessage *EncryptedMessage `json:"encryptedMessage,omitempty"`
}

// Transaction is one entry of an account's history. Entries are
// immutable: this client only reads and merges them.
type Transaction struct {
	ID            string      `json:"transaction"`
	Timestamp     int64       `json:"timestamp"`
	Sender        string      `json:"senderRS"`
	Recipient     string      `json:"recipientRS"`
	AmountNQT     string      `json:"amountNQT"`
	FeeNQT        string      `json:"feeNQT"`
	Attachment    *Attachment `json:"attachment,omitempty"`
	Confirmations int         `json:"confirmations,omitempty"`

	// Confirmed is set client-side depending on which endpoint the
	// transaction came from; the node has no unified history API.
	Confirmed bool `json:"confirmed"`
}

// ErrorEnvelope is embedded in every response shape; the node reports
// business failures with HTTP 200 and a non-zero errorCode.
type ErrorEnvelope struct {
	ErrorCode        int    `json:"errorCode,omitempty"`
	ErrorDescription string `json:"errorDescription,omitempty"`
}

// BalanceResponse answers getBalance.
type BalanceResponse struct {
	ErrorEnvelope
	BalanceNQT            string `json:"balanceNQT"`
	UnconfirmedBalanceNQT string `json:"unconfirmedBalanceNQT"`
}

// AccountResponse answers getAccountId.
type AccountResponse struct {
	ErrorEnvelope
	AccountRS string `json:"accountRS"`
	Account   string `json:"account"`
	PublicKey string `json:"publicKey"`
}

// SendResponse answers sendMoney and sendMessage. FullHash is a
// pointer: the distinction between absent and empty matters, a null
// hash means the node failed to process the transaction.
type SendResponse struct {
	ErrorEnvelope
	Transaction string  `json:"transaction"`
	FullHash    *string `json:"fullHash"`
}

// DecryptResponse answers decryptFrom.
type DecryptResponse struct {
	ErrorEnvelope
	DecryptedMessage string `json:"decryptedMessageText"`
}

// ConfirmedTransactionsResponse answers getBlockchainTransactions.
// A node with no matching history omits the field entirely.
type ConfirmedTransactionsResponse struct {
	ErrorEnvelope
	Transactions []Transaction `json:"transactions"`
}

// UnconfirmedTransactionsResponse answers getUnconfirmedTransactions,
// ordered oldest-pending-first by the node.
type UnconfirmedTransactionsResponse struct {
	ErrorEnvelope
	UnconfirmedTransactions []Transaction `json:"unconfirmedTransactions"`
}
