package model

// ActivationPayment is persisted once the BTC payment is broadcast so a retry never pays twice
type ActivationPayment struct {
	PaymentTx  string `json:"paymentTx"`
	Signature  string `json:"signature,omitempty"`
	BTCAddress string `json:"btcAddress"`
}

// RegisterRequest is the body sent to the registration endpoint
type RegisterRequest struct {
	PublicKey   string `json:"publicKey"`
	AccountName string `json:"accountName"`
	Address     string `json:"address"`
	Signature   string `json:"signature"`
	TxID        string `json:"txid"`
}

// RegisterResponse is the registration endpoint reply
type RegisterResponse struct {
	TransactionID string `json:"transaction_id"`
}

// ActivationResponse represents response for POST /eos/buy-account
type ActivationResponse struct {
	AccountName   string `json:"accountName"`
	PaymentTx     string `json:"paymentTx"`
	TransactionID string `json:"transactionId"`
}

// ActivationInfoResponse represents response for GET /eos/activation
type ActivationInfoResponse struct {
	PriceBTC  string `json:"priceBTC"`
	Recipient string `json:"recipient"`
	PaymentTx string `json:"paymentTx,omitempty"`
	Activated bool   `json:"activated"`
	QR        string `json:"QR,omitempty"`
}

// TransferRequest represents request for POST /eos/transfer
type TransferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// TransferResponse represents response for POST /eos/transfer
type TransferResponse struct {
	TxID string `json:"txId"`
}
