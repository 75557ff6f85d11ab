package model

// Credential is an EOS account together with its active key pair
type Credential struct {
	AccountName      string `json:"accountName"`
	ActivePrivateKey string `json:"-"`
	ActivePublicKey  string `json:"activePublicKey"`
}

// LoginRequest represents request for POST /eos/login
type LoginRequest struct {
	AccountName string `json:"accountName"`
	PrivateKey  string `json:"privateKey"`
}

// LoginResponse represents response for POST /eos/login
type LoginResponse struct {
	AccountName string  `json:"accountName"`
	PublicKey   string  `json:"publicKey"`
	Balance     float64 `json:"balance"`
}

// NewAccountResponse represents response for POST /eos/new-account
type NewAccountResponse struct {
	AccountName string `json:"accountName"`
	PublicKey   string `json:"publicKey"`
	Activated   bool   `json:"activated"`
	QR          string `json:"QR"`
}

// SessionResponse represents response for GET /eos/session
type SessionResponse struct {
	AccountName string  `json:"accountName,omitempty"`
	PublicKey   string  `json:"publicKey,omitempty"`
	Balance     float64 `json:"balance"`
	Activated   bool    `json:"activated"`
	BTCAddress  string  `json:"btcAddress,omitempty"`
}

// BTCLoginRequest represents request for POST /btc/login
type BTCLoginRequest struct {
	PrivateKey string `json:"privateKey"`
}

// BTCLoginResponse represents response for POST /btc/login
type BTCLoginResponse struct {
	Address string `json:"address"`
}
