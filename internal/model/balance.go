package model

// EOSBalanceResponse represents response for GET /eos/balance
type EOSBalanceResponse struct {
	Account  string  `json:"account"`
	Amount   float64 `json:"amount"`
	Symbol   string  `json:"symbol"`
	Rate     string  `json:"rate,omitempty"`
	Value    string  `json:"value,omitempty"`
	Currency string  `json:"currency,omitempty"`
}
