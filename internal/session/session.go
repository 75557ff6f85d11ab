// Package session holds the process-wide login state of the wallet.
package session

import "sync"

// Record names.
const (
	EOSData = "eosData"
	BTCData = "btcData"
)

// AuthData is the key material and identity of one logged-in chain account.
type AuthData struct {
	ActivePrivateKey string
	ActivePublicKey  string
	Address          string
}

// Record is one named session entry.
type Record struct {
	Name    string
	Data    AuthData
	Balance float64
}

// Session is safe for concurrent use. Records are replaced wholesale.
type Session struct {
	mu      sync.RWMutex
	records map[string]Record
}

// New returns an empty session.
func New() *Session {
	return &Session{records: make(map[string]Record)}
}

// SetAuthData replaces the record name with data and a zero balance.
func (s *Session) SetAuthData(name string, data AuthData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[name] = Record{Name: name, Data: data}
}

// SetBalance updates the balance of an existing record. Returns false if there is none.
func (s *Session) SetBalance(name string, amount float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[name]
	if !ok {
		return false
	}
	r.Balance = amount
	s.records[name] = r
	return true
}

// Get returns a copy of the record.
func (s *Session) Get(name string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[name]
	return r, ok
}

// Address returns the address of a record, or "" if absent.
func (s *Session) Address(name string) string {
	r, _ := s.Get(name)
	return r.Data.Address
}

// Clear removes a record.
func (s *Session) Clear(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, name)
}
