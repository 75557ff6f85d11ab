package model

// StoreFile represents the encrypted store file structure
type StoreFile struct {
	Version    int    `json:"version"`
	Account    string `json:"account,omitempty"`
	KDF        KDF    `json:"kdf"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// KDF records the scrypt parameters a store file was sealed with
type KDF struct {
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`
}

// StoreData represents decrypted store contents
type StoreData struct {
	Values    map[string]string `json:"values"`
	UpdatedAt string            `json:"updatedAt"`
}
