package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: the store password is prompted at runtime and kept in memory - use GetStorePasswordBytes()
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	EOSRPCURL    string `envconfig:"EOS_RPC_URL" default:"https://eos.greymass.com"`
	EOSTokenCode string `envconfig:"EOS_TOKEN_CODE" default:"eosio.token"`
	EOSSymbol    string `envconfig:"EOS_SYMBOL" default:"EOS"`
	// TxTimeout is how long after the head block a pushed transaction stays valid
	TxTimeout time.Duration `envconfig:"TX_TIMEOUT" default:"30s"`

	RegisterEndpoint           string `envconfig:"REGISTER_ENDPOINT"`
	BuyAccountPriceBTC         string `envconfig:"BUY_ACCOUNT_PRICE_BTC" default:"0.001"`
	BuyAccountPaymentRecipient string `envconfig:"BUY_ACCOUNT_PAYMENT_RECIPIENT"`

	BTCAPIURL  string `envconfig:"BTC_API_URL" default:"https://blockstream.info/api"`
	BTCNetwork string `envconfig:"BTC_NETWORK" default:"mainnet"`
	BTCFeeRate int64  `envconfig:"BTC_FEE_RATE_SAT_VB" default:"10"`

	PriceAPIURL   string `envconfig:"PRICE_API_URL" default:"https://api.coingecko.com/api/v3"`
	PriceCurrency string `envconfig:"PRICE_CURRENCY" default:"usd"`

	StoreBackend  string `envconfig:"STORE_BACKEND" default:"file"`
	StoreFilePath string `envconfig:"STORE_FILE_PATH" default:"wallet.store"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
	RPCAttempts uint          `envconfig:"RPC_ATTEMPTS" default:"3"`
}

const (
	StoreBackendFile   = "file"
	StoreBackendRedis  = "redis"
	StoreBackendMemory = "memory"
)

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendFile, StoreBackendRedis, StoreBackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of file, redis, memory: got %q", c.StoreBackend)
	}
	switch c.BTCNetwork {
	case "mainnet", "testnet", "regtest":
	default:
		return fmt.Errorf("BTC_NETWORK must be one of mainnet, testnet, regtest: got %q", c.BTCNetwork)
	}
	if c.RPCAttempts == 0 {
		return errors.New("RPC_ATTEMPTS must be at least 1")
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetStoreFilePath returns path to the encrypted store file
func GetStoreFilePath() string {
	return Get().StoreFilePath
}

var passwordBytes []byte

// PromptForPassword prompts the user for the store password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	raw, err := PromptSecret("Enter store password: ")
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	passwordBytes = make([]byte, len(raw))
	copy(passwordBytes, raw)
	clear(raw)
	return nil
}

// PromptSecret reads one line from the terminal without echo.
// Caller must zero the returned slice after use.
func PromptSecret(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter secrets")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return raw, nil
}

// GetStorePasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetStorePasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
