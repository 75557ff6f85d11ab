// Re-encrypts the wallet store under a new password. The values are kept, salt and nonce are fresh.
// Usage: STORE_FILE_PATH=wallet.store go run ./cmd/rekey_store
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/AlexZinkM/eos-wallet/internal/config"
	"github.com/AlexZinkM/eos-wallet/internal/crypto"
	"github.com/AlexZinkM/eos-wallet/internal/store"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	path := config.GetStoreFilePath()

	if _, err := crypto.ReadStoreAccount(path); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("cannot read store")
	}

	oldPassword, err := config.PromptSecret("Current store password: ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read password")
	}
	defer clear(oldPassword)

	fs, err := store.OpenFileStore(path, oldPassword, crypto.DefaultKDF)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer fs.Close()

	newPassword, err := config.PromptSecret("New store password: ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read password")
	}
	defer clear(newPassword)

	confirm, err := config.PromptSecret("Repeat new store password: ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read password")
	}
	defer clear(confirm)

	if len(newPassword) == 0 || !bytes.Equal(newPassword, confirm) {
		fmt.Fprintln(os.Stderr, "passwords are empty or do not match")
		os.Exit(1)
	}

	if err := fs.Rekey(newPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to re-encrypt store")
	}

	account, _ := crypto.ReadStoreAccount(path)
	log.Info().Str("path", path).Str("account", account).Msg("store re-encrypted")
}
