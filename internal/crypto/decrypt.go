package crypto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/AlexZinkM/eos-wallet/internal/model"

	"golang.org/x/crypto/scrypt"
)

// ErrInvalidPassword is returned when the store cannot be authenticated.
var ErrInvalidPassword = errors.New("invalid password")

// OpenStore reads and decrypts the store file.
// password must be []byte for security (caller should zero it after use)
func OpenStore(filePath string, password []byte) (*model.StoreFile, *model.StoreData, error) {
	storeFile, err := readStoreFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	salt, err := base64.StdEncoding.DecodeString(storeFile.Salt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(storeFile.Nonce)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(storeFile.CipherText)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	kdf := storeFile.KDF
	if kdf.N == 0 {
		kdf = model.KDF{N: DefaultKDF.N, R: DefaultKDF.R, P: DefaultKDF.P}
	}

	key, err := scrypt.Key(password, salt, kdf.N, kdf.R, kdf.P, scryptKeyLen)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, nil, ErrInvalidPassword
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	var data model.StoreData
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal store data: %w", err)
	}
	if data.Values == nil {
		data.Values = map[string]string{}
	}

	return storeFile, &data, nil
}

// ReadStoreAccount reads only the account name from the store file (without decryption)
func ReadStoreAccount(filePath string) (string, error) {
	storeFile, err := readStoreFile(filePath)
	if err != nil {
		return "", err
	}
	return storeFile.Account, nil
}

func readStoreFile(filePath string) (*model.StoreFile, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file does not exist: %w", os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if fileInfo.Size() == 0 {
		return nil, errors.New("file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Skip UTF-8 BOM if present
	if len(fileData) >= 3 && fileData[0] == 0xEF && fileData[1] == 0xBB && fileData[2] == 0xBF {
		fileData = fileData[3:]
	}

	var storeFile model.StoreFile
	if err := json.Unmarshal(fileData, &storeFile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal store file: %w", err)
	}
	return &storeFile, nil
}
