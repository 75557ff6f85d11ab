package store

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/AlexZinkM/eos-wallet/internal/crypto"
	"github.com/AlexZinkM/eos-wallet/internal/model"

	pkgerrors "github.com/pkg/errors"
)

// FileStore keeps values in a password-encrypted file.
// The whole file is re-sealed on every write.
type FileStore struct {
	mu       sync.Mutex
	path     string
	password []byte
	kdf      crypto.KDFParams
	values   map[string]string
}

// OpenFileStore opens the store at path, creating an empty one if the file does not exist.
// The store keeps its own copy of password; call Close to wipe it.
func OpenFileStore(path string, password []byte, kdf crypto.KDFParams) (*FileStore, error) {
	s := &FileStore{
		path:     path,
		password: append([]byte(nil), password...),
		kdf:      kdf,
		values:   make(map[string]string),
	}

	_, data, err := crypto.OpenStore(path, password)
	switch {
	case err == nil:
		s.values = data.Values
	case errors.Is(err, os.ErrNotExist):
		if err := s.flush(); err != nil {
			return nil, err
		}
	default:
		return nil, pkgerrors.Wrap(err, "failed to open store file")
	}

	return s, nil
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	s.values[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

// SetMany applies all values with a single re-seal.
func (s *FileStore) SetMany(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := make(map[string]string, len(s.values))
	for k, v := range s.values {
		prev[k] = v
	}
	for k, v := range values {
		s.values[k] = v
	}
	if err := s.flush(); err != nil {
		s.values = prev
		return err
	}
	return nil
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	if !had {
		return nil
	}
	delete(s.values, key)
	if err := s.flush(); err != nil {
		s.values[key] = prev
		return err
	}
	return nil
}

// Rekey re-seals the store under a new password.
func (s *FileStore) Rekey(password []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.password
	s.password = append([]byte(nil), password...)
	if err := s.flush(); err != nil {
		clear(s.password)
		s.password = old
		return err
	}
	clear(old)
	return nil
}

// Close wipes the in-memory password.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.password)
	return nil
}

// flush must be called with mu held
func (s *FileStore) flush() error {
	data := &model.StoreData{
		Values:    s.values,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := crypto.SealStore(s.path, s.values[KeyEOSAccount], data, s.password, s.kdf); err != nil {
		return pkgerrors.Wrap(err, "failed to write store file")
	}
	return nil
}
