package client

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/AlexZinkM/eos-wallet/internal/common"

	"github.com/pkg/errors"
)

const (
	nameCharmap      = ".12345abcdefghijklmnopqrstuvwxyz"
	maxNameLen       = 13
	headTimeLayout   = "2006-01-02T15:04:05"
	defaultTxTimeout = 30 * time.Second
)

// Authorization is an actor@permission pair
type Authorization struct {
	Actor      string
	Permission string
}

// Action is a contract call with serialized data
type Action struct {
	Account       string
	Name          string
	Authorization []Authorization
	Data          []byte
}

// Transaction is an unsigned transaction with one or more actions
type Transaction struct {
	Expiration     time.Time
	RefBlockNum    uint16
	RefBlockPrefix uint32
	Actions        []Action
}

// SignedTransaction is a packed transaction with its signatures
type SignedTransaction struct {
	Packed     []byte
	Signatures []string
}

// NewTransaction references the last irreversible block and expires timeout after head time.
func NewTransaction(info *ChainInfo, timeout time.Duration, actions ...Action) (*Transaction, error) {
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}

	refID, err := hex.DecodeString(info.LastIrreversibleBlockID)
	if err != nil || len(refID) < 12 {
		return nil, errors.Errorf("invalid reference block id %q", info.LastIrreversibleBlockID)
	}

	head, err := time.Parse(headTimeLayout, info.HeadBlockTime)
	if err != nil {
		return nil, errors.Wrap(err, "invalid head block time")
	}

	return &Transaction{
		Expiration:     head.Add(timeout),
		RefBlockNum:    uint16(info.LastIrreversibleBlockNum & 0xffff),
		RefBlockPrefix: binary.LittleEndian.Uint32(refID[8:12]),
		Actions:        actions,
	}, nil
}

// Pack serializes the transaction in the chain's binary format
func (t *Transaction) Pack() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, uint32(t.Expiration.Unix()))
	writeUint16(&buf, t.RefBlockNum)
	writeUint32(&buf, t.RefBlockPrefix)
	writeVarUint32(&buf, 0) // max_net_usage_words
	buf.WriteByte(0)        // max_cpu_usage_ms
	writeVarUint32(&buf, 0) // delay_sec
	writeVarUint32(&buf, 0) // context_free_actions

	writeVarUint32(&buf, uint32(len(t.Actions)))
	for _, a := range t.Actions {
		if err := packAction(&buf, a); err != nil {
			return nil, err
		}
	}

	writeVarUint32(&buf, 0) // transaction_extensions
	return buf.Bytes(), nil
}

// SigningDigest is sha256(chain_id || packed_trx || sha256 of empty context free data)
func SigningDigest(chainID string, packed []byte) ([]byte, error) {
	id, err := hex.DecodeString(chainID)
	if err != nil || len(id) != 32 {
		return nil, errors.Errorf("invalid chain id %q", chainID)
	}
	h := sha256.New()
	h.Write(id)
	h.Write(packed)
	h.Write(make([]byte, 32))
	return h.Sum(nil), nil
}

// NewTransferAction builds a token transfer action authorized by from@active
func NewTransferAction(contract, from, to, quantity, memo string) (Action, error) {
	var buf bytes.Buffer
	for _, n := range []string{from, to} {
		v, err := NameToUint64(n)
		if err != nil {
			return Action{}, err
		}
		writeUint64(&buf, v)
	}
	if err := packAsset(&buf, quantity); err != nil {
		return Action{}, err
	}
	writeString(&buf, memo)

	return Action{
		Account:       contract,
		Name:          "transfer",
		Authorization: []Authorization{{Actor: from, Permission: "active"}},
		Data:          buf.Bytes(),
	}, nil
}

// NameToUint64 encodes an account/action name (up to 12 chars of [.1-5a-z] plus a 13th of [.1-5a-j])
func NameToUint64(name string) (uint64, error) {
	if name == "" || len(name) > maxNameLen {
		return 0, errors.Errorf("invalid name %q: length must be 1..%d", name, maxNameLen)
	}

	var value uint64
	for i := 0; i < len(name); i++ {
		c := strings.IndexByte(nameCharmap, name[i])
		if c < 0 {
			return 0, errors.Errorf("invalid name %q: character %q not allowed", name, name[i])
		}
		if i < 12 {
			value |= uint64(c&0x1f) << (64 - 5*(i+1))
		} else {
			if c > 0x0f {
				return 0, errors.Errorf("invalid name %q: 13th character must be in .1-5a-j", name)
			}
			value |= uint64(c & 0x0f)
		}
	}
	return value, nil
}

func packAction(buf *bytes.Buffer, a Action) error {
	account, err := NameToUint64(a.Account)
	if err != nil {
		return err
	}
	name, err := NameToUint64(a.Name)
	if err != nil {
		return err
	}
	writeUint64(buf, account)
	writeUint64(buf, name)

	writeVarUint32(buf, uint32(len(a.Authorization)))
	for _, auth := range a.Authorization {
		actor, err := NameToUint64(auth.Actor)
		if err != nil {
			return err
		}
		perm, err := NameToUint64(auth.Permission)
		if err != nil {
			return err
		}
		writeUint64(buf, actor)
		writeUint64(buf, perm)
	}

	writeVarUint32(buf, uint32(len(a.Data)))
	buf.Write(a.Data)
	return nil
}

// packAsset writes int64 amount followed by the symbol (precision byte + up to 7 chars)
func packAsset(buf *bytes.Buffer, quantity string) error {
	units, precision, symbol, err := common.ParseEOSQuantity(quantity)
	if err != nil {
		return errors.Wrap(err, "invalid quantity")
	}
	if units > common.MaxAssetAmount {
		return errors.Errorf("quantity %q exceeds the maximum asset amount", quantity)
	}
	if len(symbol) == 0 || len(symbol) > 7 {
		return errors.Errorf("invalid symbol %q", symbol)
	}

	sym := uint64(precision)
	for i := 0; i < len(symbol); i++ {
		ch := symbol[i]
		if ch < 'A' || ch > 'Z' {
			return errors.Errorf("invalid symbol %q", symbol)
		}
		sym |= uint64(ch) << (8 * (i + 1))
	}

	writeUint64(buf, units)
	writeUint64(buf, sym)
	return nil
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeVarUint32(buf *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

func writeString(buf *bytes.Buffer, s string) {
	writeVarUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}
