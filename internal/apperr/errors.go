package apperr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies workflow failures.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindAccountNotFound
	KindKeyMismatch
	KindNetworkFailure
	KindPaymentAlreadyMade
	KindNoSession
)

// GenericMessage is what users see for anything without a dedicated message.
const GenericMessage = "Sorry, error occurred during activation"

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "INVALID_INPUT"
	case KindAccountNotFound:
		return "ACCOUNT_NOT_FOUND"
	case KindKeyMismatch:
		return "KEY_MISMATCH"
	case KindNetworkFailure:
		return "NETWORK_FAILURE"
	case KindPaymentAlreadyMade:
		return "PAYMENT_ALREADY_MADE"
	case KindNoSession:
		return "NO_SESSION"
	default:
		return "INTERNAL"
	}
}

// Error is a classified error with an optional cause.
type Error struct {
	Kind     Kind
	Message  string
	Detail   map[string]string
	Original error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", e.Kind.String(), e.Message))
	if e.Original != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Original))
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Original
}

// New creates an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap classifies err. A nil err yields nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: msg, Original: err}
}

// NewAccountNotFoundError reports an account unknown to the chain.
func NewAccountNotFoundError(accountName string, err error) *Error {
	return &Error{
		Kind:     KindAccountNotFound,
		Message:  fmt.Sprintf("account %q not found", accountName),
		Detail:   map[string]string{"accountName": accountName},
		Original: err,
	}
}

// NewKeyMismatchError reports a private key that does not control the account.
func NewKeyMismatchError(derived, required string) *Error {
	return &Error{
		Kind:    KindKeyMismatch,
		Message: fmt.Sprintf("%s is not equal to %s", derived, required),
		Detail:  map[string]string{"derived": derived, "required": required},
	}
}

// NewNetworkError wraps a transport failure talking to service.
func NewNetworkError(service string, err error) *Error {
	return &Error{
		Kind:     KindNetworkFailure,
		Message:  service + " request failed",
		Detail:   map[string]string{"service": service},
		Original: err,
	}
}

// NewPaymentAlreadyMadeError reports an activation payment that was already broadcast.
func NewPaymentAlreadyMadeError(paymentTx string) *Error {
	return &Error{
		Kind:    KindPaymentAlreadyMade,
		Message: "activation payment already sent: " + paymentTx,
		Detail:  map[string]string{"paymentTx": paymentTx},
	}
}

// KindOf returns the kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage maps err to the text shown to a user.
// Only key mismatches are shown verbatim.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return GenericMessage
	}
	switch e.Kind {
	case KindKeyMismatch, KindInvalidInput, KindNoSession, KindPaymentAlreadyMade:
		return e.Message
	default:
		return GenericMessage
	}
}
