package capture

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FaultKind classifies a service fault.
type FaultKind string

const (
	FaultKindRemote           FaultKind = "RemoteFault"
	FaultKindNotFound         FaultKind = "NotFoundFault"
	FaultKindInvalidOperation FaultKind = "InvalidOperationFault"
	FaultKindPrecondition     FaultKind = "PreconditionFault"
)

// Fault codes returned by the service.
const (
	FaultCodeRemote           = 10001
	FaultCodeInvalidSession   = 10002
	FaultCodeNotFound         = 10010
	FaultCodeInvalidOperation = 10020
	FaultCodePrecondition     = 10030
)

// Fault is a single fault raised by the capture service.
type Fault struct {
	Code   int    `json:"code"   yaml:"code"`
	Title  string `json:"title"  yaml:"title"`
	Detail string `json:"detail" yaml:"detail"`
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s (code: %d)", f.Title, f.Detail, f.Code)
}

// Kind maps the fault code onto the fault taxonomy. Unknown codes are remote faults.
func (f *Fault) Kind() FaultKind {
	switch f.Code {
	case FaultCodeNotFound:
		return FaultKindNotFound
	case FaultCodeInvalidOperation:
		return FaultKindInvalidOperation
	case FaultCodePrecondition:
		return FaultKindPrecondition
	default:
		return FaultKindRemote
	}
}

// NewFault builds a fault of the given kind.
func NewFault(kind FaultKind, detail string) *Fault {
	code := FaultCodeRemote

	switch kind {
	case FaultKindNotFound:
		code = FaultCodeNotFound
	case FaultKindInvalidOperation:
		code = FaultCodeInvalidOperation
	case FaultKindPrecondition:
		code = FaultCodePrecondition
	case FaultKindRemote:
	}

	return &Fault{Code: code, Title: string(kind), Detail: detail}
}

// FaultResponse is the error body returned by the service.
type FaultResponse struct {
	StatusCode int     `json:"-"`
	Faults     []Fault `json:"faults"`
}

// Error implements the error interface for FaultResponse.
func (e *FaultResponse) Error() string {
	if len(e.Faults) == 0 {
		return fmt.Sprintf("unknown fault (status %d)", e.StatusCode)
	}

	if len(e.Faults) == 1 {
		return e.Faults[0].Error()
	}

	return fmt.Sprintf("multiple faults: %v", e.Faults)
}

// FirstFault returns the first fault or nil.
func (e *FaultResponse) FirstFault() *Fault {
	if len(e.Faults) > 0 {
		return &e.Faults[0]
	}

	return nil
}

// ParseFaultResponse parses a fault body from JSON.
func ParseFaultResponse(data []byte) (*FaultResponse, error) {
	var faultResp FaultResponse

	err := json.Unmarshal(data, &faultResp)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal fault response: %w", err)
	}

	return &faultResp, nil
}

// Static errors for err113 compliance.
var (
	ErrConfigRequired        = errors.New("config is required")
	ErrEndpointRequired      = errors.New("capture service endpoint is required")
	ErrSessionRequired       = errors.New("a session id or username and password is required")
	ErrFieldIdentityRequired = errors.New("field id or name is required")
	ErrNoFieldUpdates        = errors.New("no field updates supplied")
	ErrDuplicateFieldUpdate  = errors.New("duplicate field update")
	ErrPageNotFound          = errors.New("page not found in document")
	ErrUnknownFieldStatus    = errors.New("unknown field status")
	ErrUnknownItemStatus     = errors.New("unknown item status")
	ErrNotEnoughDocuments    = errors.New("at least two documents are required")
	ErrNoChildFolders        = errors.New("no child folder names supplied")
)

// faultOf finds the first fault carried by err.
func faultOf(err error) *Fault {
	fault := &Fault{}
	if errors.As(err, &fault) {
		return fault
	}

	faultResp := &FaultResponse{}
	if errors.As(err, &faultResp) {
		return faultResp.FirstFault()
	}

	return nil
}

// FaultKindOf returns the kind of the fault carried by err, if any.
func FaultKindOf(err error) (FaultKind, bool) {
	fault := faultOf(err)
	if fault == nil {
		return "", false
	}

	return fault.Kind(), true
}

// IsRemoteFault reports whether err carries any fault from the service. Every
// kind of fault is a remote fault; the other predicates narrow it down.
func IsRemoteFault(err error) bool {
	return faultOf(err) != nil
}

// IsNotFound checks if the error is a not found fault.
func IsNotFound(err error) bool {
	kind, ok := FaultKindOf(err)

	return ok && kind == FaultKindNotFound
}

// IsInvalidOperation checks if the error is an invalid operation fault.
func IsInvalidOperation(err error) bool {
	kind, ok := FaultKindOf(err)

	return ok && kind == FaultKindInvalidOperation
}

// IsPrecondition checks if the error is a precondition fault.
func IsPrecondition(err error) bool {
	kind, ok := FaultKindOf(err)

	return ok && kind == FaultKindPrecondition
}

// IsInvalidSession checks if the service rejected the session.
func IsInvalidSession(err error) bool {
	fault := faultOf(err)

	return fault != nil && fault.Code == FaultCodeInvalidSession
}

// IgnoreFault discards err when it carries a fault of the given kind and
// returns it unchanged otherwise.
func IgnoreFault(err error, kind FaultKind) error {
	got, ok := FaultKindOf(err)
	if ok && got == kind {
		return nil
	}

	return err
}
