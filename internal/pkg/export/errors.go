package export

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when the control is already running an export
var ErrBusy = errors.New("export already in progress")

// TransportError indicates the request failed on the network or with a
// non-2xx status, or the body could not be decoded. No server message is available.
type TransportError struct {
	Kind       Kind
	StatusCode int // 0 when no response was received
	RequestID  string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s export: unexpected HTTP status %d", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s export: transport failure: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApplicationError indicates the server answered {success: false}
type ApplicationError struct {
	Kind    Kind
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s export rejected by server", e.Kind)
	}
	return fmt.Sprintf("%s export rejected by server: %s", e.Kind, e.Message)
}

// MalformedResponseError indicates a successful response missing a required field
type MalformedResponseError struct {
	Kind  Kind
	Field string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s export: response is missing %s", e.Kind, e.Field)
}

// IsTransport returns true if err is a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsApplication returns true if err is an ApplicationError
func IsApplication(err error) bool {
	var ae *ApplicationError
	return errors.As(err, &ae)
}

// IsMalformed returns true if err is a MalformedResponseError
func IsMalformed(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}
