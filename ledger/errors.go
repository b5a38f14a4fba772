package ledger

import (
	"errors"
	"fmt"
)

// Kind tags every failure the ledger reports.
type Kind string

const (
	KindDoctorNotFound      Kind = "DoctorNotFound"
	KindDoctorUnavailable   Kind = "DoctorUnavailable"
	KindSlotTaken           Kind = "SlotTaken"
	KindAppointmentNotFound Kind = "AppointmentNotFound"
	KindAppointmentClosed   Kind = "AppointmentClosed"
	KindUnauthorized        Kind = "Unauthorized"
	KindMalformedSlotToken  Kind = "MalformedSlotToken"
	KindPersistenceFailure  Kind = "PersistenceFailure"
)

// Error is a tagged failure with a message fit for the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrSlotTaken) works on wrapped values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrDoctorNotFound      = &Error{Kind: KindDoctorNotFound, Message: "Doctor not found"}
	ErrDoctorUnavailable   = &Error{Kind: KindDoctorUnavailable, Message: "Doctor not available"}
	ErrSlotTaken           = &Error{Kind: KindSlotTaken, Message: "Slot not available"}
	ErrAppointmentNotFound = &Error{Kind: KindAppointmentNotFound, Message: "Appointment not found"}
	ErrAppointmentClosed   = &Error{Kind: KindAppointmentClosed, Message: "Appointment is already cancelled"}
	ErrUnauthorized        = &Error{Kind: KindUnauthorized, Message: "Unauthorized action"}
	ErrMalformedSlotToken  = &Error{Kind: KindMalformedSlotToken, Message: "Invalid slot date or time"}
	ErrPersistenceFailure  = &Error{Kind: KindPersistenceFailure, Message: "Storage failure"}
)

func persistenceFailure(op string, err error) *Error {
	return &Error{Kind: KindPersistenceFailure, Message: "Failed to " + op, Err: err}
}

func malformed(format string, args ...interface{}) *Error {
	return &Error{Kind: KindMalformedSlotToken, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of err, defaulting to PersistenceFailure for foreign errors.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindPersistenceFailure
}

// MessageOf returns the caller-facing message carried by err.
func MessageOf(err error) string {
	var le *Error
	if errors.As(err, &le) {
		return le.Message
	}
	return err.Error()
}
