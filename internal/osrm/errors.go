package osrm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies routing failures.
type ErrorKind int

const (
	KindTransport ErrorKind = iota + 1
	KindParse
	KindBackendStatus
	KindInterpretation
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindBackendStatus:
		return "backend status"
	case KindInterpretation:
		return "interpretation"
	case KindTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ErrWaypointsNotReady is returned when fewer than two waypoints are given or one is unplaced.
var ErrWaypointsNotReady = errors.New("at least two placed waypoints are required")

var errTimedOut = errors.New("OSRM request timed out")

// Error is a routing failure. Code holds the backend status code for KindBackendStatus and,
// when the error body carried one, for KindTransport.
type Error struct {
	Kind       ErrorKind
	Code       string
	Message    string
	HTTPStatus int
	URL        string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Code != "" {
		msg = e.Code
	}
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("osrm %s error: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a routing Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func interpretationError(format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{Kind: KindInterpretation, Message: err.Error(), Err: err}
}
