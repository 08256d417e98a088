package mail

import (
	"errors"
	"fmt"
	"net/textproto"
)

// ErrRecipientDenied is returned when the recipient policy rejects an address.
var ErrRecipientDenied = errors.New("recipient not allowed")

// Stage identifies where in the send sequence a failure happened.
type Stage string

const (
	StageValidate Stage = "validate"
	StageConnect  Stage = "connect"
	StageAuth     Stage = "auth"
	StageDeliver  Stage = "deliver"
)

// SendError describes a failed delivery.
type SendError struct {
	Stage Stage
	Err   error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage recorded in err, or "" when err is not a SendError.
func StageOf(err error) Stage {
	var se *SendError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// SMTP reply codes that mean the relay refused to authenticate us.
var authReplyCodes = map[int]bool{
	454: true, // temporary authentication failure
	504: true, // mechanism not supported
	530: true, // authentication required
	534: true, // authentication mechanism too weak
	535: true, // credentials invalid
	538: true, // encryption required for mechanism
}

// classifyDial tags an error returned while connecting and logging in.
func classifyDial(err error) *SendError {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) && authReplyCodes[tpErr.Code] {
		return &SendError{Stage: StageAuth, Err: err}
	}
	if errors.Is(err, ErrAuthUnavailable) || errors.Is(err, ErrPlaintextAuth) {
		return &SendError{Stage: StageAuth, Err: err}
	}
	return &SendError{Stage: StageConnect, Err: err}
}
