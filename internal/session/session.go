// Package session holds the per-session upload state: which file is pending,
// how it validated, and whether it has already been uploaded.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/nexconsult/cnpj-upload/internal/models"
)

// State is a step of the upload cycle
type State string

// Upload cycle states
const (
	StateAwaitingFile    State = "AWAITING_FILE"
	StateFileReceived    State = "FILE_RECEIVED"
	StateValidatedOK     State = "VALIDATED_OK"
	StateValidatedFailed State = "VALIDATED_FAILED"
	StateAwaitingConfirm State = "AWAITING_CONFIRM"
	StateUploaded        State = "UPLOADED"
)

// ErrInvalidTransition is returned when a state change is not allowed
var ErrInvalidTransition = errors.New("invalid session state transition")

var transitions = map[State][]State{
	StateAwaitingFile:    {StateFileReceived},
	StateFileReceived:    {StateValidatedOK, StateValidatedFailed},
	StateValidatedOK:     {StateAwaitingConfirm},
	StateValidatedFailed: {StateAwaitingFile},
	StateAwaitingConfirm: {StateUploaded, StateAwaitingFile},
	StateUploaded:        {StateAwaitingFile},
}

// Session is the state of one upload cycle. Payload keeps the original bytes
// so a failed upload can be retried without sending the file again.
type Session struct {
	ID         string                     `json:"id"`
	State      State                      `json:"state"`
	Uploaded   bool                       `json:"uploaded"`
	Cycle      int                        `json:"cycle"`
	FileName   string                     `json:"file_name,omitempty"`
	Payload    []byte                     `json:"payload,omitempty"`
	Report     *models.ValidationReport   `json:"report,omitempty"`
	Attempts   int                        `json:"attempts"`
	LastError  string                     `json:"last_error,omitempty"`
	LastUpload *models.UploadConfirmation `json:"last_upload,omitempty"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

// New creates a session waiting for its first file
func New(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     StateAwaitingFile,
		Cycle:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanTransition reports whether the session may move to the given state
func (s *Session) CanTransition(to State) bool {
	for _, allowed := range transitions[s.State] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition moves the session to the given state
func (s *Session) Transition(to State) error {
	if !s.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, to)
	}
	s.State = to
	return nil
}

// AcceptsFile reports whether a new file may be received. A session whose
// file was already uploaded must be reset first.
func (s *Session) AcceptsFile() bool {
	if s.Uploaded {
		return false
	}
	switch s.State {
	case StateAwaitingFile, StateValidatedFailed, StateAwaitingConfirm:
		return true
	}
	return false
}

// Receive replaces any pending file with a new one and moves the session to
// FILE_RECEIVED
func (s *Session) Receive(fileName string, payload []byte, now time.Time) error {
	if !s.AcceptsFile() {
		return fmt.Errorf("%w: %s does not accept a new file", ErrInvalidTransition, s.State)
	}
	if s.State != StateAwaitingFile {
		if err := s.Transition(StateAwaitingFile); err != nil {
			return err
		}
	}
	if err := s.Transition(StateFileReceived); err != nil {
		return err
	}

	s.FileName = fileName
	s.Payload = payload
	s.Report = nil
	s.Attempts = 0
	s.LastError = ""
	s.UpdatedAt = now
	return nil
}

// Validated records the validation report. A valid file moves on to
// AWAITING_CONFIRM; an invalid one stays in VALIDATED_FAILED and its payload
// is dropped.
func (s *Session) Validated(report models.ValidationReport, now time.Time) error {
	if s.State != StateFileReceived {
		return fmt.Errorf("%w: %s has no file to validate", ErrInvalidTransition, s.State)
	}

	s.Report = &report
	s.UpdatedAt = now

	if !report.Valid {
		s.Payload = nil
		return s.Transition(StateValidatedFailed)
	}

	if err := s.Transition(StateValidatedOK); err != nil {
		return err
	}
	return s.Transition(StateAwaitingConfirm)
}

// UploadFailed records a failed attempt. The session stays in
// AWAITING_CONFIRM so the same payload can be sent again.
func (s *Session) UploadFailed(err error, now time.Time) {
	s.Attempts++
	s.LastError = err.Error()
	s.UpdatedAt = now
}

// UploadSucceeded marks the pending file as uploaded
func (s *Session) UploadSucceeded(confirmation *models.UploadConfirmation, now time.Time) error {
	if err := s.Transition(StateUploaded); err != nil {
		return err
	}

	s.Attempts++
	s.Uploaded = true
	s.LastError = ""
	s.LastUpload = confirmation
	s.Payload = nil
	s.UpdatedAt = now
	return nil
}

// Reset starts a new upload cycle: the uploaded flag is cleared, the pending
// file is dropped and the cycle counter moves on
func (s *Session) Reset(now time.Time) error {
	if s.State != StateAwaitingFile {
		if err := s.Transition(StateAwaitingFile); err != nil {
			return err
		}
	}

	s.Uploaded = false
	s.Cycle++
	s.FileName = ""
	s.Payload = nil
	s.Report = nil
	s.Attempts = 0
	s.LastError = ""
	s.UpdatedAt = now
	return nil
}

// View returns the public representation of the session
func (s *Session) View() *models.SessionView {
	return &models.SessionView{
		ID:         s.ID,
		State:      string(s.State),
		Uploaded:   s.Uploaded,
		Cycle:      s.Cycle,
		FileName:   s.FileName,
		Report:     s.Report,
		Attempts:   s.Attempts,
		LastError:  s.LastError,
		LastUpload: s.LastUpload,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
