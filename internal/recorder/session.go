// Package recorder implements the recording session: an explicit state
// machine (IDLE -> RECORDING <-> PAUSED -> STOPPED -> SAVED | DISCARDED)
// independent of any UI, fed by an audio capture source.
package recorder

import (
	"fmt"
	"sync"
)

// State is the lifecycle state of one recording take.
type State string

const (
	StateIdle      State = "IDLE"
	StateRecording State = "RECORDING"
	StatePaused    State = "PAUSED"
	StateStopped   State = "STOPPED"
	StateSaved     State = "SAVED"
	StateDiscarded State = "DISCARDED"
)

// CaptureSource starts and stops audio capture. The source invokes the
// data callback from a driver-provided thread; the session is the only
// consumer and gates appends on its own state.
type CaptureSource interface {
	Start(onData func(pcm []byte)) error
	Stop() error
}

// Session is one recording take. A new Session is created for every
// take; SAVED and DISCARDED are terminal.
type Session struct {
	SampleRate int
	Channels   int

	source CaptureSource

	mu     sync.Mutex
	state  State
	buffer []byte
}

// NewSession creates an idle session over the given capture source.
func NewSession(source CaptureSource, sampleRate, channels int) *Session {
	return &Session{
		SampleRate: sampleRate,
		Channels:   channels,
		source:     source,
		state:      StateIdle,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins capture. Valid only from IDLE.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("cannot start recording from state %s", state)
	}
	s.buffer = s.buffer[:0]
	s.state = StateRecording
	s.mu.Unlock()

	if err := s.source.Start(s.appendPCM); err != nil {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
		return fmt.Errorf("failed to start capture: %w", err)
	}
	return nil
}

// Pause suspends buffering without stopping the capture device. Frames
// delivered while paused are dropped.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecording {
		return fmt.Errorf("cannot pause from state %s", s.state)
	}
	s.state = StatePaused
	return nil
}

// Resume continues buffering after a pause.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused {
		return fmt.Errorf("cannot resume from state %s", s.state)
	}
	s.state = StateRecording
	return nil
}

// Stop ends capture. The take stays in memory for Save or Discard.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.state != StateRecording && s.state != StatePaused {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("cannot stop from state %s", state)
	}
	s.state = StateStopped
	s.mu.Unlock()

	if err := s.source.Stop(); err != nil {
		return fmt.Errorf("failed to stop capture: %w", err)
	}
	return nil
}

// Discard drops the take. Valid only from STOPPED.
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateStopped {
		return fmt.Errorf("cannot discard from state %s", s.state)
	}
	s.buffer = nil
	s.state = StateDiscarded
	return nil
}

// PCM returns a copy of the captured audio. Valid only once stopped.
func (s *Session) PCM() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateStopped {
		return nil, fmt.Errorf("no captured audio available in state %s", s.state)
	}
	out := make([]byte, len(s.buffer))
	copy(out, s.buffer)
	return out, nil
}

// Duration is the captured audio length in seconds, derived from the
// sample count (paused stretches contribute nothing).
func (s *Session) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	bytesPerSecond := s.SampleRate * s.Channels * 2 // 16-bit samples
	if bytesPerSecond == 0 {
		return 0
	}
	return float64(len(s.buffer)) / float64(bytesPerSecond)
}

// appendPCM is the capture data callback. It runs on the driver's thread
// and appends only while the session is actively recording.
func (s *Session) appendPCM(pcm []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecording {
		return
	}
	s.buffer = append(s.buffer, pcm...)
}

// markSaved finalizes the take after a successful save.
func (s *Session) markSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = nil
	s.state = StateSaved
}
