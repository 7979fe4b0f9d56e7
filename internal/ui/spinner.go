// Package ui holds small terminal helpers for the CLI commands.
package ui

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var spinnerFrames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// Spinner animates a progress line on stderr. When stderr is not a
// terminal it stays silent, so piped output remains clean.
type Spinner struct {
	mu      sync.Mutex
	msg     string
	done    chan struct{}
	enabled bool
}

func NewSpinner() *Spinner {
	fi, err := os.Stderr.Stat()
	enabled := err == nil && fi.Mode()&os.ModeCharDevice != 0
	return &Spinner{enabled: enabled}
}

// Start begins animating with the given message.
func (s *Spinner) Start(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg = msg
	if !s.enabled || s.done != nil {
		return
	}
	s.done = make(chan struct{})
	go s.run(s.done)
}

// Update swaps the message while running.
func (s *Spinner) Update(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.stop("")
}

// Succeed stops and leaves a checkmark line behind.
func (s *Spinner) Succeed(msg string) {
	s.stop("✓ " + msg)
}

// Fail stops and leaves a cross line behind.
func (s *Spinner) Fail(msg string) {
	s.stop("✗ " + msg)
}

func (s *Spinner) stop(final string) {
	s.mu.Lock()
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	enabled := s.enabled
	s.mu.Unlock()

	if !enabled {
		if final != "" {
			fmt.Fprintln(os.Stderr, final)
		}
		return
	}
	fmt.Fprint(os.Stderr, "\r\033[K")
	if final != "" {
		fmt.Fprintln(os.Stderr, final)
	}
}

func (s *Spinner) run(done chan struct{}) {
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()

	i := 0
	for {
		select {
		case <-done:
			return
		case <-tick.C:
			s.mu.Lock()
			msg := s.msg
			s.mu.Unlock()
			fmt.Fprintf(os.Stderr, "\r\033[K%c %s", spinnerFrames[i%len(spinnerFrames)], msg)
			i++
		}
	}
}
