package orchestrator

import (
	"context"
	"errors"
	"sync"

	"cofoundr_pitch_deck/generator"
)

// Session is the state of one user's view: the last idea and options submitted and the last
// outcome shown. A result that comes back after the view was abandoned is dropped.
type Session struct {
	orch *Orchestrator

	mu      sync.Mutex
	epoch   uint64
	idea    string
	options generator.OptionSet
	output  string
	last    Outcome
}

func NewSession(orch *Orchestrator) *Session {
	return &Session{orch: orch, options: generator.DefaultOptions()}
}

// Generate submits idea with opts and records the outcome if the session is still current.
func (s *Session) Generate(ctx context.Context, idea string, opts generator.OptionSet) Outcome {
	epoch := s.currentEpoch()
	out := s.orch.Submit(ctx, idea, opts)
	if rejectedInFlight(out) {
		return out
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.orch.logger.Printf("[session] dropping stale %s result", out.Kind())
		return out
	}
	s.idea = idea
	if !rejectedOptions(out) {
		s.options = opts.Normalize()
	}
	s.record(out)
	return out
}

// RegenerateWithStyle resubmits the current idea with a different presentation style. On any
// failure the style selection rolls back to what it was before the attempt.
func (s *Session) RegenerateWithStyle(ctx context.Context, style generator.Style) Outcome {
	s.mu.Lock()
	epoch := s.epoch
	idea := s.idea
	prevStyle := s.options.PresentationStyle
	opts := s.options
	opts.PresentationStyle = style
	s.options = opts
	s.mu.Unlock()

	out := s.orch.Regenerate(ctx, idea, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	if out.Kind() != KindSuccess && s.options.PresentationStyle == style {
		s.options.PresentationStyle = prevStyle
	}
	if s.epoch != epoch {
		s.orch.logger.Printf("[session] dropping stale regenerate result")
		return out
	}
	if !rejectedInFlight(out) {
		s.record(out)
	}
	return out
}

// Abandon marks any outstanding result as irrelevant, e.g. when the user leaves the view.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
}

// Clear resets the session to an empty form.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.idea = ""
	s.options = generator.DefaultOptions()
	s.output = ""
	s.last = nil
}

func (s *Session) Idea() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idea
}

func (s *Session) Options() generator.OptionSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

// Output is the text in the output pane: the deck, or the last error message.
func (s *Session) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}

func (s *Session) Last() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// LooksValid gates copy, export and share: the last outcome was a clean success and nothing is
// being generated.
func (s *Session) LooksValid() bool {
	if s.orch.InFlight() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.last.(Success); !ok {
		return false
	}
	return LooksValid(s.output)
}

func (s *Session) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

func (s *Session) record(out Outcome) {
	s.last = out
	s.output = Display(out)
}

func rejectedInFlight(out Outcome) bool {
	se, ok := out.(ServiceError)
	return ok && errors.Is(se.Err, ErrInFlight)
}

func rejectedOptions(out Outcome) bool {
	se, ok := out.(ServiceError)
	return ok && errors.Is(se.Err, generator.ErrInvalidOptions)
}
