package orchestrator

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"cofoundr_pitch_deck/generator"
	"cofoundr_pitch_deck/health"
	"cofoundr_pitch_deck/metrics"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 120 * time.Second

const (
	msgOffline     = "Server is offline. Please make sure the server is running and try again."
	msgInFlight    = "A pitch deck is already being generated. Please wait for it to finish."
	msgTimeout     = "Request timed out. The server may be processing your request - please try again in a moment."
	msgUnreachable = "Cannot connect to server. Please make sure the server is running and try again."
	msgUnknown     = "Failed to generate pitch deck. Please try again or check your connection."
)

// Orchestrator submits generation requests, narrates their progress and turns the result into
// an Outcome. It reads the shared status store before each submission and writes it after.
// There are no automatic retries.
type Orchestrator struct {
	gen     generator.Generator
	store   *health.Store
	metrics *metrics.Collector
	logger  *log.Logger
	timeout time.Duration

	progress      func(string)
	basicSteps    []Step
	detailedSteps []Step
	regenSteps    func(generator.Style) []Step
	now           func() time.Time

	mu       sync.Mutex
	inFlight bool
}

type Option func(*Orchestrator)

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithProgress receives narration messages; "" means the request resolved.
func WithProgress(fn func(string)) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

func WithMetrics(c *metrics.Collector) Option {
	return func(o *Orchestrator) { o.metrics = c }
}

func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSteps replaces the narration of basic and detailed submissions.
func WithSteps(basic, detailed []Step) Option {
	return func(o *Orchestrator) {
		o.basicSteps = basic
		o.detailedSteps = detailed
	}
}

// WithRegenerateSteps replaces the narration of style regenerations.
func WithRegenerateSteps(fn func(generator.Style) []Step) Option {
	return func(o *Orchestrator) { o.regenSteps = fn }
}

func New(gen generator.Generator, store *health.Store, opts ...Option) (*Orchestrator, error) {
	if gen == nil {
		return nil, errors.New("generator is required")
	}
	if store == nil {
		return nil, errors.New("status store is required")
	}
	o := &Orchestrator{
		gen:           gen,
		store:         store,
		logger:        log.Default(),
		timeout:       DefaultTimeout,
		basicSteps:    BasicSteps(),
		detailedSteps: DetailedSteps(),
		regenSteps:    RegenerateSteps,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// InFlight reports whether a submission is outstanding.
func (o *Orchestrator) InFlight() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight
}

// Submit sends one generation request for idea. opts.Detailed picks the detailed entry point.
func (o *Orchestrator) Submit(ctx context.Context, idea string, opts generator.OptionSet) Outcome {
	opts = opts.Normalize()
	steps := o.basicSteps
	if opts.Detailed {
		steps = o.detailedSteps
	}
	return o.submit(ctx, idea, opts, "", steps)
}

// Regenerate is a fresh submission of idea with the presentation style in opts. The style is
// embedded in the request id so it never collides with the earlier request.
func (o *Orchestrator) Regenerate(ctx context.Context, idea string, opts generator.OptionSet) Outcome {
	opts = opts.Normalize()
	return o.submit(ctx, idea, opts, string(opts.PresentationStyle), o.regenSteps(opts.PresentationStyle))
}

func (o *Orchestrator) submit(ctx context.Context, idea string, opts generator.OptionSet, tag string, steps []Step) Outcome {
	if err := generator.ValidateIdea(idea); err != nil {
		return o.reject(err)
	}
	if err := opts.Validate(); err != nil {
		return o.reject(err)
	}
	switch o.store.Status() {
	case health.StatusOffline:
		return o.reject(ErrServerOffline)
	case health.StatusBusy:
		o.logger.Printf("[orchestrator] server busy, submitting anyway")
	}
	if !o.begin() {
		return o.reject(ErrInFlight)
	}
	defer o.end()

	req := generator.NewRequest(idea, opts, tag, o.now())
	o.logger.Printf("[orchestrator] submit request_id=%s detailed=%t style=%s", req.RequestID, req.Detailed(), opts.PresentationStyle)

	n := narrate(steps, o.progress)
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	start := time.Now()

	var (
		text string
		err  error
	)
	if req.Detailed() {
		text, err = o.gen.GenerateDetailedPitch(callCtx, req)
	} else {
		text, err = o.gen.GeneratePitch(callCtx, req)
	}
	cancel()
	n.stop()

	out := o.classify(req, text, err)
	elapsed := time.Since(start)
	o.metrics.RecordGeneration(string(out.Kind()), string(Class(out)), elapsed)
	o.logger.Printf("[orchestrator] request_id=%s outcome=%s class=%s in %v", req.RequestID, out.Kind(), Class(out), elapsed.Round(time.Millisecond))
	return out
}

// classify turns the collaborator's answer into exactly one Outcome and updates the status.
func (o *Orchestrator) classify(req generator.GenerationRequest, text string, err error) Outcome {
	if err != nil {
		var fault *generator.ServiceFault
		if errors.As(err, &fault) {
			return o.serviceError(req, fault.Message, fault.Class(), err)
		}

		class := generator.ClassOf(err)
		msg := msgUnknown
		switch class {
		case generator.ClassTimeout:
			o.setStatus(health.StatusBusy)
			msg = msgTimeout
		case generator.ClassUnreachable:
			o.setStatus(health.StatusOffline)
			msg = msgUnreachable
		}
		return TransportFailure{Class: class, Message: msg, RequestID: req.RequestID, Err: err}
	}

	if generator.HasErrorMarker(text) {
		return o.serviceError(req, text, generator.ClassifyFaultMessage(text), nil)
	}

	if o.store.Status() != health.StatusOnline {
		o.setStatus(health.StatusOnline)
	}
	return Success{Text: text, RequestID: req.RequestID}
}

func (o *Orchestrator) serviceError(req generator.GenerationRequest, msg string, class generator.ErrorClass, err error) Outcome {
	switch class {
	case generator.ClassUnreachable:
		o.setStatus(health.StatusOffline)
	case generator.ClassTimeout:
		o.setStatus(health.StatusBusy)
	}
	return ServiceError{Message: msg, Class: class, RequestID: req.RequestID, Err: err}
}

// reject short-circuits a submission before any network call.
func (o *Orchestrator) reject(err error) Outcome {
	msg := err.Error()
	switch {
	case errors.Is(err, ErrServerOffline):
		msg = msgOffline
	case errors.Is(err, ErrInFlight):
		msg = msgInFlight
	}
	o.metrics.RecordGeneration(string(KindServiceError), "local", 0)
	o.logger.Printf("[orchestrator] rejected: %v", err)
	return ServiceError{Message: msg, Class: generator.ClassUnknown, Err: err}
}

func (o *Orchestrator) setStatus(s health.Status) {
	if prev := o.store.Set(s); prev != s {
		o.logger.Printf("[orchestrator] status %s -> %s", prev, s)
	}
	o.metrics.SetServerStatus(string(s))
}

func (o *Orchestrator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return false
	}
	o.inFlight = true
	return true
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight = false
}
