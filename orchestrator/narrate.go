package orchestrator

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cofoundr_pitch_deck/generator"
)

// Step is a progress message shown once the request has been outstanding for After.
type Step struct {
	After   time.Duration
	Message string
}

func BasicSteps() []Step {
	return []Step{
		{0, "Crafting your professional pitch deck..."},
		{3 * time.Second, "Generating compelling slides and content..."},
		{6 * time.Second, "Finalizing your investor-ready pitch deck..."},
	}
}

func DetailedSteps() []Step {
	return []Step{
		{0, "Analyzing your startup idea for detailed pitch deck..."},
		{3 * time.Second, "Creating comprehensive market analysis and financial projections..."},
		{6 * time.Second, "Finalizing your investor-ready pitch deck..."},
	}
}

// RegenerateSteps narrates a regeneration with a different presentation style.
func RegenerateSteps(style generator.Style) []Step {
	name := strings.ReplaceAll(string(style), "-", " ")
	return []Step{
		{0, fmt.Sprintf("Regenerating with %s approach...", name)},
		{2 * time.Second, fmt.Sprintf("Crafting %s pitch deck...", name)},
	}
}

// narration emits steps while a request is outstanding. Timers are never relied on to be
// cancelled in time: each one checks done under the lock before emitting.
type narration struct {
	mu     sync.Mutex
	done   bool
	timers []*time.Timer
	emit   func(string)
}

func narrate(steps []Step, emit func(string)) *narration {
	n := &narration{emit: emit}
	if emit == nil {
		n.emit = func(string) {}
	}

	ordered := append([]Step(nil), steps...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].After < ordered[j].After })

	n.mu.Lock()
	defer n.mu.Unlock()
	for _, step := range ordered {
		msg := step.Message
		if step.After <= 0 {
			n.emit(msg)
			continue
		}
		n.timers = append(n.timers, time.AfterFunc(step.After, func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			if n.done {
				return
			}
			n.emit(msg)
		}))
	}
	return n
}

// stop suppresses every pending step and clears the progress text.
func (n *narration) stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.done {
		return
	}
	n.done = true
	for _, t := range n.timers {
		t.Stop()
	}
	n.emit("")
}

// Progress holds the current progress message for readers such as the status endpoint.
type Progress struct {
	mu  sync.RWMutex
	msg string
}

func (p *Progress) Set(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msg = msg
}

func (p *Progress) Current() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.msg
}
