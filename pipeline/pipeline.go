// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/nightjar-systems/pushgate/lib/clock"
	"github.com/nightjar-systems/pushgate/lib/diag"
	"github.com/nightjar-systems/pushgate/messaging"
	"github.com/nightjar-systems/pushgate/render"
)

// Outcome is the kind of a run's terminal state.
type Outcome int

const (
	// OutcomePassthrough: not a messaging notification; the original
	// payload is delivered unmodified.
	OutcomePassthrough Outcome = iota

	// OutcomeDelivered: rendered content is delivered.
	OutcomeDelivered

	// OutcomeSuppressed: the original payload is delivered marked
	// for removal — the renderer decided the event must not be
	// shown.
	OutcomeSuppressed

	// OutcomeFallback: the original payload is delivered unmodified
	// because enrichment could not complete; Reason says why.
	OutcomeFallback
)

var outcomeNames = map[Outcome]string{
	OutcomePassthrough: "passthrough",
	OutcomeDelivered:   "delivered",
	OutcomeSuppressed:  "suppressed",
	OutcomeFallback:    "fallback",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Result is the single terminal state of one run.
type Result struct {
	Outcome Outcome

	// Content is the rendered content, set only for OutcomeDelivered.
	Content *render.Content

	// Reason is the fallback reason, ReasonNone otherwise.
	Reason FallbackReason

	// SyncRetries counts background syncs performed during the run.
	SyncRetries int

	// Elapsed is the run's wall-clock duration.
	Elapsed time.Duration
}

// Config configures one pipeline run.
type Config struct {
	// Provider sets up the authenticated session.
	Provider SessionProvider

	// Deliver receives the terminal result. Invoked exactly once per
	// run, from whichever goroutine reaches the terminal state first.
	Deliver func(*Result)

	// Deadline is the wall-clock budget for the whole run.
	Deadline time.Duration

	// SyncTimeout bounds a single background sync exchange.
	SyncTimeout time.Duration

	// MaxSyncRetries caps sync retries on missing keys. Zero means
	// bounded only by the deadline.
	MaxSyncRetries int

	// ShowDecryptedContent is the policy switch for rendering
	// decrypted content. When false, encrypted events take the
	// fallback path.
	ShowDecryptedContent bool

	// DefaultSound is the platform identifier a push rule's literal
	// "default" sound maps to.
	DefaultSound string

	// Clock abstracts timers. If nil, clock.Real() is used.
	Clock clock.Clock

	// Recorder spools the terminal diagnostic record. Optional.
	Recorder *diag.Recorder

	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Pipeline runs one payload to its terminal state. A Pipeline is
// single-use: construct one per payload.
type Pipeline struct {
	config Config
	clock  clock.Clock
	logger *slog.Logger
	guard  *DeadlineGuard

	mu          sync.Mutex
	completed   bool
	result      *Result
	session     Session
	syncRetries int

	payload *Payload
	start   time.Time
	done    chan struct{}
}

// New creates a Pipeline for one run.
func New(config Config) (*Pipeline, error) {
	if config.Provider == nil {
		return nil, fmt.Errorf("pipeline: Provider is required")
	}
	if config.Deliver == nil {
		return nil, fmt.Errorf("pipeline: Deliver is required")
	}
	if config.Deadline <= 0 {
		return nil, fmt.Errorf("pipeline: Deadline must be positive")
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		config: config,
		clock:  clk,
		logger: logger,
		guard:  NewDeadlineGuard(clk),
		done:   make(chan struct{}),
	}, nil
}

// Done is closed when the run reaches its terminal state and delivery
// has happened.
func (p *Pipeline) Done() <-chan struct{} { return p.done }

// Result returns the terminal result, nil before the run completes.
func (p *Pipeline) Result() *Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

// Run drives payload to a terminal state and returns the result that
// won — which is the timeout fallback when the deadline guard beat
// the state machine. Run may return after the deadline result was
// already delivered: in-flight capability calls are not aborted, their
// late results are discarded.
func (p *Pipeline) Run(ctx context.Context, payload *Payload) *Result {
	p.payload = payload
	p.start = p.clock.Now()

	p.guard.Arm(p.config.Deadline, func() {
		p.logger.Warn("deadline expired, delivering fallback")
		p.complete(&Result{Outcome: OutcomeFallback, Reason: ReasonTimeout})
	})

	// Validating.
	if !payload.IsMessaging() {
		p.complete(&Result{Outcome: OutcomePassthrough})
		return p.Result()
	}

	// SessionSetup.
	session, err := p.config.Provider.Setup(ctx)
	if err != nil {
		p.logger.Error("session setup failed", "error", err)
		p.complete(&Result{Outcome: OutcomeFallback, Reason: ReasonSessionSetupFailed})
		return p.Result()
	}
	if !p.adoptSession(session) {
		// Terminal was reached while setup was in flight.
		session.Close()
		return p.Result()
	}

	resolver := NewResolver(session)
	gate := NewGate(session, p.config.ShowDecryptedContent)

	// Resolving / Classifying / SyncRetry loop.
	event, ok := p.resolveAndClassify(ctx, resolver, gate)
	if !ok {
		return p.Result()
	}

	// Rendering.
	content := p.renderEvent(ctx, session, event)
	if content == nil {
		p.complete(&Result{Outcome: OutcomeSuppressed})
		return p.Result()
	}
	if payload.UnreadCount != nil {
		content.UserInfo["unread_count"] = strconv.Itoa(*payload.UnreadCount)
	}
	p.complete(&Result{Outcome: OutcomeDelivered, Content: content})
	return p.Result()
}

// resolveAndClassify runs the resolve/classify/sync-retry loop until
// the event is renderable. A false return means the run has reached
// (or will not escape) a terminal state and the caller must stop.
func (p *Pipeline) resolveAndClassify(ctx context.Context, resolver *Resolver, gate *Gate) (*messaging.ResolvedEvent, bool) {
	for {
		if p.terminal() {
			return nil, false
		}

		event, err := resolver.Resolve(ctx, p.payload.RoomID, p.payload.EventID)
		if err != nil {
			reason := ReasonFetchFailed
			if errors.Is(err, ErrNotFound) {
				reason = ReasonNotFound
			}
			p.logger.Error("event resolution failed", "error", err)
			p.complete(&Result{Outcome: OutcomeFallback, Reason: reason})
			return nil, false
		}

		class, err := gate.Classify(ctx, event)
		if err != nil {
			p.logger.Error("decryption failed", "error", err)
			p.complete(&Result{Outcome: OutcomeFallback, Reason: ReasonDecryptionFatal})
			return nil, false
		}
		p.logger.Debug("event classified", "classification", class.String())

		switch class {
		case ClassSuppressedByPolicy:
			p.complete(&Result{Outcome: OutcomeFallback, Reason: ReasonPolicySuppressed})
			return nil, false

		case ClassNeedsSync:
			retries := p.bumpSyncRetries()
			if p.config.MaxSyncRetries > 0 && retries > p.config.MaxSyncRetries {
				p.logger.Warn("keys still missing after retry budget", "retries", retries-1)
				p.complete(&Result{Outcome: OutcomeFallback, Reason: ReasonDecryptionUnavailable})
				return nil, false
			}
			if err := p.sessionSync(ctx); err != nil {
				p.logger.Error("background sync failed", "error", err)
				p.complete(&Result{Outcome: OutcomeFallback, Reason: ReasonSyncFailed})
				return nil, false
			}
			continue

		default:
			// Plain, AlreadyDecrypted, or Decrypted.
			return event, true
		}
	}
}

// renderEvent assembles the render context and renders. Nil means
// suppress. Room context degrades to empty on failure — a notification
// with a bare sender name beats no notification.
func (p *Pipeline) renderEvent(ctx context.Context, session Session, event *messaging.ResolvedEvent) *render.Content {
	roomCtx := render.Context{Recipient: session.UserID()}

	room, err := session.RoomContext(ctx, event.RoomID)
	if err != nil {
		p.logger.Warn("room context unavailable", "room_id", event.RoomID, "error", err)
	} else if room != nil {
		roomCtx.RoomName = room.DisplayName
		roomCtx.MentionsOnly = room.MentionsOnly
		roomCtx.Rule = room.PushRule
	}

	name, err := session.DisplayName(ctx, event.Sender)
	if err != nil {
		p.logger.Warn("sender display name unavailable", "sender", event.Sender, "error", err)
	}
	if name == "" {
		name = event.Sender.Localpart()
	}
	roomCtx.SenderName = name

	renderer := render.New(render.Config{
		DefaultSound: p.config.DefaultSound,
		Verifier:     session,
		Logger:       p.logger,
	})
	content, err := renderer.Render(ctx, event, roomCtx)
	if err != nil {
		p.logger.Warn("rendering failed, suppressing", "event_id", event.ID, "error", err)
		return nil
	}
	return content
}

// adoptSession stores the session for terminal teardown. Returns false
// when the run already completed — the caller owns the teardown then.
func (p *Pipeline) adoptSession(session Session) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.completed {
		return false
	}
	p.session = session
	return true
}

func (p *Pipeline) bumpSyncRetries() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.syncRetries++
	return p.syncRetries
}

func (p *Pipeline) sessionSync(ctx context.Context) error {
	p.mu.Lock()
	session := p.session
	p.mu.Unlock()
	if session == nil {
		return ErrSessionUnavailable
	}
	return session.BackgroundSync(ctx, p.config.SyncTimeout)
}

func (p *Pipeline) terminal() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

// complete moves the run into its terminal state: first caller wins,
// every later caller is a discarded no-op. The winner disarms the
// guard, tears the session down, records the diagnostic, and invokes
// delivery — the only delivery of the run.
func (p *Pipeline) complete(result *Result) bool {
	p.mu.Lock()
	if p.completed {
		p.mu.Unlock()
		return false
	}
	p.completed = true
	result.SyncRetries = p.syncRetries
	result.Elapsed = p.clock.Now().Sub(p.start)
	p.result = result
	session := p.session
	p.session = nil
	p.mu.Unlock()

	p.guard.Disarm()
	if session != nil {
		if err := session.Close(); err != nil {
			p.logger.Warn("session close failed", "error", err)
		}
	}

	if p.config.Recorder != nil {
		record := diag.Record{
			Time:        p.clock.Now(),
			Outcome:     result.Outcome.String(),
			ElapsedMS:   result.Elapsed.Milliseconds(),
			SyncRetries: result.SyncRetries,
		}
		if result.Reason != ReasonNone {
			record.Reason = result.Reason.String()
		}
		if p.payload != nil && p.payload.IsMessaging() {
			record.RunID = diag.RunID(p.payload.RoomID, p.payload.EventID)
		}
		p.config.Recorder.Record(record)
	}

	p.config.Deliver(result)
	close(p.done)
	return true
}
