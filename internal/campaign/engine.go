package campaign

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kessler0712/ColdMailer/internal/transport"
	"github.com/Kessler0712/ColdMailer/pkg/metrics"
)

// Gateway transmits one composed message. The SMTP implementation lives
// in internal/transport; tests substitute fakes.
type Gateway interface {
	Send(ctx context.Context, subject, body, rcpt string) error
}

// EventPublisher receives one JSON event per recipient outcome plus a
// summary event. Nil disables event publishing.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body []byte) error
}

// Dispatcher drives a campaign: render, throttle, send, record. It is
// deliberately sequential; concurrent sends would defeat the limiter's
// wall-clock guarantee.
type Dispatcher struct {
	Gateway  Gateway
	Limiter  *Limiter
	Renderer Renderer
	Log      *zap.SugaredLogger
	Events   EventPublisher

	// Wait and Now are injection points so tests run without real
	// sleeping or wall-clock reads.
	Wait func(ctx context.Context, d time.Duration) error
	Now  func() time.Time

	mu  sync.Mutex
	cur Summary
}

func NewDispatcher(gw Gateway, lim *Limiter, r Renderer, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		Gateway:  gw,
		Limiter:  lim,
		Renderer: r,
		Log:      log,
		Wait:     sleepWait,
		Now:      time.Now,
	}
}

// Run processes every recipient in list order and returns the finalized
// summary. One bad record never aborts the campaign; cancellation is
// honored between recipients and returns the partial summary together
// with the context error.
func (d *Dispatcher) Run(ctx context.Context, tpl Template, recipients []Record, policy Policy, mode Mode) (Summary, error) {
	runID := uuid.NewString()
	d.reset(runID, d.Now())

	d.Log.Infow("campaign_start",
		"run_id", runID,
		"recipients", len(recipients),
		"mode", string(mode),
	)

	var runErr error
	for i, rec := range recipients {
		if err := ctx.Err(); err != nil {
			d.Log.Warnw("campaign_interrupted", "run_id", runID, "processed", i, "total", len(recipients))
			runErr = err
			break
		}

		email := rec.Email()
		d.Log.Infow("processing_recipient",
			"run_id", runID, "n", i+1, "total", len(recipients), "email", email,
		)

		if email == "" {
			d.fail(runID, email, "template error: record has no email field", "")
			continue
		}

		subject, body, err := d.Renderer.Render(tpl, rec)
		if err != nil {
			d.fail(runID, email, "template error: "+err.Error(), "")
			continue
		}

		delay := d.Limiter.DelayBeforeNextSend(d.Now())
		if delay > 0 {
			d.Log.Infow("rate_limit_wait", "run_id", runID, "email", email, "delay", delay.String())
			metrics.RateLimitWaitSeconds.Add(delay.Seconds())
			if err := d.Wait(ctx, delay); err != nil {
				d.Log.Warnw("campaign_interrupted", "run_id", runID, "processed", i, "total", len(recipients))
				runErr = err
				break
			}
		}

		if mode == DryRun {
			d.Log.Infow("dry_run_skip", "run_id", runID, "email", email, "subject", subject)
			if policy.DryRunConsumesQuota {
				d.Limiter.RecordSend(d.Now())
			}
			metrics.EmailsSkipped.Inc()
			d.record(runID, Outcome{Email: email, Kind: OutcomeSkipped, Reason: "dry run", At: d.Now()})
			continue
		}

		sendStart := d.Now()
		err = d.Gateway.Send(ctx, subject, body, email)
		metrics.SendDuration.Observe(d.Now().Sub(sendStart).Seconds())
		if err != nil {
			kind := transport.KindUnknown
			var terr *transport.Error
			if errors.As(err, &terr) {
				kind = terr.Kind
			}
			d.fail(runID, email, err.Error(), string(kind))
			continue
		}

		d.Limiter.RecordSend(d.Now())
		metrics.EmailsSent.Inc()
		d.Log.Infow("send_success", "run_id", runID, "email", email)
		d.record(runID, Outcome{Email: email, Kind: OutcomeSent, At: d.Now()})
	}

	sum := d.finalize(d.Now())
	d.Log.Infow("campaign_done",
		"run_id", runID,
		"attempted", sum.Attempted,
		"sent", sum.Sent,
		"failed", sum.Failed,
		"skipped", sum.Skipped,
	)
	d.publishSummary(sum)
	return sum, runErr
}

// Progress returns a point-in-time copy of the running summary for the
// status server.
func (d *Dispatcher) Progress() Summary {
	d.mu.Lock()
	defer d.mu.Unlock()
	sum := d.cur
	sum.Outcomes = append([]Outcome(nil), d.cur.Outcomes...)
	return sum
}

func (d *Dispatcher) fail(runID, email, reason, errKind string) {
	// Auth and connection failures usually mean the whole campaign is
	// in trouble, so they surface at error level even though the loop
	// continues.
	switch transport.Kind(errKind) {
	case transport.KindAuth, transport.KindConnection:
		d.Log.Errorw("send_failed", "run_id", runID, "email", email, "kind", errKind, "reason", reason)
	default:
		d.Log.Warnw("send_failed", "run_id", runID, "email", email, "kind", errKind, "reason", reason)
	}

	label := errKind
	if label == "" {
		label = "template"
	}
	metrics.EmailsFailed.WithLabelValues(label).Inc()

	d.record(runID, Outcome{
		Email:     email,
		Kind:      OutcomeFailed,
		Reason:    reason,
		ErrorKind: errKind,
		At:        d.Now(),
	})
}

func (d *Dispatcher) record(runID string, o Outcome) {
	d.mu.Lock()
	d.cur.Attempted++
	switch o.Kind {
	case OutcomeSent:
		d.cur.Sent++
	case OutcomeSkipped:
		d.cur.Skipped++
	case OutcomeFailed:
		d.cur.Failed++
	}
	d.cur.Outcomes = append(d.cur.Outcomes, o)
	d.mu.Unlock()

	d.publishOutcome(runID, o)
}

func (d *Dispatcher) reset(runID string, start time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cur = Summary{RunID: runID, StartedAt: start}
}

func (d *Dispatcher) finalize(end time.Time) Summary {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cur.FinishedAt = end
	sum := d.cur
	sum.Outcomes = append([]Outcome(nil), d.cur.Outcomes...)
	return sum
}

type outcomeEvent struct {
	RunID string `json:"run_id"`
	Event string `json:"event"`
	Outcome
}

type summaryEvent struct {
	RunID     string `json:"run_id"`
	Event     string `json:"event"`
	Attempted int    `json:"attempted"`
	Sent      int    `json:"sent"`
	Failed    int    `json:"failed"`
	Skipped   int    `json:"skipped"`
}

func (d *Dispatcher) publishOutcome(runID string, o Outcome) {
	if d.Events == nil {
		return
	}
	payload, err := json.Marshal(outcomeEvent{RunID: runID, Event: "recipient_outcome", Outcome: o})
	if err != nil {
		d.Log.Warnw("event_marshal_error", "run_id", runID, "error", err)
		return
	}
	d.publish(runID, payload)
}

func (d *Dispatcher) publishSummary(sum Summary) {
	if d.Events == nil {
		return
	}
	payload, err := json.Marshal(summaryEvent{
		RunID:     sum.RunID,
		Event:     "campaign_summary",
		Attempted: sum.Attempted,
		Sent:      sum.Sent,
		Failed:    sum.Failed,
		Skipped:   sum.Skipped,
	})
	if err != nil {
		d.Log.Warnw("event_marshal_error", "run_id", sum.RunID, "error", err)
		return
	}
	d.publish(sum.RunID, payload)
}

// publish uses its own context so the summary event still goes out
// after the run context is canceled.
func (d *Dispatcher) publish(runID string, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Events.PublishJSON(ctx, payload); err != nil {
		d.Log.Warnw("event_publish_error", "run_id", runID, "error", err)
	}
}

func sleepWait(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
