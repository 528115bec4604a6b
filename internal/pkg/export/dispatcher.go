package export

import (
	"context"
	"fmt"

	"github.com/endorses/pcapview/internal/pkg/filtering"
	"github.com/endorses/pcapview/internal/pkg/logger"
)

// Navigator opens the produced artifact
type Navigator interface {
	Navigate(url string)
}

// Notifier shows messages to the user
type Notifier interface {
	Notify(msg string)
	Error(msg string)
}

type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}

type noopNotifier struct{}

func (noopNotifier) Notify(string) {}
func (noopNotifier) Error(string)  {}

// Config configures a Dispatcher
type Config struct {
	Kind     Kind
	TargetID string

	// Poster sends the request (usually a *Client)
	Poster Poster

	// Control is the button driven by the dispatcher; created with the
	// idle label when nil
	Control *Control

	Navigator Navigator
	Notifier  Notifier
}

// Outcome describes how one export action ended
type Outcome struct {
	Kind         Kind
	TargetID     string
	URL          string
	TotalPackets *int
	RequestID    string
	Err          error
}

// OK returns true if the artifact was produced
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Dispatcher runs the export action of one kind for one analysis target
type Dispatcher struct {
	kind      Kind
	targetID  string
	poster    Poster
	control   *Control
	navigator Navigator
	notifier  Notifier
}

// NewDispatcher creates a dispatcher for a single control
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	if !cfg.Kind.Valid() {
		return nil, fmt.Errorf("unknown export kind: %q", cfg.Kind)
	}
	if cfg.TargetID == "" {
		return nil, fmt.Errorf("target ID is required")
	}
	if cfg.Poster == nil {
		return nil, fmt.Errorf("poster is required")
	}

	d := &Dispatcher{
		kind:      cfg.Kind,
		targetID:  cfg.TargetID,
		poster:    cfg.Poster,
		control:   cfg.Control,
		navigator: cfg.Navigator,
		notifier:  cfg.Notifier,
	}
	if d.control == nil {
		d.control = NewControl(cfg.Kind.IdleLabel())
	}
	if d.navigator == nil {
		d.navigator = noopNavigator{}
	}
	if d.notifier == nil {
		d.notifier = noopNotifier{}
	}
	return d, nil
}

// Kind returns the export kind
func (d *Dispatcher) Kind() Kind {
	return d.kind
}

// Control returns the control driven by the dispatcher
func (d *Dispatcher) Control() *Control {
	return d.control
}

// Trigger starts an export of c. The control is disabled before Trigger
// returns; the returned channel receives the outcome once the control is
// enabled again and the user has been notified.
//
// Returns false, and sends nothing, when the control is already disabled.
func (d *Dispatcher) Trigger(ctx context.Context, c filtering.Criteria) (<-chan Outcome, bool) {
	if !d.control.begin(d.kind.BusyLabel()) {
		logger.Debug("Export control busy, ignoring click", "kind", d.kind)
		return nil, false
	}

	req := Request{Kind: d.kind, TargetID: d.targetID, Criteria: c}
	done := make(chan Outcome, 1)
	go func() {
		done <- d.run(ctx, req)
		close(done)
	}()
	return done, true
}

// Dispatch runs an export of c and waits for it to finish.
// Outcome.Err is ErrBusy when the control is disabled.
func (d *Dispatcher) Dispatch(ctx context.Context, c filtering.Criteria) Outcome {
	done, ok := d.Trigger(ctx, c)
	if !ok {
		return Outcome{Kind: d.kind, TargetID: d.targetID, Err: ErrBusy}
	}
	return <-done
}

func (d *Dispatcher) run(ctx context.Context, req Request) Outcome {
	resp, err := d.poster.Post(ctx, req)
	if err == nil {
		err = checkResponse(req.Kind, resp)
	}

	// The control comes back before anything else happens
	d.control.Enable(d.kind.IdleLabel())

	out := Outcome{Kind: req.Kind, TargetID: req.TargetID, Err: err}
	if resp != nil {
		out.RequestID = resp.RequestID
		out.TotalPackets = resp.TotalPackets
	}

	if err == nil {
		out.URL = resp.ArtifactURL(req.Kind)
		if req.Kind == KindCSV && resp.TotalPackets != nil {
			d.notifier.Notify(ExportedMessage(*resp.TotalPackets))
		}
		logger.Info("Filtered export ready",
			"kind", req.Kind,
			"target_id", req.TargetID,
			"url", out.URL)
		d.navigator.Navigate(out.URL)
		return out
	}

	switch e := err.(type) {
	case *ApplicationError:
		msg := e.Message
		if msg == "" {
			msg = req.Kind.ApplicationMessage()
		}
		logger.Warn("Filtered export rejected by server",
			"kind", req.Kind,
			"target_id", req.TargetID,
			"request_id", out.RequestID,
			"error", e.Message)
		d.notifier.Error(msg)
	case *MalformedResponseError:
		logger.Warn("Filtered export response incomplete",
			"kind", req.Kind,
			"target_id", req.TargetID,
			"request_id", out.RequestID,
			"missing", e.Field)
		d.notifier.Error(req.Kind.MalformedMessage())
	case *TransportError:
		out.RequestID = e.RequestID
		logger.Error("Filtered export failed",
			"kind", req.Kind,
			"target_id", req.TargetID,
			"request_id", out.RequestID,
			"error", err)
		d.notifier.Error(req.Kind.TransportMessage())
	default:
		logger.Error("Filtered export failed",
			"kind", req.Kind,
			"target_id", req.TargetID,
			"error", err)
		d.notifier.Error(req.Kind.TransportMessage())
	}
	return out
}

// checkResponse rejects answers a Poster reported as successful but that
// carry no artifact to open
func checkResponse(k Kind, resp *Response) error {
	switch {
	case resp == nil:
		return &MalformedResponseError{Kind: k, Field: "response body"}
	case !resp.Success:
		return &ApplicationError{Kind: k, Message: resp.Error}
	case resp.ArtifactURL(k) == "":
		return &MalformedResponseError{Kind: k, Field: k.URLField()}
	}
	return nil
}
