// Package handler serves one poller request string against a registry.
package handler

import (
	"errors"
	"time"

	"github.com/systmms/lcdrotator/internal/logging"
	"github.com/systmms/lcdrotator/internal/metrics"
	"github.com/systmms/lcdrotator/internal/request"
	"github.com/systmms/lcdrotator/pkg/rotator"
)

// Handler is the entry point every transport calls with a raw request
type Handler struct {
	registry *rotator.Registry
	logger   *logging.Logger
	metrics  *metrics.Recorder
	secrets  []string
}

// New creates a handler serving reg. The registry's rotation hook is wired
// to m, so New should be called before reg serves any request. m may be nil.
func New(reg *rotator.Registry, logger *logging.Logger, m *metrics.Recorder) *Handler {
	reg.OnRotate(func(name, _ string) {
		m.RecordRotation(name)
	})
	return &Handler{
		registry: reg,
		logger:   logger,
		metrics:  m,
	}
}

// Registry returns the registry the handler serves
func (h *Handler) Registry() *rotator.Registry {
	return h.registry
}

// RedactValues hides the given values in debug output and in snapshots
func (h *Handler) RedactValues(secrets []string) {
	h.secrets = secrets
}

// Snapshots returns the state of every rotator, sorted by name, with
// redacted values masked
func (h *Handler) Snapshots() []rotator.State {
	states := make([]rotator.State, 0, h.registry.Len())
	for _, name := range h.registry.Names() {
		if rot, ok := h.registry.Lookup(name); ok {
			states = append(states, rot.Snapshot().Redacted(h.secrets))
		}
	}
	return states
}

// Handle parses input, resolves the named rotator, initializes it on first
// use and returns the string for the requested kind. Unsupported kinds
// return an empty string and a nil error. Every other failure is returned
// unchanged.
func (h *Handler) Handle(input string) (string, error) {
	start := time.Now()

	req, err := request.Parse(input)
	if err != nil {
		if h.logger.DebugEnabled() {
			h.logger.Debug("rejected request %q: %v", h.redact(input), h.redactErr(err))
		}
		h.metrics.RecordRequest("", "", metrics.ResultParseError, time.Since(start).Seconds())
		return "", err
	}

	rot := h.registry.GetOrCreate(req.Name)
	fresh := !rot.Initialized()
	rot.Initialize(req.Name, req.Keys, req.Values)
	if fresh && rot.Initialized() {
		h.logger.Debug("initialized rotator %q from request", req.Name)
	}

	out, err := rot.Request(req.Kind)

	result := classify(req.Kind, err)
	h.metrics.RecordRequest(req.Name, kindLabel(req.Kind), result, time.Since(start).Seconds())
	h.metrics.SetRotators(h.registry.Len())

	if !h.logger.DebugEnabled() {
		return out, err
	}
	if err != nil {
		h.logger.Debug("request %q failed: %v", h.redact(req.String()), h.redactErr(err))
		return "", err
	}
	h.logger.Debug("%s -> %q", h.redact(req.String()), h.redact(out))
	return out, nil
}

func (h *Handler) redact(s string) string {
	return logging.Redact(s, h.secrets)
}

func (h *Handler) redactErr(err error) string {
	return h.redact(err.Error())
}

// kindLabel bounds the kind label to the supported kinds plus one bucket
func kindLabel(kind rotator.Kind) string {
	if !kind.Supported() {
		return metrics.KindOther
	}
	return kind.String()
}

func classify(kind rotator.Kind, err error) string {
	switch {
	case err == nil && !kind.Supported():
		return metrics.ResultNoop
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, rotator.ErrLookup):
		return metrics.ResultLookupError
	case errors.Is(err, rotator.ErrExhausted):
		return metrics.ResultExhausted
	default:
		return metrics.ResultError
	}
}
