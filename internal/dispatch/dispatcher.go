// Package dispatch validates tool calls, runs the detectors and the rubric table,
// and assembles the dual-format results (human-readable report plus JSON payload).
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/crossref"
	"github.com/ppiankov/claimcheck/internal/extract"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/rubric"
)

// Result is the complete outcome of one operation
type Result struct {
	RequestID  string
	Operation  string
	Framework  model.Framework // Empty for check_manipulation
	Text       string          // Human-readable report
	Payload    any             // One of the model payload structs
	Structured json.RawMessage // Payload encoded as JSON
}

type handlerFunc func(req request) (*Result, error)

// Dispatcher routes tool calls by name. It holds no mutable state and is safe for
// concurrent use.
type Dispatcher struct {
	defaultFramework model.Framework
	rubrics          *rubric.Table
	evidence         *extract.EvidenceDetector
	sources          *extract.SourceExtractor
	manipulation     *extract.ManipulationDetector
	args             *argValidator
	handlers         map[string]handlerFunc
	logger           *zap.Logger
}

// New creates a dispatcher. An unrecognized defaultFramework falls back to pluralistic.
func New(defaultFramework model.Framework, logger *zap.Logger) (*Dispatcher, error) {
	args, err := newArgValidator()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Dispatcher{
		defaultFramework: model.FrameworkOrDefault(string(defaultFramework)),
		rubrics:          rubric.NewTable(),
		evidence:         extract.NewEvidenceDetector(),
		sources:          extract.NewSourceExtractor(),
		manipulation:     extract.NewManipulationDetector(),
		args:             args,
		logger:           logger,
	}

	d.handlers = map[string]handlerFunc{
		OpAnalyzeClaim:      d.analyzeClaim,
		OpValidateSources:   d.validateSources,
		OpCheckManipulation: d.checkManipulation,
	}

	return d, nil
}

// DefaultFramework returns the framework used when a request omits one
func (d *Dispatcher) DefaultFramework() model.Framework {
	return d.defaultFramework
}

// Check runs the argument validation and name lookup of Call without running the
// operation. Transports use it to report InvalidArgument and MethodNotFound with
// their own codes.
func (d *Dispatcher) Check(name string, args map[string]any) error {
	_, _, err := d.resolve(name, args)
	return err
}

// resolve validates args first, so malformed arguments are reported as
// InvalidArgument whatever the name, then looks the operation up.
func (d *Dispatcher) resolve(name string, args map[string]any) (request, handlerFunc, error) {
	req, err := d.args.parse(args, d.defaultFramework)
	if err != nil {
		return request{}, nil, err
	}

	handler, ok := d.handlers[name]
	if !ok {
		return request{}, nil, MethodNotFound(name)
	}
	return req, handler, nil
}

// Call runs the named operation. Argument and name errors are reported as by
// Check, before any detector runs. Anything else that fails is wrapped as an
// internal error.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (res *Result, err error) {
	req, handler, err := d.resolve(name, args)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res, err = nil, Internal(fmt.Errorf("%v", r))
		}

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("operation", name),
			zap.Int("text_len", len(req.Text)),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			d.logger.Warn("tool call failed", append(fields, zap.Error(err))...)
			return
		}
		if res.Framework != "" {
			fields = append(fields, zap.String("framework", string(res.Framework)))
		}
		d.logger.Debug("tool call completed", fields...)
	}()

	res, err = handler(req)
	if err != nil {
		var de *Error
		if !errors.As(err, &de) {
			err = Internal(err)
		}
		return nil, err
	}

	res.RequestID = requestID
	return res, nil
}

func (d *Dispatcher) analyzeClaim(req request) (*Result, error) {
	flags := d.evidence.Detect(req.Text)

	validation, err := d.rubrics.Validate(req.Framework, flags)
	if err != nil {
		return nil, fmt.Errorf("validate claim: %w", err)
	}

	suggestions, err := d.rubrics.Suggestions(req.Text, req.Framework)
	if err != nil {
		return nil, fmt.Errorf("build suggestions: %w", err)
	}

	payload := model.ClaimAnalysis{
		Framework:       req.Framework,
		Validation:      validation,
		Suggestions:     suggestions,
		CrossRefPrompts: crossref.ForClaim(req.Text, req.Framework),
	}

	structured, err := encodePayload(payload, false)
	if err != nil {
		return nil, err
	}

	return &Result{
		Operation:  OpAnalyzeClaim,
		Framework:  req.Framework,
		Text:       renderClaimAnalysis(payload),
		Payload:    payload,
		Structured: structured,
	}, nil
}

func (d *Dispatcher) validateSources(req request) (*Result, error) {
	sources := d.sources.Extract(req.Text)

	payload := model.SourceValidation{
		Framework:         req.Framework,
		Sources:           sources,
		ValidationPrompts: crossref.ForSources(sources, req.Framework),
	}

	structured, err := encodePayload(payload, true)
	if err != nil {
		return nil, err
	}

	return &Result{
		Operation:  OpValidateSources,
		Framework:  req.Framework,
		Text:       renderSourceValidation(payload),
		Payload:    payload,
		Structured: structured,
	}, nil
}

func (d *Dispatcher) checkManipulation(req request) (*Result, error) {
	detected := d.manipulation.Detect(req.Text)

	payload := model.ManipulationCheck{
		DetectedPatterns:  detected,
		ValidationPrompts: crossref.ForManipulation(req.Text, detected),
	}

	structured, err := encodePayload(payload, true)
	if err != nil {
		return nil, err
	}

	return &Result{
		Operation:  OpCheckManipulation,
		Text:       renderManipulationCheck(payload),
		Payload:    payload,
		Structured: structured,
	}, nil
}
