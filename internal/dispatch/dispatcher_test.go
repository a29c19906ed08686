package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ppiankov/claimcheck/internal/model"
)

func newTestDispatcher(t *testing.T, fallback model.Framework) *Dispatcher {
	t.Helper()
	d, err := New(fallback, zaptest.NewLogger(t))
	require.NoError(t, err)
	return d
}

func TestAnalyzeClaim_Pluralistic(t *testing.T) {
	d := newTestDispatcher(t, model.FrameworkPluralistic)

	res, err := d.Call(context.Background(), OpAnalyzeClaim, map[string]any{
		"text":      "Research shows meditation helps balance stress",
		"framework": "pluralistic",
	})
	require.NoError(t, err)

	payload, ok := res.Payload.(model.ClaimAnalysis)
	require.True(t, ok, "expected ClaimAnalysis payload, got %T", res.Payload)

	assert.Equal(t, model.FrameworkPluralistic, payload.Framework)
	assert.Equal(t, model.ConfidenceHigh, payload.Validation.Confidence)
	assert.Len(t, payload.Suggestions, 6)
	assert.Len(t, payload.CrossRefPrompts, 14)
	assert.NotEmpty(t, res.RequestID)

	assert.True(t, strings.HasPrefix(res.Text, "Analysis using pluralistic framework:\n\nRequirements:\n"))
	assert.Contains(t, res.Text, "\n\nConfidence level: high\n\n")
	assert.Contains(t, res.Text, "Suggested cross-references:\n- Use Exa MCP server")
}

func TestAnalyzeClaim_Empirical(t *testing.T) {
	d := newTestDispatcher(t, model.FrameworkPluralistic)

	res, err := d.Call(context.Background(), OpAnalyzeClaim, map[string]any{
		"text":      "Vitamin C prevents colds",
		"framework": "empirical",
	})
	require.NoError(t, err)

	payload := res.Payload.(model.ClaimAnalysis)
	assert.Equal(t, model.FrameworkEmpirical, res.Framework)
	assert.Equal(t, model.ConfidenceLow, payload.Validation.Confidence)
	assert.Len(t, payload.Suggestions, 5)
	assert.Len(t, payload.CrossRefPrompts, 8)
	assert.Contains(t, payload.CrossRefPrompts[5], "Compare methodologies")
}

func TestFrameworkResolution(t *testing.T) {
	d := newTestDispatcher(t, model.FrameworkHarmonic)

	tests := []struct {
		desc     string
		args     map[string]any
		expected model.Framework
	}{
		{"omitted uses default", map[string]any{"text": "x"}, model.FrameworkHarmonic},
		{"unknown name uses default", map[string]any{"text": "x", "framework": "mystical"}, model.FrameworkHarmonic},
		{"non-string uses default", map[string]any{"text": "x", "framework": 42.0}, model.FrameworkHarmonic},
		{"explicit wins", map[string]any{"text": "x", "framework": "responsible"}, model.FrameworkResponsible},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			res, err := d.Call(context.Background(), OpAnalyzeClaim, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.Framework)
		})
	}
}

func TestNew_InvalidDefaultFallsBack(t *testing.T) {
	d := newTestDispatcher(t, "bogus")
	assert.Equal(t, model.FrameworkPluralistic, d.DefaultFramework())
}

func TestValidateSources(t *testing.T) {
	d := newTestDispatcher(t, model.FrameworkPluralistic)

	res, err := d.Call(context.Background(), OpValidateSources, map[string]any{
		"text": "A study by Dr. Lee, according to recent reports, shows X",
	})
	require.NoError(t, err)

	payload := res.Payload.(model.SourceValidation)
	assert.Len(t, payload.Sources, 2)
	assert.Len(t, payload.ValidationPrompts, 2*14)
	assert.Contains(t, res.Text, "Source validation using pluralistic framework:")
	assert.Contains(t, res.Text, "Found 2 sources to validate.")

	res, err = d.Call(context.Background(), OpValidateSources, map[string]any{
		"text":      "Experts disagree",
		"framework": "responsible",
	})
	require.NoError(t, err)
	assert.Len(t, res.Payload.(model.SourceValidation).ValidationPrompts, 8)
}

func TestValidateSources_NoneFound(t *testing.T) {
	d := newTestDispatcher(t, model.FrameworkPluralistic)

	res, err := d.Call(context.Background(), OpValidateSources, map[string]any{"text": "Plain words only"})
	require.NoError(t, err)

	assert.Contains(t, res.Text, "Found 0 sources to validate.")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(res.Structured, &decoded))
	assert.Equal(t, []any{}, decoded["sources"])
	assert.Equal(t, []any{}, decoded["validationPrompts"])
}

func TestCheckManipulation(t *testing.T) {
	d := newTestDispatcher(t, model.FrameworkPluralistic)

	res, err := d.Call(context.Background(), OpCheckManipulation, map[string]any{
		"text": "Act now — limited time, exclusive offer, before it's too late!",
	})
	require.NoError(t, err)

	payload := res.Payload.(model.ManipulationCheck)
	assert.Equal(t, []model.ManipulationPattern{model.PatternEmotional, model.PatternScarcity}, payload.DetectedPatterns)
	assert.Len(t, payload.ValidationPrompts, 11)
	assert.Contains(t, res.Text, "Detected patterns: emotional, scarcity\n\n")
	assert.Empty(t, res.Framework)
}

func TestCheckManipulation_None(t *testing.T) {
	d := newTestDispatcher(t, model.FrameworkPluralistic)

	res, err := d.Call(context.Background(), OpCheckManipulation, map[string]any{
		"text":      "The library opens at nine.",
		"framework": "empirical",
	})
	require.NoError(t, err)

	payload := res.Payload.(model.ManipulationCheck)
	assert.Empty(t, payload.DetectedPatterns)
	assert.Len(t, payload.ValidationPrompts, 5)
	assert.Contains(t, res.Text, "Detected patterns: None\n\n")
}

func TestStructuredMatchesPayload(t *testing.T) {
	d := newTestDispatcher(t, model.FrameworkPluralistic)

	res, err := d.Call(context.Background(), OpAnalyzeClaim, map[string]any{"text": `Data <proves> "this"`})
	require.NoError(t, err)

	var decoded model.ClaimAnalysis
	require.NoError(t, json.Unmarshal(res.Structured, &decoded))
	assert.Equal(t, res.Payload, decoded)
	assert.Contains(t, string(res.Structured), "<proves>")
	assert.Contains(t, string(res.Structured), `"crossRefPrompts":[`)
}

func TestInvalidArguments(t *testing.T) {
	d := newTestDispatcher(t, model.FrameworkPluralistic)

	cases := []struct {
		desc string
		args map[string]any
	}{
		{"nil arguments", nil},
		{"missing text", map[string]any{"framework": "empirical"}},
		{"numeric text", map[string]any{"text": 42}},
		{"null text", map[string]any{"text": nil}},
		{"list text", map[string]any{"text": []string{"a"}}},
		{"unencodable value", map[string]any{"text": make(chan int)}},
	}

	for _, name := range []string{OpAnalyzeClaim, OpValidateSources, OpCheckManipulation, "no_such_tool"} {
		for _, tc := range cases {
			t.Run(name+"/"+tc.desc, func(t *testing.T) {
				res, err := d.Call(context.Background(), name, tc.args)
				require.Error(t, err)
				assert.Nil(t, res)
				assert.True(t, IsInvalidArgument(err), "expected invalid argument, got %v", err)
				assert.Equal(t, "Text parameter is required and must be a string", err.Error())
			})
		}
	}
}

func TestInvalidArguments_OnlyTextIsValidated(t *testing.T) {
	d := newTestDispatcher(t, model.FrameworkPluralistic)

	res, err := d.Call(context.Background(), OpCheckManipulation, map[string]any{
		"text":  "ok",
		"extra": math.NaN(),
	})
	require.NoError(t, err)
	assert.Equal(t, OpCheckManipulation, res.Operation)
}

func TestCall_TextPassedVerbatim(t *testing.T) {
	d := newTestDispatcher(t, model.FrameworkEmpirical)

	text := "bad \xff utf8 study"
	res, err := d.Call(context.Background(), OpAnalyzeClaim, map[string]any{"text": text})
	require.NoError(t, err)

	payload := res.Payload.(model.ClaimAnalysis)
	assert.Contains(t, payload.Suggestions[0], text)
	assert.Equal(t, model.ConfidenceHigh, payload.Validation.Confidence)
}

func TestCheck(t *testing.T) {
	d := newTestDispatcher(t, model.FrameworkPluralistic)

	tests := []struct {
		desc    string
		name    string
		args    map[string]any
		code    Code
		message string
	}{
		{"valid", OpAnalyzeClaim, map[string]any{"text": "x"}, 0, ""},
		{"missing text", OpAnalyzeClaim, map[string]any{}, CodeInvalidArgument, "Text parameter is required and must be a string"},
		{"unknown name", "summarize", map[string]any{"text": "x"}, CodeMethodNotFound, "Unknown tool: summarize"},
		{"unknown name and missing text", "summarize", map[string]any{}, CodeInvalidArgument, "Text parameter is required and must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			err := d.Check(tt.name, tt.args)
			if tt.code == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.code, CodeOf(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestUnknownOperation(t *testing.T) {
	d := newTestDispatcher(t, model.FrameworkPluralistic)

	res, err := d.Call(context.Background(), "fact_check", map[string]any{"text": "anything"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, IsMethodNotFound(err))
	assert.Equal(t, CodeMethodNotFound, CodeOf(err))
	assert.Equal(t, "Unknown tool: fact_check", err.Error())
}

func TestInternalErrorWrapping(t *testing.T) {
	d := newTestDispatcher(t, model.FrameworkPluralistic)

	cause := errors.New("detector exploded")
	d.handlers["failing"] = func(request) (*Result, error) { return nil, cause }
	d.handlers["panicking"] = func(request) (*Result, error) { panic("index out of range") }
	d.handlers["rejecting"] = func(request) (*Result, error) { return nil, InvalidArgument("bad framework") }

	_, err := d.Call(context.Background(), "failing", map[string]any{"text": "x"})
	require.Error(t, err)
	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Equal(t, "Error analyzing text: detector exploded", err.Error())
	assert.ErrorIs(t, err, cause)

	_, err = d.Call(context.Background(), "panicking", map[string]any{"text": "x"})
	require.Error(t, err)
	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Equal(t, "Error analyzing text: index out of range", err.Error())

	_, err = d.Call(context.Background(), "rejecting", map[string]any{"text": "x"})
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err), "typed errors must pass through unwrapped")
	assert.Equal(t, "bad framework", err.Error())
}

func TestCall_ConcurrentUse(t *testing.T) {
	d := newTestDispatcher(t, model.FrameworkPluralistic)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, f := range model.Frameworks() {
				res, err := d.Call(context.Background(), OpAnalyzeClaim, map[string]any{"text": "study", "framework": string(f)})
				if assert.NoError(t, err) {
					assert.Equal(t, f, res.Framework)
				}
			}
		}()
	}
	wg.Wait()
}
