package llm

import (
	"context"
	"log/slog"

	domainllm "rove/internal/domain/services/llm"
	"rove/internal/metrics"
	"rove/internal/retry"
)

// resilientProvider retries transient failures and records call metrics.
type resilientProvider struct {
	inner  domainllm.LLMProvider
	policy retry.Policy
	logger *slog.Logger
}

func newResilientProvider(inner domainllm.LLMProvider, policy retry.Policy, logger *slog.Logger) *resilientProvider {
	return &resilientProvider{inner: inner, policy: policy, logger: logger}
}

func (p *resilientProvider) Name() string                    { return p.inner.Name() }
func (p *resilientProvider) SupportsModel(model string) bool { return p.inner.SupportsModel(model) }

func (p *resilientProvider) GenerateText(ctx context.Context, req *domainllm.TextRequest) (*domainllm.TextResponse, error) {
	var resp *domainllm.TextResponse
	attempt := 0
	err := p.policy.Do(ctx, func() error {
		attempt++
		r, err := p.inner.GenerateText(ctx, req)
		if err != nil {
			p.logger.Warn("model call failed", "provider", p.inner.Name(), "mode", "text", "attempt", attempt, "error", err)
			return err
		}
		resp = r
		return nil
	})

	var in, out int
	if resp != nil {
		in, out = resp.InputTokens, resp.OutputTokens
	}
	p.record("text", err, in, out)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (p *resilientProvider) GenerateStructured(ctx context.Context, req *domainllm.StructuredRequest) (*domainllm.StructuredResponse, error) {
	var resp *domainllm.StructuredResponse
	attempt := 0
	err := p.policy.Do(ctx, func() error {
		attempt++
		r, err := p.inner.GenerateStructured(ctx, req)
		if err != nil {
			p.logger.Warn("model call failed", "provider", p.inner.Name(), "mode", "structured", "schema", req.Schema.Name, "attempt", attempt, "error", err)
			return err
		}
		resp = r
		return nil
	})

	var in, out int
	if resp != nil {
		in, out = resp.InputTokens, resp.OutputTokens
	}
	p.record("structured", err, in, out)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (p *resilientProvider) record(mode string, err error, in, out int) {
	name := p.inner.Name()
	metrics.LLMCalls.WithLabelValues(name, mode, metrics.Outcome(err)).Inc()
	metrics.LLMTokens.WithLabelValues(name, "input").Add(float64(in))
	metrics.LLMTokens.WithLabelValues(name, "output").Add(float64(out))
}
