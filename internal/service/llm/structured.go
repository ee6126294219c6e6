package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"rove/internal/domain"
	domainllm "rove/internal/domain/services/llm"
)

// Validatable is implemented by every structured output type.
type Validatable interface {
	Validate() error
}

// GenerateStructured calls the provider and decodes the object into T.
// Decoding or validation failures return domain.ErrSchemaViolation; the
// value is never repaired or truncated.
func GenerateStructured[T Validatable](ctx context.Context, provider domainllm.LLMProvider, req *domainllm.StructuredRequest) (T, *domainllm.StructuredResponse, error) {
	var out T

	resp, err := provider.GenerateStructured(ctx, req)
	if err != nil {
		return out, nil, err
	}

	if err := json.Unmarshal(resp.Object, &out); err != nil {
		return out, resp, fmt.Errorf("%w: decode %s: %v", domain.ErrSchemaViolation, req.Schema.Name, err)
	}
	if err := out.Validate(); err != nil {
		return out, resp, fmt.Errorf("%w: %s: %v", domain.ErrSchemaViolation, req.Schema.Name, err)
	}

	return out, resp, nil
}
