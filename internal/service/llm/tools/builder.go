package tools

// ToolRegistryBuilder provides a fluent API for building tool registries.
type ToolRegistryBuilder struct {
	registry *ToolRegistry
	config   *ToolConfig
}

// NewToolRegistryBuilder creates a new builder with a fresh registry.
func NewToolRegistryBuilder() *ToolRegistryBuilder {
	return &ToolRegistryBuilder{
		registry: NewToolRegistry(),
		config:   DefaultToolConfig(),
	}
}

// WithConfig sets custom tool configuration.
func (b *ToolRegistryBuilder) WithConfig(config *ToolConfig) *ToolRegistryBuilder {
	if config != nil {
		b.config = config
	}
	return b
}

// WithSearchTools registers the five search intents as tools. A nil
// searcher registers nothing.
func (b *ToolRegistryBuilder) WithSearchTools(searcher Searcher) *ToolRegistryBuilder {
	if searcher == nil {
		return b
	}
	b.registry.Register(&destinationOverviewTool{searcher: searcher, config: b.config})
	b.registry.Register(&currentConditionsTool{searcher: searcher, config: b.config})
	b.registry.Register(&pricingTool{searcher: searcher, config: b.config})
	b.registry.Register(&factCheckTool{searcher: searcher, config: b.config})
	b.registry.Register(&comprehensiveInterestsTool{searcher: searcher, config: b.config})
	return b
}

// Build returns the constructed tool registry.
func (b *ToolRegistryBuilder) Build() *ToolRegistry {
	return b.registry
}
