package domain

import "sync"

// RuntimeConfig tracks which backends and gateways are available at runtime.
// Thread-safe for concurrent access.
type RuntimeConfig struct {
	mu sync.RWMutex

	// Static (set at startup, read-only)
	StorageBackend string // "memory", "redis" or "postgres"

	// Dynamic capability flags (updated when gateways change)
	embeddingAvailable  bool
	completionAvailable bool
}

// NewRuntimeConfig creates a new RuntimeConfig with initial values
func NewRuntimeConfig(storageBackend string) *RuntimeConfig {
	return &RuntimeConfig{
		StorageBackend: storageBackend,
	}
}

// EmbeddingAvailable returns whether an embedding gateway is configured
func (c *RuntimeConfig) EmbeddingAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.embeddingAvailable
}

// CompletionAvailable returns whether a completion gateway is configured
func (c *RuntimeConfig) CompletionAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.completionAvailable
}

// SetEmbeddingAvailable updates the embedding availability flag
func (c *RuntimeConfig) SetEmbeddingAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embeddingAvailable = available
}

// SetCompletionAvailable updates the completion availability flag
func (c *RuntimeConfig) SetCompletionAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completionAvailable = available
}

// CanProcess returns true if documents can be embedded into the index
func (c *RuntimeConfig) CanProcess() bool {
	return c.EmbeddingAvailable()
}

// CanAnswer returns true if the full retrieval path can run
func (c *RuntimeConfig) CanAnswer() bool {
	return c.EmbeddingAvailable() && c.CompletionAvailable()
}
