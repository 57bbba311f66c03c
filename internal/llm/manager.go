package llm

import (
	"context"
	"fmt"
	"sync"
)

// Manager manages registered providers
type Manager struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

// NewManager creates a new LLM manager
func NewManager() *Manager {
	return &Manager{
		providers: make(map[string]Provider),
	}
}

// RegisterProvider registers a provider
func (m *Manager) RegisterProvider(provider Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[provider.Name()] = provider
}

// GetProvider gets a provider by name
func (m *Manager) GetProvider(name string) (Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	provider, ok := m.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	return provider, nil
}

// ListProviders returns all registered providers
func (m *Manager) ListProviders() []ProviderInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var infos []ProviderInfo
	for name, provider := range m.providers {
		infos = append(infos, ProviderInfo{
			Name:   name,
			Models: provider.Models(),
		})
	}
	return infos
}

// Generate routes a non-streaming completion to the named provider.
func (m *Manager) Generate(ctx context.Context, providerName string, req *Request) (string, error) {
	provider, err := m.GetProvider(providerName)
	if err != nil {
		return "", err
	}
	return provider.Generate(ctx, req)
}

// Stream routes a streaming completion to the named provider.
func (m *Manager) Stream(ctx context.Context, providerName string, req *Request) (<-chan StreamChunk, error) {
	provider, err := m.GetProvider(providerName)
	if err != nil {
		return nil, err
	}
	return provider.Stream(ctx, req)
}

// ProviderInfo contains information about a provider
type ProviderInfo struct {
	Name   string  `json:"name"`
	Models []Model `json:"models"`
}
