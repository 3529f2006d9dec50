package generation

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
)

// Provider IDs. The registry is a static table keyed by these.
const (
	ProviderMock   = "mock"
	ProviderOpenAI = "openai"
	ProviderFAL    = "fal"
)

// Request describes one image-generation call.
type Request struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"` // provider-specific, provider default when empty
	Size   string `json:"size,omitempty"`  // "WxH", provider default when empty
	Count  int    `json:"count,omitempty"` // clamped to the model's MaxImages
}

// GeneratedImage is a single produced image. Local is true when URL points
// into our own media store rather than at the provider's CDN.
type GeneratedImage struct {
	URL    string `json:"url"`
	Local  bool   `json:"local"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Result is the outcome of a generation call, including which provider
// actually served it (after any mock fallback).
type Result struct {
	Provider string           `json:"provider"`
	Model    string           `json:"model"`
	Images   []GeneratedImage `json:"images"`
}

// ModelInfo describes one model a provider exposes and its capabilities.
type ModelInfo struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Sizes     []string `json:"sizes,omitempty"`
	MaxImages int      `json:"max_images"`
}

// Provider is an image-generation backend.
type Provider interface {
	ID() string
	Name() string
	// Available reports whether the provider can be used in this process
	// (its API key is configured). Mock is always available.
	Available() bool
	Models() []ModelInfo
	Generate(ctx context.Context, req Request) (*Result, error)
}

// ProviderInfo is the API-facing description of a registered provider.
type ProviderInfo struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Available bool        `json:"available"`
	Default   bool        `json:"default"`
	Models    []ModelInfo `json:"models"`
}

// Registry is the static provider lookup table. All providers are
// constructed once at startup and cached for the process lifetime.
type Registry struct {
	providers map[string]Provider
	order     []string
	mock      Provider
	defaultID string
}

// NewRegistry builds the table from the given providers. mock must be one
// of them. defaultID falls back to mock when it names a provider that is
// missing or unavailable.
func NewRegistry(defaultID string, providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		if _, dup := r.providers[p.ID()]; dup {
			log.Printf("generation: duplicate provider id %q ignored", p.ID())
			continue
		}
		r.providers[p.ID()] = p
		r.order = append(r.order, p.ID())
		if p.ID() == ProviderMock {
			r.mock = p
		}
	}
	if r.mock == nil {
		panic("generation: registry requires a mock provider")
	}
	if _, ok := r.providers[defaultID]; !ok || defaultID == "" {
		defaultID = ProviderMock
	}
	r.defaultID = defaultID
	return r
}

// Get returns the provider with the given id, or an error if unknown.
func (r *Registry) Get(id string) (Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", id)
	}
	return p, nil
}

// DefaultID returns the configured default provider id.
func (r *Registry) DefaultID() string {
	return r.defaultID
}

// Resolve picks the provider for a request: the requested id when known
// and available, otherwise the default, otherwise mock.
func (r *Registry) Resolve(id string) Provider {
	if id != "" {
		if p, ok := r.providers[id]; ok && p.Available() {
			return p
		}
		log.Printf("generation: provider %q unknown or unavailable, using default", id)
	}
	if p, ok := r.providers[r.defaultID]; ok && p.Available() {
		return p
	}
	return r.mock
}

// List returns provider descriptions in registration order.
func (r *Registry) List() []ProviderInfo {
	infos := make([]ProviderInfo, 0, len(r.order))
	for _, id := range r.order {
		p := r.providers[id]
		infos = append(infos, ProviderInfo{
			ID:        p.ID(),
			Name:      p.Name(),
			Available: p.Available(),
			Default:   p.ID() == r.defaultID,
			Models:    p.Models(),
		})
	}
	return infos
}

// GenerateOrMock resolves a provider and runs the request, falling back to
// mock placeholder output when the real provider errors. The returned
// Result records the provider that actually produced the images.
func (r *Registry) GenerateOrMock(ctx context.Context, providerID string, req Request) (*Result, error) {
	p := r.Resolve(providerID)
	res, err := p.Generate(ctx, req)
	if err != nil && p.ID() != ProviderMock {
		log.Printf("generation: provider %s failed (%v), falling back to mock", p.ID(), err)
		return r.mock.Generate(ctx, req)
	}
	return res, err
}

// parseSize splits a "WxH" size string. Returns (0, 0) for empty or
// malformed input so providers can apply their defaults.
func parseSize(size string) (int, int) {
	parts := strings.SplitN(strings.ToLower(size), "x", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0
	}
	return w, h
}

// clampCount bounds a requested image count to [1, max].
func clampCount(count, max int) int {
	if count < 1 {
		return 1
	}
	if count > max {
		return max
	}
	return count
}
