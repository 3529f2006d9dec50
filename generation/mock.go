package generation

import (
	"context"
	"fmt"

	"github.com/storyforge/storyboardbackend/media"
)

const mockMaxImages = 4

// MockProvider renders deterministic flat-color placeholder PNGs through
// the media processor. It needs no credentials and is always available,
// which also makes it the fallback target for real provider failures.
type MockProvider struct {
	proc    *media.Processor
	urlBase string // route prefix the asset server mounts the store under, e.g. "/api"
}

func NewMockProvider(proc *media.Processor, urlBase string) *MockProvider {
	return &MockProvider{proc: proc, urlBase: urlBase}
}

func (m *MockProvider) ID() string   { return ProviderMock }
func (m *MockProvider) Name() string { return "Placeholder (mock)" }

func (m *MockProvider) Available() bool { return true }

func (m *MockProvider) Models() []ModelInfo {
	return []ModelInfo{
		{
			ID:        "placeholder",
			Label:     "Flat-color placeholder",
			MaxImages: mockMaxImages,
		},
	}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	width, height := parseSize(req.Size)
	if width == 0 {
		width, height = 1024, 1024
	}
	count := clampCount(req.Count, mockMaxImages)

	result := &Result{Provider: ProviderMock, Model: "placeholder"}
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// vary the seed so multi-image requests get distinct colors
		relPath, err := m.proc.RenderPlaceholder(fmt.Sprintf("%s#%d", req.Prompt, i), width, height)
		if err != nil {
			return nil, fmt.Errorf("failed to render placeholder: %w", err)
		}
		result.Images = append(result.Images, GeneratedImage{
			URL:    m.urlBase + "/" + relPath,
			Local:  true,
			Width:  width,
			Height: height,
		})
	}
	return result, nil
}
