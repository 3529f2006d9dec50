package generation

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const openaiModelDallE3 = "dall-e-3"

// OpenAIProvider generates images with DALL-E 3 through the official SDK.
// DALL-E 3 only returns one image per call regardless of the requested
// count.
type OpenAIProvider struct {
	apiKey string
	client openai.Client
}

func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	p := &OpenAIProvider{apiKey: apiKey}
	if apiKey != "" {
		p.client = openai.NewClient(option.WithAPIKey(apiKey))
	}
	return p
}

func (o *OpenAIProvider) ID() string   { return ProviderOpenAI }
func (o *OpenAIProvider) Name() string { return "OpenAI DALL-E 3" }

func (o *OpenAIProvider) Available() bool { return o.apiKey != "" }

func (o *OpenAIProvider) Models() []ModelInfo {
	return []ModelInfo{
		{
			ID:        openaiModelDallE3,
			Label:     "DALL-E 3",
			Sizes:     []string{"1024x1024", "1792x1024", "1024x1792"},
			MaxImages: 1,
		},
	}
}

func (o *OpenAIProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	if !o.Available() {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	if req.Prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	size := openaiSize(req.Size)

	resp, err := o.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         req.Prompt,
		Model:          openai.ImageModelDallE3,
		N:              openai.Int(1),
		Size:           size,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI image generation failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("OpenAI returned no images")
	}

	width, height := parseSize(string(size))
	result := &Result{Provider: ProviderOpenAI, Model: openaiModelDallE3}
	for _, img := range resp.Data {
		if img.URL == "" {
			continue
		}
		result.Images = append(result.Images, GeneratedImage{
			URL:    img.URL,
			Width:  width,
			Height: height,
		})
	}
	if len(result.Images) == 0 {
		return nil, fmt.Errorf("OpenAI returned no usable image URLs")
	}
	return result, nil
}

// openaiSize maps a generic WxH size onto the fixed set DALL-E 3 accepts,
// defaulting to square.
func openaiSize(size string) openai.ImageGenerateParamsSize {
	switch size {
	case "1792x1024":
		return openai.ImageGenerateParamsSize1792x1024
	case "1024x1792":
		return openai.ImageGenerateParamsSize1024x1792
	default:
		return openai.ImageGenerateParamsSize1024x1024
	}
}
