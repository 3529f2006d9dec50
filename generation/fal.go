package generation

import (
	"context"
	"fmt"
	"time"

	imrocreq "github.com/imroc/req/v3"
)

const (
	falModelFluxTurbo = "fal-ai/flux/schnell"
	falModelFluxPro   = "fal-ai/flux-pro"

	falDefaultBaseURL = "https://fal.run"
	falMaxImages      = 4
)

type falPayload struct {
	Prompt    string `json:"prompt"`
	ImageSize string `json:"image_size"`
	NumImages int    `json:"num_images"`
}

type falImage struct {
	URL         string `json:"url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ContentType string `json:"content_type"`
}

type falResponse struct {
	Images []falImage `json:"images"`
}

// FALProvider generates images with FLUX models via fal.ai's synchronous
// HTTP endpoint (https://fal.run/<model>).
type FALProvider struct {
	key     string
	baseURL string
	client  *imrocreq.Client
}

func NewFALProvider(key string) *FALProvider {
	return &FALProvider{
		key:     key,
		baseURL: falDefaultBaseURL,
		client:  imrocreq.C().SetTimeout(90 * time.Second),
	}
}

// SetBaseURL overrides the fal.run endpoint, used by tests.
func (f *FALProvider) SetBaseURL(baseURL string) {
	f.baseURL = baseURL
}

func (f *FALProvider) ID() string   { return ProviderFAL }
func (f *FALProvider) Name() string { return "FAL FLUX" }

func (f *FALProvider) Available() bool { return f.key != "" }

func (f *FALProvider) Models() []ModelInfo {
	sizes := []string{"1024x1024", "1024x768", "768x1024", "1280x720", "720x1280"}
	return []ModelInfo{
		{ID: falModelFluxTurbo, Label: "FLUX Turbo", Sizes: sizes, MaxImages: falMaxImages},
		{ID: falModelFluxPro, Label: "FLUX Pro", Sizes: sizes, MaxImages: falMaxImages},
	}
}

func (f *FALProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	if !f.Available() {
		return nil, fmt.Errorf("FAL_KEY environment variable not set")
	}
	if req.Prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	model := req.Model
	if model == "" {
		model = falModelFluxTurbo
	}
	if model != falModelFluxTurbo && model != falModelFluxPro {
		return nil, fmt.Errorf("unknown FAL model %q", model)
	}

	payload := falPayload{
		Prompt:    req.Prompt,
		ImageSize: falImageSize(req.Size),
		NumImages: clampCount(req.Count, falMaxImages),
	}

	var out falResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Key "+f.key).
		SetBody(&payload).
		SetSuccessResult(&out).
		Post(f.baseURL + "/" + model)
	if err != nil {
		return nil, fmt.Errorf("FAL request failed: %w", err)
	}
	if !resp.IsSuccessState() {
		return nil, fmt.Errorf("FAL returned status %d: %s", resp.StatusCode, resp.String())
	}
	if len(out.Images) == 0 {
		return nil, fmt.Errorf("FAL returned no images")
	}

	result := &Result{Provider: ProviderFAL, Model: model}
	for _, img := range out.Images {
		if img.URL == "" {
			continue
		}
		result.Images = append(result.Images, GeneratedImage{
			URL:    img.URL,
			Width:  img.Width,
			Height: img.Height,
		})
	}
	if len(result.Images) == 0 {
		return nil, fmt.Errorf("FAL returned no usable image URLs")
	}
	return result, nil
}

// falImageSize maps a generic WxH size onto fal's named image_size enum.
func falImageSize(size string) string {
	w, h := parseSize(size)
	switch {
	case w == 0 || w == h:
		return "square_hd"
	case w > h && w*9 >= h*16:
		return "landscape_16_9"
	case w > h:
		return "landscape_4_3"
	case h > w && h*9 >= w*16:
		return "portrait_16_9"
	default:
		return "portrait_4_3"
	}
}
