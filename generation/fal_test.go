package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFALGenerate(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload falPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(falResponse{
			Images: []falImage{
				{URL: "https://cdn.example.com/a.png", Width: 1280, Height: 720},
				{URL: "https://cdn.example.com/b.png", Width: 1280, Height: 720},
			},
		})
	}))
	defer srv.Close()

	provider := NewFALProvider("test-key")
	provider.SetBaseURL(srv.URL)

	result, err := provider.Generate(context.Background(), Request{
		Prompt: "a lighthouse in a storm",
		Size:   "1280x720",
		Count:  2,
	})
	require.NoError(t, err)

	assert.Equal(t, "/"+falModelFluxTurbo, gotPath)
	assert.Equal(t, "Key test-key", gotAuth)
	assert.Equal(t, "a lighthouse in a storm", gotPayload.Prompt)
	assert.Equal(t, "landscape_16_9", gotPayload.ImageSize)
	assert.Equal(t, 2, gotPayload.NumImages)

	assert.Equal(t, ProviderFAL, result.Provider)
	assert.Equal(t, falModelFluxTurbo, result.Model)
	require.Len(t, result.Images, 2)
	assert.Equal(t, "https://cdn.example.com/a.png", result.Images[0].URL)
	assert.Equal(t, 1280, result.Images[0].Width)
	assert.False(t, result.Images[0].Local)
}

func TestFALGenerateErrors(t *testing.T) {
	provider := NewFALProvider("")
	_, err := provider.Generate(context.Background(), Request{Prompt: "x"})
	assert.Error(t, err, "missing key must fail")

	provider = NewFALProvider("k")
	_, err = provider.Generate(context.Background(), Request{})
	assert.Error(t, err, "missing prompt must fail")

	_, err = provider.Generate(context.Background(), Request{Prompt: "x", Model: "fal-ai/not-a-model"})
	assert.Error(t, err, "unknown model must fail")
}

func TestFALGenerateUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"quota exceeded"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	provider := NewFALProvider("test-key")
	provider.SetBaseURL(srv.URL)

	_, err := provider.Generate(context.Background(), Request{Prompt: "anything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFALImageSize(t *testing.T) {
	assert.Equal(t, "square_hd", falImageSize(""))
	assert.Equal(t, "square_hd", falImageSize("1024x1024"))
	assert.Equal(t, "landscape_16_9", falImageSize("1280x720"))
	assert.Equal(t, "landscape_4_3", falImageSize("1024x768"))
	assert.Equal(t, "portrait_16_9", falImageSize("720x1280"))
	assert.Equal(t, "portrait_4_3", falImageSize("768x1024"))
}
