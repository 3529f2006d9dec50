package generation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyforge/storyboardbackend/media"
)

// failingProvider always reports itself as available and always errors.
type failingProvider struct{ id string }

func (f *failingProvider) ID() string          { return f.id }
func (f *failingProvider) Name() string        { return "Failing" }
func (f *failingProvider) Available() bool     { return true }
func (f *failingProvider) Models() []ModelInfo { return nil }
func (f *failingProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	return nil, errors.New("upstream exploded")
}

func newTestMock(t *testing.T) *MockProvider {
	t.Helper()
	store, err := media.NewLocalStorage(t.TempDir(), map[media.AssetType]string{
		media.AssetTypeGenerated: "generated",
		media.AssetTypeThumbnail: "thumbnails",
	})
	require.NoError(t, err)
	return NewMockProvider(media.NewProcessor(store), "/api")
}

func TestRegistryResolve(t *testing.T) {
	mock := newTestMock(t)
	failing := &failingProvider{id: "openai"}
	reg := NewRegistry("openai", mock, failing)

	assert.Equal(t, "openai", reg.DefaultID())
	assert.Equal(t, "openai", reg.Resolve("").ID())
	assert.Equal(t, ProviderMock, reg.Resolve("mock").ID())
	// unknown providers fall back to the default
	assert.Equal(t, "openai", reg.Resolve("nope").ID())

	_, err := reg.Get("nope")
	assert.Error(t, err)
}

func TestRegistryDefaultFallsBackToMock(t *testing.T) {
	mock := newTestMock(t)
	reg := NewRegistry("does-not-exist", mock)
	assert.Equal(t, ProviderMock, reg.DefaultID())
}

func TestRegistryList(t *testing.T) {
	mock := newTestMock(t)
	failing := &failingProvider{id: "openai"}
	reg := NewRegistry("mock", mock, failing)

	infos := reg.List()
	require.Len(t, infos, 2)
	byID := map[string]ProviderInfo{}
	for _, info := range infos {
		byID[info.ID] = info
	}
	assert.True(t, byID[ProviderMock].Available)
	assert.True(t, byID[ProviderMock].Default)
	assert.False(t, byID["openai"].Default)
}

func TestGenerateOrMockFallsBack(t *testing.T) {
	mock := newTestMock(t)
	failing := &failingProvider{id: "openai"}
	reg := NewRegistry("mock", mock, failing)

	result, err := reg.GenerateOrMock(context.Background(), "openai", Request{Prompt: "a barn", Count: 1})
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, result.Provider, "failed provider should fall back to mock")
	require.Len(t, result.Images, 1)
	assert.True(t, result.Images[0].Local)
}

func TestMockGenerate(t *testing.T) {
	mock := newTestMock(t)

	result, err := mock.Generate(context.Background(), Request{Prompt: "a barn", Size: "640x480", Count: 2})
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, result.Provider)
	require.Len(t, result.Images, 2)

	for _, img := range result.Images {
		assert.True(t, img.Local)
		assert.True(t, strings.HasPrefix(img.URL, "/api/"), "URL should be served by the asset routes: %s", img.URL)
		assert.Equal(t, 640, img.Width)
		assert.Equal(t, 480, img.Height)
	}
	// distinct placeholders per image
	assert.NotEqual(t, result.Images[0].URL, result.Images[1].URL)
}

func TestMockGenerateWritesFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := media.NewLocalStorage(dir, map[media.AssetType]string{
		media.AssetTypeGenerated: "generated",
	})
	require.NoError(t, err)
	mock := NewMockProvider(media.NewProcessor(store), "/api")

	result, err := mock.Generate(context.Background(), Request{Prompt: "a barn", Count: 1})
	require.NoError(t, err)
	require.Len(t, result.Images, 1)

	rel := strings.TrimPrefix(result.Images[0].URL, "/api/")
	_, statErr := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	assert.NoError(t, statErr, "placeholder file should exist in the store")
}

func TestMockRequiresPrompt(t *testing.T) {
	mock := newTestMock(t)
	_, err := mock.Generate(context.Background(), Request{})
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	w, h := parseSize("1024x768")
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)

	w, h = parseSize("")
	assert.Zero(t, w)
	assert.Zero(t, h)

	w, h = parseSize("axb")
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestClampCount(t *testing.T) {
	assert.Equal(t, 1, clampCount(0, 4))
	assert.Equal(t, 1, clampCount(-3, 4))
	assert.Equal(t, 3, clampCount(3, 4))
	assert.Equal(t, 4, clampCount(9, 4))
}
