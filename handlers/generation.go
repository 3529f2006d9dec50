package handlers

import (
	"net/http"

	"github.com/storyforge/storyboardbackend/generation"
)

type GenerationHandler struct {
	Registry *generation.Registry
}

// ListProviders reports the registered providers, their models, and
// whether each is usable in this process.
func (gh *GenerationHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gh.Registry.List())
}
