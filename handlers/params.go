package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// parseIDParam reads a numeric URL parameter as an entity ID.
func parseIDParam(r *http.Request, name string) (uint, error) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format", name)
	}
	return uint(id), nil
}
