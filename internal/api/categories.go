package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"buildmart-gateway/internal/auth"
	"buildmart-gateway/internal/category"
	"buildmart-gateway/internal/logger"
	"buildmart-gateway/internal/upstream"
	"buildmart-gateway/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxRelayBody bounds bodies relayed upstream; category forms may carry images.
const maxRelayBody = 32 << 20

// handleListCategories returns the category display tree
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.categories.ListCategories(r.Context(), r.URL.Query(), auth.ForwardAuthorization(r))
	if err != nil {
		var upErr *upstream.Error
		if errors.As(err, &upErr) {
			respondJSON(w, upErr.Status, map[string]interface{}{
				"success":    false,
				"error":      orDefault(upErr.Field("error"), "Failed to fetch categories"),
				"message":    orDefault(upErr.Field("message"), "Please try again"),
				"categories": []category.Node{},
			})
			return
		}
		logger.FromCtx(r.Context()).Error("categories fetch failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success":    false,
			"error":      "Internal server error",
			"categories": []category.Node{},
		})
		return
	}

	utils.NoStore(w)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": nodes,
		"total":      len(nodes),
	})
}

// handleGetCategoryBySlug locates a category in the display tree
func (s *Server) handleGetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	res, err := s.categories.GetCategoryBySlug(r.Context(), slug, r.URL.Query(), auth.ForwardAuthorization(r))
	if err != nil {
		var upErr *upstream.Error
		switch {
		case errors.Is(err, category.ErrCategoryNotFound):
			utils.WriteJSONError(w, "Category not found", http.StatusNotFound)
		case errors.Is(err, category.ErrSlugRequired):
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.As(err, &upErr):
			respondJSON(w, upErr.Status, map[string]interface{}{
				"success": false,
				"error":   upErr.Message,
				"details": upErr.Details,
			})
		default:
			logger.FromCtx(r.Context()).Error("category slug lookup failed", zap.Error(err))
			utils.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	utils.NoStore(w)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"category":      res.Category,
		"is_root":       res.IsRoot,
		"subcategories": res.Subcategories,
	})
}

// handleGetCategory relays a single category from upstream
func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	res, err := s.categories.GetCategory(r.Context(), chi.URLParam(r, "id"), auth.ForwardAuthorization(r))
	s.relay(w, r, res, err, "Failed to fetch category detail")
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	body, ok := readPayload(w, r)
	if !ok {
		return
	}

	res, err := s.categories.CreateCategory(r.Context(), body, auth.ForwardAuthorization(r))
	s.relay(w, r, res, err, "Failed to create category")
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	body, ok := readPayload(w, r)
	if !ok {
		return
	}

	res, err := s.categories.UpdateCategory(r.Context(), chi.URLParam(r, "id"), body, auth.ForwardAuthorization(r))
	s.relay(w, r, res, err, "Failed to update category")
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	res, err := s.categories.DeleteCategory(r.Context(), chi.URLParam(r, "id"), auth.ForwardAuthorization(r))
	if err == nil && res.Status == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.relay(w, r, res, err, "Failed to delete category")
}

// relay writes an upstream answer back, or maps err onto the error envelope.
func (s *Server) relay(w http.ResponseWriter, r *http.Request, res *category.Passthrough, err error, failure string) {
	if err != nil {
		var upErr *upstream.Error
		switch {
		case errors.As(err, &upErr):
			respondJSON(w, upErr.Status, map[string]interface{}{
				"success": false,
				"error":   upErr.Message,
				"details": upErr.Details,
			})
		case errors.Is(err, category.ErrCategoryIDRequired):
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			logger.FromCtx(r.Context()).Error("category proxy failed", zap.Error(err))
			respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"error":   failure,
				"details": err.Error(),
			})
		}
		return
	}

	utils.NoStore(w)
	respondRaw(w, res.Status, res.Body)
}

// readPayload buffers the request body for relaying. JSON bodies are checked
// before they leave the gateway; multipart and other bodies go out verbatim.
func readPayload(w http.ResponseWriter, r *http.Request) (category.Payload, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRelayBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteJSONError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return category.Payload{}, false
		}
		utils.WriteJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return category.Payload{}, false
	}

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") && !json.Valid(data) {
		utils.WriteJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return category.Payload{}, false
	}

	return category.Payload{Body: data, ContentType: contentType}, true
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
