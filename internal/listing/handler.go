package listing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// maxCardCodes bounds the codes accepted by one products request.
const maxCardCodes = 500

type Handler struct {
	Service *Service
	Logger  *zap.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

// Routes registers the listing API on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sites/{site}/listings", h.HandleListing)
	mux.HandleFunc("GET /api/sites/{site}/products", h.HandleProducts)
	mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger(h.Logger).Error("[HTTP] unable to write healthcheck", zap.Error(err))
		}
	})
	return mux
}

// HandleListing serves GET /api/sites/{site}/listings?category=&sort=&page=.
func (h *Handler) HandleListing(w http.ResponseWriter, r *http.Request) {
	siteID := r.PathValue("site")
	q := h.Service.Engine.ParseQuery(r.URL.Query())

	result, err := h.Service.Listing(r.Context(), siteID, q)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleProducts serves GET /api/sites/{site}/products?codes=a,b.
func (h *Handler) HandleProducts(w http.ResponseWriter, r *http.Request) {
	siteID := r.PathValue("site")

	var codes []string
	for _, c := range strings.Split(r.URL.Query().Get("codes"), ",") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	if len(codes) == 0 {
		h.writeError(w, "codes is required", http.StatusBadRequest)
		return
	}
	if len(codes) > maxCardCodes {
		h.writeError(w, "too many codes", http.StatusBadRequest)
		return
	}

	summaries, err := h.Service.Cards(r.Context(), siteID, codes)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownSite), errors.Is(err, ErrUnknownPillar):
		h.writeError(w, err.Error(), http.StatusNotFound)
	default:
		logger(h.Logger).Error("[HTTP] request failed", zap.Error(err))
		h.writeError(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(h.Logger).Error("[HTTP] unable to encode JSON response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeJSON(w, code, errorResponse{Error: message})
}
