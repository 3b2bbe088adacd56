package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	mapping "sunspec-gateway/internal/mapping/domain"
	"sunspec-gateway/internal/normalize/application"
	normalize "sunspec-gateway/internal/normalize/domain"
)

// Sink persists normalization results. Optional; a nil sink means the
// gateway runs stateless.
type Sink interface {
	Insert(ctx context.Context, res *normalize.Result, vocabulary string, at time.Time) error
}

// NormalizeHandler serves POST /v1/normalize.
type NormalizeHandler struct {
	normalizer *application.Normalizer
	sink       Sink
	logger     *log.Logger
}

// NewNormalizeHandler constructs the handler.
func NewNormalizeHandler(normalizer *application.Normalizer, sink Sink, logger *log.Logger) (*NormalizeHandler, error) {
	if normalizer == nil {
		return nil, errors.New("normalize handler: nil normalizer")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &NormalizeHandler{normalizer: normalizer, sink: sink, logger: logger}, nil
}

// ServeHTTP normalizes one device snapshot.
func (h *NormalizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Printf("normalize: read body error: %v", err)
		http.Error(w, "read body error", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req normalizeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Printf("normalize: decode error: %v", err)
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	snap, err := req.toSnapshot()
	if err != nil {
		h.logger.Printf("normalize: invalid payload: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.normalizer.Normalize(snap)
	if err != nil {
		h.logger.Printf("normalize: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.sink != nil {
		if err := h.sink.Insert(r.Context(), &res, string(snap.Vocabulary), snap.At); err != nil {
			// Persistence is best effort; the caller still gets the result.
			h.logger.Printf("normalize: snapshot insert error: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

type normalizeRequest struct {
	DeviceID   string               `json:"device_id"`
	Vocabulary string               `json:"vocabulary"`
	At         string               `json:"at"`
	Points     []normalize.RawPoint `json:"points"`
}

func (r normalizeRequest) toSnapshot() (normalize.Snapshot, error) {
	if r.DeviceID == "" {
		return normalize.Snapshot{}, errors.New("missing device_id")
	}
	vocab := mapping.Vocabulary(r.Vocabulary)
	if !vocab.Valid() {
		return normalize.Snapshot{}, errors.New("vocabulary must be vsn300 or vsn700")
	}
	if len(r.Points) == 0 {
		return normalize.Snapshot{}, errors.New("no points")
	}

	at := time.Now().UTC()
	if r.At != "" {
		parsed, err := time.Parse(time.RFC3339, r.At)
		if err != nil {
			return normalize.Snapshot{}, errors.New("invalid at timestamp")
		}
		at = parsed.UTC()
	}

	return normalize.Snapshot{
		DeviceID:   r.DeviceID,
		Vocabulary: vocab,
		Points:     r.Points,
		At:         at,
	}, nil
}

// MappingsHandler serves GET /v1/mappings: the loaded canonical table.
type MappingsHandler struct {
	table  *mapping.Table
	logger *log.Logger
}

// NewMappingsHandler constructs the handler.
func NewMappingsHandler(table *mapping.Table, logger *log.Logger) (*MappingsHandler, error) {
	if table == nil {
		return nil, errors.New("mappings handler: nil table")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &MappingsHandler{table: table, logger: logger}, nil
}

// ServeHTTP lists mapping entries, optionally filtered by vocabulary.
func (h *MappingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	entries := h.table.Entries()
	if vocab := mapping.Vocabulary(r.URL.Query().Get("vocabulary")); vocab != "" {
		if !vocab.Valid() {
			http.Error(w, "vocabulary must be vsn300 or vsn700", http.StatusBadRequest)
			return
		}
		filtered := entries[:0]
		for _, e := range entries {
			if (vocab == mapping.VocabularyVSN300 && e.CompatibleWithVSN300()) ||
				(vocab == mapping.VocabularyVSN700 && e.CompatibleWithVSN700()) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"count":   len(entries),
		"entries": entries,
	})
}
