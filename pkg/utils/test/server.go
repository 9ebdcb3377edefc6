package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
)

// NewEmbeddingServer starts an httptest server speaking the Ollama
// /api/embed protocol. Every input embeds to its letter histogram, the same
// vectors MockEmbedder produces.
func NewEmbeddingServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/embed", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		out := make([][]float32, len(req.Input))
		for i, text := range req.Input {
			out[i] = letterHistogram(text)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": out})
	})
	return httptest.NewServer(mux)
}
