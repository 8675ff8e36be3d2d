package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/decker502/pvzcore/pkg/render"
)

// 渲染缩放范围
const (
	minFrameScale = 0.25
	maxFrameScale = 2.0
)

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.source.Snapshot())
}

func (h *routerHandlers) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	snap := h.source.Snapshot()

	entries := make([]map[string]any, 0, len(snap.Leaderboard))
	for i, e := range snap.Leaderboard {
		entries = append(entries, map[string]any{
			"rank":    i + 1,
			"name":    e.Name,
			"score":   e.Score,
			"seconds": e.Seconds,
		})
	}
	writeJSON(w, map[string]any{"entries": entries})
}

// handleGetFrame 以 PNG 返回当前画面，可用 ?scale= 缩放
func (h *routerHandlers) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	layout := h.layout
	if raw := r.URL.Query().Get("scale"); raw != "" {
		scale, err := strconv.ParseFloat(raw, 64)
		if err != nil || scale < minFrameScale || scale > maxFrameScale {
			writeError(w, "scale must be a number between 0.25 and 2", http.StatusBadRequest)
			return
		}
		layout.Scale = scale
		layout.HUDHeight = h.layout.HUDHeight * scale / h.layout.Scale
	}

	snap := h.source.Snapshot()
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := render.EncodePNG(w, &snap, layout); err != nil {
		log.Printf("[API] Failed to encode frame: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
