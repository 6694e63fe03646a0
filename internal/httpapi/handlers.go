package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-rune-draft/internal/catalog"
	"github.com/DoyleJ11/lol-rune-draft/internal/hub"
	"github.com/DoyleJ11/lol-rune-draft/internal/lobby"
	"github.com/DoyleJ11/lol-rune-draft/internal/store"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func CreateLobby(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *lobby.Lobby, 1)
			h.Inbox() <- hub.GetLobby{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
			log.Info("collision on code, regenerating", zap.String("code", c))
		}

		reply := make(chan *lobby.Lobby, 1)
		h.Inbox() <- hub.EnsureLobby{Code: code, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create lobby", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type Readiness interface{ Ready() bool }

// Readyz reports 503 until the prediction engine is loaded.
func Readyz(engine Readiness) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := engine != nil && engine.Ready()
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, struct {
			Ready bool `json:"ready"`
		}{Ready: ready})
	}
}

func Champions(cat *catalog.Champions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			http.Error(w, "champions not loaded", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Version   string `json:"version"`
			Champions any    `json:"champions"`
		}{Version: cat.Version, Champions: cat.Search(r.URL.Query().Get("q"))})
	}
}

type History interface {
	Recent(ctx context.Context, limit int) ([]store.DraftRecord, error)
}

func Drafts(hist History, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hist == nil {
			http.Error(w, "history disabled", http.StatusNotFound)
			return
		}
		limit := 0
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		recs, err := hist.Recent(r.Context(), limit)
		if err != nil {
			log.Error("list drafts", zap.Error(err))
			http.Error(w, "failed to list drafts", http.StatusInternalServerError)
			return
		}
		if recs == nil {
			recs = []store.DraftRecord{}
		}
		writeJSON(w, http.StatusOK, recs)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
