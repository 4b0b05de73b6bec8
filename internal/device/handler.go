package device

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"walletcore/internal/domain"
)

// maxDeriveBody caps the size of a derive request.
const maxDeriveBody = 1 << 16

// Handler serves the device bridge API in front of t.
func Handler(t domain.DeviceTransport, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /device", func(w http.ResponseWriter, r *http.Request) {
		info, err := t.DeviceInfo(r.Context())
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, info)
	})

	mux.HandleFunc("POST /derive", func(w http.ResponseWriter, r *http.Request) {
		var req DeriveRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDeriveBody)).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		keys, err := t.DerivePublicKeys(r.Context(), req.FactorSourceID, req.Paths)
		if err != nil {
			writeError(w, log, err)
			return
		}
		log.Info("derived public keys",
			zap.Stringer("factorSource", req.FactorSourceID),
			zap.Int("count", len(keys)))
		writeJSON(w, DeriveResponse{PublicKeys: keys})
	})

	return accessLog(mux, log)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrWrongDevice):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnsupportedPath), errors.Is(err, domain.ErrParse):
		status = http.StatusBadRequest
	}
	log.Warn("device request failed", zap.Error(err), zap.Int("status", status))
	http.Error(w, err.Error(), status)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func accessLog(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}
