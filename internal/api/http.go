package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vegcheck/internal/domain/entity"
)

const (
	serviceName    = "Vegetable Cleanliness API"
	serviceVersion = "1.0.0"

	maxUploadSize   = 20 << 20
	requestIDHeader = "X-Request-ID"
)

// Inspector классифицирует снимок.
type Inspector interface {
	Inspect(ctx context.Context, imageData []byte) (*entity.InspectionResult, error)
	ColorMode() entity.ColorMode
}

// PredictResponse ответ /predict.
type PredictResponse struct {
	Label         string             `json:"label"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// DebugResponse ответ /predict-debug.
type DebugResponse struct {
	ColorMode  string    `json:"color_mode"`
	Features   []float64 `json:"features"`
	ProbaOrder []string  `json:"proba_order"`
	Proba      []float64 `json:"proba"`
	PredIdx    int       `json:"pred_idx"`
	PredLabel  string    `json:"pred_label"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Server HTTP-интерфейс классификатора.
type Server struct {
	inspector Inspector
	logger    *logrus.Logger
	origins   []string
}

// NewServer создаёт сервер. Пустой список источников CORS означает "*".
func NewServer(inspector Inspector, logger *logrus.Logger, allowedOrigins []string) *Server {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return &Server{
		inspector: inspector,
		logger:    logger,
		origins:   allowedOrigins,
	}
}

// Handler маршруты сервиса.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("POST /predict-debug", s.handlePredictDebug)
	return s.withRequestID(s.withCORS(mux))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
		"version": serviceVersion,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	result, ok := s.inspect(w, r)
	if !ok {
		return
	}

	probs := make(map[string]float64, len(result.Prediction.Probabilities))
	for _, p := range result.Prediction.Probabilities {
		probs[string(p.Label)] = p.Probability
	}
	writeJSON(w, http.StatusOK, PredictResponse{
		Label:         string(result.Prediction.Label),
		Confidence:    result.Prediction.Confidence(),
		Probabilities: probs,
	})
}

func (s *Server) handlePredictDebug(w http.ResponseWriter, r *http.Request) {
	result, ok := s.inspect(w, r)
	if !ok {
		return
	}

	resp := DebugResponse{
		ColorMode: string(result.ColorMode),
		Features:  result.Features.Slice(),
		PredIdx:   result.Prediction.Index,
		PredLabel: string(result.Prediction.Label),
	}
	for _, p := range result.Prediction.Probabilities {
		resp.ProbaOrder = append(resp.ProbaOrder, string(p.Label))
		resp.Proba = append(resp.Proba, p.Probability)
	}
	writeJSON(w, http.StatusOK, resp)
}

// inspect читает поле file и классифицирует его. При ошибке ответ уже записан.
func (s *Server) inspect(w http.ResponseWriter, r *http.Request) (*entity.InspectionResult, bool) {
	log := s.requestLogger(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		log.WithError(err).Warn("Missing upload")
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Field 'file' is required"})
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.WithError(err).Warn("Failed to read upload")
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Failed to read file"})
		return nil, false
	}

	start := time.Now()
	result, err := s.inspector.Inspect(r.Context(), data)
	if err != nil {
		status, detail := errorStatus(err)
		entry := log.WithError(err).WithField("status", status)
		if status >= http.StatusInternalServerError {
			entry.Error("Inspection failed")
		} else {
			entry.Warn("Inspection rejected")
		}
		writeJSON(w, status, errorResponse{Detail: detail})
		return nil, false
	}

	log.WithFields(logrus.Fields{
		"label":      result.Prediction.Label,
		"confidence": result.Prediction.Confidence(),
		"bytes":      len(data),
		"elapsed":    time.Since(start).String(),
	}).Info("Image classified")
	return result, true
}

// errorStatus переводит ошибку конвейера в код ответа.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrInvalidImage):
		return http.StatusBadRequest, "Invalid image file"
	case errors.Is(err, entity.ErrImageTooSmall), errors.Is(err, entity.ErrInvalidParameter):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

type ctxKey struct{}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (s *Server) requestLogger(r *http.Request) *logrus.Entry {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return s.logger.WithFields(logrus.Fields{
		"request_id": id,
		"path":       r.URL.Path,
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	wildcard := slices.Contains(s.origins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (wildcard || slices.Contains(s.origins, origin)) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
					h.Set("Access-Control-Allow-Headers", req)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
