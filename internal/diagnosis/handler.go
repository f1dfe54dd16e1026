package diagnosis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Service is what the HTTP layer needs from the pipeline.
type Service interface {
	Run(ctx context.Context, req DiagnosticRequest) (*PipelineState, error)
}

type Handler struct {
	svc      Service
	symptoms []string
	logger   *logrus.Logger
}

// NewHandler wires the pipeline and the known-symptom list (display form,
// spaces instead of underscores) into the HTTP layer.
func NewHandler(svc Service, symptoms []string, logger *logrus.Logger) *Handler {
	return &Handler{svc: svc, symptoms: symptoms, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (DiagnosticRequest, bool) {
	var req DiagnosticRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return req, false
	}
	if len(req.Symptoms) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "at least one symptom is required"})
		return req, false
	}
	if req.PatientAge != nil && *req.PatientAge < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "patientAge must not be negative"})
		return req, false
	}
	req.SetDefaults()
	return req, true
}

// HandleAnalyze runs the full pipeline and returns the PDF itself.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	state, err := h.svc.Run(r.Context(), req)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+state.Filename)
	w.Header().Set("X-Report-Filename", state.Filename)
	w.Write(state.Document)
}

// HandleAnalyzeJSON runs the full pipeline and returns prediction,
// conclusion, and the base64-encoded PDF in one JSON response, so a
// frontend can show results and offer the download from a single call.
func (h *Handler) HandleAnalyzeJSON(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	state, err := h.svc.Run(r.Context(), req)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}

	p := state.Prediction
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mlResult": map[string]interface{}{
			"disease":         p.PrimaryDiagnosis,
			"confidence":      p.ConfidenceScore / 100,
			"severityScore":   p.SeverityScore,
			"topPredictions":  p.TopPredictions,
			"matchedSymptoms": p.MatchedSymptoms,
			"precautions":     p.Precautions,
			"description":     p.Description,
			"limeExplanation": p.LimeExplanation,
		},
		"llmResult": state.Conclusion,
		"pdfBase64": base64.StdEncoding.EncodeToString(state.Document),
		"filename":  state.Filename,
	})
}

// HandleSymptoms returns the vocabulary of symptoms the model knows.
func (h *Handler) HandleSymptoms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"symptoms": h.symptoms})
}

func (h *Handler) writePipelineError(w http.ResponseWriter, err error) {
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: inputErr.Error()})
		return
	}

	var stageErr *StageError
	if errors.As(err, &stageErr) {
		status := http.StatusInternalServerError
		var timeoutErr *DependencyTimeoutError
		if errors.As(err, &timeoutErr) {
			status = http.StatusGatewayTimeout
		}
		writeJSON(w, status, errorResponse{
			Error: stageErr.Err.Error(),
			Stage: string(stageErr.Stage),
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/analyze", h.HandleAnalyze)
	r.Post("/analyze/json", h.HandleAnalyzeJSON)
	r.Get("/symptoms", h.HandleSymptoms)
}
