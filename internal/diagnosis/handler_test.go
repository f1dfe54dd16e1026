package diagnosis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	state *PipelineState
	err   error
	last  DiagnosticRequest
}

func (s *stubService) Run(ctx context.Context, req DiagnosticRequest) (*PipelineState, error) {
	s.last = req
	return s.state, s.err
}

func newTestRouter(svc Service) *chi.Mux {
	h := NewHandler(svc, []string{"fever", "cough", "chest pain"}, testLogger())
	r := chi.NewRouter()
	RegisterRoutes(r, h)
	return r
}

func doneState() *PipelineState {
	return &PipelineState{
		RunID:      uuid.New(),
		Stage:      StageDone,
		Prediction: testPrediction(),
		Conclusion: testConclusion(),
		Document:   []byte("%PDF-stub"),
		Filename:   "ArogyaMitra_Report_Patient_20250101_000000.pdf",
	}
}

func TestHandleAnalyzeReturnsPDF(t *testing.T) {
	svc := &stubService{state: doneState()}
	r := newTestRouter(svc)

	body := bytes.NewBufferString(`{"symptoms":["fever","cough"],"patientName":"Asha Devi"}`)
	req := httptest.NewRequest("POST", "/analyze", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, svc.state.Filename, w.Header().Get("X-Report-Filename"))
	assert.Equal(t, "%PDF-stub", w.Body.String())
	assert.Equal(t, "Asha Devi", svc.last.PatientName)
}

func TestHandleAnalyzeRejectsEmptySymptoms(t *testing.T) {
	svc := &stubService{state: doneState()}
	r := newTestRouter(svc)

	req := httptest.NewRequest("POST", "/analyze", bytes.NewBufferString(`{"symptoms":[]}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.last.Symptoms)
}

func TestHandleAnalyzeRejectsNegativeAge(t *testing.T) {
	r := newTestRouter(&stubService{state: doneState()})

	req := httptest.NewRequest("POST", "/analyze", bytes.NewBufferString(`{"symptoms":["fever"],"patientAge":-3}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAnalyzeStageFailure(t *testing.T) {
	svc := &stubService{err: &StageError{
		Stage: StageSummarizing,
		Err:   &SummarizationSchemaError{Reason: "missing required field \"diagnosis_summary\"", Raw: "..."},
	}}
	r := newTestRouter(svc)

	req := httptest.NewRequest("POST", "/analyze", bytes.NewBufferString(`{"symptoms":["fever"]}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SUMMARIZING", resp["stage"])
	assert.Contains(t, resp["error"], "diagnosis_summary")
}

func TestHandleAnalyzeTimeoutMapsToGatewayTimeout(t *testing.T) {
	svc := &stubService{err: &StageError{
		Stage: StageSummarizing,
		Err:   &DependencyTimeoutError{Dependency: "text generation", Timeout: 60000000000},
	}}
	r := newTestRouter(svc)

	req := httptest.NewRequest("POST", "/analyze", bytes.NewBufferString(`{"symptoms":["fever"]}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestHandleAnalyzeJSON(t *testing.T) {
	svc := &stubService{state: doneState()}
	r := newTestRouter(svc)

	req := httptest.NewRequest("POST", "/analyze/json", bytes.NewBufferString(`{"symptoms":["fever","cough"]}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		MLResult struct {
			Disease    string  `json:"disease"`
			Confidence float64 `json:"confidence"`
		} `json:"mlResult"`
		LLMResult ClinicalConclusion `json:"llmResult"`
		PDFBase64 string             `json:"pdfBase64"`
		Filename  string             `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Influenza", resp.MLResult.Disease)
	assert.InDelta(t, 0.815, resp.MLResult.Confidence, 1e-9)
	assert.Equal(t, "Likely influenza.", resp.LLMResult.DiagnosisSummary)
	assert.Equal(t, svc.state.Filename, resp.Filename)

	decoded, err := base64.StdEncoding.DecodeString(resp.PDFBase64)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), decoded)
}

func TestHandleSymptoms(t *testing.T) {
	r := newTestRouter(&stubService{state: doneState()})

	req := httptest.NewRequest("GET", "/symptoms", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"fever", "cough", "chest pain"}, resp["symptoms"])
}
