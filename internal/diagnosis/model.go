package diagnosis

// Impact directions as shown to the healthcare worker.
type Direction string

const (
	DirectionSupports Direction = "Supports Diagnosis"
	DirectionAgainst  Direction = "Against Diagnosis"
)

const (
	DefaultPatientName = "Patient"
	DefaultWorkerName  = "Healthcare Worker"
)

// DiagnosticRequest is the input to a single pipeline run. It is built at
// the HTTP/CLI boundary and read-only from then on.
type DiagnosticRequest struct {
	Symptoms      []string `json:"symptoms"`
	PatientName   string   `json:"patientName"`
	PatientAge    *int     `json:"patientAge,omitempty"`
	PatientGender string   `json:"patientGender,omitempty"`
	WorkerName    string   `json:"workerName"`
	Location      string   `json:"location"`
}

// SetDefaults fills the identity fields the caller left blank.
func (r *DiagnosticRequest) SetDefaults() {
	if r.PatientName == "" {
		r.PatientName = DefaultPatientName
	}
	if r.WorkerName == "" {
		r.WorkerName = DefaultWorkerName
	}
}

type TopPrediction struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
}

// SeverityEntry holds the 1-7 severity of one matched symptom.
type SeverityEntry struct {
	Symptom  string `json:"symptom"`
	Severity int    `json:"severity"`
}

// ExplanationEntry is one ranked feature contribution from the local
// explainer. Impact is rounded to 4 decimals; Direction follows its sign.
type ExplanationEntry struct {
	Feature   string    `json:"feature"`
	Impact    float64   `json:"impact"`
	Direction Direction `json:"direction"`
}

// PredictionResult is the output of the predict stage.
type PredictionResult struct {
	PrimaryDiagnosis  string             `json:"primaryDiagnosis"`
	ConfidenceScore   float64            `json:"confidenceScore"`
	SeverityScore     float64            `json:"severityScore"`
	TopPredictions    []TopPrediction    `json:"topPredictions"`
	MatchedSymptoms   []string           `json:"matchedSymptoms"`
	UnmatchedSymptoms []string           `json:"unmatchedSymptoms"`
	SymptomSeverities []SeverityEntry    `json:"symptomSeverities"`
	Description       string             `json:"description"`
	Precautions       []string           `json:"precautions"`
	LimeExplanation   []ExplanationEntry `json:"limeExplanation"`
}

// ClinicalConclusion is the validated structured summary produced by the
// summarize stage. Every field is required; validation rejects any payload
// where one is missing, empty, or mistyped.
type ClinicalConclusion struct {
	DiagnosisSummary         string `json:"diagnosis_summary"`
	ConfidenceInterpretation string `json:"confidence_interpretation"`
	SeverityAssessment       string `json:"severity_assessment"`
	KeyContributingFactors   string `json:"key_contributing_factors"`
	RecommendedNextSteps     string `json:"recommended_next_steps"`
	ReferralRecommendation   string `json:"referral_recommendation"`
	EscalateToDoctor         bool   `json:"escalate_to_doctor"`
	RecommendedPrecautions   string `json:"recommended_precautions"`
}
