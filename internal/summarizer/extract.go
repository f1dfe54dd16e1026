package summarizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"arogyamitra/internal/diagnosis"
)

// requiredStringFields lists the conclusion's string fields in schema
// order, so validation errors name the first offender deterministically.
var requiredStringFields = []string{
	"diagnosis_summary",
	"confidence_interpretation",
	"severity_assessment",
	"key_contributing_factors",
	"recommended_next_steps",
	"referral_recommendation",
	"recommended_precautions",
}

const escalateField = "escalate_to_doctor"

// ExtractJSON recovers the candidate JSON payload from a response that may
// carry leading or trailing prose: the substring from the first '{' to the
// last '}' inclusive. The prompt forbids braces inside field values, which
// is what makes this heuristic safe; see ParseConclusion for the
// validation that backstops it.
func ExtractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return raw[start : end+1], nil
}

// ParseConclusion validates the candidate payload against the eight-field
// schema. Missing fields, empty strings, and mistyped values are hard
// failures; nothing is defaulted, because a clinically-facing document
// must not fabricate content it could not validate.
func ParseConclusion(payload, raw string) (*diagnosis.ClinicalConclusion, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, &diagnosis.SummarizationSchemaError{
			Reason: fmt.Sprintf("payload is not valid JSON: %v", err),
			Raw:    raw,
		}
	}

	values := make(map[string]string, len(requiredStringFields))
	for _, name := range requiredStringFields {
		rawValue, ok := fields[name]
		if !ok {
			return nil, &diagnosis.SummarizationSchemaError{
				Reason: fmt.Sprintf("missing required field %q", name),
				Raw:    raw,
			}
		}
		var s string
		if err := json.Unmarshal(rawValue, &s); err != nil {
			return nil, &diagnosis.SummarizationSchemaError{
				Reason: fmt.Sprintf("field %q is not a string", name),
				Raw:    raw,
			}
		}
		if strings.TrimSpace(s) == "" {
			return nil, &diagnosis.SummarizationSchemaError{
				Reason: fmt.Sprintf("field %q is empty", name),
				Raw:    raw,
			}
		}
		values[name] = s
	}

	rawEscalate, ok := fields[escalateField]
	if !ok {
		return nil, &diagnosis.SummarizationSchemaError{
			Reason: fmt.Sprintf("missing required field %q", escalateField),
			Raw:    raw,
		}
	}
	var escalate bool
	if err := json.Unmarshal(rawEscalate, &escalate); err != nil {
		return nil, &diagnosis.SummarizationSchemaError{
			Reason: fmt.Sprintf("field %q is not a boolean", escalateField),
			Raw:    raw,
		}
	}

	return &diagnosis.ClinicalConclusion{
		DiagnosisSummary:         values["diagnosis_summary"],
		ConfidenceInterpretation: values["confidence_interpretation"],
		SeverityAssessment:       values["severity_assessment"],
		KeyContributingFactors:   values["key_contributing_factors"],
		RecommendedNextSteps:     values["recommended_next_steps"],
		ReferralRecommendation:   values["referral_recommendation"],
		EscalateToDoctor:         escalate,
		RecommendedPrecautions:   values["recommended_precautions"],
	}, nil
}
