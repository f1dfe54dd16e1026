package summarizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"arogyamitra/internal/diagnosis"
)

// Service implements the summarize stage: prompt the generator once,
// recover the JSON payload from its response, and validate it strictly.
// There is no automatic retry on malformed output; the failure propagates
// as a summarize-stage error. A retrying decorator around Generator is the
// place to add one.
type Service struct {
	generator Generator
	timeout   time.Duration
	logger    *logrus.Logger
}

func NewService(generator Generator, timeout time.Duration, logger *logrus.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{generator: generator, timeout: timeout, logger: logger}
}

func (s *Service) Summarize(ctx context.Context, result *diagnosis.PredictionResult) (*diagnosis.ClinicalConclusion, error) {
	system, user, err := BuildPrompt(result)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.generator.Generate(ctx, system, user)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &diagnosis.DependencyTimeoutError{
				Dependency: "text generation",
				Timeout:    s.timeout,
			}
		}
		return nil, fmt.Errorf("text generation failed: %w", err)
	}

	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, &diagnosis.SummarizationSchemaError{
			Reason: err.Error(),
			Raw:    raw,
		}
	}

	conclusion, err := ParseConclusion(payload, raw)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("escalate", conclusion.EscalateToDoctor).Debug("Conclusion validated")
	return conclusion, nil
}
