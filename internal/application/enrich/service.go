package enrich

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iterativai/empathic-venture-forge/internal/application"
	"github.com/iterativai/empathic-venture-forge/internal/domain/ai"
	domain "github.com/iterativai/empathic-venture-forge/internal/domain/analysis"
	"github.com/iterativai/empathic-venture-forge/internal/domain/faults"
	"github.com/iterativai/empathic-venture-forge/internal/infra/ai/prompt"
	"github.com/iterativai/empathic-venture-forge/internal/middleware"
)

// ErrMissingFields is returned when analysisId or fileContent is
// absent. Mapped to HTTP 400 by the router.
var ErrMissingFields = errors.New("Missing required fields")

// Service is the stateless enrichment worker: one gateway call per
// invocation, one commit onto the record. All dependencies are
// injected; there is no ambient state.
type Service struct {
	Repo     domain.Repository
	Gateway  ai.Gateway
	Notifier domain.Notifier
	Faults   faults.Repository // optional; nil disables fault logging
	Clock    application.Clock
	Log      *zap.Logger

	// MarkFailed flips the record to failed on gateway/parse errors.
	// False keeps behavioral parity with the legacy pipeline, which
	// left the record at processing forever.
	MarkFailed bool
}

// Dispatch runs Analyze in the background with a fresh context so it
// is not cancelled when the submitting request finishes.
func (s *Service) Dispatch(id domain.AnalysisID, fileContent string) {
	go func() {
		if _, err := s.Analyze(context.Background(), id, fileContent); err != nil {
			s.Log.Error("background analysis failed",
				zap.String("id", string(id)),
				zap.Error(err),
			)
		}
	}()
}

// Analyze performs the full enrichment pass: prompt build, exactly one
// gateway call, parse/validate, commit, notify. No retries; every
// failure is terminal for this invocation.
func (s *Service) Analyze(ctx context.Context, id domain.AnalysisID, fileContent string) (*domain.Report, error) {
	if id == "" || fileContent == "" {
		return nil, ErrMissingFields
	}
	middleware.IncrementAnalysesStarted()

	raw, err := s.Gateway.AnalyzeJSON(ctx, prompt.AnalystSystemPrompt(), prompt.AnalystUserPrompt(fileContent))
	if err != nil {
		s.fail(id, "gateway", err)
		return nil, err
	}

	rep, err := domain.ParseReport([]byte(raw))
	if err != nil {
		s.fail(id, "parse", err)
		return nil, err
	}

	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		s.fail(id, "persist", err)
		return nil, fmt.Errorf("loading record: %w", err)
	}

	// Single commit point. Not transactional with the gateway call: a
	// crash before this line leaves the record at processing.
	rec.Complete(rep, []byte(raw), s.Clock.Now())
	if err := s.Repo.UpdateReport(ctx, rec); err != nil {
		s.fail(id, "persist", err)
		return nil, fmt.Errorf("updating record: %w", err)
	}

	middleware.IncrementAnalysesCompleted()
	if s.Notifier != nil {
		s.Notifier.Publish(rec)
	}
	s.Log.Info("analysis completed",
		zap.String("id", string(id)),
		zap.Intp("overall_score", rec.OverallScore),
	)
	return rep, nil
}

// fail records the failure out of band and, when MarkFailed is set,
// flips the record so viewers are not stuck on the processing screen.
func (s *Service) fail(id domain.AnalysisID, stage string, cause error) {
	middleware.IncrementAnalysesFailed()
	ctx := context.Background()

	if s.Faults != nil {
		f := &faults.Fault{
			AnalysisID: string(id),
			Stage:      stage,
			Message:    cause.Error(),
			CreatedAt:  s.Clock.Now(),
		}
		if err := s.Faults.Save(ctx, f); err != nil {
			s.Log.Warn("saving fault entry", zap.String("id", string(id)), zap.Error(err))
		}
	}

	if !s.MarkFailed {
		return
	}
	if err := s.Repo.UpdateStatus(ctx, id, domain.StatusFailed); err != nil {
		s.Log.Warn("marking record failed", zap.String("id", string(id)), zap.Error(err))
		return
	}
	if s.Notifier != nil {
		if rec, err := s.Repo.GetByID(ctx, id); err == nil {
			s.Notifier.Publish(rec)
		}
	}
}
