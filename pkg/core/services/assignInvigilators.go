package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/exam-invigilation/internal/config"
	"github.com/jakechorley/exam-invigilation/pkg/core/allocator"
	"github.com/jakechorley/exam-invigilation/pkg/core/allocator/criteria"
	"github.com/jakechorley/exam-invigilation/pkg/core/model"
	"github.com/jakechorley/exam-invigilation/pkg/core/stats"
	"github.com/jakechorley/exam-invigilation/pkg/metrics"
)

// AllocationRecorder receives run metrics. *metrics.Recorder implements it.
type AllocationRecorder interface {
	ObserveAttempt(unassignable int)
	ObserveRun(report metrics.RunReport)
}

// AssignOptions controls a single assignment run
type AssignOptions struct {
	// Seed drives every shuffle of every attempt
	Seed uint64

	// Attempts overrides cfg.Attempts when > 0
	Attempts int

	// Recorder is optional
	Recorder AllocationRecorder
}

// AssignResult contains the chosen attempt of an assignment run
type AssignResult struct {
	RunID         string
	Seed          uint64
	Attempts      int
	ChosenAttempt int // 1-based

	Success          bool
	Assignments      []model.AssignmentRow
	Statistics       []model.StatisticsRow
	Summary          stats.Summary
	Unassignable     []model.AssignmentRow
	ValidationErrors []allocator.SlotValidationError
	Periods          []string

	Outcome *allocator.AllocationOutcome
}

// AssignInvigilators normalizes the inputs, runs the configured number of independent
// single-pass attempts and keeps the best one: fewest unassignable slots, then the
// smallest spread of total counts. Ties go to the earliest attempt.
func AssignInvigilators(
	ctx context.Context,
	source RosterSource,
	cfg *config.Config,
	logger *zap.Logger,
	opts AssignOptions,
) (*AssignResult, error) {
	started := time.Now()
	runID := uuid.New().String()

	attempts := cfg.Attempts
	if opts.Attempts > 0 {
		attempts = opts.Attempts
	}
	if attempts < 1 {
		attempts = 1
	}

	logger = logger.With(zap.String("run_id", runID))
	logger.Info("Starting invigilator assignment",
		zap.Uint64("seed", opts.Seed),
		zap.Int("attempts", attempts))

	inputs, err := loadInputs(source, cfg, logger)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	rules := criteria.Default()

	var best *allocator.AllocationOutcome
	var bestSummary stats.Summary
	chosen := 0
	made := 0

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("assignment cancelled: %w", err)
		}

		outcome, err := allocator.Allocate(allocator.AllocationConfig{
			Teachers: inputs.Directory.Teachers,
			Slots:    inputs.Slots,
			Rules:    rules,
			Rand:     rng,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to allocate attempt %d: %w", attempt, err)
		}
		made++

		summary := stats.Summarize(stats.Aggregate(outcome.State.Invigilators))
		if opts.Recorder != nil {
			opts.Recorder.ObserveAttempt(len(outcome.UnassignableSlots))
		}

		logger.Debug("Allocation attempt finished",
			zap.Int("attempt", attempt),
			zap.Int("unassignable", len(outcome.UnassignableSlots)),
			zap.Int("spread", summary.Spread),
			zap.Int("validation_errors", len(outcome.ValidationErrors)))

		if best == nil || isBetter(outcome, summary, best, bestSummary) {
			best, bestSummary, chosen = outcome, summary, attempt
		}

		// Nothing can beat a full, perfectly even attempt
		if len(best.ValidationErrors) == 0 && len(best.UnassignableSlots) == 0 && bestSummary.Spread == 0 {
			break
		}
	}

	result := buildAssignResult(best, inputs.Periods)
	result.RunID = runID
	result.Seed = opts.Seed
	result.Attempts = made
	result.ChosenAttempt = chosen

	for _, row := range result.Unassignable {
		logger.Warn("Slot could not be staffed",
			zap.Int("grade", row.Grade),
			zap.Int("room", row.Room),
			zap.String("period", row.Period),
			zap.String("subject", row.Subject))
	}

	if opts.Recorder != nil {
		opts.Recorder.ObserveRun(runReport(best, result, time.Since(started)))
	}

	logger.Info("Invigilator assignment complete",
		zap.Int("chosen_attempt", chosen),
		zap.Int("attempts", made),
		zap.Int("slots", len(result.Assignments)),
		zap.Int("unassignable", len(result.Unassignable)),
		zap.Int("spread", result.Summary.Spread),
		zap.Bool("success", result.Success))

	return result, nil
}

// isBetter ranks attempts: no validation errors first, then fewest unassignable slots,
// then smallest spread. Ties keep the earlier attempt.
func isBetter(candidate *allocator.AllocationOutcome, candidateSummary stats.Summary, best *allocator.AllocationOutcome, bestSummary stats.Summary) bool {
	candidateClean, bestClean := len(candidate.ValidationErrors) == 0, len(best.ValidationErrors) == 0
	if candidateClean != bestClean {
		return candidateClean
	}
	if len(candidate.UnassignableSlots) != len(best.UnassignableSlots) {
		return len(candidate.UnassignableSlots) < len(best.UnassignableSlots)
	}
	return candidateSummary.Spread < bestSummary.Spread
}

// buildAssignResult converts the allocation outcome into output tables in timetable order
func buildAssignResult(outcome *allocator.AllocationOutcome, periods []string) *AssignResult {
	assignments := slices.Clone(outcome.State.Assignments)
	slices.SortFunc(assignments, func(a, b *allocator.Assignment) int {
		return a.Slot.Index - b.Slot.Index
	})

	result := &AssignResult{
		Success:          outcome.Success,
		Assignments:      make([]model.AssignmentRow, 0, len(assignments)),
		Unassignable:     []model.AssignmentRow{},
		ValidationErrors: outcome.ValidationErrors,
		Periods:          periods,
		Outcome:          outcome,
	}

	for _, assignment := range assignments {
		row := ToAssignmentRow(assignment)
		result.Assignments = append(result.Assignments, row)
		if assignment.IsUnassignable() {
			result.Unassignable = append(result.Unassignable, row)
		}
	}

	result.Statistics = stats.Aggregate(outcome.State.Invigilators)
	result.Summary = stats.Summarize(result.Statistics)
	stats.SortByTotal(result.Statistics)

	return result
}

// ToAssignmentRow renders one assignment as an output row.
// Unassignable slots get the sentinel in every role the slot needs.
func ToAssignmentRow(assignment *allocator.Assignment) model.AssignmentRow {
	slot := assignment.Slot
	row := model.AssignmentRow{
		Grade:   slot.Room.Grade,
		Room:    slot.Room.Section,
		Period:  slot.Period,
		Subject: slot.Subject,
	}

	if assignment.IsUnassignable() {
		row.Primary = model.Unassignable
		if !slot.SelfStudy {
			row.Secondary = model.Unassignable
		}
		return row
	}

	row.Primary = assignment.Primary.Name()
	if assignment.Secondary != nil {
		row.Secondary = assignment.Secondary.Name()
	}
	return row
}

func runReport(outcome *allocator.AllocationOutcome, result *AssignResult, duration time.Duration) metrics.RunReport {
	report := metrics.RunReport{
		Slots:        len(outcome.State.Slots),
		Unassignable: len(result.Unassignable),
		Spread:       result.Summary.Spread,
		Duration:     duration,
	}
	for _, slot := range outcome.State.Slots {
		if slot.SelfStudy {
			report.SelfStudySlots++
		}
	}
	for _, row := range result.Statistics {
		report.PrimaryAssignments += row.Primary
		report.SecondaryAssignments += row.Secondary
	}
	return report
}
