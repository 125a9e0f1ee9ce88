package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/exam-invigilation/internal/config"
	"github.com/jakechorley/exam-invigilation/pkg/core/allocator"
	"github.com/jakechorley/exam-invigilation/pkg/core/allocator/criteria"
)

// ExcludedTeacher names a teacher excluded from a slot and every rule excluding them
type ExcludedTeacher struct {
	Name  string
	Rules []string
}

// SlotEligibility is the pre-assignment view of one slot
type SlotEligibility struct {
	Slot     *allocator.Slot
	Eligible []string // roster order
	Excluded []ExcludedTeacher

	// Staffable is false when fewer teachers are eligible than the slot needs
	// (one for self-study, two otherwise). Such a slot is unassignable in every attempt.
	Staffable bool
}

// PreviewEligibility resolves the static exclusions of every slot before any assignment
// is made, so room history excludes nobody yet
func PreviewEligibility(source RosterSource, cfg *config.Config, logger *zap.Logger) ([]SlotEligibility, error) {
	inputs, err := loadInputs(source, cfg, logger)
	if err != nil {
		return nil, err
	}

	state, err := allocator.InitState(inputs.Directory.Teachers, inputs.Slots)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise allocation state: %w", err)
	}

	rules := criteria.Default()
	previews := make([]SlotEligibility, 0, len(inputs.Slots))
	unstaffable := 0

	for _, slot := range inputs.Slots {
		reasons := allocator.ExplainExclusions(state, slot, rules)

		preview := SlotEligibility{
			Slot:     slot,
			Eligible: []string{},
			Excluded: []ExcludedTeacher{},
		}
		for _, invigilator := range state.Invigilators {
			name := invigilator.Name()
			if ruleNames, excluded := reasons[name]; excluded {
				preview.Excluded = append(preview.Excluded, ExcludedTeacher{Name: name, Rules: ruleNames})
			} else {
				preview.Eligible = append(preview.Eligible, name)
			}
		}

		needed := 2
		if slot.SelfStudy {
			needed = 1
		}
		preview.Staffable = len(preview.Eligible) >= needed
		if !preview.Staffable {
			unstaffable++
		}

		previews = append(previews, preview)
	}

	logger.Debug("Resolved slot eligibility",
		zap.Int("slots", len(previews)),
		zap.Int("unstaffable", unstaffable))

	return previews, nil
}
