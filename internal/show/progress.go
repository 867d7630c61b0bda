package show

import "fmt"

// StepProgress summarizes where a project stands on its current step,
// including how many of the step's work items are done and why the next
// step is blocked, if it is.
type StepProgress struct {
	CurrentStep    int    `json:"current_step"`
	StepName       string `json:"step_name"`
	CanProceed     bool   `json:"can_proceed"`
	BlockingReason string `json:"blocking_reason,omitempty"`
	ItemsTotal     int    `json:"items_total"`
	ItemsCompleted int    `json:"items_completed"`
	ItemsPending   int    `json:"items_pending"`
}

// minimum ideas a project pitches before selecting one
const ideaTarget = 3

// Progress reports step statistics for the project's current step.
// Steps without countable work items report zero counts and lean on the
// gate's blocking reason alone.
func (t *Tree) Progress() StepProgress {
	step := t.Project.CurrentStep
	progress := StepProgress{
		CurrentStep: step,
		StepName:    StepName(step),
	}

	if step < MaxStep {
		decision := t.CanAdvanceTo(step + 1)
		progress.CanProceed = decision.Allowed
		if !decision.Allowed {
			progress.BlockingReason = decision.Reason
		}
	}

	switch step {
	case 1:
		progress.ItemsTotal = ideaTarget
		progress.ItemsCompleted = len(t.Ideas)
		if progress.ItemsCompleted < ideaTarget {
			progress.ItemsPending = ideaTarget - progress.ItemsCompleted
		}
	case 2:
		progress.ItemsTotal = len(t.Ideas)
		for _, idea := range t.Ideas {
			if idea.State == IdeaApproved {
				progress.ItemsCompleted++
			}
		}
	case 3:
		progress.ItemsTotal = 3
		if len(t.Characters) > 0 {
			progress.ItemsCompleted++
		}
		if len(t.Locations) > 0 {
			progress.ItemsCompleted++
		}
		if len(t.Summaries) > 0 {
			progress.ItemsCompleted++
		}
		progress.ItemsPending = progress.ItemsTotal - progress.ItemsCompleted
	case 4:
		progress.ItemsTotal = len(t.Characters) + len(t.Locations) + len(t.Summaries)
		for _, c := range t.Characters {
			if c.State == StructureApproved {
				progress.ItemsCompleted++
			}
		}
		for _, l := range t.Locations {
			if l.State == StructureApproved {
				progress.ItemsCompleted++
			}
		}
		for _, s := range t.Summaries {
			if s.State == StructureApproved {
				progress.ItemsCompleted++
			}
		}
		progress.ItemsPending = progress.ItemsTotal - progress.ItemsCompleted
	case 5:
		progress.ItemsTotal = t.Project.NumEpisodes
		for _, e := range t.Episodes {
			if e.State == GenerationGenerated || e.State == GenerationApproved {
				progress.ItemsCompleted++
			}
		}
		if remaining := progress.ItemsTotal - progress.ItemsCompleted; remaining > 0 {
			progress.ItemsPending = remaining
			if !progress.CanProceed && progress.BlockingReason == "" {
				progress.BlockingReason = fmt.Sprintf("generate the remaining %d episodes", remaining)
			}
		}
	case 10:
		for _, p := range t.ImagePrompts {
			img := t.Images[p.ID]
			if img == nil {
				continue
			}
			progress.ItemsTotal++
			switch img.State {
			case MediaApproved:
				progress.ItemsCompleted++
			case MediaGenerated:
				progress.ItemsPending++
			}
		}
	}

	return progress
}
