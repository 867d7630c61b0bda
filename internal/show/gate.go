package show

import "fmt"

// Pipeline steps run 1 through MaxStep in order.
const (
	FirstStep = 1
	MaxStep   = 12
)

var stepNames = map[int]string{
	1:  "Generate Ideas",
	2:  "Select Idea",
	3:  "Generate Structure",
	4:  "Approve Structure",
	5:  "Generate Episode Scripts",
	6:  "Generate Image Prompts",
	7:  "Generate Reference Images",
	8:  "Generate Images",
	9:  "Generate Thumbnails",
	10: "Review Images",
	11: "Generate Video Prompts",
	12: "Generate Videos",
}

// StepName returns the display name for a pipeline step.
func StepName(step int) string {
	if name, ok := stepNames[step]; ok {
		return name
	}
	return "Unknown"
}

// Tree is the fully loaded ownership tree of one project, the input to
// the step gate and the export surface. Reference images and generated
// media are keyed by their parent's ID to keep the 1:1 relations cheap
// to probe.
type Tree struct {
	Project       *Project
	Ideas         []*Idea
	Characters    []*Character
	Locations     []*Location
	Summaries     []*EpisodeSummary
	Episodes      []*Episode
	Scenes        []*Scene
	DialogueLines []*DialogueLine
	ImagePrompts  []*ImagePrompt
	VideoPrompts  []*VideoPrompt
	Thumbnails    []*Thumbnail
	CharacterRefs map[string]*CharacterRef   // by character ID
	LocationRefs  map[string]*LocationRef    // by location ID
	Images        map[string]*GeneratedImage // by image prompt ID
	Videos        map[string]*GeneratedVideo // by video prompt ID
}

// Decision is the gate's verdict for one target step. Reason is set only
// when the step is blocked.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CanAdvanceTo reports whether the project may move to the given step.
// Steps at or below the current one are always permitted, skipping ahead
// never is, and the immediate next step is checked against its
// prerequisite predicate. The gate is advisory and never mutates state;
// callers advance CurrentStep only after an allowed decision.
func (t *Tree) CanAdvanceTo(step int) Decision {
	if step <= t.Project.CurrentStep {
		return allow()
	}
	if step > t.Project.CurrentStep+1 {
		return deny(fmt.Sprintf("cannot skip from step %d to step %d", t.Project.CurrentStep, step))
	}
	switch step {
	case 2, 3:
		return t.checkIdeaApproved()
	case 4:
		return t.checkStructureExists()
	case 5:
		return t.checkStructureApproved()
	case 6, 7:
		return t.checkEpisodesGenerated()
	case 8, 9:
		return t.checkPromptsAndRefs()
	case 10:
		return t.checkImagesGenerated()
	case 11:
		return t.checkImagesReviewed()
	case 12:
		return t.checkVideoPromptsApproved()
	default:
		return allow()
	}
}

func (t *Tree) checkIdeaApproved() Decision {
	for _, idea := range t.Ideas {
		if idea.State == IdeaApproved {
			return allow()
		}
	}
	return deny("select and approve an idea first")
}

func (t *Tree) checkStructureExists() Decision {
	if len(t.Characters) > 0 && len(t.Locations) > 0 && len(t.Summaries) > 0 {
		return allow()
	}
	return deny("generate the structure (characters, locations, episode summaries) first")
}

func (t *Tree) checkStructureApproved() Decision {
	for _, c := range t.Characters {
		if c.State != StructureApproved {
			return deny("approve all characters, locations, and episode summaries")
		}
	}
	for _, l := range t.Locations {
		if l.State != StructureApproved {
			return deny("approve all characters, locations, and episode summaries")
		}
	}
	for _, s := range t.Summaries {
		if s.State != StructureApproved {
			return deny("approve all characters, locations, and episode summaries")
		}
	}
	return allow()
}

func (t *Tree) checkEpisodesGenerated() Decision {
	for _, e := range t.Episodes {
		if e.State == GenerationGenerated {
			return allow()
		}
	}
	return deny("generate at least one episode script first")
}

// One generated-or-approved image prompt anywhere in the project is
// enough; prompt coverage of every scene is not required here. Reference
// images must exist for the full cast and every location, and must have
// left the pending state.
func (t *Tree) checkPromptsAndRefs() Decision {
	hasPrompt := false
	for _, p := range t.ImagePrompts {
		if p.State == PromptGenerated || p.State == PromptApproved {
			hasPrompt = true
			break
		}
	}
	if !hasPrompt {
		return deny("generate image prompts first")
	}
	for _, c := range t.Characters {
		ref := t.CharacterRefs[c.ID]
		if ref == nil || ref.State == MediaPending {
			return deny("generate reference images for every character and location")
		}
	}
	for _, l := range t.Locations {
		ref := t.LocationRefs[l.ID]
		if ref == nil || ref.State == MediaPending {
			return deny("generate reference images for every character and location")
		}
	}
	return allow()
}

func (t *Tree) checkImagesGenerated() Decision {
	for _, p := range t.ImagePrompts {
		if img := t.Images[p.ID]; img != nil && img.State == MediaGenerated {
			return allow()
		}
	}
	return deny("generate at least one scene image first")
}

func (t *Tree) checkImagesReviewed() Decision {
	reviewed := 0
	approved := 0
	total := 0
	for _, p := range t.ImagePrompts {
		img := t.Images[p.ID]
		if img == nil {
			continue
		}
		total++
		switch img.State {
		case MediaApproved:
			reviewed++
			approved++
		case MediaRejected:
			reviewed++
		}
	}
	if total == 0 {
		return deny("generate scene images before reviewing them")
	}
	if reviewed < total {
		return deny("review every generated image (approve or reject)")
	}
	if approved == 0 {
		return deny("approve at least one image")
	}
	return allow()
}

func (t *Tree) checkVideoPromptsApproved() Decision {
	for _, p := range t.VideoPrompts {
		if p.State == PromptApproved {
			return allow()
		}
	}
	return deny("approve at least one video prompt first")
}
