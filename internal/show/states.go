package show

import (
	"strings"

	"telenovela/internal/state"
)

// IdeaState is the lifecycle of a pitched series idea. Approving or
// rejecting an idea is final.
type IdeaState string

const (
	IdeaDraft    IdeaState = "draft"
	IdeaApproved IdeaState = "approved"
	IdeaRejected IdeaState = "rejected"
)

// StructureState is the draft/modify/approve loop shared by characters,
// locations, and episode summaries.
type StructureState string

const (
	StructureDraft    StructureState = "draft"
	StructureModified StructureState = "modified"
	StructureApproved StructureState = "approved"
)

// GenerationState tracks episode script generation.
type GenerationState string

const (
	GenerationPending    GenerationState = "pending"
	GenerationGenerating GenerationState = "generating"
	GenerationGenerated  GenerationState = "generated"
	GenerationApproved   GenerationState = "approved"
)

// MediaState tracks generated media (reference images, scene images,
// thumbnails, video clips). Rejected media loops back to pending for
// regeneration.
type MediaState string

const (
	MediaPending    MediaState = "pending"
	MediaGenerating MediaState = "generating"
	MediaGenerated  MediaState = "generated"
	MediaApproved   MediaState = "approved"
	MediaRejected   MediaState = "rejected"
)

// PromptState tracks image and video prompts. Prompts are never
// "generating": they are produced synchronously with their parent scene.
type PromptState string

const (
	PromptPending   PromptState = "pending"
	PromptGenerated PromptState = "generated"
	PromptApproved  PromptState = "approved"
)

var (
	ideaTransitions = state.Table[IdeaState]{
		IdeaDraft: {IdeaApproved, IdeaRejected},
	}

	structureTransitions = state.Table[StructureState]{
		StructureDraft:    {StructureModified, StructureApproved},
		StructureModified: {StructureApproved},
		StructureApproved: {StructureModified},
	}

	generationTransitions = state.Table[GenerationState]{
		GenerationPending:    {GenerationGenerating},
		GenerationGenerating: {GenerationGenerated, GenerationPending},
		GenerationGenerated:  {GenerationApproved},
		GenerationApproved:   {GenerationGenerated},
	}

	mediaTransitions = state.Table[MediaState]{
		MediaPending:    {MediaGenerating},
		MediaGenerating: {MediaGenerated, MediaPending},
		MediaGenerated:  {MediaApproved, MediaRejected},
		MediaApproved:   {MediaRejected},
		MediaRejected:   {MediaPending},
	}

	promptTransitions = state.Table[PromptState]{
		PromptPending:   {PromptGenerated},
		PromptGenerated: {PromptApproved},
		PromptApproved:  {PromptGenerated},
	}
)

// One machine per entity family so InvalidTransitionError names the
// concrete entity, not just the state family.
var (
	ideaMachine           = state.New("Idea", ideaTransitions)
	characterMachine      = state.New("Character", structureTransitions)
	locationMachine       = state.New("Location", structureTransitions)
	summaryMachine        = state.New("EpisodeSummary", structureTransitions)
	episodeMachine        = state.New("Episode", generationTransitions)
	characterRefMachine   = state.New("CharacterRef", mediaTransitions)
	locationRefMachine    = state.New("LocationRef", mediaTransitions)
	generatedImageMachine = state.New("GeneratedImage", mediaTransitions)
	thumbnailMachine      = state.New("Thumbnail", mediaTransitions)
	generatedVideoMachine = state.New("GeneratedVideo", mediaTransitions)
	imagePromptMachine    = state.New("ImagePrompt", promptTransitions)
	videoPromptMachine    = state.New("VideoPrompt", promptTransitions)
)

// EntityKind discriminates entity families for generic operations such as
// stuck-entity recovery, where the concrete type is not known at compile
// time. Values double as URL path segments.
type EntityKind string

const (
	KindEpisode        EntityKind = "episodes"
	KindCharacterRef   EntityKind = "character-refs"
	KindLocationRef    EntityKind = "location-refs"
	KindGeneratedImage EntityKind = "generated-images"
	KindThumbnail      EntityKind = "thumbnails"
	KindGeneratedVideo EntityKind = "generated-videos"
)

var generatingKinds = []EntityKind{
	KindEpisode,
	KindCharacterRef,
	KindLocationRef,
	KindGeneratedImage,
	KindThumbnail,
	KindGeneratedVideo,
}

// GeneratingKinds returns the ordered list of entity kinds that can be
// stuck in a generating state.
func GeneratingKinds() []EntityKind {
	cp := make([]EntityKind, len(generatingKinds))
	copy(cp, generatingKinds)
	return cp
}

// ParseEntityKind converts a string into a known EntityKind.
func ParseEntityKind(value string) (EntityKind, bool) {
	normalized := EntityKind(strings.ToLower(strings.TrimSpace(value)))
	for _, kind := range generatingKinds {
		if kind == normalized {
			return kind, true
		}
	}
	return "", false
}
