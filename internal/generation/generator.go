package generation

import "context"

// Generator produces telenovela content from structured context. The
// gemini package provides the production implementation; tests use a
// fake. Model output is untrusted, so every result type carries only
// the fields the pipeline applies, decoded defensively by the
// implementation.
type Generator interface {
	// Ideas pitches premises for a new series.
	Ideas(ctx context.Context, req IdeaRequest) ([]IdeaResult, error)
	// Characters, Locations, and EpisodeArc produce the series
	// structure for an approved premise.
	Characters(ctx context.Context, req StructureRequest) ([]CharacterResult, error)
	Locations(ctx context.Context, req StructureRequest) ([]LocationResult, error)
	EpisodeArc(ctx context.Context, req StructureRequest) ([]SummaryResult, error)
	// EpisodeScripts writes full scripts for one chunk of episodes.
	// Results are matched back to targets by episode number.
	EpisodeScripts(ctx context.Context, req ScriptBatchRequest) ([]ScriptResult, error)
	// ImagePrompts builds a shot list for one scene.
	ImagePrompts(ctx context.Context, req ShotListRequest) ([]ImagePromptResult, error)
	// CharacterRefPrompt and LocationRefPrompt write the prompt text
	// for a canonical reference image.
	CharacterRefPrompt(ctx context.Context, ch CharacterContext) (string, error)
	LocationRefPrompt(ctx context.Context, loc LocationContext) (string, error)
	// ThumbnailPrompts writes promotional art prompts for one episode,
	// one vertical and one horizontal.
	ThumbnailPrompts(ctx context.Context, req ThumbnailRequest) ([]ThumbnailResult, error)
	// VideoPrompts builds motion segments for one scene.
	VideoPrompts(ctx context.Context, req MotionListRequest) ([]VideoPromptResult, error)
	// RenderImages and RenderVideos turn finished prompts into media
	// files. Results are matched back to requests by Key.
	RenderImages(ctx context.Context, reqs []ImageRequest) ([]ImageResult, error)
	RenderVideos(ctx context.Context, reqs []VideoRequest) ([]VideoResult, error)
}

// IdeaRequest asks for Count series premises, optionally steered by a
// setting hint.
type IdeaRequest struct {
	SettingHint string
	Count       int
}

// IdeaResult is one pitched premise.
type IdeaResult struct {
	Title        string `json:"title"`
	Setting      string `json:"setting"`
	Logline      string `json:"logline"`
	Hook         string `json:"hook"`
	MainConflict string `json:"main_conflict"`
}

// StructureRequest carries the approved premise plus whatever structure
// already exists, so later calls can reference earlier output.
type StructureRequest struct {
	Title        string
	Setting      string
	Logline      string
	MainConflict string
	NumEpisodes  int
	Characters   []CharacterContext
	Locations    []LocationContext
}

// CharacterContext is the slice of a character the model needs.
type CharacterContext struct {
	Name                string `json:"name"`
	Role                string `json:"role"`
	Archetype           string `json:"archetype"`
	PhysicalDescription string `json:"physical_description"`
	Personality         string `json:"personality"`
	Secret              string `json:"secret"`
}

// LocationContext is the slice of a location the model needs.
type LocationContext struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Description   string `json:"description"`
	Mood          string `json:"mood"`
	VisualDetails string `json:"visual_details"`
}

// CharacterResult is one generated cast member.
type CharacterResult struct {
	Name                string `json:"name"`
	Role                string `json:"role"`
	Archetype           string `json:"archetype"`
	Age                 string `json:"age"`
	PhysicalDescription string `json:"physical_description"`
	Personality         string `json:"personality"`
	Motivation          string `json:"motivation"`
	Secret              string `json:"secret"`
	Arc                 string `json:"arc"`
}

// LocationResult is one generated set.
type LocationResult struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Description   string `json:"description"`
	Mood          string `json:"mood"`
	Significance  string `json:"significance"`
	VisualDetails string `json:"visual_details"`
}

// SummaryResult is one generated episode outline.
type SummaryResult struct {
	EpisodeNumber int      `json:"episode_number"`
	Title         string   `json:"title"`
	Summary       string   `json:"summary"`
	KeyBeats      []string `json:"key_beats"`
	Cliffhanger   string   `json:"cliffhanger"`
	EmotionalArc  string   `json:"emotional_arc"`
}

// EpisodeRecap is a prior episode passed as context to script calls.
type EpisodeRecap struct {
	EpisodeNumber int    `json:"episode_number"`
	Title         string `json:"title"`
	Summary       string `json:"summary"`
}

// ScriptBatchRequest asks for full scripts for one chunk of episodes.
type ScriptBatchRequest struct {
	Title      string
	Setting    string
	Summaries  []SummaryResult
	Characters []CharacterContext
	Locations  []LocationContext
	Previous   []EpisodeRecap
}

// ScriptResult is one full episode script.
type ScriptResult struct {
	EpisodeNumber     int           `json:"episode_number"`
	Title             string        `json:"title"`
	ColdOpen          string        `json:"cold_open"`
	MusicCue          string        `json:"music_cue"`
	CliffhangerMoment string        `json:"cliffhanger_moment"`
	Scenes            []SceneResult `json:"scenes"`
}

// SceneResult is one scene of a generated script. Location is a name,
// matched against the project's locations case-insensitively.
type SceneResult struct {
	SceneNumber     int              `json:"scene_number"`
	Title           string           `json:"title"`
	Location        string           `json:"location"`
	TimeOfDay       string           `json:"time_of_day"`
	DurationSeconds int              `json:"duration_seconds"`
	Mood            string           `json:"mood"`
	ActionBeats     []string         `json:"action_beats"`
	CameraNotes     string           `json:"camera_notes"`
	Dialogue        []DialogueResult `json:"dialogue"`
}

// DialogueResult is one spoken line. Character is a name, stored
// denormalized even when it matches no cast member.
type DialogueResult struct {
	Character string `json:"character"`
	Line      string `json:"line"`
	Direction string `json:"direction"`
	Emotion   string `json:"emotion"`
}

// ShotListRequest asks for image prompts covering one scene.
type ShotListRequest struct {
	SceneTitle  string
	Mood        string
	ActionBeats []string
	Location    LocationContext
	Characters  []CharacterContext
}

// ImagePromptResult is one shot of a scene's shot list.
type ImagePromptResult struct {
	ShotNumber     int    `json:"shot_number"`
	ShotType       string `json:"shot_type"`
	Description    string `json:"description"`
	PromptText     string `json:"prompt_text"`
	NegativePrompt string `json:"negative_prompt"`
}

// ThumbnailRequest asks for promotional art prompts for one episode.
type ThumbnailRequest struct {
	EpisodeNumber     int
	EpisodeTitle      string
	CliffhangerMoment string
	Characters        []CharacterContext
}

// ThumbnailResult is one promotional art prompt.
type ThumbnailResult struct {
	Orientation string `json:"orientation"`
	PromptText  string `json:"prompt_text"`
}

// MotionListRequest asks for video segments covering one scene. Shots
// lists the scene's existing image prompts so segments can anchor to a
// rendered still by shot number.
type MotionListRequest struct {
	SceneTitle      string
	Mood            string
	DurationSeconds int
	ActionBeats     []string
	Shots           []ImagePromptResult
}

// VideoPromptResult is one motion segment.
type VideoPromptResult struct {
	SegmentNumber      int    `json:"segment_number"`
	PromptText         string `json:"prompt_text"`
	DurationSeconds    int    `json:"duration_seconds"`
	CameraMovement     string `json:"camera_movement"`
	ReferenceImageShot int    `json:"reference_image_shot"`
}

// ImageRequest renders one still. Key ties the result back to the
// entity being rendered.
type ImageRequest struct {
	Key            string
	Prompt         string
	NegativePrompt string
	AspectRatio    string
}

// ImageResult is one rendered still.
type ImageResult struct {
	Key  string
	Path string
	URL  string
}

// VideoRequest renders one clip.
type VideoRequest struct {
	Key             string
	Prompt          string
	DurationSeconds int
	AspectRatio     string
}

// VideoResult is one rendered clip. DurationSeconds is the measured
// length when the backend reports one, zero otherwise.
type VideoResult struct {
	Key             string
	Path            string
	URL             string
	DurationSeconds float64
}
