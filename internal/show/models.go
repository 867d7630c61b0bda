package show

import "time"

// Project is the root of the ownership tree. Deleting a project cascades
// to every descendant entity. CurrentStep moves upward only, and only
// after the step gate approves the target step.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Setting     string    `json:"setting"`
	NumEpisodes int       `json:"num_episodes"`
	CurrentStep int       `json:"current_step"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Idea is a pitched premise for the series. Exactly one idea per project
// ends up approved; approval is a project-scoped command on the Store
// because it also rejects sibling drafts and copies title and setting
// onto the project.
type Idea struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Title        string    `json:"title"`
	Setting      string    `json:"setting"`
	Logline      string    `json:"logline"`
	Hook         string    `json:"hook"`
	MainConflict string    `json:"main_conflict"`
	State        IdeaState `json:"state"`
	CreatedAt    time.Time `json:"created_at"`
}

// Approve transitions the idea itself. Sibling rejection and the
// project title/setting copy live in Store.ApproveIdea.
func (i *Idea) Approve() error {
	next, err := ideaMachine.Transition(i.State, IdeaApproved)
	if err != nil {
		return err
	}
	i.State = next
	return nil
}

func (i *Idea) Reject() error {
	next, err := ideaMachine.Transition(i.State, IdeaRejected)
	if err != nil {
		return err
	}
	i.State = next
	return nil
}

// Character is a cast member defined in the structure step.
type Character struct {
	ID                  string         `json:"id"`
	ProjectID           string         `json:"project_id"`
	Name                string         `json:"name"`
	Role                string         `json:"role"`
	Archetype           string         `json:"archetype"`
	Age                 string         `json:"age"`
	PhysicalDescription string         `json:"physical_description"`
	Personality         string         `json:"personality"`
	Motivation          string         `json:"motivation"`
	Secret              string         `json:"secret"`
	Arc                 string         `json:"arc"`
	State               StructureState `json:"state"`
	CreatedAt           time.Time      `json:"created_at"`
}

func (c *Character) Approve() error {
	return transitionStructure(characterMachine, &c.State, StructureApproved)
}

// Modify marks the character edited. Approved characters stay approved;
// callers editing approved entities must Unapprove first.
func (c *Character) Modify() error {
	if c.State == StructureApproved {
		return nil
	}
	return transitionStructure(characterMachine, &c.State, StructureModified)
}

func (c *Character) Unapprove() error {
	return transitionStructure(characterMachine, &c.State, StructureModified)
}

// Location is a recurring set defined in the structure step.
type Location struct {
	ID            string         `json:"id"`
	ProjectID     string         `json:"project_id"`
	Name          string         `json:"name"`
	Type          string         `json:"type"`
	Description   string         `json:"description"`
	Mood          string         `json:"mood"`
	Significance  string         `json:"significance"`
	VisualDetails string         `json:"visual_details"`
	State         StructureState `json:"state"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (l *Location) Approve() error {
	return transitionStructure(locationMachine, &l.State, StructureApproved)
}

func (l *Location) Modify() error {
	if l.State == StructureApproved {
		return nil
	}
	return transitionStructure(locationMachine, &l.State, StructureModified)
}

func (l *Location) Unapprove() error {
	return transitionStructure(locationMachine, &l.State, StructureModified)
}

// EpisodeSummary is the one-paragraph outline for an episode, written
// before full script generation.
type EpisodeSummary struct {
	ID            string         `json:"id"`
	ProjectID     string         `json:"project_id"`
	EpisodeNumber int            `json:"episode_number"`
	Title         string         `json:"title"`
	Summary       string         `json:"summary"`
	KeyBeats      []string       `json:"key_beats"`
	Cliffhanger   string         `json:"cliffhanger"`
	EmotionalArc  string         `json:"emotional_arc"`
	State         StructureState `json:"state"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (e *EpisodeSummary) Approve() error {
	return transitionStructure(summaryMachine, &e.State, StructureApproved)
}

func (e *EpisodeSummary) Modify() error {
	if e.State == StructureApproved {
		return nil
	}
	return transitionStructure(summaryMachine, &e.State, StructureModified)
}

func (e *EpisodeSummary) Unapprove() error {
	return transitionStructure(summaryMachine, &e.State, StructureModified)
}

// Episode is a full generated script. EpisodeNumber is unique within a
// project. Scenes are loaded separately and ordered by scene number.
type Episode struct {
	ID                string          `json:"id"`
	ProjectID         string          `json:"project_id"`
	EpisodeNumber     int             `json:"episode_number"`
	Title             string          `json:"title"`
	ColdOpen          string          `json:"cold_open"`
	MusicCue          string          `json:"music_cue"`
	CliffhangerMoment string          `json:"cliffhanger_moment"`
	State             GenerationState `json:"state"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (e *Episode) MarkGenerating() error {
	return transitionGeneration(&e.State, GenerationGenerating)
}

func (e *Episode) MarkGenerated() error {
	return transitionGeneration(&e.State, GenerationGenerated)
}

func (e *Episode) Approve() error {
	return transitionGeneration(&e.State, GenerationApproved)
}

func (e *Episode) Unapprove() error {
	return transitionGeneration(&e.State, GenerationGenerated)
}

// ResetForRegen returns an in-flight episode to pending so a failed
// batch leaves no episode stuck in generating.
func (e *Episode) ResetForRegen() error {
	return transitionGeneration(&e.State, GenerationPending)
}

// Scene is one continuous unit of an episode at a single location.
type Scene struct {
	ID              string    `json:"id"`
	EpisodeID       string    `json:"episode_id"`
	LocationID      string    `json:"location_id,omitempty"`
	SceneNumber     int       `json:"scene_number"`
	Title           string    `json:"title"`
	DurationSeconds int       `json:"duration_seconds"`
	TimeOfDay       string    `json:"time_of_day"`
	Mood            string    `json:"mood"`
	ActionBeats     []string  `json:"action_beats"`
	CameraNotes     string    `json:"camera_notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// DialogueLine is one spoken line. CharacterID may be empty when the
// model names a speaker that matches no cast member, so CharacterName is
// always stored denormalized.
type DialogueLine struct {
	ID            string    `json:"id"`
	SceneID       string    `json:"scene_id"`
	CharacterID   string    `json:"character_id,omitempty"`
	LineNumber    int       `json:"line_number"`
	CharacterName string    `json:"character_name"`
	LineText      string    `json:"line_text"`
	Direction     string    `json:"direction"`
	Emotion       string    `json:"emotion"`
	CreatedAt     time.Time `json:"created_at"`
}

// ImagePrompt describes one shot of a scene for still-image generation.
// It owns at most one GeneratedImage.
type ImagePrompt struct {
	ID             string      `json:"id"`
	SceneID        string      `json:"scene_id"`
	ShotNumber     int         `json:"shot_number"`
	ShotType       string      `json:"shot_type"`
	Description    string      `json:"description"`
	PromptText     string      `json:"prompt_text"`
	NegativePrompt string      `json:"negative_prompt"`
	State          PromptState `json:"state"`
	CreatedAt      time.Time   `json:"created_at"`
}

func (p *ImagePrompt) MarkGenerated() error {
	return transitionPrompt(imagePromptMachine, &p.State, PromptGenerated)
}

func (p *ImagePrompt) Approve() error {
	return transitionPrompt(imagePromptMachine, &p.State, PromptApproved)
}

// CharacterRef is the canonical reference portrait for a character,
// generated once and reused as visual context downstream. 1:1 with
// Character.
type CharacterRef struct {
	ID          string     `json:"id"`
	CharacterID string     `json:"character_id"`
	PromptText  string     `json:"prompt_text"`
	ImagePath   string     `json:"image_path,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	State       MediaState `json:"state"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (r *CharacterRef) MarkGenerating() error {
	return transitionMedia(characterRefMachine, &r.State, MediaGenerating)
}

func (r *CharacterRef) MarkGenerated(path string) error {
	if err := transitionMedia(characterRefMachine, &r.State, MediaGenerated); err != nil {
		return err
	}
	r.ImagePath = path
	return nil
}

func (r *CharacterRef) Approve() error {
	return transitionMedia(characterRefMachine, &r.State, MediaApproved)
}

func (r *CharacterRef) Reject() error {
	return transitionMedia(characterRefMachine, &r.State, MediaRejected)
}

// ResetForRegen clears the stored path along with the transition so a
// pending reference never shows a stale image.
func (r *CharacterRef) ResetForRegen() error {
	if err := transitionMedia(characterRefMachine, &r.State, MediaPending); err != nil {
		return err
	}
	r.ImagePath = ""
	return nil
}

// LocationRef is the canonical establishing shot for a location. 1:1
// with Location.
type LocationRef struct {
	ID         string     `json:"id"`
	LocationID string     `json:"location_id"`
	PromptText string     `json:"prompt_text"`
	ImagePath  string     `json:"image_path,omitempty"`
	ImageURL   string     `json:"image_url,omitempty"`
	State      MediaState `json:"state"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (r *LocationRef) MarkGenerating() error {
	return transitionMedia(locationRefMachine, &r.State, MediaGenerating)
}

func (r *LocationRef) MarkGenerated(path string) error {
	if err := transitionMedia(locationRefMachine, &r.State, MediaGenerated); err != nil {
		return err
	}
	r.ImagePath = path
	return nil
}

func (r *LocationRef) Approve() error {
	return transitionMedia(locationRefMachine, &r.State, MediaApproved)
}

func (r *LocationRef) Reject() error {
	return transitionMedia(locationRefMachine, &r.State, MediaRejected)
}

func (r *LocationRef) ResetForRegen() error {
	if err := transitionMedia(locationRefMachine, &r.State, MediaPending); err != nil {
		return err
	}
	r.ImagePath = ""
	return nil
}

// GeneratedImage is the rendered still for one ImagePrompt. 1:1 with
// ImagePrompt, created lazily on first generation.
type GeneratedImage struct {
	ID            string     `json:"id"`
	ImagePromptID string     `json:"image_prompt_id"`
	ImagePath     string     `json:"image_path,omitempty"`
	ImageURL      string     `json:"image_url,omitempty"`
	State         MediaState `json:"state"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (g *GeneratedImage) MarkGenerating() error {
	return transitionMedia(generatedImageMachine, &g.State, MediaGenerating)
}

func (g *GeneratedImage) MarkGenerated(path string) error {
	if err := transitionMedia(generatedImageMachine, &g.State, MediaGenerated); err != nil {
		return err
	}
	g.ImagePath = path
	return nil
}

func (g *GeneratedImage) Approve() error {
	return transitionMedia(generatedImageMachine, &g.State, MediaApproved)
}

func (g *GeneratedImage) Reject() error {
	return transitionMedia(generatedImageMachine, &g.State, MediaRejected)
}

func (g *GeneratedImage) ResetForRegen() error {
	if err := transitionMedia(generatedImageMachine, &g.State, MediaPending); err != nil {
		return err
	}
	g.ImagePath = ""
	return nil
}

// Thumbnail is promotional art, two per episode (vertical and
// horizontal). EpisodeID is empty for project-level art.
type Thumbnail struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	EpisodeID   string     `json:"episode_id,omitempty"`
	Orientation string     `json:"orientation"`
	PromptText  string     `json:"prompt_text"`
	ImagePath   string     `json:"image_path,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	State       MediaState `json:"state"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (t *Thumbnail) MarkGenerating() error {
	return transitionMedia(thumbnailMachine, &t.State, MediaGenerating)
}

func (t *Thumbnail) MarkGenerated(path string) error {
	if err := transitionMedia(thumbnailMachine, &t.State, MediaGenerated); err != nil {
		return err
	}
	t.ImagePath = path
	return nil
}

func (t *Thumbnail) Approve() error {
	return transitionMedia(thumbnailMachine, &t.State, MediaApproved)
}

func (t *Thumbnail) Reject() error {
	return transitionMedia(thumbnailMachine, &t.State, MediaRejected)
}

func (t *Thumbnail) ResetForRegen() error {
	if err := transitionMedia(thumbnailMachine, &t.State, MediaPending); err != nil {
		return err
	}
	t.ImagePath = ""
	return nil
}

// VideoPrompt describes one motion segment of a scene. It owns at most
// one GeneratedVideo and may name a GeneratedImage as its visual anchor.
type VideoPrompt struct {
	ID               string      `json:"id"`
	SceneID          string      `json:"scene_id"`
	SegmentNumber    int         `json:"segment_number"`
	PromptText       string      `json:"prompt_text"`
	DurationSeconds  int         `json:"duration_seconds"`
	CameraMovement   string      `json:"camera_movement"`
	ReferenceImageID string      `json:"reference_image_id,omitempty"`
	State            PromptState `json:"state"`
	CreatedAt        time.Time   `json:"created_at"`
}

func (p *VideoPrompt) MarkGenerated() error {
	return transitionPrompt(videoPromptMachine, &p.State, PromptGenerated)
}

func (p *VideoPrompt) Approve() error {
	return transitionPrompt(videoPromptMachine, &p.State, PromptApproved)
}

// GeneratedVideo is the rendered clip for one VideoPrompt.
type GeneratedVideo struct {
	ID              string     `json:"id"`
	VideoPromptID   string     `json:"video_prompt_id"`
	VideoPath       string     `json:"video_path,omitempty"`
	VideoURL        string     `json:"video_url,omitempty"`
	DurationSeconds float64    `json:"duration_seconds,omitempty"`
	State           MediaState `json:"state"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (v *GeneratedVideo) MarkGenerating() error {
	return transitionMedia(generatedVideoMachine, &v.State, MediaGenerating)
}

// MarkGenerated records the clip path and, when known, its measured
// duration.
func (v *GeneratedVideo) MarkGenerated(path string, duration float64) error {
	if err := transitionMedia(generatedVideoMachine, &v.State, MediaGenerated); err != nil {
		return err
	}
	v.VideoPath = path
	if duration > 0 {
		v.DurationSeconds = duration
	}
	return nil
}

func (v *GeneratedVideo) Approve() error {
	return transitionMedia(generatedVideoMachine, &v.State, MediaApproved)
}

func (v *GeneratedVideo) Reject() error {
	return transitionMedia(generatedVideoMachine, &v.State, MediaRejected)
}

func (v *GeneratedVideo) ResetForRegen() error {
	if err := transitionMedia(generatedVideoMachine, &v.State, MediaPending); err != nil {
		return err
	}
	v.VideoPath = ""
	return nil
}

// Setting is one row of the persistent key-value settings store.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
