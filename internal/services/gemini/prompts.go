package gemini

import (
	"fmt"
	"strings"

	"telenovela/internal/generation"
)

// systemPrompt frames every text call. Keep updates centralized here so
// it is easy to tweak without hunting through call sites.
const systemPrompt = `You are a telenovela writer for short-form vertical video.
Episodes run 60-90 seconds. The target audience wants extreme drama,
forbidden love, betrayal, and secrets, with cliffhanger endings.
When asked for JSON, respond ONLY with valid JSON and no commentary.`

func ideasPrompt(req generation.IdeaRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pitch %d dramatically different telenovela ideas.\n\n", req.Count)
	if req.SettingHint != "" {
		fmt.Fprintf(&b, "Setting hint: %s\n\n", req.SettingHint)
	}
	b.WriteString(`Each idea needs a clickbait-worthy title, a visually rich setting,
a one-sentence logline, the hook that stops a viewer scrolling, and the
central conflict.

Respond with a JSON array:
[{"title": "...", "setting": "...", "logline": "...", "hook": "...", "main_conflict": "..."}]`)
	return b.String()
}

func premiseBlock(b *strings.Builder, req generation.StructureRequest) {
	fmt.Fprintf(b, "SERIES: %s\nSETTING: %s\nLOGLINE: %s\nCONFLICT: %s\n\n",
		req.Title, req.Setting, req.Logline, req.MainConflict)
}

func charactersPrompt(req generation.StructureRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create 5-7 main characters for a %d-episode telenovela.\n\n", req.NumEpisodes)
	premiseBlock(&b, req)
	b.WriteString(`Cover the core roles: protagonist, love interest, antagonist, rival,
confidant, supporting. Every character hides a secret that will be
revealed. Physical descriptions must be detailed enough for image
generation.

Respond with a JSON array:
[{"name": "...", "role": "...", "archetype": "...", "age": "...",
"physical_description": "...", "personality": "...", "motivation": "...",
"secret": "...", "arc": "..."}]`)
	return b.String()
}

func locationsPrompt(req generation.StructureRequest) string {
	var b strings.Builder
	b.WriteString("Create 6-8 visually distinct locations where the drama unfolds.\n\n")
	premiseBlock(&b, req)
	if len(req.Characters) > 0 {
		names := make([]string, len(req.Characters))
		for i, c := range req.Characters {
			names[i] = c.Name
		}
		fmt.Fprintf(&b, "CHARACTERS: %s\n\n", strings.Join(names, ", "))
	}
	b.WriteString(`Mix private spaces for secrets, public spaces for confrontations,
luxury settings, and at least one hidden location. Visual details must
be concrete enough for image generation.

Respond with a JSON array:
[{"name": "...", "type": "interior|exterior", "description": "...",
"mood": "...", "significance": "...", "visual_details": "..."}]`)
	return b.String()
}

func episodeArcPrompt(req generation.StructureRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan a %d-episode arc.\n\n", req.NumEpisodes)
	premiseBlock(&b, req)
	for _, c := range req.Characters {
		fmt.Fprintf(&b, "- %s (%s): %s\n", c.Name, c.Role, c.Secret)
	}
	b.WriteString(`
Open with a hook, escalate secrets and betrayals through the middle,
and resolve in the final two episodes. Every episode ends on a
cliffhanger.

Respond with a JSON array:
[{"episode_number": 1, "title": "...", "summary": "...",
"key_beats": ["..."], "cliffhanger": "...", "emotional_arc": "..."}]`)
	return b.String()
}

func scriptsPrompt(req generation.ScriptBatchRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write full scripts for the following %d episodes of %q.\n\n",
		len(req.Summaries), req.Title)
	for _, s := range req.Summaries {
		fmt.Fprintf(&b, "EPISODE %d: %s\nSUMMARY: %s\nKEY BEATS: %s\nCLIFFHANGER: %s\n\n",
			s.EpisodeNumber, s.Title, s.Summary, strings.Join(s.KeyBeats, ", "), s.Cliffhanger)
	}
	if len(req.Previous) > 0 {
		b.WriteString("PREVIOUS EPISODES:\n")
		for _, p := range req.Previous {
			fmt.Fprintf(&b, "Ep %d (%s): %s\n", p.EpisodeNumber, p.Title, p.Summary)
		}
		b.WriteString("\n")
	}
	b.WriteString("CHARACTERS:\n")
	for _, c := range req.Characters {
		fmt.Fprintf(&b, "- %s: %s | %s\n", c.Name, c.PhysicalDescription, c.Personality)
	}
	b.WriteString("\nLOCATIONS:\n")
	for _, l := range req.Locations {
		fmt.Fprintf(&b, "- %s: %s\n", l.Name, l.Description)
	}
	b.WriteString(`
Each episode: 60-90 seconds total, 4-6 scenes, heavy on dialogue and
reaction shots. Scene locations must be names from the list above.

Respond with a JSON array, one object per episode:
[{"episode_number": 1, "title": "...", "cold_open": "...",
"music_cue": "...", "cliffhanger_moment": "...",
"scenes": [{"scene_number": 1, "title": "...", "location": "...",
"time_of_day": "...", "duration_seconds": 15, "mood": "...",
"action_beats": ["..."], "camera_notes": "...",
"dialogue": [{"character": "...", "line": "...", "direction": "...",
"emotion": "..."}]}]}]`)
	return b.String()
}

func shotListPrompt(req generation.ShotListRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create 2-4 image generation prompts for this scene.\n\nSCENE: %s\nMOOD: %s\nACTION: %s\n",
		req.SceneTitle, req.Mood, strings.Join(req.ActionBeats, ", "))
	if req.Location.Name != "" {
		fmt.Fprintf(&b, "LOCATION: %s - %s\n", req.Location.Name, req.Location.VisualDetails)
	}
	b.WriteString("\nCHARACTER APPEARANCES:\n")
	for _, c := range req.Characters {
		fmt.Fprintf(&b, "- %s: %s\n", c.Name, c.PhysicalDescription)
	}
	b.WriteString(`
Each prompt must specify lighting, camera angle, and mood in cinematic
language, and include character appearances when in shot.

Respond with a JSON array:
[{"shot_number": 1, "shot_type": "wide|medium|close-up",
"description": "...", "prompt_text": "...", "negative_prompt": "..."}]`)
	return b.String()
}

func characterRefPrompt(ch generation.CharacterContext) string {
	return fmt.Sprintf(`Write an image generation prompt for a character reference portrait.

CHARACTER: %s
APPEARANCE: %s
PERSONALITY: %s
ROLE: %s

The image must show a clear portrait view with a cinematic telenovela
aesthetic, suitable as a visual reference for later scenes.

Respond with ONLY the prompt text, nothing else.`,
		ch.Name, ch.PhysicalDescription, ch.Personality, ch.Role)
}

func locationRefPrompt(loc generation.LocationContext) string {
	return fmt.Sprintf(`Write an image generation prompt for a location establishing shot.

LOCATION: %s
TYPE: %s
DESCRIPTION: %s
VISUAL DETAILS: %s
MOOD: %s

The image must convey a clear sense of space and atmosphere with
cinematic quality.

Respond with ONLY the prompt text, nothing else.`,
		loc.Name, loc.Type, loc.Description, loc.VisualDetails, loc.Mood)
}

func thumbnailPrompt(req generation.ThumbnailRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create thumbnail prompts for episode %d, %q.\nCLIFFHANGER: %s\n\n",
		req.EpisodeNumber, req.EpisodeTitle, req.CliffhangerMoment)
	for _, c := range req.Characters {
		if c.Role == "protagonist" {
			fmt.Fprintf(&b, "PROTAGONIST: %s - %s\n\n", c.Name, c.PhysicalDescription)
			break
		}
	}
	b.WriteString(`Create exactly two prompts: one vertical (9:16) and one horizontal
(16:9). Both must show a dramatic, clickbait-worthy moment.

Respond with a JSON array:
[{"orientation": "vertical", "prompt_text": "..."},
{"orientation": "horizontal", "prompt_text": "..."}]`)
	return b.String()
}

func motionListPrompt(req generation.MotionListRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create 2-4 video generation segments for this scene.\n\nSCENE: %s\nDURATION: %d seconds total\nMOOD: %s\nACTION: %s\n\n",
		req.SceneTitle, req.DurationSeconds, req.Mood, strings.Join(req.ActionBeats, ", "))
	if len(req.Shots) > 0 {
		b.WriteString("EXISTING SHOTS (use as reference frames):\n")
		for _, shot := range req.Shots {
			fmt.Fprintf(&b, "- shot %d (%s): %s\n", shot.ShotNumber, shot.ShotType, shot.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString(`Each segment is 3-8 seconds and describes motion, action, and camera
movement. Reference the shot that should be its starting frame.

Respond with a JSON array:
[{"segment_number": 1, "prompt_text": "...", "duration_seconds": 5,
"camera_movement": "pan|zoom|static|dolly", "reference_image_shot": 1}]`)
	return b.String()
}
