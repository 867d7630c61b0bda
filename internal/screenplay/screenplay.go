package screenplay

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"telenovela/internal/show"
)

const (
	pageWidth     = 60
	dialogueWidth = 40
	speakerIndent = 20
	parenIndent   = 10
	lineIndent    = 5
)

var upper = cases.Upper(language.Und)

// FormatProject renders every episode of a project tree as one
// screenplay document, episodes in order.
func FormatProject(tree *show.Tree) string {
	var b strings.Builder

	title := "Untitled Series"
	if tree.Project != nil && tree.Project.Title != "" {
		title = tree.Project.Title
	}

	b.WriteString("\n")
	b.WriteString("╔" + strings.Repeat("═", pageWidth-2) + "╗\n")
	writeBoxedLine(&b, title)
	writeBoxedLine(&b, "COMPLETE SCREENPLAY")
	b.WriteString("╚" + strings.Repeat("═", pageWidth-2) + "╝\n\n")
	fmt.Fprintf(&b, "Total Episodes: %d\n\n\n", len(tree.Episodes))

	episodes := append([]*show.Episode(nil), tree.Episodes...)
	sort.Slice(episodes, func(i, j int) bool {
		return episodes[i].EpisodeNumber < episodes[j].EpisodeNumber
	})
	for _, ep := range episodes {
		b.WriteString(FormatEpisode(tree, ep))
		b.WriteString("\n\n")
	}
	return b.String()
}

// FormatEpisode renders one episode with its scenes and dialogue.
func FormatEpisode(tree *show.Tree, episode *show.Episode) string {
	var b strings.Builder

	title := episode.Title
	if title == "" {
		title = "Untitled"
	}

	rule := strings.Repeat("═", pageWidth)
	b.WriteString("\n" + rule + "\n")
	fmt.Fprintf(&b, "EPISODE %d: %q\n", episode.EpisodeNumber, title)
	b.WriteString(rule + "\n\n")

	if episode.MusicCue != "" {
		fmt.Fprintf(&b, "[Music: %s]\n\n", episode.MusicCue)
	}
	if episode.ColdOpen != "" {
		fmt.Fprintf(&b, "COLD OPEN: %s\n\n", episode.ColdOpen)
	}

	for _, scene := range episodeScenes(tree, episode.ID) {
		writeScene(&b, tree, scene)
	}

	if episode.CliffhangerMoment != "" {
		b.WriteString(strings.Repeat("─", pageWidth) + "\n\n")
		fmt.Fprintf(&b, "*** CLIFFHANGER: %s ***\n\n", episode.CliffhangerMoment)
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "END OF EPISODE %d\n", episode.EpisodeNumber)
	b.WriteString(rule + "\n")
	return b.String()
}

func writeScene(b *strings.Builder, tree *show.Tree, scene *show.Scene) {
	b.WriteString(strings.Repeat("─", pageWidth) + "\n\n")
	b.WriteString(slugline(tree, scene) + "\n\n")

	if scene.Title != "" {
		fmt.Fprintf(b, "// Scene %d: %s\n\n", scene.SceneNumber, scene.Title)
	}
	for _, beat := range scene.ActionBeats {
		if beat != "" {
			b.WriteString(beat + "\n\n")
		}
	}
	if scene.CameraNotes != "" {
		for _, line := range wrap(scene.CameraNotes, pageWidth-4) {
			b.WriteString("  > " + line + "\n")
		}
		b.WriteString("\n")
	}

	for _, dl := range sceneDialogue(tree, scene.ID) {
		writeDialogue(b, dl)
	}
}

func writeDialogue(b *strings.Builder, dl *show.DialogueLine) {
	name := dl.CharacterName
	if name == "" {
		name = "UNKNOWN"
	}
	b.WriteString(strings.Repeat(" ", speakerIndent) + upper.String(name) + "\n")

	if dir := strings.TrimSpace(dl.Direction); dir != "" {
		if !strings.HasPrefix(dir, "(") {
			dir = "(" + dir
		}
		if !strings.HasSuffix(dir, ")") {
			dir += ")"
		}
		for _, line := range wrap(dir, dialogueWidth) {
			b.WriteString(strings.Repeat(" ", parenIndent) + line + "\n")
		}
	}
	for _, line := range wrap(dl.LineText, dialogueWidth) {
		b.WriteString(strings.Repeat(" ", lineIndent) + line + "\n")
	}
	b.WriteString("\n")
}

// slugline builds "INT. LOCATION – TIME" with duration and mood tags
// right-aligned toward the page edge.
func slugline(tree *show.Tree, scene *show.Scene) string {
	prefix := "INT"
	name := "UNKNOWN LOCATION"
	if loc := findLocation(tree, scene.LocationID); loc != nil {
		name = loc.Name
		if strings.EqualFold(loc.Type, "exterior") || strings.EqualFold(loc.Type, "ext") {
			prefix = "EXT"
		}
	}

	timeOfDay := scene.TimeOfDay
	if timeOfDay == "" {
		timeOfDay = "day"
	}
	slug := fmt.Sprintf("%s. %s – %s", prefix, upper.String(name), upper.String(timeOfDay))

	var tags []string
	if scene.DurationSeconds > 0 {
		tags = append(tags, fmt.Sprintf("[%ds]", scene.DurationSeconds))
	}
	if scene.Mood != "" {
		tags = append(tags, "["+scene.Mood+"]")
	}
	if len(tags) == 0 {
		return slug
	}
	tagStr := strings.Join(tags, "  ")
	pad := pageWidth - len([]rune(slug)) - len([]rune(tagStr)) - 2
	if pad < 2 {
		pad = 2
	}
	return slug + strings.Repeat(" ", pad) + tagStr
}

func findLocation(tree *show.Tree, locationID string) *show.Location {
	if locationID == "" {
		return nil
	}
	for _, loc := range tree.Locations {
		if loc.ID == locationID {
			return loc
		}
	}
	return nil
}

func episodeScenes(tree *show.Tree, episodeID string) []*show.Scene {
	var scenes []*show.Scene
	for _, s := range tree.Scenes {
		if s.EpisodeID == episodeID {
			scenes = append(scenes, s)
		}
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].SceneNumber < scenes[j].SceneNumber
	})
	return scenes
}

func sceneDialogue(tree *show.Tree, sceneID string) []*show.DialogueLine {
	var lines []*show.DialogueLine
	for _, dl := range tree.DialogueLines {
		if dl.SceneID == sceneID {
			lines = append(lines, dl)
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].LineNumber < lines[j].LineNumber
	})
	return lines
}

// wrap word-wraps text to the given width, returning at least one line
// for non-empty input.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	return append(lines, current)
}

func writeBoxedLine(b *strings.Builder, text string) {
	inner := pageWidth - 2
	runes := []rune(text)
	if len(runes) > inner {
		text = string(runes[:inner])
		runes = runes[:inner]
	}
	left := (inner - len(runes)) / 2
	right := inner - left - len(runes)
	b.WriteString("║" + strings.Repeat(" ", left) + text + strings.Repeat(" ", right) + "║\n")
}
