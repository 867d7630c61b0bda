package daemon

import (
	"net/http"
	"sort"
	"time"

	"telenovela/internal/screenplay"
	"telenovela/internal/show"
)

// exportDocument is the full project snapshot returned by the export
// endpoint: every entity with its review state and any rendered media.
type exportDocument struct {
	Meta       exportMeta             `json:"meta"`
	Project    *show.Project          `json:"project"`
	Ideas      []*show.Idea           `json:"ideas"`
	Characters []exportCharacter      `json:"characters"`
	Locations  []exportLocation       `json:"locations"`
	Summaries  []*show.EpisodeSummary `json:"episode_summaries"`
	Episodes   []exportEpisode        `json:"episodes"`
	Thumbnails []*show.Thumbnail      `json:"thumbnails"`
}

type exportMeta struct {
	ExportedAt  time.Time `json:"exported_at"`
	ProjectID   string    `json:"project_id"`
	Title       string    `json:"title"`
	CurrentStep int       `json:"current_step"`
}

type exportCharacter struct {
	*show.Character
	Reference *show.CharacterRef `json:"reference,omitempty"`
}

type exportLocation struct {
	*show.Location
	Reference *show.LocationRef `json:"reference,omitempty"`
}

type exportEpisode struct {
	*show.Episode
	Scenes []exportScene `json:"scenes"`
}

type exportScene struct {
	*show.Scene
	LocationName string               `json:"location_name,omitempty"`
	Dialogue     []*show.DialogueLine `json:"dialogue"`
	ImagePrompts []exportImagePrompt  `json:"image_prompts"`
	VideoPrompts []exportVideoPrompt  `json:"video_prompts"`
}

type exportImagePrompt struct {
	*show.ImagePrompt
	GeneratedImage *show.GeneratedImage `json:"generated_image,omitempty"`
}

type exportVideoPrompt struct {
	*show.VideoPrompt
	GeneratedVideo *show.GeneratedVideo `json:"generated_video,omitempty"`
}

func (s *apiServer) handleExportProject(w http.ResponseWriter, r *http.Request) {
	tree, err := s.daemon.store.LoadTree(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, buildExport(tree))
}

func (s *apiServer) handleExportScreenplay(w http.ResponseWriter, r *http.Request) {
	tree, err := s.daemon.store.LoadTree(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(screenplay.FormatProject(tree)))
}

func buildExport(tree *show.Tree) *exportDocument {
	doc := &exportDocument{
		Meta: exportMeta{
			ExportedAt:  time.Now().UTC(),
			ProjectID:   tree.Project.ID,
			Title:       tree.Project.Title,
			CurrentStep: tree.Project.CurrentStep,
		},
		Project:    tree.Project,
		Ideas:      tree.Ideas,
		Summaries:  sortedSummaries(tree.Summaries),
		Thumbnails: tree.Thumbnails,
	}

	for _, c := range tree.Characters {
		doc.Characters = append(doc.Characters, exportCharacter{
			Character: c,
			Reference: tree.CharacterRefs[c.ID],
		})
	}
	locationNames := make(map[string]string, len(tree.Locations))
	for _, l := range tree.Locations {
		locationNames[l.ID] = l.Name
		doc.Locations = append(doc.Locations, exportLocation{
			Location:  l,
			Reference: tree.LocationRefs[l.ID],
		})
	}

	imagePrompts := make(map[string][]*show.ImagePrompt)
	for _, p := range tree.ImagePrompts {
		imagePrompts[p.SceneID] = append(imagePrompts[p.SceneID], p)
	}
	videoPrompts := make(map[string][]*show.VideoPrompt)
	for _, p := range tree.VideoPrompts {
		videoPrompts[p.SceneID] = append(videoPrompts[p.SceneID], p)
	}
	dialogue := make(map[string][]*show.DialogueLine)
	for _, dl := range tree.DialogueLines {
		dialogue[dl.SceneID] = append(dialogue[dl.SceneID], dl)
	}
	scenes := make(map[string][]*show.Scene)
	for _, sc := range tree.Scenes {
		scenes[sc.EpisodeID] = append(scenes[sc.EpisodeID], sc)
	}

	episodes := append([]*show.Episode(nil), tree.Episodes...)
	sort.Slice(episodes, func(i, j int) bool {
		return episodes[i].EpisodeNumber < episodes[j].EpisodeNumber
	})
	for _, ep := range episodes {
		exp := exportEpisode{Episode: ep, Scenes: []exportScene{}}
		epScenes := scenes[ep.ID]
		sort.Slice(epScenes, func(i, j int) bool {
			return epScenes[i].SceneNumber < epScenes[j].SceneNumber
		})
		for _, sc := range epScenes {
			scene := exportScene{
				Scene:        sc,
				LocationName: locationNames[sc.LocationID],
				Dialogue:     sortedDialogue(dialogue[sc.ID]),
				ImagePrompts: []exportImagePrompt{},
				VideoPrompts: []exportVideoPrompt{},
			}
			prompts := imagePrompts[sc.ID]
			sort.Slice(prompts, func(i, j int) bool {
				return prompts[i].ShotNumber < prompts[j].ShotNumber
			})
			for _, p := range prompts {
				scene.ImagePrompts = append(scene.ImagePrompts, exportImagePrompt{
					ImagePrompt:    p,
					GeneratedImage: tree.Images[p.ID],
				})
			}
			segments := videoPrompts[sc.ID]
			sort.Slice(segments, func(i, j int) bool {
				return segments[i].SegmentNumber < segments[j].SegmentNumber
			})
			for _, p := range segments {
				scene.VideoPrompts = append(scene.VideoPrompts, exportVideoPrompt{
					VideoPrompt:    p,
					GeneratedVideo: tree.Videos[p.ID],
				})
			}
			exp.Scenes = append(exp.Scenes, scene)
		}
		doc.Episodes = append(doc.Episodes, exp)
	}
	return doc
}

func sortedSummaries(summaries []*show.EpisodeSummary) []*show.EpisodeSummary {
	out := append([]*show.EpisodeSummary(nil), summaries...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].EpisodeNumber < out[j].EpisodeNumber
	})
	return out
}

func sortedDialogue(lines []*show.DialogueLine) []*show.DialogueLine {
	out := append([]*show.DialogueLine(nil), lines...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].LineNumber < out[j].LineNumber
	})
	return out
}
