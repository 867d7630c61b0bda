package generation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"telenovela/internal/logging"
	"telenovela/internal/show"
)

// defaultEpisodeBatch bounds one script generation round when the
// caller does not size it.
const defaultEpisodeBatch = 5

// episodeTarget pairs an episode row with the outline its script is
// written from.
type episodeTarget struct {
	episode *show.Episode
	summary *show.EpisodeSummary
}

// GenerateEpisodes writes full scripts for the next batchSize episodes
// that still need one. Scripts are generated in chunks; a failed chunk
// rolls back only its own episodes.
func (svc *Service) GenerateEpisodes(ctx context.Context, projectID string, batchSize int) (*Outcome, error) {
	tree, err := svc.store.LoadTree(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := requireApprovedStructure(tree); err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = defaultEpisodeBatch
	}

	done := make(map[int]bool, len(tree.Episodes))
	byNumber := make(map[int]*show.Episode, len(tree.Episodes))
	for _, episode := range tree.Episodes {
		byNumber[episode.EpisodeNumber] = episode
		if episode.State != show.GenerationPending {
			done[episode.EpisodeNumber] = true
		}
	}

	var targets []Target[*episodeTarget]
	for _, summary := range tree.Summaries {
		if done[summary.EpisodeNumber] || len(targets) >= batchSize {
			continue
		}
		episode := byNumber[summary.EpisodeNumber]
		if episode == nil {
			episode = &show.Episode{
				ProjectID:     projectID,
				EpisodeNumber: summary.EpisodeNumber,
				Title:         summary.Title,
			}
			if err := svc.store.CreateEpisode(ctx, episode); err != nil {
				return nil, err
			}
		}
		targets = append(targets, Target[*episodeTarget]{
			Key:    strconv.Itoa(summary.EpisodeNumber),
			Entity: &episodeTarget{episode: episode, summary: summary},
		})
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("generate episodes: project %s has no episodes left to generate", projectID)
	}

	characters := make([]CharacterContext, 0, len(tree.Characters))
	for _, c := range tree.Characters {
		characters = append(characters, characterContext(c))
	}
	locations := make([]LocationContext, 0, len(tree.Locations))
	for _, l := range tree.Locations {
		locations = append(locations, locationContext(l))
	}
	previous := priorRecaps(tree)

	hooks := Hooks[*episodeTarget, ScriptResult]{
		MarkGenerating: func(ctx context.Context, t *episodeTarget) error {
			if err := t.episode.MarkGenerating(); err != nil {
				return err
			}
			return svc.store.UpdateEpisodeState(ctx, t.episode.ID, t.episode.State)
		},
		Call: func(ctx context.Context, chunk []*episodeTarget) ([]Keyed[ScriptResult], error) {
			req := ScriptBatchRequest{
				Title:      tree.Project.Title,
				Setting:    tree.Project.Setting,
				Characters: characters,
				Locations:  locations,
				Previous:   previous,
			}
			for _, t := range chunk {
				req.Summaries = append(req.Summaries, SummaryResult{
					EpisodeNumber: t.summary.EpisodeNumber,
					Title:         t.summary.Title,
					Summary:       t.summary.Summary,
					KeyBeats:      t.summary.KeyBeats,
					Cliffhanger:   t.summary.Cliffhanger,
					EmotionalArc:  t.summary.EmotionalArc,
				})
			}
			scripts, err := svc.gen.EpisodeScripts(ctx, req)
			if err != nil {
				return nil, err
			}
			keyed := make([]Keyed[ScriptResult], 0, len(scripts))
			for _, script := range scripts {
				keyed = append(keyed, Keyed[ScriptResult]{
					Key:   strconv.Itoa(script.EpisodeNumber),
					Value: script,
				})
			}
			return keyed, nil
		},
		Apply: func(ctx context.Context, t *episodeTarget, script ScriptResult) error {
			if err := svc.applyScript(ctx, tree, t, script); err != nil {
				return err
			}
			previous = append(previous, EpisodeRecap{
				EpisodeNumber: t.episode.EpisodeNumber,
				Title:         t.episode.Title,
				Summary:       t.summary.Summary,
			})
			return nil
		},
		Rollback: func(ctx context.Context, t *episodeTarget) error {
			if err := t.episode.ResetForRegen(); err != nil {
				return err
			}
			return svc.store.UpdateEpisodeState(ctx, t.episode.ID, t.episode.State)
		},
	}

	outcome, err := RunChunks(ctx, svc.logger, svc.chunkSize(), targets, hooks)
	if outcome != nil {
		svc.logger.Info("episode batch finished",
			logging.FieldProjectID, projectID,
			"requested", outcome.Requested,
			"applied", outcome.Applied,
			"rolled_back", outcome.RolledBack)
	}
	return outcome, err
}

// applyScript writes one script onto its episode: scalar fields, the
// generated transition, and a full scene/dialogue replacement in one
// transaction.
func (svc *Service) applyScript(ctx context.Context, tree *show.Tree, t *episodeTarget, script ScriptResult) error {
	episode := t.episode
	if script.Title != "" {
		episode.Title = script.Title
	}
	episode.ColdOpen = script.ColdOpen
	episode.MusicCue = script.MusicCue
	episode.CliffhangerMoment = script.CliffhangerMoment
	if err := episode.MarkGenerated(); err != nil {
		return err
	}

	locationsByName := make(map[string]*show.Location, len(tree.Locations))
	for _, l := range tree.Locations {
		locationsByName[strings.ToLower(l.Name)] = l
	}
	charactersByName := make(map[string]*show.Character, len(tree.Characters))
	for _, c := range tree.Characters {
		charactersByName[strings.ToLower(c.Name)] = c
	}

	var scenes []*show.Scene
	var lines []*show.DialogueLine
	for _, sr := range script.Scenes {
		scene := &show.Scene{
			ID:              uuid.NewString(),
			EpisodeID:       episode.ID,
			SceneNumber:     sr.SceneNumber,
			Title:           sr.Title,
			DurationSeconds: sr.DurationSeconds,
			TimeOfDay:       sr.TimeOfDay,
			Mood:            sr.Mood,
			ActionBeats:     sr.ActionBeats,
			CameraNotes:     sr.CameraNotes,
		}
		if location := locationsByName[strings.ToLower(sr.Location)]; location != nil {
			scene.LocationID = location.ID
		}
		scenes = append(scenes, scene)

		for i, dr := range sr.Dialogue {
			line := &show.DialogueLine{
				SceneID:       scene.ID,
				LineNumber:    i + 1,
				CharacterName: dr.Character,
				LineText:      dr.Line,
				Direction:     dr.Direction,
				Emotion:       dr.Emotion,
			}
			if character := charactersByName[strings.ToLower(dr.Character)]; character != nil {
				line.CharacterID = character.ID
			}
			lines = append(lines, line)
		}
	}

	return svc.store.SaveEpisodeScript(ctx, episode, scenes, lines)
}

// requireApprovedStructure rejects script generation while any
// character, location, or episode summary is still unapproved.
func requireApprovedStructure(tree *show.Tree) error {
	for _, c := range tree.Characters {
		if c.State != show.StructureApproved {
			return fmt.Errorf("generate episodes: character %q is not approved", c.Name)
		}
	}
	for _, l := range tree.Locations {
		if l.State != show.StructureApproved {
			return fmt.Errorf("generate episodes: location %q is not approved", l.Name)
		}
	}
	for _, s := range tree.Summaries {
		if s.State != show.StructureApproved {
			return fmt.Errorf("generate episodes: episode %d summary is not approved", s.EpisodeNumber)
		}
	}
	if len(tree.Summaries) == 0 {
		return fmt.Errorf("generate episodes: project has no episode summaries")
	}
	return nil
}

// priorRecaps collects already finished episodes as context for the
// next scripts.
func priorRecaps(tree *show.Tree) []EpisodeRecap {
	summaryText := make(map[int]string, len(tree.Summaries))
	for _, s := range tree.Summaries {
		summaryText[s.EpisodeNumber] = s.Summary
	}
	var recaps []EpisodeRecap
	for _, e := range tree.Episodes {
		if e.State != show.GenerationGenerated && e.State != show.GenerationApproved {
			continue
		}
		recaps = append(recaps, EpisodeRecap{
			EpisodeNumber: e.EpisodeNumber,
			Title:         e.Title,
			Summary:       summaryText[e.EpisodeNumber],
		})
	}
	return recaps
}
