package generation

import (
	"context"
	"fmt"
	"log/slog"

	"telenovela/internal/config"
	"telenovela/internal/logging"
	"telenovela/internal/show"
)

// Service drives the pipeline steps against the store and a Generator.
type Service struct {
	store  *show.Store
	gen    Generator
	cfg    *config.Config
	logger *slog.Logger
}

// NewService wires a generation service. A nil logger falls back to a
// no-op logger.
func NewService(store *show.Store, gen Generator, cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store:  store,
		gen:    gen,
		cfg:    cfg,
		logger: logger.With(logging.FieldComponent, "generation"),
	}
}

func (svc *Service) chunkSize() int {
	if svc.cfg != nil && svc.cfg.Generation.ChunkSize > 0 {
		return svc.cfg.Generation.ChunkSize
	}
	return DefaultChunkSize
}

// GenerateIdeas pitches new premises for the project and stores them as
// drafts alongside any existing ideas.
func (svc *Service) GenerateIdeas(ctx context.Context, projectID, settingHint string) ([]*show.Idea, error) {
	if _, err := svc.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	count := 3
	if svc.cfg != nil && svc.cfg.Generation.IdeaCount > 0 {
		count = svc.cfg.Generation.IdeaCount
	}
	results, err := svc.gen.Ideas(ctx, IdeaRequest{SettingHint: settingHint, Count: count})
	if err != nil {
		return nil, fmt.Errorf("generate ideas: %w", err)
	}

	ideas := make([]*show.Idea, 0, len(results))
	for _, r := range results {
		idea := &show.Idea{
			ProjectID:    projectID,
			Title:        r.Title,
			Setting:      r.Setting,
			Logline:      r.Logline,
			Hook:         r.Hook,
			MainConflict: r.MainConflict,
		}
		if err := svc.store.CreateIdea(ctx, idea); err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	svc.logger.Info("ideas generated",
		logging.FieldProjectID, projectID, "count", len(ideas))
	return ideas, nil
}

// StructureCounts reports what one structure generation round created.
type StructureCounts struct {
	Characters int `json:"characters"`
	Locations  int `json:"locations"`
	Summaries  int `json:"summaries"`
}

// GenerateStructure builds the cast, the sets, and the episode arc for
// the project's approved idea. All entities start as drafts awaiting
// review.
func (svc *Service) GenerateStructure(ctx context.Context, projectID string) (*StructureCounts, error) {
	project, err := svc.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	ideas, err := svc.store.ListIdeas(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var approved *show.Idea
	for _, idea := range ideas {
		if idea.State == show.IdeaApproved {
			approved = idea
			break
		}
	}
	if approved == nil {
		return nil, fmt.Errorf("generate structure: project %s has no approved idea", projectID)
	}

	req := StructureRequest{
		Title:        approved.Title,
		Setting:      approved.Setting,
		Logline:      approved.Logline,
		MainConflict: approved.MainConflict,
		NumEpisodes:  project.NumEpisodes,
	}

	counts := &StructureCounts{}

	characters, err := svc.gen.Characters(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate characters: %w", err)
	}
	for _, r := range characters {
		character := &show.Character{
			ProjectID:           projectID,
			Name:                r.Name,
			Role:                r.Role,
			Archetype:           r.Archetype,
			Age:                 r.Age,
			PhysicalDescription: r.PhysicalDescription,
			Personality:         r.Personality,
			Motivation:          r.Motivation,
			Secret:              r.Secret,
			Arc:                 r.Arc,
		}
		if err := svc.store.CreateCharacter(ctx, character); err != nil {
			return nil, err
		}
		req.Characters = append(req.Characters, characterContext(character))
		counts.Characters++
	}

	locations, err := svc.gen.Locations(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate locations: %w", err)
	}
	for _, r := range locations {
		location := &show.Location{
			ProjectID:     projectID,
			Name:          r.Name,
			Type:          r.Type,
			Description:   r.Description,
			Mood:          r.Mood,
			Significance:  r.Significance,
			VisualDetails: r.VisualDetails,
		}
		if err := svc.store.CreateLocation(ctx, location); err != nil {
			return nil, err
		}
		req.Locations = append(req.Locations, locationContext(location))
		counts.Locations++
	}

	arc, err := svc.gen.EpisodeArc(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate episode arc: %w", err)
	}
	for _, r := range arc {
		summary := &show.EpisodeSummary{
			ProjectID:     projectID,
			EpisodeNumber: r.EpisodeNumber,
			Title:         r.Title,
			Summary:       r.Summary,
			KeyBeats:      r.KeyBeats,
			Cliffhanger:   r.Cliffhanger,
			EmotionalArc:  r.EmotionalArc,
		}
		if err := svc.store.CreateEpisodeSummary(ctx, summary); err != nil {
			return nil, err
		}
		counts.Summaries++
	}

	svc.logger.Info("structure generated",
		logging.FieldProjectID, projectID,
		"characters", counts.Characters,
		"locations", counts.Locations,
		"summaries", counts.Summaries)
	return counts, nil
}

func characterContext(c *show.Character) CharacterContext {
	return CharacterContext{
		Name:                c.Name,
		Role:                c.Role,
		Archetype:           c.Archetype,
		PhysicalDescription: c.PhysicalDescription,
		Personality:         c.Personality,
		Secret:              c.Secret,
	}
}

func locationContext(l *show.Location) LocationContext {
	return LocationContext{
		Name:          l.Name,
		Type:          l.Type,
		Description:   l.Description,
		Mood:          l.Mood,
		VisualDetails: l.VisualDetails,
	}
}
