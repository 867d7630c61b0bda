package show

import (
	"context"
	"fmt"
)

// ProjectSummary pairs a project with the counts the list surfaces show.
type ProjectSummary struct {
	*Project
	IdeaCount           int `json:"idea_count"`
	EpisodeCount        int `json:"episode_count"`
	EpisodesGenerated   int `json:"episodes_generated"`
	ImagesPendingReview int `json:"images_pending_review"`
}

// ListProjectSummaries returns all projects with their headline counts,
// newest first.
func (s *Store) ListProjectSummaries(ctx context.Context) ([]*ProjectSummary, error) {
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]*ProjectSummary, 0, len(projects))
	for _, project := range projects {
		summary := &ProjectSummary{Project: project}
		if err := s.fillSummaryCounts(ctx, summary); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetProjectSummary returns one project with its headline counts.
func (s *Store) GetProjectSummary(ctx context.Context, projectID string) (*ProjectSummary, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	summary := &ProjectSummary{Project: project}
	if err := s.fillSummaryCounts(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *Store) fillSummaryCounts(ctx context.Context, summary *ProjectSummary) error {
	ctx = ensureContext(ctx)
	id := summary.Project.ID

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(1) FROM ideas WHERE project_id = ?", &summary.IdeaCount},
		{"SELECT COUNT(1) FROM episodes WHERE project_id = ?", &summary.EpisodeCount},
		{"SELECT COUNT(1) FROM episodes WHERE project_id = ? AND state IN ('generated', 'approved')", &summary.EpisodesGenerated},
		{`SELECT COUNT(1) FROM generated_images g
		  JOIN image_prompts p ON p.id = g.image_prompt_id
		  JOIN scenes s ON s.id = p.scene_id
		  JOIN episodes e ON e.id = s.episode_id
		  WHERE e.project_id = ? AND g.state = 'generated'`, &summary.ImagesPendingReview},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, id).Scan(c.dest); err != nil {
			return fmt.Errorf("count for project summary: %w", err)
		}
	}
	return nil
}

// Health verifies the database connection is usable.
func (s *Store) Health(ctx context.Context) error {
	ctx = ensureContext(ctx)
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database health: %w", err)
	}
	return nil
}
