package show

import (
	"context"
	"database/sql"
	"fmt"
)

const projectColumns = "id, title, setting, num_episodes, current_step, created_at, updated_at"

func scanProject(scanner rowScanner) (*Project, error) {
	var (
		id          string
		title       sql.NullString
		setting     sql.NullString
		numEpisodes int
		currentStep int
		createdRaw  string
		updatedRaw  string
	)
	if err := scanner.Scan(&id, &title, &setting, &numEpisodes, &currentStep, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	project := &Project{
		ID:          id,
		Title:       title.String,
		Setting:     setting.String,
		NumEpisodes: numEpisodes,
		CurrentStep: currentStep,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		project.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		project.UpdatedAt = updated
	}
	return project, nil
}

// CreateProject inserts a new project at step 1.
func (s *Store) CreateProject(ctx context.Context, title, setting string, numEpisodes int) (*Project, error) {
	if numEpisodes <= 0 {
		numEpisodes = 20
	}
	now := nowUTC()
	project := &Project{
		ID:          newID(),
		Title:       title,
		Setting:     setting,
		NumEpisodes: numEpisodes,
		CurrentStep: FirstStep,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := s.execWithRetry(ctx,
		"INSERT INTO projects ("+projectColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		project.ID,
		nullableString(project.Title),
		nullableString(project.Setting),
		project.NumEpisodes,
		project.CurrentStep,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return project, nil
}

// GetProject fetches a project by ID.
func (s *Store) GetProject(ctx context.Context, id string) (*Project, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	project, err := scanProject(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return project, nil
}

// ListProjects returns all projects, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]*Project, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// UpdateProject persists title, setting, and episode count changes.
func (s *Store) UpdateProject(ctx context.Context, project *Project) error {
	project.UpdatedAt = nowUTC()
	res, err := s.execWithRetry(ctx,
		"UPDATE projects SET title = ?, setting = ?, num_episodes = ?, updated_at = ? WHERE id = ?",
		nullableString(project.Title),
		nullableString(project.Setting),
		project.NumEpisodes,
		formatTime(project.UpdatedAt),
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return requireAffected(res, "update project")
}

// AdvanceStep moves the project to the given step. The step must be the
// immediate successor of the persisted current step; callers consult the
// gate first, and the guard here keeps current_step monotonic even when
// two requests race.
func (s *Store) AdvanceStep(ctx context.Context, projectID string, step int) (*Project, error) {
	if step < FirstStep || step > MaxStep {
		return nil, fmt.Errorf("step %d out of range", step)
	}
	var project *Project
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			"SELECT "+projectColumns+" FROM projects WHERE id = ?", projectID)
		current, err := scanProject(row)
		if err != nil {
			return mapNoRows(err)
		}
		if step != current.CurrentStep+1 {
			return fmt.Errorf("advance step: project at step %d, cannot set step %d", current.CurrentStep, step)
		}
		now := nowUTC()
		if _, err := tx.ExecContext(ctx,
			"UPDATE projects SET current_step = ?, updated_at = ? WHERE id = ? AND current_step = ?",
			step, formatTime(now), projectID, current.CurrentStep,
		); err != nil {
			return fmt.Errorf("advance step: %w", err)
		}
		current.CurrentStep = step
		current.UpdatedAt = now
		project = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes a project; foreign keys cascade the delete down
// the whole ownership tree.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return requireAffected(res, "delete project")
}

// LoadTree loads a project and its full ownership tree. Every gate
// decision and export goes through this snapshot.
func (s *Store) LoadTree(ctx context.Context, projectID string) (*Tree, error) {
	ctx = ensureContext(ctx)
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tree := &Tree{
		Project:       project,
		CharacterRefs: make(map[string]*CharacterRef),
		LocationRefs:  make(map[string]*LocationRef),
		Images:        make(map[string]*GeneratedImage),
		Videos:        make(map[string]*GeneratedVideo),
	}

	if tree.Ideas, err = s.ListIdeas(ctx, projectID); err != nil {
		return nil, err
	}
	if tree.Characters, err = s.ListCharacters(ctx, projectID); err != nil {
		return nil, err
	}
	if tree.Locations, err = s.ListLocations(ctx, projectID); err != nil {
		return nil, err
	}
	if tree.Summaries, err = s.ListEpisodeSummaries(ctx, projectID); err != nil {
		return nil, err
	}
	if tree.Episodes, err = s.ListEpisodes(ctx, projectID); err != nil {
		return nil, err
	}
	if tree.Scenes, err = s.listProjectScenes(ctx, projectID); err != nil {
		return nil, err
	}
	if tree.DialogueLines, err = s.listProjectDialogue(ctx, projectID); err != nil {
		return nil, err
	}
	if tree.ImagePrompts, err = s.listProjectImagePrompts(ctx, projectID); err != nil {
		return nil, err
	}
	if tree.VideoPrompts, err = s.listProjectVideoPrompts(ctx, projectID); err != nil {
		return nil, err
	}
	if tree.Thumbnails, err = s.ListThumbnails(ctx, projectID); err != nil {
		return nil, err
	}

	refs, err := s.listProjectCharacterRefs(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		tree.CharacterRefs[ref.CharacterID] = ref
	}
	locRefs, err := s.listProjectLocationRefs(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, ref := range locRefs {
		tree.LocationRefs[ref.LocationID] = ref
	}
	images, err := s.listProjectImages(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		tree.Images[img.ImagePromptID] = img
	}
	videos, err := s.listProjectVideos(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, vid := range videos {
		tree.Videos[vid.VideoPromptID] = vid
	}

	return tree, nil
}
