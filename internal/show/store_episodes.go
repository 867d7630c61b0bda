package show

import (
	"context"
	"database/sql"
	"fmt"
)

const episodeColumns = "id, project_id, episode_number, title, cold_open, music_cue, cliffhanger_moment, state, created_at"

func scanEpisode(scanner rowScanner) (*Episode, error) {
	var (
		id          string
		projectID   string
		number      int
		title       sql.NullString
		coldOpen    sql.NullString
		musicCue    sql.NullString
		cliffhanger sql.NullString
		stateStr    string
		createdRaw  string
	)
	if err := scanner.Scan(&id, &projectID, &number, &title, &coldOpen, &musicCue, &cliffhanger, &stateStr, &createdRaw); err != nil {
		return nil, err
	}
	episode := &Episode{
		ID:                id,
		ProjectID:         projectID,
		EpisodeNumber:     number,
		Title:             title.String,
		ColdOpen:          coldOpen.String,
		MusicCue:          musicCue.String,
		CliffhangerMoment: cliffhanger.String,
		State:             GenerationState(stateStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		episode.CreatedAt = created
	}
	return episode, nil
}

// CreateEpisode inserts a pending episode shell. Script content arrives
// later through SaveEpisodeScript.
func (s *Store) CreateEpisode(ctx context.Context, e *Episode) error {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.State == "" {
		e.State = GenerationPending
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = nowUTC()
	}
	_, err := s.execWithRetry(ctx,
		"INSERT INTO episodes ("+episodeColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.ProjectID, e.EpisodeNumber,
		nullableString(e.Title), nullableString(e.ColdOpen), nullableString(e.MusicCue),
		nullableString(e.CliffhangerMoment),
		string(e.State), formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert episode: %w", err)
	}
	return nil
}

// GetEpisode fetches an episode by ID.
func (s *Store) GetEpisode(ctx context.Context, id string) (*Episode, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+episodeColumns+" FROM episodes WHERE id = ?", id)
	episode, err := scanEpisode(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return episode, nil
}

// ListEpisodes returns a project's episodes ordered by episode number.
func (s *Store) ListEpisodes(ctx context.Context, projectID string) ([]*Episode, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+episodeColumns+" FROM episodes WHERE project_id = ? ORDER BY episode_number", projectID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	var episodes []*Episode
	for rows.Next() {
		episode, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		episodes = append(episodes, episode)
	}
	return episodes, rows.Err()
}

// UpdateEpisode persists episode fields and state.
func (s *Store) UpdateEpisode(ctx context.Context, e *Episode) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE episodes SET episode_number = ?, title = ?, cold_open = ?, music_cue = ?,
		 cliffhanger_moment = ?, state = ? WHERE id = ?`,
		e.EpisodeNumber,
		nullableString(e.Title), nullableString(e.ColdOpen), nullableString(e.MusicCue),
		nullableString(e.CliffhangerMoment),
		string(e.State), e.ID,
	)
	if err != nil {
		return fmt.Errorf("update episode: %w", err)
	}
	return requireAffected(res, "update episode")
}

// UpdateEpisodeState persists only the state column. Batch orchestration
// uses this for the generating/rollback bookkeeping where content fields
// must stay untouched.
func (s *Store) UpdateEpisodeState(ctx context.Context, id string, state GenerationState) error {
	res, err := s.execWithRetry(ctx,
		"UPDATE episodes SET state = ? WHERE id = ?", string(state), id)
	if err != nil {
		return fmt.Errorf("update episode state: %w", err)
	}
	return requireAffected(res, "update episode state")
}

// DeleteEpisode removes an episode and cascades its scenes.
func (s *Store) DeleteEpisode(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM episodes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete episode: %w", err)
	}
	return requireAffected(res, "delete episode")
}

// SaveEpisodeScript replaces an episode's script in one transaction:
// episode fields and state, then all scenes and dialogue lines. Any
// previous scenes are dropped first so a regeneration never leaves
// leftovers from the prior script.
func (s *Store) SaveEpisodeScript(ctx context.Context, episode *Episode, scenes []*Scene, lines []*DialogueLine) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM scenes WHERE episode_id = ?", episode.ID); err != nil {
			return fmt.Errorf("clear scenes: %w", err)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE episodes SET title = ?, cold_open = ?, music_cue = ?, cliffhanger_moment = ?, state = ?
			 WHERE id = ?`,
			nullableString(episode.Title), nullableString(episode.ColdOpen),
			nullableString(episode.MusicCue), nullableString(episode.CliffhangerMoment),
			string(episode.State), episode.ID,
		)
		if err != nil {
			return fmt.Errorf("update episode: %w", err)
		}
		if err := requireAffected(res, "update episode"); err != nil {
			return err
		}
		for _, scene := range scenes {
			if scene.ID == "" {
				scene.ID = newID()
			}
			if scene.CreatedAt.IsZero() {
				scene.CreatedAt = nowUTC()
			}
			if scene.DurationSeconds == 0 {
				scene.DurationSeconds = 60
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO scenes ("+sceneColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
				scene.ID, scene.EpisodeID, nullableString(scene.LocationID), scene.SceneNumber,
				nullableString(scene.Title), scene.DurationSeconds,
				nullableString(scene.TimeOfDay), nullableString(scene.Mood),
				encodeStrings(scene.ActionBeats), nullableString(scene.CameraNotes),
				formatTime(scene.CreatedAt),
			); err != nil {
				return fmt.Errorf("insert scene: %w", err)
			}
		}
		for _, line := range lines {
			if line.ID == "" {
				line.ID = newID()
			}
			if line.CreatedAt.IsZero() {
				line.CreatedAt = nowUTC()
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO dialogue_lines ("+dialogueColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
				line.ID, line.SceneID, nullableString(line.CharacterID), line.LineNumber,
				nullableString(line.CharacterName), line.LineText,
				nullableString(line.Direction), nullableString(line.Emotion),
				formatTime(line.CreatedAt),
			); err != nil {
				return fmt.Errorf("insert dialogue line: %w", err)
			}
		}
		return nil
	})
}

const sceneColumns = "id, episode_id, location_id, scene_number, title, duration_seconds, time_of_day, mood, action_beats, camera_notes, created_at"

func scanScene(scanner rowScanner) (*Scene, error) {
	var (
		id          string
		episodeID   string
		locationID  sql.NullString
		number      int
		title       sql.NullString
		duration    int
		timeOfDay   sql.NullString
		mood        sql.NullString
		actionBeats sql.NullString
		cameraNotes sql.NullString
		createdRaw  string
	)
	if err := scanner.Scan(&id, &episodeID, &locationID, &number, &title, &duration, &timeOfDay, &mood, &actionBeats, &cameraNotes, &createdRaw); err != nil {
		return nil, err
	}
	scene := &Scene{
		ID:              id,
		EpisodeID:       episodeID,
		LocationID:      locationID.String,
		SceneNumber:     number,
		Title:           title.String,
		DurationSeconds: duration,
		TimeOfDay:       timeOfDay.String,
		Mood:            mood.String,
		ActionBeats:     decodeStrings(actionBeats),
		CameraNotes:     cameraNotes.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		scene.CreatedAt = created
	}
	return scene, nil
}

// GetScene fetches a scene by ID.
func (s *Store) GetScene(ctx context.Context, id string) (*Scene, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+sceneColumns+" FROM scenes WHERE id = ?", id)
	scene, err := scanScene(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return scene, nil
}

// ListScenes returns an episode's scenes in order.
func (s *Store) ListScenes(ctx context.Context, episodeID string) ([]*Scene, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sceneColumns+" FROM scenes WHERE episode_id = ? ORDER BY scene_number", episodeID)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer rows.Close()
	return collectScenes(rows)
}

func (s *Store) listProjectScenes(ctx context.Context, projectID string) ([]*Scene, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.episode_id, s.location_id, s.scene_number, s.title, s.duration_seconds,
		        s.time_of_day, s.mood, s.action_beats, s.camera_notes, s.created_at
		 FROM scenes s
		 JOIN episodes e ON e.id = s.episode_id
		 WHERE e.project_id = ?
		 ORDER BY e.episode_number, s.scene_number`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project scenes: %w", err)
	}
	defer rows.Close()
	return collectScenes(rows)
}

func collectScenes(rows *sql.Rows) ([]*Scene, error) {
	var scenes []*Scene
	for rows.Next() {
		scene, err := scanScene(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scene: %w", err)
		}
		scenes = append(scenes, scene)
	}
	return scenes, rows.Err()
}

const dialogueColumns = "id, scene_id, character_id, line_number, character_name, line_text, direction, emotion, created_at"

func scanDialogueLine(scanner rowScanner) (*DialogueLine, error) {
	var (
		id            string
		sceneID       string
		characterID   sql.NullString
		lineNumber    int
		characterName sql.NullString
		lineText      string
		direction     sql.NullString
		emotion       sql.NullString
		createdRaw    string
	)
	if err := scanner.Scan(&id, &sceneID, &characterID, &lineNumber, &characterName, &lineText, &direction, &emotion, &createdRaw); err != nil {
		return nil, err
	}
	line := &DialogueLine{
		ID:            id,
		SceneID:       sceneID,
		CharacterID:   characterID.String,
		LineNumber:    lineNumber,
		CharacterName: characterName.String,
		LineText:      lineText,
		Direction:     direction.String,
		Emotion:       emotion.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		line.CreatedAt = created
	}
	return line, nil
}

// ListDialogueLines returns a scene's dialogue in order.
func (s *Store) ListDialogueLines(ctx context.Context, sceneID string) ([]*DialogueLine, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+dialogueColumns+" FROM dialogue_lines WHERE scene_id = ? ORDER BY line_number", sceneID)
	if err != nil {
		return nil, fmt.Errorf("list dialogue lines: %w", err)
	}
	defer rows.Close()
	return collectDialogue(rows)
}

func (s *Store) listProjectDialogue(ctx context.Context, projectID string) ([]*DialogueLine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.scene_id, d.character_id, d.line_number, d.character_name, d.line_text,
		        d.direction, d.emotion, d.created_at
		 FROM dialogue_lines d
		 JOIN scenes s ON s.id = d.scene_id
		 JOIN episodes e ON e.id = s.episode_id
		 WHERE e.project_id = ?
		 ORDER BY e.episode_number, s.scene_number, d.line_number`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project dialogue: %w", err)
	}
	defer rows.Close()
	return collectDialogue(rows)
}

func collectDialogue(rows *sql.Rows) ([]*DialogueLine, error) {
	var lines []*DialogueLine
	for rows.Next() {
		line, err := scanDialogueLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dialogue line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
