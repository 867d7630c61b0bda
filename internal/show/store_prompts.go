package show

import (
	"context"
	"database/sql"
	"fmt"
)

const imagePromptColumns = "id, scene_id, shot_number, shot_type, description, prompt_text, negative_prompt, state, created_at"

func scanImagePrompt(scanner rowScanner) (*ImagePrompt, error) {
	var (
		id          string
		sceneID     string
		shotNumber  int
		shotType    sql.NullString
		description sql.NullString
		promptText  sql.NullString
		negative    sql.NullString
		stateStr    string
		createdRaw  string
	)
	if err := scanner.Scan(&id, &sceneID, &shotNumber, &shotType, &description, &promptText, &negative, &stateStr, &createdRaw); err != nil {
		return nil, err
	}
	prompt := &ImagePrompt{
		ID:             id,
		SceneID:        sceneID,
		ShotNumber:     shotNumber,
		ShotType:       shotType.String,
		Description:    description.String,
		PromptText:     promptText.String,
		NegativePrompt: negative.String,
		State:          PromptState(stateStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		prompt.CreatedAt = created
	}
	return prompt, nil
}

// CreateImagePrompt inserts one shot prompt for a scene.
func (s *Store) CreateImagePrompt(ctx context.Context, p *ImagePrompt) error {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.State == "" {
		p.State = PromptPending
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = nowUTC()
	}
	_, err := s.execWithRetry(ctx,
		"INSERT INTO image_prompts ("+imagePromptColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.SceneID, p.ShotNumber,
		nullableString(p.ShotType), nullableString(p.Description),
		nullableString(p.PromptText), nullableString(p.NegativePrompt),
		string(p.State), formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert image prompt: %w", err)
	}
	return nil
}

// GetImagePrompt fetches an image prompt by ID.
func (s *Store) GetImagePrompt(ctx context.Context, id string) (*ImagePrompt, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+imagePromptColumns+" FROM image_prompts WHERE id = ?", id)
	prompt, err := scanImagePrompt(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return prompt, nil
}

// ListImagePrompts returns a scene's shot prompts in shot order.
func (s *Store) ListImagePrompts(ctx context.Context, sceneID string) ([]*ImagePrompt, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+imagePromptColumns+" FROM image_prompts WHERE scene_id = ? ORDER BY shot_number", sceneID)
	if err != nil {
		return nil, fmt.Errorf("list image prompts: %w", err)
	}
	defer rows.Close()
	return collectImagePrompts(rows)
}

func (s *Store) listProjectImagePrompts(ctx context.Context, projectID string) ([]*ImagePrompt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.scene_id, p.shot_number, p.shot_type, p.description, p.prompt_text,
		        p.negative_prompt, p.state, p.created_at
		 FROM image_prompts p
		 JOIN scenes s ON s.id = p.scene_id
		 JOIN episodes e ON e.id = s.episode_id
		 WHERE e.project_id = ?
		 ORDER BY e.episode_number, s.scene_number, p.shot_number`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project image prompts: %w", err)
	}
	defer rows.Close()
	return collectImagePrompts(rows)
}

func collectImagePrompts(rows *sql.Rows) ([]*ImagePrompt, error) {
	var prompts []*ImagePrompt
	for rows.Next() {
		prompt, err := scanImagePrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image prompt: %w", err)
		}
		prompts = append(prompts, prompt)
	}
	return prompts, rows.Err()
}

// UpdateImagePrompt persists content and state changes.
func (s *Store) UpdateImagePrompt(ctx context.Context, p *ImagePrompt) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE image_prompts SET shot_number = ?, shot_type = ?, description = ?, prompt_text = ?,
		 negative_prompt = ?, state = ? WHERE id = ?`,
		p.ShotNumber,
		nullableString(p.ShotType), nullableString(p.Description),
		nullableString(p.PromptText), nullableString(p.NegativePrompt),
		string(p.State), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update image prompt: %w", err)
	}
	return requireAffected(res, "update image prompt")
}

// DeleteImagePrompt removes a shot prompt and its generated image.
func (s *Store) DeleteImagePrompt(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM image_prompts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete image prompt: %w", err)
	}
	return requireAffected(res, "delete image prompt")
}

const videoPromptColumns = "id, scene_id, segment_number, prompt_text, duration_seconds, camera_movement, reference_image_id, state, created_at"

func scanVideoPrompt(scanner rowScanner) (*VideoPrompt, error) {
	var (
		id         string
		sceneID    string
		segment    int
		promptText sql.NullString
		duration   int
		camera     sql.NullString
		refImageID sql.NullString
		stateStr   string
		createdRaw string
	)
	if err := scanner.Scan(&id, &sceneID, &segment, &promptText, &duration, &camera, &refImageID, &stateStr, &createdRaw); err != nil {
		return nil, err
	}
	prompt := &VideoPrompt{
		ID:               id,
		SceneID:          sceneID,
		SegmentNumber:    segment,
		PromptText:       promptText.String,
		DurationSeconds:  duration,
		CameraMovement:   camera.String,
		ReferenceImageID: refImageID.String,
		State:            PromptState(stateStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		prompt.CreatedAt = created
	}
	return prompt, nil
}

// CreateVideoPrompt inserts one motion prompt for a scene.
func (s *Store) CreateVideoPrompt(ctx context.Context, p *VideoPrompt) error {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.State == "" {
		p.State = PromptPending
	}
	if p.SegmentNumber == 0 {
		p.SegmentNumber = 1
	}
	if p.DurationSeconds == 0 {
		p.DurationSeconds = 5
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = nowUTC()
	}
	_, err := s.execWithRetry(ctx,
		"INSERT INTO video_prompts ("+videoPromptColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.SceneID, p.SegmentNumber,
		nullableString(p.PromptText), p.DurationSeconds,
		nullableString(p.CameraMovement), nullableString(p.ReferenceImageID),
		string(p.State), formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert video prompt: %w", err)
	}
	return nil
}

// GetVideoPrompt fetches a video prompt by ID.
func (s *Store) GetVideoPrompt(ctx context.Context, id string) (*VideoPrompt, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+videoPromptColumns+" FROM video_prompts WHERE id = ?", id)
	prompt, err := scanVideoPrompt(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return prompt, nil
}

// ListVideoPrompts returns a scene's motion prompts in segment order.
func (s *Store) ListVideoPrompts(ctx context.Context, sceneID string) ([]*VideoPrompt, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+videoPromptColumns+" FROM video_prompts WHERE scene_id = ? ORDER BY segment_number", sceneID)
	if err != nil {
		return nil, fmt.Errorf("list video prompts: %w", err)
	}
	defer rows.Close()
	return collectVideoPrompts(rows)
}

func (s *Store) listProjectVideoPrompts(ctx context.Context, projectID string) ([]*VideoPrompt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.scene_id, p.segment_number, p.prompt_text, p.duration_seconds,
		        p.camera_movement, p.reference_image_id, p.state, p.created_at
		 FROM video_prompts p
		 JOIN scenes s ON s.id = p.scene_id
		 JOIN episodes e ON e.id = s.episode_id
		 WHERE e.project_id = ?
		 ORDER BY e.episode_number, s.scene_number, p.segment_number`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project video prompts: %w", err)
	}
	defer rows.Close()
	return collectVideoPrompts(rows)
}

func collectVideoPrompts(rows *sql.Rows) ([]*VideoPrompt, error) {
	var prompts []*VideoPrompt
	for rows.Next() {
		prompt, err := scanVideoPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video prompt: %w", err)
		}
		prompts = append(prompts, prompt)
	}
	return prompts, rows.Err()
}

// UpdateVideoPrompt persists content and state changes.
func (s *Store) UpdateVideoPrompt(ctx context.Context, p *VideoPrompt) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE video_prompts SET segment_number = ?, prompt_text = ?, duration_seconds = ?,
		 camera_movement = ?, reference_image_id = ?, state = ? WHERE id = ?`,
		p.SegmentNumber,
		nullableString(p.PromptText), p.DurationSeconds,
		nullableString(p.CameraMovement), nullableString(p.ReferenceImageID),
		string(p.State), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update video prompt: %w", err)
	}
	return requireAffected(res, "update video prompt")
}

// DeleteVideoPrompt removes a motion prompt and its generated video.
func (s *Store) DeleteVideoPrompt(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM video_prompts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete video prompt: %w", err)
	}
	return requireAffected(res, "delete video prompt")
}
