package show

import (
	"context"
	"database/sql"
	"fmt"
)

const characterRefColumns = "id, character_id, prompt_text, image_path, image_url, state, created_at"

func scanCharacterRef(scanner rowScanner) (*CharacterRef, error) {
	var (
		id          string
		characterID string
		promptText  sql.NullString
		imagePath   sql.NullString
		imageURL    sql.NullString
		stateStr    string
		createdRaw  string
	)
	if err := scanner.Scan(&id, &characterID, &promptText, &imagePath, &imageURL, &stateStr, &createdRaw); err != nil {
		return nil, err
	}
	ref := &CharacterRef{
		ID:          id,
		CharacterID: characterID,
		PromptText:  promptText.String,
		ImagePath:   imagePath.String,
		ImageURL:    imageURL.String,
		State:       MediaState(stateStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		ref.CreatedAt = created
	}
	return ref, nil
}

// CreateCharacterRef inserts the reference image slot for a character.
// One per character; a second insert fails on the unique constraint.
func (s *Store) CreateCharacterRef(ctx context.Context, r *CharacterRef) error {
	if r.ID == "" {
		r.ID = newID()
	}
	if r.State == "" {
		r.State = MediaPending
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = nowUTC()
	}
	_, err := s.execWithRetry(ctx,
		"INSERT INTO character_refs ("+characterRefColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.CharacterID,
		nullableString(r.PromptText), nullableString(r.ImagePath), nullableString(r.ImageURL),
		string(r.State), formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert character ref: %w", err)
	}
	return nil
}

// GetCharacterRef fetches a reference image by ID.
func (s *Store) GetCharacterRef(ctx context.Context, id string) (*CharacterRef, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+characterRefColumns+" FROM character_refs WHERE id = ?", id)
	ref, err := scanCharacterRef(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return ref, nil
}

// GetCharacterRefByCharacter fetches the reference image for a character.
func (s *Store) GetCharacterRefByCharacter(ctx context.Context, characterID string) (*CharacterRef, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+characterRefColumns+" FROM character_refs WHERE character_id = ?", characterID)
	ref, err := scanCharacterRef(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return ref, nil
}

func (s *Store) listProjectCharacterRefs(ctx context.Context, projectID string) ([]*CharacterRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.character_id, r.prompt_text, r.image_path, r.image_url, r.state, r.created_at
		 FROM character_refs r
		 JOIN characters c ON c.id = r.character_id
		 WHERE c.project_id = ?`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list character refs: %w", err)
	}
	defer rows.Close()

	var refs []*CharacterRef
	for rows.Next() {
		ref, err := scanCharacterRef(rows)
		if err != nil {
			return nil, fmt.Errorf("scan character ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// UpdateCharacterRef persists prompt, path, and state changes.
func (s *Store) UpdateCharacterRef(ctx context.Context, r *CharacterRef) error {
	res, err := s.execWithRetry(ctx,
		"UPDATE character_refs SET prompt_text = ?, image_path = ?, image_url = ?, state = ? WHERE id = ?",
		nullableString(r.PromptText), nullableString(r.ImagePath), nullableString(r.ImageURL),
		string(r.State), r.ID,
	)
	if err != nil {
		return fmt.Errorf("update character ref: %w", err)
	}
	return requireAffected(res, "update character ref")
}

const locationRefColumns = "id, location_id, prompt_text, image_path, image_url, state, created_at"

func scanLocationRef(scanner rowScanner) (*LocationRef, error) {
	var (
		id         string
		locationID string
		promptText sql.NullString
		imagePath  sql.NullString
		imageURL   sql.NullString
		stateStr   string
		createdRaw string
	)
	if err := scanner.Scan(&id, &locationID, &promptText, &imagePath, &imageURL, &stateStr, &createdRaw); err != nil {
		return nil, err
	}
	ref := &LocationRef{
		ID:         id,
		LocationID: locationID,
		PromptText: promptText.String,
		ImagePath:  imagePath.String,
		ImageURL:   imageURL.String,
		State:      MediaState(stateStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		ref.CreatedAt = created
	}
	return ref, nil
}

// CreateLocationRef inserts the reference image slot for a location.
func (s *Store) CreateLocationRef(ctx context.Context, r *LocationRef) error {
	if r.ID == "" {
		r.ID = newID()
	}
	if r.State == "" {
		r.State = MediaPending
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = nowUTC()
	}
	_, err := s.execWithRetry(ctx,
		"INSERT INTO location_refs ("+locationRefColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.LocationID,
		nullableString(r.PromptText), nullableString(r.ImagePath), nullableString(r.ImageURL),
		string(r.State), formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert location ref: %w", err)
	}
	return nil
}

// GetLocationRef fetches a reference image by ID.
func (s *Store) GetLocationRef(ctx context.Context, id string) (*LocationRef, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+locationRefColumns+" FROM location_refs WHERE id = ?", id)
	ref, err := scanLocationRef(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return ref, nil
}

// GetLocationRefByLocation fetches the reference image for a location.
func (s *Store) GetLocationRefByLocation(ctx context.Context, locationID string) (*LocationRef, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+locationRefColumns+" FROM location_refs WHERE location_id = ?", locationID)
	ref, err := scanLocationRef(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return ref, nil
}

func (s *Store) listProjectLocationRefs(ctx context.Context, projectID string) ([]*LocationRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.location_id, r.prompt_text, r.image_path, r.image_url, r.state, r.created_at
		 FROM location_refs r
		 JOIN locations l ON l.id = r.location_id
		 WHERE l.project_id = ?`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list location refs: %w", err)
	}
	defer rows.Close()

	var refs []*LocationRef
	for rows.Next() {
		ref, err := scanLocationRef(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// UpdateLocationRef persists prompt, path, and state changes.
func (s *Store) UpdateLocationRef(ctx context.Context, r *LocationRef) error {
	res, err := s.execWithRetry(ctx,
		"UPDATE location_refs SET prompt_text = ?, image_path = ?, image_url = ?, state = ? WHERE id = ?",
		nullableString(r.PromptText), nullableString(r.ImagePath), nullableString(r.ImageURL),
		string(r.State), r.ID,
	)
	if err != nil {
		return fmt.Errorf("update location ref: %w", err)
	}
	return requireAffected(res, "update location ref")
}

const generatedImageColumns = "id, image_prompt_id, image_path, image_url, state, created_at"

func scanGeneratedImage(scanner rowScanner) (*GeneratedImage, error) {
	var (
		id         string
		promptID   string
		imagePath  sql.NullString
		imageURL   sql.NullString
		stateStr   string
		createdRaw string
	)
	if err := scanner.Scan(&id, &promptID, &imagePath, &imageURL, &stateStr, &createdRaw); err != nil {
		return nil, err
	}
	img := &GeneratedImage{
		ID:            id,
		ImagePromptID: promptID,
		ImagePath:     imagePath.String,
		ImageURL:      imageURL.String,
		State:         MediaState(stateStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		img.CreatedAt = created
	}
	return img, nil
}

// CreateGeneratedImage inserts the image slot for an image prompt. One
// per prompt, created lazily on the first generation attempt.
func (s *Store) CreateGeneratedImage(ctx context.Context, g *GeneratedImage) error {
	if g.ID == "" {
		g.ID = newID()
	}
	if g.State == "" {
		g.State = MediaPending
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = nowUTC()
	}
	_, err := s.execWithRetry(ctx,
		"INSERT INTO generated_images ("+generatedImageColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		g.ID, g.ImagePromptID,
		nullableString(g.ImagePath), nullableString(g.ImageURL),
		string(g.State), formatTime(g.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert generated image: %w", err)
	}
	return nil
}

// GetGeneratedImage fetches a generated image by ID.
func (s *Store) GetGeneratedImage(ctx context.Context, id string) (*GeneratedImage, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+generatedImageColumns+" FROM generated_images WHERE id = ?", id)
	img, err := scanGeneratedImage(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return img, nil
}

// GetGeneratedImageByPrompt fetches the image belonging to a prompt.
func (s *Store) GetGeneratedImageByPrompt(ctx context.Context, promptID string) (*GeneratedImage, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+generatedImageColumns+" FROM generated_images WHERE image_prompt_id = ?", promptID)
	img, err := scanGeneratedImage(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return img, nil
}

func (s *Store) listProjectImages(ctx context.Context, projectID string) ([]*GeneratedImage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.image_prompt_id, g.image_path, g.image_url, g.state, g.created_at
		 FROM generated_images g
		 JOIN image_prompts p ON p.id = g.image_prompt_id
		 JOIN scenes s ON s.id = p.scene_id
		 JOIN episodes e ON e.id = s.episode_id
		 WHERE e.project_id = ?`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project images: %w", err)
	}
	defer rows.Close()

	var images []*GeneratedImage
	for rows.Next() {
		img, err := scanGeneratedImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan generated image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// UpdateGeneratedImage persists path and state changes.
func (s *Store) UpdateGeneratedImage(ctx context.Context, g *GeneratedImage) error {
	res, err := s.execWithRetry(ctx,
		"UPDATE generated_images SET image_path = ?, image_url = ?, state = ? WHERE id = ?",
		nullableString(g.ImagePath), nullableString(g.ImageURL),
		string(g.State), g.ID,
	)
	if err != nil {
		return fmt.Errorf("update generated image: %w", err)
	}
	return requireAffected(res, "update generated image")
}

const thumbnailColumns = "id, project_id, episode_id, orientation, prompt_text, image_path, image_url, state, created_at"

func scanThumbnail(scanner rowScanner) (*Thumbnail, error) {
	var (
		id          string
		projectID   string
		episodeID   sql.NullString
		orientation sql.NullString
		promptText  sql.NullString
		imagePath   sql.NullString
		imageURL    sql.NullString
		stateStr    string
		createdRaw  string
	)
	if err := scanner.Scan(&id, &projectID, &episodeID, &orientation, &promptText, &imagePath, &imageURL, &stateStr, &createdRaw); err != nil {
		return nil, err
	}
	thumb := &Thumbnail{
		ID:          id,
		ProjectID:   projectID,
		EpisodeID:   episodeID.String,
		Orientation: orientation.String,
		PromptText:  promptText.String,
		ImagePath:   imagePath.String,
		ImageURL:    imageURL.String,
		State:       MediaState(stateStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		thumb.CreatedAt = created
	}
	return thumb, nil
}

// CreateThumbnail inserts a thumbnail slot.
func (s *Store) CreateThumbnail(ctx context.Context, t *Thumbnail) error {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.State == "" {
		t.State = MediaPending
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = nowUTC()
	}
	_, err := s.execWithRetry(ctx,
		"INSERT INTO thumbnails ("+thumbnailColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.ProjectID, nullableString(t.EpisodeID),
		nullableString(t.Orientation), nullableString(t.PromptText),
		nullableString(t.ImagePath), nullableString(t.ImageURL),
		string(t.State), formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert thumbnail: %w", err)
	}
	return nil
}

// GetThumbnail fetches a thumbnail by ID.
func (s *Store) GetThumbnail(ctx context.Context, id string) (*Thumbnail, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+thumbnailColumns+" FROM thumbnails WHERE id = ?", id)
	thumb, err := scanThumbnail(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return thumb, nil
}

// ListThumbnails returns a project's thumbnails in creation order.
func (s *Store) ListThumbnails(ctx context.Context, projectID string) ([]*Thumbnail, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+thumbnailColumns+" FROM thumbnails WHERE project_id = ? ORDER BY created_at", projectID)
	if err != nil {
		return nil, fmt.Errorf("list thumbnails: %w", err)
	}
	defer rows.Close()

	var thumbs []*Thumbnail
	for rows.Next() {
		thumb, err := scanThumbnail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan thumbnail: %w", err)
		}
		thumbs = append(thumbs, thumb)
	}
	return thumbs, rows.Err()
}

// UpdateThumbnail persists prompt, path, and state changes.
func (s *Store) UpdateThumbnail(ctx context.Context, t *Thumbnail) error {
	res, err := s.execWithRetry(ctx,
		"UPDATE thumbnails SET orientation = ?, prompt_text = ?, image_path = ?, image_url = ?, state = ? WHERE id = ?",
		nullableString(t.Orientation), nullableString(t.PromptText),
		nullableString(t.ImagePath), nullableString(t.ImageURL),
		string(t.State), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update thumbnail: %w", err)
	}
	return requireAffected(res, "update thumbnail")
}

const generatedVideoColumns = "id, video_prompt_id, video_path, video_url, duration_seconds, state, created_at"

func scanGeneratedVideo(scanner rowScanner) (*GeneratedVideo, error) {
	var (
		id         string
		promptID   string
		videoPath  sql.NullString
		videoURL   sql.NullString
		duration   sql.NullFloat64
		stateStr   string
		createdRaw string
	)
	if err := scanner.Scan(&id, &promptID, &videoPath, &videoURL, &duration, &stateStr, &createdRaw); err != nil {
		return nil, err
	}
	vid := &GeneratedVideo{
		ID:              id,
		VideoPromptID:   promptID,
		VideoPath:       videoPath.String,
		VideoURL:        videoURL.String,
		DurationSeconds: duration.Float64,
		State:           MediaState(stateStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		vid.CreatedAt = created
	}
	return vid, nil
}

// CreateGeneratedVideo inserts the video slot for a video prompt.
func (s *Store) CreateGeneratedVideo(ctx context.Context, v *GeneratedVideo) error {
	if v.ID == "" {
		v.ID = newID()
	}
	if v.State == "" {
		v.State = MediaPending
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = nowUTC()
	}
	_, err := s.execWithRetry(ctx,
		"INSERT INTO generated_videos ("+generatedVideoColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		v.ID, v.VideoPromptID,
		nullableString(v.VideoPath), nullableString(v.VideoURL),
		v.DurationSeconds,
		string(v.State), formatTime(v.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert generated video: %w", err)
	}
	return nil
}

// GetGeneratedVideo fetches a generated video by ID.
func (s *Store) GetGeneratedVideo(ctx context.Context, id string) (*GeneratedVideo, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+generatedVideoColumns+" FROM generated_videos WHERE id = ?", id)
	vid, err := scanGeneratedVideo(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return vid, nil
}

// GetGeneratedVideoByPrompt fetches the video belonging to a prompt.
func (s *Store) GetGeneratedVideoByPrompt(ctx context.Context, promptID string) (*GeneratedVideo, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+generatedVideoColumns+" FROM generated_videos WHERE video_prompt_id = ?", promptID)
	vid, err := scanGeneratedVideo(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return vid, nil
}

func (s *Store) listProjectVideos(ctx context.Context, projectID string) ([]*GeneratedVideo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.video_prompt_id, g.video_path, g.video_url, g.duration_seconds, g.state, g.created_at
		 FROM generated_videos g
		 JOIN video_prompts p ON p.id = g.video_prompt_id
		 JOIN scenes s ON s.id = p.scene_id
		 JOIN episodes e ON e.id = s.episode_id
		 WHERE e.project_id = ?`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project videos: %w", err)
	}
	defer rows.Close()

	var videos []*GeneratedVideo
	for rows.Next() {
		vid, err := scanGeneratedVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan generated video: %w", err)
		}
		videos = append(videos, vid)
	}
	return videos, rows.Err()
}

// UpdateGeneratedVideo persists path, duration, and state changes.
func (s *Store) UpdateGeneratedVideo(ctx context.Context, v *GeneratedVideo) error {
	res, err := s.execWithRetry(ctx,
		"UPDATE generated_videos SET video_path = ?, video_url = ?, duration_seconds = ?, state = ? WHERE id = ?",
		nullableString(v.VideoPath), nullableString(v.VideoURL),
		v.DurationSeconds,
		string(v.State), v.ID,
	)
	if err != nil {
		return fmt.Errorf("update generated video: %w", err)
	}
	return requireAffected(res, "update generated video")
}
