package show

import (
	"context"
	"fmt"
	"time"
)

// StuckEntity is one entity wedged in a generating state, tagged with
// its kind so the generic reset operation can find it again.
type StuckEntity struct {
	Kind      EntityKind `json:"kind"`
	ID        string     `json:"id"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
}

// stuckMeta describes, per entity kind, where its rows live and which
// path column a reset must clear. Episodes carry no path.
type stuckMeta struct {
	table      string
	pathColumn string
}

var stuckTables = map[EntityKind]stuckMeta{
	KindEpisode:        {table: "episodes"},
	KindCharacterRef:   {table: "character_refs", pathColumn: "image_path"},
	KindLocationRef:    {table: "location_refs", pathColumn: "image_path"},
	KindGeneratedImage: {table: "generated_images", pathColumn: "image_path"},
	KindThumbnail:      {table: "thumbnails", pathColumn: "image_path"},
	KindGeneratedVideo: {table: "generated_videos", pathColumn: "video_path"},
}

// queries selecting all generating rows of a kind for one project.
// Timestamp filtering happens in Go; stored timestamps are RFC3339Nano
// strings whose variable-length fractions do not compare reliably in SQL.
var stuckQueries = map[EntityKind]string{
	KindEpisode: `SELECT id, state, created_at FROM episodes
		WHERE project_id = ? AND state = 'generating'`,
	KindCharacterRef: `SELECT r.id, r.state, r.created_at FROM character_refs r
		JOIN characters c ON c.id = r.character_id
		WHERE c.project_id = ? AND r.state = 'generating'`,
	KindLocationRef: `SELECT r.id, r.state, r.created_at FROM location_refs r
		JOIN locations l ON l.id = r.location_id
		WHERE l.project_id = ? AND r.state = 'generating'`,
	KindGeneratedImage: `SELECT g.id, g.state, g.created_at FROM generated_images g
		JOIN image_prompts p ON p.id = g.image_prompt_id
		JOIN scenes s ON s.id = p.scene_id
		JOIN episodes e ON e.id = s.episode_id
		WHERE e.project_id = ? AND g.state = 'generating'`,
	KindThumbnail: `SELECT id, state, created_at FROM thumbnails
		WHERE project_id = ? AND state = 'generating'`,
	KindGeneratedVideo: `SELECT g.id, g.state, g.created_at FROM generated_videos g
		JOIN video_prompts p ON p.id = g.video_prompt_id
		JOIN scenes s ON s.id = p.scene_id
		JOIN episodes e ON e.id = s.episode_id
		WHERE e.project_id = ? AND g.state = 'generating'`,
}

// StuckEntities walks every entity family of a project and returns the
// entities that have been generating for longer than the threshold.
func (s *Store) StuckEntities(ctx context.Context, projectID string, threshold time.Duration) ([]StuckEntity, error) {
	ctx = ensureContext(ctx)
	cutoff := nowUTC().Add(-threshold)

	var stuck []StuckEntity
	for _, kind := range generatingKinds {
		rows, err := s.db.QueryContext(ctx, stuckQueries[kind], projectID)
		if err != nil {
			return nil, fmt.Errorf("query stuck %s: %w", kind, err)
		}
		for rows.Next() {
			var (
				id         string
				stateStr   string
				createdRaw string
			)
			if err := rows.Scan(&id, &stateStr, &createdRaw); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan stuck %s: %w", kind, err)
			}
			created, err := parseTimeString(createdRaw)
			if err != nil || !created.Before(cutoff) {
				continue
			}
			stuck = append(stuck, StuckEntity{
				Kind:      kind,
				ID:        id,
				State:     stateStr,
				CreatedAt: created,
			})
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterate stuck %s: %w", kind, err)
		}
		rows.Close()
	}
	return stuck, nil
}

// ResetStuck returns one generating entity to pending, clearing any
// stored media path. The entity must actually be generating; resetting
// anything else fails with a NotStuckError so finished work is never
// discarded by a stale recovery call.
func (s *Store) ResetStuck(ctx context.Context, kind EntityKind, id string) error {
	meta, ok := stuckTables[kind]
	if !ok {
		return fmt.Errorf("unknown entity kind %q", kind)
	}
	ctx = ensureContext(ctx)

	var stateStr string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT state FROM %s WHERE id = ?", meta.table), id,
	).Scan(&stateStr)
	if err != nil {
		return mapNoRows(err)
	}
	if stateStr != string(MediaGenerating) {
		return &NotStuckError{Kind: kind, ID: id, State: stateStr}
	}

	query := fmt.Sprintf("UPDATE %s SET state = 'pending' WHERE id = ? AND state = 'generating'", meta.table)
	if meta.pathColumn != "" {
		query = fmt.Sprintf("UPDATE %s SET state = 'pending', %s = NULL WHERE id = ? AND state = 'generating'",
			meta.table, meta.pathColumn)
	}
	res, err := s.execWithRetry(ctx, query, id)
	if err != nil {
		return fmt.Errorf("reset stuck %s: %w", kind, err)
	}
	return requireAffected(res, "reset stuck entity")
}
