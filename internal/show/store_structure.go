package show

import (
	"context"
	"database/sql"
	"fmt"
)

const characterColumns = "id, project_id, name, role, archetype, age, physical_description, personality, motivation, secret, arc, state, created_at"

func scanCharacter(scanner rowScanner) (*Character, error) {
	var (
		id         string
		projectID  string
		name       string
		role       sql.NullString
		archetype  sql.NullString
		age        sql.NullString
		physical   sql.NullString
		personal   sql.NullString
		motivation sql.NullString
		secret     sql.NullString
		arc        sql.NullString
		stateStr   string
		createdRaw string
	)
	if err := scanner.Scan(&id, &projectID, &name, &role, &archetype, &age, &physical, &personal, &motivation, &secret, &arc, &stateStr, &createdRaw); err != nil {
		return nil, err
	}
	character := &Character{
		ID:                  id,
		ProjectID:           projectID,
		Name:                name,
		Role:                role.String,
		Archetype:           archetype.String,
		Age:                 age.String,
		PhysicalDescription: physical.String,
		Personality:         personal.String,
		Motivation:          motivation.String,
		Secret:              secret.String,
		Arc:                 arc.String,
		State:               StructureState(stateStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		character.CreatedAt = created
	}
	return character, nil
}

// CreateCharacter inserts a new draft character.
func (s *Store) CreateCharacter(ctx context.Context, c *Character) error {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.State == "" {
		c.State = StructureDraft
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = nowUTC()
	}
	_, err := s.execWithRetry(ctx,
		"INSERT INTO characters ("+characterColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		c.ID, c.ProjectID, c.Name,
		nullableString(c.Role), nullableString(c.Archetype), nullableString(c.Age),
		nullableString(c.PhysicalDescription), nullableString(c.Personality),
		nullableString(c.Motivation), nullableString(c.Secret), nullableString(c.Arc),
		string(c.State), formatTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert character: %w", err)
	}
	return nil
}

// GetCharacter fetches a character by ID.
func (s *Store) GetCharacter(ctx context.Context, id string) (*Character, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+characterColumns+" FROM characters WHERE id = ?", id)
	character, err := scanCharacter(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return character, nil
}

// ListCharacters returns a project's characters in creation order.
func (s *Store) ListCharacters(ctx context.Context, projectID string) ([]*Character, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+characterColumns+" FROM characters WHERE project_id = ? ORDER BY created_at", projectID)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var characters []*Character
	for rows.Next() {
		character, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		characters = append(characters, character)
	}
	return characters, rows.Err()
}

// UpdateCharacter persists content and state changes.
func (s *Store) UpdateCharacter(ctx context.Context, c *Character) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE characters SET name = ?, role = ?, archetype = ?, age = ?, physical_description = ?,
		 personality = ?, motivation = ?, secret = ?, arc = ?, state = ? WHERE id = ?`,
		c.Name,
		nullableString(c.Role), nullableString(c.Archetype), nullableString(c.Age),
		nullableString(c.PhysicalDescription), nullableString(c.Personality),
		nullableString(c.Motivation), nullableString(c.Secret), nullableString(c.Arc),
		string(c.State), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update character: %w", err)
	}
	return requireAffected(res, "update character")
}

// DeleteCharacter removes a character; its reference image cascades.
func (s *Store) DeleteCharacter(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM characters WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	return requireAffected(res, "delete character")
}

const locationColumns = "id, project_id, name, type, description, mood, significance, visual_details, state, created_at"

func scanLocation(scanner rowScanner) (*Location, error) {
	var (
		id           string
		projectID    string
		name         string
		locType      sql.NullString
		description  sql.NullString
		mood         sql.NullString
		significance sql.NullString
		visual       sql.NullString
		stateStr     string
		createdRaw   string
	)
	if err := scanner.Scan(&id, &projectID, &name, &locType, &description, &mood, &significance, &visual, &stateStr, &createdRaw); err != nil {
		return nil, err
	}
	location := &Location{
		ID:            id,
		ProjectID:     projectID,
		Name:          name,
		Type:          locType.String,
		Description:   description.String,
		Mood:          mood.String,
		Significance:  significance.String,
		VisualDetails: visual.String,
		State:         StructureState(stateStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		location.CreatedAt = created
	}
	return location, nil
}

// CreateLocation inserts a new draft location.
func (s *Store) CreateLocation(ctx context.Context, l *Location) error {
	if l.ID == "" {
		l.ID = newID()
	}
	if l.State == "" {
		l.State = StructureDraft
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = nowUTC()
	}
	_, err := s.execWithRetry(ctx,
		"INSERT INTO locations ("+locationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		l.ID, l.ProjectID, l.Name,
		nullableString(l.Type), nullableString(l.Description), nullableString(l.Mood),
		nullableString(l.Significance), nullableString(l.VisualDetails),
		string(l.State), formatTime(l.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetLocation fetches a location by ID.
func (s *Store) GetLocation(ctx context.Context, id string) (*Location, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+locationColumns+" FROM locations WHERE id = ?", id)
	location, err := scanLocation(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return location, nil
}

// ListLocations returns a project's locations in creation order.
func (s *Store) ListLocations(ctx context.Context, projectID string) ([]*Location, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+locationColumns+" FROM locations WHERE project_id = ? ORDER BY created_at", projectID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []*Location
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, location)
	}
	return locations, rows.Err()
}

// UpdateLocation persists content and state changes.
func (s *Store) UpdateLocation(ctx context.Context, l *Location) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE locations SET name = ?, type = ?, description = ?, mood = ?, significance = ?,
		 visual_details = ?, state = ? WHERE id = ?`,
		l.Name,
		nullableString(l.Type), nullableString(l.Description), nullableString(l.Mood),
		nullableString(l.Significance), nullableString(l.VisualDetails),
		string(l.State), l.ID,
	)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return requireAffected(res, "update location")
}

// DeleteLocation removes a location; its reference image cascades.
func (s *Store) DeleteLocation(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM locations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return requireAffected(res, "delete location")
}

const summaryColumns = "id, project_id, episode_number, title, summary, key_beats, cliffhanger, emotional_arc, state, created_at"

func scanEpisodeSummary(scanner rowScanner) (*EpisodeSummary, error) {
	var (
		id            string
		projectID     string
		episodeNumber int
		title         sql.NullString
		summary       sql.NullString
		keyBeats      sql.NullString
		cliffhanger   sql.NullString
		emotionalArc  sql.NullString
		stateStr      string
		createdRaw    string
	)
	if err := scanner.Scan(&id, &projectID, &episodeNumber, &title, &summary, &keyBeats, &cliffhanger, &emotionalArc, &stateStr, &createdRaw); err != nil {
		return nil, err
	}
	es := &EpisodeSummary{
		ID:            id,
		ProjectID:     projectID,
		EpisodeNumber: episodeNumber,
		Title:         title.String,
		Summary:       summary.String,
		KeyBeats:      decodeStrings(keyBeats),
		Cliffhanger:   cliffhanger.String,
		EmotionalArc:  emotionalArc.String,
		State:         StructureState(stateStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		es.CreatedAt = created
	}
	return es, nil
}

// CreateEpisodeSummary inserts a new draft episode summary.
func (s *Store) CreateEpisodeSummary(ctx context.Context, es *EpisodeSummary) error {
	if es.ID == "" {
		es.ID = newID()
	}
	if es.State == "" {
		es.State = StructureDraft
	}
	if es.CreatedAt.IsZero() {
		es.CreatedAt = nowUTC()
	}
	_, err := s.execWithRetry(ctx,
		"INSERT INTO episode_summaries ("+summaryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		es.ID, es.ProjectID, es.EpisodeNumber,
		nullableString(es.Title), nullableString(es.Summary), encodeStrings(es.KeyBeats),
		nullableString(es.Cliffhanger), nullableString(es.EmotionalArc),
		string(es.State), formatTime(es.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert episode summary: %w", err)
	}
	return nil
}

// GetEpisodeSummary fetches an episode summary by ID.
func (s *Store) GetEpisodeSummary(ctx context.Context, id string) (*EpisodeSummary, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+summaryColumns+" FROM episode_summaries WHERE id = ?", id)
	es, err := scanEpisodeSummary(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return es, nil
}

// ListEpisodeSummaries returns a project's summaries ordered by episode
// number.
func (s *Store) ListEpisodeSummaries(ctx context.Context, projectID string) ([]*EpisodeSummary, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+summaryColumns+" FROM episode_summaries WHERE project_id = ? ORDER BY episode_number", projectID)
	if err != nil {
		return nil, fmt.Errorf("list episode summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*EpisodeSummary
	for rows.Next() {
		es, err := scanEpisodeSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode summary: %w", err)
		}
		summaries = append(summaries, es)
	}
	return summaries, rows.Err()
}

// UpdateEpisodeSummary persists content and state changes.
func (s *Store) UpdateEpisodeSummary(ctx context.Context, es *EpisodeSummary) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE episode_summaries SET episode_number = ?, title = ?, summary = ?, key_beats = ?,
		 cliffhanger = ?, emotional_arc = ?, state = ? WHERE id = ?`,
		es.EpisodeNumber,
		nullableString(es.Title), nullableString(es.Summary), encodeStrings(es.KeyBeats),
		nullableString(es.Cliffhanger), nullableString(es.EmotionalArc),
		string(es.State), es.ID,
	)
	if err != nil {
		return fmt.Errorf("update episode summary: %w", err)
	}
	return requireAffected(res, "update episode summary")
}

// DeleteEpisodeSummary removes an episode summary.
func (s *Store) DeleteEpisodeSummary(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM episode_summaries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete episode summary: %w", err)
	}
	return requireAffected(res, "delete episode summary")
}
