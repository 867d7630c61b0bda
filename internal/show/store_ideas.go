package show

import (
	"context"
	"database/sql"
	"fmt"
)

const ideaColumns = "id, project_id, title, setting, logline, hook, main_conflict, state, created_at"

func scanIdea(scanner rowScanner) (*Idea, error) {
	var (
		id           string
		projectID    string
		title        string
		setting      sql.NullString
		logline      sql.NullString
		hook         sql.NullString
		mainConflict sql.NullString
		stateStr     string
		createdRaw   string
	)
	if err := scanner.Scan(&id, &projectID, &title, &setting, &logline, &hook, &mainConflict, &stateStr, &createdRaw); err != nil {
		return nil, err
	}
	idea := &Idea{
		ID:           id,
		ProjectID:    projectID,
		Title:        title,
		Setting:      setting.String,
		Logline:      logline.String,
		Hook:         hook.String,
		MainConflict: mainConflict.String,
		State:        IdeaState(stateStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		idea.CreatedAt = created
	}
	return idea, nil
}

// CreateIdea inserts a new draft idea.
func (s *Store) CreateIdea(ctx context.Context, idea *Idea) error {
	if idea.ID == "" {
		idea.ID = newID()
	}
	if idea.State == "" {
		idea.State = IdeaDraft
	}
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = nowUTC()
	}
	_, err := s.execWithRetry(ctx,
		"INSERT INTO ideas ("+ideaColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		idea.ID,
		idea.ProjectID,
		idea.Title,
		nullableString(idea.Setting),
		nullableString(idea.Logline),
		nullableString(idea.Hook),
		nullableString(idea.MainConflict),
		string(idea.State),
		formatTime(idea.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert idea: %w", err)
	}
	return nil
}

// GetIdea fetches an idea by ID.
func (s *Store) GetIdea(ctx context.Context, id string) (*Idea, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+ideaColumns+" FROM ideas WHERE id = ?", id)
	idea, err := scanIdea(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return idea, nil
}

// ListIdeas returns a project's ideas in creation order.
func (s *Store) ListIdeas(ctx context.Context, projectID string) ([]*Idea, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+ideaColumns+" FROM ideas WHERE project_id = ? ORDER BY created_at", projectID)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	defer rows.Close()

	var ideas []*Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("scan idea: %w", err)
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

// UpdateIdea persists content and state changes for an idea.
func (s *Store) UpdateIdea(ctx context.Context, idea *Idea) error {
	res, err := s.execWithRetry(ctx,
		"UPDATE ideas SET title = ?, setting = ?, logline = ?, hook = ?, main_conflict = ?, state = ? WHERE id = ?",
		idea.Title,
		nullableString(idea.Setting),
		nullableString(idea.Logline),
		nullableString(idea.Hook),
		nullableString(idea.MainConflict),
		string(idea.State),
		idea.ID,
	)
	if err != nil {
		return fmt.Errorf("update idea: %w", err)
	}
	return requireAffected(res, "update idea")
}

// DeleteIdea removes an idea.
func (s *Store) DeleteIdea(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM ideas WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete idea: %w", err)
	}
	return requireAffected(res, "delete idea")
}

// ApproveIdea approves one idea and applies the selection side effects
// in a single transaction: every sibling draft is rejected, the idea's
// title and setting are copied onto the project, and the project moves
// past the selection step if it has not already.
func (s *Store) ApproveIdea(ctx context.Context, ideaID string) (*Idea, error) {
	var approved *Idea
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, "SELECT "+ideaColumns+" FROM ideas WHERE id = ?", ideaID)
		idea, err := scanIdea(row)
		if err != nil {
			return mapNoRows(err)
		}
		if err := idea.Approve(); err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx,
			"SELECT "+ideaColumns+" FROM ideas WHERE project_id = ? AND id != ?", idea.ProjectID, idea.ID)
		if err != nil {
			return fmt.Errorf("load sibling ideas: %w", err)
		}
		var siblings []*Idea
		for rows.Next() {
			sibling, err := scanIdea(rows)
			if err != nil {
				rows.Close()
				return fmt.Errorf("scan sibling idea: %w", err)
			}
			siblings = append(siblings, sibling)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, sibling := range siblings {
			if sibling.State != IdeaDraft {
				continue
			}
			if err := sibling.Reject(); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				"UPDATE ideas SET state = ? WHERE id = ?", string(sibling.State), sibling.ID); err != nil {
				return fmt.Errorf("reject sibling idea: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE ideas SET state = ? WHERE id = ?", string(idea.State), idea.ID); err != nil {
			return fmt.Errorf("approve idea: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE projects SET title = ?, setting = ?, updated_at = ? WHERE id = ?",
			nullableString(idea.Title),
			nullableString(idea.Setting),
			formatTime(nowUTC()),
			idea.ProjectID,
		); err != nil {
			return fmt.Errorf("copy idea onto project: %w", err)
		}

		approved = idea
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// RejectIdea rejects a single draft idea.
func (s *Store) RejectIdea(ctx context.Context, ideaID string) (*Idea, error) {
	idea, err := s.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if err := idea.Reject(); err != nil {
		return nil, err
	}
	if err := s.UpdateIdea(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}
