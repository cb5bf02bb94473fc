// Package conversations is the append-only conversation ledger. Messages are
// never updated or deleted; the ledger doubles as the audit trail for every
// turn the orchestrator processes.
package conversations

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("project not found")
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)

// Message is one ledger entry. Timestamps are assigned by the database at
// append time and are non-decreasing within a project; ties are broken by the
// insertion id.
type Message struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"project_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{db: db} }

func (r *Repo) projectExists(ctx context.Context, projectID string) error {
	const q = `select 1 from projects where id = $1::uuid;`

	var one int
	if err := r.db.QueryRow(ctx, q, projectID).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Append persists a new message for the project and returns it. The write is
// a single transaction-per-statement insert; there is no partial append.
func (r *Repo) Append(ctx context.Context, projectID string, role Role, content string) (*Message, error) {
	if err := r.projectExists(ctx, projectID); err != nil {
		return nil, err
	}

	const q = `
insert into messages (project_id, role, content)
values ($1::uuid, $2, $3)
returning id, ts;
`
	m := Message{
		ProjectID: projectID,
		Role:      role,
		Content:   content,
	}
	if err := r.db.QueryRow(ctx, q, projectID, role, content).Scan(&m.ID, &m.Timestamp); err != nil {
		return nil, err
	}
	return &m, nil
}

// Recent returns up to limit newest messages, oldest first. A project with no
// messages yields an empty slice, not an error.
func (r *Repo) Recent(ctx context.Context, projectID string, limit int) ([]Message, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if err := r.projectExists(ctx, projectID); err != nil {
		return nil, err
	}

	const q = `
select id, role, content, ts
from messages
where project_id = $1::uuid
order by ts desc, id desc
limit $2;
`
	rows, err := r.db.Query(ctx, q, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	newestFirst := make([]Message, 0, limit)
	for rows.Next() {
		m := Message{ProjectID: projectID}
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		newestFirst = append(newestFirst, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to chronological order
	out := make([]Message, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		out = append(out, newestFirst[i])
	}
	return out, nil
}
