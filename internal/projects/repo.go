package projects

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("project not found")

// Project is a single orchestrated software project. GitHubRepoURL and
// TelegramChatID are owned by the external adapters; the agent core only
// reads them.
type Project struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    *string        `json:"description,omitempty"`
	Status         Status         `json:"status"`
	VisionDocument map[string]any `json:"vision_document,omitempty"`
	GitHubRepoURL  *string        `json:"github_repo_url,omitempty"`
	TelegramChatID *int64         `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

const projectColumns = `id::text, name, description, status, vision_document, github_repo_url, telegram_chat_id, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{db: db} }

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.VisionDocument,
		&p.GitHubRepoURL, &p.TelegramChatID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, name string, description *string) (*Project, error) {
	const q = `
insert into projects (id, name, description)
values ($1::uuid, $2, $3)
returning ` + projectColumns + `;
`
	return scanProject(r.db.QueryRow(ctx, q, uuid.New().String(), name, description))
}

func (r *Repo) Get(ctx context.Context, id string) (*Project, error) {
	const q = `
select ` + projectColumns + `
from projects
where id = $1::uuid;
`
	return scanProject(r.db.QueryRow(ctx, q, id))
}

// GetByChatID resolves the project bound to a Telegram chat.
func (r *Repo) GetByChatID(ctx context.Context, chatID int64) (*Project, error) {
	const q = `
select ` + projectColumns + `
from projects
where telegram_chat_id = $1;
`
	return scanProject(r.db.QueryRow(ctx, q, chatID))
}

func (r *Repo) List(ctx context.Context) ([]Project, error) {
	const q = `
select ` + projectColumns + `
from projects
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.VisionDocument,
			&p.GitHubRepoURL, &p.TelegramChatID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateStatus sets the lifecycle phase. The caller is expected to have
// parsed status against the closed set already; no transition table is
// enforced between phases.
func (r *Repo) UpdateStatus(ctx context.Context, id string, status Status) (*Project, error) {
	const q = `
update projects
set status = $2, updated_at = now()
where id = $1::uuid
returning ` + projectColumns + `;
`
	return scanProject(r.db.QueryRow(ctx, q, id, status))
}

// UpdateVision replaces the vision document wholesale.
func (r *Repo) UpdateVision(ctx context.Context, id string, doc map[string]any) (*Project, error) {
	const q = `
update projects
set vision_document = $2, updated_at = now()
where id = $1::uuid
returning ` + projectColumns + `;
`
	return scanProject(r.db.QueryRow(ctx, q, id, doc))
}

// SetRepoURL records the GitHub repository provisioned for the project.
func (r *Repo) SetRepoURL(ctx context.Context, id, url string) (*Project, error) {
	const q = `
update projects
set github_repo_url = $2, updated_at = now()
where id = $1::uuid
returning ` + projectColumns + `;
`
	return scanProject(r.db.QueryRow(ctx, q, id, url))
}

// BindChat associates a Telegram chat with the project.
func (r *Repo) BindChat(ctx context.Context, id string, chatID int64) (*Project, error) {
	const q = `
update projects
set telegram_chat_id = $2, updated_at = now()
where id = $1::uuid
returning ` + projectColumns + `;
`
	return scanProject(r.db.QueryRow(ctx, q, id, chatID))
}
