package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskforge/internal/common"
	"github.com/dmitrijs2005/taskforge/internal/dbx"
	"github.com/dmitrijs2005/taskforge/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error) {

	query :=
		`INSERT INTO attachments (task_id, file_name, storage_key, size)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		attachment.TaskID, attachment.FileName, attachment.StorageKey, attachment.Size).
		Scan(&attachment.ID, &attachment.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return attachment, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Attachment, error) {

	query :=
		`SELECT id, task_id, file_name, storage_key, size, created_at FROM attachments
		 WHERE id = $1
		 `

	a := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.TaskID, &a.FileName, &a.StorageKey, &a.Size, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) ListByTask(ctx context.Context, taskID int64) ([]*models.Attachment, error) {

	query :=
		`SELECT id, task_id, file_name, storage_key, size, created_at FROM attachments
		 WHERE task_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Attachment
	for rows.Next() {
		a := &models.Attachment{}
		if err := rows.Scan(&a.ID, &a.TaskID, &a.FileName, &a.StorageKey, &a.Size, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
