package db

import (
	"context"
	"database/sql"

	"classroom-provisioner/internal/model"
)

// Repository records what each provisioning run created, per lesson and
// course, so the status endpoint can answer without touching the platform.
type Repository interface {
	InsertItem(ctx context.Context, item *model.ProvisionItem) error
	LessonStatus(ctx context.Context, lessonNumber string) (*model.StatusResponse, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InsertItem(ctx context.Context, item *model.ProvisionItem) error {
	query := `INSERT INTO provision_items (lesson_number, course_id, kind, title, remote_id, status, error_message)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, item.LessonNumber, item.CourseID,
		item.Kind, item.Title, item.RemoteID, item.Status, item.ErrorMessage)
	return err
}

func (r *repository) LessonStatus(ctx context.Context, lessonNumber string) (*model.StatusResponse, error) {
	query := `SELECT
		COUNT(*) as total_items,
		COUNT(CASE WHEN status = 'CREATED' THEN 1 END) as created_count,
		COUNT(CASE WHEN status = 'FAILED' THEN 1 END) as failed_count,
		COALESCE(MAX(created_at), NOW()) as updated_at
	FROM provision_items WHERE lesson_number = ?`

	var response model.StatusResponse
	err := r.db.QueryRowContext(ctx, query, lessonNumber).Scan(
		&response.TotalItems, &response.CreatedCount,
		&response.FailedCount, &response.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	response.LessonNumber = lessonNumber

	errorQuery := `SELECT DISTINCT error_message FROM provision_items
				   WHERE lesson_number = ? AND status = 'FAILED' AND error_message IS NOT NULL`

	rows, err := r.db.QueryContext(ctx, errorQuery, lessonNumber)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var errorMsg string
			if rows.Scan(&errorMsg) == nil {
				response.Errors = append(response.Errors, errorMsg)
			}
		}
	}

	return &response, nil
}
