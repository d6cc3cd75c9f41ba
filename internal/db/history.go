package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"painscout/internal/models"
)

// CreateHistory persists a completed analysis for a user. The record's ID and
// CreatedAt are populated on return.
func (d *DB) CreateHistory(ctx context.Context, record *models.HistoryRecord) error {
	redditPosts, err := json.Marshal(record.RedditPosts)
	if err != nil {
		return fmt.Errorf("failed to encode reddit posts: %w", err)
	}
	xPosts, err := json.Marshal(record.XPosts)
	if err != nil {
		return fmt.Errorf("failed to encode x posts: %w", err)
	}
	insights, err := json.Marshal(record.Insights)
	if err != nil {
		return fmt.Errorf("failed to encode insights: %w", err)
	}

	query := `
		INSERT INTO pain_point_analyses
			(user_id, query, keywords, reddit_posts, x_posts, total_posts,
			 summary, frustration_score, insights, search_time, analysis_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	return d.Pool.QueryRow(ctx, query,
		record.UserID,
		record.Query,
		record.Keywords,
		redditPosts,
		xPosts,
		record.TotalPosts,
		record.Summary,
		record.FrustrationScore,
		insights,
		record.SearchTime,
		record.AnalysisTime,
	).Scan(&record.ID, &record.CreatedAt)
}

// ListHistory returns one page of a user's analyses, newest first, along with
// the total record count for pagination.
func (d *DB) ListHistory(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.HistorySummary, int, error) {
	offset := (page - 1) * limit

	query := `
		SELECT id, query, keywords, summary, frustration_score, total_posts, insights, created_at
		FROM pain_point_analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := d.Pool.Query(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	summaries := []models.HistorySummary{}
	for rows.Next() {
		var s models.HistorySummary
		var insights []byte
		if err := rows.Scan(
			&s.ID,
			&s.Query,
			&s.Keywords,
			&s.Summary,
			&s.FrustrationScore,
			&s.TotalPosts,
			&insights,
			&s.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal(insights, &s.Insights); err != nil {
			return nil, 0, fmt.Errorf("failed to decode insights for %s: %w", s.ID, err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = d.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM pain_point_analyses WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}

// GetHistory retrieves one analysis owned by the user. Records belonging to
// other users are indistinguishable from absent ones.
func (d *DB) GetHistory(ctx context.Context, userID, id uuid.UUID) (*models.HistoryRecord, error) {
	query := `
		SELECT id, user_id, query, keywords, reddit_posts, x_posts, total_posts,
			summary, frustration_score, insights, search_time, analysis_time, created_at
		FROM pain_point_analyses
		WHERE id = $1 AND user_id = $2
	`

	var record models.HistoryRecord
	var redditPosts, xPosts, insights []byte
	err := d.Pool.QueryRow(ctx, query, id, userID).Scan(
		&record.ID,
		&record.UserID,
		&record.Query,
		&record.Keywords,
		&redditPosts,
		&xPosts,
		&record.TotalPosts,
		&record.Summary,
		&record.FrustrationScore,
		&insights,
		&record.SearchTime,
		&record.AnalysisTime,
		&record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(redditPosts, &record.RedditPosts); err != nil {
		return nil, fmt.Errorf("failed to decode reddit posts: %w", err)
	}
	if err := json.Unmarshal(xPosts, &record.XPosts); err != nil {
		return nil, fmt.Errorf("failed to decode x posts: %w", err)
	}
	if err := json.Unmarshal(insights, &record.Insights); err != nil {
		return nil, fmt.Errorf("failed to decode insights: %w", err)
	}

	return &record, nil
}

// DeleteHistory removes one analysis owned by the user.
func (d *DB) DeleteHistory(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx,
		`DELETE FROM pain_point_analyses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// CountHistory returns the total number of persisted analyses across all
// users. Used by the metrics collector.
func (d *DB) CountHistory(ctx context.Context) (int, error) {
	var total int
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM pain_point_analyses`).Scan(&total)
	return total, err
}
