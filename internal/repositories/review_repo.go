package repositories

import (
	"context"
	"database/sql"

	intdb "travelbook/internal/db"
	"travelbook/internal/domain/models"
)

type ReviewRepo struct {
	Q Querier
}

const reviewColumns = `review_id, hotel_id, user_name, rating, COALESCE(comment, ''), status, created_at`

func scanReview(row rowScanner) (models.Review, error) {
	var (
		rv     models.Review
		status string
	)
	err := row.Scan(&rv.ReviewID, &rv.HotelID, &rv.UserName, &rv.Rating, &rv.Comment, &status, &rv.CreatedAt)
	rv.Status = models.ReviewStatus(status)
	return rv, err
}

func (r ReviewRepo) Create(ctx context.Context, rv models.Review) error {
	_, err := r.Q.ExecContext(ctx, `
		INSERT INTO reviews (review_id, hotel_id, user_name, rating, comment, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rv.ReviewID, rv.HotelID, rv.UserName, rv.Rating, intdb.NullIfEmpty(rv.Comment), string(rv.Status), rv.CreatedAt)
	return classify(err)
}

func (r ReviewRepo) Get(ctx context.Context, reviewID string) (models.Review, error) {
	rv, err := scanReview(r.Q.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE review_id = ? LIMIT 1`, reviewID))
	if err != nil {
		return models.Review{}, classify(err)
	}
	return rv, nil
}

func (r ReviewRepo) List(ctx context.Context, hotelID string, status models.ReviewStatus) ([]models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE 1=1`
	args := []any{}
	if hotelID != "" {
		query += ` AND hotel_id = ?`
		args = append(args, hotelID)
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.Q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []models.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, rv)
	}
	return out, classify(rows.Err())
}

func (r ReviewRepo) SetStatus(ctx context.Context, reviewID string, from, to models.ReviewStatus) (bool, error) {
	res, err := r.Q.ExecContext(ctx, `UPDATE reviews SET status = ? WHERE review_id = ? AND status = ?`, string(to), reviewID, string(from))
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify(err)
	}
	return n > 0, nil
}

func (r ReviewRepo) ApprovedStats(ctx context.Context, hotelID string) (int, int, error) {
	var (
		sum   sql.NullInt64
		count int
	)
	err := r.Q.QueryRowContext(ctx, `
		SELECT SUM(rating), COUNT(*)
		FROM reviews
		WHERE hotel_id = ? AND status = ?
	`, hotelID, string(models.ReviewApproved)).Scan(&sum, &count)
	if err != nil {
		return 0, 0, classify(err)
	}
	return int(sum.Int64), count, nil
}
