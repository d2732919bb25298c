package repositories

import (
	"context"
	"strings"

	intdb "travelbook/internal/db"
	"travelbook/internal/domain/models"
)

// DestinationRepo stores destinations in MySQL. Highlights are kept as a
// JSON array like package inclusions.
type DestinationRepo struct {
	Q Querier
}

const destinationColumns = `destination_id, name, country, city, COALESCE(description, ''),
	COALESCE(image, ''), COALESCE(highlights, '[]'), created_at, updated_at`

func scanDestination(row rowScanner) (models.Destination, error) {
	var (
		d          models.Destination
		highlights string
	)
	err := row.Scan(
		&d.DestinationID,
		&d.Name,
		&d.Country,
		&d.City,
		&d.Description,
		&d.Image,
		&highlights,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	d.Highlights = decodeInclusions(highlights)
	return d, err
}

func (r DestinationRepo) Create(ctx context.Context, d models.Destination) error {
	_, err := r.Q.ExecContext(ctx, `
		INSERT INTO destinations (destination_id, name, country, city, description, image, highlights, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.DestinationID, d.Name, d.Country, d.City,
		intdb.NullIfEmpty(d.Description), intdb.NullIfEmpty(d.Image), encodeInclusions(d.Highlights),
		d.CreatedAt, d.UpdatedAt,
	)
	return classify(err)
}

func (r DestinationRepo) Get(ctx context.Context, destinationID string) (models.Destination, error) {
	d, err := scanDestination(r.Q.QueryRowContext(ctx, `SELECT `+destinationColumns+` FROM destinations WHERE destination_id = ? LIMIT 1`, destinationID))
	if err != nil {
		return models.Destination{}, classify(err)
	}
	return d, nil
}

func (r DestinationRepo) List(ctx context.Context, country string) ([]models.Destination, error) {
	query := `SELECT ` + destinationColumns + ` FROM destinations`
	args := []any{}
	if c := strings.TrimSpace(country); c != "" {
		query += ` WHERE country = ?`
		args = append(args, c)
	}
	query += ` ORDER BY name, destination_id`

	rows, err := r.Q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []models.Destination{}
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, d)
	}
	return out, classify(rows.Err())
}

func (r DestinationRepo) Update(ctx context.Context, d models.Destination) error {
	res, err := r.Q.ExecContext(ctx, `
		UPDATE destinations
		SET name = ?, country = ?, city = ?, description = ?, image = ?, highlights = ?, updated_at = ?
		WHERE destination_id = ?
	`,
		d.Name, d.Country, d.City,
		intdb.NullIfEmpty(d.Description), intdb.NullIfEmpty(d.Image), encodeInclusions(d.Highlights),
		d.UpdatedAt, d.DestinationID,
	)
	return affectedOne(res, err)
}

func (r DestinationRepo) Delete(ctx context.Context, destinationID string) error {
	res, err := r.Q.ExecContext(ctx, `DELETE FROM destinations WHERE destination_id = ?`, destinationID)
	return affectedOne(res, err)
}
