package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	intdb "travelbook/internal/db"
	"travelbook/internal/domain/models"
)

// InventoryRepo stores hotels and their packages in MySQL.
type InventoryRepo struct {
	Q Querier
}

type rowScanner interface {
	Scan(dest ...any) error
}

const hotelColumns = `hotel_id, name, address, city, email, phone, star_rating,
	COALESCE(description, ''), COALESCE(image, ''), created_at, updated_at`

const packageColumns = `p.hotel_id, p.name, COALESCE(p.description, ''), p.price,
	COALESCE(p.inclusions, '[]'), p.valid_until, p.capacity, p.rooms_available`

func scanHotel(row rowScanner) (models.Hotel, error) {
	var h models.Hotel
	err := row.Scan(
		&h.HotelID,
		&h.Name,
		&h.Address,
		&h.City,
		&h.Email,
		&h.Phone,
		&h.StarRating,
		&h.Description,
		&h.Image,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	return h, err
}

func scanPackage(row rowScanner) (string, models.Package, error) {
	var (
		hotelID    string
		p          models.Package
		inclusions string
		validUntil sql.NullTime
	)
	if err := row.Scan(&hotelID, &p.Name, &p.Description, &p.Price, &inclusions, &validUntil, &p.Capacity, &p.RoomsAvailable); err != nil {
		return "", p, err
	}
	if validUntil.Valid {
		p.ValidUntil = validUntil.Time
	}
	p.Inclusions = decodeInclusions(inclusions)
	return hotelID, p, nil
}

func encodeInclusions(in []string) string {
	if len(in) == 0 {
		return "[]"
	}
	b, err := json.Marshal(in)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeInclusions(raw string) []string {
	out := []string{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	_ = json.Unmarshal([]byte(raw), &out)
	return out
}

func (r InventoryRepo) CreateHotel(ctx context.Context, h models.Hotel) error {
	_, err := r.Q.ExecContext(ctx, `
		INSERT INTO hotels (hotel_id, name, address, city, email, phone, star_rating, description, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		h.HotelID, h.Name, h.Address, h.City, h.Email, h.Phone, h.StarRating,
		intdb.NullIfEmpty(h.Description), intdb.NullIfEmpty(h.Image), h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		return classify(err)
	}
	for i, p := range h.Packages {
		if err := r.insertPackage(ctx, h.HotelID, i, p); err != nil {
			return err
		}
	}
	return nil
}

func (r InventoryRepo) insertPackage(ctx context.Context, hotelID string, position int, p models.Package) error {
	_, err := r.Q.ExecContext(ctx, `
		INSERT INTO packages (hotel_id, name, position, description, price, inclusions, valid_until, capacity, rooms_available)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		hotelID, p.Name, position, intdb.NullIfEmpty(p.Description), p.Price, encodeInclusions(p.Inclusions),
		intdb.NullTime(sql.NullTime{Time: p.ValidUntil, Valid: !p.ValidUntil.IsZero()}), p.Capacity, p.RoomsAvailable,
	)
	return classify(err)
}

func (r InventoryRepo) GetHotel(ctx context.Context, hotelID string) (models.Hotel, error) {
	row := r.Q.QueryRowContext(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE hotel_id = ? LIMIT 1`, hotelID)
	return r.hotelWithPackages(ctx, row)
}

func (r InventoryRepo) GetHotelByName(ctx context.Context, name string) (models.Hotel, error) {
	row := r.Q.QueryRowContext(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE name = ? LIMIT 1`, strings.TrimSpace(name))
	return r.hotelWithPackages(ctx, row)
}

func (r InventoryRepo) hotelWithPackages(ctx context.Context, row *sql.Row) (models.Hotel, error) {
	h, err := scanHotel(row)
	if err != nil {
		return models.Hotel{}, classify(err)
	}
	pkgs, err := r.packagesFor(ctx, h.HotelID)
	if err != nil {
		return models.Hotel{}, err
	}
	h.Packages = pkgs[h.HotelID]
	if h.Packages == nil {
		h.Packages = []models.Package{}
	}
	return h, nil
}

// packagesFor loads packages grouped by hotel. An empty hotelID loads all.
func (r InventoryRepo) packagesFor(ctx context.Context, hotelID string) (map[string][]models.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages p`
	args := []any{}
	if hotelID != "" {
		query += ` WHERE p.hotel_id = ?`
		args = append(args, hotelID)
	}
	query += ` ORDER BY p.hotel_id, p.position, p.id`

	rows, err := r.Q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := map[string][]models.Package{}
	for rows.Next() {
		hid, p, err := scanPackage(rows)
		if err != nil {
			return nil, classify(err)
		}
		out[hid] = append(out[hid], p)
	}
	return out, classify(rows.Err())
}

func (r InventoryRepo) ListHotels(ctx context.Context) ([]models.Hotel, error) {
	rows, err := r.Q.QueryContext(ctx, `SELECT `+hotelColumns+` FROM hotels ORDER BY created_at, name`)
	if err != nil {
		return nil, classify(err)
	}
	hotels := []models.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			rows.Close()
			return nil, classify(err)
		}
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, classify(err)
	}
	rows.Close()

	if len(hotels) == 0 {
		return hotels, nil
	}
	pkgs, err := r.packagesFor(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range hotels {
		hotels[i].Packages = pkgs[hotels[i].HotelID]
		if hotels[i].Packages == nil {
			hotels[i].Packages = []models.Package{}
		}
	}
	return hotels, nil
}

func (r InventoryRepo) UpdateHotel(ctx context.Context, h models.Hotel) error {
	res, err := r.Q.ExecContext(ctx, `
		UPDATE hotels
		SET name = ?, address = ?, city = ?, email = ?, phone = ?, star_rating = ?,
		    description = ?, image = ?, updated_at = ?
		WHERE hotel_id = ?
	`,
		h.Name, h.Address, h.City, h.Email, h.Phone, h.StarRating,
		intdb.NullIfEmpty(h.Description), intdb.NullIfEmpty(h.Image), h.UpdatedAt, h.HotelID,
	)
	return affectedOne(res, err)
}

func (r InventoryRepo) DeleteHotel(ctx context.Context, hotelID string) error {
	res, err := r.Q.ExecContext(ctx, `DELETE FROM hotels WHERE hotel_id = ?`, hotelID)
	return affectedOne(res, err)
}

func (r InventoryRepo) AddPackage(ctx context.Context, hotelID string, p models.Package) error {
	var (
		exists   int
		position sql.NullInt64
	)
	err := r.Q.QueryRowContext(ctx, `
		SELECT COUNT(*), (SELECT MAX(position) FROM packages WHERE hotel_id = ?)
		FROM hotels WHERE hotel_id = ?
	`, hotelID, hotelID).Scan(&exists, &position)
	if err != nil {
		return classify(err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	next := 0
	if position.Valid {
		next = int(position.Int64) + 1
	}
	return r.insertPackage(ctx, hotelID, next, p)
}

func (r InventoryRepo) GetPackage(ctx context.Context, hotelName, packageName string) (models.Package, error) {
	row := r.Q.QueryRowContext(ctx, `
		SELECT `+packageColumns+`
		FROM packages p
		JOIN hotels h ON h.hotel_id = p.hotel_id
		WHERE h.name = ? AND p.name = ?
		LIMIT 1
	`, strings.TrimSpace(hotelName), strings.TrimSpace(packageName))
	_, p, err := scanPackage(row)
	if err != nil {
		return models.Package{}, classify(err)
	}
	return p, nil
}

func (r InventoryRepo) GetPackageForUpdate(ctx context.Context, hotelID, packageName string) (models.Package, error) {
	row := r.Q.QueryRowContext(ctx, `
		SELECT `+packageColumns+`
		FROM packages p
		WHERE p.hotel_id = ? AND p.name = ?
		FOR UPDATE
	`, hotelID, strings.TrimSpace(packageName))
	_, p, err := scanPackage(row)
	if err != nil {
		return models.Package{}, classify(err)
	}
	return p, nil
}

func (r InventoryRepo) UpdatePackage(ctx context.Context, hotelID string, p models.Package) error {
	res, err := r.Q.ExecContext(ctx, `
		UPDATE packages
		SET description = ?, price = ?, inclusions = ?, valid_until = ?, capacity = ?, rooms_available = ?
		WHERE hotel_id = ? AND name = ?
	`,
		intdb.NullIfEmpty(p.Description), p.Price, encodeInclusions(p.Inclusions),
		intdb.NullTime(sql.NullTime{Time: p.ValidUntil, Valid: !p.ValidUntil.IsZero()}),
		p.Capacity, p.RoomsAvailable, hotelID, p.Name,
	)
	return affectedOne(res, err)
}

func (r InventoryRepo) RemovePackage(ctx context.Context, hotelID, packageName string) error {
	res, err := r.Q.ExecContext(ctx, `DELETE FROM packages WHERE hotel_id = ? AND name = ?`, hotelID, strings.TrimSpace(packageName))
	return affectedOne(res, err)
}

// AdjustRoomCount is a single conditional UPDATE: InnoDB takes the row lock
// and re-evaluates the range predicate, so concurrent adjustments serialize.
func (r InventoryRepo) AdjustRoomCount(ctx context.Context, hotelName, packageName string, delta int) error {
	hotelName, packageName = strings.TrimSpace(hotelName), strings.TrimSpace(packageName)
	res, err := r.Q.ExecContext(ctx, `
		UPDATE packages p
		JOIN hotels h ON h.hotel_id = p.hotel_id
		SET p.rooms_available = p.rooms_available + ?
		WHERE h.name = ? AND p.name = ?
		  AND p.rooms_available + ? >= 0
		  AND p.rooms_available + ? <= p.capacity
	`, delta, hotelName, packageName, delta, delta)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if n > 0 {
		return nil
	}

	var available, capacity int
	err = r.Q.QueryRowContext(ctx, `
		SELECT p.rooms_available, p.capacity
		FROM packages p
		JOIN hotels h ON h.hotel_id = p.hotel_id
		WHERE h.name = ? AND p.name = ?
		LIMIT 1
	`, hotelName, packageName).Scan(&available, &capacity)
	if err != nil {
		return classify(err)
	}
	return fmt.Errorf("%w: available=%d capacity=%d delta=%d", ErrInvariant, available, capacity, delta)
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
