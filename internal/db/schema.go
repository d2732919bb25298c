package db

import (
	"context"
	"database/sql"
	"fmt"

	"travelbook/internal/utils"
)

type table struct {
	name string
	ddl  string
}

// rooms_available is kept in [0, capacity] by the CHECK constraint as well
// as by the conditional updates in the repositories.
var schema = []table{
	{"hotels", `
CREATE TABLE IF NOT EXISTS hotels (
	hotel_id VARCHAR(64) NOT NULL PRIMARY KEY,
	name VARCHAR(160) NOT NULL,
	address VARCHAR(255) NOT NULL,
	city VARCHAR(120) NOT NULL DEFAULT '',
	email VARCHAR(160) NOT NULL,
	phone VARCHAR(40) NOT NULL,
	star_rating TINYINT NOT NULL,
	description TEXT NULL,
	image VARCHAR(255) NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE KEY uniq_hotel_name (name),
	UNIQUE KEY uniq_hotel_email (email),
	UNIQUE KEY uniq_hotel_phone (phone)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"destinations", `
CREATE TABLE IF NOT EXISTS destinations (
	destination_id VARCHAR(64) NOT NULL PRIMARY KEY,
	name VARCHAR(160) NOT NULL,
	country VARCHAR(120) NOT NULL,
	city VARCHAR(120) NOT NULL DEFAULT '',
	description TEXT NULL,
	image VARCHAR(255) NULL,
	highlights JSON NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE KEY uniq_destination_name_country (name, country)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"packages", `
CREATE TABLE IF NOT EXISTS packages (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	hotel_id VARCHAR(64) NOT NULL,
	name VARCHAR(120) NOT NULL,
	position INT NOT NULL DEFAULT 0,
	description TEXT NULL,
	price DECIMAL(12,2) NOT NULL DEFAULT 0,
	inclusions JSON NULL,
	valid_until DATE NULL,
	capacity INT NOT NULL,
	rooms_available INT NOT NULL,
	UNIQUE KEY uniq_hotel_package (hotel_id, name),
	CONSTRAINT fk_packages_hotel FOREIGN KEY (hotel_id) REFERENCES hotels (hotel_id) ON DELETE CASCADE,
	CONSTRAINT chk_rooms_available CHECK (rooms_available >= 0 AND rooms_available <= capacity),
	CONSTRAINT chk_capacity CHECK (capacity >= 1)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"bookings", `
CREATE TABLE IF NOT EXISTS bookings (
	booking_id VARCHAR(64) NOT NULL PRIMARY KEY,
	user_name VARCHAR(120) NOT NULL,
	hotel_name VARCHAR(160) NOT NULL,
	package_name VARCHAR(120) NOT NULL,
	rooms INT NOT NULL,
	booking_from DATETIME NOT NULL,
	booking_to DATETIME NOT NULL,
	card_type VARCHAR(20) NOT NULL,
	card_number VARCHAR(32) NOT NULL,
	card_expiry DATETIME NOT NULL,
	amount DECIMAL(12,2) NOT NULL DEFAULT 0,
	status VARCHAR(20) NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	KEY idx_bookings_user (user_name),
	KEY idx_bookings_hotel (hotel_name),
	KEY idx_bookings_status_to (status, booking_to),
	CONSTRAINT chk_rooms CHECK (rooms > 0)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"booking_status_history", `
CREATE TABLE IF NOT EXISTS booking_status_history (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id VARCHAR(64) NOT NULL,
	from_status VARCHAR(20) NOT NULL DEFAULT '',
	to_status VARCHAR(20) NOT NULL,
	note TEXT NULL,
	changed_at DATETIME NOT NULL,
	KEY idx_history_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"reviews", `
CREATE TABLE IF NOT EXISTS reviews (
	review_id VARCHAR(64) NOT NULL PRIMARY KEY,
	hotel_id VARCHAR(64) NOT NULL,
	user_name VARCHAR(120) NOT NULL,
	rating TINYINT NOT NULL,
	comment TEXT NULL,
	status VARCHAR(20) NOT NULL,
	created_at DATETIME NOT NULL,
	KEY idx_reviews_hotel_status (hotel_id, status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"users", `
CREATE TABLE IF NOT EXISTS users (
	id VARCHAR(64) NOT NULL PRIMARY KEY,
	name VARCHAR(120) NOT NULL,
	username VARCHAR(80) NOT NULL,
	email VARCHAR(160) NOT NULL,
	phone VARCHAR(40) NULL,
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(20) NOT NULL DEFAULT 'user',
	status VARCHAR(20) NOT NULL DEFAULT 'active',
	created_at DATETIME NOT NULL,
	UNIQUE KEY uniq_users_username (username),
	UNIQUE KEY uniq_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
}

// Migrate creates missing tables. Existing tables are left untouched.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, t := range schema {
		if HasTable(ctx, db, t.name) {
			continue
		}
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
		utils.LogEvent("", "db", "migrate", "created table "+t.name)
	}
	return nil
}
