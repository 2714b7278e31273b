// Package genderdb persists resolved author genders in a local SQLite
// database so repeat runs skip the lookup service and the interactive
// confirmation step.
package genderdb

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/gender"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/name"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/org"
)

// ErrNotFound indicates the author has no cached verdict.
var ErrNotFound = errors.New("author not in gender database")

const schema = `
CREATE TABLE IF NOT EXISTS genders (
	full_name TEXT PRIMARY KEY,
	gender    TEXT NOT NULL
);`

// DB is a persistent full-name to gender cache.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening gender database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialising gender database: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close releases the database handle.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Get returns the cached verdict for a full name.
func (db *DB) Get(fullName string) (gender.Verdict, error) {
	var v string
	err := db.conn.QueryRow(
		`SELECT gender FROM genders WHERE full_name = ?`, fullName,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return gender.Unknown, fmt.Errorf("%w: %s", ErrNotFound, fullName)
	}
	if err != nil {
		return gender.Unknown, fmt.Errorf("reading gender database: %w", err)
	}
	return gender.Verdict(v), nil
}

// Put stores a verdict, replacing any existing entry for the name.
func (db *DB) Put(fullName string, v gender.Verdict) error {
	_, err := db.conn.Exec(
		`INSERT INTO genders (full_name, gender) VALUES (?, ?)
		 ON CONFLICT(full_name) DO UPDATE SET gender = excluded.gender`,
		fullName, string(v),
	)
	if err != nil {
		return fmt.Errorf("writing gender database: %w", err)
	}
	return nil
}

// Organisation loads every cached author as an organisation, the form the
// reconciliation passes consume.
func (db *DB) Organisation() (*org.Organisation, error) {
	rows, err := db.conn.Query(`SELECT full_name, gender FROM genders ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("reading gender database: %w", err)
	}
	defer rows.Close()

	o := &org.Organisation{}
	for rows.Next() {
		var full, v string
		if err := rows.Scan(&full, &v); err != nil {
			return nil, fmt.Errorf("scanning gender row: %w", err)
		}
		n, err := name.New(full)
		if err != nil {
			continue
		}
		n.Gender = gender.Verdict(v)
		o.Add(n)
	}
	return o, rows.Err()
}

// SaveOrganisation upserts every member of an organisation. Used to persist
// the entries added during gender resolution.
func (db *DB) SaveOrganisation(o *org.Organisation) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("writing gender database: %w", err)
	}
	for _, n := range o.Names {
		if _, err := tx.Exec(
			`INSERT INTO genders (full_name, gender) VALUES (?, ?)
			 ON CONFLICT(full_name) DO UPDATE SET gender = excluded.gender`,
			n.Full, string(n.Gender),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("writing gender database: %w", err)
		}
	}
	return tx.Commit()
}
