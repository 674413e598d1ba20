package db

import (
	"hwbook/internal/models"
)

// CacheSubjects replaces the cached subject list with a fresh copy from
// the server.
func (db *DB) CacheSubjects(subjects []models.Subject) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM subjects"); err != nil {
		return err
	}
	for _, s := range subjects {
		_, err := tx.Exec(
			"INSERT INTO subjects (id, name, color, sort_order) VALUES (?, ?, ?, ?)",
			s.ID, s.Name, s.Color, s.SortOrder,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CachedSubjects returns the last subject list seen from the server.
// Empty result means the cache was never filled.
func (db *DB) CachedSubjects() ([]models.Subject, error) {
	rows, err := db.Query("SELECT id, name, color, sort_order FROM subjects ORDER BY sort_order, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &s.SortOrder); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}
