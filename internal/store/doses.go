package store

import (
	"fmt"
	"time"

	"github.com/lazypower/halflife/internal/dose"
)

// AddDose records a dosing event. The caller validates amount and unit at
// the input boundary; the schema CHECK constraints are a backstop.
func (db *DB) AddDose(d dose.Dose) error {
	_, err := db.Exec(`
		INSERT INTO doses (id, amount, unit, taken_at)
		VALUES (?, ?, ?, ?)
	`, d.ID, d.Amount, string(d.Unit), d.TakenAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("add dose: %w", err)
	}
	return nil
}

// ListDoses returns all doses in the session, ordered by taken_at ascending.
func (db *DB) ListDoses() ([]dose.Dose, error) {
	rows, err := db.Query(`
		SELECT id, amount, unit, taken_at FROM doses ORDER BY taken_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list doses: %w", err)
	}
	defer rows.Close()

	var doses []dose.Dose
	for rows.Next() {
		var d dose.Dose
		var unit string
		var takenAt int64
		if err := rows.Scan(&d.ID, &d.Amount, &unit, &takenAt); err != nil {
			return nil, fmt.Errorf("scan dose: %w", err)
		}
		d.Unit = dose.Unit(unit)
		d.TakenAt = time.UnixMilli(takenAt)
		doses = append(doses, d)
	}
	return doses, rows.Err()
}

// DeleteDose removes a dose by ID. Returns false if no such dose exists.
func (db *DB) DeleteDose(id string) (bool, error) {
	result, err := db.Exec(`DELETE FROM doses WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete dose: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// ClearDoses removes every dose in the session. Returns the removed count.
func (db *DB) ClearDoses() (int, error) {
	result, err := db.Exec(`DELETE FROM doses`)
	if err != nil {
		return 0, fmt.Errorf("clear doses: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// CountDoses returns the number of doses in the session.
func (db *DB) CountDoses() (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM doses`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count doses: %w", err)
	}
	return count, nil
}
