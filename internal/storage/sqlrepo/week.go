package sqlrepo

import (
	"fmt"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/models"
)

// GetWeek returns the stored week, or an empty slice before one is saved
func (r *Repo) GetWeek() ([]models.Slot, error) {
	rows, err := r.query(`
		SELECT day, date, activity, status, intensity, completed
		FROM week_slots ORDER BY slot_index`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	week := []models.Slot{}
	for rows.Next() {
		var s models.Slot
		var status, intensity string
		if err := rows.Scan(&s.Day, &s.Date, &s.Activity, &status, &intensity, &s.Completed); err != nil {
			return nil, err
		}
		s.Status = constants.SlotStatus(status)
		s.Intensity = constants.Intensity(intensity)
		week = append(week, s)
	}
	return week, rows.Err()
}

// SaveWeek replaces the stored week
func (r *Repo) SaveWeek(week []models.Slot) error {
	if err := models.ValidateWeek(week); err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM week_slots"); err != nil {
		return err
	}
	for i, s := range week {
		if _, err := tx.Exec(r.dialect.Rebind(`
			INSERT INTO week_slots (slot_index, day, date, activity, status, intensity, completed)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
			i, s.Day, s.Date, s.Activity, string(s.Status), string(s.Intensity), s.Completed,
		); err != nil {
			return fmt.Errorf("failed to save %s: %w", s.Day, err)
		}
	}
	return tx.Commit()
}
