package sqlrepo

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/models"
)

// GetWeightGoal returns the tracker state. A store that never saved one
// yields an empty goal.
func (r *Repo) GetWeightGoal() (models.WeightGoal, error) {
	var goal models.WeightGoal
	var step string
	err := r.queryRow(`
		SELECT step, initial_kg, current_kg, target_kg, last_change_kg
		FROM weight_goal WHERE id = 1`).Scan(&step, &goal.Initial, &goal.Current, &goal.Target, &goal.LastChange)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WeightGoal{Step: constants.WeightStepEmpty, History: []models.WeightSample{}}, nil
	}
	if err != nil {
		return models.WeightGoal{}, err
	}
	goal.Step = constants.WeightStep(step)

	rows, err := r.query("SELECT id, date, weight, day FROM weight_samples ORDER BY seq")
	if err != nil {
		return models.WeightGoal{}, err
	}
	defer rows.Close()

	goal.History = []models.WeightSample{}
	for rows.Next() {
		var s models.WeightSample
		if err := rows.Scan(&s.ID, &s.Date, &s.Weight, &s.Day); err != nil {
			return models.WeightGoal{}, err
		}
		goal.History = append(goal.History, s)
	}
	return goal, rows.Err()
}

// SaveWeightGoal replaces the tracker state and its history in one
// transaction.
func (r *Repo) SaveWeightGoal(goal models.WeightGoal) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(r.dialect.Rebind(`
		INSERT INTO weight_goal (id, step, initial_kg, current_kg, target_kg, last_change_kg)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET step = excluded.step, initial_kg = excluded.initial_kg,
			current_kg = excluded.current_kg, target_kg = excluded.target_kg,
			last_change_kg = excluded.last_change_kg`),
		string(goal.Step), goal.Initial, goal.Current, goal.Target, goal.LastChange,
	); err != nil {
		return fmt.Errorf("failed to save weight goal: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM weight_samples"); err != nil {
		return err
	}
	for i, s := range goal.History {
		if _, err := tx.Exec(r.dialect.Rebind(
			"INSERT INTO weight_samples (id, seq, date, weight, day) VALUES (?, ?, ?, ?, ?)"),
			s.ID, i, s.Date, s.Weight, s.Day,
		); err != nil {
			return fmt.Errorf("failed to save weight sample %s: %w", s.Date, err)
		}
	}

	return tx.Commit()
}
