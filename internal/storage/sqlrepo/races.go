package sqlrepo

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/models"
)

const raceColumns = `id, title, location, start_date, end_date, website, type, distance,
	elevation, tier, favorite, country, participants`

type scanner interface {
	Scan(dest ...any) error
}

func scanRace(s scanner) (models.Race, error) {
	var race models.Race
	var tier, participants string
	err := s.Scan(
		&race.ID, &race.Title, &race.Location, &race.StartDate, &race.EndDate, &race.Website,
		&race.Type, &race.Distance, &race.Elevation, &tier, &race.Favorite, &race.Country, &participants,
	)
	if err != nil {
		return models.Race{}, err
	}
	race.Tier = constants.Tier(tier)
	if participants != "" {
		if err := json.Unmarshal([]byte(participants), &race.Participants); err != nil {
			return models.Race{}, fmt.Errorf("failed to decode participants of race %d: %w", race.ID, err)
		}
	}
	return race, nil
}

func encodeParticipants(p []models.Participant) (string, error) {
	if p == nil {
		p = []models.Participant{}
	}
	data, err := json.Marshal(p)
	return string(data), err
}

func (r *Repo) AddRace(race models.Race) error {
	participants, err := encodeParticipants(race.Participants)
	if err != nil {
		return err
	}
	_, err = r.exec(`
		INSERT INTO races (`+raceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		race.ID, race.Title, race.Location, race.StartDate, race.EndDate, race.Website, race.Type,
		race.Distance, race.Elevation, string(race.Tier), race.Favorite, race.Country, participants,
	)
	if err != nil {
		return fmt.Errorf("failed to add race %d: %w", race.ID, err)
	}
	return nil
}

func (r *Repo) GetRace(id int) (models.Race, error) {
	race, err := scanRace(r.queryRow("SELECT "+raceColumns+" FROM races WHERE id = ?", id))
	if err != nil {
		return models.Race{}, notFound(err, "race", id)
	}
	return race, nil
}

func (r *Repo) GetAllRaces() ([]models.Race, error) {
	rows, err := r.query("SELECT " + raceColumns + " FROM races ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	races := []models.Race{}
	for rows.Next() {
		race, err := scanRace(rows)
		if err != nil {
			return nil, err
		}
		races = append(races, race)
	}
	return races, rows.Err()
}

func (r *Repo) UpdateRace(race models.Race) error {
	participants, err := encodeParticipants(race.Participants)
	if err != nil {
		return err
	}
	res, err := r.exec(`
		UPDATE races SET title = ?, location = ?, start_date = ?, end_date = ?, website = ?, type = ?,
			distance = ?, elevation = ?, tier = ?, favorite = ?, country = ?, participants = ?
		WHERE id = ?`,
		race.Title, race.Location, race.StartDate, race.EndDate, race.Website, race.Type,
		race.Distance, race.Elevation, string(race.Tier), race.Favorite, race.Country, participants, race.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update race %d: %w", race.ID, err)
	}
	return affected(res, "race", race.ID)
}

func (r *Repo) DeleteRace(id int) error {
	res, err := r.exec("DELETE FROM races WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affected(res, "race", id)
}

const personalColumns = `id, title, location, date, type, distance, elevation, finish_time, pace,
	personal_best, review, rating, category, favorite, country`

func scanPersonal(s scanner) (models.PersonalRace, error) {
	var race models.PersonalRace
	var category string
	err := s.Scan(
		&race.ID, &race.Title, &race.Location, &race.Date, &race.Type, &race.Distance, &race.Elevation,
		&race.FinishTime, &race.Pace, &race.PersonalBest, &race.Review, &race.Rating, &category,
		&race.Favorite, &race.Country,
	)
	if err != nil {
		return models.PersonalRace{}, err
	}
	race.Category = constants.Tier(category)
	return race, nil
}

func (r *Repo) AddPersonalRace(race models.PersonalRace) error {
	_, err := r.exec(`
		INSERT INTO personal_races (`+personalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		race.ID, race.Title, race.Location, race.Date, race.Type, race.Distance, race.Elevation,
		race.FinishTime, race.Pace, race.PersonalBest, race.Review, race.Rating, string(race.Category),
		race.Favorite, race.Country,
	)
	if err != nil {
		return fmt.Errorf("failed to add personal race %d: %w", race.ID, err)
	}
	return nil
}

func (r *Repo) GetPersonalRace(id int) (models.PersonalRace, error) {
	race, err := scanPersonal(r.queryRow("SELECT "+personalColumns+" FROM personal_races WHERE id = ?", id))
	if err != nil {
		return models.PersonalRace{}, notFound(err, "personal race", id)
	}
	return race, nil
}

func (r *Repo) GetAllPersonalRaces() ([]models.PersonalRace, error) {
	rows, err := r.query("SELECT " + personalColumns + " FROM personal_races ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	races := []models.PersonalRace{}
	for rows.Next() {
		race, err := scanPersonal(rows)
		if err != nil {
			return nil, err
		}
		races = append(races, race)
	}
	return races, rows.Err()
}

func (r *Repo) UpdatePersonalRace(race models.PersonalRace) error {
	res, err := r.exec(`
		UPDATE personal_races SET title = ?, location = ?, date = ?, type = ?, distance = ?, elevation = ?,
			finish_time = ?, pace = ?, personal_best = ?, review = ?, rating = ?, category = ?,
			favorite = ?, country = ?
		WHERE id = ?`,
		race.Title, race.Location, race.Date, race.Type, race.Distance, race.Elevation,
		race.FinishTime, race.Pace, race.PersonalBest, race.Review, race.Rating, string(race.Category),
		race.Favorite, race.Country, race.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update personal race %d: %w", race.ID, err)
	}
	return affected(res, "personal race", race.ID)
}

func (r *Repo) DeletePersonalRace(id int) error {
	res, err := r.exec("DELETE FROM personal_races WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affected(res, "personal race", id)
}
