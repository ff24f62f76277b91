package sqlrepo

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/stridelog/internal/models"
)

const shoeColumns = `id, name, brand, model, color, purchase_date, max_km, current_km, active,
	cost, archived_date, rating`

func scanShoe(s scanner) (models.Shoe, error) {
	var shoe models.Shoe
	var archived sql.NullString
	err := s.Scan(
		&shoe.ID, &shoe.Name, &shoe.Brand, &shoe.Model, &shoe.Color, &shoe.PurchaseDate,
		&shoe.MaxKm, &shoe.CurrentKm, &shoe.Active, &shoe.Cost, &archived, &shoe.Rating,
	)
	if err != nil {
		return models.Shoe{}, err
	}
	if archived.Valid {
		shoe.ArchivedDate = &archived.String
	}
	return shoe, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *Repo) AddShoe(shoe models.Shoe) error {
	_, err := r.exec(`
		INSERT INTO shoes (`+shoeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shoe.ID, shoe.Name, shoe.Brand, shoe.Model, shoe.Color, shoe.PurchaseDate,
		shoe.MaxKm, shoe.CurrentKm, shoe.Active, shoe.Cost.String(), nullable(shoe.ArchivedDate), shoe.Rating,
	)
	if err != nil {
		return fmt.Errorf("failed to add shoe %d: %w", shoe.ID, err)
	}
	return nil
}

func (r *Repo) GetShoe(id int) (models.Shoe, error) {
	shoe, err := scanShoe(r.queryRow("SELECT "+shoeColumns+" FROM shoes WHERE id = ?", id))
	if err != nil {
		return models.Shoe{}, notFound(err, "shoe", id)
	}
	return shoe, nil
}

func (r *Repo) GetAllShoes() ([]models.Shoe, error) {
	rows, err := r.query("SELECT " + shoeColumns + " FROM shoes ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shoes := []models.Shoe{}
	for rows.Next() {
		shoe, err := scanShoe(rows)
		if err != nil {
			return nil, err
		}
		shoes = append(shoes, shoe)
	}
	return shoes, rows.Err()
}

func (r *Repo) UpdateShoe(shoe models.Shoe) error {
	res, err := r.exec(`
		UPDATE shoes SET name = ?, brand = ?, model = ?, color = ?, purchase_date = ?, max_km = ?,
			current_km = ?, active = ?, cost = ?, archived_date = ?, rating = ?
		WHERE id = ?`,
		shoe.Name, shoe.Brand, shoe.Model, shoe.Color, shoe.PurchaseDate, shoe.MaxKm,
		shoe.CurrentKm, shoe.Active, shoe.Cost.String(), nullable(shoe.ArchivedDate), shoe.Rating, shoe.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update shoe %d: %w", shoe.ID, err)
	}
	return affected(res, "shoe", shoe.ID)
}
