package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"umddining-backend/lib/telemetry"
	"umddining-backend/services/dining/db"
	"umddining-backend/services/dining/extract"
	"umddining-backend/services/dining/halls"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("umddining.services.dining.store")

var ErrNotFound = errors.New("not found")

// Food is the cached nutrition of one rec_num, everything but RecNum and
// Name is empty until NutritionFetched.
type Food struct {
	RecNum           string            `json:"rec_num"`
	Name             string            `json:"name"`
	Nutrition        map[string]string `json:"nutrition"`
	Allergens        string            `json:"allergens"`
	Ingredients      string            `json:"ingredients"`
	NutritionFetched bool              `json:"nutrition_fetched"`
}

// MenuItem is a placement joined with whatever is known about its food.
type MenuItem struct {
	Date             string            `json:"date"`
	DiningHallID     string            `json:"dining_hall_id"`
	RecNum           string            `json:"rec_num"`
	MealPeriod       string            `json:"meal_period"`
	Station          string            `json:"station"`
	DietaryIcons     []string          `json:"dietary_icons"`
	Name             string            `json:"name"`
	NutritionFetched bool              `json:"nutrition_fetched"`
	Nutrition        map[string]string `json:"nutrition,omitempty"`
	Allergens        string            `json:"allergens,omitempty"`
	Ingredients      string            `json:"ingredients,omitempty"`
}

// MenuFilter narrows Menu, empty fields match everything.
type MenuFilter struct {
	DiningHallID string
	Date         string
	MealPeriod   string
}

type SearchResult struct {
	RecNum           string `json:"rec_num"`
	Name             string `json:"name"`
	NutritionFetched bool   `json:"nutrition_fetched"`
}

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func New(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s Store) SeedHalls(ctx context.Context, directory halls.Directory) error {
	ctx, span := tracer.Start(ctx, "SeedHalls")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	for _, hall := range directory {
		err := txqry.UpsertDiningHall(ctx, db.UpsertDiningHallParams{
			ID:       hall.ID,
			Name:     hall.Name,
			Location: hall.Location,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s Store) DiningHalls(ctx context.Context) ([]halls.DiningHall, error) {
	rows, err := s.qry.GetDiningHalls(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]halls.DiningHall, len(rows))
	for i, r := range rows {
		out[i] = halls.DiningHall{
			ID:       r.ID,
			Name:     r.Name,
			Location: r.Location,
		}
	}
	return out, nil
}

// PlacementDates returns every date that has at least one placement.
func (s Store) PlacementDates(ctx context.Context) ([]string, error) {
	return s.qry.GetPlacementDates(ctx)
}

func (s Store) DeletePlacementsOn(ctx context.Context, date string) (int64, error) {
	return s.qry.DeletePlacementsOn(ctx, date)
}

// SavePlacements upserts every placement and creates a food stub for any
// rec_num not seen before, all in one transaction.
func (s Store) SavePlacements(ctx context.Context, placements []extract.Placement) error {
	ctx, span := tracer.Start(ctx, "SavePlacements")
	defer span.End()

	span.SetAttributes(attribute.Int("placements", len(placements)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	for _, p := range placements {
		if p.RecNum == "" {
			err := fmt.Errorf("placement '%s' has no rec_num", p.Name)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}

		icons := p.DietaryIcons
		if icons == nil {
			icons = []string{}
		}
		iconsJson, err := json.Marshal(icons)
		if err != nil {
			return err
		}

		err = txqry.UpsertPlacement(ctx, db.UpsertPlacementParams{
			Date:         p.Date,
			DiningHallID: p.DiningHallID,
			RecNum:       p.RecNum,
			MealPeriod:   p.MealPeriod,
			Name:         p.Name,
			Station:      p.Station,
			DietaryIcons: string(iconsJson),
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}

		err = txqry.CreateFoodStub(ctx, db.CreateFoodStubParams{
			RecNum: p.RecNum,
			Name:   p.Name,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s Store) PlacementsOn(ctx context.Context, date string) ([]extract.Placement, error) {
	rows, err := s.qry.GetPlacementsOn(ctx, date)
	if err != nil {
		return nil, err
	}
	out := make([]extract.Placement, len(rows))
	for i, r := range rows {
		var icons []string
		err := json.Unmarshal([]byte(r.DietaryIcons), &icons)
		if err != nil {
			return nil, fmt.Errorf("placement %s dietary icons: %w", r.RecNum, err)
		}
		out[i] = extract.Placement{
			Name:         r.Name,
			DiningHallID: r.DiningHallID,
			Date:         r.Date,
			RecNum:       r.RecNum,
			MealPeriod:   r.MealPeriod,
			Station:      r.Station,
			DietaryIcons: icons,
		}
	}
	return out, nil
}

func (s Store) GetFood(ctx context.Context, recNum string) (Food, error) {
	row, err := s.qry.GetFood(ctx, recNum)
	if errors.Is(err, sql.ErrNoRows) {
		return Food{}, fmt.Errorf("food '%s': %w", recNum, ErrNotFound)
	}
	if err != nil {
		return Food{}, err
	}

	var nutrition map[string]string
	err = json.Unmarshal([]byte(row.Nutrition), &nutrition)
	if err != nil {
		return Food{}, fmt.Errorf("food %s nutrition: %w", recNum, err)
	}
	return Food{
		RecNum:           row.RecNum,
		Name:             row.Name,
		Nutrition:        nutrition,
		Allergens:        row.Allergens,
		Ingredients:      row.Ingredients,
		NutritionFetched: row.NutritionFetched,
	}, nil
}

// FillFood stores the nutrition of a food if it hasn't been stored
// already, creating the food if it doesn't exist. filled is false when
// another fill got there first, in which case nothing was written.
func (s Store) FillFood(ctx context.Context, recNum string, nutrition extract.Nutrition) (filled bool, err error) {
	ctx, span := tracer.Start(ctx, "FillFood")
	defer span.End()

	span.SetAttributes(attribute.String("rec_num", recNum))

	facts := nutrition.Facts
	if facts == nil {
		facts = map[string]string{}
	}
	factsJson, err := json.Marshal(facts)
	if err != nil {
		return false, err
	}

	affected, err := s.qry.FillFood(ctx, db.FillFoodParams{
		RecNum:      recNum,
		Name:        nutrition.Name,
		Nutrition:   string(factsJson),
		Allergens:   nutrition.Allergens,
		Ingredients: nutrition.Ingredients,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	span.SetAttributes(attribute.Bool("filled", affected > 0))
	return affected > 0, nil
}

func (s Store) Menu(ctx context.Context, filter MenuFilter) ([]MenuItem, error) {
	ctx, span := tracer.Start(ctx, "Menu")
	defer span.End()

	rows, err := s.qry.GetMenu(ctx, db.GetMenuParams{
		DiningHallID: nullString(filter.DiningHallID),
		Date:         nullString(filter.Date),
		MealPeriod:   nullString(filter.MealPeriod),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make([]MenuItem, len(rows))
	for i, r := range rows {
		item := MenuItem{
			Date:             r.Date,
			DiningHallID:     r.DiningHallID,
			RecNum:           r.RecNum,
			MealPeriod:       r.MealPeriod,
			Station:          r.Station,
			Name:             r.Name,
			NutritionFetched: r.NutritionFetched,
		}
		err := json.Unmarshal([]byte(r.DietaryIcons), &item.DietaryIcons)
		if err != nil {
			return nil, fmt.Errorf("placement %s dietary icons: %w", r.RecNum, err)
		}
		if r.NutritionFetched {
			err := json.Unmarshal([]byte(r.Nutrition), &item.Nutrition)
			if err != nil {
				return nil, fmt.Errorf("food %s nutrition: %w", r.RecNum, err)
			}
			item.Allergens = r.Allergens
			item.Ingredients = r.Ingredients
		}
		out[i] = item
	}
	return out, nil
}

// Search finds foods and placements whose name contains query, shortest
// names first.
func (s Store) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	rows, err := s.qry.SearchFoods(ctx, db.SearchFoodsParams{
		Query: query,
		Lim:   int64(limit),
	})
	if err != nil {
		return nil, err
	}
	// rows are one per rec_num, named by the shortest matching name
	out := make([]SearchResult, 0, len(rows))
	for _, r := range rows {
		out = append(out, SearchResult{
			RecNum:           r.RecNum,
			Name:             r.Name,
			NutritionFetched: r.NutritionFetched,
		})
	}
	return out, nil
}
