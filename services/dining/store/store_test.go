package store

import (
	"context"
	"fmt"
	"testing"
	"time"
	"umddining-backend/lib/testutil"
	"umddining-backend/services/dining/db"
	"umddining-backend/services/dining/extract"
	"umddining-backend/services/dining/halls"

	"github.com/stretchr/testify/require"
)

func setupStore(t testing.TB) (Store, func()) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/dining/store",
		DbSchema: db.Schema,
	})
	return New(setup.DB), cleanup
}

func TestSeedHalls(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	err := store.SeedHalls(ctx, halls.Default)
	if err != nil {
		t.Fatal(err)
	}
	// seeding again overwrites instead of failing
	err = store.SeedHalls(ctx, halls.Directory{
		{ID: "19", Name: "Yahentamitsi", Location: "South Campus"},
	})
	if err != nil {
		t.Fatal(err)
	}

	rows, err := store.DiningHalls(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []halls.DiningHall{
		{ID: "16", Name: "South Campus Diner", Location: "South Campus"},
		{ID: "19", Name: "Yahentamitsi", Location: "South Campus"},
		{ID: "51", Name: "251 North", Location: "North Campus"},
	}, rows)
}

func TestPlacements(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	burger := extract.Placement{
		Name:         "Veggie Burger",
		DiningHallID: "19",
		Date:         "9/3/2024",
		RecNum:       "12345",
		MealPeriod:   "Lunch",
		Station:      "Grill",
		DietaryIcons: []string{"vegan"},
	}
	fries := extract.Placement{
		Name:         "Fries",
		DiningHallID: "19",
		Date:         "9/3/2024",
		RecNum:       "200",
		MealPeriod:   "Lunch",
		Station:      "Grill",
	}
	old := extract.Placement{
		Name:         "Oatmeal",
		DiningHallID: "51",
		Date:         "9/2/2024",
		RecNum:       "300",
		MealPeriod:   "Breakfast",
		Station:      "Hot Cereal",
		DietaryIcons: []string{},
	}

	{
		err := store.SavePlacements(ctx, []extract.Placement{burger, fries, old})
		if err != nil {
			t.Fatal(err)
		}
		// saving the same placement again updates it in place
		burger.Station = "Grill Station"
		err = store.SavePlacements(ctx, []extract.Placement{burger})
		if err != nil {
			t.Fatal(err)
		}
	}
	{
		rows, err := store.PlacementsOn(ctx, "9/3/2024")
		if err != nil {
			t.Fatal(err)
		}
		fries.DietaryIcons = []string{}
		require.Equal(t, []extract.Placement{fries, burger}, rows)
	}
	{
		dates, err := store.PlacementDates(ctx)
		if err != nil {
			t.Fatal(err)
		}
		require.ElementsMatch(t, []string{"9/2/2024", "9/3/2024"}, dates)
	}
	{
		food, err := store.GetFood(ctx, "12345")
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, Food{
			RecNum:    "12345",
			Name:      "Veggie Burger",
			Nutrition: map[string]string{},
		}, food)
	}
	{
		err := store.SavePlacements(ctx, []extract.Placement{{Name: "No Id", Date: "9/3/2024"}})
		require.Error(t, err)
	}
	{
		deleted, err := store.DeletePlacementsOn(ctx, "9/2/2024")
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, int64(1), deleted)

		rows, err := store.PlacementsOn(ctx, "9/2/2024")
		if err != nil {
			t.Fatal(err)
		}
		require.Empty(t, rows)

		// foods are never deleted with their placements
		_, err = store.GetFood(ctx, "300")
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestFillFood(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		_, err := store.GetFood(ctx, "12345")
		require.ErrorIs(t, err, ErrNotFound)
	}
	{
		err := store.SavePlacements(ctx, []extract.Placement{{
			Name:         "Veggie Burger",
			DiningHallID: "19",
			Date:         "9/3/2024",
			RecNum:       "12345",
			MealPeriod:   "Lunch",
			Station:      "Grill",
		}})
		if err != nil {
			t.Fatal(err)
		}
	}
	{
		filled, err := store.FillFood(ctx, "12345", extract.Nutrition{
			Name:        "Veggie Burger Patty",
			Facts:       map[string]string{"Calories": "350"},
			Ingredients: "beans",
			Allergens:   "soy",
		})
		if err != nil {
			t.Fatal(err)
		}
		require.True(t, filled)
	}
	{
		filled, err := store.FillFood(ctx, "12345", extract.Nutrition{
			Facts: map[string]string{"Calories": "999"},
		})
		if err != nil {
			t.Fatal(err)
		}
		require.False(t, filled)
	}
	{
		food, err := store.GetFood(ctx, "12345")
		if err != nil {
			t.Fatal(err)
		}
		// the stub keeps its menu name
		require.Equal(t, Food{
			RecNum:           "12345",
			Name:             "Veggie Burger",
			Nutrition:        map[string]string{"Calories": "350"},
			Ingredients:      "beans",
			Allergens:        "soy",
			NutritionFetched: true,
		}, food)
	}
	{
		// filling a food that was never listed creates it
		filled, err := store.FillFood(ctx, "777", extract.Nutrition{Name: "Apple"})
		if err != nil {
			t.Fatal(err)
		}
		require.True(t, filled)

		food, err := store.GetFood(ctx, "777")
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, "Apple", food.Name)
		require.True(t, food.NutritionFetched)
		require.Equal(t, map[string]string{}, food.Nutrition)
	}
}

func TestMenuAndSearch(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	err := store.SavePlacements(ctx, []extract.Placement{
		{Name: "Veggie Burger", DiningHallID: "19", Date: "9/3/2024", RecNum: "1", MealPeriod: "Lunch", Station: "Grill", DietaryIcons: []string{"vegan"}},
		{Name: "Cheeseburger", DiningHallID: "19", Date: "9/3/2024", RecNum: "2", MealPeriod: "Dinner", Station: "Grill"},
		{Name: "Garden Salad", DiningHallID: "19", Date: "9/3/2024", RecNum: "3", MealPeriod: "Lunch", Station: "Salad Bar"},
		{Name: "Veggie Burger", DiningHallID: "51", Date: "9/4/2024", RecNum: "1", MealPeriod: "Lunch", Station: "Deli"},
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = store.FillFood(ctx, "1", extract.Nutrition{
		Facts:     map[string]string{"Calories": "350"},
		Allergens: "soy",
	})
	if err != nil {
		t.Fatal(err)
	}

	{
		items, err := store.Menu(ctx, MenuFilter{DiningHallID: "19", Date: "9/3/2024", MealPeriod: "lunch"})
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, []MenuItem{
			{
				Date:             "9/3/2024",
				DiningHallID:     "19",
				RecNum:           "1",
				MealPeriod:       "Lunch",
				Station:          "Grill",
				DietaryIcons:     []string{"vegan"},
				Name:             "Veggie Burger",
				NutritionFetched: true,
				Nutrition:        map[string]string{"Calories": "350"},
				Allergens:        "soy",
			},
			{
				Date:         "9/3/2024",
				DiningHallID: "19",
				RecNum:       "3",
				MealPeriod:   "Lunch",
				Station:      "Salad Bar",
				DietaryIcons: []string{},
				Name:         "Garden Salad",
			},
		}, items)
	}
	{
		items, err := store.Menu(ctx, MenuFilter{})
		if err != nil {
			t.Fatal(err)
		}
		require.Len(t, items, 4)
	}
	{
		results, err := store.Search(ctx, "BURGER", 50)
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, []SearchResult{
			{RecNum: "2", Name: "Cheeseburger"},
			{RecNum: "1", Name: "Veggie Burger", NutritionFetched: true},
		}, results)
	}
	{
		results, err := store.Search(ctx, "burger", 1)
		if err != nil {
			t.Fatal(err)
		}
		require.Len(t, results, 1)
	}
	{
		results, err := store.Search(ctx, "pizza", 50)
		if err != nil {
			t.Fatal(err)
		}
		require.Empty(t, results)
	}
}

func TestSearchLimitCountsFoods(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	// every soup is listed under two names that sort next to each other
	var placements []extract.Placement
	for i := 10; i < 70; i++ {
		recNum := fmt.Sprint(i)
		placements = append(placements,
			extract.Placement{Name: fmt.Sprintf("Soup %dx", i), DiningHallID: "19", Date: "9/4/2024", RecNum: recNum, MealPeriod: "Lunch", Station: "Soup"},
			extract.Placement{Name: fmt.Sprintf("Soup %dy", i), DiningHallID: "19", Date: "9/5/2024", RecNum: recNum, MealPeriod: "Lunch", Station: "Soup"},
		)
	}
	err := store.SavePlacements(ctx, placements)
	if err != nil {
		t.Fatal(err)
	}

	results, err := store.Search(ctx, "soup", 50)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, results, 50)

	seen := map[string]bool{}
	for _, r := range results {
		require.False(t, seen[r.RecNum], r.RecNum)
		seen[r.RecNum] = true
		require.Equal(t, fmt.Sprintf("Soup %sx", r.RecNum), r.Name)
	}
	require.Equal(t, "10", results[0].RecNum)
	require.Equal(t, "59", results[49].RecNum)
}
