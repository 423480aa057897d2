package api

import (
	"context"
	"testing"
	"time"
	"umddining-backend/services/dining/halls"
	"umddining-backend/services/dining/store"

	"github.com/stretchr/testify/require"
)

type countingStore struct {
	reads  int
	onRead func()
}

func (s *countingStore) DiningHalls(ctx context.Context) ([]halls.DiningHall, error) {
	return nil, nil
}

func (s *countingStore) Menu(ctx context.Context, filter store.MenuFilter) ([]store.MenuItem, error) {
	s.reads++
	if s.onRead != nil {
		s.onRead()
	}
	return []store.MenuItem{{Name: "Veggie Burger", Station: string(rune('A' + s.reads - 1))}}, nil
}

func (s *countingStore) Search(ctx context.Context, query string, limit int) ([]store.SearchResult, error) {
	return nil, nil
}

func TestMenuCache(t *testing.T) {
	s := &countingStore{}
	cache := newMenuCache(s, 16, time.Minute)
	ctx := context.Background()
	filter := store.MenuFilter{DiningHallID: "19", Date: "9/4/2024", MealPeriod: "Lunch"}

	items, err := cache.Get(ctx, filter)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "A", items[0].Station)

	// meal period is matched case insensitively
	items, err = cache.Get(ctx, store.MenuFilter{DiningHallID: "19", Date: "9/4/2024", MealPeriod: "LUNCH"})
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "A", items[0].Station)
	require.Equal(t, 1, s.reads)

	cache.Purge()
	items, err = cache.Get(ctx, filter)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "B", items[0].Station)
	require.Equal(t, 2, s.reads)
}

func TestMenuCacheSkipsReadRacingPurge(t *testing.T) {
	s := &countingStore{}
	cache := newMenuCache(s, 16, time.Minute)
	ctx := context.Background()
	filter := store.MenuFilter{DiningHallID: "19", Date: "9/4/2024"}

	// a batch finishes while the first read is in flight
	s.onRead = func() {
		s.onRead = nil
		cache.Purge()
	}
	items, err := cache.Get(ctx, filter)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "A", items[0].Station)

	items, err = cache.Get(ctx, filter)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "B", items[0].Station)

	items, err = cache.Get(ctx, filter)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "B", items[0].Station)
	require.Equal(t, 2, s.reads)
}
