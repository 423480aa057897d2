package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"umddining-backend/services/dining/extract"
	"umddining-backend/services/dining/store"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// GetNutrition returns the food for recNum, fetching its label page the
// first time it is asked for. Once a food's nutrition is stored it is
// never fetched or changed again.
func (e *Engine) GetNutrition(ctx context.Context, recNum string) (store.Food, error) {
	ctx, span := tracer.Start(ctx, "GetNutrition")
	defer span.End()

	span.SetAttributes(attribute.String("rec_num", recNum))

	if recNum == "" {
		return store.Food{}, fmt.Errorf("empty rec_num: %w", ErrNotFound)
	}

	// concurrent lookups of the same food in this process share one fetch,
	// which is not tied to any single caller's cancellation
	shared := context.WithoutCancel(ctx)
	results := e.lookups.DoChan(recNum, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(shared, e.lookupTimeout)
		defer cancel()
		return e.getNutrition(lookupCtx, recNum)
	})

	select {
	case res := <-results:
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
			return store.Food{}, res.Err
		}
		return res.Val.(store.Food), nil
	case <-ctx.Done():
		err := fmt.Errorf("food '%s': %w", recNum, ctx.Err())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return store.Food{}, err
	}
}

func (e *Engine) getNutrition(ctx context.Context, recNum string) (store.Food, error) {
	food, err := e.store.GetFood(ctx, recNum)
	exists := true
	if errors.Is(err, ErrNotFound) {
		exists = false
	} else if err != nil {
		return store.Food{}, err
	}
	if exists && food.NutritionFetched {
		nutritionCacheHits.Add(ctx, 1)
		return food, nil
	}

	html, err := e.fetcher.LabelPage(ctx, recNum)
	if err != nil {
		if !exists {
			return store.Food{}, fmt.Errorf("food '%s': %w: %w", recNum, ErrNotFound, err)
		}
		return store.Food{}, err
	}
	nutritionFetches.Add(ctx, 1)

	nutrition, err := extract.ExtractNutrition(ctx, html)
	if err != nil {
		return store.Food{}, err
	}
	if !exists && nutrition.Empty() {
		return store.Food{}, fmt.Errorf("food '%s' has an empty label page: %w", recNum, ErrNotFound)
	}

	filled, err := e.store.FillFood(ctx, recNum, nutrition)
	if err != nil {
		return store.Food{}, fmt.Errorf("fill food '%s': %w", recNum, err)
	}
	if filled {
		slog.DebugContext(ctx, "stored nutrition", "rec_num", recNum, "facts", len(nutrition.Facts))
		e.notifyChange()
	} else {
		slog.DebugContext(ctx, "nutrition was stored by another lookup first", "rec_num", recNum)
	}

	// always answer with what is stored, which may be another lookup's fill
	return e.store.GetFood(ctx, recNum)
}
