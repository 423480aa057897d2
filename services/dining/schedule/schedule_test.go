package schedule

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
	"umddining-backend/services/dining/extract"
	"umddining-backend/services/dining/reconcile"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeRunner struct {
	lock  sync.Mutex
	dates []string
	err   error
}

func (r *fakeRunner) RunBatch(ctx context.Context, date string) (reconcile.BatchResult, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.dates = append(r.dates, date)
	if r.err != nil {
		return reconcile.BatchResult{}, r.err
	}
	if date == "" {
		date = "9/4/2024"
	}
	return reconcile.BatchResult{
		Date: date,
		Placements: []extract.Placement{
			{Name: "Veggie Burger", RecNum: "12345"},
			{Name: "Fries", RecNum: "200"},
		},
		Failures: []reconcile.HallFailure{
			{DiningHallID: "51", Error: "status 503", Err: fmt.Errorf("status 503")},
		},
	}, nil
}

func TestInvoke(t *testing.T) {
	{
		runner := &fakeRunner{}
		result := Invoke(context.Background(), runner, "9/3/2024")
		require.Equal(t, Result{
			Success:      true,
			Date:         "9/3/2024",
			ItemsScraped: 2,
		}, result)
	}
	{
		runner := &fakeRunner{err: fmt.Errorf("database is locked")}
		result := Invoke(context.Background(), runner, "9/3/2024")
		require.Equal(t, Result{
			Success: false,
			Date:    "9/3/2024",
			Error:   "database is locked",
		}, result)
	}
	{
		runner := &fakeRunner{err: fmt.Errorf("database is locked")}
		result := Invoke(context.Background(), runner, "")
		require.False(t, result.Success)
		require.NotEmpty(t, result.Date)
	}
}

func TestSchedulerInvalidSpec(t *testing.T) {
	_, err := NewScheduler(&fakeRunner{}, Options{Spec: "every tuesday"})
	require.Error(t, err)
}

func TestScheduler(t *testing.T) {
	runner := &fakeRunner{}
	results := make(chan Result, 8)
	scheduler, err := NewScheduler(runner, Options{
		Spec: "@every 1s",
		OnResult: func(r Result) {
			results <- r
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- scheduler.Run(ctx)
	}()

	select {
	case result := <-results:
		require.True(t, result.Success)
		require.Equal(t, 2, result.ItemsScraped)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled scrape never ran")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	runner.lock.Lock()
	defer runner.lock.Unlock()
	require.NotEmpty(t, runner.dates)
	// scheduled runs always scrape today
	require.Equal(t, "", runner.dates[0])
}
