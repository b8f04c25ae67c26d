package syncer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"stryd-activity-sync/internal/database"
	"stryd-activity-sync/internal/metrics"
	"stryd-activity-sync/internal/normalize"
	"stryd-activity-sync/internal/stryd"
)

// fakeSource serves canned details and can fail specific ids
type fakeSource struct {
	details map[int64]*stryd.ActivityDetail
	failIDs map[int64]bool
	fetches int
	onFetch func(id int64)
}

func (s *fakeSource) GetActivityDetail(ctx context.Context, activityID int64) (*stryd.ActivityDetail, error) {
	s.fetches++
	if s.onFetch != nil {
		s.onFetch(activityID)
	}
	if s.failIDs[activityID] {
		return nil, errors.New("detail fetch failed")
	}
	return s.details[activityID], nil
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Init(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}
	return db
}

func makeFixtures(n int) ([]stryd.ActivitySummary, *fakeSource) {
	summaries := make([]stryd.ActivitySummary, 0, n)
	source := &fakeSource{
		details: make(map[int64]*stryd.ActivityDetail),
		failIDs: make(map[int64]bool),
	}
	for i := 1; i <= n; i++ {
		id := int64(i)
		summaries = append(summaries, stryd.ActivitySummary{
			ID:        id,
			Name:      fmt.Sprintf("Run %d", i),
			Type:      "run",
			Timestamp: 1700000000 + id,
		})
		source.details[id] = &stryd.ActivityDetail{
			ID:            id,
			Name:          fmt.Sprintf("Run %d", i),
			Type:          "run",
			Timestamp:     1700000000 + id,
			MovingTime:    3600,
			TimestampList: []int64{1, 2, 3},
		}
	}
	return summaries, source
}

func TestRunSyncsAll(t *testing.T) {
	db := newTestDB(t)
	summaries, source := makeFixtures(25)

	report, err := New(db, source, false, 10).Run(context.Background(), summaries)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Synced != 25 || report.Skipped != 0 || report.Failed != 0 {
		t.Errorf("report: %+v, want 25 synced", *report)
	}

	count, err := db.ActivityCount()
	if err != nil {
		t.Fatalf("ActivityCount: %v", err)
	}
	if count != 25 {
		t.Errorf("store has %d activities, want 25", count)
	}
}

func TestRunContinuesPastFetchFailure(t *testing.T) {
	db := newTestDB(t)
	summaries, source := makeFixtures(25)
	source.failIDs[14] = true

	batchesBefore := testutil.ToFloat64(metrics.SyncBatchesTotal)
	report, err := New(db, source, false, 10).Run(context.Background(), summaries)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Synced != 24 || report.Skipped != 0 || report.Failed != 1 {
		t.Errorf("report: %+v, want synced=24 failed=1", *report)
	}

	// 25 activities at batch size 10 is three batches (10/10/5) whether or
	// not an activity in the middle fails
	if got := testutil.ToFloat64(metrics.SyncBatchesTotal) - batchesBefore; got != 3 {
		t.Errorf("got %v batches, want 3", got)
	}

	exists, err := db.ActivityExists(14)
	if err != nil {
		t.Fatalf("ActivityExists: %v", err)
	}
	if exists {
		t.Error("failed activity was written to the store")
	}
}

func TestRunCountsWriteFailureAndContinues(t *testing.T) {
	db := newTestDB(t)
	summaries, source := makeFixtures(3)

	// Duplicate zone names make the store write fail mid-transaction
	source.details[2].Zones = []stryd.Zone{
		{Name: "Easy", PowerLow: 150, PowerHigh: 200},
		{Name: "Easy", PowerLow: 200, PowerHigh: 250},
	}
	source.details[2].SecondsInZones = []int64{600, 600}

	report, err := New(db, source, false, 10).Run(context.Background(), summaries)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Synced != 2 || report.Skipped != 0 || report.Failed != 1 {
		t.Errorf("report: %+v, want synced=2 failed=1", *report)
	}

	// The failed write left nothing behind; the activities around it landed
	exists, err := db.ActivityExists(2)
	if err != nil {
		t.Fatalf("ActivityExists: %v", err)
	}
	if exists {
		t.Error("failed activity was written to the store")
	}
	count, err := db.ActivityCount()
	if err != nil {
		t.Fatalf("ActivityCount: %v", err)
	}
	if count != 2 {
		t.Errorf("store has %d activities, want 2", count)
	}
}

func TestRunNilDetailIsFetchFailure(t *testing.T) {
	db := newTestDB(t)
	summaries, source := makeFixtures(3)
	delete(source.details, 2)

	report, err := New(db, source, false, 10).Run(context.Background(), summaries)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Synced != 2 || report.Failed != 1 {
		t.Errorf("report: %+v, want synced=2 failed=1", *report)
	}
}

func TestRunSkipsExistingWithoutFetch(t *testing.T) {
	db := newTestDB(t)
	summaries, source := makeFixtures(5)

	if _, err := New(db, source, false, 10).Run(context.Background(), summaries); err != nil {
		t.Fatalf("first run: %v", err)
	}

	source.fetches = 0
	report, err := New(db, source, false, 10).Run(context.Background(), summaries)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if report.Synced != 0 || report.Skipped != 5 || report.Failed != 0 {
		t.Errorf("report: %+v, want skipped=5", *report)
	}
	if source.fetches != 0 {
		t.Errorf("skipped activities fetched detail %d times, want 0", source.fetches)
	}
}

func TestRunForceResyncs(t *testing.T) {
	db := newTestDB(t)
	summaries, source := makeFixtures(5)

	if _, err := New(db, source, false, 10).Run(context.Background(), summaries); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// The rewrite should land, not be skipped
	source.details[3].Name = "Corrected Run"
	report, err := New(db, source, true, 10).Run(context.Background(), summaries)
	if err != nil {
		t.Fatalf("force run: %v", err)
	}

	if report.Synced != 5 || report.Skipped != 0 {
		t.Errorf("report: %+v, want synced=5", *report)
	}

	var name string
	if err := db.Conn().QueryRow("SELECT name FROM activities WHERE id = 3").Scan(&name); err != nil {
		t.Fatalf("query name: %v", err)
	}
	if name != "Corrected Run" {
		t.Errorf("name: got %q, want %q", name, "Corrected Run")
	}

	count, err := db.ActivityCount()
	if err != nil {
		t.Fatalf("ActivityCount: %v", err)
	}
	if count != 5 {
		t.Errorf("store has %d activities, want 5", count)
	}
}

func TestRunCancelledBetweenActivities(t *testing.T) {
	db := newTestDB(t)
	summaries, source := makeFixtures(10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	source.onFetch = func(id int64) {
		if id == 4 {
			cancel()
		}
	}

	report, err := New(db, source, false, 10).Run(ctx, summaries)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}

	// The in-flight activity completes; nothing after it starts
	if report.Synced != 4 {
		t.Errorf("synced: got %d, want 4", report.Synced)
	}
	if source.fetches != 4 {
		t.Errorf("fetches: got %d, want 4", source.fetches)
	}
}

func TestRunAbortsOnMissingID(t *testing.T) {
	db := newTestDB(t)
	summaries, source := makeFixtures(5)
	source.details[3] = &stryd.ActivityDetail{Name: "No ID"}

	report, err := New(db, source, false, 10).Run(context.Background(), summaries)
	if !errors.Is(err, normalize.ErrMissingID) {
		t.Fatalf("got %v, want ErrMissingID", err)
	}

	// Activities before the bad payload are committed; nothing after runs
	if report.Synced != 2 {
		t.Errorf("synced: got %d, want 2", report.Synced)
	}
	count, err := db.ActivityCount()
	if err != nil {
		t.Fatalf("ActivityCount: %v", err)
	}
	if count != 2 {
		t.Errorf("store has %d activities, want 2", count)
	}
}

func TestRunEmptyInput(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{}

	report, err := New(db, source, false, 10).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Total != 0 || report.Synced != 0 {
		t.Errorf("report: %+v, want all zero", *report)
	}
}

func TestNewDefaultsBatchSize(t *testing.T) {
	db := newTestDB(t)
	s := New(db, &fakeSource{}, false, 0)
	if s.batchSize != DefaultBatchSize {
		t.Errorf("batch size: got %d, want %d", s.batchSize, DefaultBatchSize)
	}
}
