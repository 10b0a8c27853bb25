package stats

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type windows struct {
	since         []time.Time
	followUpFrom  time.Time
	followUpTo    time.Time
	overdueBefore time.Time
}

type mockRepo struct {
	windows windows
}

func (m *mockRepo) CountPatients(_ context.Context, _ primitive.ObjectID) (int64, error) {
	return 12, nil
}

func (m *mockRepo) CountPrescriptions(_ context.Context, _ primitive.ObjectID) (int64, error) {
	return 30, nil
}

func (m *mockRepo) CountPrescriptionsSince(_ context.Context, _ primitive.ObjectID, since time.Time) (int64, error) {
	m.windows.since = append(m.windows.since, since)
	return int64(len(m.windows.since)), nil
}

func (m *mockRepo) CountFollowUps(_ context.Context, _ primitive.ObjectID) (int64, error) {
	return 5, nil
}

func (m *mockRepo) CountFollowUpsBetween(_ context.Context, _ primitive.ObjectID, from, to time.Time) (int64, error) {
	m.windows.followUpFrom = from
	m.windows.followUpTo = to
	return 2, nil
}

func (m *mockRepo) CountOverdueFollowUps(_ context.Context, _ primitive.ObjectID, before time.Time) (int64, error) {
	m.windows.overdueBefore = before
	return 1, nil
}

func TestDashboard_WindowBoundaries(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)
	svc.now = func() time.Time {
		return time.Date(2025, 8, 20, 15, 30, 0, 0, time.UTC)
	}

	d, err := svc.Dashboard(context.Background(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	todayStart := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)
	weekStart := time.Date(2025, 8, 13, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	if len(repo.windows.since) != 3 {
		t.Fatalf("expected 3 ranged prescription counts, got %d", len(repo.windows.since))
	}
	if !repo.windows.since[0].Equal(todayStart) {
		t.Errorf("today window starts at %v, want %v", repo.windows.since[0], todayStart)
	}
	if !repo.windows.since[1].Equal(weekStart) {
		t.Errorf("week window starts at %v, want %v", repo.windows.since[1], weekStart)
	}
	if !repo.windows.since[2].Equal(monthStart) {
		t.Errorf("month window starts at %v, want %v", repo.windows.since[2], monthStart)
	}
	if !repo.windows.followUpFrom.Equal(todayStart) || !repo.windows.followUpTo.Equal(todayStart.AddDate(0, 0, 1)) {
		t.Errorf("follow-up window %v..%v, want %v..%v",
			repo.windows.followUpFrom, repo.windows.followUpTo, todayStart, todayStart.AddDate(0, 0, 1))
	}
	if !repo.windows.overdueBefore.Equal(todayStart) {
		t.Errorf("overdue boundary %v, want %v", repo.windows.overdueBefore, todayStart)
	}

	if d.TotalPatients != 12 || d.TotalPrescriptions != 30 || d.TotalFollowUps != 5 ||
		d.FollowUpsToday != 2 || d.OverdueFollowUps != 1 {
		t.Errorf("unexpected dashboard values: %+v", d)
	}
}
