package stats

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dashboard is the summary shown on the clinic home screen.
type Dashboard struct {
	TotalPatients      int64 `json:"totalPatients"`
	TotalPrescriptions int64 `json:"totalPrescriptions"`
	TodayPrescriptions int64 `json:"todayPrescriptions"`
	WeekPrescriptions  int64 `json:"weekPrescriptions"`
	MonthPrescriptions int64 `json:"monthPrescriptions"`
	TotalFollowUps     int64 `json:"totalFollowUps"`
	FollowUpsToday     int64 `json:"followUpsToday"`
	OverdueFollowUps   int64 `json:"overdueFollowUps"`
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Dashboard gathers the caller's counters. "Today" starts at UTC midnight,
// the week window covers the last seven days, and the month window starts
// on the first of the current month.
func (s *Service) Dashboard(ctx context.Context, doctorID primitive.ObjectID) (*Dashboard, error) {
	now := s.now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := todayStart.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	d := &Dashboard{}
	var err error

	if d.TotalPatients, err = s.repo.CountPatients(ctx, doctorID); err != nil {
		return nil, err
	}
	if d.TotalPrescriptions, err = s.repo.CountPrescriptions(ctx, doctorID); err != nil {
		return nil, err
	}
	if d.TodayPrescriptions, err = s.repo.CountPrescriptionsSince(ctx, doctorID, todayStart); err != nil {
		return nil, err
	}
	if d.WeekPrescriptions, err = s.repo.CountPrescriptionsSince(ctx, doctorID, weekStart); err != nil {
		return nil, err
	}
	if d.MonthPrescriptions, err = s.repo.CountPrescriptionsSince(ctx, doctorID, monthStart); err != nil {
		return nil, err
	}
	if d.TotalFollowUps, err = s.repo.CountFollowUps(ctx, doctorID); err != nil {
		return nil, err
	}
	if d.FollowUpsToday, err = s.repo.CountFollowUpsBetween(ctx, doctorID, todayStart, todayStart.AddDate(0, 0, 1)); err != nil {
		return nil, err
	}
	if d.OverdueFollowUps, err = s.repo.CountOverdueFollowUps(ctx, doctorID, todayStart); err != nil {
		return nil, err
	}
	return d, nil
}
