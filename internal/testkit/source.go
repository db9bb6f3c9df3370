package testkit

import (
	"context"

	"ringlab/domain/core"
	"ringlab/domain/health"
	"ringlab/ports"
)

// StaticSource serves records from a fixed bundle, filtered to the
// requested range. Err, when set, is returned by every call.
type StaticSource struct {
	Bundle *health.Bundle
	Info   *health.PersonalInfo
	Err    error
}

var _ ports.RecordSource = (*StaticSource)(nil)

// NewStaticSource wraps a bundle with a stock personal-info record.
func NewStaticSource(b *health.Bundle) *StaticSource {
	age := 34
	weight := 72.5
	height := 1.78
	sex := "male"
	email := "tester@example.com"
	return &StaticSource{
		Bundle: b,
		Info: &health.PersonalInfo{
			ID:            "user_test",
			Age:           &age,
			Weight:        &weight,
			Height:        &height,
			BiologicalSex: &sex,
			Email:         &email,
		},
	}
}

func (s *StaticSource) Sleep(ctx context.Context, start, end core.Day) ([]health.DailySleep, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []health.DailySleep
	for _, r := range s.Bundle.Sleep {
		if inRange(r.Day, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *StaticSource) Activity(ctx context.Context, start, end core.Day) ([]health.DailyActivity, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []health.DailyActivity
	for _, r := range s.Bundle.Activity {
		if inRange(r.Day, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *StaticSource) Readiness(ctx context.Context, start, end core.Day) ([]health.DailyReadiness, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []health.DailyReadiness
	for _, r := range s.Bundle.Readiness {
		if inRange(r.Day, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *StaticSource) Stress(ctx context.Context, start, end core.Day) ([]health.DailyStress, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []health.DailyStress
	for _, r := range s.Bundle.Stress {
		if inRange(r.Day, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *StaticSource) Resilience(ctx context.Context, start, end core.Day) ([]health.DailyResilience, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []health.DailyResilience
	for _, r := range s.Bundle.Resilience {
		if inRange(r.Day, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *StaticSource) SpO2(ctx context.Context, start, end core.Day) ([]health.DailySpO2, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []health.DailySpO2
	for _, r := range s.Bundle.SpO2 {
		if inRange(r.Day, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *StaticSource) CardioAge(ctx context.Context, start, end core.Day) ([]health.CardiovascularAge, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []health.CardiovascularAge
	for _, r := range s.Bundle.CardioAge {
		if inRange(r.Day, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *StaticSource) VO2Max(ctx context.Context, start, end core.Day) ([]health.VO2Max, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []health.VO2Max
	for _, r := range s.Bundle.VO2Max {
		if inRange(r.Day, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *StaticSource) SleepDetails(ctx context.Context, start, end core.Day) ([]health.SleepDetail, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []health.SleepDetail
	for _, r := range s.Bundle.SleepDetails {
		if inRange(r.Day, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *StaticSource) Workouts(ctx context.Context, start, end core.Day) ([]health.Workout, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []health.Workout
	for _, r := range s.Bundle.Workouts {
		if inRange(r.Day, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *StaticSource) PersonalInfo(ctx context.Context) (*health.PersonalInfo, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Info, nil
}

func inRange(d, start, end core.Day) bool {
	return !d.Before(start) && !end.Before(d)
}
