package ouraapi

import (
	"context"
	"encoding/json"

	"ringlab/domain/core"
	"ringlab/domain/health"
	"ringlab/ports"
)

var _ ports.RecordSource = (*Client)(nil)

// Collection endpoints. The vO2_max casing is the upstream API's, not a
// typo.
const (
	endpointDailySleep      = "daily_sleep"
	endpointDailyActivity   = "daily_activity"
	endpointDailyReadiness  = "daily_readiness"
	endpointDailyStress     = "daily_stress"
	endpointDailyResilience = "daily_resilience"
	endpointDailySpO2       = "daily_spo2"
	endpointCardioAge       = "daily_cardiovascular_age"
	endpointVO2Max          = "vO2_max"
	endpointSleepDetail     = "sleep"
	endpointWorkout         = "workout"
	endpointPersonalInfo    = "personal_info"
)

func (c *Client) Sleep(ctx context.Context, start, end core.Day) ([]health.DailySleep, error) {
	var out []health.DailySleep
	err := c.fetchPages(ctx, endpointDailySleep, rangeParams(start, end), func(data json.RawMessage) error {
		var page []health.DailySleep
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		out = append(out, page...)
		return nil
	})
	return out, err
}

func (c *Client) Activity(ctx context.Context, start, end core.Day) ([]health.DailyActivity, error) {
	var out []health.DailyActivity
	err := c.fetchPages(ctx, endpointDailyActivity, rangeParams(start, end), func(data json.RawMessage) error {
		var page []health.DailyActivity
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		out = append(out, page...)
		return nil
	})
	return out, err
}

func (c *Client) Readiness(ctx context.Context, start, end core.Day) ([]health.DailyReadiness, error) {
	var out []health.DailyReadiness
	err := c.fetchPages(ctx, endpointDailyReadiness, rangeParams(start, end), func(data json.RawMessage) error {
		var page []health.DailyReadiness
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		out = append(out, page...)
		return nil
	})
	return out, err
}

func (c *Client) Stress(ctx context.Context, start, end core.Day) ([]health.DailyStress, error) {
	var out []health.DailyStress
	err := c.fetchPages(ctx, endpointDailyStress, rangeParams(start, end), func(data json.RawMessage) error {
		var page []health.DailyStress
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		out = append(out, page...)
		return nil
	})
	return out, err
}

func (c *Client) Resilience(ctx context.Context, start, end core.Day) ([]health.DailyResilience, error) {
	var out []health.DailyResilience
	err := c.fetchPages(ctx, endpointDailyResilience, rangeParams(start, end), func(data json.RawMessage) error {
		var page []health.DailyResilience
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		out = append(out, page...)
		return nil
	})
	return out, err
}

func (c *Client) SpO2(ctx context.Context, start, end core.Day) ([]health.DailySpO2, error) {
	var out []health.DailySpO2
	err := c.fetchPages(ctx, endpointDailySpO2, rangeParams(start, end), func(data json.RawMessage) error {
		var page []health.DailySpO2
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		out = append(out, page...)
		return nil
	})
	return out, err
}

func (c *Client) CardioAge(ctx context.Context, start, end core.Day) ([]health.CardiovascularAge, error) {
	var out []health.CardiovascularAge
	err := c.fetchPages(ctx, endpointCardioAge, rangeParams(start, end), func(data json.RawMessage) error {
		var page []health.CardiovascularAge
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		out = append(out, page...)
		return nil
	})
	return out, err
}

func (c *Client) VO2Max(ctx context.Context, start, end core.Day) ([]health.VO2Max, error) {
	var out []health.VO2Max
	err := c.fetchPages(ctx, endpointVO2Max, rangeParams(start, end), func(data json.RawMessage) error {
		var page []health.VO2Max
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		out = append(out, page...)
		return nil
	})
	return out, err
}

func (c *Client) SleepDetails(ctx context.Context, start, end core.Day) ([]health.SleepDetail, error) {
	var out []health.SleepDetail
	err := c.fetchPages(ctx, endpointSleepDetail, rangeParams(start, end), func(data json.RawMessage) error {
		var page []health.SleepDetail
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		out = append(out, page...)
		return nil
	})
	return out, err
}

func (c *Client) Workouts(ctx context.Context, start, end core.Day) ([]health.Workout, error) {
	var out []health.Workout
	err := c.fetchPages(ctx, endpointWorkout, rangeParams(start, end), func(data json.RawMessage) error {
		var page []health.Workout
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		out = append(out, page...)
		return nil
	})
	return out, err
}

// PersonalInfo fetches the account profile. The endpoint returns a single
// object, not a paginated collection.
func (c *Client) PersonalInfo(ctx context.Context) (*health.PersonalInfo, error) {
	raw, err := c.get(ctx, endpointPersonalInfo, nil)
	if err != nil {
		return nil, err
	}
	var info health.PersonalInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
