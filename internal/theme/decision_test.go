package theme

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkarvo/sunshift/internal/suntime"
)

func dayTimes(t *testing.T) (sunrise, sunset time.Time) {
	t.Helper()
	sunrise = time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	sunset = time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	return sunrise, sunset
}

func TestDecide(t *testing.T) {
	sunrise, sunset := dayTimes(t)

	tests := []struct {
		name        string
		now         time.Time
		wantTheme   Theme
		wantDaytime bool
	}{
		{"before sunrise", sunrise.Add(-3 * time.Hour), Dark, false},
		{"exactly sunrise", sunrise, Light, true},
		{"midday", sunrise.Add(6 * time.Hour), Light, true},
		{"just before sunset", sunset.Add(-time.Second), Light, true},
		{"exactly sunset", sunset, Dark, false},
		{"after sunset", sunset.Add(3 * time.Hour), Dark, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme, daytime := Decide(tt.now, sunrise, sunset)
			if theme != tt.wantTheme {
				t.Errorf("Expected theme %s, got %s", tt.wantTheme, theme)
			}
			if daytime != tt.wantDaytime {
				t.Errorf("Expected isDaytime %v, got %v", tt.wantDaytime, daytime)
			}
		})
	}
}

func noTomorrow(t *testing.T) TomorrowFunc {
	t.Helper()
	return func(ctx context.Context) (suntime.SunTimes, error) {
		t.Fatal("tomorrow fetch should not be needed")
		return suntime.SunTimes{}, nil
	}
}

func TestPlanNext_DaytimeTargetsSunset(t *testing.T) {
	sunrise, sunset := dayTimes(t)
	today := suntime.SunTimes{Sunrise: sunrise, Sunset: sunset}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	plan, err := PlanNext(context.Background(), now, today, noTomorrow(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !plan.Trigger.Equal(sunset) {
		t.Errorf("Expected trigger at sunset %v, got %v", sunset, plan.Trigger)
	}
	if plan.Label != "switch to Dark at sunset" {
		t.Errorf("Unexpected label %q", plan.Label)
	}
}

func TestPlanNext_BeforeSunriseTargetsSunrise(t *testing.T) {
	sunrise, sunset := dayTimes(t)
	today := suntime.SunTimes{Sunrise: sunrise, Sunset: sunset}
	now := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)

	plan, err := PlanNext(context.Background(), now, today, noTomorrow(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !plan.Trigger.Equal(sunrise) {
		t.Errorf("Expected trigger at sunrise %v, got %v", sunrise, plan.Trigger)
	}
	if plan.Label != "switch to Light at sunrise" {
		t.Errorf("Unexpected label %q", plan.Label)
	}
}

func TestPlanNext_AfterSunsetTargetsTomorrowSunrise(t *testing.T) {
	sunrise, sunset := dayTimes(t)
	today := suntime.SunTimes{Sunrise: sunrise, Sunset: sunset}
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	tomorrowSunrise := time.Date(2026, 3, 11, 6, 5, 0, 0, time.UTC)

	fetches := 0
	tomorrow := func(ctx context.Context) (suntime.SunTimes, error) {
		fetches++
		return suntime.SunTimes{
			Sunrise: tomorrowSunrise,
			Sunset:  tomorrowSunrise.Add(14 * time.Hour),
		}, nil
	}

	plan, err := PlanNext(context.Background(), now, today, tomorrow)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fetches != 1 {
		t.Errorf("Expected exactly one tomorrow fetch, got %d", fetches)
	}
	if !plan.Trigger.Equal(tomorrowSunrise) {
		t.Errorf("Expected trigger at tomorrow sunrise %v, got %v", tomorrowSunrise, plan.Trigger)
	}
	if plan.Label != "switch to Light at sunrise (tomorrow)" {
		t.Errorf("Unexpected label %q", plan.Label)
	}
}

func TestPlanNext_AtSunsetAlreadyNeedsTomorrow(t *testing.T) {
	sunrise, sunset := dayTimes(t)
	today := suntime.SunTimes{Sunrise: sunrise, Sunset: sunset}
	tomorrowSunrise := time.Date(2026, 3, 11, 6, 5, 0, 0, time.UTC)

	plan, err := PlanNext(context.Background(), sunset, today, func(ctx context.Context) (suntime.SunTimes, error) {
		return suntime.SunTimes{Sunrise: tomorrowSunrise, Sunset: tomorrowSunrise.Add(14 * time.Hour)}, nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !plan.Trigger.Equal(tomorrowSunrise) {
		t.Errorf("Expected sunset instant to plan for tomorrow, got trigger %v", plan.Trigger)
	}
}

func TestPlanNext_TomorrowFetchFailureIsFatal(t *testing.T) {
	sunrise, sunset := dayTimes(t)
	today := suntime.SunTimes{Sunrise: sunrise, Sunset: sunset}
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	_, err := PlanNext(context.Background(), now, today, func(ctx context.Context) (suntime.SunTimes, error) {
		return suntime.SunTimes{}, suntime.ErrDataUnavailable
	})
	if err == nil {
		t.Fatal("Expected error when tomorrow fetch fails")
	}
	if !errors.Is(err, suntime.ErrDataUnavailable) {
		t.Errorf("Expected ErrDataUnavailable, got %v", err)
	}
}

func TestPlanNext_IdempotentForIdenticalInputs(t *testing.T) {
	sunrise, sunset := dayTimes(t)
	today := suntime.SunTimes{Sunrise: sunrise, Sunset: sunset}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	first, err := PlanNext(context.Background(), now, today, noTomorrow(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := PlanNext(context.Background(), now, today, noTomorrow(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !first.Trigger.Equal(second.Trigger) || first.Label != second.Label {
		t.Errorf("Expected identical plans, got %+v and %+v", first, second)
	}
}

func TestParseTheme(t *testing.T) {
	if th, ok := ParseTheme("light"); !ok || th != Light {
		t.Errorf("Expected light to parse, got %v %v", th, ok)
	}
	if th, ok := ParseTheme("dark"); !ok || th != Dark {
		t.Errorf("Expected dark to parse, got %v %v", th, ok)
	}
	if _, ok := ParseTheme("sepia"); ok {
		t.Error("Expected unknown theme to report ok=false")
	}
}
