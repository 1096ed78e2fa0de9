package theme

import (
	"context"
	"fmt"
	"time"

	"github.com/mkarvo/sunshift/internal/suntime"
)

// Decide maps the current instant onto the desired theme. Daytime is the
// half-open interval [sunrise, sunset): the sunrise instant itself is
// light, the sunset instant is already dark.
func Decide(now, sunrise, sunset time.Time) (desired Theme, isDaytime bool) {
	isDaytime = !now.Before(sunrise) && now.Before(sunset)
	if isDaytime {
		return Light, true
	}
	return Dark, false
}

// TransitionPlan is the next wake-up instant and a human-readable label
// for logging and the scheduled task description.
type TransitionPlan struct {
	Trigger time.Time
	Label   string
}

// TomorrowFunc lazily resolves tomorrow's sun data. It is only invoked
// when the run happens after today's sunset.
type TomorrowFunc func(ctx context.Context) (suntime.SunTimes, error)

// PlanNext computes the next theme transition. Rules are evaluated in
// priority order, first match wins:
//
//  1. now within today's daytime: next trigger is today's sunset
//  2. now before today's sunrise: next trigger is today's sunrise
//  3. now at or past today's sunset: next trigger is tomorrow's sunrise
//
// Rule 3 needs a second fetch; if that fails no valid trigger exists and
// the error is returned for the caller to treat as fatal.
func PlanNext(ctx context.Context, now time.Time, today suntime.SunTimes, tomorrow TomorrowFunc) (TransitionPlan, error) {
	switch {
	case !now.Before(today.Sunrise) && now.Before(today.Sunset):
		return TransitionPlan{Trigger: today.Sunset, Label: "switch to Dark at sunset"}, nil
	case now.Before(today.Sunrise):
		return TransitionPlan{Trigger: today.Sunrise, Label: "switch to Light at sunrise"}, nil
	default:
		st, err := tomorrow(ctx)
		if err != nil {
			return TransitionPlan{}, fmt.Errorf("failed to plan past-sunset transition: %w", err)
		}
		return TransitionPlan{Trigger: st.Sunrise, Label: "switch to Light at sunrise (tomorrow)"}, nil
	}
}
