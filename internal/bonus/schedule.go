package bonus

import (
	"time"

	"EconomySentinel/internal/model"
)

// The global event schedule. Every event is a pure function of wall-clock
// time; nothing here is persisted. Events apply in the order declared in
// GlobalEvents — composition is order-dependent because rewards are
// floored after every multiplication.

// weekendEvent runs all day Saturday and Sunday.
func weekendEvent(now time.Time) (model.GlobalEvent, bool) {
	wd := now.Weekday()
	if wd != time.Saturday && wd != time.Sunday {
		return model.GlobalEvent{}, false
	}
	return model.GlobalEvent{
		Name: "weekend_warrior",
		Multipliers: map[model.Resource]float64{
			model.ResourceCoins: 2.0,
			model.ResourceXP:    1.5,
		},
	}, true
}

// happyHourEvent runs 15:00-16:59 local time every day.
func happyHourEvent(now time.Time) (model.GlobalEvent, bool) {
	h := now.Hour()
	if h < 15 || h >= 17 {
		return model.GlobalEvent{}, false
	}
	return model.GlobalEvent{
		Name:        "happy_hour",
		Multipliers: map[model.Resource]float64{model.ResourceAll: 1.5},
	}, true
}

// holidays maps fixed calendar dates to named events.
var holidays = map[[2]int]model.GlobalEvent{
	{1, 1}:   {Name: "new_year_bash", Multipliers: map[model.Resource]float64{model.ResourceAll: 3.0}},
	{10, 31}: {Name: "spooky_trivia", Multipliers: map[model.Resource]float64{model.ResourceAll: 2.0}},
	{12, 25}: {Name: "winter_gift", Multipliers: map[model.Resource]float64{model.ResourceCoins: 2.5}},
}

func holidayEvent(now time.Time) (model.GlobalEvent, bool) {
	ev, ok := holidays[[2]int{int(now.Month()), now.Day()}]
	return ev, ok
}

// dailyCategories maps each weekday to the buffed quiz category.
var dailyCategories = map[time.Weekday]string{
	time.Monday:    "science",
	time.Tuesday:   "history",
	time.Wednesday: "geography",
	time.Thursday:  "arts",
	time.Friday:    "sports",
	time.Saturday:  "entertainment",
	time.Sunday:    "general",
}

func categoryEvent(now time.Time) (model.GlobalEvent, bool) {
	cat, ok := dailyCategories[now.Weekday()]
	if !ok {
		return model.GlobalEvent{}, false
	}
	return model.GlobalEvent{Name: "category_day", Category: cat}, true
}

// GlobalEvents returns the events active at now, in their fixed
// application order.
func GlobalEvents(now time.Time) []model.GlobalEvent {
	checks := []func(time.Time) (model.GlobalEvent, bool){
		weekendEvent,
		happyHourEvent,
		holidayEvent,
		categoryEvent,
	}
	var active []model.GlobalEvent
	for _, check := range checks {
		if ev, ok := check(now); ok {
			active = append(active, ev)
		}
	}
	return active
}
