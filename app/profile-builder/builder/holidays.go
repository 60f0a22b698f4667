package builder

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

//ridershipHolidayCalendar holds the holidays observed by the bike share system,
//trips on these days follow weekend patterns rather than the weekday commute
type ridershipHolidayCalendar struct {
	calendar *cal.BusinessCalendar
}

//makeRidershipHolidayCalendar builds ridershipHolidayCalendar
//TODO:: should be customizable by bike share system rather than being hardcoded as it is now.
func makeRidershipHolidayCalendar() *ridershipHolidayCalendar {
	calendar := cal.NewBusinessCalendar()
	calendar.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.MemorialDay,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
		us.Juneteenth,
	)
	return &ridershipHolidayCalendar{calendar: calendar}
}

//isHoliday returns true if at is on an observed holiday
func (c *ridershipHolidayCalendar) isHoliday(at time.Time) bool {
	_, observed, _ := c.calendar.IsHoliday(at)
	return observed
}
