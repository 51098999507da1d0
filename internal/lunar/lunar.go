// Package lunar adapts github.com/6tail/lunar-go to the chart engine's calendar contract.
package lunar

import (
	"fmt"
	"time"

	"github.com/6tail/lunar-go/calendar"

	"github.com/rcliao/ziwei/internal/model"
)

// Supported year range of the conversion tables.
const (
	MinYear = 1900
	MaxYear = 2100
)

// Calendar converts solar or lunar birth input into a lunar date.
type Calendar struct{}

// New returns a Calendar.
func New() *Calendar {
	return &Calendar{}
}

// Convert resolves the birth input to a lunar date with sexagenary year labels.
func (c *Calendar) Convert(in model.BirthInput) (ld model.LunarDate, err error) {
	if in.Year < MinYear || in.Year > MaxYear {
		return ld, fmt.Errorf("year %d outside supported range %d-%d", in.Year, MinYear, MaxYear)
	}
	if !in.Hour.Valid() {
		return ld, fmt.Errorf("hour slot %d out of range 0-11", int(in.Hour))
	}

	// lunar-go panics on some malformed dates; surface those as errors.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("convert %s: %v", in.Date(), r)
		}
	}()

	var l *calendar.Lunar
	switch in.Calendar {
	case model.Solar:
		if err := validSolar(in.Year, in.Month, in.Day); err != nil {
			return ld, err
		}
		l = calendar.NewSolar(in.Year, in.Month, in.Day, in.Hour.StartHour(), 0, 0).GetLunar()
	case model.Lunar:
		month := in.Month
		if in.LeapMonth {
			month = -month
		}
		if err := validLunar(in.Year, month, in.Day); err != nil {
			return ld, err
		}
		l = calendar.NewLunar(in.Year, month, in.Day, in.Hour.StartHour(), 0, 0)
	default:
		return ld, fmt.Errorf("unknown calendar system %q", in.Calendar)
	}

	return fromLunar(l)
}

func fromLunar(l *calendar.Lunar) (model.LunarDate, error) {
	month := l.GetMonth()
	leap := month < 0
	if leap {
		month = -month
	}

	stem := model.StemIndex(l.GetYearGan())
	branch := model.BranchIndex(l.GetYearZhi())
	if stem < 0 || branch < 0 {
		return model.LunarDate{}, fmt.Errorf("unrecognized year pillar %s%s", l.GetYearGan(), l.GetYearZhi())
	}

	return model.LunarDate{
		Year:       l.GetYear(),
		Month:      month,
		Day:        l.GetDay(),
		Leap:       leap,
		YearStem:   stem,
		YearBranch: branch,
		Label:      Label(l),
	}, nil
}

// Label formats a lunar date as "庚午年 五月 十五".
func Label(l *calendar.Lunar) string {
	return fmt.Sprintf("%s年 %s月 %s", l.GetYearInGanZhi(), l.GetMonthInChinese(), l.GetDayInChinese())
}

func validSolar(year, month, day int) error {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return fmt.Errorf("no such solar date %04d-%02d-%02d", year, month, day)
	}
	return nil
}

// validLunar checks the month exists in the lunar year (negative for a leap
// month) and the day fits its length.
func validLunar(year, month, day int) error {
	m := calendar.NewLunarYear(year).GetMonth(month)
	if m == nil {
		if month < 0 {
			return fmt.Errorf("lunar year %d has no leap month %d", year, -month)
		}
		return fmt.Errorf("lunar year %d has no month %d", year, month)
	}
	if day < 1 || day > m.GetDayCount() {
		return fmt.Errorf("lunar month %d of %d has %d days, got day %d", month, year, m.GetDayCount(), day)
	}
	return nil
}
