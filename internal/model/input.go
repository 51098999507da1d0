package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Gender of the chart subject.
type Gender string

const (
	Male   Gender = "男"
	Female Gender = "女"
)

// ParseGender accepts 男/女 or male/female/m/f.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "男", "male", "m":
		return Male, nil
	case "女", "female", "f":
		return Female, nil
	}
	return "", fmt.Errorf("unknown gender %q (use male or female)", s)
}

// CalendarSystem names the calendar the birth date is expressed in.
type CalendarSystem string

const (
	Solar CalendarSystem = "solar"
	Lunar CalendarSystem = "lunar"
)

// ParseCalendarSystem accepts solar/lunar or 國曆/農曆.
func ParseCalendarSystem(s string) (CalendarSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "solar", "國曆", "gregorian":
		return Solar, nil
	case "lunar", "農曆":
		return Lunar, nil
	}
	return "", fmt.Errorf("unknown calendar %q (use solar or lunar)", s)
}

// HourSlot is one of the 12 two-hour periods, 0 = 子時.
type HourSlot int

var hourLabels = [12]string{
	"子時 (23:00-01:00)",
	"丑時 (01:00-03:00)",
	"寅時 (03:00-05:00)",
	"卯時 (05:00-07:00)",
	"辰時 (07:00-09:00)",
	"巳時 (09:00-11:00)",
	"午時 (11:00-13:00)",
	"未時 (13:00-15:00)",
	"申時 (15:00-17:00)",
	"酉時 (17:00-19:00)",
	"戌時 (19:00-21:00)",
	"亥時 (21:00-23:00)",
}

// Valid reports whether the slot is in [0,11].
func (h HourSlot) Valid() bool {
	return h >= 0 && h < 12
}

// Label returns the display label, e.g. "子時 (23:00-01:00)".
func (h HourSlot) Label() string {
	if !h.Valid() {
		return fmt.Sprintf("HourSlot(%d)", int(h))
	}
	return hourLabels[h]
}

// StartHour is the clock hour handed to the calendar service for this slot.
func (h HourSlot) StartHour() int {
	return int(h) * 2
}

// ParseHourSlot accepts an index (0-11), a branch (子), a slot name (子時)
// or a full label.
func ParseHourSlot(s string) (HourSlot, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if h := HourSlot(n); h.Valid() {
			return h, nil
		}
		return 0, fmt.Errorf("hour slot %d out of range 0-11", n)
	}
	for i, label := range hourLabels {
		if s == label || s == label[:len(Branches[i])] || s == strings.Fields(label)[0] {
			return HourSlot(i), nil
		}
	}
	return 0, fmt.Errorf("unrecognized hour slot %q", s)
}

// BirthInput is the caller-supplied birth data.
type BirthInput struct {
	Name      string         `json:"name" yaml:"name"`
	Gender    Gender         `json:"gender" yaml:"gender"`
	Calendar  CalendarSystem `json:"calendar" yaml:"calendar"`
	Year      int            `json:"year" yaml:"year"`
	Month     int            `json:"month" yaml:"month"`
	Day       int            `json:"day" yaml:"day"`
	Hour      HourSlot       `json:"hour" yaml:"hour"`
	LeapMonth bool           `json:"leap_month,omitempty" yaml:"leap_month"`
}

// Date formats the birth date as YYYY-MM-DD.
func (b BirthInput) Date() string {
	return fmt.Sprintf("%04d-%02d-%02d", b.Year, b.Month, b.Day)
}

// ParseDate splits a YYYY-MM-DD string.
func ParseDate(s string) (year, month, day int, err error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("malformed date %q (want YYYY-MM-DD)", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		if nums[i], err = strconv.Atoi(p); err != nil {
			return 0, 0, 0, fmt.Errorf("malformed date %q: %w", s, err)
		}
	}
	return nums[0], nums[1], nums[2], nil
}

// LunarDate is the calendar service's view of a birth moment.
type LunarDate struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Day        int    `json:"day"`
	Leap       bool   `json:"leap"`
	YearStem   int    `json:"year_stem"`
	YearBranch int    `json:"year_branch"`
	Label      string `json:"label"`
}

// StarInfluence is the interpreted effect of one star in a palace.
type StarInfluence struct {
	Name       string `json:"name"`
	Brightness string `json:"brightness,omitempty"`
	Influence  string `json:"influence"`
}

// PalaceAnalysis is the interpretation of one palace.
type PalaceAnalysis struct {
	PalaceName  string          `json:"palace_name"`
	Summary     string          `json:"summary"`
	StarsDetail []StarInfluence `json:"stars_detail"`
}

// Interpretation is the prose analysis returned by the interpretation service.
type Interpretation struct {
	OverallDestiny string           `json:"overall_destiny"`
	Palaces        []PalaceAnalysis `json:"palaces"`
}

// Record is an archived reading.
type Record struct {
	ID        string     `json:"id"`
	Input     BirthInput `json:"input"`
	Reading   Reading    `json:"reading"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
