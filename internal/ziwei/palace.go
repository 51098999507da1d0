package ziwei

// EffectiveMonth applies the leap-month rule: the second half of a leap
// month (day 16 onward) counts as the following month, wrapping 12 to 1.
func EffectiveMonth(month, day int, leap bool) int {
	if !leap || day <= 15 {
		return month
	}
	if month == 12 {
		return 1
	}
	return month + 1
}

// LifePalace starts at 寅, steps forward month-1 and back by the hour slot.
func LifePalace(month, hour int) int {
	return Normalize12(2 + (month - 1) - hour)
}

// BodyPalace starts at 寅, steps forward month-1 and forward by the hour slot.
func BodyPalace(month, hour int) int {
	return Normalize12(2 + (month - 1) + hour)
}

// PalaceName returns the role label of branch i given the Life palace branch.
func PalaceName(life, i int) string {
	return PalaceNames[Normalize12(life-i)]
}
