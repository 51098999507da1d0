package ziwei

// PurpleStar returns the 紫微 branch for a bureau number and lunar day.
func PurpleStar(bureau, day int) (int, error) {
	const op = "ziwei.purple_star"
	if day < 1 || day > 30 {
		return 0, invalid(op, "lunar day %d out of range 1-30", day)
	}
	row, ok := purpleStarTable[bureau]
	if !ok {
		return 0, lookupMiss(op, "purpleStarTable", bureau)
	}
	return row[day-1], nil
}

// TianFu mirrors 紫微 across the 寅-申 axis.
func TianFu(purple int) int {
	return Normalize12(16 - purple)
}
