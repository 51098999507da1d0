package ziwei

// TigerStartStem returns the stem assigned to 寅 for a year stem ("Five Tigers").
func TigerStartStem(yearStem int) (int, error) {
	if yearStem < 0 || yearStem >= len(tigerStartStem) {
		return 0, lookupMiss("ziwei.tiger_start_stem", "tigerStartStem", yearStem)
	}
	return tigerStartStem[yearStem], nil
}

// PalaceStems assigns a stem to every branch position, counting forward from 寅.
func PalaceStems(yearStem int) ([12]int, error) {
	var stems [12]int
	start, err := TigerStartStem(yearStem)
	if err != nil {
		return stems, err
	}
	for i := range stems {
		stems[i] = (start + Normalize12(i-2)) % 10
	}
	return stems, nil
}
