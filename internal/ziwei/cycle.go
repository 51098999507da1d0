// Package ziwei computes Purple Star Astrology (紫微斗數) natal charts.
//
// The computation is a pure function of a converted lunar date and an hour
// slot. All positions are branch indices in [0,11] (子=0 … 亥=11) and all
// offsets are normalized through Normalize12 before use.
package ziwei

// Normalize12 maps any integer onto a branch position in [0,11].
func Normalize12(n int) int {
	return ((n % 12) + 12) % 12
}

// Normalize10 maps any integer onto a stem index in [0,9].
func Normalize10(n int) int {
	return ((n % 10) + 10) % 10
}
