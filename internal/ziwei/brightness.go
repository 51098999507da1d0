package ziwei

import "github.com/rcliao/ziwei/internal/model"

// BrightnessOf returns a star's brightness at a branch. Only the major stars,
// 文昌 and 文曲 have a brightness row.
func BrightnessOf(star string, branch int) (model.Brightness, bool) {
	row, ok := brightnessTable[star]
	if !ok || branch < 0 || branch > 11 {
		return model.NoBrightness, false
	}
	return row[branch], true
}
