package ziwei

import "github.com/rcliao/ziwei/internal/model"

// PalaceNames are the role labels, indexed by counter-clockwise distance from the Life palace.
var PalaceNames = [12]string{
	"命宮", "兄弟", "夫妻", "子女", "財帛", "疾厄",
	"遷移", "交友", "官祿", "田宅", "福德", "父母",
}

// tigerStartStem gives the stem at 寅 for each year stem (甲年起丙寅).
var tigerStartStem = [10]int{2, 4, 6, 8, 0, 2, 4, 6, 8, 0}

// bureauTable is indexed [stem pair][branch pair].
var bureauTable = [5][3]int{
	{4, 2, 6},
	{2, 6, 5},
	{6, 5, 3},
	{5, 3, 4},
	{3, 4, 2},
}

var bureauNames = map[int]string{
	2: "水二局",
	3: "木三局",
	4: "金四局",
	5: "土五局",
	6: "火六局",
}

// purpleStarTable gives the 紫微 branch per bureau number, one column per lunar day.
var purpleStarTable = map[int][30]int{
	2: {1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 8, 8, 9, 9, 10, 10, 11, 11, 0, 0, 1, 1, 2, 2, 3, 3, 4},
	3: {4, 1, 5, 2, 5, 3, 8, 4, 9, 5, 10, 6, 11, 7, 0, 8, 1, 9, 2, 10, 5, 11, 6, 0, 7, 1, 8, 2, 9, 3},
	4: {11, 4, 0, 1, 5, 2, 8, 3, 9, 4, 10, 5, 11, 6, 0, 7, 1, 8, 2, 9, 3, 10, 4, 11, 5, 0, 6, 1, 7, 2},
	5: {6, 11, 0, 5, 1, 8, 2, 9, 3, 10, 4, 11, 5, 0, 6, 1, 7, 2, 8, 3, 9, 4, 10, 5, 11, 6, 0, 7, 1, 8},
	6: {9, 4, 10, 5, 11, 6, 0, 7, 1, 8, 2, 9, 3, 10, 4, 11, 5, 0, 6, 1, 7, 2, 8, 3, 9, 4, 10, 5, 11, 6},
}

type offsetGroup struct {
	names   []string
	offsets []int
}

// ziweiGroup is placed relative to 紫微, counter-clockwise.
var ziweiGroup = offsetGroup{
	names:   []string{"紫微", "天機", "太陽", "武曲", "天同", "廉貞"},
	offsets: []int{0, -1, -3, -4, -5, -8},
}

// tianfuGroup is placed relative to 天府, clockwise.
var tianfuGroup = offsetGroup{
	names:   []string{"天府", "太陰", "貪狼", "巨門", "天相", "天梁", "七殺", "破軍"},
	offsets: []int{0, 1, 2, 3, 4, 5, 6, 10},
}

// Minor star names.
const (
	Wenchang = "文昌"
	Wenqu    = "文曲"
	Zuofu    = "左輔"
	Youbi    = "右弼"
	Tiankui  = "天魁"
	Tianyue  = "天鉞"
	Lucun    = "祿存"
	Qingyang = "擎羊"
	Tuoluo   = "陀羅"
	Huoxing  = "火星"
	Lingxing = "鈴星"
	Dikong   = "地空"
	Dijie    = "地劫"
)

// MajorStars lists the 14 major stars in placement order.
var MajorStars = append(append([]string{}, ziweiGroup.names...), tianfuGroup.names...)

// MinorStars lists the auxiliary stars in placement order.
var MinorStars = []string{
	Wenchang, Wenqu, Zuofu, Youbi, Tiankui, Tianyue,
	Lucun, Qingyang, Tuoluo, Huoxing, Lingxing, Dikong, Dijie,
}

// kuiYueTable gives (天魁, 天鉞) per year stem.
var kuiYueTable = [10][2]int{
	{1, 7}, {0, 8}, {11, 9}, {11, 9}, {1, 7},
	{0, 8}, {1, 7}, {6, 2}, {5, 3}, {5, 3},
}

// lucunTable gives the 祿存 branch per year stem.
var lucunTable = [10]int{2, 3, 5, 6, 5, 6, 8, 9, 11, 0}

// huoLingStart gives the (火星, 鈴星) starting branches per year branch.
// 寅午戌 (1,3), 巳酉丑 (3,10), 亥卯未 (9,10); 申子辰 takes the default (2,10).
var huoLingStart = [12][2]int{
	0:  {2, 10},
	1:  {3, 10},
	2:  {1, 3},
	3:  {9, 10},
	4:  {2, 10},
	5:  {3, 10},
	6:  {1, 3},
	7:  {9, 10},
	8:  {2, 10},
	9:  {3, 10},
	10: {1, 3},
	11: {9, 10},
}

// brightnessTable maps a star to its state at each branch.
var brightnessTable = func() map[string][12]model.Brightness {
	const (
		m = model.Temple
		w = model.Prosperous
		d = model.Gain
		l = model.Favorable
		p = model.Level
		x = model.Trapped
	)
	t := map[string][12]model.Brightness{
		"紫微": {p, w, m, w, d, x, w, m, w, w, d, w},
		"天機": {m, x, x, w, l, p, m, x, d, w, m, p},
		"太陽": {x, x, x, w, w, w, m, d, d, p, x, x},
		"武曲": {w, m, p, w, m, p, w, m, p, w, m, p},
		"天同": {w, x, x, p, p, m, x, x, w, p, p, m},
		"廉貞": {p, l, m, p, w, x, p, l, m, p, w, x},
		"天府": {m, m, m, p, m, d, w, m, d, w, m, d},
		"太陰": {m, m, x, x, x, x, x, p, l, w, w, m},
		"貪狼": {w, m, p, p, m, x, w, m, p, p, m, x},
		"巨門": {w, x, m, m, p, x, w, x, m, m, p, x},
		"天相": {m, m, m, x, w, p, m, d, m, x, w, p},
		"天梁": {m, w, m, m, w, x, m, w, m, m, w, x},
		"七殺": {w, m, m, x, w, p, w, m, m, x, w, p},
		"破軍": {m, w, x, p, w, x, m, w, x, p, w, x},
		"文昌": {x, x, l, l, m, m, x, x, l, l, m, m},
		"文曲": {m, m, x, x, l, l, m, m, x, x, l, l},
	}
	// 紫微 at 申 is pinned to 旺 regardless of the row above.
	row := t["紫微"]
	row[8] = w
	t["紫微"] = row
	return t
}()

// transformationTable gives the stars taking 化祿, 化權, 化科, 化忌 per year stem.
var transformationTable = [10][4]string{
	{"廉貞", "破軍", "武曲", "太陽"}, // 甲
	{"天機", "天梁", "紫微", "太陰"}, // 乙
	{"天同", "天機", "文昌", "廉貞"}, // 丙
	{"太陰", "天同", "天機", "巨門"}, // 丁
	{"貪狼", "太陰", "右弼", "天機"}, // 戊
	{"武曲", "貪狼", "天梁", "文曲"}, // 己
	{"太陽", "武曲", "太陰", "天同"}, // 庚
	{"巨門", "太陽", "文曲", "文昌"}, // 辛
	{"天梁", "紫微", "左輔", "武曲"}, // 壬
	{"破軍", "巨門", "太陰", "貪狼"}, // 癸
}
