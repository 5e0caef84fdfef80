package palette

// ThresholdMap is the 8x8 Bayer matrix used for ordered dithering,
// scaled so offsets run from 0.25 to 16
var ThresholdMap = func() [8][8]float64 {
	bayer := [8][8]float64{
		{1, 49, 13, 61, 4, 52, 16, 64},
		{33, 17, 45, 29, 36, 20, 48, 32},
		{9, 57, 5, 53, 12, 60, 8, 56},
		{41, 25, 37, 21, 44, 28, 40, 24},
		{3, 51, 15, 63, 2, 50, 14, 62},
		{35, 19, 47, 31, 34, 18, 46, 30},
		{11, 59, 7, 55, 10, 58, 6, 54},
		{43, 27, 39, 23, 42, 26, 38, 22},
	}
	for y := range bayer {
		for x := range bayer[y] {
			bayer[y][x] /= 4
		}
	}
	return bayer
}()

// Threshold returns the dither offset for pixel (x, y).
// Negative coordinates wrap like positive ones.
func Threshold(x, y int) float64 {
	return ThresholdMap[mod8(y)][mod8(x)]
}

func mod8(v int) int {
	return v & 7
}
