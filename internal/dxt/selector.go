package dxt

// chooseMinMaxColors fills minColor and maxColor with the block's two
// reference colors according to the configured heuristic.
func chooseMinMaxColors(block *ColorBlock, attrs *Attributes, minColor, maxColor *Color32) {
	switch attrs.Selection {
	case SelectBoundingBox:
		findMinMaxColorsBox(block, minColor, maxColor)
		selectDiagonal(block, minColor, maxColor)
		insetBox(minColor, maxColor)
	case SelectLuminance:
		findMinMaxColorsLuminance(block, minColor, maxColor)
	default:
		findMinMaxColorsEuclidean(block, minColor, maxColor)
	}
}

func findMinMaxColorsBox(block *ColorBlock, minColor, maxColor *Color32) {
	minColor.CopyFrom(&block.Color[0])
	maxColor.CopyFrom(&block.Color[0])
	for i := 1; i < 16; i++ {
		minColors(minColor, minColor, &block.Color[i])
		maxColors(maxColor, maxColor, &block.Color[i])
	}
}

// selectDiagonal flips the bounding box diagonal so that it follows
// the sign of the block's red/blue and green/blue covariance.
func selectDiagonal(block *ColorBlock, minColor, maxColor *Color32) {
	centerR := (int(minColor.R) + int(maxColor.R)) / 2
	centerG := (int(minColor.G) + int(maxColor.G)) / 2
	centerB := (int(minColor.B) + int(maxColor.B)) / 2

	cvx := 0
	cvy := 0
	for i := range block.Color {
		t := int(block.Color[i].B) - centerB
		cvx += t * (int(block.Color[i].R) - centerR)
		cvy += t * (int(block.Color[i].G) - centerG)
	}
	if cvx < 0 {
		minColor.R, maxColor.R = maxColor.R, minColor.R
	}
	if cvy < 0 {
		minColor.G, maxColor.G = maxColor.G, minColor.G
	}
}

// insetBox pulls both reference colors toward the box center by 1/16
// of the box extent per channel.
func insetBox(minColor, maxColor *Color32) {
	insetR := (int(maxColor.R) - int(minColor.R)) >> 4
	insetG := (int(maxColor.G) - int(minColor.G)) >> 4
	insetB := (int(maxColor.B) - int(minColor.B)) >> 4
	minColor.R = clampByte(int(minColor.R) + insetR)
	minColor.G = clampByte(int(minColor.G) + insetG)
	minColor.B = clampByte(int(minColor.B) + insetB)
	maxColor.R = clampByte(int(maxColor.R) - insetR)
	maxColor.G = clampByte(int(maxColor.G) - insetG)
	maxColor.B = clampByte(int(maxColor.B) - insetB)
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func findMinMaxColorsEuclidean(block *ColorBlock, minColor, maxColor *Color32) {
	maxDistance := -1
	minIndex, maxIndex := 0, 0
	for i := 0; i < 15; i++ {
		for j := i + 1; j < 16; j++ {
			d := distanceSquared(&block.Color[i], &block.Color[j])
			if d > maxDistance {
				maxDistance = d
				minIndex = i
				maxIndex = j
			}
		}
	}
	minColor.CopyFrom(&block.Color[minIndex])
	maxColor.CopyFrom(&block.Color[maxIndex])
}

func findMinMaxColorsLuminance(block *ColorBlock, minColor, maxColor *Color32) {
	minLuminance := int(^uint(0) >> 1)
	maxLuminance := -1
	minIndex, maxIndex := 0, 0
	for i := range block.Color {
		lum := luminance(&block.Color[i])
		if lum < minLuminance {
			minLuminance = lum
			minIndex = i
		}
		if lum > maxLuminance {
			maxLuminance = lum
			maxIndex = i
		}
	}
	minColor.CopyFrom(&block.Color[minIndex])
	maxColor.CopyFrom(&block.Color[maxIndex])
}
