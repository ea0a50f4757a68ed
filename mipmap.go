package dds

// CalculateMipLevels returns the length of a full mip chain for the given
// extent, down to 1x1x1.
func CalculateMipLevels(width, height, depth int) int {
	count := 1
	for width > 1 || height > 1 || depth > 1 {
		count++
		width = halve(width)
		height = halve(height)
		depth = halve(depth)
	}

	return count
}

// mipDimension calculates the dimension of a mipmap level.
func mipDimension(base, level int) int {
	if level >= bitsInt {
		return 1
	}
	result := base >> level
	if result < 1 {
		return 1
	}

	return result
}

// halve steps a dimension down one mip level.
func halve(v int) int {
	if v > 1 {
		return v >> 1
	}

	return 1
}

const bitsInt = 32 << (^uint(0) >> 63)
