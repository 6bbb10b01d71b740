package render

// supersample is the linear oversampling factor for marker coverage.
const supersample = 10

// CircleCoverage returns a d×d matrix of the fraction of each pixel covered by
// a disk of diameter d inscribed in the matrix.
//
// Coverage is estimated by testing supersample×supersample sub-pixel midpoints
// per pixel. Diameters 1 and 2 are returned fully covered, since sampling
// leaves visible holes at those sizes. d ≤ 0 yields an empty matrix.
func CircleCoverage(d int) [][]float64 {
	if d <= 0 {
		return [][]float64{}
	}
	cov := make([][]float64, d)
	if d <= 2 {
		for y := range cov {
			cov[y] = make([]float64, d)
			for x := range cov[y] {
				cov[y][x] = 1
			}
		}
		return cov
	}

	r := float64(d) / 2
	r2 := r * r
	const samples = supersample * supersample
	for y := range cov {
		cov[y] = make([]float64, d)
		for x := range cov[y] {
			hits := 0
			for sy := range supersample {
				dy := float64(y) + (float64(sy)+0.5)/supersample - r
				for sx := range supersample {
					dx := float64(x) + (float64(sx)+0.5)/supersample - r
					if dx*dx+dy*dy <= r2 {
						hits++
					}
				}
			}
			cov[y][x] = float64(hits) / samples
		}
	}
	return cov
}
