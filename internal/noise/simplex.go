package noise

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// Skew factors between the equilateral triangle grid and the square grid.
	squaresToTriangles = (3 - math.Sqrt(3)) / 6
	trianglesToSquares = (math.Sqrt(3) - 1) / 2

	// Reciprocals of the largest raw sums, so samples span [-1,1] before remapping.
	simplexScale1D = 64.0 / 27.0
	simplexScale2D = 2916 * math.Sqrt2 / 125
	simplexScale3D = 8192 * math.Sqrt(3) / 375
)

// Sample1D returns simplex noise on the number line, in [0,1].
func Sample1D(x float64) float64 {
	ix := int(math.Floor(x))

	// Contributions of the lattice points before and after the sample.
	sample := simplexPart1D(x, ix)
	sample += simplexPart1D(x, ix+1)

	return (sample*simplexScale1D + 1) * 0.5
}

func simplexPart1D(x float64, ix int) float64 {
	gradient := gradients1D[perm[ix&hashMask]&gradientsMask1D]
	d := x - float64(ix)

	// (1 - d^2)^3
	t := 1 - d*d
	return gradient * d * t * t * t
}

// Sample2D returns simplex noise on the plane, in [0,1].
func Sample2D(x, y float64) float64 {
	// Skew the triangle grid onto a square grid to find the cell corners.
	skew := (x + y) * trianglesToSquares
	sx := x + skew
	sy := y + skew

	ix := int(math.Floor(sx))
	iy := int(math.Floor(sy))

	// Bottom-left and top-right corners of the rhombus always contribute.
	sample := simplexPart2D(x, y, ix, iy)
	sample += simplexPart2D(x, y, ix+1, iy+1)

	// The third corner depends on which triangle of the rhombus holds the point.
	if sx-float64(ix) >= sy-float64(iy) {
		sample += simplexPart2D(x, y, ix+1, iy)
	} else {
		sample += simplexPart2D(x, y, ix, iy+1)
	}

	return (sample*simplexScale2D + 1) * 0.5
}

func simplexPart2D(x, y float64, ix, iy int) float64 {
	unskew := float64(ix+iy) * squaresToTriangles

	relX := x - float64(ix) + unskew
	relY := y - float64(iy) + unskew

	h := perm[(int(perm[ix&hashMask])+iy)&hashMask]
	g := gradients2D[h&gradientsMask2D]
	influence := g[0]*relX + g[1]*relY

	// (1/2 - d^2)^3, zero outside the corner's radius.
	t := 0.5 - relX*relX - relY*relY
	return influence * math.Max(t*t*t, 0)
}

// Sample3D returns simplex noise in space, in [0,1].
func Sample3D(x, y, z float64) float64 {
	// Tetrahedra don't tile space exactly; this skew is a close approximation.
	skew := (x + y + z) / 3
	sx := x + skew
	sy := y + skew
	sz := z + skew

	ix := int(math.Floor(sx))
	iy := int(math.Floor(sy))
	iz := int(math.Floor(sz))

	cubeX := sx - float64(ix)
	cubeY := sy - float64(iy)
	cubeZ := sz - float64(iz)

	sample := simplexPart3D(x, y, z, ix, iy, iz)
	sample += simplexPart3D(x, y, z, ix+1, iy+1, iz+1)

	// The remaining two corners follow the ordering of the in-cube offsets.
	if cubeX >= cubeY {
		if cubeX >= cubeZ {
			sample += simplexPart3D(x, y, z, ix+1, iy, iz)
			if cubeY >= cubeZ {
				sample += simplexPart3D(x, y, z, ix+1, iy+1, iz)
			} else {
				sample += simplexPart3D(x, y, z, ix+1, iy, iz+1)
			}
		} else {
			sample += simplexPart3D(x, y, z, ix, iy, iz+1)
			sample += simplexPart3D(x, y, z, ix+1, iy, iz+1)
		}
	} else {
		if cubeY >= cubeZ {
			sample += simplexPart3D(x, y, z, ix, iy+1, iz)
			if cubeX >= cubeZ {
				sample += simplexPart3D(x, y, z, ix+1, iy+1, iz)
			} else {
				sample += simplexPart3D(x, y, z, ix, iy+1, iz+1)
			}
		} else {
			sample += simplexPart3D(x, y, z, ix, iy, iz+1)
			sample += simplexPart3D(x, y, z, ix, iy+1, iz+1)
		}
	}

	return (sample*simplexScale3D + 1) * 0.5
}

func simplexPart3D(x, y, z float64, ix, iy, iz int) float64 {
	unskew := float64(ix+iy+iz) / 6

	rel := r3.Vec{
		X: x - float64(ix) + unskew,
		Y: y - float64(iy) + unskew,
		Z: z - float64(iz) + unskew,
	}

	h := perm[(int(perm[(int(perm[ix&hashMask])+iy)&hashMask])+iz)&hashMask]
	influence := r3.Dot(gradients3D[h&gradientsMask3D], rel)

	t := 0.5 - r3.Dot(rel, rel)
	return influence * math.Max(t*t*t, 0)
}
