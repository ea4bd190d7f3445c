// Package tile addresses regions of a planet's surface with Web Mercator
// z/x/y tiles so that surface previews can be rendered piece by piece.
package tile

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"gonum.org/v1/gonum/spatial/r3"
)

// earthRadius is the Web Mercator sphere radius. It only scales projected
// coordinates and cancels out when mapping back to the planet.
const earthRadius = 6378137.0

// Coords represents a tile coordinate in the Web Mercator tile system (z/x/y)
type Coords struct {
	Z uint32 // Zoom level
	X uint32 // X coordinate (column)
	Y uint32 // Y coordinate (row)
}

// NewCoords creates a new Coords from zoom, x, y values
func NewCoords(z, x, y uint32) Coords {
	return Coords{Z: z, X: x, Y: y}
}

// String returns the tile coordinate as a string in format "z{zoom}_x{x}_y{y}"
func (c Coords) String() string {
	return fmt.Sprintf("z%d_x%d_y%d", c.Z, c.X, c.Y)
}

// Path returns the file name for this tile
func (c Coords) Path(extension string) string {
	return fmt.Sprintf("%s.%s", c.String(), extension)
}

// Valid reports whether X and Y fit within the zoom level.
func (c Coords) Valid() bool {
	if c.Z > 30 {
		return false
	}
	n := uint32(1) << c.Z
	return c.X < n && c.Y < n
}

// Tile returns the maptile.Tile for this coordinate
func (c Coords) Tile() maptile.Tile {
	return maptile.New(c.X, c.Y, maptile.Zoom(c.Z))
}

// Bounds returns the tile's bounding box in degrees as
// [minLon, minLat, maxLon, maxLat].
func (c Coords) Bounds() [4]float64 {
	bound := c.Tile().Bound()

	return [4]float64{
		bound.Min.Lon(),
		bound.Min.Lat(),
		bound.Max.Lon(),
		bound.Max.Lat(),
	}
}

// BoundsMercator returns the bounding box in Web Mercator meters as
// [minX, minY, maxX, maxY].
func (c Coords) BoundsMercator() [4]float64 {
	b := c.Bounds()
	minX, minY := lonLatToMercator(b[0], b[1])
	maxX, maxY := lonLatToMercator(b[2], b[3])

	return [4]float64{minX, minY, maxX, maxY}
}

// Center returns the center point of the tile (lon, lat)
func (c Coords) Center() (float64, float64) {
	b := c.Bounds()
	return (b[0] + b[2]) / 2.0, (b[1] + b[3]) / 2.0
}

// SphereGrid returns the unit-sphere direction through the centre of every
// pixel of a size x size rendering of the tile, indexed [x][y] with y = 0
// at the top (north) edge. Pixels are spaced evenly in Mercator space, the
// same way map tiles are.
func (c Coords) SphereGrid(size int) [][]r3.Vec {
	b := c.BoundsMercator()
	step := 1.0 / float64(size)

	grid := make([][]r3.Vec, size)
	for x := range grid {
		grid[x] = make([]r3.Vec, size)
		mx := b[0] + (b[2]-b[0])*(float64(x)+0.5)*step

		for y := range grid[x] {
			my := b[3] - (b[3]-b[1])*(float64(y)+0.5)*step
			lon, lat := mercatorToLonLat(mx, my)
			grid[x][y] = LonLatToUnit(lon, lat)
		}
	}

	return grid
}

// LonLatToUnit maps a longitude/latitude in degrees onto the unit sphere with
// +Y through the north pole and longitude 0 on +X.
func LonLatToUnit(lon, lat float64) r3.Vec {
	lonRad := lon * math.Pi / 180.0
	latRad := lat * math.Pi / 180.0
	cosLat := math.Cos(latRad)

	return r3.Vec{
		X: cosLat * math.Cos(lonRad),
		Y: math.Sin(latRad),
		Z: cosLat * math.Sin(lonRad),
	}
}

// UnitToLonLat is the inverse of LonLatToUnit.
func UnitToLonLat(p r3.Vec) (float64, float64) {
	p = r3.Unit(p)
	lon := math.Atan2(p.Z, p.X) * 180.0 / math.Pi
	lat := math.Asin(math.Max(-1, math.Min(1, p.Y))) * 180.0 / math.Pi
	return lon, lat
}

// lonLatToMercator converts WGS84 coordinates to Web Mercator (EPSG:3857)
func lonLatToMercator(lon, lat float64) (float64, float64) {
	x := earthRadius * lon * math.Pi / 180.0

	latRad := lat * math.Pi / 180.0
	y := earthRadius * math.Log(math.Tan(math.Pi/4.0+latRad/2.0))

	return x, y
}

// mercatorToLonLat converts Web Mercator (EPSG:3857) to WGS84
func mercatorToLonLat(x, y float64) (float64, float64) {
	lon := (x / earthRadius) * 180.0 / math.Pi
	lat := (math.Atan(math.Exp(y/earthRadius)) - math.Pi/4.0) * 2.0 * 180.0 / math.Pi

	return lon, lat
}

// ParseCoords parses a tile string like "z3_x4_y2" into Coords
func ParseCoords(s string) (Coords, error) {
	var c Coords
	_, err := fmt.Sscanf(s, "z%d_x%d_y%d", &c.Z, &c.X, &c.Y)
	if err != nil {
		return c, fmt.Errorf("invalid tile coordinate format: %s", s)
	}
	if !c.Valid() {
		return c, fmt.Errorf("tile %s is outside zoom level %d", s, c.Z)
	}
	return c, nil
}

// TilesInBBox returns all tile coordinates within a bounding box across a zoom range.
// bbox: [minLon, minLat, maxLon, maxLat] in degrees.
func TilesInBBox(bbox [4]float64, zoomMin, zoomMax int) []Coords {
	tiles := make([]Coords, 0, TileCount(bbox, zoomMin, zoomMax))

	for z := zoomMin; z <= zoomMax; z++ {
		minX, minY, maxX, maxY := tileSpan(bbox, z)
		for x := minX; x <= maxX; x++ {
			for y := minY; y <= maxY; y++ {
				tiles = append(tiles, NewCoords(uint32(z), x, y))
			}
		}
	}

	return tiles
}

// TileCount returns the number of tiles in a bounding box across a zoom range.
func TileCount(bbox [4]float64, zoomMin, zoomMax int) int {
	count := 0
	for z := zoomMin; z <= zoomMax; z++ {
		minX, minY, maxX, maxY := tileSpan(bbox, z)
		count += int(maxX-minX+1) * int(maxY-minY+1)
	}
	return count
}

func tileSpan(bbox [4]float64, z int) (minX, minY, maxX, maxY uint32) {
	zoom := maptile.Zoom(z)
	minTile := maptile.At(orb.Point{bbox[0], bbox[1]}, zoom)
	maxTile := maptile.At(orb.Point{bbox[2], bbox[3]}, zoom)

	// Tile Y grows southward, so the corners come back swapped.
	minX, maxX = minTile.X, maxTile.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY = minTile.Y, maxTile.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return minX, minY, maxX, maxY
}
