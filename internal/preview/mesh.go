package preview

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/MeKo-Tech/planetgen/internal/icosphere"
)

// lightDir is the direction towards the light used for mesh shading.
var lightDir = r3.Unit(r3.Vec{X: -1, Y: 1, Z: 2})

type shadedTriangle struct {
	pts   [3]r3.Vec
	depth float64
	shade float64
}

// RenderMesh draws the camera-facing triangles of all patches as seen from
// +Z looking at the origin, with an orthographic projection that fits a
// sphere of radius extent into a size x size image. Each triangle is lit by
// the average of its vertex normals, so seams between patches only show up
// if their normals disagree.
func RenderMesh(patches []*icosphere.Patch, size int, extent float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	if extent <= 0 || size <= 0 {
		return img
	}

	var tris []shadedTriangle
	for _, p := range patches {
		for i := 0; i+2 < len(p.Triangles); i += 3 {
			ia, ib, ic := p.Triangles[i], p.Triangles[i+1], p.Triangles[i+2]
			a, b, c := p.Vertices[ia], p.Vertices[ib], p.Vertices[ic]

			// Back faces point away from the camera.
			if r3.Cross(r3.Sub(b, a), r3.Sub(c, a)).Z <= 0 {
				continue
			}

			n := r3.Add(r3.Add(p.Normals[ia], p.Normals[ib]), p.Normals[ic])
			tris = append(tris, shadedTriangle{
				pts:   [3]r3.Vec{a, b, c},
				depth: (a.Z + b.Z + c.Z) / 3,
				shade: 0.15 + 0.85*math.Max(0, r3.Dot(r3.Unit(n), lightDir)),
			})
		}
	}

	// Painter's order: farthest first.
	sort.Slice(tris, func(i, j int) bool { return tris[i].depth < tris[j].depth })

	scale := float64(size) / (2 * extent)
	for _, t := range tris {
		var px, py [3]float64
		for k, v := range t.pts {
			px[k] = (v.X + extent) * scale
			py[k] = (extent - v.Y) * scale
		}
		fillTriangle(img, px, py, t.shade)
	}

	return img
}

func fillTriangle(dst *image.RGBA, px, py [3]float64, shade float64) {
	minX := int(math.Floor(math.Min(px[0], math.Min(px[1], px[2]))))
	minY := int(math.Floor(math.Min(py[0], math.Min(py[1], py[2]))))
	maxX := int(math.Ceil(math.Max(px[0], math.Max(px[1], px[2]))))
	maxY := int(math.Ceil(math.Max(py[0], math.Max(py[1], py[2]))))

	r := image.Rect(minX, minY, maxX+1, maxY+1).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}

	// The rasterizer's origin lines up with r.Min.
	ras := vector.NewRasterizer(r.Dx(), r.Dy())
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	ras.MoveTo(float32(px[0]-ox), float32(py[0]-oy))
	ras.LineTo(float32(px[1]-ox), float32(py[1]-oy))
	ras.LineTo(float32(px[2]-ox), float32(py[2]-oy))
	ras.ClosePath()

	v := uint8(shade*255 + 0.5)
	src := image.NewUniform(color.RGBA{R: v, G: v, B: v, A: 255})
	ras.Draw(dst, r, src, image.Point{})
}
