// Package icosphere builds a subdivided icosahedron as twenty independent
// patches. Each patch samples one extra ring of ghost vertices from its
// neighbours' frames so that normals match across patch seams without any
// shared state between patches.
package icosphere

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidResolution is returned for a negative subdivision count.
var ErrInvalidResolution = errors.New("resolution must be >= 0")

// Shape maps a point on the unit sphere to its final position.
type Shape interface {
	Evaluate(p r3.Vec) r3.Vec
}

// ShapeFunc adapts a function to Shape.
type ShapeFunc func(p r3.Vec) r3.Vec

// Evaluate calls f(p).
func (f ShapeFunc) Evaluate(p r3.Vec) r3.Vec { return f(p) }

// UnitSphere leaves points on the unit sphere.
var UnitSphere Shape = ShapeFunc(func(p r3.Vec) r3.Vec { return p })

// Builder builds patches for a fixed resolution and shape. It holds no
// per-patch state, so Build may be called from several goroutines at once
// provided the shape is safe for concurrent use.
type Builder struct {
	resolution int
	shape      Shape
	faces      [FaceCount]Face
	logger     *slog.Logger
}

// NewBuilder validates the resolution and prepares the face table.
// Resolution is the number of extra vertices inserted along each face edge.
func NewBuilder(resolution int, shape Shape, logger *slog.Logger) (*Builder, error) {
	if resolution < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidResolution, resolution)
	}
	if shape == nil {
		shape = UnitSphere
	}

	return &Builder{
		resolution: resolution,
		shape:      shape,
		faces:      Faces(),
		logger:     logger,
	}, nil
}

// Resolution returns the subdivision count.
func (b *Builder) Resolution() int {
	return b.resolution
}

// Build builds the patch for face index face in [0,20). The context is only
// checked before work starts; a patch always runs to completion.
func (b *Builder) Build(ctx context.Context, face int) (*Patch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if face < 0 || face >= FaceCount {
		return nil, fmt.Errorf("face %d out of range [0,%d)", face, FaceCount)
	}

	pb := b.build(face)
	p := &Patch{
		Face:      face,
		Vertices:  pb.verts.Vertices(),
		Normals:   pb.normals(),
		Triangles: pb.indices.Triangles(),
	}

	b.log().Debug("Built patch",
		"face", face,
		"vertices", len(p.Vertices),
		"triangles", p.TriangleCount(),
		"ghosts", pb.ghosts)

	return p, nil
}

func (b *Builder) build(face int) *patchBuilder {
	pb := newPatchBuilder(b.resolution, b.shape, b.faces[face])
	pb.sample()
	pb.triangulate()
	return pb
}

func (b *Builder) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return slog.Default()
}

// Generate builds all twenty patches one after another, in face order.
func Generate(resolution int, shape Shape) ([]*Patch, error) {
	b, err := NewBuilder(resolution, shape, nil)
	if err != nil {
		return nil, err
	}

	patches := make([]*Patch, FaceCount)
	for i := range patches {
		p, err := b.Build(context.Background(), i)
		if err != nil {
			return nil, fmt.Errorf("failed to build patch %d: %w", i, err)
		}
		patches[i] = p
	}
	return patches, nil
}
