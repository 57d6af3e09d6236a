// Package demo animates two copies of a template mesh around the camera.
package demo

import (
	"fmt"

	"github.com/taigrr/nwgfx/pkg/math3d"
	"github.com/taigrr/nwgfx/pkg/models"
	"github.com/taigrr/nwgfx/pkg/render"
)

// Placement of one animated copy.
type Placement struct {
	// Tilt is applied once about the centroid: a roll for the first copy
	// and a pitch for the second, in degrees.
	Tilt float32
	// Spin is the yaw rate in degrees per frame.
	Spin   float32
	Offset math3d.Vec3
}

// DefaultPlacements puts one copy 20 units behind the starting camera and
// the other 20 units in front, spinning in opposite directions.
var DefaultPlacements = [2]Placement{
	{Tilt: 30, Spin: 6, Offset: math3d.V3(0, -1, 20)},
	{Tilt: -30, Spin: -6, Offset: math3d.V3(0, 1, -20)},
}

// Scene owns a template mesh and two working copies. Every frame the copies
// are animated, rendered and then restored from the template, so the
// transforms never accumulate.
type Scene struct {
	Template   *models.Mesh
	Meshes     [2]*models.Mesh
	Placements [2]Placement
}

// NewScene takes ownership of template and clones it twice.
func NewScene(template *models.Mesh) (*Scene, error) {
	if err := template.Validate(); err != nil {
		return nil, fmt.Errorf("scene template: %w", err)
	}
	s := &Scene{Template: template, Placements: DefaultPlacements}
	for i := range s.Meshes {
		m, err := template.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone template: %w", err)
		}
		m.Name = fmt.Sprintf("%s#%d", template.Name, i+1)
		s.Meshes[i] = m
	}
	return s, nil
}

// Animate moves both copies into their pose for the given frame. The yaw
// angle wraps every 360 frames.
func (s *Scene) Animate(frame uint64) error {
	spin := float32(frame % 360)
	for i, m := range s.Meshes {
		p := s.Placements[i]
		pivot, err := m.Centroid()
		if err != nil {
			return fmt.Errorf("animate %s: %w", m.Name, err)
		}
		tilt := math3d.DegToRad(p.Tilt)
		yaw := math3d.DegToRad(spin) * p.Spin
		m.MapPositions(func(v math3d.Vec3) math3d.Vec3 {
			if i == 0 {
				v = math3d.RotateRoll(tilt, pivot, v)
			} else {
				v = math3d.RotatePitch(tilt, pivot, v)
			}
			v = math3d.RotateYaw(yaw, pivot, v)
			return math3d.Translate3D(p.Offset, v)
		})
	}
	return nil
}

// Reset restores both copies from the template.
func (s *Scene) Reset() error {
	for _, m := range s.Meshes {
		if err := m.CopyFrom(s.Template); err != nil {
			return fmt.Errorf("reset %s: %w", m.Name, err)
		}
	}
	return nil
}

// Step animates, renders and resets both copies for one frame.
func (s *Scene) Step(frame uint64, r *render.Rasterizer, cam *render.Camera, forward math3d.Vec3) (err error) {
	defer func() {
		if rerr := s.Reset(); err == nil {
			err = rerr
		}
	}()
	if err := s.Animate(frame); err != nil {
		return err
	}
	for _, m := range s.Meshes {
		if err := r.RenderMesh(m, cam, forward); err != nil {
			return err
		}
	}
	return nil
}

// TriangleCount returns the number of triangles rendered per frame.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, m := range s.Meshes {
		n += m.TriangleCount()
	}
	return n
}

// Close releases the copies and the template.
func (s *Scene) Close() {
	for _, m := range s.Meshes {
		m.Release()
	}
	s.Template.Release()
}
