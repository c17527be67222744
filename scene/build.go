package scene

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/milk9111/layerdraw/ecs"
	"github.com/milk9111/layerdraw/ecs/component"
	"github.com/milk9111/layerdraw/ecs/render"
)

// Scene is the set of entities created from a Spec.
type Scene struct {
	Name     string
	Camera   ecs.Entity
	Entities map[string]ecs.Entity

	created []ecs.Entity
	images  *render.Images
}

// Build creates the camera and every entity of spec in w and registers the
// entities in the world's draw order. Scripts are read from dir through
// LoadScript. On error nothing built so far is left in the world.
func Build(w *ecs.World, dir string, spec Spec) (*Scene, error) {
	s := &Scene{
		Name:     spec.Name,
		Entities: make(map[string]ecs.Entity, len(spec.Entities)),
	}
	if dir != "" {
		s.images = render.NewImages(os.DirFS(dir))
	}

	cam := s.create(w)
	s.Camera = cam
	if err := ecs.Add(w, cam, component.TransformComponent.Kind(), transform(spec.Camera.Transform)); err != nil {
		s.Clear(w)
		return nil, fmt.Errorf("scene: camera: %w", err)
	}
	zoom := spec.Camera.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	camera := &component.Camera{Zoom: zoom, Layers: append([]int(nil), spec.Camera.Layers...)}
	if err := ecs.Add(w, cam, component.CameraComponent.Kind(), camera); err != nil {
		s.Clear(w)
		return nil, fmt.Errorf("scene: camera: %w", err)
	}

	for i, es := range spec.Entities {
		name := es.Name
		if name == "" {
			name = fmt.Sprintf("entity_%d", i)
		}
		if _, dup := s.Entities[name]; dup {
			s.Clear(w)
			return nil, fmt.Errorf("scene: %s: duplicate entity name %q", spec.Name, name)
		}
		e, err := s.buildEntity(w, dir, name, es)
		if err != nil {
			s.Clear(w)
			return nil, fmt.Errorf("scene: %s: entity %q: %w", spec.Name, name, err)
		}
		s.Entities[name] = e
	}

	return s, nil
}

// Clear destroys every entity the scene created.
func (s *Scene) Clear(w *ecs.World) {
	if s == nil {
		return
	}
	for _, e := range s.created {
		ecs.DestroyEntity(w, e)
	}
	s.created = nil
	clear(s.Entities)
	s.Camera = 0
}

func (s *Scene) create(w *ecs.World) ecs.Entity {
	e := ecs.CreateEntity(w)
	s.created = append(s.created, e)
	return e
}

func (s *Scene) buildEntity(w *ecs.World, dir, name string, es EntitySpec) (ecs.Entity, error) {
	e := s.create(w)

	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), transform(es.Transform)); err != nil {
		return 0, err
	}

	sprite := &component.Sprite{
		Width:   es.Sprite.Width,
		Height:  es.Sprite.Height,
		OriginX: es.Sprite.OriginX,
		OriginY: es.Sprite.OriginY,
		Hidden:  es.Sprite.Hidden,
	}
	if es.Sprite.Color != nil {
		sprite.Color = es.Sprite.Color.Color
	}
	if es.Sprite.Image != "" {
		if s.images == nil {
			return 0, fmt.Errorf("image %s: scene has no directory", es.Sprite.Image)
		}
		img, err := s.images.Load(path.Clean(filepath.ToSlash(es.Sprite.Image)))
		if err != nil {
			return 0, err
		}
		sprite.Image = img
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), sprite); err != nil {
		return 0, err
	}

	if es.Physics != nil {
		body := &component.Body{
			Mass:   es.Physics.Mass,
			Width:  es.Sprite.Width,
			Height: es.Sprite.Height,
			Static: es.Physics.Static,
			YSort:  es.Physics.YSort,
		}
		if err := ecs.Add(w, e, component.BodyComponent.Kind(), body); err != nil {
			return 0, err
		}
	}

	if es.Script != "" {
		src, err := LoadScript(dir, es.Script)
		if err != nil {
			return 0, fmt.Errorf("load script %s: %w", es.Script, err)
		}
		if err := ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Path: es.Script, Source: src}); err != nil {
			return 0, err
		}
	}

	if err := w.AttachRenderable(e, component.RenderLayer{Index: es.Layer, Depth: es.Depth}); err != nil {
		return 0, err
	}
	return e, nil
}

func transform(t TransformSpec) *component.Transform {
	return &component.Transform{
		X:        t.X,
		Y:        t.Y,
		ScaleX:   t.ScaleX,
		ScaleY:   t.ScaleY,
		Rotation: t.Rotation,
	}
}
