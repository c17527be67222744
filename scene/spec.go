package scene

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Spec describes a scene: a camera and the renderable entities in it.
type Spec struct {
	Name     string       `yaml:"name"`
	Gravity  float64      `yaml:"gravity"`
	FloorY   float64      `yaml:"floor_y"`
	Camera   CameraSpec   `yaml:"camera"`
	Entities []EntitySpec `yaml:"entities"`
}

type CameraSpec struct {
	Transform TransformSpec `yaml:"transform"`
	Zoom      float64       `yaml:"zoom"`
	Layers    []int         `yaml:"layers"`
}

type EntitySpec struct {
	Name      string        `yaml:"name"`
	Layer     int           `yaml:"layer"`
	Depth     float64       `yaml:"depth"`
	Transform TransformSpec `yaml:"transform"`
	Sprite    SpriteSpec    `yaml:"sprite"`
	Script    string        `yaml:"script"`
	Physics   *PhysicsSpec  `yaml:"physics"`
}

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type SpriteSpec struct {
	Image   string     `yaml:"image"` // PNG under the scene dir, e.g. images/crate.png
	Width   float64    `yaml:"width"`
	Height  float64    `yaml:"height"`
	Color   *YAMLColor `yaml:"color"`
	OriginX float64    `yaml:"origin_x"`
	OriginY float64    `yaml:"origin_y"`
	Hidden  bool       `yaml:"hidden"`
}

type PhysicsSpec struct {
	Mass   float64 `yaml:"mass"`
	Static bool    `yaml:"static"`
	YSort  bool    `yaml:"y_sort"`
}

// LoadSpec loads and decodes a YAML file through Load.
func LoadSpec[T any](dir, name string) (T, error) {
	var zero T
	data, err := Load(dir, name)
	if err != nil {
		return zero, fmt.Errorf("scene: load %s: %w", name, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("scene: unmarshal %s: %w", name, err)
	}

	return spec, nil
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or an SVG colour name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if !strings.HasPrefix(value.Value, "#") {
		named, ok := colornames.Map[strings.ToLower(value.Value)]
		if !ok {
			return fmt.Errorf("unknown color name: %s", value.Value)
		}
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
