package scene

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

func TestLoadEmbeddedScene(t *testing.T) {
	spec, err := LoadSpec[Spec]("", "courtyard")
	require.NoError(t, err)
	require.Equal(t, "courtyard", spec.Name)
	require.Len(t, spec.Entities, 9)

	sky := spec.Entities[0]
	require.Equal(t, "sky", sky.Name)
	require.Equal(t, -10, sky.Layer)
	require.Equal(t, color.Color(colornames.Midnightblue), sky.Sprite.Color.Color)
}

func TestLoadPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scenes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenes", "courtyard.yaml"), []byte("name: override\n"), 0o644))

	spec, err := LoadSpec[Spec](dir, "scene/scenes/courtyard.yaml")
	require.NoError(t, err)
	require.Equal(t, "override", spec.Name)

	_, ok := ModTime(dir, "courtyard")
	require.True(t, ok)
	_, ok = ModTime("", "courtyard")
	require.False(t, ok)

	src, err := LoadScript(dir, "bob.tengo")
	require.NoError(t, err)
	require.Contains(t, string(src), "set_depth")
}

func TestLoadSpecErrors(t *testing.T) {
	_, err := LoadSpec[Spec]("", "missing")
	require.ErrorContains(t, err, "scene: load missing")

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scenes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenes", "bad.yaml"), []byte("entities: {"), 0o644))
	_, err = LoadSpec[Spec](dir, "bad")
	require.ErrorContains(t, err, "scene: unmarshal bad")
}

func TestCleanPath(t *testing.T) {
	cases := []struct {
		name, sub, want string
	}{
		{"courtyard", "scenes", "scenes/courtyard.yaml"},
		{"scenes/courtyard.yml", "scenes", "scenes/courtyard.yml"},
		{"scene/scenes/a/b", "scenes", "scenes/a/b.yaml"},
		{"bob.tengo", "scripts", "scripts/bob.tengo"},
		{"scene/scripts/bob.tengo", "scripts", "scripts/bob.tengo"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, cleanPath(c.name, c.sub))
		})
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.Color
		wantErr bool
	}{
		{in: `"#ff8000"`, want: color.NRGBA{R: 255, G: 128, A: 255}},
		{in: `"#10203040"`, want: color.NRGBA{R: 16, G: 32, B: 48, A: 64}},
		{in: `Gold`, want: colornames.Gold},
		{in: `"#fff"`, wantErr: true},
		{in: `"#gg0000"`, wantErr: true},
		{in: `notacolor`, wantErr: true},
		{in: `[1, 2]`, wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			var got YAMLColor
			err := yaml.Unmarshal([]byte(c.in), &got)
			if c.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.want, got.Color)
		})
	}
}
