package component

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sprite is a solid rectangle or an image. When Image is nil the render
// system fills a Width x Height image with Color on first draw.
type Sprite struct {
	Image   *ebiten.Image
	Color   color.Color
	Width   float64
	Height  float64
	OriginX float64
	OriginY float64
	Hidden  bool
}

var SpriteComponent = NewComponent[Sprite]()
