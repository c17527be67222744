package component

// RenderLayer places an entity in the draw order: layers draw in ascending
// Index, and within a layer lower Depth draws first.
//
// The world owns this component. Change it with World.SetRenderLayer and
// World.SetLayerDepth so the draw order sees the change.
type RenderLayer struct {
	Index int
	Depth float64
}

var RenderLayerComponent = NewComponent[RenderLayer]()
