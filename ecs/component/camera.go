package component

type Camera struct {
	Zoom float64
	// Layers limits drawing to the listed render layers, in the listed
	// order. Empty draws everything in global order.
	Layers []int
}

var CameraComponent = NewComponent[Camera]()
