package component

// Body gives an entity a box body in the physics space. With YSort set the
// body's Y position drives its layer depth.
type Body struct {
	Mass   float64
	Width  float64
	Height float64
	Static bool
	YSort  bool
}

var BodyComponent = NewComponent[Body]()
