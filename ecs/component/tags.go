package component

// Name identifies scene entities for scripts and debug output.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
