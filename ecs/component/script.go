package component

// Script attaches a tengo script that runs once per update.
type Script struct {
	Path   string
	Source []byte
}

var ScriptComponent = NewComponent[Script]()
