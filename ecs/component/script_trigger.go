package component

// ScriptTrigger runs a tengo script every tick. The script may activate or
// deactivate portals and switches by name.
type ScriptTrigger struct {
	Path   string
	Source []byte
}

var ScriptTriggerComponent = NewComponent[ScriptTrigger]()
