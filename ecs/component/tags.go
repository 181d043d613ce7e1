package component

// AgentTag marks a player-controlled agent.
type AgentTag struct{}

var AgentTagComponent = NewComponent[AgentTag]()

// AITag marks an AI-driven agent.
type AITag struct{}

var AITagComponent = NewComponent[AITag]()

// Name is the level-authored name of an entity.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
