package rag

const (
	StageRetrieval = "retrieval"
	StageResponse  = "response"
)

// Stage is a named phase of the pipeline holding an ordered list of modules.
// Stages are stateless across requests.
type Stage struct {
	Name    string
	Modules []Module
}

// NewStage creates a stage; the module slice is copied so later edits by the caller have no effect
func NewStage(name string, modules ...Module) Stage {
	copied := make([]Module, len(modules))
	copy(copied, modules)
	return Stage{Name: name, Modules: copied}
}

// NewRetrievalStage creates the stage that populates text chunks
func NewRetrievalStage(modules ...Module) Stage {
	return NewStage(StageRetrieval, modules...)
}

// NewResponseStage creates the stage that produces answer artifacts
func NewResponseStage(modules ...Module) Stage {
	return NewStage(StageResponse, modules...)
}
