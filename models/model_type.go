package models

// ModelType identifies which answer-generation backend a conversation is
// bound to. The binding is set at creation or on the first message and never
// changes afterwards.
type ModelType string

const (
	// ModelAPI is the hosted OpenAI-compatible completion API.
	ModelAPI ModelType = "api"
	// ModelCustom is the locally hosted fine-tuned model service.
	ModelCustom ModelType = "custom"
	// ModelMistral is the locally hosted Mistral 7B model service.
	ModelMistral ModelType = "mistral"
)

// Valid reports whether m is one of the three known backends.
func (m ModelType) Valid() bool {
	switch m {
	case ModelAPI, ModelCustom, ModelMistral:
		return true
	}
	return false
}
