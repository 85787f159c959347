package whisper

import (
	"fmt"
	"strings"
)

// Model is a Whisper model tier.
type Model string

const (
	ModelMedium Model = "medium"
	ModelLarge  Model = "large"
	ModelTurbo  Model = "turbo"

	DefaultModel = ModelTurbo
)

// Models lists the supported tiers in ascending size.
func Models() []Model {
	return []Model{ModelMedium, ModelLarge, ModelTurbo}
}

// ParseModel validates a tier name. An empty value selects DefaultModel.
func ParseModel(value string) (Model, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return DefaultModel, nil
	}
	for _, m := range Models() {
		if string(m) == trimmed {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported whisper model %q (choose medium, large or turbo)", value)
}

func (m Model) String() string { return string(m) }
