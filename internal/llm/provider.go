package llm

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// RegisterGeminiProvider registers the HTTP-backed Gemini client as a
// Genkit model and returns it for the orchestration loop.
func RegisterGeminiProvider(ctx context.Context, config *Config) (Model, error) {
	client, err := NewClient(config)
	if err != nil {
		return nil, err
	}

	g := genkit.Init(ctx, nil)

	name := "googleai/" + config.Model
	genkit.DefineModel(
		g,
		name,
		&ai.ModelOptions{
			Label: fmt.Sprintf("%s (Generative Language API)", config.Model),
			Supports: &ai.ModelSupports{
				Multiturn:  true,
				SystemRole: true,
				Tools:      true,
			},
		},
		client.Generate,
	)

	model := genkit.LookupModel(g, name)
	if model == nil {
		return nil, fmt.Errorf("model %s not registered", name)
	}

	return model, nil
}
