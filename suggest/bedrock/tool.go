package bedrock

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

const (
	proposeMealsToolName        = "propose_meals"
	proposeMealsToolDescription = "Submit replacement meal proposals for the disrupted plan. Call exactly once with every proposal."
)

// proposalSchema describes the propose_meals tool input. Its input payload
// decodes into suggest.Payload.
func proposalSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"suggestions": {
				Type:        "array",
				Description: "Replacement meal proposals, best fit first.",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"name": {
							Type:        "string",
							Description: "Short dish name, e.g. 'Chickpea curry'.",
						},
						"date": {
							Type:        "string",
							Description: "Date to cook the meal, formatted YYYY-MM-DD.",
						},
						"meal_type": {
							Type:        "string",
							Description: "One of breakfast, lunch or dinner.",
						},
						"reason": {
							Type:        "string",
							Description: "One sentence on why this meal fits the situation.",
						},
						"ingredients": {
							Type:        "array",
							Description: "Ingredient lines such as '2 cups rice'.",
							Items:       &jsonschema.Schema{Type: "string"},
						},
					},
					Required: []string{"name", "date", "meal_type", "ingredients"},
				},
			},
		},
		Required: []string{"suggestions"},
	}
}

// buildToolSpec constructs a ToolSpecification for the Converse API.
func buildToolSpec(name, description string, schema *jsonschema.Schema) (types.ToolSpecification, error) {
	// Pre-marshal the schema to JSON so its custom MarshalJSON runs before
	// the document system sees it.
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return types.ToolSpecification{}, fmt.Errorf("failed to marshal tool schema for %s: %w", name, err)
	}

	// Parse it back to a map for the document system
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return types.ToolSpecification{}, fmt.Errorf("failed to unmarshal tool schema for %s: %w", name, err)
	}

	return types.ToolSpecification{
		Name:        aws.String(name),
		Description: aws.String(description),
		InputSchema: &types.ToolInputSchemaMemberJson{
			Value: document.NewLazyDocument(schemaMap),
		},
	}, nil
}
