package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smarttask/smarttask-go/internal/model"
)

const promptTemplate = `Analyze this task and return a JSON object with priority (low, medium, high) and a short category name: %q`

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type schema struct {
	Type       string             `json:"type"`
	Enum       []string           `json:"enum,omitempty"`
	Properties map[string]*schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	ResponseSchema   *schema `json:"responseSchema"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func newRequest(text string) generateRequest {
	return generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(promptTemplate, text)}}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema: &schema{
				Type: "OBJECT",
				Properties: map[string]*schema{
					"priority": {Type: "STRING", Enum: []string{"low", "medium", "high"}},
					"category": {Type: "STRING"},
				},
				Required: []string{"priority", "category"},
			},
		},
	}
}

// parseResponse extracts the JSON object the model was asked to produce.
func parseResponse(body []byte) (model.Classification, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.Classification{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(resp.Candidates) == 0 {
		return model.Classification{}, fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return model.Classification{}, fmt.Errorf("%w: empty text", ErrMalformedResponse)
	}

	var c model.Classification
	if err := json.Unmarshal([]byte(text), &c); err != nil {
		return model.Classification{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return c, nil
}
