package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"asistio.com/asistio/core"
	"asistio.com/asistio/core/models"
)

const classifyPrompt = `You are validating a workforce check-in photo taken at a retail kiosk.
Answer with a single JSON object, no prose:
{"person": bool, "kiosk": bool, "confidence": number between 0 and 1, "reason": string}
"person" is true when a person is clearly visible in the foreground,
"kiosk" is true when a retail kiosk or store counter is visible,
"reason" briefly explains any false value.`

type classification struct {
	Person     bool    `json:"person"`
	Kiosk      bool    `json:"kiosk"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

type Classifier struct {
	client *genai.Client
	model  string
}

func NewClassifier(ctx context.Context) (*Classifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := os.Getenv("VISION_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &Classifier{client: client, model: model}, nil
}

// ClassifyPhoto produces the verdict the check-in flow attaches verbatim.
func (c *Classifier) ClassifyPhoto(ctx context.Context, photo []byte, mimeType string) (core.PhotoVerdict, error) {
	contents := []*genai.Content{
		{Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: photo}},
			{Text: classifyPrompt},
		}},
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		MaxOutputTokens: 200,
		Temperature:     genai.Ptr[float32](0),
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](0),
		},
	})
	if err != nil {
		return core.PhotoVerdict{}, fmt.Errorf("vision call failed: %w", err)
	}

	var parsed classification
	text := strings.TrimSpace(result.Text())
	text = strings.TrimPrefix(text, "```json")
	text = strings.Trim(text, "`\n ")
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return core.PhotoVerdict{}, fmt.Errorf("unparseable vision response %q: %w", text, err)
	}

	return toVerdict(parsed), nil
}

// toVerdict maps the raw classification onto the verdict states. A missing
// person is a hard reject; anything ambiguous goes to manual review.
func toVerdict(c classification) core.PhotoVerdict {
	verdict := core.PhotoVerdict{
		Confidence:     c.Confidence,
		DetectedPerson: c.Person,
		DetectedKiosk:  c.Kiosk,
	}

	switch {
	case !c.Person:
		verdict.Status = models.PhotoRejected
		verdict.RejectionReason = c.Reason
		if verdict.RejectionReason == "" {
			verdict.RejectionReason = "no person visible in photo"
		}
	case c.Kiosk && c.Confidence >= 0.85:
		verdict.Status = models.PhotoAutoApproved
	default:
		verdict.Status = models.PhotoNeedsReview
		verdict.RejectionReason = c.Reason
	}

	return verdict
}
