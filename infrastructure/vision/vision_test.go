package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"asistio.com/asistio/core/models"
)

func TestToVerdict(t *testing.T) {
	tests := []struct {
		name     string
		input    classification
		expected string
	}{
		{"person at kiosk, confident", classification{Person: true, Kiosk: true, Confidence: 0.95}, models.PhotoAutoApproved},
		{"person at kiosk, low confidence", classification{Person: true, Kiosk: true, Confidence: 0.6}, models.PhotoNeedsReview},
		{"person without kiosk", classification{Person: true, Kiosk: false, Confidence: 0.9}, models.PhotoNeedsReview},
		{"no person", classification{Person: false, Kiosk: true, Confidence: 0.9}, models.PhotoRejected},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			verdict := toVerdict(test.input)
			assert.Equal(t, test.expected, verdict.Status)
		})
	}
}

func TestToVerdictRejectionReasonDefault(t *testing.T) {
	verdict := toVerdict(classification{Person: false})
	assert.Equal(t, "no person visible in photo", verdict.RejectionReason)
}
