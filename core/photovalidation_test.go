package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"asistio.com/asistio/core/models"
)

func TestPhotoPipelineAppliesVerdict(t *testing.T) {
	applied := map[string]PhotoVerdict{}
	pipeline := &PhotoPipeline{
		Fetch: func(context.Context, string) ([]byte, string, error) {
			return []byte{0xff, 0xd8}, "image/jpeg", nil
		},
		Classify: func(context.Context, []byte, string) (PhotoVerdict, error) {
			return PhotoVerdict{Status: models.PhotoAutoApproved, Confidence: 0.93, DetectedPerson: true, DetectedKiosk: true}, nil
		},
		Apply: func(_ context.Context, id string, v PhotoVerdict) error {
			applied[id] = v
			return nil
		},
	}

	err := pipeline.Process(context.Background(), "ev-1", "checkins/2025-06-02/u1.jpg")
	assert.NoError(t, err)
	assert.Equal(t, models.PhotoAutoApproved, applied["ev-1"].Status)
}

func TestPhotoPipelineFetchFailureLeavesPending(t *testing.T) {
	pipeline := &PhotoPipeline{
		Fetch: func(context.Context, string) ([]byte, string, error) {
			return nil, "", errors.New("no such key")
		},
		Classify: func(context.Context, []byte, string) (PhotoVerdict, error) {
			t.Fatal("classify must not run after a failed fetch")
			return PhotoVerdict{}, nil
		},
		Apply: func(context.Context, string, PhotoVerdict) error {
			t.Fatal("apply must not run after a failed fetch")
			return nil
		},
	}

	err := pipeline.Process(context.Background(), "ev-1", "checkins/2025-06-02/u1.jpg")
	assert.Error(t, err)
}

func TestPhotoPipelineClassifierFailureLeavesPending(t *testing.T) {
	pipeline := &PhotoPipeline{
		Fetch: func(context.Context, string) ([]byte, string, error) {
			return []byte{0xff, 0xd8}, "image/jpeg", nil
		},
		Classify: func(context.Context, []byte, string) (PhotoVerdict, error) {
			return PhotoVerdict{}, errors.New("model unavailable")
		},
		Apply: func(context.Context, string, PhotoVerdict) error {
			t.Fatal("apply must not run after a failed classification")
			return nil
		},
	}

	err := pipeline.Process(context.Background(), "ev-1", "checkins/2025-06-02/u1.jpg")
	assert.Error(t, err)
}
