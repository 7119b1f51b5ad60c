package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/justsurfingit/job-extractor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecognizer struct {
	spans []models.EntitySpan
	err   error
	calls int
}

func (r *stubRecognizer) Recognize(_ context.Context, _ string) ([]models.EntitySpan, error) {
	r.calls++
	return r.spans, r.err
}

const sampleAd = `Company: Acme Corp

Job Title: Senior Backend Engineer
Location: Austin, Texas (Hybrid)
Full-time

Key Responsibilities:
- Design services
- Mentor engineers

Requirements:
- 5+ years with Go
- Postgres

Apply: jobs@acme.com`

func TestExtractJobInfo_FullAd(t *testing.T) {
	rec := &stubRecognizer{spans: []models.EntitySpan{
		{Word: "Austin", Group: models.GroupLocation},
		{Word: "Texas", Group: models.GroupLocation},
		{Word: "Acme Corp", Group: models.GroupOrganization},
		{Word: "Austin", Group: models.GroupLocation},
	}}
	svc := NewJobService(rec)

	info, err := svc.ExtractJobInfo(context.Background(), sampleAd)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.calls)

	assert.Equal(t, strPtr("Acme Corp"), info.CompanyName)
	assert.Equal(t, strPtr("Senior Backend Engineer"), info.Title)
	assert.Equal(t, strPtr("Senior Backend Engineer"), info.JobDescription)
	assert.Equal(t, strPtr("Austin Texas"), info.Location)
	assert.Equal(t, strPtr("Hybrid"), info.JobType)
	assert.Equal(t, strPtr("- Design services\n- Mentor engineers"), info.Responsibilities)
	assert.Equal(t, strPtr("- 5+ years with Go\n- Postgres\nApply: jobs@acme.com"), info.QualificationReq)
	assert.Nil(t, info.NoOfOpenings)
}

func TestExtractJobInfo_EmptyInput(t *testing.T) {
	svc := NewJobService(&stubRecognizer{})

	info, err := svc.ExtractJobInfo(context.Background(), "")
	require.NoError(t, err)

	for _, f := range info.Fields() {
		assert.Nil(t, f.Value, f.Key)
	}
}

func TestExtractJobInfo_EmailFallbackWithoutTitle(t *testing.T) {
	svc := NewJobService(&stubRecognizer{})

	info, err := svc.ExtractJobInfo(context.Background(), "We are growing fast! Write to contact@globex.io")
	require.NoError(t, err)
	assert.Equal(t, strPtr("Globex"), info.CompanyName)
	assert.Nil(t, info.Title)
	assert.Nil(t, info.JobDescription)
}

func TestExtractJobInfo_Idempotent(t *testing.T) {
	svc := NewJobService(&stubRecognizer{spans: []models.EntitySpan{
		{Word: "Lis##bon", Group: models.GroupLocation},
	}})

	first, err := svc.ExtractJobInfo(context.Background(), sampleAd)
	require.NoError(t, err)
	second, err := svc.ExtractJobInfo(context.Background(), sampleAd)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, strPtr("Lisbon"), first.Location)
}

func TestExtractJobInfo_RecognizerFailure(t *testing.T) {
	svc := NewJobService(&stubRecognizer{err: fmt.Errorf("%w: model crashed", ErrInferenceFailed)})

	info, err := svc.ExtractJobInfo(context.Background(), sampleAd)
	assert.ErrorIs(t, err, ErrInferenceFailed)
	assert.Nil(t, info)
}

func TestExtractedJobInfo_AlwaysEightKeys(t *testing.T) {
	svc := NewJobService(&stubRecognizer{})

	for _, text := range []string{"", sampleAd, "Remote"} {
		info, err := svc.ExtractJobInfo(context.Background(), text)
		require.NoError(t, err)

		raw, err := json.Marshal(info)
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Len(t, body, 8)
		for key, value := range body {
			if value != nil {
				assert.IsType(t, "", value, key)
			}
		}
	}
}
