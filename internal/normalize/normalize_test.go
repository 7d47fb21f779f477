package normalize

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jonathan/applicant-ranker/internal/cache"
	"github.com/jonathan/applicant-ranker/internal/dictionary"
	"github.com/jonathan/applicant-ranker/internal/llm"
	"github.com/jonathan/applicant-ranker/internal/llm/llmtest"
	"github.com/jonathan/applicant-ranker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const degreesYAML = `
degrees:
  - key: bs_information_technology
    canonical: Bachelor of Science in Information Technology
    level: bachelor
    field_group: computing
    aliases: ["BS in IT", "BSIT"]
  - key: bs_computer_science
    canonical: Bachelor of Science in Computer Science
    level: bachelor
    field_group: computing
    aliases: ["BSCS"]
  - key: ms_computer_science
    canonical: Master of Science in Computer Science
    level: master
    field_group: computing
`

const eligibilitiesYAML = `
- key: csc_professional
  canonical: Career Service Professional
  category: csc
  aliases: ["CS Professional", "CSC Prof"]
- key: csc_subprofessional
  canonical: Career Service Sub-Professional
  category: csc
`

var inputPattern = regexp.MustCompile(`Input string: "([^"]*)"`)

// answerByInput maps the classified input string to a JSON answer.
func answerByInput(answers map[string]string) llmtest.Handler {
	return func(prompt string, _ llm.ModelTier) (string, error) {
		m := inputPattern.FindStringSubmatch(prompt)
		if m == nil {
			return "", errors.New("no input in prompt")
		}
		if answer, ok := answers[m[1]]; ok {
			return answer, nil
		}
		return `{"canonical_key": "UNKNOWN"}`, nil
	}
}

func newTestNormalizer(t *testing.T, degrees, eligibilities dictionary.Source, client llm.Client) *Normalizer {
	t.Helper()
	loader := dictionary.NewLoader(degrees, eligibilities, nil)
	return New(loader, client, Options{})
}

func bothSources() (dictionary.Source, dictionary.Source) {
	return dictionary.BytesSource{Label: "degrees", Data: []byte(degreesYAML)},
		dictionary.BytesSource{Label: "eligibilities", Data: []byte(eligibilitiesYAML)}
}

func TestNormalizeValue_Blank(t *testing.T) {
	d, e := bothSources()
	client := &llmtest.FakeClient{}
	n := newTestNormalizer(t, d, e, client)

	res := n.NormalizeDegreeValue(context.Background(), "   ")
	assert.Nil(t, res.CanonicalKey)
	assert.Equal(t, types.MethodFallback, res.Method)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Empty(t, client.Prompts())
}

func TestNormalizeValue_DictionaryHit(t *testing.T) {
	d, e := bothSources()
	client := &llmtest.FakeClient{}
	n := newTestNormalizer(t, d, e, client)

	res := n.NormalizeDegreeValue(context.Background(), "  bsit ")
	require.True(t, res.Resolved())
	assert.Equal(t, "bs_information_technology", *res.CanonicalKey)
	assert.Equal(t, "Bachelor of Science in Information Technology", res.Canonical)
	assert.Equal(t, types.MethodDictionary, res.Method)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, "  bsit ", res.Raw)
	assert.Empty(t, client.Prompts(), "dictionary hits must not call the classifier")
}

func TestNormalizeValue_Idempotent(t *testing.T) {
	d, e := bothSources()
	n := newTestNormalizer(t, d, e, &llmtest.FakeClient{})
	ctx := context.Background()

	first := n.NormalizeEligibilityValue(ctx, "CSC Prof")
	require.True(t, first.Resolved())

	again := n.NormalizeEligibilityValue(ctx, first.Canonical)
	require.True(t, again.Resolved())
	assert.Equal(t, first.Canonical, again.Canonical)
	assert.Equal(t, types.MethodDictionary, again.Method)
	assert.Equal(t, 1.0, again.Confidence)
}

func TestNormalizeValue_NoCandidates(t *testing.T) {
	d, e := bothSources()
	client := &llmtest.FakeClient{JSON: llmtest.Static(`{"canonical_key": "bs_computer_science"}`)}
	n := newTestNormalizer(t, d, e, client)

	res := n.NormalizeDegreeValue(context.Background(), "culinary arts diploma")
	assert.Nil(t, res.CanonicalKey)
	assert.Equal(t, types.MethodFallback, res.Method)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Empty(t, client.Prompts())
}

func TestNormalizeValue_ClassifierMatch(t *testing.T) {
	d, e := bothSources()
	client := &llmtest.FakeClient{JSON: answerByInput(map[string]string{
		"Computer Science degree": `{"canonical_key": "bs_computer_science", "reasoning": "same field"}`,
		"Science, Computer (BS)":  "```json\n{\"canonical_key\": \"bs_computer_science\", \"confidence\": 0.93}\n```",
	})}
	n := newTestNormalizer(t, d, e, client)
	ctx := context.Background()

	res := n.NormalizeDegreeValue(ctx, "Computer Science degree")
	require.True(t, res.Resolved())
	assert.Equal(t, "bs_computer_science", *res.CanonicalKey)
	assert.Equal(t, types.MethodAIClassifier, res.Method)
	assert.Equal(t, DefaultMatchConfidence, res.Confidence)
	assert.Equal(t, "same field", res.Reasoning)

	res = n.NormalizeDegreeValue(ctx, "Science, Computer (BS)")
	require.True(t, res.Resolved())
	assert.InDelta(t, 0.93, res.Confidence, 1e-9)

	prompts := client.Prompts()
	require.NotEmpty(t, prompts)
	assert.Contains(t, prompts[0], "bs_computer_science | Bachelor of Science in Computer Science | bachelor | computing")
}

func TestNormalizeValue_ClassifierDeclines(t *testing.T) {
	d, e := bothSources()
	ctx := context.Background()

	tests := []struct {
		name       string
		response   string
		confidence float64
	}{
		{"unknown literal", `{"canonical_key": "UNKNOWN"}`, DefaultUnknownConfidence},
		{"unknown with confidence", `{"canonical_key": "unknown", "confidence": 0.1}`, 0.1},
		{"null key", `{"canonical_key": null}`, DefaultUnknownConfidence},
		{"key outside dictionary", `{"canonical_key": "phd_astrology", "confidence": 0.99}`, DefaultUnknownConfidence},
		{"not json", `I think it is computer science`, DefaultUnknownConfidence},
		{"schema violation", `{"confidence": 0.9}`, DefaultUnknownConfidence},
		{"confidence out of range", `{"canonical_key": "bs_computer_science", "confidence": 7}`, DefaultUnknownConfidence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &llmtest.FakeClient{JSON: llmtest.Static(tt.response)}
			n := newTestNormalizer(t, d, e, client)

			res := n.NormalizeDegreeValue(ctx, "Computer Science degree")
			assert.Nil(t, res.CanonicalKey)
			assert.Equal(t, types.MethodAIClassifier, res.Method)
			assert.InDelta(t, tt.confidence, res.Confidence, 1e-9)
		})
	}
}

func TestNormalizeValue_ServiceFailure(t *testing.T) {
	d, e := bothSources()
	client := &llmtest.FakeClient{JSON: llmtest.Failing(errors.New("quota exceeded"))}
	n := newTestNormalizer(t, d, e, client)

	res := n.NormalizeDegreeValue(context.Background(), "Computer Science degree")
	assert.Nil(t, res.CanonicalKey)
	assert.Equal(t, types.MethodFallback, res.Method)
	assert.Equal(t, 0.0, res.Confidence)
}

func TestNormalizeValue_NilClient(t *testing.T) {
	d, e := bothSources()
	n := newTestNormalizer(t, d, e, nil)

	res := n.NormalizeDegreeValue(context.Background(), "Computer Science degree")
	assert.Equal(t, types.MethodFallback, res.Method)

	res = n.NormalizeDegreeValue(context.Background(), "BSCS")
	assert.Equal(t, types.MethodDictionary, res.Method)
}

func TestNormalizeValue_CachesClassifierAnswers(t *testing.T) {
	d, e := bothSources()
	client := &llmtest.FakeClient{JSON: llmtest.Static(`{"canonical_key": "bs_computer_science"}`)}
	mem := cache.NewMemory(cache.DefaultOptions())
	defer func() { _ = mem.Close() }()

	loader := dictionary.NewLoader(d, e, nil)
	n := New(loader, client, Options{Cache: mem, CacheTTL: time.Hour})
	ctx := context.Background()

	first := n.NormalizeDegreeValue(ctx, "Computer Science degree")
	second := n.NormalizeDegreeValue(ctx, "computer  science DEGREE")
	assert.Equal(t, first.CanonicalKey, second.CanonicalKey)
	assert.Len(t, client.Prompts(), 1)

	cached, err := mem.Get(ctx, "degrees:computer science degree")
	require.NoError(t, err)
	assert.Contains(t, cached, "bs_computer_science")
}

func TestNormalizeValue_EligibilitiesSourceMissing(t *testing.T) {
	degrees, _ := bothSources()
	client := &llmtest.FakeClient{JSON: llmtest.Static(`{"canonical_key": "UNKNOWN"}`)}
	n := newTestNormalizer(t, degrees, nil, client)
	ctx := context.Background()

	for _, raw := range []string{"Career Service Professional", "CSC Prof", "RA 1080", ""} {
		res := n.NormalizeEligibilityValue(ctx, raw)
		assert.NotEqual(t, types.MethodDictionary, res.Method, raw)
		assert.Nil(t, res.CanonicalKey, raw)
		assert.Equal(t, types.MethodFallback, res.Method, raw)
		assert.Equal(t, raw, res.Raw)
	}
	assert.Empty(t, client.Prompts())

	res := n.NormalizeDegreeValue(ctx, "BSIT")
	assert.Equal(t, types.MethodDictionary, res.Method)
}

func TestComposite_AndPreservedAcrossMethods(t *testing.T) {
	d, e := bothSources()
	client := &llmtest.FakeClient{JSON: answerByInput(map[string]string{
		"BS in CS": `{"canonical_key": "bs_computer_science", "confidence": 0.9}`,
	})}
	n := newTestNormalizer(t, d, e, client)

	out := n.NormalizeCompositeDegreeString(context.Background(), "BS in IT and BS in CS")
	assert.Equal(t,
		"Bachelor of Science in Information Technology and Bachelor of Science in Computer Science",
		out)
	assert.Equal(t, 1, client.CallsContaining(`Input string: "BS in CS"`))
}

func TestComposite_Joins(t *testing.T) {
	d, e := bothSources()
	n := newTestNormalizer(t, d, e, nil)
	ctx := context.Background()

	assert.Equal(t,
		"Bachelor of Science in Information Technology or Bachelor of Science in Computer Science",
		n.NormalizeCompositeDegreeString(ctx, "BSIT OR BSCS"))
	assert.Equal(t,
		"Bachelor of Science in Information Technology or Bachelor of Science in Computer Science",
		n.NormalizeCompositeDegreeString(ctx, "BSIT, BSCS"))
	assert.Equal(t,
		"Bachelor of Science in Computer Science or Some Unknown Degree",
		n.NormalizeCompositeDegreeString(ctx, "BSCS, Some Unknown Degree"))
	assert.Equal(t,
		"Career Service Professional",
		n.NormalizeCompositeEligibility(ctx, "CS Professional"))
	assert.Equal(t, "", n.NormalizeCompositeEligibility(ctx, "  "))
}

func TestNormalizeJobAndApplicant(t *testing.T) {
	d, e := bothSources()
	n := newTestNormalizer(t, d, e, nil)

	job := &types.JobRequirements{
		Title:             "Systems Analyst",
		DegreeRequirement: "BSCS or BSIT",
		Eligibilities:     []string{"CSC Prof", "None required"},
		Skills:            []string{"Go"},
		YearsOfExperience: 2,
	}
	applicant := &types.ApplicantData{
		ID:                           "a1",
		HighestEducationalAttainment: "BS in IT",
		Eligibilities:                []types.Eligibility{{EligibilityTitle: "CS Professional"}},
		Skills:                       []string{"Go"},
		TotalYearsExperience:         3,
	}

	j, a := n.NormalizeJobAndApplicant(context.Background(), job, applicant)

	assert.Equal(t, "Bachelor of Science in Computer Science or Bachelor of Science in Information Technology", j.DegreeRequirement)
	assert.Equal(t, []string{"Career Service Professional", "None required"}, j.Eligibilities)
	assert.Equal(t, "bachelor", j.DegreeLevel)
	assert.Equal(t, "computing", j.DegreeFieldGroup)

	assert.Equal(t, "Bachelor of Science in Information Technology", a.HighestEducationalAttainment)
	assert.Equal(t, "Career Service Professional", a.Eligibilities[0].EligibilityTitle)
	assert.Equal(t, "bachelor", a.DegreeLevel)

	// Inputs are untouched.
	assert.Equal(t, "BSCS or BSIT", job.DegreeRequirement)
	assert.Equal(t, "CSC Prof", job.Eligibilities[0])
	assert.Equal(t, "CS Professional", applicant.Eligibilities[0].EligibilityTitle)
	assert.Empty(t, applicant.DegreeLevel)
}
