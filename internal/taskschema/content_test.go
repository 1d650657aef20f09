package taskschema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateContentRejectsAbsentDocument(t *testing.T) {
	for _, taskType := range All() {
		_, err := ValidateContent(taskType, nil)
		require.ErrorIs(t, err, ErrMissingContent, "type %s", taskType)

		_, err = ValidateContent(taskType, []byte("null"))
		require.ErrorIs(t, err, ErrMissingContent, "type %s", taskType)
	}
}

func TestValidateContentTextIsPermissive(t *testing.T) {
	canonical, err := ValidateContent(TypeText, []byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, TypeText, canonical.Type)
	require.Empty(t, canonical.Text)

	canonical, err = ValidateContent(TypeText, []byte(`{"text": "My testimony"}`))
	require.NoError(t, err)
	require.Equal(t, "My testimony", canonical.Text)
}

func TestValidateContentPickOneDistinguishesMissingFromEmpty(t *testing.T) {
	_, err := ValidateContent(TypePickOne, []byte(`{"explanation": "still deciding"}`))
	require.ErrorIs(t, err, ErrMissingContent)

	canonical, err := ValidateContent(TypePickOne, []byte(`{"selectedOption": ""}`))
	require.NoError(t, err)
	require.Empty(t, canonical.SelectedOption)

	canonical, err = ValidateContent(TypePickOne, []byte(`{"selectedOption": "0-abc", "explanation": "serving fits me"}`))
	require.NoError(t, err)
	require.Equal(t, "0-abc", canonical.SelectedOption)
	require.Equal(t, "serving fits me", canonical.Explanation)
}

func TestValidateContentQuizProducesOrderedPairs(t *testing.T) {
	canonical, err := ValidateContent(TypeQuiz, []byte(`{"answers": {"Who wrote Psalms?": "David", "How many disciples?": 12}}`))
	require.NoError(t, err)
	require.Equal(t, TypeQuiz, canonical.Type)
	require.Equal(t, []Pair{
		{Label: "How many disciples?", Value: "12"},
		{Label: "Who wrote Psalms?", Value: "David"},
	}, canonical.Pairs)
}

func TestValidateContentFormStringifiesValues(t *testing.T) {
	canonical, err := ValidateContent(TypeForm, []byte(`{"responses": {"agreed": true, "hobbies": ["soccer", "art"]}}`))
	require.NoError(t, err)
	require.Equal(t, []Pair{
		{Label: "agreed", Value: "true"},
		{Label: "hobbies", Value: "soccer, art"},
	}, canonical.Pairs)
}

func TestValidateContentChecklistPartialCompletion(t *testing.T) {
	canonical, err := ValidateContent(TypeChecklist, []byte(`{"checkedItems": ["Pray"]}`))
	require.NoError(t, err)
	require.Equal(t, []string{"Pray"}, canonical.CheckedItems)

	canonical, err = ValidateContent(TypeChecklist, []byte(`{}`))
	require.NoError(t, err)
	require.Empty(t, canonical.CheckedItems)
}

func TestValidateContentVideoAndImage(t *testing.T) {
	canonical, err := ValidateContent(TypeVideo, []byte(`{"videoUrl": "https://youtu.be/x", "platform": "youtube"}`))
	require.NoError(t, err)
	require.Equal(t, "https://youtu.be/x", canonical.VideoURL)
	require.Equal(t, "youtube", canonical.Platform)

	canonical, err = ValidateContent(TypeImage, []byte(`{"imageCount": 3, "description": "retreat photos"}`))
	require.NoError(t, err)
	require.Equal(t, 3, canonical.ImageCount)
	require.Equal(t, "retreat photos", canonical.Description)
}

func TestValidateContentRejectsMalformedMapping(t *testing.T) {
	_, err := ValidateContent(TypeQuiz, []byte(`{"answers": ["not", "a", "mapping"]}`))
	require.ErrorIs(t, err, ErrMissingContent)

	_, err = ValidateContent(TypeChecklist, []byte(`{"checkedItems": "Pray"}`))
	require.ErrorIs(t, err, ErrMissingContent)
}
