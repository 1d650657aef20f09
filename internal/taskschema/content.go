package taskschema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Pair is an ordered label/value row ready for display.
type Pair struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CanonicalContent is the display-ready decomposition of a submission's
// content document. Only the fields relevant to Type are populated; FORM and
// QUIZ submissions additionally expose their answers as ordered pairs so
// rendering and review surfaces do not re-implement per-type branching.
type CanonicalContent struct {
	Type           TaskType `json:"type"`
	Text           string   `json:"text,omitempty"`
	ImageCount     int      `json:"image_count,omitempty"`
	Description    string   `json:"description,omitempty"`
	VideoURL       string   `json:"video_url,omitempty"`
	Platform       string   `json:"platform,omitempty"`
	SelectedOption string   `json:"selected_option,omitempty"`
	Explanation    string   `json:"explanation,omitempty"`
	CheckedItems   []string `json:"checked_items,omitempty"`
	Pairs          []Pair   `json:"pairs,omitempty"`
}

var contentInterpreters = map[TaskType]func(doc map[string]json.RawMessage) (CanonicalContent, error){
	TypeText:      interpretTextContent,
	TypeImage:     interpretImageContent,
	TypeVideo:     interpretVideoContent,
	TypeQuiz:      interpretQuizContent,
	TypeForm:      interpretFormContent,
	TypePickOne:   interpretPickOneContent,
	TypeChecklist: interpretChecklistContent,
}

// ValidateContent checks a candidate content document against the shape
// mandated by the task type and produces the canonical decomposition.
// Validation is deliberately permissive: partial content renders as
// placeholders downstream. Only a structurally absent document, or an absent
// key the type cannot function without, is rejected. Pure function of its
// inputs; no side effects.
func ValidateContent(t TaskType, raw []byte) (CanonicalContent, error) {
	if !t.Valid() {
		return CanonicalContent{}, fmt.Errorf("%w: %q", ErrUnknownTaskType, t)
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return CanonicalContent{}, fmt.Errorf("%w: %s submissions require a content document", ErrMissingContent, t)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return CanonicalContent{}, fmt.Errorf("%w: content is not a JSON object", ErrMissingContent)
	}

	return contentInterpreters[t](doc)
}

func interpretTextContent(doc map[string]json.RawMessage) (CanonicalContent, error) {
	return CanonicalContent{
		Type: TypeText,
		Text: stringField(doc, "text"),
	}, nil
}

func interpretImageContent(doc map[string]json.RawMessage) (CanonicalContent, error) {
	return CanonicalContent{
		Type:        TypeImage,
		ImageCount:  intField(doc, "imageCount"),
		Description: stringField(doc, "description"),
	}, nil
}

func interpretVideoContent(doc map[string]json.RawMessage) (CanonicalContent, error) {
	return CanonicalContent{
		Type:     TypeVideo,
		VideoURL: stringField(doc, "videoUrl"),
		Platform: stringField(doc, "platform"),
	}, nil
}

func interpretQuizContent(doc map[string]json.RawMessage) (CanonicalContent, error) {
	pairs, err := pairsFromMapping(doc, "answers")
	if err != nil {
		return CanonicalContent{}, err
	}
	return CanonicalContent{Type: TypeQuiz, Pairs: pairs}, nil
}

func interpretFormContent(doc map[string]json.RawMessage) (CanonicalContent, error) {
	pairs, err := pairsFromMapping(doc, "responses")
	if err != nil {
		return CanonicalContent{}, err
	}
	return CanonicalContent{Type: TypeForm, Pairs: pairs}, nil
}

func interpretPickOneContent(doc map[string]json.RawMessage) (CanonicalContent, error) {
	// A missing selectedOption key is structurally different from an empty
	// selection: the first is a malformed submission, the second a teen who
	// has not picked yet.
	selected, ok := doc["selectedOption"]
	if !ok {
		return CanonicalContent{}, fmt.Errorf("%w: selectedOption key absent", ErrMissingContent)
	}

	return CanonicalContent{
		Type:           TypePickOne,
		SelectedOption: rawToString(selected),
		Explanation:    stringField(doc, "explanation"),
	}, nil
}

func interpretChecklistContent(doc map[string]json.RawMessage) (CanonicalContent, error) {
	var checked []string
	if raw, ok := doc["checkedItems"]; ok {
		if err := json.Unmarshal(raw, &checked); err != nil {
			return CanonicalContent{}, fmt.Errorf("%w: checkedItems is not a list", ErrMissingContent)
		}
	}

	return CanonicalContent{Type: TypeChecklist, CheckedItems: checked}, nil
}

// pairsFromMapping flattens a {key: value} document field into ordered
// label/value pairs. Keys are sorted so the decomposition is deterministic
// regardless of map iteration order.
func pairsFromMapping(doc map[string]json.RawMessage, field string) ([]Pair, error) {
	raw, ok := doc[field]
	if !ok {
		return nil, nil
	}

	var mapping map[string]json.RawMessage
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return nil, fmt.Errorf("%w: %s is not a mapping", ErrMissingContent, field)
	}

	labels := make([]string, 0, len(mapping))
	for label := range mapping {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	pairs := make([]Pair, 0, len(labels))
	for _, label := range labels {
		pairs = append(pairs, Pair{Label: label, Value: rawToString(mapping[label])})
	}

	return pairs, nil
}

func stringField(doc map[string]json.RawMessage, key string) string {
	raw, ok := doc[key]
	if !ok {
		return ""
	}
	return rawToString(raw)
}

func intField(doc map[string]json.RawMessage, key string) int {
	raw, ok := doc[key]
	if !ok {
		return 0
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	if parsed, err := strconv.Atoi(strings.Trim(string(raw), `"`)); err == nil {
		return parsed
	}
	return 0
}

// rawToString renders a scalar-or-structured JSON value as display text.
func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, rawToString(item))
		}
		return strings.Join(parts, ", ")
	}

	return strings.TrimSpace(string(raw))
}
