package taskschema

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuizQuestion is a single question inside a QUIZ task's options.
type QuizQuestion struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// QuizOptions is the options document for QUIZ tasks.
type QuizOptions struct {
	Questions []QuizQuestion `json:"questions"`
}

// FormField is a single field inside a FORM task's options.
type FormField struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// FormOptions is the options document for FORM tasks.
type FormOptions struct {
	Fields []FormField `json:"fields"`
}

// PickOption is a single selectable option inside a PICK_ONE task's options.
type PickOption struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PickOneOptions is the options document for PICK_ONE tasks.
type PickOneOptions struct {
	Options      []PickOption `json:"options"`
	Instructions string       `json:"instructions,omitempty"`
}

// ChecklistItem is a single item inside a CHECKLIST task's options.
type ChecklistItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ChecklistOptions is the options document for CHECKLIST tasks.
type ChecklistOptions struct {
	Items       []ChecklistItem `json:"items"`
	MinRequired *int            `json:"minRequired,omitempty"`
}

// Editors may supply nested items as bare strings; they are normalized into
// the canonical object shape before identifier assignment.

// UnmarshalJSON accepts either a bare string or the canonical object.
func (q *QuizQuestion) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*q = QuizQuestion{Text: text}
		return nil
	}
	type plain QuizQuestion
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*q = QuizQuestion(p)
	return nil
}

// UnmarshalJSON accepts either a bare string or the canonical object.
func (f *FormField) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		*f = FormField{Label: label}
		return nil
	}
	type plain FormField
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = FormField(p)
	return nil
}

// UnmarshalJSON accepts either a bare string or the canonical object.
func (o *PickOption) UnmarshalJSON(data []byte) error {
	var title string
	if err := json.Unmarshal(data, &title); err == nil {
		*o = PickOption{Title: title}
		return nil
	}
	type plain PickOption
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = PickOption(p)
	return nil
}

// UnmarshalJSON accepts either a bare string or the canonical object.
func (i *ChecklistItem) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*i = ChecklistItem{Text: text}
		return nil
	}
	type plain ChecklistItem
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = ChecklistItem(p)
	return nil
}

// nowFunc is swapped in tests to pin identifier timestamps.
var nowFunc = time.Now

var allowedOptionKeys = map[TaskType]map[string]bool{
	TypeQuiz:      {"questions": true},
	TypeForm:      {"fields": true},
	TypePickOne:   {"options": true, "instructions": true},
	TypeChecklist: {"items": true, "minRequired": true},
}

var optionNormalizers = map[TaskType]func(raw []byte, now time.Time) (interface{}, error){
	TypeQuiz:      normalizeQuizOptions,
	TypeForm:      normalizeFormOptions,
	TypePickOne:   normalizePickOneOptions,
	TypeChecklist: normalizeChecklistOptions,
}

// NormalizeOptions validates a caller-supplied options document against the
// shape mandated by the task type and returns the canonical,
// identifier-complete document. Nested items missing an id receive one;
// items that already carry an id are left untouched, so calling this twice
// is idempotent. It never persists anything.
func NormalizeOptions(t TaskType, raw []byte) (datatypes.JSON, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTaskType, t)
	}

	trimmed := strings.TrimSpace(string(raw))
	if !t.HasOptions() {
		if trimmed == "" || trimmed == "null" || trimmed == "{}" {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s tasks do not accept options", ErrSchemaMismatch, t)
	}

	if trimmed == "" || trimmed == "null" {
		trimmed = "{}"
	}

	var generic map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &generic); err != nil {
		return nil, fmt.Errorf("%w: options must be a JSON object", ErrSchemaMismatch)
	}
	for key := range generic {
		if !allowedOptionKeys[t][key] {
			return nil, fmt.Errorf("%w: field %q is not valid for %s tasks", ErrSchemaMismatch, key, t)
		}
	}

	normalized, err := optionNormalizers[t]([]byte(trimmed), nowFunc())
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("encode normalized options: %w", err)
	}

	return datatypes.JSON(encoded), nil
}

func normalizeQuizOptions(raw []byte, now time.Time) (interface{}, error) {
	var opts QuizOptions
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	slots := make([]*string, len(opts.Questions))
	for i := range opts.Questions {
		question := &opts.Questions[i]
		question.Text = strings.TrimSpace(question.Text)
		if question.Text == "" {
			return nil, fmt.Errorf("%w: quiz question %d has empty text", ErrSchemaMismatch, i+1)
		}

		choices := make([]string, 0, len(question.Options))
		for _, choice := range question.Options {
			if choice = strings.TrimSpace(choice); choice != "" {
				choices = append(choices, choice)
			}
		}
		question.Options = choices
		slots[i] = &question.ID
	}

	assignStableIDs(slots, now)
	return opts, nil
}

func normalizeFormOptions(raw []byte, now time.Time) (interface{}, error) {
	var opts FormOptions
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	slots := make([]*string, len(opts.Fields))
	for i := range opts.Fields {
		field := &opts.Fields[i]
		field.Label = strings.TrimSpace(field.Label)
		if field.Label == "" {
			return nil, fmt.Errorf("%w: form field %d has empty label", ErrSchemaMismatch, i+1)
		}
		if field.Type = strings.TrimSpace(field.Type); field.Type == "" {
			field.Type = "text"
		}
		slots[i] = &field.ID
	}

	assignStableIDs(slots, now)
	return opts, nil
}

func normalizePickOneOptions(raw []byte, now time.Time) (interface{}, error) {
	var opts PickOneOptions
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	opts.Instructions = strings.TrimSpace(opts.Instructions)
	slots := make([]*string, len(opts.Options))
	for i := range opts.Options {
		option := &opts.Options[i]
		option.Title = strings.TrimSpace(option.Title)
		if option.Title == "" {
			return nil, fmt.Errorf("%w: option %d has empty title", ErrSchemaMismatch, i+1)
		}
		option.Description = strings.TrimSpace(option.Description)
		slots[i] = &option.ID
	}

	assignStableIDs(slots, now)
	return opts, nil
}

func normalizeChecklistOptions(raw []byte, now time.Time) (interface{}, error) {
	var opts ChecklistOptions
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	slots := make([]*string, len(opts.Items))
	for i := range opts.Items {
		item := &opts.Items[i]
		item.Text = strings.TrimSpace(item.Text)
		if item.Text == "" {
			return nil, fmt.Errorf("%w: checklist item %d has empty text", ErrSchemaMismatch, i+1)
		}
		slots[i] = &item.ID
	}

	if opts.MinRequired != nil {
		if *opts.MinRequired < 0 || *opts.MinRequired > len(opts.Items) {
			return nil, fmt.Errorf("%w: minRequired %d outside 0..%d", ErrSchemaMismatch, *opts.MinRequired, len(opts.Items))
		}
	}

	assignStableIDs(slots, now)
	return opts, nil
}

// assignStableIDs fills only the empty identifier slots of a collection.
// Identifiers are assigned once, at first sight of the item, and never
// regenerated afterwards: submissions reference them, so a silently
// regenerated id would orphan every recorded answer.
func assignStableIDs(slots []*string, now time.Time) {
	seen := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		if *slot != "" {
			seen[*slot] = struct{}{}
		}
	}

	for index, slot := range slots {
		if *slot != "" {
			continue
		}
		id := newItemID(index, now)
		for {
			if _, dup := seen[id]; !dup {
				break
			}
			id = newItemID(index, now)
		}
		seen[id] = struct{}{}
		*slot = id
	}
}

func newItemID(index int, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%d-%s", index, now.UnixMilli(), suffix)
}
