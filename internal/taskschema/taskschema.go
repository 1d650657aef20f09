// Package taskschema defines the polymorphic content model shared by tasks
// and submissions. A task declares one of seven types; the type alone decides
// the legal shape of the task's options document and of any submission
// content recorded against it. Both sides dispatch through lookup tables
// keyed by the type so adding a type is a localized change.
package taskschema

import "errors"

// TaskType tags a task with its content discipline.
type TaskType string

const (
	TypeText      TaskType = "TEXT"
	TypeImage     TaskType = "IMAGE"
	TypeVideo     TaskType = "VIDEO"
	TypeQuiz      TaskType = "QUIZ"
	TypeForm      TaskType = "FORM"
	TypePickOne   TaskType = "PICK_ONE"
	TypeChecklist TaskType = "CHECKLIST"
)

// ErrUnknownTaskType indicates a type outside the seven-member enumeration.
var ErrUnknownTaskType = errors.New("unknown task type")

// ErrSchemaMismatch indicates options that do not fit the shape mandated by
// the declared task type, including empty required fields after normalization.
var ErrSchemaMismatch = errors.New("options do not match task type schema")

// ErrMissingContent indicates submission content that is structurally absent
// for a task type that requires it. A present-but-empty answer is not missing.
var ErrMissingContent = errors.New("submission content missing")

// All enumerates the legal task types in declaration order.
func All() []TaskType {
	return []TaskType{TypeText, TypeImage, TypeVideo, TypeQuiz, TypeForm, TypePickOne, TypeChecklist}
}

// Valid reports whether t is one of the seven legal types.
func (t TaskType) Valid() bool {
	switch t {
	case TypeText, TypeImage, TypeVideo, TypeQuiz, TypeForm, TypePickOne, TypeChecklist:
		return true
	}
	return false
}

// HasOptions reports whether tasks of this type carry an options document.
// TEXT, IMAGE and VIDEO tasks are content-free on the task side: the
// submission alone carries the payload.
func (t TaskType) HasOptions() bool {
	switch t {
	case TypeQuiz, TypeForm, TypePickOne, TypeChecklist:
		return true
	}
	return false
}
