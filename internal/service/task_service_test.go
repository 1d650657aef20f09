package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brightpath-mentorship/console-api/internal/dto"
	"github.com/brightpath-mentorship/console-api/internal/models"
	"github.com/brightpath-mentorship/console-api/internal/taskschema"
)

type fakeTaskRepo struct {
	tasks  map[uint]models.Task
	nextID uint
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[uint]models.Task{}, nextID: 1}
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *models.Task) error {
	task.ID = f.nextID
	f.nextID++
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id uint) (models.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return models.Task{}, gorm.ErrRecordNotFound
	}
	return task, nil
}

func (f *fakeTaskRepo) ListByChallenge(ctx context.Context, challengeID uint) ([]models.Task, error) {
	var tasks []models.Task
	for _, task := range f.tasks {
		if task.ChallengeID == challengeID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *models.Task) error {
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id uint) error {
	delete(f.tasks, id)
	return nil
}

func taskTestChallenges() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: map[uint]models.Challenge{
		1: {ID: 1, Year: 2026, Month: 1, Title: "January"},
	}}
}

func TestTaskServiceCreateChecklistFromBareStrings(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, taskTestChallenges(), newTestValidator(), testLogger())

	created, err := svc.Create(context.Background(), dto.TaskCreateRequest{
		ChallengeID: 1,
		Title:       "Daily habits",
		TaskType:    "CHECKLIST",
		Options:     json.RawMessage(`{"items": ["Pray", "Read"]}`),
		IsRequired:  true,
	})
	require.NoError(t, err)
	require.Equal(t, "CHECKLIST", created.TaskType)
	require.Equal(t, 100, created.MaxScore)

	var opts taskschema.ChecklistOptions
	require.NoError(t, json.Unmarshal(created.Options, &opts))
	require.Len(t, opts.Items, 2)
	require.Equal(t, "Pray", opts.Items[0].Text)
	require.Equal(t, "Read", opts.Items[1].Text)
	require.NotEmpty(t, opts.Items[0].ID)
	require.NotEqual(t, opts.Items[0].ID, opts.Items[1].ID)
}

func TestTaskServiceUpdateKeepsExistingItemIDs(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, taskTestChallenges(), newTestValidator(), testLogger())

	created, err := svc.Create(context.Background(), dto.TaskCreateRequest{
		ChallengeID: 1,
		Title:       "Monthly quiz",
		TaskType:    "QUIZ",
		Options:     json.RawMessage(`{"questions": ["Who led the exodus?"]}`),
	})
	require.NoError(t, err)

	var before taskschema.QuizOptions
	require.NoError(t, json.Unmarshal(created.Options, &before))
	originalID := before.Questions[0].ID
	require.NotEmpty(t, originalID)

	// Re-submit the normalized document with one extra question appended.
	before.Questions = append(before.Questions, taskschema.QuizQuestion{Text: "What is grace?"})
	edited, err := json.Marshal(taskschema.QuizOptions{Questions: before.Questions})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, dto.TaskUpdateRequest{Options: edited})
	require.NoError(t, err)

	var after taskschema.QuizOptions
	require.NoError(t, json.Unmarshal(updated.Options, &after))
	require.Len(t, after.Questions, 2)
	require.Equal(t, originalID, after.Questions[0].ID)
	require.NotEmpty(t, after.Questions[1].ID)
	require.NotEqual(t, originalID, after.Questions[1].ID)
}

func TestTaskServiceRejectsMismatchedOptions(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, taskTestChallenges(), newTestValidator(), testLogger())

	_, err := svc.Create(context.Background(), dto.TaskCreateRequest{
		ChallengeID: 1,
		Title:       "Reflection",
		TaskType:    "TEXT",
		Options:     json.RawMessage(`{"questions": []}`),
	})
	require.ErrorIs(t, err, taskschema.ErrSchemaMismatch)
	require.Empty(t, repo.tasks)
}

func TestTaskServiceCreateUnknownChallenge(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, taskTestChallenges(), newTestValidator(), testLogger())

	_, err := svc.Create(context.Background(), dto.TaskCreateRequest{
		ChallengeID: 9,
		Title:       "Orphan task",
		TaskType:    "TEXT",
	})
	require.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestTaskServiceSanitizesDescription(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, taskTestChallenges(), newTestValidator(), testLogger())

	created, err := svc.Create(context.Background(), dto.TaskCreateRequest{
		ChallengeID: 1,
		Title:       "Share a testimony",
		Description: `<img src=x onerror=alert(1)>Write freely`,
		TaskType:    "TEXT",
	})
	require.NoError(t, err)
	require.Equal(t, "Write freely", created.Description)
}
