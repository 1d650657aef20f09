package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/brightpath-mentorship/console-api/internal/config"
	"github.com/brightpath-mentorship/console-api/internal/dto"
	"github.com/brightpath-mentorship/console-api/internal/handler"
	"github.com/brightpath-mentorship/console-api/internal/middleware"
	"github.com/brightpath-mentorship/console-api/internal/models"
	"github.com/brightpath-mentorship/console-api/internal/repository"
	"github.com/brightpath-mentorship/console-api/internal/router"
	"github.com/brightpath-mentorship/console-api/internal/service"
	"github.com/brightpath-mentorship/console-api/internal/taskschema"
)

func setupApp(t *testing.T, role string) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Teen{},
		&models.Challenge{},
		&models.Task{},
		&models.Submission{},
		&models.Badge{},
		&models.TeenBadge{},
		&models.RaffleDraw{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	challengeRepo := repository.NewChallengeRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	raffleRepo := repository.NewRaffleRepository(db)

	challengeService := service.NewChallengeService(challengeRepo, validate, logger)
	taskService := service.NewTaskService(taskRepo, challengeRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, taskRepo, validate, logger)
	reviewService := service.NewReviewService(submissionRepo, validate, nil, nil, logger)
	analyticsService := service.NewAnalyticsService(analyticsRepo, nil, 0, logger)
	badgeService := service.NewBadgeService(badgeRepo, challengeRepo, validate, logger)
	raffleService := service.NewRaffleService(raffleRepo, validate, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Console Test"}, router.Dependencies{
		ChallengeHandler:  handler.NewChallengeHandler(challengeService, taskService, badgeService, logger),
		TaskHandler:       handler.NewTaskHandler(taskService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, reviewService, logger),
		AnalyticsHandler:  handler.NewAnalyticsHandler(analyticsService, logger),
		BadgeHandler:      handler.NewBadgeHandler(badgeService, logger),
		RaffleHandler:     handler.NewRaffleHandler(raffleService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user_id", uint(1))
			c.Locals("user_role", role)
			return c.Next()
		},
		StaffGuard: middleware.RequireStaff(),
	})

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestChallengeLifecycle(t *testing.T) {
	app, _ := setupApp(t, "staff")

	resp := doJSON(t, app, "POST", "/api/v1/challenges", map[string]interface{}{
		"year":  2026,
		"month": 3,
		"title": "March Challenge",
		"theme": "Perseverance",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Success bool                  `json:"success"`
		Data    dto.ChallengeResponse `json:"data"`
	}
	decodeResponse(t, resp, &created)
	require.True(t, created.Success)
	require.NotZero(t, created.Data.ID)
	require.Equal(t, "draft", created.Data.DisplayStatus)

	// Same month again conflicts.
	resp = doJSON(t, app, "POST", "/api/v1/challenges", map[string]interface{}{
		"year":  2026,
		"month": 3,
		"title": "March Again",
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Publishing without a badge is refused.
	id := strconv.FormatUint(uint64(created.Data.ID), 10)
	resp = doJSON(t, app, "POST", "/api/v1/challenges/"+id+"/publish", nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/v1/challenges/"+id+"/badge", map[string]interface{}{
		"name":  "March Star",
		"price": 15,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// One badge per challenge.
	resp = doJSON(t, app, "POST", "/api/v1/challenges/"+id+"/badge", map[string]interface{}{
		"name":  "Second Badge",
		"price": 5,
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/v1/challenges/"+id+"/publish", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var published struct {
		Data dto.ChallengeResponse `json:"data"`
	}
	decodeResponse(t, resp, &published)
	require.True(t, published.Data.IsPublished)
	require.NotNil(t, published.Data.Badge)
	require.Equal(t, "March Star", published.Data.Badge.Name)
}

func TestTaskAuthoringSubmissionAndReview(t *testing.T) {
	app, db := setupApp(t, "staff")

	teen := models.Teen{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, db.Create(&teen).Error)

	challenge := models.Challenge{Year: 2026, Month: 4, Title: "April Challenge"}
	require.NoError(t, db.Create(&challenge).Error)

	resp := doJSON(t, app, "POST", "/api/v1/tasks", map[string]interface{}{
		"challenge_id": challenge.ID,
		"title":        "Daily habits",
		"task_type":    "CHECKLIST",
		"is_required":  true,
		"options":      map[string]interface{}{"items": []string{"Pray", "Read"}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var taskResp struct {
		Data dto.TaskResponse `json:"data"`
	}
	decodeResponse(t, resp, &taskResp)

	var opts taskschema.ChecklistOptions
	require.NoError(t, json.Unmarshal(taskResp.Data.Options, &opts))
	require.Len(t, opts.Items, 2)
	require.NotEmpty(t, opts.Items[0].ID)

	// Mismatched options document is rejected.
	resp = doJSON(t, app, "POST", "/api/v1/tasks", map[string]interface{}{
		"challenge_id": challenge.ID,
		"title":        "Broken task",
		"task_type":    "TEXT",
		"options":      map[string]interface{}{"items": []string{"x"}},
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/v1/submissions", map[string]interface{}{
		"task_id": taskResp.Data.ID,
		"teen_id": teen.ID,
		"content": map[string]interface{}{"checkedItems": []string{opts.Items[0].ID, opts.Items[1].ID}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var subResp struct {
		Data dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, resp, &subResp)
	require.Equal(t, models.SubmissionStatusPending, subResp.Data.Status)

	// Content missing entirely is rejected before anything persists.
	resp = doJSON(t, app, "POST", "/api/v1/submissions", map[string]interface{}{
		"task_id": taskResp.Data.ID,
		"teen_id": teen.ID,
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	subID := strconv.FormatUint(uint64(subResp.Data.ID), 10)
	resp = doJSON(t, app, "PATCH", "/api/v1/submissions/"+subID+"/review", map[string]interface{}{
		"status":      "APPROVED",
		"score":       90,
		"review_note": "Great consistency",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reviewed struct {
		Data dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, resp, &reviewed)
	require.Equal(t, models.SubmissionStatusApproved, reviewed.Data.Status)
	require.Equal(t, 90, *reviewed.Data.Score)
	require.Equal(t, "Great consistency", reviewed.Data.ReviewNote)
	require.NotNil(t, reviewed.Data.ReviewedBy)
	require.Equal(t, uint(1), *reviewed.Data.ReviewedBy)
	require.NotNil(t, reviewed.Data.ReviewedAt)

	// Score above the task maximum is refused.
	resp = doJSON(t, app, "PATCH", "/api/v1/submissions/"+subID+"/review", map[string]interface{}{
		"status": "APPROVED",
		"score":  101,
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	challengeID := strconv.FormatUint(uint64(challenge.ID), 10)
	resp = doJSON(t, app, "GET", "/api/v1/challenges/"+challengeID+"/stats", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stats struct {
		Data dto.ChallengeStatsResponse `json:"data"`
	}
	decodeResponse(t, resp, &stats)
	require.Equal(t, 1, stats.Data.TotalParticipants)
	require.Equal(t, 1, stats.Data.CompletedCount)
	require.Equal(t, 100.0, stats.Data.AverageProgress)
	require.Equal(t, 1, stats.Data.ProgressDistribution["100"])
}

func TestStaffGuardBlocksTeens(t *testing.T) {
	app, _ := setupApp(t, "teen")

	resp := doJSON(t, app, "POST", "/api/v1/challenges", map[string]interface{}{
		"year":  2026,
		"month": 5,
		"title": "May Challenge",
	})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Reads stay open to authenticated teens.
	resp = doJSON(t, app, "GET", "/api/v1/challenges?year=2026", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRaffleEligibilityAndDraw(t *testing.T) {
	app, db := setupApp(t, "staff")

	holder := models.Teen{Name: "Collector", Email: "collector@example.com"}
	partial := models.Teen{Name: "Partial", Email: "partial@example.com"}
	require.NoError(t, db.Create(&holder).Error)
	require.NoError(t, db.Create(&partial).Error)

	for month := 1; month <= 12; month++ {
		challenge := models.Challenge{Year: 2026, Month: month, Title: "Challenge", IsPublished: true, IsActive: true}
		require.NoError(t, db.Create(&challenge).Error)

		badge := models.Badge{ChallengeID: challenge.ID, Name: "Badge", IsActive: true}
		require.NoError(t, db.Create(&badge).Error)

		require.NoError(t, db.Create(&models.TeenBadge{TeenID: holder.ID, BadgeID: badge.ID}).Error)
		if month <= 11 {
			require.NoError(t, db.Create(&models.TeenBadge{TeenID: partial.ID, BadgeID: badge.ID}).Error)
		}
	}

	resp := doJSON(t, app, "GET", "/api/v1/raffle/2026/eligibility", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var eligibility struct {
		Data dto.RaffleEligibilityResponse `json:"data"`
	}
	decodeResponse(t, resp, &eligibility)
	require.Equal(t, 1, eligibility.Data.EligibleCount)
	require.Equal(t, holder.ID, eligibility.Data.EligibleTeens[0].ID)
	require.Nil(t, eligibility.Data.RaffleDraw)

	resp = doJSON(t, app, "POST", "/api/v1/raffle/2026/draw", map[string]interface{}{
		"prize": "Summer camp ticket",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var draw struct {
		Data dto.RaffleDrawResponse `json:"data"`
	}
	decodeResponse(t, resp, &draw)
	require.Equal(t, holder.ID, draw.Data.WinnerTeenID)
	require.Equal(t, 2026, draw.Data.Year)

	// A year gets exactly one draw.
	resp = doJSON(t, app, "POST", "/api/v1/raffle/2026/draw", map[string]interface{}{
		"prize": "Second prize",
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/v1/raffle/2026/eligibility", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeResponse(t, resp, &eligibility)
	require.NotNil(t, eligibility.Data.RaffleDraw)
	require.Equal(t, holder.ID, eligibility.Data.RaffleDraw.WinnerTeenID)
}
