package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-mentorship/console-api/internal/dto"
	"github.com/brightpath-mentorship/console-api/internal/handler"
)

const challengeStatsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["success", "message", "data"],
  "properties": {
    "success": {"type": "boolean"},
    "message": {"type": "string"},
    "data": {
      "type": "object",
      "required": [
        "challenge_id", "year", "month", "title",
        "total_participants", "completed_count",
        "average_progress", "progress_distribution"
      ],
      "properties": {
        "challenge_id": {"type": "integer", "minimum": 1},
        "year": {"type": "integer"},
        "month": {"type": "integer", "minimum": 1, "maximum": 12},
        "title": {"type": "string"},
        "total_participants": {"type": "integer", "minimum": 0},
        "completed_count": {"type": "integer", "minimum": 0},
        "average_progress": {"type": "number", "minimum": 0, "maximum": 100},
        "progress_distribution": {
          "type": "object",
          "required": ["0-25", "25-50", "50-75", "75-99", "100"],
          "additionalProperties": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

const overviewSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["success", "message", "data"],
  "properties": {
    "success": {"type": "boolean"},
    "data": {
      "type": "object",
      "required": ["year", "challenges", "overall_completion", "avg_progress", "generated_at", "cache_hit"],
      "properties": {
        "year": {"type": "integer"},
        "challenges": {"type": "array"},
        "overall_completion": {"type": "number", "minimum": 0, "maximum": 100},
        "avg_progress": {"type": "number", "minimum": 0, "maximum": 100},
        "generated_at": {"type": "string"},
        "cache_hit": {"type": "boolean"}
      }
    }
  }
}`

type stubAnalyticsService struct {
	stats    dto.ChallengeStatsResponse
	overview dto.AnalyticsOverviewResponse
}

func (s stubAnalyticsService) ChallengeStats(context.Context, uint) (dto.ChallengeStatsResponse, error) {
	return s.stats, nil
}

func (s stubAnalyticsService) Overview(context.Context, int, *int) (dto.AnalyticsOverviewResponse, error) {
	return s.overview, nil
}

func compileSchema(t *testing.T, source string) *jsonschema.Schema {
	t.Helper()

	compiler := jsonschema.NewCompiler()
	require.NoError(t, compiler.AddResource("response.schema.json", strings.NewReader(source)))
	schema, err := compiler.Compile("response.schema.json")
	require.NoError(t, err)
	return schema
}

func fixtureStats() dto.ChallengeStatsResponse {
	distribution := dto.EmptyProgressDistribution()
	distribution[dto.BucketHalf] = 2
	distribution[dto.BucketComplete] = 1

	return dto.ChallengeStatsResponse{
		ChallengeID:          7,
		Year:                 2026,
		Month:                6,
		Title:                "June Challenge",
		TotalParticipants:    3,
		CompletedCount:       1,
		AverageProgress:      61.1,
		ProgressDistribution: distribution,
	}
}

func TestChallengeStatsContract(t *testing.T) {
	schema := compileSchema(t, challengeStatsSchema)

	service := stubAnalyticsService{stats: fixtureStats()}
	analytics := handler.NewAnalyticsHandler(service, zerolog.Nop())

	app := fiber.New()
	analytics.RegisterChallengeStats(app.Group("/api/v1/challenges"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/challenges/7/stats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}

func TestAnalyticsOverviewContract(t *testing.T) {
	schema := compileSchema(t, overviewSchema)

	service := stubAnalyticsService{overview: dto.AnalyticsOverviewResponse{
		Year:              2026,
		Challenges:        []dto.ChallengeStatsResponse{fixtureStats()},
		OverallCompletion: 33.3,
		AvgProgress:       61.1,
		GeneratedAt:       time.Now().UTC(),
	}}
	analytics := handler.NewAnalyticsHandler(service, zerolog.Nop())

	app := fiber.New()
	analytics.RegisterOverview(app.Group("/api/v1/analytics"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/overview?year=2026", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
