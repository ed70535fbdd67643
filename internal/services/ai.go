package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/task-marketplace-api/internal/constants"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be drafted from AI output")
)

// TaskDraft is a suggested task the user can review and then post.
type TaskDraft struct {
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	ExpectedHours     int        `json:"expected_hours"`
	ExpectedStartDate *time.Time `json:"expected_start_date"`
}

// TaskDrafter turns free text into task drafts.
type TaskDrafter interface {
	DraftTasks(ctx context.Context, text string) ([]TaskDraft, error)
}

type AIService struct {
	client *openai.Client
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// DraftTasks asks the model to split a job description into tasks a provider
// could bid on.
func (s *AIService) DraftTasks(ctx context.Context, text string) ([]TaskDraft, error) {
	if s == nil || s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}

	currentTime := time.Now().UTC().Format(time.RFC3339)
	prompt := fmt.Sprintf(`You help people post jobs on a services marketplace. Split the text below into concrete tasks that a tradesperson or company could quote for.

Current time: %s

Text:
%s

Return a JSON array in exactly this shape:
[
  {
    "name": "short task name",
    "description": "what needs to be done",
    "expected_hours": 3,
    "expected_start_date": "ISO8601 timestamp, or null when no date is mentioned"
  }
]

Rules:
- Return [] when there is no task in the text
- Convert relative dates such as "tomorrow" or "next week" into timestamps
- expected_hours is a whole number greater than zero
- Return JSON only, without any explanation`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseDrafts(resp.Choices[0].Message.Content)
}

// parseDrafts decodes the model output, keeping at most
// constants.MaxAIGeneratedTasks usable drafts.
func parseDrafts(content string) ([]TaskDraft, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw []TaskDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}
	if len(raw) == 0 {
		return nil, ErrAINoTasksGenerated
	}

	drafts := make([]TaskDraft, 0, len(raw))
	for _, d := range raw {
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" || d.ExpectedHours <= 0 {
			continue
		}
		drafts = append(drafts, d)
		if len(drafts) == constants.MaxAIGeneratedTasks {
			break
		}
	}
	if len(drafts) == 0 {
		return nil, ErrAINoValidTasks
	}
	return drafts, nil
}

// DraftTasks proposes tasks from free text for the calling user to review.
func (s *TaskService) DraftTasks(ctx context.Context, text string) ([]TaskDraft, error) {
	if s.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrDescriptionRequired
	}
	return s.drafter.DraftTasks(ctx, text)
}
