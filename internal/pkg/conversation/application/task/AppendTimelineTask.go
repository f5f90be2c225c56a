package task

import (
	"context"
	"encoding/json"
	"time"

	qport "zapcrm/internal/infrastructure/queue/port"
	conversation "zapcrm/internal/pkg/conversation/application/domain"
	"zapcrm/internal/pkg/conversation/application/usecase"
	repoAdapter "zapcrm/internal/pkg/conversation/persistence/repository/adapter"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AppendTimelineTaskType is the queue task name for audit-trail message appends.
const AppendTimelineTaskType = "conversation:append_timeline"

// TimelineQueue is the logical queue audit appends are routed to, so a burst of
// webhook traffic cannot starve the default queue.
const TimelineQueue = "timeline"

// AppendTimelineTaskPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid tight coupling with JSON tags.
type AppendTimelineTaskPayload struct {
	CompanyID int64  `json:"companyId"`
	Phone     string `json:"phone"`
	Direction string `json:"direction"`
	Actor     string `json:"actor"`
	Body      string `json:"body"`
}

// NewAppendTimelineTask builds the queue task for an audit append.
func NewAppendTimelineTask(p AppendTimelineTaskPayload) (qport.Task, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return qport.Task{}, err
	}
	return qport.Task{Type: AppendTimelineTaskType, Payload: raw}, nil
}

// RegisterAppendTimelineTask binds the task handler to the provided server.
// The handler records the message through IngestMessageUseCase, which also
// refreshes the conversation row it belongs to.
func RegisterAppendTimelineTask(srv qport.Server, pool *pgxpool.Pool, fallbackCompanyID int64, pub usecase.Publisher) {
	srv.Register(AppendTimelineTaskType, func(ctx context.Context, t qport.Task) error {
		var p AppendTimelineTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}

		repo := repoAdapter.NewPgConversationRepository(pool, fallbackCompanyID)
		uc := usecase.NewIngestMessageUseCase(repo, pub)

		in := usecase.IngestMessageInput{
			CompanyID: p.CompanyID,
			Phone:     p.Phone,
			Direction: conversation.Direction(p.Direction),
			Actor:     conversation.Actor(p.Actor),
			Body:      p.Body,
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		_, err := uc.Execute(ctx, in)
		return err
	})
}
