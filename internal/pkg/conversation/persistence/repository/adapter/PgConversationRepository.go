package adapter

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	conversation "zapcrm/internal/pkg/conversation/application/domain"
	repository "zapcrm/internal/pkg/conversation/persistence/repository/port"
)

const conversationColumns = `id, company_id, phone, name, status,
	ai_enabled, ai_cooldown_minutes, ai_next_allowed_at, ai_last_reply_at,
	human_last_reply_at, human_block_minutes,
	last_message_at, last_message_text, created_at, updated_at`

// PgConversationRepository persists conversations in Postgres. Every "now"
// written or compared comes from the database clock ("now()" inside the
// statement), so gating decisions and deadline writes share one time source.
type PgConversationRepository struct {
	pool *pgxpool.Pool

	// Conversations created from the inbox webhook carry no company id; they
	// land under this fallback tenant.
	fallbackCompanyID int64
}

func NewPgConversationRepository(pool *pgxpool.Pool, fallbackCompanyID int64) *PgConversationRepository {
	if fallbackCompanyID <= 0 {
		fallbackCompanyID = 1
	}
	return &PgConversationRepository{pool: pool, fallbackCompanyID: fallbackCompanyID}
}

var _ repository.ConversationRepository = (*PgConversationRepository)(nil)

func (r *PgConversationRepository) GetByID(ctx context.Context, id int64) (*conversation.Conversation, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id)
	conv, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrap(err, "convRepo.GetByID.Scan")
	}
	return conv, nil
}

func (r *PgConversationRepository) GetByCompanyPhoneWithNow(ctx context.Context, companyID int64, phone string) (*conversation.Conversation, time.Time, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+conversationColumns+`, now() FROM conversations WHERE company_id = $1 AND phone = $2`,
		companyID, phone)

	var (
		conv  conversation.Conversation
		dbNow time.Time
	)
	err := row.Scan(
		&conv.ID, &conv.CompanyID, &conv.Phone, &conv.Name, &conv.Status,
		&conv.AIEnabled, &conv.AICooldownMinutes, &conv.AINextAllowedAt, &conv.AILastReplyAt,
		&conv.HumanLastReplyAt, &conv.HumanBlockMinutes,
		&conv.LastMessageAt, &conv.LastMessageText, &conv.CreatedAt, &conv.UpdatedAt,
		&dbNow,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, time.Time{}, repository.ErrNotFound
		}
		return nil, time.Time{}, errors.Wrap(err, "convRepo.GetByCompanyPhoneWithNow.Scan")
	}
	return &conv, dbNow, nil
}

// UpsertOnInbound is a single INSERT ... ON CONFLICT so two concurrent first
// messages for the same (company, phone) produce exactly one row.
func (r *PgConversationRepository) UpsertOnInbound(ctx context.Context, companyID int64, phone string, name *string, body string) (*conversation.Conversation, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO conversations (company_id, phone, name, status, last_message_at, last_message_text)
		VALUES ($1, $2, $3, $4, now(), $5)
		ON CONFLICT (company_id, phone) DO UPDATE SET
			name = COALESCE(EXCLUDED.name, conversations.name),
			last_message_at = now(),
			last_message_text = EXCLUDED.last_message_text,
			updated_at = now()
		RETURNING `+conversationColumns,
		companyID, phone, name, conversation.StatusOpen, body)

	conv, err := scanConversation(row)
	if err != nil {
		return nil, errors.Wrap(err, "convRepo.UpsertOnInbound.Scan")
	}
	return conv, nil
}

func (r *PgConversationRepository) Lock(ctx context.Context, id int64, minutes int) (*repository.LockResult, error) {
	res := repository.LockResult{ConversationID: id, CooldownMinutes: minutes}
	err := r.pool.QueryRow(ctx, `
		UPDATE conversations SET
			ai_last_reply_at = now(),
			ai_next_allowed_at = now() + make_interval(mins => $2),
			updated_at = now()
		WHERE id = $1
		RETURNING ai_next_allowed_at`,
		id, minutes).Scan(&res.NextAllowedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrap(err, "convRepo.Lock.Exec")
	}
	return &res, nil
}

func (r *PgConversationRepository) Suppress(ctx context.Context, companyID int64, phone string, minutes int) (*repository.LockResult, error) {
	res := repository.LockResult{CooldownMinutes: minutes}
	err := r.pool.QueryRow(ctx, `
		UPDATE conversations SET
			ai_next_allowed_at = now() + make_interval(mins => $3),
			updated_at = now()
		WHERE company_id = $1 AND phone = $2
		RETURNING id, ai_next_allowed_at`,
		companyID, phone, minutes).Scan(&res.ConversationID, &res.NextAllowedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrap(err, "convRepo.Suppress.Exec")
	}
	return &res, nil
}

// ExtendHumanBlock advances the suppression deadline monotonically. The update
// path is one atomic statement: GREATEST keeps the deadline from ever moving
// backward when two human replies race. Creation on first contact goes through
// the same ON CONFLICT upsert as the ingest path, then retries the update.
func (r *PgConversationRepository) ExtendHumanBlock(ctx context.Context, phone string, name *string, body string) (*conversation.Conversation, error) {
	conv, err := r.extendExisting(ctx, phone, name, body)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// First contact seen from the inbox side. The upsert tolerates a racing
	// ingest insert for the same pair.
	_, err = r.pool.Exec(ctx, `
		INSERT INTO conversations (company_id, phone, name, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, phone) DO NOTHING`,
		r.fallbackCompanyID, phone, name, conversation.StatusOpen)
	if err != nil {
		return nil, errors.Wrap(err, "convRepo.ExtendHumanBlock.Insert")
	}

	return r.extendExisting(ctx, phone, name, body)
}

func (r *PgConversationRepository) extendExisting(ctx context.Context, phone string, name *string, body string) (*conversation.Conversation, error) {
	// The inbox platform carries no company id, so the lookup is by phone
	// alone; when the same number exists under several companies the most
	// recently active row wins.
	row := r.pool.QueryRow(ctx, `
		UPDATE conversations SET
			human_last_reply_at = now(),
			ai_next_allowed_at = GREATEST(
				COALESCE(ai_next_allowed_at, 'epoch'::timestamptz),
				now() + make_interval(mins =>
					CASE
						WHEN human_block_minutes <= 0 THEN 0
						WHEN human_block_minutes < $2 THEN $2
						ELSE human_block_minutes
					END)),
			name = COALESCE($3, name),
			last_message_at = now(),
			last_message_text = $4,
			updated_at = now()
		WHERE id = (
			SELECT id FROM conversations WHERE phone = $1
			ORDER BY updated_at DESC LIMIT 1
		)
		RETURNING `+conversationColumns,
		phone, conversation.MinCooldownMinutes, name, body)

	conv, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrap(err, "convRepo.ExtendHumanBlock.Update")
	}
	return conv, nil
}

func (r *PgConversationRepository) AppendMessage(ctx context.Context, m conversation.Message) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO conversation_messages (conversation_id, direction, actor, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		m.ConversationID, m.Direction, m.Actor, m.Body).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "convRepo.AppendMessage.Insert")
	}
	return id, nil
}

func scanConversation(row pgx.Row) (*conversation.Conversation, error) {
	var conv conversation.Conversation
	err := row.Scan(
		&conv.ID, &conv.CompanyID, &conv.Phone, &conv.Name, &conv.Status,
		&conv.AIEnabled, &conv.AICooldownMinutes, &conv.AINextAllowedAt, &conv.AILastReplyAt,
		&conv.HumanLastReplyAt, &conv.HumanBlockMinutes,
		&conv.LastMessageAt, &conv.LastMessageText, &conv.CreatedAt, &conv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}
