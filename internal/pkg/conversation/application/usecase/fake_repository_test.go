package usecase

import (
	"context"
	"fmt"
	"time"

	conversation "zapcrm/internal/pkg/conversation/application/domain"
	repository "zapcrm/internal/pkg/conversation/persistence/repository/port"
)

// fakeConversationRepo is an in-memory stand-in honoring the repository
// contract, including the store-clock semantics: every timestamp it writes or
// returns comes from its own "now" field.
type fakeConversationRepo struct {
	now   time.Time
	seq   int64
	convs map[string]*conversation.Conversation
	msgs  []conversation.Message
	err   error
}

func newFakeRepo(now time.Time) *fakeConversationRepo {
	return &fakeConversationRepo{now: now, convs: make(map[string]*conversation.Conversation)}
}

func key(companyID int64, phone string) string {
	return fmt.Sprintf("%d:%s", companyID, phone)
}

func (f *fakeConversationRepo) put(c *conversation.Conversation) *conversation.Conversation {
	if c.ID == 0 {
		f.seq++
		c.ID = f.seq
	}
	if c.Status == "" {
		c.Status = conversation.StatusOpen
	}
	f.convs[key(c.CompanyID, c.Phone)] = c
	return c
}

func (f *fakeConversationRepo) GetByID(ctx context.Context, id int64) (*conversation.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.convs {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeConversationRepo) GetByCompanyPhoneWithNow(ctx context.Context, companyID int64, phone string) (*conversation.Conversation, time.Time, error) {
	if f.err != nil {
		return nil, time.Time{}, f.err
	}
	c, ok := f.convs[key(companyID, phone)]
	if !ok {
		return nil, time.Time{}, repository.ErrNotFound
	}
	return c, f.now, nil
}

func (f *fakeConversationRepo) UpsertOnInbound(ctx context.Context, companyID int64, phone string, name *string, body string) (*conversation.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	now := f.now
	if c, ok := f.convs[key(companyID, phone)]; ok {
		if name != nil {
			c.Name = name
		}
		c.LastMessageAt = &now
		c.LastMessageText = &body
		c.UpdatedAt = now
		return c, nil
	}
	return f.put(&conversation.Conversation{
		CompanyID:         companyID,
		Phone:             phone,
		Name:              name,
		AIEnabled:         true,
		AICooldownMinutes: conversation.DefaultCooldownMinutes,
		HumanBlockMinutes: conversation.DefaultHumanBlockMinutes,
		LastMessageAt:     &now,
		LastMessageText:   &body,
		CreatedAt:         now,
		UpdatedAt:         now,
	}), nil
}

func (f *fakeConversationRepo) Lock(ctx context.Context, id int64, minutes int) (*repository.LockResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	deadline := f.now.Add(time.Duration(minutes) * time.Minute)
	now := f.now
	c.AILastReplyAt = &now
	c.AINextAllowedAt = &deadline
	return &repository.LockResult{ConversationID: id, CooldownMinutes: minutes, NextAllowedAt: deadline}, nil
}

func (f *fakeConversationRepo) Suppress(ctx context.Context, companyID int64, phone string, minutes int) (*repository.LockResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.convs[key(companyID, phone)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	deadline := f.now.Add(time.Duration(minutes) * time.Minute)
	c.AINextAllowedAt = &deadline
	return &repository.LockResult{ConversationID: c.ID, CooldownMinutes: minutes, NextAllowedAt: deadline}, nil
}

func (f *fakeConversationRepo) ExtendHumanBlock(ctx context.Context, phone string, name *string, body string) (*conversation.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	var target *conversation.Conversation
	for _, c := range f.convs {
		if c.Phone == phone && (target == nil || c.UpdatedAt.After(target.UpdatedAt)) {
			target = c
		}
	}
	if target == nil {
		target = f.put(&conversation.Conversation{
			CompanyID:         1,
			Phone:             phone,
			Name:              name,
			AIEnabled:         true,
			AICooldownMinutes: conversation.DefaultCooldownMinutes,
			HumanBlockMinutes: conversation.DefaultHumanBlockMinutes,
			CreatedAt:         f.now,
		})
	}

	now := f.now
	target.HumanLastReplyAt = &now
	minutes := target.EffectiveHumanBlockMinutes()
	candidate := now.Add(time.Duration(minutes) * time.Minute)
	if target.AINextAllowedAt == nil || candidate.After(*target.AINextAllowedAt) {
		target.AINextAllowedAt = &candidate
	}
	if name != nil {
		target.Name = name
	}
	target.LastMessageAt = &now
	target.LastMessageText = &body
	target.UpdatedAt = now
	return target, nil
}

func (f *fakeConversationRepo) AppendMessage(ctx context.Context, m conversation.Message) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.msgs = append(f.msgs, m)
	return int64(len(f.msgs)), nil
}

var _ repository.ConversationRepository = (*fakeConversationRepo)(nil)

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	events []Event
}

func (p *capturingPublisher) Publish(e Event) { p.events = append(p.events, e) }
