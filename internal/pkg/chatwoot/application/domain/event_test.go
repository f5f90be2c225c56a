package chatwoot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, raw string) Payload {
	t.Helper()
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestClassifyHumanReply(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		ok       bool
		skip     string
	}{
		{
			name: "agent outgoing message",
			raw:  `{"event":"message_created","message_type":"outgoing","private":false,"sender":{"type":"user","name":"Ana"},"content":"oi"}`,
			ok:   true,
		},
		{
			name: "numeric message_type",
			raw:  `{"event":"message_created","message_type":1,"content":"tudo bem?"}`,
			ok:   true,
		},
		{
			name: "conversation status change",
			raw:  `{"event":"conversation_status_changed","message_type":"outgoing","content":"x"}`,
			skip: SkipWrongEvent,
		},
		{
			name: "incoming message",
			raw:  `{"event":"message_created","message_type":"incoming","content":"oi"}`,
			skip: SkipNotOutgoing,
		},
		{
			name: "numeric incoming",
			raw:  `{"event":"message_created","message_type":0,"content":"oi"}`,
			skip: SkipNotOutgoing,
		},
		{
			name: "private note",
			raw:  `{"event":"message_created","message_type":"outgoing","private":true,"content":"nota interna"}`,
			skip: SkipPrivateNote,
		},
		{
			name: "nested private flag",
			raw:  `{"event":"message_created","message_type":"outgoing","message":{"private":true,"content":"x"}}`,
			skip: SkipPrivateNote,
		},
		{
			name: "bot sender",
			raw:  `{"event":"message_created","message_type":"outgoing","sender":{"type":"agent_bot"},"content":"resposta automatica"}`,
			skip: SkipBotSender,
		},
		{
			name: "bot via sender_type field",
			raw:  `{"event":"message_created","message_type":"outgoing","sender_type":"AgentBot","content":"x"}`,
			skip: SkipBotSender,
		},
		{
			name: "blank content",
			raw:  `{"event":"message_created","message_type":"outgoing","content":"   "}`,
			skip: SkipEmptyContent,
		},
		{
			name: "missing content",
			raw:  `{"event":"message_created","message_type":"outgoing"}`,
			skip: SkipEmptyContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, skip := ClassifyHumanReply(parse(t, tt.raw))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.skip, skip)
		})
	}
}

func TestExtractPhone_OrderedFallback(t *testing.T) {
	// most specific location wins
	p := parse(t, `{
		"conversation":{"meta":{"sender":{"phone_number":"+55 11 91234-5678"}}},
		"sender":{"phone_number":"+55 21 00000-0000"}
	}`)
	got, ok := ExtractPhone(p)
	require.True(t, ok)
	assert.Equal(t, "5511912345678", got)

	// falls through to contact_inbox source id
	p = parse(t, `{"conversation":{"contact_inbox":{"source_id":"5511999998888"}}}`)
	got, ok = ExtractPhone(p)
	require.True(t, ok)
	assert.Equal(t, "5511999998888", got)

	// top-level sender as last structured resort
	p = parse(t, `{"sender":{"phone_number":"(11) 98888-7777"}}`)
	got, ok = ExtractPhone(p)
	require.True(t, ok)
	assert.Equal(t, "11988887777", got)

	// nothing extractable
	p = parse(t, `{"sender":{"name":"Ana"}}`)
	_, ok = ExtractPhone(p)
	assert.False(t, ok)

	// present but digit-free
	p = parse(t, `{"sender":{"phone_number":"unknown"}}`)
	_, ok = ExtractPhone(p)
	assert.False(t, ok)
}

func TestExtractName(t *testing.T) {
	p := parse(t, `{"conversation":{"meta":{"sender":{"name":"Maria"}}},"sender":{"name":"Agente"}}`)
	got, ok := ExtractName(p)
	require.True(t, ok)
	assert.Equal(t, "Maria", got)

	p = parse(t, `{"sender":{"name":"Agente"}}`)
	got, ok = ExtractName(p)
	require.True(t, ok)
	assert.Equal(t, "Agente", got)

	_, ok = ExtractName(parse(t, `{}`))
	assert.False(t, ok)
}

func TestExtractContent(t *testing.T) {
	got, ok := ExtractContent(parse(t, `{"content":"oi"}`))
	require.True(t, ok)
	assert.Equal(t, "oi", got)

	got, ok = ExtractContent(parse(t, `{"message":{"content":"aninhado"}}`))
	require.True(t, ok)
	assert.Equal(t, "aninhado", got)
}

func TestPayloadString_Numbers(t *testing.T) {
	p := parse(t, `{"id":12345,"score":1.5}`)
	assert.Equal(t, "12345", p.String("id"))
	assert.Equal(t, "1.5", p.String("score"))
	assert.Equal(t, "", p.String("missing"))
}
