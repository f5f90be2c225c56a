package chatwoot

import "strings"

// EventMessageCreated is the only event kind that can represent a human reply;
// status changes, assignment changes and the rest are ignored.
const EventMessageCreated = "message_created"

// Skip reasons reported for recognized-but-ignored events. The webhook still
// acks these with 200 so the inbox platform does not retry.
const (
	SkipWrongEvent   = "wrong_event_type"
	SkipNotOutgoing  = "not_outgoing"
	SkipPrivateNote  = "private_note"
	SkipBotSender    = "bot_sender"
	SkipEmptyContent = "empty_content"
	SkipNoPhone      = "no_phone"
)

// botSenderTypes marks automated authors whose messages must not suppress the AI.
var botSenderTypes = map[string]struct{}{
	"agent_bot": {},
	"agentbot":  {},
	"bot":       {},
	"captain":   {},
}

// ClassifyHumanReply decides whether the event is a genuine human agent
// outbound message. It returns ok=true when the AI suppression window should
// be extended, otherwise a skip reason.
func ClassifyHumanReply(p Payload) (ok bool, skip string) {
	if p.String("event") != EventMessageCreated {
		return false, SkipWrongEvent
	}
	if !isOutgoing(p) {
		return false, SkipNotOutgoing
	}
	if p.Bool("private") || p.Bool("message", "private") {
		return false, SkipPrivateNote
	}
	if isBotSender(p) {
		return false, SkipBotSender
	}
	if content, found := ExtractContent(p); !found || strings.TrimSpace(content) == "" {
		return false, SkipEmptyContent
	}
	return true, ""
}

// isOutgoing tolerates both the string ("outgoing") and the numeric (1)
// encoding of message_type seen across payload versions.
func isOutgoing(p Payload) bool {
	for _, path := range [][]string{{"message_type"}, {"message", "message_type"}} {
		if v := p.String(path...); v != "" {
			return v == "outgoing" || v == "1"
		}
	}
	return false
}

func isBotSender(p Payload) bool {
	for _, path := range [][]string{
		{"sender_type"},
		{"sender", "type"},
		{"message", "sender_type"},
		{"message", "sender", "type"},
	} {
		if v := strings.ToLower(p.String(path...)); v != "" {
			if _, bot := botSenderTypes[v]; bot {
				return true
			}
		}
	}
	return false
}
