package chatwoot

import "zapcrm/pkg/phone"

// Extractor pulls one candidate value out of a payload, reporting whether it
// found anything. Extraction strategies are chained in order, first non-empty
// match wins.
type Extractor func(Payload) (string, bool)

func at(path ...string) Extractor {
	return func(p Payload) (string, bool) {
		v := p.String(path...)
		return v, v != ""
	}
}

// FirstMatch runs the chain and short-circuits on the first hit.
func FirstMatch(p Payload, chain ...Extractor) (string, bool) {
	for _, ex := range chain {
		if v, ok := ex(p); ok {
			return v, true
		}
	}
	return "", false
}

// phoneChain covers the payload layouts that have carried the contact number
// over time, most specific first.
var phoneChain = []Extractor{
	at("conversation", "meta", "sender", "phone_number"),
	at("conversation", "contact_inbox", "source_id"),
	at("contact", "phone_number"),
	at("sender", "phone_number"),
	at("phone"),
}

var nameChain = []Extractor{
	at("conversation", "meta", "sender", "name"),
	at("contact", "name"),
	at("sender", "name"),
}

var contentChain = []Extractor{
	at("content"),
	at("message", "content"),
	at("message", "processed_message_content"),
}

// ExtractPhone returns the contact number normalized to digits. An event with
// no extractable phone cannot be attributed to a conversation and is skipped
// by the caller.
func ExtractPhone(p Payload) (string, bool) {
	raw, ok := FirstMatch(p, phoneChain...)
	if !ok {
		return "", false
	}
	digits := phone.Digits(raw)
	return digits, digits != ""
}

// ExtractName returns the contact/sender display name, when present.
func ExtractName(p Payload) (string, bool) {
	return FirstMatch(p, nameChain...)
}

// ExtractContent returns the message text, when present.
func ExtractContent(p Payload) (string, bool) {
	return FirstMatch(p, contentChain...)
}
