package live

// Decision is the outcome of routing one incoming message.
type Decision int

const (
	// DecisionNotify presents the message as a transient notification.
	DecisionNotify Decision = iota
	// DecisionMerge appends the message to the open conversation view.
	DecisionMerge
)

func (d Decision) String() string {
	if d == DecisionMerge {
		return "merge"
	}
	return "notify"
}

// Route decides how to deliver an incoming message given the conversation
// the client currently has open ("" when none). It is a pure function: a
// message merges exactly when the open conversation's counterpart is its
// sender; everything else notifies.
//
// Routing does not deduplicate by message id. If a transport ever
// double-delivers, a merged conversation would gain the message twice;
// deduplication is left to the client-side store.
func Route(msg Message, openConversationUserID string) Decision {
	if openConversationUserID != "" && msg.FromUserID == openConversationUserID {
		return DecisionMerge
	}
	return DecisionNotify
}
