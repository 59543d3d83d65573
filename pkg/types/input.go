package types

// InputSource identifies which flow produced an InputResponse.
type InputSource string

const (
	InputSourceHandover InputSource = "handover" // InputSourceHandover is feedback written when control is handed back.
	InputSourceApproval InputSource = "approval" // InputSourceApproval is an accept/deny decision.
)

// InputResponse is what the viewer forwards to the caller's input-response
// interface: the human's text, optional attachment references, an optional
// accept/deny decision, and an optional plan reference.
type InputResponse struct {
	Text        string      `json:"text"`
	Attachments []string    `json:"attachments,omitempty"`
	Accepted    *bool       `json:"accepted,omitempty"`
	PlanRef     string      `json:"plan_ref,omitempty"`
	Source      InputSource `json:"source"`
}

// NewFeedbackResponse builds the response sent when control is handed back.
func NewFeedbackResponse(text string) InputResponse {
	return InputResponse{Text: text, Source: InputSourceHandover}
}

// NewDecisionResponse builds an accept/deny response.
func NewDecisionResponse(text string, accepted bool) InputResponse {
	return InputResponse{Text: text, Accepted: &accepted, Source: InputSourceApproval}
}

// IsDecision reports whether the response carries an accept/deny decision.
func (r InputResponse) IsDecision() bool {
	return r.Accepted != nil
}
