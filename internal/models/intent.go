// internal/models/intent.go
package models

type Intent string

const (
	IntentReservation    Intent = "reservation"
	IntentMenuInquiry    Intent = "menu_inquiry"
	IntentHoursInquiry   Intent = "hours_inquiry"
	IntentOrderPlacement Intent = "order_placement"
	IntentOrderStatus    Intent = "order_status"
	IntentComplaint      Intent = "complaint"
	IntentGeneralInquiry Intent = "general_inquiry"
	IntentFeedback       Intent = "feedback"
)

// AllIntents lists every category the classifier may return.
var AllIntents = []Intent{
	IntentReservation,
	IntentMenuInquiry,
	IntentHoursInquiry,
	IntentOrderPlacement,
	IntentOrderStatus,
	IntentComplaint,
	IntentGeneralInquiry,
	IntentFeedback,
}

func (i Intent) Valid() bool {
	for _, intent := range AllIntents {
		if i == intent {
			return true
		}
	}
	return false
}

// IntentResult is the structured output of a classification call.
type IntentResult struct {
	PrimaryIntent Intent                 `json:"primary_intent"`
	Entities      map[string]interface{} `json:"entities"`
	Confidence    float64                `json:"confidence"`
	RequiresHuman bool                   `json:"requires_human"`
}
