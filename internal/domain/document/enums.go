package document

// Type represents the kind of trade document
type Type string

const (
	TypePI          Type = "PI"
	TypeCI          Type = "CI"
	TypePackingList Type = "PACKING_LIST"
	TypeAWB         Type = "AWB"
	TypeTechpack    Type = "TECHPACK"
	TypeOther       Type = "OTHER"
)

// IsValid checks if the document type is valid
func (t Type) IsValid() bool {
	switch t {
	case TypePI, TypeCI, TypePackingList, TypeAWB, TypeTechpack, TypeOther:
		return true
	}
	return false
}

// String returns the string representation
func (t Type) String() string {
	return string(t)
}

// DisplayName returns a human-readable name for the document type
func (t Type) DisplayName() string {
	switch t {
	case TypePI:
		return "Proforma Invoice"
	case TypeCI:
		return "Commercial Invoice"
	case TypePackingList:
		return "Packing List"
	case TypeAWB:
		return "Air Waybill"
	case TypeTechpack:
		return "Tech Pack"
	default:
		return "Document"
	}
}

// AllTypes returns all valid document types
func AllTypes() []Type {
	return []Type{TypePI, TypeCI, TypePackingList, TypeAWB, TypeTechpack, TypeOther}
}

// Status represents the lifecycle status of a document
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSent      Status = "SENT"
	StatusApproved  Status = "APPROVED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusApproved, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition to the target status is allowed
func (s Status) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusDraft:     {StatusSent, StatusApproved, StatusCancelled},
		StatusSent:      {StatusApproved, StatusCancelled},
		StatusApproved:  {StatusCancelled},
		StatusCancelled: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// HistoryAction represents an entry type in a document's audit trail
type HistoryAction string

const (
	ActionCreated    HistoryAction = "CREATED"
	ActionSent       HistoryAction = "SENT"
	ActionViewed     HistoryAction = "VIEWED"
	ActionDownloaded HistoryAction = "DOWNLOADED"
	ActionUpdated    HistoryAction = "UPDATED"
	ActionCancelled  HistoryAction = "CANCELLED"
)

// IsValid checks if the history action is valid
func (a HistoryAction) IsValid() bool {
	switch a {
	case ActionCreated, ActionSent, ActionViewed, ActionDownloaded, ActionUpdated, ActionCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (a HistoryAction) String() string {
	return string(a)
}
