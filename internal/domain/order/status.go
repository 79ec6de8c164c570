package order

// Status represents the coarse lifecycle status of an export order
type Status string

const (
	StatusPIGenerated     Status = "PI_GENERATED"
	StatusAdvanceReceived Status = "ADVANCE_RECEIVED"
	StatusProduction      Status = "PRODUCTION"
	StatusQCPassed        Status = "QC_PASSED"
	StatusShipped         Status = "SHIPPED"
	StatusDelivered       Status = "DELIVERED"
	StatusCancelled       Status = "CANCELLED"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPIGenerated, StatusAdvanceReceived, StatusProduction,
		StatusQCPassed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition to the target status is allowed.
// Shipment recording is exempt from this check: recording an AWB forces
// the order to SHIPPED regardless of its current status.
func (s Status) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusPIGenerated:     {StatusAdvanceReceived, StatusCancelled},
		StatusAdvanceReceived: {StatusProduction, StatusCancelled},
		StatusProduction:      {StatusQCPassed, StatusCancelled},
		StatusQCPassed:        {StatusShipped, StatusCancelled},
		StatusShipped:         {StatusDelivered},
		StatusDelivered:       {},
		StatusCancelled:       {},
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

// IsTerminal returns true when no further transitions are expected
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CommercialTerm represents the Incoterm agreed for an order
type CommercialTerm string

const (
	TermEXW    CommercialTerm = "EXW"
	TermFOB    CommercialTerm = "FOB"
	TermCIF    CommercialTerm = "CIF"
	TermCIP    CommercialTerm = "CIP"
	TermDDPAir CommercialTerm = "DDP_AIR"
	TermDDPSea CommercialTerm = "DDP_SEA"
)

// IsValid checks if the commercial term is valid
func (t CommercialTerm) IsValid() bool {
	switch t {
	case TermEXW, TermFOB, TermCIF, TermCIP, TermDDPAir, TermDDPSea:
		return true
	}
	return false
}

// String returns the string representation
func (t CommercialTerm) String() string {
	return string(t)
}
