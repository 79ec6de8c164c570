package document

import (
	"encoding/json"
	"time"

	"github.com/primeapparel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Metadata is the tagged variant carried by a document. Each document type
// has one concrete shape; the zero shapes of other types are never mixed.
type Metadata interface {
	// MetadataType returns the discriminator stored alongside the payload
	MetadataType() Type
}

// CIMetadata carries the customs-relevant inputs of a commercial invoice
type CIMetadata struct {
	AWBNumber      string          `json:"awb_number"`
	FreightCharges decimal.Decimal `json:"freight_charges"`
	HSNCodes       []string        `json:"hsn_codes"`
}

// MetadataType implements Metadata
func (CIMetadata) MetadataType() Type { return TypeCI }

// CartonDetail describes one carton in a packing list
type CartonDetail struct {
	CartonNumber string          `json:"carton_number"`
	Contents     string          `json:"contents"`
	Quantity     int             `json:"quantity"`
	Weight       decimal.Decimal `json:"weight"`
	Dimensions   string          `json:"dimensions"`
}

// PackingListMetadata carries the carton breakdown of a packing list
type PackingListMetadata struct {
	CartonDetails   []CartonDetail  `json:"carton_details"`
	TotalWeight     decimal.Decimal `json:"total_weight"`
	TotalCBM        decimal.Decimal `json:"total_cbm"`
	NumberOfCartons int             `json:"number_of_cartons"`
}

// MetadataType implements Metadata
func (PackingListMetadata) MetadataType() Type { return TypePackingList }

// AWBMetadata carries courier tracking details
type AWBMetadata struct {
	TrackingNumber    string     `json:"tracking_number"`
	Courier           string     `json:"courier"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	AWBURL            string     `json:"awb_url,omitempty"`
}

// MetadataType implements Metadata
func (AWBMetadata) MetadataType() Type { return TypeAWB }

// NewCIMetadata builds validated CI metadata. An absent HSN code list is
// normalized to an empty slice.
func NewCIMetadata(awbNumber string, freight decimal.Decimal, hsnCodes []string) (CIMetadata, error) {
	if freight.IsNegative() {
		return CIMetadata{}, shared.NewDomainError("INVALID_FREIGHT", "Freight charges cannot be negative")
	}
	if hsnCodes == nil {
		hsnCodes = []string{}
	}
	return CIMetadata{
		AWBNumber:      awbNumber,
		FreightCharges: freight,
		HSNCodes:       hsnCodes,
	}, nil
}

// NewPackingListMetadata builds validated packing list metadata.
// NumberOfCartons is always derived from the carton detail count.
func NewPackingListMetadata(cartons []CartonDetail, totalWeight, totalCBM decimal.Decimal) (PackingListMetadata, error) {
	if totalWeight.IsNegative() || totalCBM.IsNegative() {
		return PackingListMetadata{}, shared.NewDomainError("INVALID_MEASURE", "Weight and CBM cannot be negative")
	}
	for _, c := range cartons {
		if c.Quantity < 0 {
			return PackingListMetadata{}, shared.NewDomainError("INVALID_QUANTITY", "Carton quantity cannot be negative")
		}
	}
	if cartons == nil {
		cartons = []CartonDetail{}
	}
	return PackingListMetadata{
		CartonDetails:   cartons,
		TotalWeight:     totalWeight,
		TotalCBM:        totalCBM,
		NumberOfCartons: len(cartons),
	}, nil
}

// NewAWBMetadata builds validated AWB metadata
func NewAWBMetadata(trackingNumber, courier string, estimatedDelivery *time.Time, awbURL string) (AWBMetadata, error) {
	if trackingNumber == "" {
		return AWBMetadata{}, shared.NewDomainError("INVALID_TRACKING", "Tracking number is required")
	}
	return AWBMetadata{
		TrackingNumber:    trackingNumber,
		Courier:           courier,
		EstimatedDelivery: estimatedDelivery,
		AWBURL:            awbURL,
	}, nil
}

// UnmarshalMetadata decodes a stored metadata payload according to its
// discriminator. Types without metadata return nil.
func UnmarshalMetadata(docType Type, payload []byte) (Metadata, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	switch docType {
	case TypeCI:
		var m CIMetadata
		if err := json.Unmarshal(payload, &m); err != nil {
			return nil, err
		}
		return m, nil
	case TypePackingList:
		var m PackingListMetadata
		if err := json.Unmarshal(payload, &m); err != nil {
			return nil, err
		}
		return m, nil
	case TypeAWB:
		var m AWBMetadata
		if err := json.Unmarshal(payload, &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, nil
	}
}
