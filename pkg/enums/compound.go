package enums

import "fmt"

// CompoundTier prices a blend's herb allowance.
type CompoundTier string

const (
	CompoundTierEssential CompoundTier = "essential"
	CompoundTierSignature CompoundTier = "signature"
	CompoundTierReserve   CompoundTier = "reserve"
)

var validCompoundTiers = []CompoundTier{
	CompoundTierEssential,
	CompoundTierSignature,
	CompoundTierReserve,
}

func (t CompoundTier) String() string {
	return string(t)
}

func (t CompoundTier) IsValid() bool {
	for _, candidate := range validCompoundTiers {
		if candidate == t {
			return true
		}
	}
	return false
}

func ParseCompoundTier(value string) (CompoundTier, error) {
	for _, candidate := range validCompoundTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid compound tier %q", value)
}

// CompoundType records how a blend was authored.
type CompoundType string

const (
	CompoundTypeGuided       CompoundType = "guided"
	CompoundTypePractitioner CompoundType = "practitioner"
	CompoundTypeCustom       CompoundType = "custom"
)

var validCompoundTypes = []CompoundType{
	CompoundTypeGuided,
	CompoundTypePractitioner,
	CompoundTypeCustom,
}

func (t CompoundType) String() string {
	return string(t)
}

func (t CompoundType) IsValid() bool {
	for _, candidate := range validCompoundTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

func ParseCompoundType(value string) (CompoundType, error) {
	for _, candidate := range validCompoundTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid compound type %q", value)
}

// BatchStatus marks whether a prepared batch can still be dispensed from.
type BatchStatus string

const (
	BatchStatusActive    BatchStatus = "active"
	BatchStatusDiscarded BatchStatus = "discarded"
)

var validBatchStatuses = []BatchStatus{
	BatchStatusActive,
	BatchStatusDiscarded,
}

func (s BatchStatus) String() string {
	return string(s)
}

func (s BatchStatus) IsValid() bool {
	for _, candidate := range validBatchStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
