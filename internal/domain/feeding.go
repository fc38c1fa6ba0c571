package domain

// FeedingType is what was fed.
type FeedingType string

// Feeding types as posted to and returned by the server.
const (
	FeedingTypeBreastMilk          FeedingType = "breast milk"
	FeedingTypeFormula             FeedingType = "formula"
	FeedingTypeFortifiedBreastMilk FeedingType = "fortified breast milk"
	FeedingTypeSolidFood           FeedingType = "solid food"
)

// FeedingMethod is how it was fed.
type FeedingMethod string

// Feeding methods as posted to and returned by the server.
const (
	FeedingMethodBottle      FeedingMethod = "bottle"
	FeedingMethodLeftBreast  FeedingMethod = "left breast"
	FeedingMethodRightBreast FeedingMethod = "right breast"
	FeedingMethodBothBreasts FeedingMethod = "both breasts"
	FeedingMethodParentFed   FeedingMethod = "parent fed"
	FeedingMethodSelfFed     FeedingMethod = "self fed"
)

// Valid reports whether t is a known feeding type.
func (t FeedingType) Valid() bool {
	switch t {
	case FeedingTypeBreastMilk, FeedingTypeFormula, FeedingTypeFortifiedBreastMilk, FeedingTypeSolidFood:
		return true
	}
	return false
}

// Valid reports whether m is a known feeding method.
func (m FeedingMethod) Valid() bool {
	switch m {
	case FeedingMethodBottle, FeedingMethodLeftBreast, FeedingMethodRightBreast,
		FeedingMethodBothBreasts, FeedingMethodParentFed, FeedingMethodSelfFed:
		return true
	}
	return false
}

// Breast reports whether the method is direct breastfeeding.
func (m FeedingMethod) Breast() bool {
	switch m {
	case FeedingMethodLeftBreast, FeedingMethodRightBreast, FeedingMethodBothBreasts:
		return true
	}
	return false
}
