package enum

// DiscountType is a closed set of supported discount kinds. Adding a new
// kind requires extending the engine's dispatch switch.
type DiscountType string

const (
	DiscountTypeAmount     DiscountType = "amount"
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeCombo      DiscountType = "combo"
)

// Valid reports whether the type is a known discount type
func (t DiscountType) Valid() bool {
	switch t {
	case DiscountTypeAmount, DiscountTypePercentage, DiscountTypeCombo:
		return true
	}
	return false
}

// ConditionType identifies an extra gate attached to a discount
type ConditionType string

const (
	ConditionTypeMinAmount ConditionType = "min_amount"
	ConditionTypeDayOfWeek ConditionType = "day_of_week"
)
