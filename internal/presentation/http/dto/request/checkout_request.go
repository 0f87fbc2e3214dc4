package request

// PaymentRequest records the payment entry. Omitted fields are unchanged;
// an empty amount_paid clears the entry.
type PaymentRequest struct {
	AmountPaid      *string `json:"amount_paid"`
	PaymentMethodID *string `json:"payment_method_id"`
}
