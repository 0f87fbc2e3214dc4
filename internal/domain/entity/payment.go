package entity

// PaymentMethod is a tender type configured on the backend
type PaymentMethod struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsOnline bool   `json:"is_online"`
}

// Currency is a configured currency; the default one is used on receipts
type Currency struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Symbol    string `json:"symbol"`
	Code      string `json:"code"`
	IsDefault bool   `json:"is_default"`
}

// DefaultCurrency returns the currency flagged as default, or nil
func DefaultCurrency(currencies []Currency) *Currency {
	for i := range currencies {
		if currencies[i].IsDefault {
			c := currencies[i]
			return &c
		}
	}
	return nil
}
