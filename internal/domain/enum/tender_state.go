package enum

import "encoding/json"

// TenderState describes how the amount paid relates to the sale total
type TenderState int

const (
	TenderSettled TenderState = 0
	TenderDue     TenderState = 1
	TenderChange  TenderState = 2
)

func (t TenderState) String() string {
	return [...]string{"settled", "due", "change"}[t]
}

func (t TenderState) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TenderState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "due":
		*t = TenderDue
	case "change":
		*t = TenderChange
	default:
		*t = TenderSettled
	}
	return nil
}
