package enum

import "encoding/json"

// ConfirmationKind tags an action that waits for the operator to accept it
type ConfirmationKind int

const (
	ConfirmCloseSession ConfirmationKind = 0
)

func (k ConfirmationKind) String() string {
	return [...]string{"close_session"}[k]
}

func (k ConfirmationKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *ConfirmationKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*k = ConfirmCloseSession
	return nil
}
