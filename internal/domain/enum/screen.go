package enum

import "encoding/json"

// Screen is the step of the terminal workflow the cashier should be shown.
type Screen int

const (
	ScreenRegisterSelection Screen = 0
	ScreenOpenSession       Screen = 1
	ScreenSelling           Screen = 2
	ScreenReceipt           Screen = 3
)

func (s Screen) String() string {
	return [...]string{"register_selection", "open_session", "selling", "receipt"}[s]
}

func (s Screen) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Screen) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ParseScreen(str)
	return nil
}

// ParseScreen maps a screen name back to its value. Unknown names are
// register selection.
func ParseScreen(name string) Screen {
	switch name {
	case "open_session":
		return ScreenOpenSession
	case "selling":
		return ScreenSelling
	case "receipt":
		return ScreenReceipt
	default:
		return ScreenRegisterSelection
	}
}
