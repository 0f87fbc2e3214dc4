package enum

import (
	"encoding/json"
	"strings"
)

// SessionStatus represents the status of a cash register session
type SessionStatus int

const (
	SessionStatusClosed SessionStatus = 0
	SessionStatusOpened SessionStatus = 1
)

func (s SessionStatus) String() string {
	return [...]string{"closed", "opened"}[s]
}

func (s SessionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the backend's string form ("opened", "open",
// "closed") as well as the numeric form. Anything unknown is closed, so a
// session is only ever sellable when the backend says so explicitly.
func (s *SessionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SessionStatusClosed
		if SessionStatus(i) == SessionStatusOpened {
			*s = SessionStatusOpened
		}
		return nil
	}
	*s = ParseSessionStatus(str)
	return nil
}

// ParseSessionStatus maps a backend status string to a SessionStatus
func ParseSessionStatus(raw string) SessionStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "opened", "open":
		return SessionStatusOpened
	default:
		return SessionStatusClosed
	}
}
