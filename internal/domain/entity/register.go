package entity

// Register is a cash register (till) configured by an administrator on the
// backend. It is read-only to the terminal and referenced by id.
type Register struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Notes         string `json:"notes,omitempty"`
	Active        bool   `json:"active"`
	Status        string `json:"status"`
	LocationTitle string `json:"location_title,omitempty"`
}

// RegisterView pairs a register with its currently open session, if any.
type RegisterView struct {
	Register
	ActiveSession *Session `json:"active_session"`
}

// ActiveSessionFor returns the open session of the given register, or nil.
func ActiveSessionFor(registerID string, sessions []Session) *Session {
	for i := range sessions {
		if sessions[i].Register == registerID && sessions[i].IsOpen() {
			s := sessions[i]
			return &s
		}
	}
	return nil
}

// BuildRegisterViews attaches the open session of each register.
func BuildRegisterViews(registers []Register, sessions []Session) []RegisterView {
	views := make([]RegisterView, 0, len(registers))
	for _, r := range registers {
		views = append(views, RegisterView{
			Register:      r,
			ActiveSession: ActiveSessionFor(r.ID, sessions),
		})
	}
	return views
}
