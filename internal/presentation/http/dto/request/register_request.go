package request

// SelectRegisterRequest binds a register to a terminal
type SelectRegisterRequest struct {
	RegisterID string `json:"register_id" binding:"required"`
}

// CreateRegisterRequest creates a register on the backend
type CreateRegisterRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Notes string `json:"notes" binding:"max=1000"`
}
