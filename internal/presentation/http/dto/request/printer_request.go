package request

// ReprintRequest is the optional body of a reprint. Copies defaults to 1.
type ReprintRequest struct {
	Copies int `json:"copies" binding:"omitempty,min=1,max=5"`
}
