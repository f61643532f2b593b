package dto

// CreateUserRequest defines the data needed to register a new user.
type CreateUserRequest struct {
	Username          string `json:"username" binding:"required,min=3,max=50"`
	Password          string `json:"password" binding:"required,min=8"`
	Email             string `json:"email" binding:"required,email"`
	Name              string `json:"name" binding:"required"`
	PreferredCurrency string `json:"preferredCurrency" binding:"omitempty,currencycode"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name              *string `json:"name"`
	PreferredCurrency *string `json:"preferredCurrency" binding:"omitempty,currencycode"`
}
