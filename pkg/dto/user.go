package dto

/**
  PATCH /users/{id} accepts any subset of the fields; absent fields keep
  their current value.
*/

type UpdateProfile struct {
	FullName *string `json:"nomeCompleto,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"senha,omitempty"`
}

type Message struct {
	Message string `json:"message"`
}

type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
