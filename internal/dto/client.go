package dto

// SearchClientByCpfRequest is the searchClientByCpf query input.
type SearchClientByCpfRequest struct {
	Cpf string `json:"cpf" form:"cpf" binding:"required,cpf"`
}

// ClientProfileResponse is a client profile row resolved from a CPF search.
type ClientProfileResponse struct {
	ID        string `json:"id"`
	Document  string `json:"document"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}
