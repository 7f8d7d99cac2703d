package dto

type UpdateProfileRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=120"`
	Sector    string `json:"sector"`
	OwnerName string `json:"owner_name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Currency  string `json:"currency"`
	TaxNumber string `json:"tax_number"`
	TaxOffice string `json:"tax_office"`
}

type ProfileResponse struct {
	Name      string `json:"name"`
	Sector    string `json:"sector"`
	OwnerName string `json:"owner_name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Currency  string `json:"currency"`
	TaxNumber string `json:"tax_number,omitempty"`
	TaxOffice string `json:"tax_office,omitempty"`
}
