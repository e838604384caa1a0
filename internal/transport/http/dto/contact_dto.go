package dto

// ContactResponse carries either the full contact record or its masked form;
// Masked tells the client which one it received.
type ContactResponse struct {
	Email     string `json:"email"`
	PhoneE164 string `json:"phone_e164"`
	Masked    bool   `json:"masked"`
}
