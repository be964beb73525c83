package models

// ContactMessage est une soumission du formulaire de contact.
type ContactMessage struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Comment string `json:"comment" binding:"required"`
}
