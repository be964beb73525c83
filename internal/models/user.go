package models

// User est la session utilisateur telle qu'exposée au client.
// Le compte est détenu par le backend ; on ne garde ici que
// ce qui sert à l'affichage.
type User struct {
	ID       string `json:"user_id"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     string `json:"role,omitempty"`
}
