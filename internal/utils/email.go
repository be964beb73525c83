package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/wneessen/go-mail"

	"mahzskin_back_end/internal/models"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail vérifie la forme d'une adresse avant tout appel réseau.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// SMTPConfigured indique si un relais mail est disponible. Sans SMTP,
// le formulaire de contact est simplement journalisé (mode dev).
func SMTPConfigured() bool {
	return os.Getenv("SMTP_HOST") != "" && os.Getenv("SMTP_USERNAME") != ""
}

// SendContactEmail relaie une soumission du formulaire de contact vers
// la boîte de la boutique.
func SendContactEmail(msg models.ContactMessage) error {
	m := mail.NewMsg()

	if err := m.From(os.Getenv("SMTP_FROM")); err != nil {
		return err
	}
	to := os.Getenv("CONTACT_EMAIL")
	if to == "" {
		to = "www.mahzskinltd@gmail.com"
	}
	if err := m.To(to); err != nil {
		return err
	}
	if err := m.ReplyTo(msg.Email); err != nil {
		return err
	}

	m.Subject("Nouveau message de contact de " + msg.Name)
	m.SetBodyString(mail.TypeTextHTML, contactHTML(msg))

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi du message de contact à", to)
	return client.DialAndSend(m)
}

func contactHTML(msg models.ContactMessage) string {
	phoneRow := ""
	if msg.Phone != "" {
		phoneRow = fmt.Sprintf("<p><strong>Téléphone :</strong> %s</p>", msg.Phone)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Nouveau message de contact</h2>
		<p><strong>Nom :</strong> %s</p>
		<p><strong>Email :</strong> %s</p>
		%s
		<p><strong>Message :</strong></p>
		<p>%s</p>
	</div>
</body>
</html>`, msg.Name, msg.Email, phoneRow, strings.ReplaceAll(msg.Comment, "\n", "<br>"))
}
