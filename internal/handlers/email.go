package handlers

import (
	"fmt"
	"log"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendResetEmail delivers a password reset link through SendGrid.
func sendResetEmail(fromAddress, toName, toEmail, resetLink string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set in environment variables")
	}

	from := mail.NewEmail("Garbage Collection Scheduler", fromAddress)
	to := mail.NewEmail(toName, toEmail)
	text := "You are receiving this email because a password reset was requested for your account.\n\n" +
		"Please open the following link to complete the process:\n\n" + resetLink + "\n\n" +
		"If you did not request this, ignore this email and your password will remain unchanged.\n"
	message := mail.NewSingleEmail(from, "Password Reset Request", to, text, "")

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("[MAIL] [ERROR] sending reset email to %s: %v", toEmail, err)
		return err
	}
	if response.StatusCode >= 400 {
		log.Printf("[MAIL] [ERROR] sendgrid status %d: %s", response.StatusCode, response.Body)
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	log.Printf("[MAIL] [INFO] reset email sent to %s", toEmail)
	return nil
}
