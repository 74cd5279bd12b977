package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"shelterlink_server/config"
	"shelterlink_server/models"
)

const matchEmailSubject = "New match found on ShelterLink!"

// EmailSender delivers a single plain-text email.
type EmailSender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends mail through a STARTTLS-capable SMTP relay.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	}
}

// Send delivers one message. An empty recipient is a no-op.
func (s *SMTPSender) Send(to, subject, body string) error {
	if to == "" {
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", s.From, to, subject, body)
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)

	if err := smtp.SendMail(addr, auth, s.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// EmailService renders and dispatches match notification emails. It
// implements MatchNotifier.
type EmailService struct {
	Sender EmailSender
}

// SendMatchEmails notifies both parties about a new match. A missing email
// suppresses only that one notification, and delivery failures are logged
// and swallowed; the match itself is already saved.
func (es *EmailService) SendMatchEmails(donorEmail, shelterEmail string, match *models.Match, donorPhone, shelterPhone string) {
	contacts := contactSection(donorEmail, shelterEmail, donorPhone, shelterPhone)

	if donorEmail != "" {
		body := donorMatchBody(match, contacts)
		if err := es.Sender.Send(donorEmail, matchEmailSubject, body); err != nil {
			log.Printf("Failed to send match email to donor: %v", err)
		}
	}
	if shelterEmail != "" {
		body := shelterMatchBody(match, contacts)
		if err := es.Sender.Send(shelterEmail, matchEmailSubject, body); err != nil {
			log.Printf("Failed to send match email to shelter: %v", err)
		}
	}
}

func matchDetails(match *models.Match) string {
	return fmt.Sprintf(
		"Item: %s\nQuantity: %d\nCategory: %s\nMatch ID: %s\n\nYou can view the full details by logging into ShelterLink.",
		match.ItemName, match.Quantity, match.Category, match.ID,
	)
}

func contactSection(donorEmail, shelterEmail, donorPhone, shelterPhone string) string {
	lines := []string{"\n\nContact details (for coordinating this match):"}
	if donorEmail != "" {
		lines = append(lines, fmt.Sprintf("- Donor email: %s", donorEmail))
	}
	if donorPhone != "" {
		lines = append(lines, fmt.Sprintf("- Donor phone: %s", donorPhone))
	}
	if shelterEmail != "" {
		lines = append(lines, fmt.Sprintf("- Shelter email: %s", shelterEmail))
	}
	if shelterPhone != "" {
		lines = append(lines, fmt.Sprintf("- Shelter phone: %s", shelterPhone))
	}
	return strings.Join(lines, "\n")
}

func donorMatchBody(match *models.Match, contacts string) string {
	name := match.DonorUsername
	if name == "" {
		name = "donor"
	}
	return fmt.Sprintf(
		"Hi %s,\n\nGood news! We've found a shelter that matches your donation.\n\n%s%s",
		name, matchDetails(match), contacts,
	)
}

func shelterMatchBody(match *models.Match, contacts string) string {
	name := match.ShelterName
	if name == "" {
		name = "shelter"
	}
	return fmt.Sprintf(
		"Hi %s,\n\nGood news! We've found a donor whose items match your request.\n\n%s%s",
		name, matchDetails(match), contacts,
	)
}
