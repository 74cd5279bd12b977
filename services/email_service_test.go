package services

import (
	"testing"

	"shelterlink_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (r *recordingSender) Send(to, subject, body string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func notificationMatch() *models.Match {
	return &models.Match{
		ID:            "match-1",
		DonorUsername: "alice",
		ShelterName:   "Haven",
		ItemName:      "Blankets",
		Quantity:      5,
		Category:      "Bedding",
	}
}

func TestSendMatchEmails(t *testing.T) {
	sender := &recordingSender{}
	es := &EmailService{Sender: sender}

	es.SendMatchEmails("alice@example.com", "haven@example.com", notificationMatch(), "555-0101", "555-0202")

	require.Len(t, sender.sent, 2)

	donorMail := sender.sent[0]
	assert.Equal(t, "alice@example.com", donorMail.To)
	assert.Equal(t, "New match found on ShelterLink!", donorMail.Subject)
	assert.Contains(t, donorMail.Body, "Hi alice,")
	assert.Contains(t, donorMail.Body, "found a shelter that matches your donation")
	assert.Contains(t, donorMail.Body, "Item: Blankets")
	assert.Contains(t, donorMail.Body, "Quantity: 5")
	assert.Contains(t, donorMail.Body, "Match ID: match-1")
	assert.Contains(t, donorMail.Body, "Shelter email: haven@example.com")
	assert.Contains(t, donorMail.Body, "Shelter phone: 555-0202")

	shelterMail := sender.sent[1]
	assert.Equal(t, "haven@example.com", shelterMail.To)
	assert.Contains(t, shelterMail.Body, "Hi Haven,")
	assert.Contains(t, shelterMail.Body, "found a donor whose items match your request")
	assert.Contains(t, shelterMail.Body, "Donor email: alice@example.com")
	assert.Contains(t, shelterMail.Body, "Donor phone: 555-0101")
}

func TestSendMatchEmails_MissingRecipientSkipsOnlyThatSide(t *testing.T) {
	sender := &recordingSender{}
	es := &EmailService{Sender: sender}

	es.SendMatchEmails("", "haven@example.com", notificationMatch(), "", "")
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "haven@example.com", sender.sent[0].To)

	sender.sent = nil
	es.SendMatchEmails("", "", notificationMatch(), "", "")
	assert.Empty(t, sender.sent)
}

func TestSendMatchEmails_DeliveryFailureIsSwallowed(t *testing.T) {
	sender := &recordingSender{err: assert.AnError}
	es := &EmailService{Sender: sender}

	// Must not panic or propagate
	es.SendMatchEmails("alice@example.com", "haven@example.com", notificationMatch(), "", "")
	assert.Empty(t, sender.sent)
}

func TestMatchBodies_FallbackNames(t *testing.T) {
	match := notificationMatch()
	match.DonorUsername = ""
	match.ShelterName = ""

	assert.Contains(t, donorMatchBody(match, ""), "Hi donor,")
	assert.Contains(t, shelterMatchBody(match, ""), "Hi shelter,")
}

func TestSMTPSender_EmptyRecipientIsNoOp(t *testing.T) {
	// No SMTP connection may be attempted for an empty recipient
	s := &SMTPSender{Host: "smtp.invalid", Port: 587, From: "noreply@example.com"}
	assert.NoError(t, s.Send("", "subject", "body"))
}
