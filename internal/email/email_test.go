package email

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"iglesia/internal/config"
	"iglesia/internal/core"
	"iglesia/internal/subscribers"
)

func summary() core.WeeklySummary {
	return core.WeeklySummary{
		Title: "Semana 2 del pontificado",
		Date:  "2025-05-18",
		Week:  2,
		Body:  "## Lo esencial\n\nEl Papa habló de la **paz**.",
	}
}

func TestRenderWeekly(t *testing.T) {
	html, err := RenderWeekly(summary(), "María José", "https://igles-ia.es")
	if err != nil {
		t.Fatalf("RenderWeekly: %v", err)
	}
	if !strings.Contains(html, "Hola María José:") {
		t.Error("missing personalized greeting")
	}
	if !strings.Contains(html, "<strong>paz</strong>") {
		t.Error("markdown body not rendered")
	}
	if !strings.Contains(html, "Semana 2 del pontificado") {
		t.Error("missing title")
	}
}

func TestRenderWeeklyNoName(t *testing.T) {
	html, err := RenderWeekly(summary(), "", "https://igles-ia.es")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "Hola") {
		t.Error("greeting rendered without a name")
	}
}

func newTestSender() (*Sender, *[]string) {
	var sent []string
	s := NewSender(config.Email{
		Host: "smtp.example.com", Port: 587,
		User: "bot@igles-ia.es", FromName: "Igles-IA",
	})
	s.send = func(_ string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		if strings.Contains(string(msg), "falla@") {
			return errors.New("mailbox full")
		}
		sent = append(sent, to...)
		return nil
	}
	return s, &sent
}

func TestSendToAllContinuesAfterFailure(t *testing.T) {
	s, sent := newTestSender()
	subs := []subscribers.Subscriber{
		{Email: "a@x.es", FirstName: "Ana"},
		{Email: "falla@x.es", FirstName: "Luis"},
		{Email: "c@x.es", FirstName: "Carmen"},
	}
	batch := s.SendToAll(subs, "Asunto", func(sub subscribers.Subscriber) (string, error) {
		return "<p>Hola " + sub.FirstName + "</p>", nil
	}, false)

	if len(*sent) != 2 {
		t.Errorf("sent = %v", *sent)
	}
	if batch.Succeeded() != 2 || len(batch.Failed()) != 1 {
		t.Errorf("batch = %s", batch.Summary())
	}
}

func TestSendToAllDebugOnlySender(t *testing.T) {
	s, sent := newTestSender()
	subs := []subscribers.Subscriber{{Email: "a@x.es"}, {Email: "b@x.es"}}
	s.SendToAll(subs, "Asunto", func(subscribers.Subscriber) (string, error) {
		return "<p>hola</p>", nil
	}, true)

	if len(*sent) != 1 || (*sent)[0] != "bot@igles-ia.es" {
		t.Errorf("sent = %v, want only the sender address", *sent)
	}
}

func TestMessageHeaders(t *testing.T) {
	s := NewSender(config.Email{User: "bot@igles-ia.es", FromName: "Igles-IA"})
	msg := string(s.message("a@x.es", "Asunto con ñ", "<p>hola</p>"))
	for _, want := range []string{
		"From: Igles-IA <bot@igles-ia.es>",
		"To: a@x.es",
		"Subject: Asunto con ñ",
		"Content-Type: text/html; charset=\"UTF-8\"",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}
