package service

import (
	"fmt"
	"log"

	"workforce-backend/internal/model"
	"workforce-backend/internal/repository"

	"gopkg.in/gomail.v2"
)

// Notifier receives the before/after states of every review decision so
// notification and audit collaborators can act on them. The core never
// blocks or fails on notification problems.
type Notifier interface {
	EntryReviewed(transition model.EntryTransition)
	OverrideResolved(transition model.OverrideTransition)
}

// MailNotifier emails the affected employee about review outcomes.
type MailNotifier struct {
	dialer   *gomail.Dialer
	from     string
	userRepo repository.UserRepository
}

func NewMailNotifier(host string, port int, username, password, from string, userRepo repository.UserRepository) *MailNotifier {
	return &MailNotifier{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		userRepo: userRepo,
	}
}

func (n *MailNotifier) EntryReviewed(transition model.EntryTransition) {
	entry := transition.Current
	subject := "Clock entry approved"
	body := fmt.Sprintf("Your clock entry from %s has been approved.",
		entry.ClockIn.Format("2006-01-02 15:04"))
	if entry.Status == model.ClockRejected {
		subject = "Clock entry rejected"
		reason := entry.RejectReason
		if reason == "" {
			reason = "not specified"
		}
		body = fmt.Sprintf("Your clock entry from %s has been rejected. Reason: %s",
			entry.ClockIn.Format("2006-01-02 15:04"), reason)
	}
	n.send(entry.UserID, subject, body)
}

func (n *MailNotifier) OverrideResolved(transition model.OverrideTransition) {
	request := transition.Current
	subject := "Override request approved"
	body := fmt.Sprintf("Your %s override request has been approved.", request.RequestedAction)
	if request.Status == model.OverrideRejected {
		subject = "Override request rejected"
		reason := request.ReviewNotes
		if reason == "" {
			reason = "not specified"
		}
		body = fmt.Sprintf("Your %s override request has been rejected. Reason: %s",
			request.RequestedAction, reason)
	}
	n.send(request.UserID, subject, body)
}

func (n *MailNotifier) send(userID uint, subject, body string) {
	user, err := n.userRepo.FindByID(userID)
	if err != nil {
		log.Printf("notifier: lookup user %d: %v", userID, err)
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", user.Email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(msg); err != nil {
		log.Printf("notifier: send to %s: %v", user.Email, err)
	}
}

// NopNotifier discards notifications; used when SMTP is not configured
// and in tests.
type NopNotifier struct{}

func (NopNotifier) EntryReviewed(model.EntryTransition)       {}
func (NopNotifier) OverrideResolved(model.OverrideTransition) {}
