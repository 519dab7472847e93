package emailsvc

import (
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/anvesha/backend/core"
)

// SentMessages records every message "sent" by the console service so tests
// can assert on them.
var (
	SentMessages = make([]core.EmailMessage, 0)
	mu           sync.Mutex
)

type consoleService struct {
	defaultFromEmail mail.Address
	subjPrefix       string
	disableOutput    bool
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config) core.EmailService {
	return &consoleService{
		defaultFromEmail: conf.DefaultFromEmail,
		subjPrefix:       "[" + conf.AppName + "] ",
		disableOutput:    conf.TestMode,
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		svc.sendMessage(msg)
	}
}

func (svc consoleService) sendMessage(msg *core.EmailMessage) {
	if !msg.HasRecipients() || !msg.HasContent() {
		return
	}

	mu.Lock()
	SentMessages = append(SentMessages, *msg)
	mu.Unlock()

	if svc.disableOutput {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\n", svc.defaultFromEmail.String())
	tos := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		tos = append(tos, to.String())
	}
	fmt.Fprintf(&b, "To: %s\n", strings.Join(tos, ", "))
	fmt.Fprintf(&b, "Date: %s\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Subject: %s%s\n\n", svc.subjPrefix, msg.Subject)
	b.WriteString(msg.Body)
	fmt.Println(b.String())
}
