package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lusionbeatz-backend/config"
)

type recorder struct{ to, subject, body string }

func (r *recorder) Send(to, subject, body string) error {
	r.to, r.subject, r.body = to, subject, body
	return nil
}

func TestUseRoutesSend(t *testing.T) {
	rec := &recorder{}
	Use(rec)
	defer Use(LogSender{})

	assert.NoError(t, Send("a@b.c", "hi", "there"))
	assert.Equal(t, "a@b.c", rec.to)
	assert.Equal(t, "there", rec.body)
}

func TestFromConfig(t *testing.T) {
	assert.IsType(t, LogSender{}, FromConfig(&config.Config{}))
	assert.IsType(t, &SMTPSender{}, FromConfig(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: "25"}))
}

func TestTemplates(t *testing.T) {
	_, body := OTPMail("Asha", "123456", 10*time.Minute)
	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "10 minutes")

	_, body = OrderMail("Asha", "ord-1", "UTR123456", "499.00", []DownloadLink{{Title: "Trap Loop", URL: "http://x/a.wav"}})
	assert.Contains(t, body, "UTR123456")
	assert.Contains(t, body, "Trap Loop: http://x/a.wav")
}
