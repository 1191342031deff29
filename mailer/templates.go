package mailer

import (
	"fmt"
	"strings"
	"time"
)

func OTPMail(name, otp string, ttl time.Duration) (subject, body string) {
	subject = "Your LusionBeatz verification code"
	body = fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires in %d minutes.\n\n"+
		"If you didn't sign up for LusionBeatz, you can ignore this email.\n",
		name, otp, int(ttl.Minutes()))
	return subject, body
}

// DownloadLink is one purchased sample in an order confirmation.
type DownloadLink struct {
	Title string
	URL   string
}

func OrderMail(name, orderID, utr, amount string, links []DownloadLink) (subject, body string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nYour order %s is confirmed.\nUTR: %s\nAmount: ₹%s\n\nDownloads:\n",
		name, orderID, utr, amount)
	for _, l := range links {
		fmt.Fprintf(&b, "  - %s: %s\n", l.Title, l.URL)
	}
	b.WriteString("\nThanks for supporting independent creators.\n")
	return "Order confirmed - your LusionBeatz downloads", b.String()
}
