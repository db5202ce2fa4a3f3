package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// WhatsAppCountryCode is prefixed to every member phone in outbound links.
const WhatsAppCountryCode = "55"

// PhoneDigits strips everything but digits from a phone number.
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WelcomeMessage is the text sent to a newly enrolled member. appURL may be empty.
func WelcomeMessage(member Member, trainerName, password, appURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s, this is coach %s!\n\n", member.Name, trainerName)
	b.WriteString("Welcome to the lab. Your access is ready.\n\n")
	fmt.Fprintf(&b, "Your login is %s and your initial password is: %s\n", member.Email, password)
	if appURL != "" {
		fmt.Fprintf(&b, "\nSign in here:\n%s\n", appURL)
	}
	b.WriteString("\nLet's get to work!")
	return b.String()
}

// WelcomeLink builds a wa.me link with the welcome message prefilled. It returns ""
// when the member has no phone digits to send to.
func WelcomeLink(member Member, trainerName, password, appURL string) string {
	digits := PhoneDigits(member.Phone)
	if digits == "" {
		return ""
	}
	// QueryEscape writes spaces as '+', which wa.me shows literally.
	text := strings.ReplaceAll(url.QueryEscape(WelcomeMessage(member, trainerName, password, appURL)), "+", "%20")
	return "https://wa.me/" + WhatsAppCountryCode + digits + "?text=" + text
}
