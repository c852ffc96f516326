package trello2pdf

import (
	"fmt"
	"log/slog"
	"strings"
)

// Credentials holds the Trello API key and token sent with each download.
type Credentials struct {
	Key   string
	Token string
}

// NewCredentials trims whitespace and wrapping quote runs from key and
// token, as left behind by `export TRELLO_KEY="..."` in some shells.
func NewCredentials(key, token string) Credentials {
	return Credentials{
		Key:   stripWrapQuotes(key),
		Token: stripWrapQuotes(token),
	}
}

// Header returns the Authorization header value. ok is false unless both
// key and token are set.
func (c Credentials) Header() (value string, ok bool) {
	if c.Key == "" || c.Token == "" {
		return "", false
	}
	return fmt.Sprintf(`OAuth oauth_consumer_key="%s", oauth_token="%s"`, c.Key, c.Token), true
}

// LogValue keeps the secrets out of logs: only "complete", "partial" or
// "none" is reported.
func (c Credentials) LogValue() slog.Value {
	switch {
	case c.Key != "" && c.Token != "":
		return slog.StringValue("complete")
	case c.Key != "" || c.Token != "":
		return slog.StringValue("partial")
	}
	return slog.StringValue("none")
}

func stripWrapQuotes(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}
