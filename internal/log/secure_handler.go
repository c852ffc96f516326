// Package log builds the slog logger used by trello2pdf. Its handler masks
// credentials before records reach the output, so the Trello OAuth header
// can be logged alongside each download without leaking key or token.
package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue replaces sensitive values.
const MaskValue = "***REDACTED***"

// sensitiveKeys are attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"api_key":             true,
	"apikey":              true,
	"trello_key":          true,
	"trello_token":        true,
	"oauth_consumer_key":  true,
	"oauth_token":         true,
}

// sensitiveKeywords mask any key that contains them.
// The bare word "key" is excluded: "dedup_key" is not a secret.
var sensitiveKeywords = []string{"token", "secret", "password", "auth", "credential"}

// sensitivePatterns mask string values regardless of key.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\boauth\s+oauth_consumer_key=`),
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	regexp.MustCompile(`(?i)authorization:\s*\S+`),
	regexp.MustCompile(`^[a-fA-F0-9]{32,}$`), // Trello keys and tokens are long hex strings
}

// SecureHandler wraps an slog.Handler and sanitizes attributes before
// delegating.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler wraps handler. A nil handler falls back to slog.Default().
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(clean)}
}

func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

func sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		clean := make([]slog.Attr, len(group))
		for i, ga := range group {
			clean[i] = sanitizeAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		if isSensitiveValue(a.Value.String()) {
			return slog.String(a.Key, MaskValue)
		}
	case slog.KindAny:
		// Argument vectors are logged as []string; mask element-wise so the
		// rest of the command line stays readable.
		if args, ok := a.Value.Any().([]string); ok {
			return slog.Any(a.Key, MaskArgs(args))
		}
	}

	return a
}

// MaskArgs returns a copy of args with sensitive elements masked.
func MaskArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if isSensitiveValue(arg) {
			out[i] = MaskValue
			continue
		}
		out[i] = arg
	}
	return out
}

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	if sensitiveKeys[k] {
		return true
	}
	for _, kw := range sensitiveKeywords {
		if strings.Contains(k, kw) {
			return true
		}
	}
	return false
}

func isSensitiveValue(v string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(v) {
			return true
		}
	}
	return false
}

// Level names accepted by New.
const (
	LevelQuiet   = "quiet"
	LevelNormal  = "normal"
	LevelVerbose = "verbose"
)

// New returns a text logger writing to w behind a SecureHandler.
// Quiet logs errors only, normal logs warnings, verbose logs everything.
func New(w io.Writer, level string) *slog.Logger {
	lvl := slog.LevelWarn
	switch level {
	case LevelQuiet:
		lvl = slog.LevelError
	case LevelVerbose:
		lvl = slog.LevelDebug
	}

	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(NewSecureHandler(text))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
