package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

// Client is a coarse, non-identifying description of the browser that made a request.
// It is attached to consent notifications so a decision can be traced to a client class
// without storing the raw User-Agent or any address.
type Client struct {
	Browser  string `json:"browser"`
	OS       string `json:"os"`
	Platform string `json:"platform"`
	Bot      bool   `json:"bot"`
}

type clientKey struct{}

// ClientMetadata parses the User-Agent header and stores the resulting Client in context.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithClient(r.Context(), ParseClient(r.UserAgent()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ParseClient derives a Client from a raw User-Agent string.
func ParseClient(userAgent string) Client {
	if strings.TrimSpace(userAgent) == "" {
		return Client{Browser: "unknown", OS: "unknown", Platform: "unknown"}
	}
	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()

	platform := "desktop"
	if ua.Mobile() {
		platform = "mobile"
	}
	return Client{
		Browser:  normalize(browser),
		OS:       normalize(ua.OS()),
		Platform: platform,
		Bot:      ua.Bot(),
	}
}

// WithClient stores c in ctx.
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// GetClient returns the Client stored by ClientMetadata, if any.
func GetClient(ctx context.Context) (Client, bool) {
	c, ok := ctx.Value(clientKey{}).(Client)
	return c, ok
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return s
}
