// Package payload turns structured user input into the text encoded in a
// QR symbol.
package payload

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// Kind names an input form.
type Kind string

const (
	KindURL   Kind = "url"
	KindText  Kind = "text"
	KindWiFi  Kind = "wifi"
	KindVCard Kind = "vcard"
	KindEmail Kind = "email"
	KindPhone Kind = "phone"
)

const (
	maxURLLength  = 4096
	displayLength = 50
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var wifiEscaper = strings.NewReplacer(
	`\`, `\\`,
	`;`, `\;`,
	`,`, `\,`,
	`"`, `\"`,
	`'`, `\'`,
	`:`, `\:`,
)

// Payload is the encoded text plus a short label for listings.
type Payload struct {
	Kind    Kind   `json:"type"`
	Data    string `json:"data"`
	Display string `json:"display"`
}

// Input carries the fields of every input form. Only the fields of the
// selected kind are read.
type Input struct {
	URL  string `json:"url,omitempty"`
	Text string `json:"text,omitempty"`

	SSID       string `json:"ssid,omitempty"`
	Password   string `json:"password,omitempty"`
	Encryption string `json:"encryption,omitempty"`
	Hidden     bool   `json:"hidden,omitempty"`

	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Company   string `json:"company,omitempty"`
	Title     string `json:"title,omitempty"`
	Website   string `json:"website,omitempty"`

	Address string `json:"address,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`

	Number string `json:"number,omitempty"`
}

// ValidationError reports the input field that was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Build validates in for kind and returns the payload to encode.
func Build(ctx context.Context, kind Kind, in Input) (Payload, error) {
	var (
		p   Payload
		err error
	)

	switch kind {
	case KindURL:
		p, err = buildURL(in)
	case KindText:
		p, err = buildText(in)
	case KindWiFi:
		p, err = buildWiFi(in)
	case KindVCard:
		p, err = buildVCard(in)
	case KindEmail:
		p, err = buildEmail(in)
	case KindPhone:
		p, err = buildPhone(in)
	default:
		err = &ValidationError{Field: "type", Message: fmt.Sprintf("unknown payload type %q", kind)}
	}

	if err != nil {
		logRejected(ctx, kind, err)
		return Payload{}, err
	}
	p.Kind = kind
	return p, nil
}

// Restore rebuilds a payload from already encoded data, as carried by a
// share link or a history entry.
func Restore(ctx context.Context, kind Kind, data string) (Payload, error) {
	if data == "" {
		err := &ValidationError{Field: "data", Message: "cannot be empty"}
		logRejected(ctx, kind, err)
		return Payload{}, err
	}

	p := Payload{Kind: kind, Data: data}
	switch kind {
	case KindURL:
		p.Display = data
	case KindText:
		p.Display = truncate(data)
	case KindPhone:
		p.Display = strings.TrimPrefix(data, "tel:")
	case KindEmail:
		addr := strings.TrimPrefix(data, "mailto:")
		addr, _, _ = strings.Cut(addr, "?")
		p.Display = addr
	case KindWiFi:
		p.Display = "WiFi: " + wifiField(data, "S:")
	case KindVCard:
		p.Display = vcardField(data, "FN:")
	default:
		err := &ValidationError{Field: "type", Message: fmt.Sprintf("unknown payload type %q", kind)}
		logRejected(ctx, kind, err)
		return Payload{}, err
	}
	return p, nil
}

func buildURL(in Input) (Payload, error) {
	raw := strings.TrimSpace(in.URL)
	if raw == "" {
		return Payload{}, &ValidationError{Field: "url", Message: "cannot be empty"}
	}

	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "https://" + raw
	}
	if len(raw) > maxURLLength {
		return Payload{}, &ValidationError{Field: "url", Message: fmt.Sprintf("longer than %d bytes", maxURLLength)}
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Payload{}, &ValidationError{Field: "url", Message: "not a valid URL"}
	}
	return Payload{Data: raw, Display: raw}, nil
}

func buildText(in Input) (Payload, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return Payload{}, &ValidationError{Field: "text", Message: "cannot be empty"}
	}
	return Payload{Data: text, Display: truncate(text)}, nil
}

func buildWiFi(in Input) (Payload, error) {
	ssid := strings.TrimSpace(in.SSID)
	if ssid == "" {
		return Payload{}, &ValidationError{Field: "ssid", Message: "network name cannot be empty"}
	}

	enc := strings.TrimSpace(in.Encryption)
	if enc == "" {
		enc = "WPA"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "WIFI:T:%s;S:%s;", enc, wifiEscaper.Replace(ssid))
	if in.Password != "" && enc != "nopass" {
		fmt.Fprintf(&b, "P:%s;", wifiEscaper.Replace(in.Password))
	}
	fmt.Fprintf(&b, "H:%t;;", in.Hidden)

	return Payload{Data: b.String(), Display: "WiFi: " + ssid}, nil
}

func buildVCard(in Input) (Payload, error) {
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" && last == "" {
		return Payload{}, &ValidationError{Field: "name", Message: "enter at least a first or last name"}
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCARD\nVERSION:3.0\n")
	fmt.Fprintf(&b, "N:%s;%s;;;\n", last, first)
	fmt.Fprintf(&b, "FN:%s %s\n", first, last)
	for _, line := range []struct{ tag, value string }{
		{"TEL", in.Phone},
		{"EMAIL", in.Email},
		{"ORG", in.Company},
		{"TITLE", in.Title},
		{"URL", in.Website},
	} {
		if v := strings.TrimSpace(line.value); v != "" {
			fmt.Fprintf(&b, "%s:%s\n", line.tag, v)
		}
	}
	b.WriteString("END:VCARD")

	return Payload{Data: b.String(), Display: strings.TrimSpace(first + " " + last)}, nil
}

func buildEmail(in Input) (Payload, error) {
	addr := strings.TrimSpace(in.Address)
	if addr == "" {
		return Payload{}, &ValidationError{Field: "address", Message: "cannot be empty"}
	}
	if !emailPattern.MatchString(addr) {
		return Payload{}, &ValidationError{Field: "address", Message: "not a valid email address"}
	}

	var params []string
	if s := strings.TrimSpace(in.Subject); s != "" {
		params = append(params, "subject="+componentEscape(s))
	}
	if s := strings.TrimSpace(in.Body); s != "" {
		params = append(params, "body="+componentEscape(s))
	}

	data := "mailto:" + addr
	if len(params) > 0 {
		data += "?" + strings.Join(params, "&")
	}
	return Payload{Data: data, Display: addr}, nil
}

func buildPhone(in Input) (Payload, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return Payload{}, &ValidationError{Field: "number", Message: "cannot be empty"}
	}
	return Payload{Data: "tel:" + number, Display: number}, nil
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= displayLength {
		return s
	}
	return string([]rune(s)[:displayLength]) + "..."
}

// componentEscape escapes spaces as %20 rather than +.
func componentEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// wifiField returns the unescaped value following tag in a WIFI: string.
func wifiField(data, tag string) string {
	i := strings.Index(data, tag)
	if i < 0 {
		return ""
	}

	var b strings.Builder
	escaped := false
	for _, r := range data[i+len(tag):] {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ';':
			return b.String()
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func vcardField(data, tag string) string {
	for _, line := range strings.Split(data, "\n") {
		if strings.HasPrefix(line, tag) {
			return strings.TrimSpace(strings.TrimPrefix(line, tag))
		}
	}
	return ""
}

func logRejected(ctx context.Context, kind Kind, err error) {
	field := ""
	if ve, ok := err.(*ValidationError); ok {
		field = ve.Field
	}

	logger.CtxWarn(ctx, "Payload rejected", logger.LoggerInfo{
		ContextFunction: constant.CtxPayload,
		Error: &logger.CustomError{
			Code:    constant.ErrCodeInvalidPayload,
			Message: err.Error(),
			Type:    constant.ErrTypeValidation,
		},
		Data: map[string]interface{}{
			constant.DataKind:  string(kind),
			constant.DataField: field,
		},
	})
}
