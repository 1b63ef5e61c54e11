package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	texttemplate "text/template"
)

//go:embed templates/*
var templateFS embed.FS

// QRCodeURL returns an image URL encoding data as a 200x200 QR code.
func QRCodeURL(data string) string {
	return "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=" + url.QueryEscape(data)
}

// TicketData fills the ticket templates.
type TicketData struct {
	StudentName string
	SeminarName string
	SeminarDate string
	HallName    string
	SeatLabel   string
	TicketID    string
	QRCodeURL   string
}

// Renderer executes the embedded templates.
type Renderer struct{}

// NewRenderer returns a Renderer over the embedded templates folder.
func NewRenderer() *Renderer { return &Renderer{} }

// Render executes the named template (e.g. "ticket") with data and
// returns subject, html and text bodies.
func (r *Renderer) Render(name string, data any) (subject, htmlBody, textBody string, err error) {
	subject, err = r.renderFile(name+"_subject.txt", data, false)
	if err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	htmlBody, err = r.renderFile(name+".html", data, true)
	if err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	textBody, err = r.renderFile(name+".txt", data, false)
	if err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

func (r *Renderer) renderFile(name string, data any, html bool) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if html {
		t, err := template.New(name).Parse(string(raw))
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
	} else {
		t, err := texttemplate.New(name).Parse(string(raw))
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
