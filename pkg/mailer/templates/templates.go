package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

const Confirmation = "confirmation"

var subjects = map[string]string{
	Confirmation: "Confirm your email address",
}

// EmailData defines the fields available to every template.
type EmailData struct {
	Name        string    `json:"Name"`
	Email       string    `json:"Email"`
	ActionURL   string    `json:"ActionURL"`
	ExpiresAt   time.Time `json:"ExpiresAt"`
	AppName     string    `json:"AppName"`
	CompanyName string    `json:"CompanyName"`
	LogoURL     string    `json:"LogoURL"`
	SupportURL  string    `json:"SupportURL"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// FromMap is the inverse of ToMap, used by the worker on dequeued jobs.
func FromMap(m map[string]any) (EmailData, error) {
	var d EmailData
	b, err := json.Marshal(m)
	if err != nil {
		return d, err
	}
	err = json.Unmarshal(b, &d)
	return d, err
}

var funcs = map[string]any{
	"datetime": func(t time.Time) string { return t.UTC().Format("02 January 2006, 15:04 MST") },
}

// Render renders subject, plain text and HTML bodies of a named template.
func Render(name string, data EmailData) (subject, text, html string, err error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}

	tt, err := texttpl.New(name+".txt.tmpl").Funcs(funcs).ParseFS(FS, name+".txt.tmpl")
	if err != nil {
		return "", "", "", err
	}
	var tb bytes.Buffer
	if err := tt.Execute(&tb, data); err != nil {
		return "", "", "", err
	}

	ht, err := htmpl.New(name+".html.tmpl").Funcs(funcs).ParseFS(FS, name+".html.tmpl")
	if err != nil {
		return "", "", "", err
	}
	var hb bytes.Buffer
	if err := ht.Execute(&hb, data); err != nil {
		return "", "", "", err
	}
	return subject, tb.String(), hb.String(), nil
}
