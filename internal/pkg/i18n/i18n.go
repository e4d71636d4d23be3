// Package i18n renders user-facing notification text from embedded locale files.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

type Translator struct {
	bundle        *i18n.Bundle
	defaultLocale string
}

// New loads every embedded locale file. defaultLocale is used when a caller
// passes an empty locale.
func New(defaultLocale string) (*Translator, error) {
	if defaultLocale == "" {
		defaultLocale = "en"
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", e.Name(), err)
		}
	}

	slog.Debug("i18n locales loaded", "files", len(entries), "default", defaultLocale)
	return &Translator{bundle: bundle, defaultLocale: defaultLocale}, nil
}

func (t *Translator) DefaultLocale() string {
	return t.defaultLocale
}

// T translates messageID. Missing messages come back as the id itself.
func (t *Translator) T(locale, messageID string, templateData map[string]string) string {
	if locale == "" {
		locale = t.defaultLocale
	}
	l := i18n.NewLocalizer(t.bundle, locale, t.defaultLocale)

	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if templateData != nil {
		cfg.TemplateData = templateData
	}

	msg, err := l.Localize(cfg)
	if err != nil {
		return messageID
	}
	return msg
}
