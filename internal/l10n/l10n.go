// Package l10n holds the translated strings of the webhooks screen.
package l10n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys
const (
	KeyPage           = "webhooks.page"
	KeyDescription    = "webhooks.description"
	KeyLoading        = "webhooks.loading"
	KeyCreate         = "webhooks.create"
	KeyMaximumReached = "webhooks.maximum_reached"
	KeyNoResult       = "webhooks.no_result"
	KeyName           = "webhooks.name"
	KeyURL            = "webhooks.url"
	KeyKey            = "webhooks.key"
	KeyCount          = "webhooks.count"
	KeyCreated        = "webhooks.created"
	KeyUpdated        = "webhooks.updated"
	KeyDeleted        = "webhooks.deleted"
	KeyScopeGlobal    = "webhooks.scope.global"
)

var supported = []language.Tag{language.English, language.Russian}

var matcher = language.NewMatcher(supported)

var messages = map[language.Tag]map[string]string{
	language.English: {
		KeyPage:           "Webhooks",
		KeyDescription:    "Webhooks are used to notify external services when a project analysis is done.",
		KeyLoading:        "Loading...",
		KeyCreate:         "Create",
		KeyMaximumReached: "You've reached the maximum number of %d webhooks.",
		KeyNoResult:       "No webhook defined.",
		KeyName:           "Name",
		KeyURL:            "URL",
		KeyKey:            "Key",
		KeyCount:          "%d of %d",
		KeyCreated:        "Webhook %q created with key %s.",
		KeyUpdated:        "Webhook %s updated.",
		KeyDeleted:        "Webhook %s deleted.",
		KeyScopeGlobal:    "global",
	},
	language.Russian: {
		KeyPage:           "Вебхуки",
		KeyDescription:    "Вебхуки уведомляют внешние сервисы о завершении анализа проекта.",
		KeyLoading:        "Загрузка...",
		KeyCreate:         "Создать",
		KeyMaximumReached: "Достигнуто максимальное количество вебхуков: %d.",
		KeyNoResult:       "Вебхуки не настроены.",
		KeyName:           "Название",
		KeyURL:            "URL",
		KeyKey:            "Ключ",
		KeyCount:          "%d из %d",
		KeyCreated:        "Вебхук %q создан с ключом %s.",
		KeyUpdated:        "Вебхук %s обновлён.",
		KeyDeleted:        "Вебхук %s удалён.",
		KeyScopeGlobal:    "глобально",
	},
}

var cat = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range messages {
		for key, msg := range entries {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Translator formats messages for one locale
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a translator for the closest supported match of locale.
// Unknown or empty locales fall back to English.
func New(locale string) *Translator {
	tag := language.English
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			_, idx, _ := matcher.Match(parsed)
			tag = supported[idx]
		}
	}
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}
}

// Language returns the locale the translator resolved to
func (t *Translator) Language() language.Tag {
	return t.tag
}

// T translates key and formats it with args
func (t *Translator) T(key string, args ...interface{}) string {
	return t.printer.Sprintf(key, args...)
}

// Supported lists the available locales
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}
