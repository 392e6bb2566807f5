// Package i18n loads the locale-keyed message and configuration catalogs
// used for help text, user-facing messages and the generated config file.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when no locale is configured or the configured one
// has no catalog.
const DefaultLocale = "en"

//go:embed locales/*.yaml
var locales embed.FS

// Catalog maps translation keys to localized strings
type Catalog map[string]string

// Get returns the translation for key, or the key itself when missing
func (c Catalog) Get(key string) string {
	if v, ok := c[key]; ok {
		return v
	}
	return key
}

// Keys returns the catalog keys in lexical order
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bundle groups the catalogs of one locale
type Bundle struct {
	Locale   string
	Messages Catalog
	Config   Catalog
}

// Load builds the bundle for locale. Keys missing from the locale fall back
// to the default locale; an unknown locale yields the default bundle.
func Load(locale string) (*Bundle, error) {
	messages, err := readCatalog("messages", DefaultLocale)
	if err != nil {
		return nil, err
	}
	config, err := readCatalog("config", DefaultLocale)
	if err != nil {
		return nil, err
	}

	b := &Bundle{Locale: DefaultLocale, Messages: messages, Config: config}
	if locale == "" || locale == DefaultLocale {
		return b, nil
	}

	localMessages, err := readCatalog("messages", locale)
	if errors.Is(err, fs.ErrNotExist) {
		return b, nil
	}
	if err != nil {
		return nil, err
	}
	localConfig, err := readCatalog("config", locale)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	overlay(b.Messages, localMessages)
	overlay(b.Config, localConfig)
	b.Locale = locale
	return b, nil
}

func readCatalog(kind, locale string) (Catalog, error) {
	data, err := locales.ReadFile(fmt.Sprintf("locales/%s_%s.yaml", kind, locale))
	if err != nil {
		return nil, err
	}

	c := Catalog{}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse %s catalog for %s: %w", kind, locale, err)
	}
	return c, nil
}

func overlay(dst, src Catalog) {
	for k, v := range src {
		dst[k] = v
	}
}

// supported lists the locales with a catalog; the first is the fallback
var supported = []language.Tag{language.English, language.Italian}

var matcher = language.NewMatcher(supported)

// DetectLocale derives the catalog locale from LC_ALL, LC_MESSAGES and LANG,
// in that order. "it_IT.UTF-8" becomes "it"; "C", "POSIX" and locales
// without a catalog map to the default locale.
func DetectLocale(lookup func(string) (string, bool)) string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		return matchLocale(v)
	}
	return DefaultLocale
}

// matchLocale strips the POSIX codeset and modifier, parses the rest as a
// language tag and returns the base language of the closest catalog
func matchLocale(v string) string {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "C" || v == "POSIX" {
		return DefaultLocale
	}
	tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
	if err != nil {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultLocale
	}
	base, _ := supported[index].Base()
	return base.String()
}
