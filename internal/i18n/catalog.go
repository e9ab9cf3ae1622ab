// Package i18n loads the embedded message catalogs and formats user-facing
// text in the selected language.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the source language every key must be defined in.
const BaseLocale = "en"

//go:embed locales/*/*.yaml
var embedded embed.FS

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Name      string            `yaml:"name"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle holds every loaded locale and the x/text catalog built from them.
type Bundle struct {
	messages map[string]map[string]string
	names    map[string]string
	builder  *catalog.Builder
	tags     []language.Tag
	matcher  language.Matcher
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) { return LoadFromFS(embedded) }

// LoadFromFS loads locales/<locale>/<namespace>.yaml files from fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{
		messages: map[string]map[string]string{},
		names:    map[string]string{},
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.addFile(p, file); err != nil {
			return nil, err
		}
	}
	if _, ok := b.messages[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	if err := b.build(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bundle) addFile(p string, file catalogFile) error {
	dirLocale := path.Base(path.Dir(p))
	if strings.TrimSpace(file.Locale) != dirLocale {
		return fmt.Errorf("catalog %s: locale %q must match directory %q", p, file.Locale, dirLocale)
	}
	if file.Messages == nil {
		return fmt.Errorf("catalog %s: messages map is required", p)
	}
	msgs, ok := b.messages[dirLocale]
	if !ok {
		msgs = map[string]string{}
		b.messages[dirLocale] = msgs
	}
	if file.Name != "" {
		b.names[dirLocale] = file.Name
	}
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		if _, dup := msgs[key]; dup {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", p, key, dirLocale)
		}
		msgs[key] = value
	}
	return nil
}

func (b *Bundle) build() error {
	base := language.MustParse(BaseLocale)
	b.builder = catalog.NewBuilder(catalog.Fallback(base))
	b.tags = []language.Tag{base}
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		if tag != base {
			b.tags = append(b.tags, tag)
		}
		for key, value := range b.messages[locale] {
			if err := b.builder.SetString(tag, key, value); err != nil {
				return fmt.Errorf("register %s/%s: %w", locale, key, err)
			}
		}
	}
	b.matcher = language.NewMatcher(b.tags)
	return nil
}

// Locales returns the loaded locale codes, sorted.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.messages))
	for l := range b.messages {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Name returns the display name of a locale, or the code itself.
func (b *Bundle) Name(locale string) string {
	if n, ok := b.names[locale]; ok {
		return n
	}
	return locale
}

// Has reports whether locale is loaded.
func (b *Bundle) Has(locale string) bool {
	_, ok := b.messages[locale]
	return ok
}

// MissingKeys lists base-locale keys that locale does not translate.
func (b *Bundle) MissingKeys(locale string) []string {
	var out []string
	for key := range b.messages[BaseLocale] {
		if _, ok := b.messages[locale][key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// Match picks the best loaded locale for the given preferences, in order.
// Blank preferences are skipped; POSIX forms like "hi_IN.UTF-8" are accepted.
func (b *Bundle) Match(prefs ...string) string {
	for _, p := range prefs {
		p = normalise(p)
		if p == "" {
			continue
		}
		tag, err := language.Parse(p)
		if err != nil {
			continue
		}
		_, idx, conf := b.matcher.Match(tag)
		if conf != language.No {
			return b.tags[idx].String()
		}
	}
	return BaseLocale
}

func normalise(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, ".@"); i >= 0 {
		p = p[:i]
	}
	if p == "C" || p == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(p, "_", "-")
}

// Printer formats messages for locale. Unknown keys fall back to the base
// locale, then to the key itself.
func (b *Bundle) Printer(locale string) *Printer {
	base := language.MustParse(BaseLocale)
	tag, err := language.Parse(locale)
	if err != nil || !b.Has(locale) {
		tag, locale = base, BaseLocale
	}
	pr := &Printer{
		locale: locale,
		own:    b.messages[locale],
		p:      message.NewPrinter(tag, message.Catalog(b.builder)),
	}
	if locale != BaseLocale {
		pr.base = message.NewPrinter(base, message.Catalog(b.builder))
	}
	return pr
}

// Printer formats localized messages.
type Printer struct {
	locale string
	own    map[string]string
	p      *message.Printer
	base   *message.Printer
}

// Locale returns the locale the printer formats for.
func (p *Printer) Locale() string { return p.locale }

// T formats the message for key with args.
func (p *Printer) T(key string, args ...any) string {
	if _, ok := p.own[key]; !ok && p.base != nil {
		return p.base.Sprintf(key, args...)
	}
	return p.p.Sprintf(key, args...)
}
