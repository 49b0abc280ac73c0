package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other locale falls back to.
const BaseLocale = "en"

//go:embed locales/*.yaml
var embeddedLocales embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog resolves message keys for one active language.
// It is safe for concurrent use.
type Catalog struct {
	locales map[string]map[string]string
	tags    []language.Tag
	names   []string
	matcher language.Matcher

	mu     sync.RWMutex
	active string
}

// New loads the embedded locales and activates the best match for lang.
func New(lang string) (*Catalog, error) {
	return LoadFromFS(embeddedLocales, lang)
}

// LoadFromFS loads locales/*.yaml from fsys and activates the best match for lang.
func LoadFromFS(fsys fs.FS, lang string) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	c := &Catalog{locales: make(map[string]map[string]string)}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", p, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", p, err)
		}
		if err := c.add(p, file); err != nil {
			return nil, err
		}
	}

	if _, ok := c.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}

	// The matcher falls back to its first tag.
	c.names = make([]string, 0, len(c.locales))
	c.names = append(c.names, BaseLocale)
	for name := range c.locales {
		if name != BaseLocale {
			c.names = append(c.names, name)
		}
	}
	sort.Strings(c.names[1:])
	c.tags = make([]language.Tag, len(c.names))
	for i, name := range c.names {
		c.tags[i] = language.Make(name)
	}
	c.matcher = language.NewMatcher(c.tags)

	c.SetLanguage(lang)
	return c, nil
}

func (c *Catalog) add(p string, file localeFile) error {
	fromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))
	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("locale %s: locale is required", p)
	}
	if locale != fromPath {
		return fmt.Errorf("locale %s: locale %q must match file name %q", p, locale, fromPath)
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("locale %s: %w", p, err)
	}
	if file.Messages == nil {
		return fmt.Errorf("locale %s: messages map is required", p)
	}

	messages := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("locale %s: message key cannot be blank", p)
		}
		messages[key] = value
	}
	c.locales[locale] = messages
	return nil
}

// SetLanguage activates the available locale closest to lang and returns it.
// Unknown or malformed tags select the base locale.
func (c *Catalog) SetLanguage(lang string) string {
	_, index := language.MatchStrings(c.matcher, lang)
	name := c.names[index]

	c.mu.Lock()
	c.active = name
	c.mu.Unlock()
	return name
}

// Language returns the active locale.
func (c *Catalog) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Languages returns the available locales, base locale first.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.names...)
}

// GetString returns the message for key in the active language, falling
// back to the base locale and then to the key itself.
func (c *Catalog) GetString(key string) string {
	if msg, ok := c.Lookup(key); ok {
		return msg
	}
	return key
}

// Lookup is GetString without the final fallback to the key.
func (c *Catalog) Lookup(key string) (string, bool) {
	key = strings.TrimSpace(key)
	active := c.Language()
	if msg, ok := c.locales[active][key]; ok {
		return msg, true
	}
	if active != BaseLocale {
		if msg, ok := c.locales[BaseLocale][key]; ok {
			return msg, true
		}
	}
	return "", false
}

// Keys returns the sorted message keys of locale.
func (c *Catalog) Keys(locale string) []string {
	messages := c.locales[locale]
	keys := make([]string, 0, len(messages))
	for key := range messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
