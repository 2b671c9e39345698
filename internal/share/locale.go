package share

import (
	"fmt"
	"sort"
)

// Locale holds the pluralized phrases for the openings count. The singular form
// applies to a count of exactly one; every other count uses the plural form.
type Locale struct {
	Name     string
	Singular string
	Plural   string
}

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "pt-BR"

var locales = map[string]Locale{
	"pt-BR": {Name: "pt-BR", Singular: "%d vaga", Plural: "%d vagas"},
	"en":    {Name: "en", Singular: "%d opening", Plural: "%d openings"},
	"es":    {Name: "es", Singular: "%d vacante", Plural: "%d vacantes"},
}

// LookupLocale returns the named locale.
func LookupLocale(name string) (Locale, error) {
	if name == "" {
		name = DefaultLocale
	}
	loc, ok := locales[name]
	if !ok {
		return Locale{}, fmt.Errorf("unknown locale %q (known: %v)", name, LocaleNames())
	}
	return loc, nil
}

// LocaleNames lists the supported locale names in sorted order.
func LocaleNames() []string {
	names := make([]string, 0, len(locales))
	for name := range locales {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Openings renders the openings phrase for n.
func (l Locale) Openings(n int64) string {
	if n == 1 {
		return fmt.Sprintf(l.Singular, n)
	}
	return fmt.Sprintf(l.Plural, n)
}
