package translations

import (
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// OnlineToCore converts an online-style language code (underscore, e.g.
// zh_CN) to the core-style code (dash, zh-CN).
func OnlineToCore(lang string) string {
	return strings.ReplaceAll(lang, "_", "-")
}

// CoreToOnline converts a core-style language code to the online style.
func CoreToOnline(lang string) string {
	return strings.ReplaceAll(lang, "-", "_")
}

// DisplayName returns an English name for a language code in either
// style, falling back to the code itself.
func DisplayName(code string) string {
	tag, err := language.Parse(OnlineToCore(code))
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}

// DiscoverLanguages lists the online-style codes with a core-<code>.po
// catalog under dir, sorted.
func DiscoverLanguages(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "core-*.po"))
	if err != nil {
		return nil, err
	}
	langs := make([]string, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		langs = append(langs, strings.TrimSuffix(strings.TrimPrefix(base, "core-"), ".po"))
	}
	sort.Strings(langs)
	return langs, nil
}
