// Package lang holds the localization table for page string literals.
package lang

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Literals is a block of fixed strings handed to a page template.
type Literals map[string]string

// SearchLiterals are the search page strings; the description depends on
// the number of indexed entries.
type SearchLiterals struct {
	Title          string
	descriptionFmt string
	printer        *message.Printer
}

// PageDescription returns the search page description for count entries.
func (s SearchLiterals) PageDescription(count int) string {
	return s.printer.Sprintf(s.descriptionFmt, count)
}

// Table is a read-only localization table.
type Table struct {
	Tag      language.Tag
	About    Literals
	Cookies  Literals
	Settings Literals
	Search   SearchLiterals
}

// Block resolves a static page literal block by key.
func (t *Table) Block(key string) (Literals, error) {
	switch key {
	case "about":
		return t.About, nil
	case "cookies":
		return t.Cookies, nil
	case "settings":
		return t.Settings, nil
	default:
		return nil, fmt.Errorf("unknown literals block %q", key)
	}
}

// English returns the built-in English table.
func English() *Table {
	printer := message.NewPrinter(language.English)
	return &Table{
		Tag: language.English,
		About: Literals{
			"title":           "About",
			"pageDescription": "A few words about the people behind the snippets and how the collection came to be.",
			"ownership":       "Every snippet is licensed under CC-BY-4.0 unless stated otherwise.",
		},
		Cookies: Literals{
			"title":           "Cookie policy",
			"pageDescription": "Read about the cookie policy of this site.",
			"cookieDisclaimer": "This site uses cookies only to remember your settings and, " +
				"with your consent, to collect anonymous usage statistics.",
		},
		Settings: Literals{
			"title":           "Settings",
			"pageDescription": "Adjust your preferences for this site.",
			"darkMode":        "Dark mode",
			"githubLinks":     "Show GitHub links",
			"cookieToggle":    "Allow cookies",
		},
		Search: SearchLiterals{
			Title:          "Search",
			descriptionFmt: "Browse %d short code snippets for all your development needs.",
			printer:        printer,
		},
	}
}
