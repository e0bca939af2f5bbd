// Package iso639 maps the language names used by the profile database to
// ISO 639-1 two-letter and ISO 639-2/T three-letter codes.
package iso639

import (
	"strings"

	"golang.org/x/text/language"
)

type codes struct {
	two   string // empty when ISO 639-1 has no code
	three string
}

var table = map[string]codes{
	"albanian":   {"sq", "sqi"},
	"arabic":     {"ar", "ara"},
	"azeri":      {"az", "aze"},
	"bengali":    {"bn", "ben"},
	"bulgarian":  {"bg", "bul"},
	"cebuano":    {"", "ceb"},
	"croatian":   {"hr", "hrv"},
	"czech":      {"cs", "ces"},
	"danish":     {"da", "dan"},
	"dutch":      {"nl", "nld"},
	"english":    {"en", "eng"},
	"estonian":   {"et", "est"},
	"farsi":      {"fa", "fas"},
	"finnish":    {"fi", "fin"},
	"french":     {"fr", "fra"},
	"german":     {"de", "deu"},
	"hausa":      {"ha", "hau"},
	"hawaiian":   {"", "haw"},
	"hindi":      {"hi", "hin"},
	"hungarian":  {"hu", "hun"},
	"icelandic":  {"is", "isl"},
	"indonesian": {"id", "ind"},
	"italian":    {"it", "ita"},
	"kazakh":     {"kk", "kaz"},
	"kyrgyz":     {"ky", "kir"},
	"latin":      {"la", "lat"},
	"latvian":    {"lv", "lav"},
	"lithuanian": {"lt", "lit"},
	"macedonian": {"mk", "mkd"},
	"mongolian":  {"mn", "mon"},
	"nepali":     {"ne", "nep"},
	"norwegian":  {"no", "nor"},
	"pashto":     {"ps", "pus"},
	"pidgin":     {"", "crp"},
	"polish":     {"pl", "pol"},
	"portuguese": {"pt", "por"},
	"romanian":   {"ro", "ron"},
	"russian":    {"ru", "rus"},
	"serbian":    {"sr", "srp"},
	"slovak":     {"sk", "slk"},
	"slovene":    {"sl", "slv"},
	"somali":     {"so", "som"},
	"spanish":    {"es", "spa"},
	"swahili":    {"sw", "swa"},
	"swedish":    {"sv", "swe"},
	"tagalog":    {"tl", "tgl"},
	"turkish":    {"tr", "tur"},
	"ukrainian":  {"uk", "ukr"},
	"urdu":       {"ur", "urd"},
	"uzbek":      {"uz", "uzb"},
	"vietnamese": {"vi", "vie"},
	"welsh":      {"cy", "cym"},
}

var byCode = func() map[string]string {
	m := make(map[string]string, 2*len(table))
	for name, c := range table {
		if c.two != "" {
			m[c.two] = name
		}
		m[c.three] = name
	}
	return m
}()

// Code2 returns the ISO 639-1 code of a language name.
func Code2(name string) (string, bool) {
	c, ok := table[strings.ToLower(name)]
	if !ok || c.two == "" {
		return "", false
	}
	return c.two, true
}

// Code3 returns the ISO 639-2/T code of a language name.
func Code3(name string) (string, bool) {
	c, ok := table[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return c.three, true
}

// NameForCode returns the language name of a two- or three-letter code.
func NameForCode(code string) (string, bool) {
	name, ok := byCode[strings.ToLower(strings.TrimSpace(code))]
	return name, ok
}

// Tag returns the BCP 47 tag of a language name.
func Tag(name string) (language.Tag, bool) {
	code, ok := Code2(name)
	if !ok {
		if code, ok = Code3(name); !ok {
			return language.Und, false
		}
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
