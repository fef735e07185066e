// Package langmeta maps language file names to display metadata (name and
// emoji flag) for status output.
//
// Language files in the game tree are named either by ISO code (fr.json,
// pt-BR.json) or by lowercase English name (french.json,
// simplified_chinese.json); both forms resolve.
package langmeta

import "strings"

// Meta describes language display metadata.
type Meta struct {
	Code string
	Name string
	Flag string
}

type entry struct {
	code   string
	name   string
	region string
}

// byCode is keyed by canonical language code.
var byCode = map[string]entry{
	"ar":      {"ar", "Arabic", "SA"},
	"be":      {"be", "Belarusian", "BY"},
	"bg":      {"bg", "Bulgarian", "BG"},
	"bs":      {"bs", "Bosnian", "BA"},
	"ca":      {"ca", "Catalan", "ES"},
	"cs":      {"cs", "Czech", "CZ"},
	"da":      {"da", "Danish", "DK"},
	"de":      {"de", "German", "DE"},
	"el":      {"el", "Greek", "GR"},
	"en":      {"en", "English", "US"},
	"es":      {"es", "Spanish", "ES"},
	"fa":      {"fa", "Persian", "IR"},
	"fi":      {"fi", "Finnish", "FI"},
	"fr":      {"fr", "French", "FR"},
	"hr":      {"hr", "Croatian", "HR"},
	"hu":      {"hu", "Hungarian", "HU"},
	"it":      {"it", "Italian", "IT"},
	"ja":      {"ja", "Japanese", "JP"},
	"ko":      {"ko", "Korean", "KR"},
	"nl":      {"nl", "Dutch", "NL"},
	"no":      {"no", "Norwegian", "NO"},
	"pl":      {"pl", "Polish", "PL"},
	"pt":      {"pt", "Portuguese", "PT"},
	"pt-BR":   {"pt-BR", "Brazilian Portuguese", "BR"},
	"ro":      {"ro", "Romanian", "RO"},
	"ru":      {"ru", "Russian", "RU"},
	"sk":      {"sk", "Slovak", "SK"},
	"sl":      {"sl", "Slovenian", "SI"},
	"sr":      {"sr", "Serbian", "RS"},
	"sv":      {"sv", "Swedish", "SE"},
	"tr":      {"tr", "Turkish", "TR"},
	"uk":      {"uk", "Ukrainian", "UA"},
	"zh-Hans": {"zh-Hans", "Simplified Chinese", "CN"},
	"zh-Hant": {"zh-Hant", "Traditional Chinese", "TW"},
}

// byFileName maps legacy English file names to codes.
var byFileName = map[string]string{
	"arabic":               "ar",
	"belarusian":           "be",
	"bosnian":              "bs",
	"brazilian_portuguese": "pt-BR",
	"bulgarian":            "bg",
	"catalan":              "ca",
	"chuvash":              "cv",
	"croatian":             "hr",
	"czech":                "cs",
	"danish":               "da",
	"dutch":                "nl",
	"finnish":              "fi",
	"french":               "fr",
	"german":               "de",
	"greek":                "el",
	"hungarian":            "hu",
	"italian":              "it",
	"japanese":             "ja",
	"korean":               "ko",
	"norwegian":            "no",
	"persian":              "fa",
	"polish":               "pl",
	"portuguese":           "pt",
	"romanian":             "ro",
	"russian":              "ru",
	"serbian":              "sr",
	"simplified_chinese":   "zh-Hans",
	"slovak":               "sk",
	"slovenian":            "sl",
	"spanish":              "es",
	"swedish":              "sv",
	"traditional_chinese":  "zh-Hant",
	"turkish":              "tr",
	"ukrainian":            "uk",
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		switch len(parts[1]) {
		case 2:
			parts[1] = strings.ToUpper(parts[1])
		case 4:
			parts[1] = strings.ToUpper(parts[1][:1]) + strings.ToLower(parts[1][1:])
		}
	}
	return strings.Join(parts, "-")
}

// FlagFromRegion returns the emoji flag for a two-letter region code, or ""
// when region is not two ASCII letters.
func FlagFromRegion(region string) string {
	if len(region) != 2 {
		return ""
	}
	region = strings.ToUpper(region)
	var b strings.Builder
	for i := 0; i < 2; i++ {
		c := region[i]
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(rune(0x1F1E6 + int(c-'A')))
	}
	return b.String()
}

// Resolve returns best-effort metadata for a language file name or code.
// Unknown languages keep their input as name and have no flag.
func Resolve(lang string) Meta {
	if code, ok := byFileName[strings.ToLower(strings.TrimSpace(lang))]; ok {
		if e, ok := byCode[code]; ok {
			return e.meta()
		}
		return Meta{Code: code, Name: lang}
	}

	normalized := canonicalize(lang)
	if e, ok := byCode[normalized]; ok {
		return e.meta()
	}
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		if e, ok := byCode[parts[0]]; ok {
			m := e.meta()
			m.Code = normalized
			if flag := FlagFromRegion(parts[1]); flag != "" {
				m.Flag = flag
			}
			return m
		}
	}
	return Meta{Code: lang, Name: lang}
}

func (e entry) meta() Meta {
	return Meta{Code: e.code, Name: e.name, Flag: FlagFromRegion(e.region)}
}
