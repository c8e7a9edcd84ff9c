package media

import "sort"

// Language is an extra audio track published next to the main playlist.
type Language struct {
	ID   string // Playlist stem, e.g. "audio_pl"
	Name string // Display name
	ISO  string // Three-letter code written into the container metadata
}

var languages = map[string]Language{
	"audio_ar":             {"audio_ar", "Arabic", "ara"},
	"audio_cs":             {"audio_cs", "Czech", "ces"},
	"audio_da":             {"audio_da", "Danish", "dan"},
	"audio_nl":             {"audio_nl", "Dutch", "nld"},
	"audio_en_descriptive": {"audio_en_descriptive", "English (Descriptive)", "eng"},
	"audio_fi":             {"audio_fi", "Finnish", "fin"},
	"audio_fr":             {"audio_fr", "French", "fre"},
	"audio_de":             {"audio_de", "German", "ger"},
	"audio_he":             {"audio_he", "Hebrew", "heb"},
	"audio_it":             {"audio_it", "Italian", "ita"},
	"audio_cmn-TW":         {"audio_cmn-TW", "Mandarin Chinese (Taiwan)", "chi"},
	"audio_nb":             {"audio_nb", "Norwegian Bokmal", "nor"},
	"audio_pl":             {"audio_pl", "Polish", "pol"},
	"audio_pt-BR":          {"audio_pt-BR", "Portuguese (Brazil)", "por"},
	"audio_pt-PT":          {"audio_pt-PT", "Portuguese (Portugal)", "por"},
	"audio_ro":             {"audio_ro", "Romanian", "ron"},
	"audio_ru":             {"audio_ru", "Russian", "rus"},
	"audio_es-419":         {"audio_es-419", "Spanish (Latin America)", "spa"},
	"audio_es-ES":          {"audio_es-ES", "Spanish (Spain)", "spa"},
	"audio_sv":             {"audio_sv", "Swedish", "swe"},
	"audio_th":             {"audio_th", "Thai", "tha"},
	"audio_tr":             {"audio_tr", "Turkish", "tur"},
	"audio_uk":             {"audio_uk", "Ukrainian", "ukr"},
}

// LookupLanguage returns the language for a playlist stem.
func LookupLanguage(id string) (Language, bool) {
	l, ok := languages[id]
	return l, ok
}

// LanguageIDs returns every known playlist stem, sorted.
func LanguageIDs() []string {
	ids := make([]string, 0, len(languages))
	for id := range languages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
