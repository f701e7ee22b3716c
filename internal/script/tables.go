package script

// Devanagari block boundaries (U+0900..U+097F).
const (
	devanagariFirst = '\u0900'
	devanagariLast  = '\u097f'

	virama      = '्'
	nukta       = '़'
	anusvara    = 'ं'
	visarga     = 'ः'
	candrabindu = 'ँ'
	avagraha    = 'ऽ'
	om          = 'ॐ'
	danda       = '।'
	doubleDanda = '॥'

	zeroWidthNonJoiner = '\u200c'
	zeroWidthJoiner    = '\u200d'
)

// consonants maps Devanagari consonant letters to IAST. Each carries an
// inherent 'a' unless followed by a vowel sign or virama.
var consonants = map[rune]string{
	'क': "k", 'ख': "kh", 'ग': "g", 'घ': "gh", 'ङ': "ṅ",
	'च': "c", 'छ': "ch", 'ज': "j", 'झ': "jh", 'ञ': "ñ",
	'ट': "ṭ", 'ठ': "ṭh", 'ड': "ḍ", 'ढ': "ḍh", 'ण': "ṇ",
	'त': "t", 'थ': "th", 'द': "d", 'ध': "dh", 'न': "n",
	'प': "p", 'फ': "ph", 'ब': "b", 'भ': "bh", 'म': "m",
	'य': "y", 'र': "r", 'ल': "l", 'व': "v",
	'श': "ś", 'ष': "ṣ", 'स': "s", 'ह': "h",
	'ळ': "ḻ",
}

// independentVowels maps vowel letters written at syllable start.
var independentVowels = map[rune]string{
	'अ': "a", 'आ': "ā", 'इ': "i", 'ई': "ī", 'उ': "u", 'ऊ': "ū",
	'ऋ': "ṛ", 'ॠ': "ṝ", 'ऌ': "ḷ", 'ॡ': "ḹ",
	'ए': "e", 'ऐ': "ai", 'ओ': "o", 'औ': "au",
}

// vowelSigns maps dependent vowel signs (mātrās) that replace the inherent 'a'.
var vowelSigns = map[rune]string{
	'ा': "ā", 'ि': "i", 'ी': "ī", 'ु': "u", 'ू': "ū",
	'ृ': "ṛ", 'ॄ': "ṝ", 'ॢ': "ḷ", 'ॣ': "ḹ",
	'े': "e", 'ै': "ai", 'ो': "o", 'ौ': "au",
}

// marks maps the remaining Devanagari signs that stand on their own.
var marks = map[rune]string{
	anusvara:    "ṃ",
	visarga:     "ḥ",
	candrabindu: "m̐",
	avagraha:    "'",
	om:          "oṃ",
	danda:       "|",
	doubleDanda: "||",
	'०': "0", '१': "1", '२': "2", '३': "3", '४': "4",
	'५': "5", '६': "6", '७': "7", '८': "8", '९': "9",
}

// Reverse tables for IAST -> Devanagari, built from the forward tables.
var (
	latinConsonants = invert(consonants)
	latinVowels     = invert(independentVowels)
	latinVowelSigns = invert(vowelSigns)
	latinMarks      = map[string]rune{
		"ṃ":  anusvara,
		"ḥ":  visarga,
		"'":  avagraha,
		"|":  danda,
		"||": doubleDanda,
		"0": '०', "1": '१', "2": '२', "3": '३', "4": '४',
		"5": '५', "6": '६', "7": '७', "8": '८', "9": '९',
	}
	// maxTokenRunes is the longest IAST token in runes ("kh", "ai", "||").
	maxTokenRunes = 2
)

func invert(m map[rune]string) map[string]rune {
	out := make(map[string]rune, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
