package classifier

// Stop-word lists applied in union: a token present in any list is dropped.
// Two lists because subjects and bodies commonly mix French and English.

var frenchStopWords = []string{
	"les", "des", "une", "dans", "pour", "avec", "sur", "pas", "est", "vous",
	"nous", "votre", "notre", "vos", "nos", "ils", "elles", "ont", "aux",
	"mais", "donc", "car", "que", "qui", "quoi", "dont", "cette", "ces",
	"son", "ses", "leur", "leurs", "par", "plus", "tout", "tous", "toute",
	"toutes", "être", "avoir", "fait", "faire", "comme", "bien", "aussi",
}

var englishStopWords = []string{
	"the", "and", "for", "are", "but", "not", "you", "all", "can", "had",
	"her", "was", "one", "our", "out", "day", "get", "has", "him", "his",
	"how", "its", "new", "now", "old", "see", "two", "way", "who", "did",
	"this", "that", "with", "have", "from", "they", "been", "will", "would",
	"there", "their", "what", "about", "which", "when", "your", "said",
}

var stopWords = buildStopWordSet(frenchStopWords, englishStopWords)

func buildStopWordSet(lists ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, w := range list {
			set[w] = struct{}{}
		}
	}
	return set
}
