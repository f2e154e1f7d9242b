package heuristic

// stopwords holds common function words excluded from keyword extraction.
// The set covers English and Turkish, the two languages the note corpus
// actually contains. Tokens shorter than three runes are filtered before the
// set is consulted, so two-letter function words are omitted.
var stopwords = map[string]struct{}{}

func init() {
	words := []string{
		// English
		"the", "and", "for", "are", "but", "not", "you", "all", "can",
		"had", "has", "have", "her", "his", "him", "how", "its", "was",
		"were", "been", "being", "one", "our", "out", "who", "why", "did",
		"does", "that", "this", "these", "those", "with", "they", "them",
		"their", "there", "then", "than", "what", "when", "where", "which",
		"will", "would", "could", "should", "from", "into", "onto", "over",
		"under", "about", "after", "before", "also", "just", "only", "some",
		"such", "very", "like", "more", "most", "much", "any", "both",
		"each", "because", "while", "during", "between",
		// Turkish
		"ama", "ancak", "bazı", "belki", "ben", "bir", "biri", "birkaç",
		"biz", "bunu", "bunun", "çok", "çünkü", "daha", "değil", "diye",
		"eğer", "gibi", "hem", "hep", "her", "hiç", "ile", "için", "ise",
		"işte", "kadar", "kendi", "nasıl", "neden", "nerede", "onlar",
		"sen", "siz", "sonra", "şey", "var", "veya", "yani", "yok",
	}
	for _, w := range words {
		stopwords[w] = struct{}{}
	}
}
