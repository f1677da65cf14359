package extractor

// stopWords 支持语言对的常见虚词表（英语 + 西班牙语），小写比较
var stopWords = map[string]bool{}

func init() {
	lists := [][]string{
		// 英语
		{
			"the", "and", "for", "with", "that", "this", "these", "those",
			"are", "was", "were", "been", "being", "shall", "will", "may",
			"must", "can", "could", "would", "should", "any", "all", "such",
			"other", "than", "but", "not", "nor", "its", "his", "her",
			"their", "them", "they", "our", "your", "you", "who", "whom",
			"whose", "which", "when", "where", "what", "have", "has", "had",
			"does", "did", "from", "into", "upon", "under", "over", "about",
			"between", "aforesaid", "hereby", "herein", "thereof",
		},
		// 西班牙语
		{
			"los", "las", "una", "unos", "unas", "del", "que", "sus",
			"por", "para", "con", "sin", "son", "fue", "fueron", "ser",
			"está", "están", "como", "más", "pero", "les", "este", "esta",
			"estos", "estas", "ese", "esa", "esos", "esas", "cual", "cuales",
			"donde", "cuando", "entre", "sobre", "también", "muy", "hay",
			"cada", "todo", "toda", "todos", "todas", "otro", "otra",
			"otros", "otras", "dicho", "dicha", "mediante", "según",
		},
	}
	for _, list := range lists {
		for _, w := range list {
			stopWords[w] = true
		}
	}
}
