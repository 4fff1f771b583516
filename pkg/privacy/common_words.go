package privacy

// commonWords 与人名重合的常见英文单词，默认不遮蔽
var commonWords = toSet([]string{
	"red", "blue", "green", "yellow", "orange", "purple", "pink", "brown", "black", "white", "grey",
	"gray", "violet", "rose", "lily", "amber", "jade", "ruby", "pearl", "ivory", "silver", "golden",
	"january", "february", "march", "april", "may", "june", "july", "august", "september", "october",
	"november", "december", "jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "oct", "nov",
	"dec", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday", "morning",
	"evening", "dawn", "dusk", "will", "can", "might", "shall", "should", "would", "could", "go",
	"come", "run", "walk", "talk", "see", "hear", "feel", "think", "hope", "wish", "want", "need",
	"have", "get", "make", "take", "give", "work", "play", "read", "write", "draw", "paint", "sing",
	"dance", "house", "home", "car", "book", "phone", "computer", "table", "chair", "door", "window",
	"water", "food", "money", "time", "day", "night", "week", "month", "year", "man", "woman",
	"child", "person", "people", "family", "friend", "school", "job", "office", "shop", "store",
	"market", "hill", "valley", "river", "lake", "sea", "ocean", "mountain", "forest", "field",
	"stone", "rock", "wood", "tree", "flower", "grass", "leaf", "good", "bad", "big", "small", "long",
	"short", "tall", "wide", "narrow", "hot", "cold", "warm", "cool", "dry", "wet", "clean", "dirty",
	"new", "old", "young", "fast", "slow", "hard", "soft", "strong", "weak", "happy", "sad", "angry",
	"calm", "quiet", "loud", "bright", "dark", "rich", "poor", "free", "busy", "easy", "simple",
	"difficult", "doctor", "nurse", "teacher", "student", "worker", "manager", "director", "cook",
	"baker", "farmer", "driver", "pilot", "captain", "judge", "artist", "writer", "singer", "actor",
	"player", "hunter", "fisher", "mason", "taylor", "turner", "walker", "parker", "porter", "carter",
	"north", "south", "east", "west", "center", "middle", "top", "bottom", "city", "town", "village",
	"country", "state", "place", "area", "region", "street", "road", "avenue", "lane", "way", "path",
	"bridge", "park", "church", "temple", "hall", "tower", "castle", "palace", "island", "beach",
	"shore", "coast", "port", "bay", "gulf", "cat", "dog", "bird", "fish", "horse", "cow", "pig",
	"sheep", "goat", "lion", "tiger", "bear", "wolf", "fox", "deer", "rabbit", "mouse", "bee", "ant",
	"fly", "spider", "snake", "frog", "duck", "swan", "head", "face", "eye", "ear", "nose", "mouth",
	"hand", "foot", "arm", "leg", "heart", "brain", "bone", "skin", "hair", "nail", "angel", "joy",
	"grace", "faith", "charity", "patience", "mercy", "peace", "love", "dream", "star", "moon", "sun",
	"sky", "rain", "snow", "wind", "storm", "thunder", "lightning", "name", "names", "word", "letter",
	"number", "page", "line", "text", "picture", "image", "photo", "video", "music", "song", "sound",
	"voice", "game", "sport", "team", "winner", "loser", "score", "point", "question", "answer",
	"problem", "solution", "idea", "plan", "goal", "start", "end", "begin", "finish", "stop", "pause",
	"continue", "yes", "no", "maybe", "never", "always", "sometimes", "often", "rarely", "a", "b",
	"c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o", "p", "q", "r", "s", "t", "u",
	"v", "w", "x", "y", "z", "the", "okay", "yeah", "well", "but", "move", "thank", "thanks",
	"please", "sorry", "excuse", "hello", "hi", "bye", "goodbye", "welcome", "congrats", "um", "uh",
	"oh", "ah", "hmm", "wow", "great", "nice", "fine", "sure", "actually", "really", "basically",
	"obviously", "definitely", "probably", "perhaps", "anyway", "however", "therefore", "because",
	"since", "although", "though", "unless", "until", "while", "during", "before", "after", "whale",
	"whales", "look", "let", "lets", "every", "put", "nor", "did", "wave", "wait", "mummy", "baby",
	"lots", "lovely", "say", "painting", "shower", "nowhere", "pardon", "breakfast", "bible", "wayo",
	"shovel", "shadows", "meow", "noy", "what", "who", "when", "where", "why", "how", "which",
	"whose", "he", "she", "it", "they", "we", "you", "me", "him", "her", "them", "us", "this", "that",
	"these", "those", "here", "there", "now", "then", "some", "any", "all", "each", "many", "much",
	"few", "little", "in", "on", "at", "by", "for", "with", "without", "to", "from", "of", "about",
	"above", "below", "under", "over", "through", "between", "among", "and", "or", "so", "if", "as",
	"than", "like", "unlike", "do", "does", "be", "am", "is", "are", "was", "were", "been", "being",
	"has", "had", "having", "got", "getting", "putting", "said", "saying", "tell", "told", "telling",
	"ask", "asked", "asking", "know", "knew", "known", "knowing", "thought", "thinking", "looked",
	"looking", "seem", "seemed", "seeming", "try", "tried", "trying", "hes", "shes", "its", "thats",
	"whats", "wheres", "theres", "youre", "theyre", "werent", "cant", "dont", "wont", "isnt", "arent",
	"wasnt", "havent", "hasnt", "hadnt", "ill", "youll", "hell", "shell", "theyll", "ive", "youve",
	"weve", "theyve", "id", "youd", "hed", "shed", "wed", "theyd", "heres", "one", "two", "three",
	"four", "five", "six", "seven", "eight", "nine", "ten", "first", "second", "third", "fourth",
	"fifth", "last", "next", "another", "more", "most", "less", "least", "enough", "too", "very",
	"quite", "rather", "app", "web", "site", "email", "call", "chat", "post", "share", "click", "tap",
	"swipe", "scroll", "zoom", "search", "find", "save", "delete", "update", "download", "upload",
	"install", "connect", "wifi", "internet", "buy", "sell", "pay", "cost", "price", "cheap",
	"expensive", "sale", "deal", "offer", "discount", "tax", "fee", "bill", "check", "cash", "card",
	"bank", "account", "loan", "debt", "invest", "profit", "loss", "budget",
})
