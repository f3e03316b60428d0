package tracker

// Topic is a coarse subject label derived from recent history.
type Topic string

const (
	Technology  Topic = "technology"
	Science     Topic = "science"
	Programming Topic = "programming"
	AI          Topic = "ai"
	Weather     Topic = "weather"
	Food        Topic = "food"
	Music       Topic = "music"
	Sports      Topic = "sports"
	Travel      Topic = "travel"
	General     Topic = "general"
)

// TopicOrder is the tie-break order for topic extraction.
var TopicOrder = []Topic{Technology, Science, Programming, AI, Weather, Food, Music, Sports, Travel}

// TopicKeywords drives topic extraction. Single words match as token
// prefixes, phrases as substrings of the normalized text.
var TopicKeywords = map[Topic][]string{
	Technology:  {"технолог", "компьютер", "гаджет", "смартфон", "телефон", "интернет", "technology", "computer", "tech"},
	Science:     {"наук", "научн", "физик", "хими", "биолог", "эксперимент", "исследован", "космос", "science"},
	Programming: {"программ", "код", "python", "golang", "javascript", "разработ", "алгоритм", "баг", "programming"},
	AI:          {"искусственный интеллект", "нейросет", "ии", "ai", "машинное обучение", "chatgpt", "нейрон"},
	Weather:     {"погод", "дожд", "снег", "солнечн", "температур", "мороз", "weather"},
	Food:        {"еда", "еду", "рецепт", "вкусн", "пицц", "готовить", "блюд", "food"},
	Music:       {"музык", "песн", "гитар", "концерт", "альбом", "music"},
	Sports:      {"спорт", "футбол", "хоккей", "трениров", "матч", "sport"},
	Travel:      {"путешеств", "поездк", "отпуск", "туризм", "страны", "travel"},
}

// RelatedKeywords is the topic-relation table: words that keep an already
// tracked topic going without naming it.
var RelatedKeywords = map[Topic][]string{
	Technology:  {"устройств", "экран", "батаре", "процессор", "приложени", "device"},
	Science:     {"теори", "учен", "атом", "планет", "открыти", "закон", "молекул", "theory"},
	Programming: {"функци", "переменн", "компилятор", "библиотек", "сервер", "баз данных", "function"},
	AI:          {"модел", "обучени", "данны", "робот", "model"},
	Weather:     {"зонт", "тепло", "холодно", "ветер", "прогноз", "forecast"},
	Food:        {"ужин", "обед", "завтрак", "кухн", "ресторан", "сладк"},
	Music:       {"мелоди", "ритм", "певец", "певиц", "слушать", "группа"},
	Sports:      {"команд", "забил", "чемпионат", "бег", "игрок", "победа"},
	Travel:      {"билет", "отел", "море", "горы", "виз", "самолет", "маршрут"},
}

// ContinuationTriggers ask the bot to keep going on the current topic.
var ContinuationTriggers = []string{
	"продолжи", "расскажи еще", "расскажи ещё", "почему", "как это работает",
	"а дальше", "подробнее", "tell me more", "continue",
}

// BackreferenceTokens point back at something said earlier.
var BackreferenceTokens = map[string]struct{}{
	"это": {}, "того": {}, "они": {}, "он": {}, "она": {}, "оно": {},
	"этого": {}, "этом": {}, "тот": {}, "те": {},
	"it": {}, "that": {}, "them": {}, "this": {},
}
