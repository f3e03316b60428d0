package knowledge

// Seed is one built-in knowledge record.
type Seed struct {
	Key     string
	Replies []string
}

// Seeds is the startup table, in tie-break order. The time and date keys
// carry no static replies; they are rendered by DefaultDynamic.
var Seeds = []Seed{
	{
		Key: "приветствие|привет|здравствуй|добро пожаловать|hi|hello",
		Replies: []string{
			"Привет! Я FutureChat, умный AI бот! 🤖",
			"Здравствуй! Добро пожаловать в FutureChat! ✨",
			"Привет! Готов к интересному разговору! 🚀",
			"Добро пожаловать! Я твой виртуальный собеседник! 💬",
		},
	},
	{
		Key: "прощание|пока|до свидания|bye|goodbye",
		Replies: []string{
			"До свидания! Было здорово пообщаться! 👋",
			"Пока! Заходи еще - будет интересно! 😊",
			"До встречи! Хорошего дня! 🌟",
			"Всего доброго! Увидимся в следующий раз! 🎉",
		},
	},
	{
		Key: "как тебя зовут|твое имя|кто ты|представься|имя",
		Replies: []string{
			"Меня зовут FutureChat! Я умный AI бот 🌐",
			"FutureChat - это я! Приятно познакомиться! 😄",
			"Я FutureChat, умный AI чат-бот! Круто, да? 💻",
		},
	},
	{
		Key: "что ты умеешь|твои возможности|функции|что можешь",
		Replies: []string{
			"Я могу болтать, учиться новому и отвечать на вопросы! 🌍",
			"Умею поддерживать беседу и запоминать информацию! 🧠",
			"Могу общаться, учиться и помогать 24/7! ⚡",
		},
	},
	{
		Key: "как дела|как поживаешь|как жизнь|как ты",
		Replies: []string{
			"У меня все отлично! Работаю и радуюсь жизни! 😎",
			"Прекрасно! Готов к интересным разговорам! 🚀",
			"Все супер! А как у тебя дела? 🤗",
		},
	},
	{
		Key: "хорошо|отлично|супер|прекрасно|здорово|круто|плюс|нормально|неплохо",
		Replies: []string{
			"Вот это здорово! Рад слышать! 😊",
			"Отлично! Позитивный настрой - это важно! 🌟",
			"Замечательно! Хорошее настроение заразительно! 😄",
			"Супер! Что планируешь делать дальше? 🚀",
		},
	},
	{Key: TimeKey},
	{Key: DateKey},
	{
		Key: "спасибо|thanks|благодарю",
		Replies: []string{
			"Пожалуйста! Всегда рад помочь! 😊",
			"Не за что! Обращайся еще! 🤗",
			"Рад был помочь! 🌟",
		},
	},
	{
		Key: "ты робот|ты искусственный интеллект|ты ai|ты бот",
		Replies: []string{
			"Да, я AI чат-бот! Но очень дружелюбный! 🤖",
			"Точно! Я искусственный интеллект, созданный для общения! 🧠",
			"Да, я бот, но стараюсь быть максимально полезным! ✨",
		},
	},
	{
		Key: "помощь|help|команды",
		Replies: []string{
			"Помогу с удовольствием! Просто задавай вопросы или используй команду 'научить: тема - информация' 📚",
			"Я здесь, чтобы помочь! Общайся со мной как с другом! 🤗",
			"Конечно помогу! Что тебя интересует? 💡",
		},
	},
	{
		Key: "наука|научные факты|science",
		Replies: []string{
			"Наука - это способ задавать природе правильные вопросы! 🔬",
			"Знаешь, свет от Солнца идет до Земли около восьми минут! ☀️",
			"Наука постоянно уточняет сама себя, в этом ее сила! 🧪",
		},
	},
}
