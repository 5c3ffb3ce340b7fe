package bot

// Literal bot replies, translated on demand like report strings.
const (
	msgWelcome = "Привет! Я помогу узнать, что за растение у тебя на фото.\n" +
		"Отправь снимок растения, а затем используй меню: подробнее, похожие изображения, оценка здоровья."
	msgHelp = "📖 Как пользоваться ботом:\n" +
		"1. Отправьте фото растения, чтобы узнать его название.\n" +
		"2. «подробнее» покажет уход, таксономию и особенности.\n" +
		"3. «похожие изображения» пришлёт фото похожих растений.\n" +
		"4. «тепловые карты и оценка тяжости симтомов» проверит здоровье растения по последнему фото.\n" +
		"5. «местоположение» уточнит результаты по вашей геопозиции.\n" +
		"6. «перевод» сменит язык ответов."
	msgChooseLanguage  = "Выберите язык:"
	msgLanguageChanged = "Язык изменён."
	msgUnknownLanguage = "Этот язык не поддерживается."
	msgUnknownCommand  = "Не понял команду."

	msgSendPhotoFirst   = "Сначала отправьте фото растения."
	msgBadImage         = "Не удалось обработать изображение. Отправьте фото в формате JPEG, PNG, WEBP или GIF."
	msgRecognitionError = "Ошибка запроса к сервису распознавания. Попробуйте позже."
	msgNoInfo           = "Не удалось получить информацию о растении."
	msgNoSimilar        = "Похожие изображения не найдены."
	msgStorageError     = "Не удалось сохранить данные. Попробуйте позже."

	msgSendLocation  = "Отправьте геопозицию, чтобы уточнить распознавание."
	msgLocationSaved = "Местоположение сохранено. Оно будет учтено при следующем распознавании."
	msgBadLocation   = "Некорректные координаты."

	defaultFlower = "растение"
)
