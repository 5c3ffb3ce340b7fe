package report

// Literal report strings. They are written in the literal language and
// translated on demand for other users.
const (
	msgCouldNotIdentify = "Не удалось определить растение."
	msgCriticalFormat   = "❌ Критическая ошибка форматирования данных: %s"

	titlePlant        = "### 🌸 {name}"
	titlePlantInfo    = "Информация о растении"
	unknownPlant      = "Неизвестное растение"
	labelLatinName    = "Латинское название"
	titleTaxonomy     = "#### 🌿 Таксономия"
	titleSynonyms     = "#### 🔍 Синонимы"
	titleCare         = "#### 💧 Уход за растением"
	titleUsage        = "#### 🌼 Применение и особенности"
	titleAdditional   = "#### ❓ Дополнительно"
	sectionWatering   = "💧 Полив"
	labelFrequency    = "Частота"
	labelRecommended  = "Рекомендации"
	labelLight        = "☀️ Освещение"
	labelSoil         = "🌱 Почва"
	labelToxicity     = "⚠️ Токсичность"
	labelUses         = "🌼 Применение"
	labelCulture      = "🎎 Культурное значение"
	labelEdible       = "Съедобные части"
	labelPropagation  = "Способы размножения"
	placeholderNone   = "Не указаны"
	placeholderNoData = "Данные отсутствуют"

	timesWeekly      = "%d раз%s в неделю"
	timesWeeklyRange = "%d–%d раз в неделю"

	msgNotPlant    = "Анализ показывает, что предоставленное изображение, скорее всего, НЕ содержит растение (вероятность: %s)."
	titleHealth    = "### 🌿 Состояние здоровья растения"
	msgHealthy     = "Растение выглядит здоровым (вероятность здоровья: %s)."
	msgUnhealthy   = "Растение, вероятно, имеет проблемы со здоровьем (вероятность здоровья: всего %s)."
	titleIssues    = "#### 🩺 Возможные проблемы"
	msgNoIssues    = "Не удалось определить конкретные проблемы. Пожалуйста, проверьте изображение и повторите запрос."
	unknownIssue   = "Неизвестная проблема"
	titleQuestion  = "#### ❓ Диагностический вопрос"
	labelYes       = "Да"
	labelNo        = "Нет"
	genericIssue   = "проблема"
	titleTreatment = "#### 💊 Рекомендации по лечению"
	noteLicense    = "ℹ️ Примечание: Изображения для сравнения лицензированы под CC BY-NC-SA 4.0 (разрешено некоммерческое использование с указанием авторства и обязательным распространением производных работ на тех же условиях)."

	labelLikely       = "Вероятнее всего это"
	labelScientific   = "Научное название"
	labelOtherNames   = "Другие названия"
	labelProbability  = "Вероятность"
	labelDescription  = "Описание"
	labelToxicityLine = "Токсичность"
)
