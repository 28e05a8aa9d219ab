package template

// Paths of the templates embedded in this package.
const (
	CallbackTmpl      = "tmpl/callback.tmpl"
	ChatbotTmpl       = "tmpl/chatbot.tmpl"
	ErrorTmpl         = "tmpl/error.tmpl"
	LandingTmpl       = "tmpl/landing.tmpl"
	LayoutTmpl        = "tmpl/layout.tmpl"
	QuestionnaireTmpl = "tmpl/questionnaire.tmpl"
)
