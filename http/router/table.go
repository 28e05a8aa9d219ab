package router

import "net/http"

// Names of the Routes in the application table.
const (
	ChatbotName       = "chatbot"
	LandingName       = "landing"
	QuestionnaireName = "questionnaire"
)

// Paths of the Routes in the application table.
const (
	ChatbotPath       = "/chatbot"
	LandingPath       = "/"
	QuestionnairePath = "/questionnaire"
)

// Views are the handlers the application table binds its Routes to.
type Views struct {
	Landing       http.Handler
	Questionnaire http.Handler
	Chatbot       http.Handler
}

// DeprecatedPaths permanently redirect to the chatbot.
var DeprecatedPaths = []string{"/plan", "/financial-plan", "/dashboard"}

// Table builds the application's navigation Routes:
//
//	/               Landing, not gated
//	/questionnaire  Questionnaire, gated
//	/chatbot        Chatbot, gated, the main view
//
// Each of DeprecatedPaths redirects to /chatbot.
func Table(views Views) []Route {
	routes := []Route{
		{Path: LandingPath, Name: LandingName, View: views.Landing},
		{Path: QuestionnairePath, Name: QuestionnaireName, View: views.Questionnaire, RequiresAuth: true},
		{Path: ChatbotPath, Name: ChatbotName, View: views.Chatbot, RequiresAuth: true, Main: true},
	}

	for _, p := range DeprecatedPaths {
		routes = append(routes, Route{Path: p, Redirect: ChatbotPath})
	}

	return routes
}
