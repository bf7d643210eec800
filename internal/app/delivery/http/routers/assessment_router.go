package routers

import (
	"fmt"
	"supervision-service/internal/app/delivery/http/controllers"
	"supervision-service/internal/app/delivery/http/middlewares"
	"supervision-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func param(name string) string {
	return fmt.Sprintf("{%s}", name)
}

func attachQuestionRoutes(router chi.Router, middlewares *middlewares.Middlewares, questionController *controllers.QuestionController) {
	router.Get("/", questionController.FindAll)
	router.With(middlewares.RequireAdminAPIKey).Post("/", questionController.CreateQuestion)
	router.With(middlewares.RequireAdminAPIKey).Patch("/"+param(constvars.URLParamQuestionTag), questionController.UpdateQuestion)
}

func attachAssessmentTypeRoutes(router chi.Router, middlewares *middlewares.Middlewares, assessmentTypeController *controllers.AssessmentTypeController) {
	typeName := "/" + param(constvars.URLParamTypeName)

	router.Get("/", assessmentTypeController.FindAll)
	router.With(middlewares.RequireAdminAPIKey).Post("/", assessmentTypeController.CreateType)
	router.With(middlewares.RequireAdminAPIKey).Put(typeName+"/scoring-matrix", assessmentTypeController.UpdateScoringMatrix)
	router.With(middlewares.RequireAdminAPIKey).Post(typeName+"/evaluate", assessmentTypeController.EvaluateScore)
}

func attachSchemaRoutes(router chi.Router, schemaController *controllers.SchemaController) {
	router.Get("/", schemaController.ResolveSchema)
}

func attachAssessmentSessionRoutes(router chi.Router, middlewares *middlewares.Middlewares, assessmentSessionController *controllers.AssessmentSessionController) {
	sessionID := "/" + param(constvars.URLParamSessionID)

	router.Post("/", assessmentSessionController.StartSession)
	router.Get("/", assessmentSessionController.FindSessions)
	router.Get(sessionID, assessmentSessionController.FindSessionByID)
	router.With(middlewares.AutosaveLimiter.Limit).Put(sessionID+"/answers/"+param(constvars.URLParamQuestionTag), assessmentSessionController.SaveAnswer)
	router.Post(sessionID+"/calculate", assessmentSessionController.Calculate)
	router.Post(sessionID+"/submit", assessmentSessionController.Submit)
}
