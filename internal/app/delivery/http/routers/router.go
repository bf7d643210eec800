package routers

import (
	"fmt"
	"net/http"
	"supervision-service/internal/app/config"
	"supervision-service/internal/app/delivery/http/controllers"
	"supervision-service/internal/app/delivery/http/middlewares"
	"supervision-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	questionController *controllers.QuestionController,
	assessmentTypeController *controllers.AssessmentTypeController,
	schemaController *controllers.SchemaController,
	assessmentSessionController *controllers.AssessmentSessionController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   internalConfig.App.CorsAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{constvars.HeaderAccept, constvars.HeaderContentType, constvars.HeaderXRequestID, constvars.HeaderXAPIKey},
		ExposedHeaders:   []string{constvars.HeaderXRequestID, constvars.HeaderRetryAfter},
		AllowCredentials: false,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.GlobalRateLimit())
	router.Use(middlewares.BodyLimit)
	router.Use(middlewares.RequestTimeout)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/assessments", func(r chi.Router) {
				r.Route("/questions", func(r chi.Router) {
					attachQuestionRoutes(r, middlewares, questionController)
				})

				r.Route("/types", func(r chi.Router) {
					attachAssessmentTypeRoutes(r, middlewares, assessmentTypeController)
				})

				r.Route("/schema", func(r chi.Router) {
					attachSchemaRoutes(r, schemaController)
				})

				r.Route("/sessions", func(r chi.Router) {
					attachAssessmentSessionRoutes(r, middlewares, assessmentSessionController)
				})

				r.With(middlewares.RequireAdminAPIKey).Post("/settings/refresh", assessmentTypeController.RefreshSettings)
			})
		})
	})
}
