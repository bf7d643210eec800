package controllers

import (
	"net/http"
	"supervision-service/internal/app/contracts"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/dto/requests"
	"supervision-service/internal/pkg/exceptions"
	"supervision-service/internal/pkg/utils"
	"sync"

	"go.uber.org/zap"
)

type SchemaController struct {
	Log           *zap.Logger
	SchemaUsecase contracts.SchemaUsecase
}

var (
	schemaControllerInstance *SchemaController
	onceSchemaController     sync.Once
)

func NewSchemaController(logger *zap.Logger, schemaUsecase contracts.SchemaUsecase) *SchemaController {
	onceSchemaController.Do(func() {
		instance := &SchemaController{
			Log:           logger,
			SchemaUsecase: schemaUsecase,
		}
		schemaControllerInstance = instance
	})
	return schemaControllerInstance
}

func (ctrl *SchemaController) ResolveSchema(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("SchemaController.ResolveSchema requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	request := &requests.ResolveSchema{
		AssessmentType: utils.GetQueryParam(r, constvars.URLQueryParamAssessmentType),
		SubjectID:      utils.GetQueryParam(r, constvars.URLQueryParamSubjectID),
	}

	ctrl.Log.Info("SchemaController.ResolveSchema called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentTypeKey, request.AssessmentType),
		zap.String(constvars.LoggingSubjectIDKey, request.SubjectID),
	)

	err := utils.ValidateStruct(request)
	if err != nil {
		ctrl.Log.Error("SchemaController.ResolveSchema validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.SchemaUsecase.ResolveSchema(r.Context(), request)
	if err != nil {
		ctrl.Log.Error("SchemaController.ResolveSchema error in SchemaUsecase.ResolveSchema",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("SchemaController.ResolveSchema succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetSchemaSuccessMessage, response)
}
