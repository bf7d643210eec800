package controllers

import (
	"net/http"
	"strings"
	"supervision-service/internal/app/contracts"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/dto/requests"
	"supervision-service/internal/pkg/exceptions"
	"supervision-service/internal/pkg/utils"
	"sync"

	"go.uber.org/zap"
)

type AssessmentTypeController struct {
	Log                   *zap.Logger
	AssessmentTypeUsecase contracts.AssessmentTypeUsecase
	SettingsService       contracts.SettingsService
}

var (
	assessmentTypeControllerInstance *AssessmentTypeController
	onceAssessmentTypeController     sync.Once
)

func NewAssessmentTypeController(logger *zap.Logger, assessmentTypeUsecase contracts.AssessmentTypeUsecase, settingsService contracts.SettingsService) *AssessmentTypeController {
	onceAssessmentTypeController.Do(func() {
		instance := &AssessmentTypeController{
			Log:                   logger,
			AssessmentTypeUsecase: assessmentTypeUsecase,
			SettingsService:       settingsService,
		}
		assessmentTypeControllerInstance = instance
	})
	return assessmentTypeControllerInstance
}

func (ctrl *AssessmentTypeController) FindAll(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AssessmentTypeController.FindAll requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("AssessmentTypeController.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	response, err := ctrl.AssessmentTypeUsecase.ListTypes(r.Context())
	if err != nil {
		ctrl.Log.Error("AssessmentTypeController.FindAll error in AssessmentTypeUsecase.ListTypes",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentTypeController.FindAll succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingTypesCountKey, len(response)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAssessmentTypesSuccessMessage, response)
}

func (ctrl *AssessmentTypeController) CreateType(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AssessmentTypeController.CreateType requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("AssessmentTypeController.CreateType called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CreateAssessmentType)
	err := decodeJSONBody(r, request, false)
	if err != nil {
		ctrl.Log.Error("AssessmentTypeController.CreateType error parsing body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request.Name = strings.TrimSpace(request.Name)
	request.Description = strings.TrimSpace(request.Description)
	utils.SanitizeScoringMatrix(request.ScoringMatrix)

	err = utils.ValidateStruct(request)
	if err != nil {
		ctrl.Log.Error("AssessmentTypeController.CreateType validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.AssessmentTypeUsecase.CreateType(r.Context(), request)
	if err != nil {
		ctrl.Log.Error("AssessmentTypeController.CreateType error in AssessmentTypeUsecase.CreateType",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentTypeKey, request.Name),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentTypeController.CreateType succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentTypeKey, response.Name),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateAssessmentTypeSuccessMessage, response)
}

// UpdateScoringMatrix answers 201 when the type did not exist and was created
// by this call.
func (ctrl *AssessmentTypeController) UpdateScoringMatrix(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AssessmentTypeController.UpdateScoringMatrix requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	name, err := urlParam(r, constvars.URLParamTypeName)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentTypeController.UpdateScoringMatrix called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentTypeKey, name),
	)

	request := new(requests.UpdateScoringMatrix)
	err = decodeJSONBody(r, request, false)
	if err != nil {
		ctrl.Log.Error("AssessmentTypeController.UpdateScoringMatrix error parsing body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.Name = strings.TrimSpace(name)
	utils.SanitizeScoringMatrix(request.ScoringMatrix)

	err = utils.ValidateStruct(request)
	if err != nil {
		ctrl.Log.Error("AssessmentTypeController.UpdateScoringMatrix validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.AssessmentTypeUsecase.UpdateScoringMatrix(r.Context(), request)
	if err != nil {
		ctrl.Log.Error("AssessmentTypeController.UpdateScoringMatrix error in AssessmentTypeUsecase.UpdateScoringMatrix",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentTypeKey, name),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentTypeController.UpdateScoringMatrix succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentTypeKey, name),
		zap.Bool("created", response.Created),
	)
	if response.Created {
		utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateScoringMatrixSuccessMessage, response)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateScoringMatrixSuccessMessage, response)
}

func (ctrl *AssessmentTypeController) EvaluateScore(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AssessmentTypeController.EvaluateScore requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	name, err := urlParam(r, constvars.URLParamTypeName)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentTypeController.EvaluateScore called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentTypeKey, name),
	)

	request := new(requests.EvaluateScore)
	err = decodeJSONBody(r, request, true)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.Name = strings.TrimSpace(name)

	response, err := ctrl.AssessmentTypeUsecase.EvaluateScore(r.Context(), request)
	if err != nil {
		ctrl.Log.Error("AssessmentTypeController.EvaluateScore error in AssessmentTypeUsecase.EvaluateScore",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentTypeKey, name),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentTypeController.EvaluateScore succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingTotalScoreKey, response.TotalScore),
		zap.String(constvars.LoggingRiskLevelKey, response.RiskLevel),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.EvaluateScoreSuccessMessage, response)
}

// RefreshSettings reloads the catalog snapshot on this instance.
func (ctrl *AssessmentTypeController) RefreshSettings(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AssessmentTypeController.RefreshSettings requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	err := ctrl.SettingsService.Refresh(r.Context())
	if err != nil {
		ctrl.Log.Error("AssessmentTypeController.RefreshSettings error in SettingsService.Refresh",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentTypeController.RefreshSettings succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RefreshSettingsSuccessMessage, nil)
}
