package controllers

import (
	"net/http"
	"supervision-service/internal/app/contracts"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/dto/requests"
	"supervision-service/internal/pkg/exceptions"
	"supervision-service/internal/pkg/utils"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AssessmentSessionController struct {
	Log                      *zap.Logger
	AssessmentSessionUsecase contracts.AssessmentSessionUsecase
}

var (
	assessmentSessionControllerInstance *AssessmentSessionController
	onceAssessmentSessionController     sync.Once
)

func NewAssessmentSessionController(logger *zap.Logger, assessmentSessionUsecase contracts.AssessmentSessionUsecase) *AssessmentSessionController {
	onceAssessmentSessionController.Do(func() {
		instance := &AssessmentSessionController{
			Log:                      logger,
			AssessmentSessionUsecase: assessmentSessionUsecase,
		}
		assessmentSessionControllerInstance = instance
	})
	return assessmentSessionControllerInstance
}

func sessionIDParam(r *http.Request) (string, error) {
	sessionID, err := urlParam(r, constvars.URLParamSessionID)
	if err != nil {
		return "", err
	}
	_, err = uuid.Parse(sessionID)
	if err != nil {
		return "", exceptions.ErrURLParamValidation(err, constvars.URLParamSessionID)
	}
	return sessionID, nil
}

func (ctrl *AssessmentSessionController) StartSession(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AssessmentSessionController.StartSession requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("AssessmentSessionController.StartSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.StartSession)
	err := decodeJSONBody(r, request, false)
	if err != nil {
		ctrl.Log.Error("AssessmentSessionController.StartSession error parsing body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.SanitizeStartSessionRequest(request)

	err = utils.ValidateStruct(request)
	if err != nil {
		ctrl.Log.Error("AssessmentSessionController.StartSession validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.AssessmentSessionUsecase.StartSession(r.Context(), request)
	if err != nil {
		ctrl.Log.Error("AssessmentSessionController.StartSession error in AssessmentSessionUsecase.StartSession",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSubjectIDKey, request.SubjectID),
			zap.String(constvars.LoggingAssessmentTypeKey, request.AssessmentType),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentSessionController.StartSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, response.Session.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.StartSessionSuccessMessage, response)
}

func (ctrl *AssessmentSessionController) FindSessions(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AssessmentSessionController.FindSessions requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	subjectID := utils.GetQueryParam(r, constvars.URLQueryParamSubjectID)
	ctrl.Log.Info("AssessmentSessionController.FindSessions called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubjectIDKey, subjectID),
	)
	if subjectID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(nil, constvars.URLQueryParamSubjectID))
		return
	}

	response, err := ctrl.AssessmentSessionUsecase.ListSessions(r.Context(), subjectID)
	if err != nil {
		ctrl.Log.Error("AssessmentSessionController.FindSessions error in AssessmentSessionUsecase.ListSessions",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentSessionController.FindSessions succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingSessionsCountKey, len(response)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetSessionsSuccessMessage, response)
}

func (ctrl *AssessmentSessionController) FindSessionByID(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AssessmentSessionController.FindSessionByID requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	sessionID, err := sessionIDParam(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentSessionController.FindSessionByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	response, err := ctrl.AssessmentSessionUsecase.FindSession(r.Context(), sessionID)
	if err != nil {
		ctrl.Log.Error("AssessmentSessionController.FindSessionByID error in AssessmentSessionUsecase.FindSession",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetSessionSuccessMessage, response)
}

// SaveAnswer is the autosave endpoint. A stale write still answers 200 with
// applied false so the form never retries it.
func (ctrl *AssessmentSessionController) SaveAnswer(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AssessmentSessionController.SaveAnswer requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	sessionID, err := sessionIDParam(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	tag, err := urlParam(r, constvars.URLParamQuestionTag)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentSessionController.SaveAnswer called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.String(constvars.LoggingQuestionTagKey, tag),
	)

	request := new(requests.SaveAnswer)
	err = decodeJSONBody(r, request, false)
	if err != nil {
		ctrl.Log.Error("AssessmentSessionController.SaveAnswer error parsing body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.SessionID = sessionID
	request.Tag = tag

	err = utils.ValidateStruct(request)
	if err != nil {
		ctrl.Log.Error("AssessmentSessionController.SaveAnswer validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.AssessmentSessionUsecase.SaveAnswer(r.Context(), request)
	if err != nil {
		ctrl.Log.Error("AssessmentSessionController.SaveAnswer error in AssessmentSessionUsecase.SaveAnswer",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.String(constvars.LoggingQuestionTagKey, tag),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	message := constvars.SaveAnswerSuccessMessage
	if !response.Applied {
		message = constvars.SaveAnswerStaleMessage
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, response)
}

func (ctrl *AssessmentSessionController) Calculate(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AssessmentSessionController.Calculate requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	sessionID, err := sessionIDParam(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentSessionController.Calculate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	response, err := ctrl.AssessmentSessionUsecase.Calculate(r.Context(), sessionID)
	if err != nil {
		ctrl.Log.Error("AssessmentSessionController.Calculate error in AssessmentSessionUsecase.Calculate",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentSessionController.Calculate succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.Int(constvars.LoggingTotalScoreKey, response.TotalScore),
		zap.String(constvars.LoggingRiskLevelKey, response.RiskLevel),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CalculateSessionSuccessMessage, response)
}

func (ctrl *AssessmentSessionController) Submit(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AssessmentSessionController.Submit requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	sessionID, err := sessionIDParam(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentSessionController.Submit called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	request := new(requests.SubmitSession)
	err = decodeJSONBody(r, request, true)
	if err != nil {
		ctrl.Log.Error("AssessmentSessionController.Submit error parsing body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.SessionID = sessionID
	utils.SanitizeSubmitSessionRequest(request)

	response, err := ctrl.AssessmentSessionUsecase.Submit(r.Context(), request)
	if err != nil {
		ctrl.Log.Error("AssessmentSessionController.Submit error in AssessmentSessionUsecase.Submit",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentSessionController.Submit succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.Bool(constvars.LoggingOverriddenKey, response.IsOverridden()),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SubmitSessionSuccessMessage, response)
}
