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

type QuestionController struct {
	Log             *zap.Logger
	QuestionUsecase contracts.QuestionUsecase
}

var (
	questionControllerInstance *QuestionController
	onceQuestionController     sync.Once
)

func NewQuestionController(logger *zap.Logger, questionUsecase contracts.QuestionUsecase) *QuestionController {
	onceQuestionController.Do(func() {
		instance := &QuestionController{
			Log:             logger,
			QuestionUsecase: questionUsecase,
		}
		questionControllerInstance = instance
	})
	return questionControllerInstance
}

func (ctrl *QuestionController) FindAll(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("QuestionController.FindAll requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("QuestionController.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := &requests.FindAllQuestions{
		Tool: utils.GetQueryParam(r, constvars.URLQueryParamTool),
	}

	response, err := ctrl.QuestionUsecase.ListQuestions(r.Context(), request)
	if err != nil {
		ctrl.Log.Error("QuestionController.FindAll error in QuestionUsecase.ListQuestions",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("QuestionController.FindAll succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingQuestionsCountKey, len(response)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetQuestionsSuccessMessage, response)
}

func (ctrl *QuestionController) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("QuestionController.CreateQuestion requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("QuestionController.CreateQuestion called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CreateQuestion)
	err := decodeJSONBody(r, request, false)
	if err != nil {
		ctrl.Log.Error("QuestionController.CreateQuestion error parsing body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.SanitizeCreateQuestionRequest(request)

	err = utils.ValidateStruct(request)
	if err != nil {
		ctrl.Log.Error("QuestionController.CreateQuestion validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.QuestionUsecase.CreateQuestion(r.Context(), request)
	if err != nil {
		ctrl.Log.Error("QuestionController.CreateQuestion error in QuestionUsecase.CreateQuestion",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQuestionTagKey, request.Tag),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("QuestionController.CreateQuestion succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionTagKey, response.Tag),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateQuestionSuccessMessage, response)
}

func (ctrl *QuestionController) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("QuestionController.UpdateQuestion requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	tag, err := urlParam(r, constvars.URLParamQuestionTag)
	if err == nil && !utils.IsValidQuestionTag(tag) {
		err = exceptions.ErrURLParamValidation(nil, constvars.URLParamQuestionTag)
	}
	if err != nil {
		ctrl.Log.Error("QuestionController.UpdateQuestion invalid tag",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("QuestionController.UpdateQuestion called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionTagKey, tag),
	)

	request := new(requests.UpdateQuestion)
	err = decodeJSONBody(r, request, false)
	if err != nil {
		ctrl.Log.Error("QuestionController.UpdateQuestion error parsing body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.Tag = tag

	utils.SanitizeUpdateQuestionRequest(request)

	err = utils.ValidateStruct(request)
	if err != nil {
		ctrl.Log.Error("QuestionController.UpdateQuestion validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.QuestionUsecase.UpdateQuestion(r.Context(), request)
	if err != nil {
		ctrl.Log.Error("QuestionController.UpdateQuestion error in QuestionUsecase.UpdateQuestion",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQuestionTagKey, tag),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("QuestionController.UpdateQuestion succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionTagKey, tag),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateQuestionSuccessMessage, response)
}
