package utils

import (
	"strings"
	"supervision-service/internal/pkg/dto/requests"
)

func cleanWhiteSpaceFromEachStringOfAnArray(input []string) []string {
	sanitizedArray := make([]string, 0, len(input))
	for _, v := range input {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		sanitizedArray = append(sanitizedArray, trimmed)
	}
	return sanitizedArray
}

func sanitizeOptions(options []requests.QuestionOption) {
	for i := range options {
		options[i].Label = strings.TrimSpace(options[i].Label)
	}
}

func SanitizeCreateQuestionRequest(input *requests.CreateQuestion) {
	input.Tag = strings.TrimSpace(input.Tag)
	input.Text = strings.TrimSpace(input.Text)
	input.Category = strings.TrimSpace(input.Category)
	input.ScoringNote = strings.TrimSpace(input.ScoringNote)
	input.ApplicableTools = cleanWhiteSpaceFromEachStringOfAnArray(input.ApplicableTools)
	sanitizeOptions(input.Options)
}

func SanitizeUpdateQuestionRequest(input *requests.UpdateQuestion) {
	input.Tag = strings.TrimSpace(input.Tag)
	if input.Text != nil {
		text := strings.TrimSpace(*input.Text)
		input.Text = &text
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		input.Category = &category
	}
	if input.ScoringNote != nil {
		note := strings.TrimSpace(*input.ScoringNote)
		input.ScoringNote = &note
	}
	if input.ApplicableTools != nil {
		tools := cleanWhiteSpaceFromEachStringOfAnArray(*input.ApplicableTools)
		input.ApplicableTools = &tools
	}
	if input.Options != nil {
		sanitizeOptions(*input.Options)
	}
}

func SanitizeScoringMatrix(matrix []requests.ScoringRange) {
	for i := range matrix {
		matrix[i].Label = strings.TrimSpace(matrix[i].Label)
	}
}

func SanitizeStartSessionRequest(input *requests.StartSession) {
	input.SubjectID = strings.TrimSpace(input.SubjectID)
	input.AssessmentType = strings.TrimSpace(input.AssessmentType)
	input.DateStarted = strings.TrimSpace(input.DateStarted)
}

func SanitizeSubmitSessionRequest(input *requests.SubmitSession) {
	input.FinalRiskLevel = strings.TrimSpace(input.FinalRiskLevel)
	input.OverrideReason = strings.TrimSpace(input.OverrideReason)
}
