package questions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/dto/requests"
	"supervision-service/internal/pkg/exceptions"
)

const defaultCSVCategory = "General"

var requiredCSVColumns = []string{"universal_tag", "question_text", "input_type", "source_type", "assessments", "scoring_note"}

// ReadQuestionsCSV turns a catalog export into create requests. Boolean and
// scale questions get generated options: Yes scores 1 and No scores 0, scale
// points score their own value.
func ReadQuestionsCSV(r io.Reader) ([]requests.CreateQuestion, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, exceptions.ErrCannotParseCSV(err, 1)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))] = i
	}
	for _, name := range requiredCSVColumns {
		if _, ok := columns[name]; !ok {
			return nil, exceptions.ErrCannotParseCSV(fmt.Errorf("missing column %s", name), 1)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var result []requests.CreateQuestion
	for row := 2; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, exceptions.ErrCannotParseCSV(err, row)
		}

		category := field(record, "category")
		if category == "" {
			category = defaultCSVCategory
		}
		inputType := models.InputType(field(record, "input_type"))

		result = append(result, requests.CreateQuestion{
			Tag:             field(record, "universal_tag"),
			Text:            field(record, "question_text"),
			InputType:       inputType,
			Category:        category,
			SourceType:      models.SourceType(field(record, "source_type")),
			ApplicableTools: splitTools(field(record, "assessments")),
			Options:         generatedOptions(inputType),
			ScoringNote:     field(record, "scoring_note"),
		})
	}
	return result, nil
}

func splitTools(value string) []string {
	tools := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	result := make([]string, 0, len(tools))
	for _, tool := range tools {
		tool = strings.TrimSpace(tool)
		if tool != "" {
			result = append(result, tool)
		}
	}
	return result
}

func generatedOptions(inputType models.InputType) []requests.QuestionOption {
	switch inputType {
	case models.InputTypeBoolean:
		return []requests.QuestionOption{
			{Label: "Yes", Value: models.BoolValue(true), Score: 1},
			{Label: "No", Value: models.BoolValue(false), Score: 0},
		}
	case models.InputTypeScale03:
		return []requests.QuestionOption{
			{Label: "0 - None", Value: models.IntValue(0), Score: 0},
			{Label: "1 - Low", Value: models.IntValue(1), Score: 1},
			{Label: "2 - Moderate", Value: models.IntValue(2), Score: 2},
			{Label: "3 - High", Value: models.IntValue(3), Score: 3},
		}
	}
	return nil
}
