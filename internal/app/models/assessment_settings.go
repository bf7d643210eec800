package models

import (
	"sort"
	"time"
)

// AssessmentSettings is an immutable view of the question catalog and the
// assessment types at one point in time.
type AssessmentSettings struct {
	Version   string
	LoadedAt  time.Time
	Questions []Question
	Types     []AssessmentType

	questionsByTag map[string]int
	typesByName    map[string]int
}

func NewAssessmentSettings(version string, questions []Question, registered []AssessmentType) *AssessmentSettings {
	settings := &AssessmentSettings{
		Version:        version,
		LoadedAt:       time.Now(),
		Questions:      questions,
		Types:          MergeAssessmentTypes(registered, questions),
		questionsByTag: make(map[string]int, len(questions)),
	}
	for i, question := range questions {
		settings.questionsByTag[question.Tag] = i
	}
	settings.typesByName = make(map[string]int, len(settings.Types))
	for i, assessmentType := range settings.Types {
		settings.typesByName[assessmentType.Name] = i
	}
	return settings
}

// QuestionsFor returns the questions tagged with tool, in catalog order.
func (s *AssessmentSettings) QuestionsFor(tool string) []Question {
	var questions []Question
	for _, question := range s.Questions {
		if question.AppliesTo(tool) {
			questions = append(questions, question)
		}
	}
	return questions
}

func (s *AssessmentSettings) FindQuestion(tag string) (Question, bool) {
	i, ok := s.questionsByTag[tag]
	if !ok {
		return Question{}, false
	}
	return s.Questions[i], true
}

// FindType finds a registered type or one only referenced by questions.
func (s *AssessmentSettings) FindType(name string) (AssessmentType, bool) {
	i, ok := s.typesByName[name]
	if !ok {
		return AssessmentType{}, false
	}
	return s.Types[i], true
}

// MergeAssessmentTypes adds an unregistered entry for every tool name that
// questions reference without a registered type, sorted by name.
func MergeAssessmentTypes(registered []AssessmentType, questions []Question) []AssessmentType {
	merged := make([]AssessmentType, 0, len(registered))
	known := make(map[string]bool, len(registered))
	for _, assessmentType := range registered {
		assessmentType.Registered = true
		merged = append(merged, assessmentType)
		known[assessmentType.Name] = true
	}
	for _, question := range questions {
		for _, tool := range question.ApplicableTools {
			if tool == "" || known[tool] {
				continue
			}
			known[tool] = true
			merged = append(merged, AssessmentType{Name: tool})
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Name < merged[j].Name
	})
	return merged
}
