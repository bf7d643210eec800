package constvars

const (
	RegexQuestionTag  = `^[A-Za-z0-9_-]+$`
	RegexDateYYYYMMDD = `^\d{4}-\d{2}-\d{2}$`
)
