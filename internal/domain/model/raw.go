package model

// RawQuestion запись банка вопросов в том виде, в котором она хранится.
// CorrectAnswers - номера правильных вариантов через запятую, например "1,3,4".
type RawQuestion struct {
	Question       string   `json:"question" yaml:"question"`
	Options        []string `json:"options" yaml:"options"`
	CorrectAnswers string   `json:"correct_answers" yaml:"correct_answers"`
}
