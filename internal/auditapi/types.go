package auditapi

import (
	"bytes"
	"encoding/json"
)

const (
	statusOKValueConstant     = "OK"
	statusFaultyValueConstant = "Faulty"
)

// AuditRequest is the sole outbound payload shape accepted by the audit service.
type AuditRequest struct {
	DocURL string `json:"doc_url"`
}

// QuestionNumber carries the question number exactly as the service sent it,
// accepting both JSON numbers and JSON strings.
type QuestionNumber string

// UnmarshalJSON decodes a number or string question identifier without losing its textual form.
func (questionNumber *QuestionNumber) UnmarshalJSON(data []byte) error {
	trimmedData := bytes.TrimSpace(data)
	if len(trimmedData) > 0 && trimmedData[0] == '"' {
		var textValue string
		if unmarshalError := json.Unmarshal(trimmedData, &textValue); unmarshalError != nil {
			return unmarshalError
		}
		*questionNumber = QuestionNumber(textValue)
		return nil
	}

	var numericValue json.Number
	if unmarshalError := json.Unmarshal(trimmedData, &numericValue); unmarshalError != nil {
		return unmarshalError
	}
	*questionNumber = QuestionNumber(numericValue.String())
	return nil
}

// ResultRow models one question's audit verdict as returned by the service.
//
// The JSON keys mirror the service schema exactly, including the embedded
// spaces; they are case- and space-sensitive on the wire.
type ResultRow struct {
	QuestionNumber QuestionNumber `json:"Q_no"`
	OptionStatus   string         `json:"Option Status"`
	IssueSummary   string         `json:"Issue Summary"`
}

// StatusCategory enumerates the styling-relevant audit verdict categories.
type StatusCategory string

// Supported status categories. Anything the service reports outside the two
// styled verdicts, including "Inconclusive", falls into the unstyled category.
const (
	StatusCategoryOK       StatusCategory = "ok"
	StatusCategoryFaulty   StatusCategory = "faulty"
	StatusCategoryUnstyled StatusCategory = "unstyled"
)

// CategorizeStatus maps a raw status string onto its category by exact match.
func CategorizeStatus(rawStatus string) StatusCategory {
	switch rawStatus {
	case statusOKValueConstant:
		return StatusCategoryOK
	case statusFaultyValueConstant:
		return StatusCategoryFaulty
	default:
		return StatusCategoryUnstyled
	}
}
