package audit

import (
	"github.com/temirov/sheetaudit/internal/auditapi"
	"github.com/temirov/sheetaudit/internal/docref"
)

func countFaultyRows(resultRows []auditapi.ResultRow) int {
	faultyCount := 0
	for _, resultRow := range resultRows {
		if auditapi.CategorizeStatus(resultRow.OptionStatus) == auditapi.StatusCategoryFaulty {
			faultyCount++
		}
	}
	return faultyCount
}

func documentIdentifierForJournal(reference string) string {
	identifier, found := docref.ExtractDocumentID(docref.DocumentReference(reference))
	if !found {
		return ""
	}
	return identifier
}
