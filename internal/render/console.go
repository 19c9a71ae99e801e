package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/temirov/sheetaudit/internal/auditapi"
	"github.com/temirov/sheetaudit/internal/docref"
)

const (
	previewHeaderTemplateConstant = "%s\t%s\t%s\n"
	previewRowTemplateConstant    = "%s\t%s\t%s\n"
	previewTitleTemplateConstant  = "Audit results for %s\n"
)

// ConsolePreview prints a colored terminal rendition of the result table so
// the user can inspect verdicts without opening the workbook.
type ConsolePreview struct {
	writer        io.Writer
	okSprinter    func(format string, arguments ...interface{}) string
	faultSprinter func(format string, arguments ...interface{}) string
}

// NewConsolePreview constructs a preview bound to the provided writer.
func NewConsolePreview(writer io.Writer) *ConsolePreview {
	return &ConsolePreview{
		writer:        writer,
		okSprinter:    color.New(color.FgGreen).SprintfFunc(),
		faultSprinter: color.New(color.FgRed).SprintfFunc(),
	}
}

// Preview writes the result rows with status coloring matching the workbook styling.
func (preview *ConsolePreview) Preview(reference docref.DocumentReference, resultRows []auditapi.ResultRow) error {
	if _, writeError := fmt.Fprintf(preview.writer, previewTitleTemplateConstant, string(reference)); writeError != nil {
		return writeError
	}
	if _, writeError := fmt.Fprintf(preview.writer, previewHeaderTemplateConstant, questionHeaderLabelConstant, statusHeaderLabelConstant, issueHeaderLabelConstant); writeError != nil {
		return writeError
	}

	for _, resultRow := range resultRows {
		statusText := resultRow.OptionStatus
		switch auditapi.CategorizeStatus(resultRow.OptionStatus) {
		case auditapi.StatusCategoryOK:
			statusText = preview.okSprinter("%s", resultRow.OptionStatus)
		case auditapi.StatusCategoryFaulty:
			statusText = preview.faultSprinter("%s", resultRow.OptionStatus)
		}

		if _, writeError := fmt.Fprintf(preview.writer, previewRowTemplateConstant, string(resultRow.QuestionNumber), statusText, resultRow.IssueSummary); writeError != nil {
			return writeError
		}
	}

	return nil
}
