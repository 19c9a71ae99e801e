package render

import (
	"errors"
	"fmt"

	"github.com/temirov/sheetaudit/internal/auditapi"
	"github.com/temirov/sheetaudit/internal/docref"
	"github.com/temirov/sheetaudit/internal/sheet"
)

const (
	documentHeaderLabelConstant = "Document Link"
	questionHeaderLabelConstant = "Question"
	statusHeaderLabelConstant   = "Status"
	issueHeaderLabelConstant    = "Issue Summary"

	greenBackgroundColorConstant = "C6EFCE"
	greenFontColorConstant       = "006100"
	redBackgroundColorConstant   = "FFC7CE"
	redFontColorConstant         = "9C0006"

	statusColumnOffsetConstant = 2
	renderStepFailureTemplate  = "unable to render result table: %w"
)

// ErrEmptyResultSet guards the invariant that a table is written only for a
// non-empty result set; the empty case short-circuits upstream.
var ErrEmptyResultSet = errors.New("refusing to render an empty result set")

// ErrInvalidAnchor reports an anchor coordinate outside the surface.
var ErrInvalidAnchor = errors.New("anchor coordinates must be 1-based positive values")

var headerLabels = []string{
	documentHeaderLabelConstant,
	questionHeaderLabelConstant,
	statusHeaderLabelConstant,
	issueHeaderLabelConstant,
}

var (
	okStatusStylePair     = sheet.StylePair{Background: greenBackgroundColorConstant, Font: greenFontColorConstant}
	faultyStatusStylePair = sheet.StylePair{Background: redBackgroundColorConstant, Font: redFontColorConstant}
)

// HeaderLabels returns the fixed four-column header in render order.
func HeaderLabels() []string {
	duplicatedLabels := make([]string, len(headerLabels))
	copy(duplicatedLabels, headerLabels)
	return duplicatedLabels
}

// StyleForCategory maps a status category onto its color pair.
//
// The mapping is exhaustive over StatusCategory; the unstyled category maps
// to nil, meaning the cell keeps its default styling.
func StyleForCategory(statusCategory auditapi.StatusCategory) *sheet.StylePair {
	switch statusCategory {
	case auditapi.StatusCategoryOK:
		return &okStatusStylePair
	case auditapi.StatusCategoryFaulty:
		return &faultyStatusStylePair
	default:
		return nil
	}
}

// TableRenderer materializes an audit result set into a surface-anchored table.
type TableRenderer struct{}

// Render writes the header and data rows as one rendering operation.
//
// The header occupies the anchor row in bold; one data row per result follows
// immediately below, preserving result order verbatim with the document
// reference echoed into every row. The four columns are sized to their
// content and the status column receives its color pairs in a single batch
// covering exactly the written data rows.
func (renderer TableRenderer) Render(surface sheet.Surface, anchor sheet.Anchor, reference docref.DocumentReference, resultRows []auditapi.ResultRow) error {
	if len(resultRows) == 0 {
		return ErrEmptyResultSet
	}
	if !anchor.Valid() {
		return ErrInvalidAnchor
	}

	for headerOffset, headerLabel := range headerLabels {
		if writeError := surface.WriteCell(anchor.Row, anchor.Column+headerOffset, headerLabel); writeError != nil {
			return fmt.Errorf(renderStepFailureTemplate, writeError)
		}
	}
	if headerStyleError := surface.StyleHeader(anchor.Row, anchor.Column, len(headerLabels)); headerStyleError != nil {
		return fmt.Errorf(renderStepFailureTemplate, headerStyleError)
	}

	for rowOffset, resultRow := range resultRows {
		targetRow := anchor.Row + 1 + rowOffset
		rowCells := []any{
			string(reference),
			string(resultRow.QuestionNumber),
			resultRow.OptionStatus,
			resultRow.IssueSummary,
		}
		for cellOffset, cellValue := range rowCells {
			if writeError := surface.WriteCell(targetRow, anchor.Column+cellOffset, cellValue); writeError != nil {
				return fmt.Errorf(renderStepFailureTemplate, writeError)
			}
		}
	}

	if fitError := surface.FitColumns(anchor.Column, len(headerLabels)); fitError != nil {
		return fmt.Errorf(renderStepFailureTemplate, fitError)
	}

	statusStylePairs := make([]*sheet.StylePair, len(resultRows))
	for rowOffset, resultRow := range resultRows {
		statusStylePairs[rowOffset] = StyleForCategory(auditapi.CategorizeStatus(resultRow.OptionStatus))
	}
	if styleError := surface.ApplyColumnStyles(anchor.Column+statusColumnOffsetConstant, anchor.Row+1, statusStylePairs); styleError != nil {
		return fmt.Errorf(renderStepFailureTemplate, styleError)
	}

	return nil
}
