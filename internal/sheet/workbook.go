package sheet

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	defaultWorksheetNameConstant        = "Audit"
	workbookOpenFailureTemplateConstant = "unable to open workbook %s: %w"
	worksheetFailureTemplateConstant    = "unable to prepare worksheet %s: %w"
	cellNameFailureTemplateConstant     = "unable to resolve cell coordinate (%d,%d): %w"
	cellWriteFailureTemplateConstant    = "unable to write cell %s: %w"
	styleFailureTemplateConstant        = "unable to build cell style: %w"
	styleApplyFailureTemplateConstant   = "unable to style cell range %s:%s: %w"
	columnNameFailureTemplateConstant   = "unable to resolve column %d: %w"
	columnWidthFailureTemplateConstant  = "unable to size column %s: %w"
	workbookSaveFailureTemplateConstant = "unable to save workbook %s: %w"
	solidFillPatternTypeConstant        = "pattern"
	solidFillPatternIndexConstant       = 1
	columnWidthPaddingConstant          = 2.0
	columnWidthCeilingConstant          = 80.0
)

// Workbook is the xlsx-backed Surface implementation.
//
// Column widths are accumulated while cells are written and materialized by
// FitColumns; style identifiers are cached per color pair so repeated
// verdicts share one workbook style.
type Workbook struct {
	file          *excelize.File
	filePath      string
	worksheetName string
	columnWidths  map[int]float64
	styleCache    map[StylePair]int
}

// OpenWorkbook opens the workbook at filePath, creating it when absent, and
// ensures the named worksheet exists. An existing file that cannot be read
// is reported rather than replaced. An empty worksheet name selects the
// default audit worksheet.
func OpenWorkbook(filePath string, worksheetName string) (*Workbook, error) {
	trimmedWorksheetName := strings.TrimSpace(worksheetName)
	if len(trimmedWorksheetName) == 0 {
		trimmedWorksheetName = defaultWorksheetNameConstant
	}

	workbookFile, openError := excelize.OpenFile(filePath)
	if openError != nil {
		if !errors.Is(openError, fs.ErrNotExist) {
			return nil, fmt.Errorf(workbookOpenFailureTemplateConstant, filePath, openError)
		}
		workbookFile = excelize.NewFile()
	}

	worksheetIndex, lookupError := workbookFile.GetSheetIndex(trimmedWorksheetName)
	if lookupError != nil {
		return nil, fmt.Errorf(worksheetFailureTemplateConstant, trimmedWorksheetName, lookupError)
	}
	if worksheetIndex < 0 {
		createdIndex, creationError := workbookFile.NewSheet(trimmedWorksheetName)
		if creationError != nil {
			return nil, fmt.Errorf(worksheetFailureTemplateConstant, trimmedWorksheetName, creationError)
		}
		worksheetIndex = createdIndex
	}
	workbookFile.SetActiveSheet(worksheetIndex)

	return &Workbook{
		file:          workbookFile,
		filePath:      filePath,
		worksheetName: trimmedWorksheetName,
		columnWidths:  make(map[int]float64),
		styleCache:    make(map[StylePair]int),
	}, nil
}

// WorksheetName returns the worksheet the workbook writes into.
func (workbook *Workbook) WorksheetName() string {
	return workbook.worksheetName
}

// WriteCell stores a value at the 1-based coordinate and tracks its width.
func (workbook *Workbook) WriteCell(rowIndex int, columnIndex int, cellValue any) error {
	cellName, coordinateError := excelize.CoordinatesToCellName(columnIndex, rowIndex)
	if coordinateError != nil {
		return fmt.Errorf(cellNameFailureTemplateConstant, rowIndex, columnIndex, coordinateError)
	}

	if writeError := workbook.file.SetCellValue(workbook.worksheetName, cellName, cellValue); writeError != nil {
		return fmt.Errorf(cellWriteFailureTemplateConstant, cellName, writeError)
	}

	contentWidth := float64(len([]rune(fmt.Sprint(cellValue)))) + columnWidthPaddingConstant
	if contentWidth > columnWidthCeilingConstant {
		contentWidth = columnWidthCeilingConstant
	}
	if contentWidth > workbook.columnWidths[columnIndex] {
		workbook.columnWidths[columnIndex] = contentWidth
	}

	return nil
}

// StyleHeader applies the bold header style across the header cell block.
func (workbook *Workbook) StyleHeader(rowIndex int, startColumn int, columnCount int) error {
	headerStyleID, styleError := workbook.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if styleError != nil {
		return fmt.Errorf(styleFailureTemplateConstant, styleError)
	}
	return workbook.applyStyleRange(rowIndex, startColumn, rowIndex, startColumn+columnCount-1, headerStyleID)
}

// ApplyColumnStyles styles the column block at startRow..startRow+len(pairs)-1
// as one batch. Equal adjacent pairs collapse into single range applications
// and nil entries leave default styling in place.
func (workbook *Workbook) ApplyColumnStyles(columnIndex int, startRow int, stylePairs []*StylePair) error {
	rowOffset := 0
	for rowOffset < len(stylePairs) {
		currentPair := stylePairs[rowOffset]
		runLength := 1
		for rowOffset+runLength < len(stylePairs) && equalStylePairs(stylePairs[rowOffset+runLength], currentPair) {
			runLength++
		}

		if currentPair != nil {
			styleID, styleError := workbook.resolvePairStyle(*currentPair)
			if styleError != nil {
				return styleError
			}
			firstRow := startRow + rowOffset
			lastRow := firstRow + runLength - 1
			if applyError := workbook.applyStyleRange(firstRow, columnIndex, lastRow, columnIndex, styleID); applyError != nil {
				return applyError
			}
		}

		rowOffset += runLength
	}
	return nil
}

// FitColumns sizes the column block to the widest content written so far.
func (workbook *Workbook) FitColumns(startColumn int, columnCount int) error {
	for columnIndex := startColumn; columnIndex < startColumn+columnCount; columnIndex++ {
		trackedWidth, widthTracked := workbook.columnWidths[columnIndex]
		if !widthTracked {
			continue
		}

		columnName, columnNameError := excelize.ColumnNumberToName(columnIndex)
		if columnNameError != nil {
			return fmt.Errorf(columnNameFailureTemplateConstant, columnIndex, columnNameError)
		}

		if widthError := workbook.file.SetColWidth(workbook.worksheetName, columnName, columnName, trackedWidth); widthError != nil {
			return fmt.Errorf(columnWidthFailureTemplateConstant, columnName, widthError)
		}
	}
	return nil
}

// Save writes the workbook back to its file path.
func (workbook *Workbook) Save() error {
	if saveError := workbook.file.SaveAs(workbook.filePath); saveError != nil {
		return fmt.Errorf(workbookSaveFailureTemplateConstant, workbook.filePath, saveError)
	}
	return nil
}

// Close releases the underlying workbook resources.
func (workbook *Workbook) Close() error {
	return workbook.file.Close()
}

func (workbook *Workbook) resolvePairStyle(stylePair StylePair) (int, error) {
	if cachedStyleID, styleCached := workbook.styleCache[stylePair]; styleCached {
		return cachedStyleID, nil
	}

	styleID, styleError := workbook.file.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    solidFillPatternTypeConstant,
			Pattern: solidFillPatternIndexConstant,
			Color:   []string{stylePair.Background},
		},
		Font: &excelize.Font{Color: stylePair.Font},
	})
	if styleError != nil {
		return 0, fmt.Errorf(styleFailureTemplateConstant, styleError)
	}

	workbook.styleCache[stylePair] = styleID
	return styleID, nil
}

func (workbook *Workbook) applyStyleRange(firstRow int, firstColumn int, lastRow int, lastColumn int, styleID int) error {
	startCellName, startError := excelize.CoordinatesToCellName(firstColumn, firstRow)
	if startError != nil {
		return fmt.Errorf(cellNameFailureTemplateConstant, firstRow, firstColumn, startError)
	}
	endCellName, endError := excelize.CoordinatesToCellName(lastColumn, lastRow)
	if endError != nil {
		return fmt.Errorf(cellNameFailureTemplateConstant, lastRow, lastColumn, endError)
	}

	if applyError := workbook.file.SetCellStyle(workbook.worksheetName, startCellName, endCellName, styleID); applyError != nil {
		return fmt.Errorf(styleApplyFailureTemplateConstant, startCellName, endCellName, applyError)
	}
	return nil
}

func equalStylePairs(firstPair *StylePair, secondPair *StylePair) bool {
	if firstPair == nil || secondPair == nil {
		return firstPair == secondPair
	}
	return *firstPair == *secondPair
}
