package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"courseledger/apperrors"
	"courseledger/models"
	"courseledger/validators"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// StudentCreator is the part of the student repository the import needs.
type StudentCreator interface {
	Create(ctx context.Context, student *models.Student) (*models.Student, error)
}

// ImportResult summarises one workbook import.
type ImportResult struct {
	Imported int               `json:"importedCount"`
	Skipped  int               `json:"skippedCount"`
	Errors   map[string]string `json:"errors,omitempty"`
}

// ImportStudentsFromExcel reads the first sheet of an .xlsx workbook. Row 1
// is a header; columns are studentId, name, email, major, grade. Rows that
// fail validation or collide with an existing student are skipped and
// reported by row number.
func ImportStudentsFromExcel(ctx context.Context, file io.Reader, students StudentCreator, log *zap.Logger) (*ImportResult, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, apperrors.Business("failed to open excel file: " + err.Error())
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn("closing workbook", zap.Error(err))
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, apperrors.Business("excel file does not contain any sheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}

	result := &ImportResult{Errors: map[string]string{}}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		rowKey := "row " + strconv.Itoa(i+1)

		student, err := studentFromRow(row)
		if err == nil {
			_, err = students.Create(ctx, student)
		}
		if err != nil {
			var be *apperrors.BusinessError
			if !errors.As(err, &be) {
				return nil, fmt.Errorf("import %s: %w", rowKey, err)
			}
			result.Skipped++
			result.Errors[rowKey] = be.Message
			continue
		}
		result.Imported++
	}

	log.Info("student import finished",
		zap.String("sheet", sheetName), zap.Int("imported", result.Imported), zap.Int("skipped", result.Skipped))
	return result, nil
}

func studentFromRow(row []string) (*models.Student, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	student := &models.Student{
		StudentID: cell(0),
		Name:      cell(1),
		Email:     cell(2),
		Major:     cell(3),
	}
	if student.StudentID == "" {
		return nil, apperrors.Business("studentId is required")
	}
	if err := validators.Var(student.Email, "required,email"); err != nil {
		return nil, apperrors.Business("email must be a valid email")
	}
	if grade := cell(4); grade != "" {
		n, err := strconv.Atoi(grade)
		if err != nil || n < 0 {
			return nil, apperrors.Business("grade must be a non-negative number")
		}
		student.Grade = n
	}
	return student, nil
}
