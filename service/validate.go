package service

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"worker-transcribe/constant"
	"worker-transcribe/dto"
)

// sanitize trims the input, collapses whitespace runs into single spaces and
// strips everything that is not a letter, mark, number, punctuation or
// space (line breaks included).
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsLetter(r), unicode.IsMark(r), unicode.IsNumber(r), unicode.IsPunct(r):
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// validateFields sanitizes and bounds-checks the user-supplied project name
// and description.
func validateFields(projectName, description string) (string, string, error) {
	name := sanitize(projectName)
	if name == "" {
		return "", "", fmt.Errorf("%w: projectname missing", ErrValidation)
	}
	if utf8.RuneCountInString(name) > constant.MaxProjectNameLen {
		return "", "", fmt.Errorf("%w: projectname must not be longer than %d characters", ErrValidation, constant.MaxProjectNameLen)
	}

	desc := sanitize(description)
	if utf8.RuneCountInString(desc) > constant.MaxDescriptionLen {
		return "", "", fmt.Errorf("%w: description must not be longer than %d characters", ErrValidation, constant.MaxDescriptionLen)
	}

	return name, desc, nil
}

// validateRequest runs the upload prechecks: a file must be present and must
// not exceed the absolute input ceiling.
func validateRequest(req dto.UploadRequest, maxInputBytes int64) (string, string, error) {
	if req.File == nil || req.FileSize == 0 {
		return "", "", fmt.Errorf("%w: no file submitted", ErrValidation)
	}
	if req.FileSize > maxInputBytes {
		return "", "", fmt.Errorf("%w: file is too big", ErrValidation)
	}
	return validateFields(req.ProjectName, req.Description)
}
