package upload

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arloliu/epiload/filereader"
)

// Reject reason codes, matching the codes browser drop zones report.
const (
	CodeInvalidType = "file-invalid-type"
	CodeTooLarge    = "file-too-large"
)

// RejectReason explains why a file was not accepted.
type RejectReason struct {
	Code    string
	Message string
}

// Rejection is a file excluded from a drop, with the reasons.
type Rejection struct {
	File    filereader.File
	Reasons []RejectReason
}

// Filter partitions dropped files into accepted and rejected sets by
// extension and size, the way a file picker's accept filter would.
type Filter struct {
	extensions []string
	maxSize    int64
}

// NewFilter creates a Filter. Extensions are matched case-insensitively;
// a leading dot is optional. maxSize <= 0 disables the size check.
func NewFilter(extensions []string, maxSize int64) *Filter {
	f := &Filter{maxSize: maxSize}
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		f.extensions = append(f.extensions, e)
	}

	return f
}

// Partition splits files, preserving their order within each set.
func (f *Filter) Partition(files []filereader.File) ([]filereader.File, []Rejection) {
	var accepted []filereader.File
	var rejected []Rejection
	for _, file := range files {
		if reasons := f.check(file); len(reasons) > 0 {
			rejected = append(rejected, Rejection{File: file, Reasons: reasons})

			continue
		}
		accepted = append(accepted, file)
	}

	return accepted, rejected
}

func (f *Filter) check(file filereader.File) []RejectReason {
	var reasons []RejectReason

	ext := strings.ToLower(filepath.Ext(file.Name()))
	if len(f.extensions) > 0 && !slices.Contains(f.extensions, ext) {
		reasons = append(reasons, RejectReason{
			Code:    CodeInvalidType,
			Message: "File type must be one of " + strings.Join(f.extensions, ", "),
		})
	}

	// files that cannot report a size are left to the reader's own limit
	if sizer, ok := file.(filereader.Sizer); ok && f.maxSize > 0 {
		if size, err := sizer.Size(); err == nil && size > f.maxSize {
			reasons = append(reasons, RejectReason{
				Code:    CodeTooLarge,
				Message: fmt.Sprintf("File is larger than %d bytes", f.maxSize),
			})
		}
	}

	return reasons
}
