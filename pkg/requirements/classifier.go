package requirements

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"portablesource/pkg/log"
	"portablesource/pkg/models"
)

var (
	requirementPattern = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)(?:\[([^\]]+)\])?(.*)$`)
	versionPattern     = regexp.MustCompile(`([=<>!~]+)\s*([^\s,;]+)`)
)

var categoryTable = map[string]models.Category{
	"torch":       models.CategoryTorch,
	"torchvision": models.CategoryTorch,
	"torchaudio":  models.CategoryTorch,
	"torchtext":   models.CategoryTorch,
	"torchdata":   models.CategoryTorch,

	"onnxruntime":          models.CategoryOnnxRuntime,
	"onnxruntime-gpu":      models.CategoryOnnxRuntime,
	"onnxruntime-directml": models.CategoryOnnxRuntime,
	"onnxruntime-openvino": models.CategoryOnnxRuntime,

	"tensorflow":     models.CategoryTensorFlow,
	"tensorflow-gpu": models.CategoryTensorFlow,
	"tf-nightly":     models.CategoryTensorFlow,
	"tf-nightly-gpu": models.CategoryTensorFlow,
}

// CategoryOf classifies a distribution name. Names outside the known
// vocabularies are regular packages.
func CategoryOf(name string) models.Category {
	if category, ok := categoryTable[strings.ToLower(name)]; ok {
		return category
	}

	return models.CategoryRegular
}

// ParseLine parses one manifest line. Blank lines, comments and installer
// options are skipped with ok == false and a nil error.
func ParseLine(line string) (models.PackageRecord, bool, error) {
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = line[:idx]
	}

	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "-") {
		return models.PackageRecord{}, false, nil
	}

	match := requirementPattern.FindStringSubmatch(line)
	if match == nil {
		return models.PackageRecord{}, false, fmt.Errorf("unparsable requirement %q", line)
	}

	rest := strings.TrimSpace(match[3])
	if rest != "" && !strings.ContainsAny(rest[:1], "=<>!~;@,") {
		return models.PackageRecord{}, false, fmt.Errorf("unparsable requirement %q", line)
	}

	record := models.PackageRecord{
		Name:         strings.ToLower(match[1]),
		Category:     CategoryOf(match[1]),
		OriginalLine: line,
	}

	if match[2] != "" {
		for _, extra := range strings.Split(match[2], ",") {
			if extra = strings.TrimSpace(extra); extra != "" {
				record.Extras = append(record.Extras, extra)
			}
		}
	}

	if constraint, _, _ := strings.Cut(rest, ";"); constraint != "" && !strings.HasPrefix(constraint, "@") {
		if version := versionPattern.FindStringSubmatch(constraint); version != nil {
			record.Comparator = version[1]
			record.Version = version[2]
		}
	}

	return record, true, nil
}

// Analyze parses manifest text line by line. Malformed lines are logged
// and skipped, the rest are returned in manifest order.
func Analyze(ctx context.Context, text string) []models.PackageRecord {
	logger := log.GetLogger(ctx).WithField("action", "analyze-requirements")

	var records []models.PackageRecord

	for i, line := range strings.Split(text, "\n") {
		record, ok, err := ParseLine(line)
		if err != nil {
			logger.WithField("line", i+1).WithError(err).Warn("skipping requirement")

			continue
		}

		if ok {
			records = append(records, record)
		}
	}

	logger.Debugf("parsed %d requirements", len(records))

	return records
}
