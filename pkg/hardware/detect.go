package hardware

import (
	"context"
	"encoding/csv"
	"strconv"
	"strings"

	"portablesource/pkg/defaults"
	"portablesource/pkg/log"
	"portablesource/pkg/models"
	"portablesource/pkg/process"
)

// Detector finds the primary display adapter with vendor tools.
type Detector struct {
	runner process.Runner
	goos   string
}

func NewDetector(runner process.Runner, goos string) *Detector {
	return &Detector{runner: runner, goos: goos}
}

// Detect returns the first adapter found. A host without a usable adapter
// yields an empty GPUInfo, which resolves to a cpu profile.
func (d *Detector) Detect(ctx context.Context) (models.GPUInfo, error) {
	logger := log.GetLogger(ctx).WithField("action", "detect-gpu")

	result, err := d.runner.Run(ctx, process.Command{
		Name:    "nvidia-smi",
		Args:    []string{"--query-gpu=name,memory.total,driver_version", "--format=csv,noheader,nounits"},
		Timeout: defaults.ToolProbeTimeout,
	})
	if err == nil {
		if info, ok := ParseNvidiaSMI(result.Output); ok {
			logger.WithField("gpu", info.Name).Debug("adapter found with nvidia-smi")

			return info, nil
		}
	} else {
		logger.WithError(err).Debug("nvidia-smi unavailable")
	}

	if d.goos != "windows" {
		return models.GPUInfo{}, nil
	}

	result, err = d.runner.Run(ctx, process.Command{
		Name:    "wmic",
		Args:    []string{"path", "win32_VideoController", "get", "name,AdapterRAM", "/format:csv"},
		Timeout: defaults.ToolProbeTimeout,
	})
	if err != nil {
		logger.WithError(err).Debug("wmic unavailable")

		return models.GPUInfo{}, nil
	}

	info, _ := ParseWMIC(result.Output)

	return info, nil
}

// ParseNvidiaSMI reads the first line of
// `nvidia-smi --query-gpu=name,memory.total,driver_version --format=csv,noheader,nounits`.
func ParseNvidiaSMI(output string) (models.GPUInfo, bool) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		info := models.GPUInfo{Name: strings.TrimSpace(fields[0])}

		if len(fields) > 1 {
			info.MemoryMB, _ = strconv.Atoi(strings.TrimSpace(fields[1]))
		}

		if len(fields) > 2 {
			info.Driver = strings.TrimSpace(fields[2])
		}

		return info, info.Name != ""
	}

	return models.GPUInfo{}, false
}

// ParseWMIC reads `wmic path win32_VideoController get name,AdapterRAM /format:csv`
// and prefers an NVIDIA adapter, then AMD, then the first listed.
func ParseWMIC(output string) (models.GPUInfo, bool) {
	reader := csv.NewReader(strings.NewReader(strings.ReplaceAll(output, "\r", "")))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return models.GPUInfo{}, false
	}

	nameCol, ramCol := -1, -1
	var adapters []models.GPUInfo

	for _, record := range records {
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		if nameCol < 0 {
			for i, col := range record {
				switch strings.ToLower(strings.TrimSpace(col)) {
				case "name":
					nameCol = i
				case "adapterram":
					ramCol = i
				}
			}

			continue
		}

		if nameCol >= len(record) {
			continue
		}

		info := models.GPUInfo{Name: strings.TrimSpace(record[nameCol])}
		if info.Name == "" {
			continue
		}

		if ramCol >= 0 && ramCol < len(record) {
			if bytes, err := strconv.ParseInt(strings.TrimSpace(record[ramCol]), 10, 64); err == nil {
				info.MemoryMB = int(bytes / (1024 * 1024))
			}
		}

		adapters = append(adapters, info)
	}

	for _, vendor := range []models.Vendor{models.VendorNVIDIA, models.VendorAMD} {
		for _, adapter := range adapters {
			if VendorOf(adapter.Name) == vendor {
				return adapter, true
			}
		}
	}

	if len(adapters) > 0 {
		return adapters[0], true
	}

	return models.GPUInfo{}, false
}
