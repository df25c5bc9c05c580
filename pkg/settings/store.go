package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"portablesource/pkg/defaults"
	"portablesource/pkg/models"
)

// FormatVersion is written to new settings records.
const FormatVersion = "1.0.0"

// Store reads and writes the settings record of an install path.
type Store struct {
	installPath string
	fs          afero.Fs
}

func NewStore(installPath string, fs afero.Fs) *Store {
	return &Store{installPath: installPath, fs: fs}
}

// Path is the location of the settings record.
func (s *Store) Path() string {
	return filepath.Join(s.installPath, defaults.ConfigFileName)
}

// Load implements ports.SettingsRepository. A missing record yields a fresh
// one for the install path.
func (s *Store) Load() (*models.Settings, error) {
	record := &models.Settings{}

	err := s.readJSONFile(record, s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return &models.Settings{Version: FormatVersion, InstallPath: s.installPath}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	if record.InstallPath == "" {
		record.InstallPath = s.installPath
	}

	return record, nil
}

// Save implements ports.SettingsRepository.
func (s *Store) Save(record *models.Settings) error {
	if record.Version == "" {
		record.Version = FormatVersion
	}

	if err := s.fs.MkdirAll(s.installPath, defaults.DataDirPerm); err != nil {
		return fmt.Errorf("creating install path %s: %w", s.installPath, err)
	}

	if err := s.writeToFileAsJSON(record, s.Path()); err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	return nil
}

func (s *Store) readJSONFile(out interface{}, inputFile string) error {
	file, err := s.fs.Open(inputFile)
	if err != nil {
		return fmt.Errorf("opening file %s: %w", inputFile, err)
	}

	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("reading file %s: %w", inputFile, err)
	}

	err = json.Unmarshal(data, out)
	if err != nil {
		return fmt.Errorf("unmarshalling: %w", err)
	}

	return nil
}

func (s *Store) writeToFileAsJSON(in interface{}, outputFilePath string) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling: %w", err)
	}

	file, err := s.fs.OpenFile(outputFilePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, defaults.DataFilePerm)
	if err != nil {
		return fmt.Errorf("opening output file %s: %w", outputFilePath, err)
	}

	defer file.Close()

	_, err = file.Write(data)
	if err != nil {
		return fmt.Errorf("writing output file %s: %w", outputFilePath, err)
	}

	return nil
}
