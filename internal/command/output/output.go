package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	perrors "portablesource/pkg/errors"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Write renders v to w as yaml or json.
func Write(w io.Writer, format string, v interface{}) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(v)
	case FormatJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("%w: %s", perrors.ErrUnsupportedOutputFormat, format)
	}

	if err != nil {
		return fmt.Errorf("rendering %s: %w", format, err)
	}

	_, err = w.Write(data)

	return err
}
