package authority

import (
	"encoding/json"
	"errors"
	"fmt"

	"portablesource/pkg/models"
)

var (
	errUnsuccessful = errors.New("server reported failure")
	errNoSteps      = errors.New("plan has no steps")
	errNoRepository = errors.New("response carries no repository")
)

type planBody struct {
	Steps             []models.RemoteStep `json:"steps"`
	InstallationOrder []models.RemoteStep `json:"installation_order"`
	TorchIndexURL     string              `json:"torch_index_url"`
	OnnxPackageName   string              `json:"onnx_package_name"`
}

type planEnvelope struct {
	Success          *bool     `json:"success"`
	InstallationPlan *planBody `json:"installation_plan"`
	planBody
}

// DecodePlan accepts both the enveloped form
// {"success":true,"installation_plan":{...}} and a bare plan object, with
// steps listed under "steps" or "installation_order".
func DecodePlan(data []byte) (*models.RemotePlan, error) {
	var envelope planEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}

	if envelope.Success != nil && !*envelope.Success {
		return nil, errUnsuccessful
	}

	body := envelope.planBody
	if envelope.InstallationPlan != nil {
		body = *envelope.InstallationPlan
	}

	steps := body.Steps
	if len(steps) == 0 {
		steps = body.InstallationOrder
	}

	if len(steps) == 0 {
		return nil, errNoSteps
	}

	return &models.RemotePlan{
		Steps:           steps,
		TorchIndexURL:   body.TorchIndexURL,
		OnnxPackageName: body.OnnxPackageName,
	}, nil
}

type repositoryBody struct {
	Name          string `json:"name"`
	RepositoryURL string `json:"repositoryUrl"`
	FilePath      string `json:"filePath"`
	ProgramArgs   string `json:"programArgs"`
	Description   string `json:"description"`
}

type repositoryResponse struct {
	Success    bool            `json:"success"`
	Repository *repositoryBody `json:"repository"`

	Name        string `json:"name"`
	URL         string `json:"url"`
	MainFile    string `json:"main_file"`
	ProgramArgs string `json:"program_args"`
	Description string `json:"description"`
}

// DecodeRepository accepts the current
// {"success":true,"repository":{"repositoryUrl",...}} form and the legacy
// {"url","main_file","program_args"} form.
func DecodeRepository(data []byte) (*models.RepositoryDescriptor, error) {
	var resp repositoryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding repository: %w", err)
	}

	if resp.Success && resp.Repository != nil && resp.Repository.RepositoryURL != "" {
		return &models.RepositoryDescriptor{
			Name:        resp.Repository.Name,
			URL:         resp.Repository.RepositoryURL,
			MainFile:    resp.Repository.FilePath,
			ProgramArgs: resp.Repository.ProgramArgs,
			Description: resp.Repository.Description,
		}, nil
	}

	if resp.URL != "" {
		return &models.RepositoryDescriptor{
			Name:        resp.Name,
			URL:         resp.URL,
			MainFile:    resp.MainFile,
			ProgramArgs: resp.ProgramArgs,
			Description: resp.Description,
		}, nil
	}

	return nil, errNoRepository
}

type searchResponse struct {
	Repositories []struct {
		Name          string `json:"name"`
		Description   string `json:"description"`
		URL           string `json:"url"`
		RepositoryURL string `json:"repositoryUrl"`
	} `json:"repositories"`
}

// DecodeSearch reads {"repositories":[...]}.
func DecodeSearch(data []byte) ([]models.RepositoryDescriptor, error) {
	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding search results: %w", err)
	}

	results := make([]models.RepositoryDescriptor, 0, len(resp.Repositories))

	for _, repo := range resp.Repositories {
		url := repo.RepositoryURL
		if url == "" {
			url = repo.URL
		}

		results = append(results, models.RepositoryDescriptor{
			Name:        repo.Name,
			URL:         url,
			Description: repo.Description,
		})
	}

	return results, nil
}
