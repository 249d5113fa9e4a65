package sdk

import (
	"encoding/json"
	"net/http"
)

const (
	modelEndpoint  = "/model"
	trainEndpoint  = "/train"
	statusEndpoint = "/status"

	StatusQueued     = "queued"
	StatusAggregated = "aggregated"
)

type Model struct {
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
	Version uint64      `json:"version"`
}

// UpdateRequest leaves SampleSize nil to let the coordinator apply its default.
type UpdateRequest struct {
	ClientID   string      `json:"client_id,omitempty"`
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	SampleSize *int        `json:"sample_size,omitempty"`
}

type SubmitResult struct {
	Status   string `json:"status"`
	Buffered int    `json:"buffered,omitempty"`
	Version  uint64 `json:"version,omitempty"`
}

type Shape struct {
	Features   int `json:"features"`
	Categories int `json:"categories"`
}

type Status struct {
	Version    uint64 `json:"version"`
	Buffered   int    `json:"buffered"`
	MinUpdates int    `json:"min_updates"`
	Shape      Shape  `json:"shape"`
}

func (sdk *fedSDK) GetModel() (Model, error) {
	url := sdk.coordinatorURL + modelEndpoint

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return Model{}, err
	}

	var m Model
	if err := json.Unmarshal(body, &m); err != nil {
		return Model{}, err
	}

	return m, nil
}

func (sdk *fedSDK) SubmitUpdate(req UpdateRequest) (SubmitResult, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return SubmitResult{}, err
	}

	url := sdk.coordinatorURL + trainEndpoint

	body, err := sdk.processRequest(http.MethodPost, url, data, http.StatusOK)
	if err != nil {
		return SubmitResult{}, err
	}

	var res SubmitResult
	if err := json.Unmarshal(body, &res); err != nil {
		return SubmitResult{}, err
	}

	return res, nil
}

func (sdk *fedSDK) Status() (Status, error) {
	url := sdk.coordinatorURL + statusEndpoint

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return Status{}, err
	}

	var s Status
	if err := json.Unmarshal(body, &s); err != nil {
		return Status{}, err
	}

	return s, nil
}
