package sdk

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const CTJSON string = "application/json"

type PageMetadata struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type SDK interface {
	// GetModel fetches the current global model.
	//
	// example:
	//  model, _ := sdk.GetModel()
	//  fmt.Println(model.Version)
	GetModel() (Model, error)

	// SubmitUpdate sends a locally trained update to the coordinator.
	//
	// example:
	//  size := 120
	//  res, _ := sdk.SubmitUpdate(sdk.UpdateRequest{
	//    Weights:    weights,
	//    Bias:       bias,
	//    SampleSize: &size,
	//  })
	//  fmt.Println(res.Status)
	SubmitUpdate(req UpdateRequest) (SubmitResult, error)

	// Status reports the model version and buffer fill level.
	Status() (Status, error)

	// ListRounds lists completed aggregation rounds, oldest first.
	//
	// example:
	//  page, _ := sdk.ListRounds(0, 10)
	//  fmt.Println(page.Total)
	ListRounds(offset uint64, limit uint64) (RoundPage, error)

	// GetRound gets the round that produced the given model version.
	GetRound(version uint64) (Round, error)
}

// Error is returned for every non-2xx coordinator response.
type Error struct {
	Status  int    `json:"-"`
	Kind    string `json:"kind"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected response code: %d", e.Status)
	}

	return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Kind)
}

type fedSDK struct {
	coordinatorURL string
	client         *http.Client
}

type Config struct {
	CoordinatorURL  string
	TLSVerification bool
}

func NewSDK(cfg Config) SDK {
	return &fedSDK{
		coordinatorURL: cfg.CoordinatorURL,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !cfg.TLSVerification,
				},
			},
		},
	}
}

func (sdk *fedSDK) processRequest(method, reqURL string, data []byte, expectedRespCode int) ([]byte, error) {
	req, err := http.NewRequest(method, reqURL, bytes.NewReader(data))
	if err != nil {
		return []byte{}, err
	}

	req.Header.Add("Content-Type", CTJSON)

	resp, err := sdk.client.Do(req)
	if err != nil {
		return []byte{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []byte{}, err
	}

	if resp.StatusCode != expectedRespCode {
		e := &Error{Status: resp.StatusCode}
		_ = json.Unmarshal(body, e)

		return []byte{}, e
	}

	return body, nil
}
