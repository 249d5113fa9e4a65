package api

import (
	"net/http"

	"github.com/absmach/fedcoord/coordinator"
	"github.com/absmach/fedcoord/pkg/fl"
	"github.com/absmach/supermq"
)

var (
	_ supermq.Response = (*modelResponse)(nil)
	_ supermq.Response = (*submitUpdateResponse)(nil)
	_ supermq.Response = (*statusResponse)(nil)
	_ supermq.Response = (*roundResponse)(nil)
	_ supermq.Response = (*listRoundsResponse)(nil)
)

type modelResponse struct {
	fl.Model
}

func (m modelResponse) Code() int {
	return http.StatusOK
}

func (m modelResponse) Headers() map[string]string {
	return map[string]string{}
}

func (m modelResponse) Empty() bool {
	return false
}

type submitUpdateResponse struct {
	coordinator.SubmitResult
}

func (s submitUpdateResponse) Code() int {
	return http.StatusOK
}

func (s submitUpdateResponse) Headers() map[string]string {
	if s.Status == coordinator.StatusAggregated {
		return map[string]string{
			"Location": "/model",
		}
	}

	return map[string]string{}
}

func (s submitUpdateResponse) Empty() bool {
	return false
}

type statusResponse struct {
	coordinator.Status
}

func (s statusResponse) Code() int {
	return http.StatusOK
}

func (s statusResponse) Headers() map[string]string {
	return map[string]string{}
}

func (s statusResponse) Empty() bool {
	return false
}

type roundResponse struct {
	fl.Round
}

func (r roundResponse) Code() int {
	return http.StatusOK
}

func (r roundResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r roundResponse) Empty() bool {
	return false
}

type listRoundsResponse struct {
	coordinator.RoundPage
}

func (l listRoundsResponse) Code() int {
	return http.StatusOK
}

func (l listRoundsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (l listRoundsResponse) Empty() bool {
	return false
}
