package api

import (
	"github.com/absmach/fedcoord/coordinator"
	"github.com/absmach/fedcoord/pkg/api"
	pkgerrors "github.com/absmach/fedcoord/pkg/errors"
	apiutil "github.com/absmach/supermq/api/http/util"
)

type submitUpdateReq struct {
	coordinator.UpdateRequest
}

type roundReq struct {
	version uint64
}

func (r *roundReq) validate() error {
	if r.version == 0 {
		return pkgerrors.ErrInvalidVersion
	}

	return nil
}

type listRoundsReq struct {
	offset, limit uint64
}

func (r *listRoundsReq) validate() error {
	if r.limit == 0 || r.limit > api.MaxLimitSize {
		return apiutil.ErrLimitSize
	}

	return nil
}
