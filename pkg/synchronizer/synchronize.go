package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pipesync/server/pkg/types"
)

var ErrNoIntegrations = errors.New("integrations list is required")

// Synchronize runs a request to completion. Integration failures are listed
// in a 200 response; only faults outside every integration produce a 500,
// in which case the report is nil.
func Synchronize(ctx context.Context, runner *Runner, req *types.SyncRequest) (resp types.Response, report *types.RunReport) {
	defer func() {
		if p := recover(); p != nil {
			resp, report = FailureResponse(fmt.Errorf("panic: %v", p)), nil
		}
	}()

	if req == nil || req.Integrations == nil {
		return FailureResponse(ErrNoIntegrations), nil
	}

	report = runner.Run(ctx, req.Integrations)
	return ReportResponse(report), report
}

// ReportResponse is the 200 response for a settled run.
func ReportResponse(report *types.RunReport) types.Response {
	body := types.ResponseBody{Message: report.Message()}
	if report.Failed > 0 {
		body.Errors = report.Errors()
	}
	return types.Response{StatusCode: http.StatusOK, Body: body}
}

// FailureResponse is the 500 response for a fault outside any integration.
func FailureResponse(err error) types.Response {
	return types.Response{
		StatusCode: http.StatusInternalServerError,
		Body: types.ResponseBody{
			Message: "Error while synchronizing: " + err.Error(),
		},
	}
}
