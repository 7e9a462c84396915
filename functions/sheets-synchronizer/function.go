package sheetssynchronizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/pipesync/server/pkg/bootstrap"
	"github.com/pipesync/server/pkg/framework"
	"github.com/pipesync/server/pkg/synchronizer"
	"github.com/pipesync/server/pkg/types"
)

const serviceName = "sheets-synchronizer"

var (
	svc     *bootstrap.Service
	svcOnce sync.Once
	svcErr  error
)

func init() {
	functions.HTTP("Synchronize", Synchronize)
	functions.CloudEvent("SynchronizeScheduled", SynchronizeScheduled)
}

func initService(ctx context.Context) (*bootstrap.Service, error) {
	if svc != nil {
		return svc, nil
	}
	svcOnce.Do(func() {
		baseSvc, err := bootstrap.NewService(ctx)
		if err != nil {
			slog.Error("Failed to initialize service", "error", err)
			svcErr = err
			return
		}
		svc = baseSvc
	})
	return svc, svcErr
}

// Synchronize is the HTTP entry point. The body lists the integrations to
// run: {"integrations": [{"pipeId": ..., "spreadsheetId": ..., "sheetId": ..., "columns": {...}}]}
func Synchronize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		framework.WriteResponse(w, types.Response{
			StatusCode: http.StatusMethodNotAllowed,
			Body:       types.ResponseBody{Message: "Method not allowed"},
		}, "")
		return
	}

	svc, err := initService(r.Context())
	if err != nil {
		framework.WriteResponse(w, synchronizer.FailureResponse(fmt.Errorf("service init failed: %w", err)), "")
		return
	}
	framework.WrapHTTP(serviceName, svc, HandleRequest)(w, r)
}

// HandleRequest decodes a SyncRequest body and runs it.
func HandleRequest(ctx context.Context, r *http.Request, fwCtx *framework.FrameworkContext) (types.Response, *types.RunReport) {
	var req types.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return synchronizer.FailureResponse(fmt.Errorf("malformed request: %w", err)), nil
	}

	fwCtx.Logger.Info("Synchronizing", "integrations", len(req.Integrations))
	return synchronizer.Synchronize(ctx, fwCtx.Service.Runner, &req)
}

// SynchronizeScheduled is the Pub/Sub entry point used by Cloud Scheduler.
// A message without integrations runs every enabled integration of the
// registry.
func SynchronizeScheduled(ctx context.Context, e event.Event) error {
	svc, err := initService(ctx)
	if err != nil {
		return fmt.Errorf("service init failed: %v", err)
	}
	return framework.WrapCloudEvent(serviceName, svc, scheduledHandler)(ctx, e)
}

func scheduledHandler(ctx context.Context, e event.Event, fwCtx *framework.FrameworkContext) (*types.RunReport, error) {
	req, err := decodeScheduledRequest(e)
	if err != nil {
		return nil, err
	}

	if len(req.Integrations) == 0 {
		records, err := fwCtx.Service.DB.ListIntegrations(ctx, true)
		if err != nil {
			return nil, err
		}
		req.Integrations = make([]types.IntegrationConfig, 0, len(records))
		for _, rec := range records {
			req.Integrations = append(req.Integrations, rec.IntegrationConfig)
		}
		fwCtx.Logger.Info("Loaded integrations from registry", "count", len(records))
	}

	if len(req.Integrations) == 0 {
		fwCtx.Logger.Warn("No enabled integrations")
		return nil, nil
	}

	resp, report := synchronizer.Synchronize(ctx, fwCtx.Service.Runner, req)
	if report == nil {
		return nil, errors.New(resp.Body.Message)
	}
	return report, nil
}

// decodeScheduledRequest reads the optional request carried by a Pub/Sub
// message. An empty message is an empty request.
func decodeScheduledRequest(e event.Event) (*types.SyncRequest, error) {
	req := &types.SyncRequest{}
	if len(e.Data()) == 0 {
		return req, nil
	}

	var msg types.PubSubMessage
	if err := e.DataAs(&msg); err != nil {
		return nil, fmt.Errorf("malformed pub/sub message: %w", err)
	}
	if len(msg.Message.Data) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(msg.Message.Data, req); err != nil {
		return nil, fmt.Errorf("malformed request: %w", err)
	}
	return req, nil
}
