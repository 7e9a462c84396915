package framework

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"

	shared "github.com/pipesync/server/pkg"
	"github.com/pipesync/server/pkg/bootstrap"
	"github.com/pipesync/server/pkg/execution"
	infrapubsub "github.com/pipesync/server/pkg/infrastructure/pubsub"
	"github.com/pipesync/server/pkg/infrastructure/sentry"
	"github.com/pipesync/server/pkg/types"
)

// FrameworkContext contains dependencies injected by the framework
type FrameworkContext struct {
	Service     *bootstrap.Service
	Logger      *slog.Logger
	ExecutionID string
}

// HandlerFunc handles a CloudEvent trigger. A nil report with a nil error
// means there was nothing to run.
type HandlerFunc func(ctx context.Context, e event.Event, fwCtx *FrameworkContext) (*types.RunReport, error)

// HTTPHandlerFunc handles an HTTP trigger. The report is nil when the
// response is a fault.
type HTTPHandlerFunc func(ctx context.Context, r *http.Request, fwCtx *FrameworkContext) (types.Response, *types.RunReport)

// WrapCloudEvent wraps a handler with execution logging and the
// run-completed notification.
func WrapCloudEvent(serviceName string, svc *bootstrap.Service, handler HandlerFunc) func(context.Context, event.Event) error {
	return func(ctx context.Context, e event.Event) error {
		triggerType := "pubsub"
		if e.Type() == "google.cloud.functions.http" {
			triggerType = "http"
		}

		fwCtx := start(ctx, serviceName, svc, triggerType)
		defer sentry.RecoverAndCapture(fwCtx.Logger)
		defer sentry.Flush(2 * time.Second)

		report, handlerErr := handler(ctx, e, fwCtx)
		if handlerErr != nil {
			fwCtx.Logger.Error("Function failed", "error", handlerErr)
			sentry.CaptureException(handlerErr, map[string]interface{}{"execution_id": fwCtx.ExecutionID}, fwCtx.Logger)
			if logErr := execution.LogFailure(ctx, svc.DB, fwCtx.ExecutionID, handlerErr, nil); logErr != nil {
				fwCtx.Logger.Warn("Failed to log execution failure", "error", logErr)
			}
			return handlerErr
		}

		complete(ctx, svc, fwCtx, report)
		return nil
	}
}

// WrapHTTP wraps a handler with execution logging and the run-completed
// notification, and writes the response as JSON with its status code.
func WrapHTTP(serviceName string, svc *bootstrap.Service, handler HTTPHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		fwCtx := start(ctx, serviceName, svc, "http")
		defer sentry.Flush(2 * time.Second)

		resp, report := handler(ctx, r, fwCtx)
		if resp.StatusCode >= http.StatusInternalServerError {
			fault := errors.New(resp.Body.Message)
			fwCtx.Logger.Error("Function failed", "error", fault)
			sentry.CaptureException(fault, map[string]interface{}{"execution_id": fwCtx.ExecutionID}, fwCtx.Logger)
			if logErr := execution.LogFailure(ctx, svc.DB, fwCtx.ExecutionID, fault, nil); logErr != nil {
				fwCtx.Logger.Warn("Failed to log execution failure", "error", logErr)
			}
		} else {
			complete(ctx, svc, fwCtx, report)
		}

		WriteResponse(w, resp, fwCtx.ExecutionID)
	}
}

// WriteResponse writes resp as JSON.
func WriteResponse(w http.ResponseWriter, resp types.Response, executionID string) {
	w.Header().Set("Content-Type", "application/json")
	if executionID != "" {
		w.Header().Set("X-Execution-Id", executionID)
	}
	w.WriteHeader(resp.StatusCode)
	if err := json.NewEncoder(w).Encode(resp.Body); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}

func start(ctx context.Context, serviceName string, svc *bootstrap.Service, triggerType string) *FrameworkContext {
	logger := bootstrap.NewLogger(serviceName)

	execID, err := execution.LogStart(ctx, svc.DB, serviceName, execution.ExecutionOptions{
		TriggerType: triggerType,
	})
	if err != nil {
		// the run goes on without history
		logger.Error("Failed to log execution start", "error", err)
	}

	logger = logger.With("execution_id", execID)
	logger.Info("Function started", "trigger", triggerType)

	return &FrameworkContext{
		Service:     svc,
		Logger:      logger,
		ExecutionID: execID,
	}
}

func complete(ctx context.Context, svc *bootstrap.Service, fwCtx *FrameworkContext, report *types.RunReport) {
	if report != nil {
		fwCtx.Logger.Info("Function completed", "succeeded", report.Succeeded, "failed", report.Failed)
	} else {
		fwCtx.Logger.Info("Function completed with nothing to run")
	}

	if logErr := execution.LogSuccess(ctx, svc.DB, fwCtx.ExecutionID, report); logErr != nil {
		fwCtx.Logger.Warn("Failed to log execution success", "error", logErr)
	}
	if report != nil {
		PublishCompleted(ctx, svc.Pub, fwCtx.ExecutionID, report, fwCtx.Logger)
	}
}

// PublishCompleted announces a settled run. Failures are logged only.
func PublishCompleted(ctx context.Context, pub shared.Publisher, executionID string, report *types.RunReport, logger *slog.Logger) {
	e, err := infrapubsub.NewCloudEvent(shared.EventSourceSynchronizer, shared.EventTypeSyncCompleted, executionID, types.SyncCompletedEvent{
		ExecutionID: executionID,
		CompletedAt: time.Now().UTC(),
		Report:      report,
	})
	if err != nil {
		logger.Warn("Failed to build completion event", "error", err)
		return
	}

	msgID, err := pub.PublishCloudEvent(ctx, shared.TopicSyncCompleted, e)
	if err != nil {
		logger.Warn("Failed to publish completion event", "error", err)
		return
	}
	logger.Debug("Completion event published", "message_id", msgID)
}
