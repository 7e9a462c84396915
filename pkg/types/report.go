package types

import "time"

const (
	MessageSuccess      = "Successfully synchronized"
	MessagePartialError = "Synchronized with some errors"
)

// IntegrationResult is the outcome of a single integration run.
type IntegrationResult struct {
	Name          string        `json:"name,omitempty"`
	PipeID        string        `json:"pipeId"`
	SpreadsheetID string        `json:"spreadsheetId"`
	SheetID       int64         `json:"sheetId"`
	Cards         int           `json:"cards"`
	Headers       int           `json:"headers"`
	Duration      time.Duration `json:"duration"`
	Error         string        `json:"error,omitempty"`
}

// Failed reports whether the integration ended in failure.
func (r IntegrationResult) Failed() bool {
	return r.Error != ""
}

// RunReport aggregates every integration of one invocation, in input order.
type RunReport struct {
	Results   []IntegrationResult `json:"results"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
}

// Errors returns the verbatim error message of each failed integration.
func (r *RunReport) Errors() []string {
	errs := []string{}
	for _, res := range r.Results {
		if res.Failed() {
			errs = append(errs, res.Error)
		}
	}
	return errs
}

// Message summarizes the run for the response body.
func (r *RunReport) Message() string {
	if r.Failed > 0 {
		return MessagePartialError
	}
	return MessageSuccess
}

// ResponseBody is the JSON body returned to the caller.
type ResponseBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// Response is the invocation result with an HTTP-style status code.
type Response struct {
	StatusCode int          `json:"statusCode"`
	Body       ResponseBody `json:"body"`
}
