package sentry

import (
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/require"
)

func TestInit_EmptyDSNIsDisabled(t *testing.T) {
	require.NoError(t, Init(Config{}, nil))
}

func TestCaptureException_WithoutClient(t *testing.T) {
	CaptureException(nil, nil, nil)
	CaptureException(errors.New("boom"), map[string]interface{}{"k": "v"}, nil)
}

func TestTagsOf(t *testing.T) {
	tags := tagsOf(map[string]interface{}{
		"name":           "vendas",
		"pipe_id":        "301",
		"spreadsheet_id": "",
		"sheet_id":       int64(0),
	})
	require.Equal(t, map[string]string{"pipe_id": "301"}, tags)
}

func TestCaptureMessage_WithoutClient(t *testing.T) {
	CaptureMessage("orphan columns", sentry.LevelWarning, map[string]interface{}{
		"integration": map[string]interface{}{"pipe_id": "301"},
		"columns":     []string{"Prazo (Fase 9)"},
	}, nil)
}
