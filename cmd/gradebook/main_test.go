package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradepulse/gradepulse/internal/application/command"
	"github.com/gradepulse/gradepulse/internal/application/query"
	"github.com/gradepulse/gradepulse/internal/domain/analytics"
	"github.com/gradepulse/gradepulse/internal/domain/library"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
	"github.com/gradepulse/gradepulse/internal/infrastructure/persistence/memory"
	httpapi "github.com/gradepulse/gradepulse/internal/interface/http"
)

func startAPI(t *testing.T, seed ...subject.Record) string {
	t.Helper()
	t.Chdir(t.TempDir())

	repo := memory.NewSubjectRepository(seed...)
	catalog, err := library.DefaultCatalog()
	require.NoError(t, err)

	api := httpapi.NewServer(httpapi.DefaultConfig(), httpapi.Dependencies{
		ListSubjects: query.NewListSubjectsHandler(repo, nil, nil),
		GetReport:    query.NewGetReportHandler(repo),
		SuggestBooks: query.NewSuggestBooksHandler(repo, catalog),
		Subjects:     command.NewSubjectManager(repo, nil),
	})
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return srv.URL + "/api/v1"
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestCLI_AddThenReport(t *testing.T) {
	api := startAPI(t)

	out, _, err := runCLI(t, "", "-api", api, "add", "-name", "Physics", "-marks", "85", "-credits", "4", "-exam", "final")
	require.NoError(t, err)
	assert.Contains(t, out, "Subject 'Physics' added successfully!")

	out, _, err = runCLI(t, "", "-api", api, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "CGPA:           9.00")
	assert.Contains(t, out, "Percentage:     85.00%")
	assert.Contains(t, out, "Physics")
}

func TestCLI_AddValidationNeverCallsAPI(t *testing.T) {
	api := startAPI(t)

	_, errOut, err := runCLI(t, "", "-api", api, "add", "-name", "", "-marks", "150", "-credits", "2")
	require.Error(t, err)
	assert.Contains(t, errOut, subject.MsgNameRequired)
	assert.Contains(t, errOut, subject.MsgMarksRange)

	out, _, err := runCLI(t, "", "-api", api, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No subjects recorded yet.")
}

func TestCLI_DeleteAsksForConfirmation(t *testing.T) {
	api := startAPI(t, subject.Record{ID: "s1", Name: "Math", Marks: 70, Credits: 3})

	out, _, err := runCLI(t, "n\n", "-api", api, "delete", "-id", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deletion cancelled.")

	out, _, err = runCLI(t, "y\n", "-api", api, "delete", "-id", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "Subject (ID: s1) successfully deleted.")

	out, _, err = runCLI(t, "", "-api", api, "delete", "-id", "s1", "-yes")
	require.NoError(t, err, "deleting an unknown id is a no-op")
	assert.Contains(t, out, "successfully deleted")
}

func TestCLI_DeleteReportsTransportFailure(t *testing.T) {
	t.Chdir(t.TempDir())
	dead := httptest.NewServer(nil)
	url := dead.URL + "/api/v1"
	dead.Close()

	_, errOut, err := runCLI(t, "", "-api", url, "-timeout", "2s", "delete", "-id", "s1", "-yes")
	require.Error(t, err)
	assert.Contains(t, errOut, "Deletion failed:")
}

func TestCLI_UpdateMarks(t *testing.T) {
	api := startAPI(t, subject.Record{ID: "s1", Name: "Math", Marks: 70, Credits: 3})

	out, _, err := runCLI(t, "", "-api", api, "update-marks", "-id", "s1", "-marks", "95")
	require.NoError(t, err)
	assert.Contains(t, out, "Marks for 'Math' updated to 95.")
}

func TestCLI_Books(t *testing.T) {
	api := startAPI(t, subject.Record{ID: "s1", Name: "Physics", Marks: 70, Credits: 3})

	out, _, err := runCLI(t, "", "-api", api, "books")
	require.NoError(t, err)
	assert.Contains(t, out, "Suggested reading for Physics (3 of 9)")
	assert.Contains(t, out, "More suggestions available")
}

func TestCLI_UnknownCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := runCLI(t, "", "frobnicate")
	assert.ErrorContains(t, err, "unknown command")
}

func TestFormatMetric(t *testing.T) {
	assert.Equal(t, "N/A", formatMetric(analytics.Metric{}, "%.2f"))
	assert.Equal(t, "7.50", formatMetric(analytics.Metric{Value: 7.5, Available: true}, "%.2f"))
}
