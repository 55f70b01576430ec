package doctor

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticValidator struct {
	title  string
	result Result
}

func (v *staticValidator) Title() string { return v.title }
func (v *staticValidator) Validate(ctx context.Context) Result {
	return v.result
}

func testDoctor() *Doctor {
	return NewWithValidators(
		&staticValidator{
			title: "Host",
			result: Result{
				Status:  StatusOK,
				Summary: "linux 6.1 (amd64)",
				Details: []string{"hostname builder-01"},
			},
		},
		&staticValidator{
			title:  "External tools",
			result: Result{Status: StatusWarning, Summary: "1 of 2 tools missing"},
		},
	)
}

func TestRunRendersEveryCheck(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testDoctor().Run(context.Background(), &buf, Options{NoColor: true}))

	out := buf.String()
	assert.Contains(t, out, "[ok] Host: linux 6.1 (amd64)")
	assert.Contains(t, out, "[!!] External tools: 1 of 2 tools missing")
	assert.NotContains(t, out, "hostname builder-01", "details are verbose-only")
}

func TestRunVerboseIncludesDetails(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testDoctor().Run(context.Background(), &buf, Options{Verbose: true, NoColor: true}))
	assert.Contains(t, buf.String(), "hostname builder-01")
}

func TestRunColorMarks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testDoctor().Run(context.Background(), &buf, Options{}))
	assert.Contains(t, buf.String(), ansiGreen)
	assert.Contains(t, buf.String(), ansiYellow)
}

func TestSummaryIsVerboseAndColorless(t *testing.T) {
	text, err := testDoctor().Summary(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "hostname builder-01")
	assert.NotContains(t, text, ansiGreen)
	assert.NotContains(t, text, ansiReset)
}

func TestDefaultValidatorsProduceAReport(t *testing.T) {
	// The default checks read real host state; whatever they find, the
	// report must render without failing.
	text, err := New().Summary(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "Host")
	assert.Contains(t, text, "External tools")
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "warning", StatusWarning.String())
	assert.Equal(t, "error", StatusError.String())
}
