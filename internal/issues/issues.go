// Package issues builds the GitHub URLs shown after a crash: a search for
// existing reports of the same failure, and a pre-filled new-issue form.
package issues

import (
	"fmt"
	"net/url"
	"strings"
)

const repoURL = "https://github.com/riluq/flutter"

// Body fields are truncated so the resulting URL stays within what browsers
// and the issue form accept.
const (
	maxStackChars  = 4000
	maxDoctorChars = 2000
)

// SearchURL returns a query over existing issues for the failure message.
func SearchURL(message string) string {
	q := url.Values{}
	q.Set("q", "is:issue "+firstLine(message))
	return repoURL + "/issues?" + q.Encode()
}

// ReportInfo carries everything the bug template needs.
type ReportInfo struct {
	CommandLine string
	Message     string
	ErrorType   string
	StackTrace  string
	DoctorText  string
}

// NewIssueURL returns a new-issue form pre-filled with the bug template.
func NewIssueURL(info ReportInfo) string {
	body := fmt.Sprintf(`## Command

%s

## Failure

%s: %s

## Stack trace

%s

## Doctor output

%s
`,
		"```\n"+info.CommandLine+"\n```",
		info.ErrorType, info.Message,
		"```\n"+truncate(info.StackTrace, maxStackChars)+"\n```",
		"```\n"+truncate(info.DoctorText, maxDoctorChars)+"\n```",
	)

	q := url.Values{}
	q.Set("title", fmt.Sprintf("[tool crash] %s", firstLine(info.Message)))
	q.Set("labels", "tool,crash")
	q.Set("body", body)
	return repoURL + "/issues/new?" + q.Encode()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n[truncated]"
}
