package schedule

import (
	"regexp"
	"strconv"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

// DependencyExtractor returns the ids of the tasks an issue declares it
// depends on. Implementations do not check that the ids exist.
type DependencyExtractor interface {
	ExtractDeclaredDependencies(text string) []string
}

var issueRefPattern = regexp.MustCompile(`Issue #(\d+)`)

// IssueRefExtractor scans free text for "Issue #<digits>" references.
type IssueRefExtractor struct{}

func (IssueRefExtractor) ExtractDeclaredDependencies(text string) []string {
	matches := issueRefPattern.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			// digits overflowing int64 are kept verbatim
			out = append(out, m[1])
			continue
		}
		out = append(out, strconv.FormatInt(n, 10))
	}
	return out
}

// UnresolvedDependencies lists, per task id, the dependency ids that do not
// match any task in the slice. Tasks without dangling references are
// omitted.
func UnresolvedDependencies(tasks []model.ScheduleTask) map[string][]string {
	known := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		known[t.ID] = struct{}{}
	}
	out := map[string][]string{}
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if _, ok := known[dep]; !ok {
				out[t.ID] = append(out[t.ID], dep)
			}
		}
	}
	return out
}
