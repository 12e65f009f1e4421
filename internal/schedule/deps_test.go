package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

func TestIssueRefExtractor(t *testing.T) {
	ex := IssueRefExtractor{}

	cases := []struct {
		name string
		text string
		want []string
	}{
		{"two refs in order", "Blocked by Issue #42 and Issue #7", []string{"42", "7"}},
		{"no match", "nothing to see here", []string{}},
		{"case sensitive", "blocked by issue #3 and ISSUE #4", []string{}},
		{"leading zeros normalised", "Issue #007", []string{"7"}},
		{"repeated", "Issue #1, Issue #1", []string{"1", "1"}},
		{"empty", "", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ex.ExtractDeclaredDependencies(tc.text))
		})
	}
}

type fixedExtractor []string

func (f fixedExtractor) ExtractDeclaredDependencies(string) []string { return []string(f) }

func TestBuildUsesInjectedExtractor(t *testing.T) {
	in := issue(1, model.IssueOpened, "2024-01-01", nil, 0, 0)
	in.Description = "Issue #9"
	tasks := Build([]model.Issue{in}, day(2024, 1, 2), Options{Extractor: fixedExtractor{"99"}})
	assert.Equal(t, []string{"99"}, tasks[0].Dependencies)
}

func TestUnresolvedDependencies(t *testing.T) {
	tasks := []model.ScheduleTask{
		{ID: "1", Dependencies: []string{"2", "5"}},
		{ID: "2", Dependencies: []string{}},
		{ID: "3", Dependencies: []string{"1"}},
	}
	got := UnresolvedDependencies(tasks)
	assert.Equal(t, map[string][]string{"1": {"5"}}, got)
}
