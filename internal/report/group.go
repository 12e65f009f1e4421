package report

import "github.com/roksva123/go-gitlab-dashboard/internal/model"

// GroupByMember partitions issues by the project member each assignee
// resolves to. An issue with several matching assignees lands in each of
// their groups. Assignees that are not project members are dropped. Groups
// follow the order in which their member first appears.
func GroupByMember(issues []model.Issue, members []model.Member, projects []model.Project) []model.MemberGroup {
	byID := make(map[int64]model.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	names := ProjectNames(projects)

	index := map[int64]int{}
	groups := []model.MemberGroup{}
	for _, issue := range issues {
		seen := map[int64]bool{}
		for _, a := range issue.Assignees {
			m, ok := byID[a.ID]
			if !ok || seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			i, ok := index[m.ID]
			if !ok {
				i = len(groups)
				index[m.ID] = i
				groups = append(groups, model.MemberGroup{MemberID: m.ID, MemberName: m.Name})
			}
			groups[i].Rows = append(groups[i].Rows, Row(issue, names))
		}
	}
	return groups
}
