package report

import "github.com/roksva123/go-gitlab-dashboard/internal/model"

// MemberViews decorates project members for the members list. A member is
// active when assigned to at least one issue, when owner, or when creator of
// the project.
func MemberViews(members []model.Member, issues []model.Issue, project model.Project) []model.MemberView {
	assigned := map[int64]bool{}
	for _, issue := range issues {
		for _, a := range issue.Assignees {
			assigned[a.ID] = true
		}
		if issue.Assignee != nil {
			assigned[issue.Assignee.ID] = true
		}
	}
	out := make([]model.MemberView, 0, len(members))
	for _, m := range members {
		creator := project.CreatorID != 0 && project.CreatorID == m.ID
		out = append(out, model.MemberView{
			Member:  m,
			Role:    model.RoleName(m.AccessLevel),
			Creator: creator,
			Active:  assigned[m.ID] || m.AccessLevel == model.AccessOwner || creator,
		})
	}
	return out
}
