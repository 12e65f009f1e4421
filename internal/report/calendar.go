package report

import (
	"strconv"
	"time"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/schedule"
	"github.com/roksva123/go-gitlab-dashboard/internal/utils"
)

const (
	EventIssue        = "issue"
	EventMergeRequest = "merge_request"

	notAvailable = "N/A"
)

// CalendarEvents places issues and merge requests on the calendar. Issues run
// from creation to due date. Merge requests set to merge when the pipeline
// succeeds are a single point, others run until now. Items with an
// unparseable creation date are skipped.
func CalendarEvents(issues []model.Issue, mrs []model.MergeRequest, now time.Time) []model.CalendarEvent {
	events := make([]model.CalendarEvent, 0, len(issues)+len(mrs))
	for _, issue := range issues {
		start, ok := schedule.ParseTimestamp(issue.CreatedAt)
		if !ok {
			continue
		}
		end := start
		if issue.DueDate != nil {
			if due, ok := schedule.ParseTimestamp(*issue.DueDate); ok && !due.Before(start) {
				end = due
			}
		}
		events = append(events, model.CalendarEvent{
			ID:    issue.ID,
			Kind:  EventIssue,
			Title: "Issue : " + issue.Title,
			Start: start,
			End:   end,
		})
	}
	for _, mr := range mrs {
		start, ok := schedule.ParseTimestamp(mr.CreatedAt)
		if !ok {
			continue
		}
		end := now
		if mr.MergeWhenPipelineSucceeds || now.Before(start) {
			end = start
		}
		events = append(events, model.CalendarEvent{
			ID:    mr.ID,
			Kind:  EventMergeRequest,
			Title: "Merge : " + mr.Title,
			Start: start,
			End:   end,
		})
	}
	return events
}

// ProjectCards builds the dashboard tiles.
func ProjectCards(projects []model.Project) []model.ProjectCard {
	cards := make([]model.ProjectCard, 0, len(projects))
	for _, p := range projects {
		card := model.ProjectCard{ID: p.ID, Name: p.Name, OpenIssues: notAvailable, LastActivity: notAvailable}
		if p.OpenIssuesCount != nil {
			card.OpenIssues = strconv.Itoa(*p.OpenIssuesCount)
		}
		if t, ok := schedule.ParseTimestamp(p.LastActivityAt); ok {
			card.LastActivity = utils.FormatDate(t, notAvailable)
		}
		cards = append(cards, card)
	}
	return cards
}
