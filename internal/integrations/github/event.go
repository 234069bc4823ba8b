package github

import (
	"fmt"
	"os"

	"github.com/google/go-github/v60/github"

	"github.com/labelgh/labeler-bot/internal/rules"
)

// Event is the normalized form of a triggering webhook payload.
type Event struct {
	Kind   rules.EventKind
	Action string
	Org    string
	Repo   string
	Number int
	Title  string
	Body   *string // nil when the payload body is null
	Author string
	Labels []string
	URL    string
}

// ParseEvent parses a GitHub Actions event payload. Only issues and
// pull_request events are supported.
func ParseEvent(eventName string, payload []byte) (*Event, error) {
	raw, err := github.ParseWebHook(eventName, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s event: %w", eventName, err)
	}

	switch ev := raw.(type) {
	case *github.IssuesEvent:
		issue := ev.GetIssue()
		e := &Event{
			Kind:   rules.EventIssue,
			Action: ev.GetAction(),
			Number: issue.GetNumber(),
			Title:  issue.GetTitle(),
			Body:   issue.Body,
			Author: issue.GetUser().GetLogin(),
			Labels: labelNames(issue.Labels),
			URL:    issue.GetHTMLURL(),
		}
		fillRepo(e, ev.GetRepo())
		return e, nil

	case *github.PullRequestEvent:
		pr := ev.GetPullRequest()
		e := &Event{
			Kind:   rules.EventPullRequest,
			Action: ev.GetAction(),
			Number: pr.GetNumber(),
			Title:  pr.GetTitle(),
			Body:   pr.Body,
			Author: pr.GetUser().GetLogin(),
			Labels: labelNames(pr.Labels),
			URL:    pr.GetHTMLURL(),
		}
		fillRepo(e, ev.GetRepo())
		return e, nil
	}

	return nil, fmt.Errorf("unsupported event type: %s", eventName)
}

// EventFromIssue normalizes a REST-fetched issue into an Event. Listings
// carry no triggering action, so Action stays empty.
func EventFromIssue(org, repo string, issue *github.Issue) *Event {
	kind := rules.EventIssue
	if issue.IsPullRequest() {
		kind = rules.EventPullRequest
	}
	return &Event{
		Kind:   kind,
		Org:    org,
		Repo:   repo,
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Body:   issue.Body,
		Author: issue.GetUser().GetLogin(),
		Labels: labelNames(issue.Labels),
		URL:    issue.GetHTMLURL(),
	}
}

// ParseEventFromEnv reads the event name and payload path from the
// GitHub Actions environment.
func ParseEventFromEnv() (*Event, error) {
	name := os.Getenv("GITHUB_EVENT_NAME")
	path := os.Getenv("GITHUB_EVENT_PATH")
	if name == "" || path == "" {
		return nil, fmt.Errorf("GITHUB_EVENT_NAME and GITHUB_EVENT_PATH must be set")
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}
	return ParseEvent(name, payload)
}

func fillRepo(e *Event, repo *github.Repository) {
	e.Org = repo.GetOwner().GetLogin()
	e.Repo = repo.GetName()
}

func labelNames(labels []*github.Label) []string {
	if len(labels) == 0 {
		return nil
	}
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.GetName())
	}
	return names
}
