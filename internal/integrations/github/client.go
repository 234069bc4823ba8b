package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v60/github"
)

// Client wraps the GitHub API client.
type Client struct {
	client *github.Client
}

// GetItem fetches an issue or pull request by number. The issues endpoint
// serves both kinds; IsPullRequest on the result tells them apart.
func (c *Client) GetItem(ctx context.Context, org, repo string, number int) (*github.Issue, error) {
	issue, _, err := c.client.Issues.Get(ctx, org, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item: %w", err)
	}

	return issue, nil
}

// ListOpenItems lists all open issues and pull requests in a repository,
// following pagination.
func (c *Client) ListOpenItems(ctx context.Context, org, repo string) ([]*github.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var items []*github.Issue
	for {
		page, resp, err := c.client.Issues.ListByRepo(ctx, org, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list items: %w", err)
		}
		items = append(items, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return items, nil
}

// AddLabels adds labels to an issue or pull request. Pull requests share
// the issues labeling endpoint.
func (c *Client) AddLabels(ctx context.Context, org, repo string, number int, labels []string) error {
	if len(labels) == 0 {
		return fmt.Errorf("labels cannot be empty")
	}

	_, _, err := c.client.Issues.AddLabelsToIssue(ctx, org, repo, number, labels)
	if err != nil {
		return fmt.Errorf("failed to add labels: %w", err)
	}
	return nil
}

// GetFileContent fetches a file from a repository at the given ref.
// Used to resolve remote config inheritance.
func (c *Client) GetFileContent(ctx context.Context, org, repo, path, ref string) ([]byte, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	content, _, _, err := c.client.Repositories.GetContents(ctx, org, repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s from %s/%s: %w", path, org, repo, err)
	}
	if content == nil {
		return nil, fmt.Errorf("%s in %s/%s is not a file", path, org, repo)
	}

	data, err := content.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return []byte(data), nil
}
