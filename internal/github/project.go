package github

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/tamnara/scrumbot/internal/tracking"
)

const viewerQuery = `query { viewer { login } }`

const itemsQuery = `
query($org: String!, $number: Int!, $first: Int!, $after: String) {
  organization(login: $org) {
    projectV2(number: $number) {
      items(first: $first, after: $after, orderBy: {field: CREATED_AT, direction: DESC}) {
        pageInfo { hasNextPage endCursor }
        nodes {
          id
          createdAt
          fieldValues(first: 20) {
            nodes {
              __typename
              ... on ProjectV2ItemFieldSingleSelectValue { name field { ... on ProjectV2FieldCommon { name } } }
              ... on ProjectV2ItemFieldTextValue { text field { ... on ProjectV2FieldCommon { name } } }
              ... on ProjectV2ItemFieldNumberValue { number field { ... on ProjectV2FieldCommon { name } } }
              ... on ProjectV2ItemFieldDateValue { date field { ... on ProjectV2FieldCommon { name } } }
              ... on ProjectV2ItemFieldUserValue { users(first: 10) { nodes { login } } field { ... on ProjectV2FieldCommon { name } } }
              ... on ProjectV2ItemFieldRepositoryValue { repository { name } field { ... on ProjectV2FieldCommon { name } } }
              ... on ProjectV2ItemFieldMilestoneValue { milestone { title } field { ... on ProjectV2FieldCommon { name } } }
              ... on ProjectV2ItemFieldLabelValue { labels(first: 20) { nodes { name } } field { ... on ProjectV2FieldCommon { name } } }
              ... on ProjectV2ItemFieldPullRequestValue { pullRequests(first: 10) { nodes { title } } field { ... on ProjectV2FieldCommon { name } } }
            }
          }
          content {
            ... on Issue {
              title
              url
              body
              assignees(first: 10) { nodes { login } }
            }
          }
        }
      }
    }
  }
}`

type projectData struct {
	Organization *struct {
		ProjectV2 *struct {
			Items itemConnection `json:"items"`
		} `json:"projectV2"`
	} `json:"organization"`
}

type itemConnection struct {
	PageInfo struct {
		HasNextPage bool   `json:"hasNextPage"`
		EndCursor   string `json:"endCursor"`
	} `json:"pageInfo"`
	Nodes []itemNode `json:"nodes"`
}

type loginNodes struct {
	Nodes []struct {
		Login string `json:"login"`
	} `json:"nodes"`
}

func (l *loginNodes) logins() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.Nodes))
	for _, n := range l.Nodes {
		if n.Login != "" {
			out = append(out, n.Login)
		}
	}
	return out
}

type itemNode struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	FieldValues struct {
		Nodes []fieldValueNode `json:"nodes"`
	} `json:"fieldValues"`
	Content json.RawMessage `json:"content"`
}

type issueContent struct {
	Title     *string     `json:"title"`
	URL       string      `json:"url"`
	Body      string      `json:"body"`
	Assignees *loginNodes `json:"assignees"`
}

func (n itemNode) toItem() tracking.Item {
	item := tracking.Item{
		ID:          n.ID,
		CreatedAt:   n.CreatedAt,
		FieldValues: make([]tracking.FieldValue, 0, len(n.FieldValues.Nodes)),
		Issue:       decodeIssue(n.Content),
	}
	for _, fv := range n.FieldValues.Nodes {
		item.FieldValues = append(item.FieldValues, fv.toFieldValue())
	}
	return item
}

// decodeIssue returns nil for null content and for non-issue content, which
// the query leaves as an empty object.
func decodeIssue(raw json.RawMessage) *tracking.Issue {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var c issueContent
	if err := json.Unmarshal(raw, &c); err != nil || c.Title == nil {
		return nil
	}
	return &tracking.Issue{
		Title:     *c.Title,
		URL:       c.URL,
		Body:      c.Body,
		Assignees: c.Assignees.logins(),
	}
}

type fieldValueNode struct {
	TypeName string `json:"__typename"`
	Field    *struct {
		Name string `json:"name"`
	} `json:"field"`

	Name       string      `json:"name"`
	Text       string      `json:"text"`
	Number     *float64    `json:"number"`
	Date       string      `json:"date"`
	Users      *loginNodes `json:"users"`
	Repository *struct {
		Name string `json:"name"`
	} `json:"repository"`
	Milestone *struct {
		Title string `json:"title"`
	} `json:"milestone"`
	Labels *struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"labels"`
	PullRequests *struct {
		Nodes []struct {
			Title string `json:"title"`
		} `json:"nodes"`
	} `json:"pullRequests"`
}

func (n fieldValueNode) toFieldValue() tracking.FieldValue {
	field := ""
	if n.Field != nil {
		field = n.Field.Name
	}

	switch n.TypeName {
	case "ProjectV2ItemFieldSingleSelectValue":
		return tracking.SingleSelectValue{Field: field, Name: n.Name}
	case "ProjectV2ItemFieldTextValue":
		return tracking.TextValue{Field: field, Text: n.Text}
	case "ProjectV2ItemFieldNumberValue":
		v := tracking.NumberValue{Field: field}
		if n.Number != nil {
			v.Number = *n.Number
		}
		return v
	case "ProjectV2ItemFieldDateValue":
		return tracking.DateValue{Field: field, Date: n.Date}
	case "ProjectV2ItemFieldUserValue":
		return tracking.UserValue{Field: field, Logins: n.Users.logins()}
	case "ProjectV2ItemFieldRepositoryValue":
		v := tracking.RepositoryValue{Field: field}
		if n.Repository != nil {
			v.Name = n.Repository.Name
		}
		return v
	case "ProjectV2ItemFieldMilestoneValue":
		v := tracking.MilestoneValue{Field: field}
		if n.Milestone != nil {
			v.Title = n.Milestone.Title
		}
		return v
	case "ProjectV2ItemFieldLabelValue":
		v := tracking.LabelValue{Field: field}
		if n.Labels != nil {
			for _, l := range n.Labels.Nodes {
				v.Names = append(v.Names, l.Name)
			}
		}
		return v
	case "ProjectV2ItemFieldPullRequestValue":
		v := tracking.PullRequestValue{Field: field}
		if n.PullRequests != nil {
			for _, pr := range n.PullRequests.Nodes {
				v.Titles = append(v.Titles, pr.Title)
			}
		}
		return v
	default:
		return tracking.UnknownValue{Field: field, TypeName: n.TypeName}
	}
}
