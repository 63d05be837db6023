package tracking

import "golang.org/x/text/cases"

// foldLogin normalises a login for comparison. GitHub logins are matched
// case-insensitively everywhere. A Caser is stateful, so each call gets its own.
func foldLogin(login string) string {
	return cases.Fold().String(login)
}

// CheckIssueCreatedByUsers marks each expected user as submitted when one of
// the items dated today lists them as an assignee.
func CheckIssueCreatedByUsers(items []Item, expectedUsers []string, today string) SubmissionResult {
	createdBy := make(map[string]struct{})
	for _, item := range items {
		if item.Issue == nil {
			continue
		}
		if ExtractDateFromTitle(item.Issue.Title) != today {
			continue
		}
		for _, login := range item.Issue.Assignees {
			if login == "" {
				continue
			}
			createdBy[foldLogin(login)] = struct{}{}
		}
	}
	return resultFor(expectedUsers, createdBy)
}

// CheckSubIssueAssignees marks each expected user as submitted when they are
// assigned to one of today's scrum sub-issues.
func CheckSubIssueAssignees(subIssues []SubIssue, expectedUsers []string) SubmissionResult {
	submitted := make(map[string]struct{})
	for _, sub := range subIssues {
		for _, login := range sub.Assignees {
			if login == "" {
				continue
			}
			submitted[foldLogin(login)] = struct{}{}
		}
	}
	return resultFor(expectedUsers, submitted)
}

func resultFor(expectedUsers []string, seen map[string]struct{}) SubmissionResult {
	result := make(SubmissionResult, 0, len(expectedUsers))
	for _, user := range expectedUsers {
		_, ok := seen[foldLogin(user)]
		result = append(result, Submission{User: user, Submitted: ok})
	}
	return result
}

// UnsubmittedMentionIDs returns one mention id per unsubmitted user. A user
// missing from userMap yields "" rather than being dropped.
func UnsubmittedMentionIDs(result SubmissionResult, userMap UserMap) []string {
	ids := []string{}
	for _, s := range result {
		if s.Submitted {
			continue
		}
		ids = append(ids, userMap[s.User])
	}
	return ids
}
