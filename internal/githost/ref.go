package githost

import (
	"fmt"
	"strings"
)

// RepoRef identifies a public repository.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

func (r RepoRef) String() string { return r.Owner + "/" + r.Name }

// InvalidRepoRefError reports input that does not name an owner/repo pair.
type InvalidRepoRefError struct {
	Input string
}

func (e *InvalidRepoRefError) Error() string {
	return fmt.Sprintf("githost: invalid repository reference %q", e.Input)
}

// ParseRepoRef accepts "owner/name" or a github.com URL.
func ParseRepoRef(input string) (RepoRef, error) {
	s := strings.TrimSpace(input)
	for _, prefix := range []string{"https://github.com/", "http://github.com/", "github.com/"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			break
		}
	}
	s = strings.TrimSuffix(s, ".git")
	s = strings.Trim(s, "/")
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, &InvalidRepoRefError{Input: input}
	}
	if strings.ContainsAny(parts[0]+parts[1], " \t") {
		return RepoRef{}, &InvalidRepoRefError{Input: input}
	}
	return RepoRef{Owner: parts[0], Name: parts[1]}, nil
}
