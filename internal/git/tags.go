package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/e111077/baobranch/internal/marks"
)

// CreateTag creates a lightweight tag pointing at target.
func CreateTag(ctx context.Context, name, target string) error {
	_, err := RunGitCommandWithContext(ctx, "tag", name, target)
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, err)
	}
	return nil
}

// DeleteTag deletes a tag.
func DeleteTag(ctx context.Context, name string) error {
	_, err := RunGitCommandWithContext(ctx, "tag", "-d", name)
	if err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", name, err)
	}
	return nil
}

// ListTags returns tags matching a glob pattern, mapped to the commit each
// points at. Annotated tags are peeled to their commit.
func ListTags(ctx context.Context, glob string) (map[string]string, error) {
	lines, err := RunGitCommandLinesWithContext(ctx,
		"for-each-ref", "--format=%(refname:short) %(objectname) %(*objectname)",
		"refs/tags/"+glob)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		sha := fields[1]
		if len(fields) == 3 {
			// Annotated tag: the peeled commit is the target.
			sha = fields[2]
		}
		result[fields[0]] = sha
	}
	return result, nil
}

// ResolveTag resolves a tag name to the commit it points at.
func ResolveTag(ctx context.Context, name string) (string, error) {
	sha, err := RunGitCommandWithContext(ctx, "rev-parse", "--verify", "--quiet",
		"refs/tags/"+name+"^{commit}")
	if err != nil {
		return "", marks.ErrMarkerNotFound
	}
	return sha, nil
}

// TagStore implements marks.Store over the repository's tag namespace.
type TagStore struct {
	runner *CommandRunner
}

// NewTagStore creates a TagStore using the default runner's working
// directory.
func NewTagStore() *TagStore {
	return &TagStore{runner: defaultRunner}
}

var _ marks.Store = (*TagStore)(nil)

// List returns markers matching the glob pattern.
func (s *TagStore) List(ctx context.Context, glob string) (map[string]string, error) {
	return ListTags(ctx, glob)
}

// Create creates a marker. Git refuses to overwrite an existing tag, which
// gives the collision detection the store contract requires.
func (s *TagStore) Create(ctx context.Context, name, target string) error {
	return CreateTag(ctx, name, target)
}

// Delete removes a marker.
func (s *TagStore) Delete(ctx context.Context, name string) error {
	return DeleteTag(ctx, name)
}

// Resolve returns the commit a marker points at.
func (s *TagStore) Resolve(ctx context.Context, name string) (string, error) {
	return ResolveTag(ctx, name)
}
