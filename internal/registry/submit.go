// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package registry

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/tomtom215/pygeoregister/internal/github"
	"github.com/tomtom215/pygeoregister/internal/logging"
)

// NamespaceDir is the repository directory holding one folder per namespace.
const NamespaceDir = "namespaces"

// maxNameLength bounds namespace and file names.
const maxNameLength = 100

// Workflow steps, used in StepError.
const (
	StepBaseBranch   = "fetching base branch"
	StepGetFile      = "getting file"
	StepCreateBranch = "creating new branch"
	StepUpload       = "uploading file"
	StepPullRequest  = "creating pull request"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

var (
	// ErrInvalidNamespace is returned for a namespace that cannot be a
	// directory name in the registry.
	ErrInvalidNamespace = errors.New("invalid namespace")

	// ErrInvalidFilename is returned for a file name that is not a plain
	// .csv name.
	ErrInvalidFilename = errors.New("invalid file name")
)

// Repository is the part of the GitHub API the submission workflow needs.
// *github.CircuitBreakerClient implements it.
type Repository interface {
	GetRef(ctx context.Context, branch string) (*github.Ref, error)
	CreateRef(ctx context.Context, branch, sha string) (*github.Ref, error)
	GetContents(ctx context.Context, path, ref string) (*github.Contents, error)
	PutContents(ctx context.Context, path string, req *github.PutContentsRequest) error
	CreatePullRequest(ctx context.Context, pr *github.NewPullRequest) (*github.PullRequest, error)
}

// StepError reports the workflow step a GitHub call failed in.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("Error %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Submission is a namespace CSV to propose to the registry.
type Submission struct {
	Namespace string
	Filename  string
	Content   []byte
}

// Path returns the repository path of the file.
func (s Submission) Path() string {
	return path.Join(NamespaceDir, s.Namespace, s.Filename)
}

// Outcome describes what Submit did.
type Outcome struct {
	Namespace string
	Path      string

	// Branch is empty when the submission was unchanged.
	Branch string

	// Replaced is set when the file already existed on the base branch.
	Replaced bool

	// Unchanged is set when the base branch already holds identical
	// content. No branch or pull request is created.
	Unchanged bool

	PullRequest *github.PullRequest
}

// Submitter proposes namespace CSVs as pull requests against a base branch.
type Submitter struct {
	repo       Repository
	baseBranch string
	now        func() time.Time
}

// NewSubmitter creates a Submitter for repo.
func NewSubmitter(repo Repository, baseBranch string) *Submitter {
	return &Submitter{
		repo:       repo,
		baseBranch: baseBranch,
		now:        time.Now,
	}
}

// Submit validates sub and opens a pull request adding it to the registry.
//
// The existing file is read from the base commit before any branch is
// created, so an identical upload leaves no trace in the repository.
// Validation failures are returned as they are (CSVError, ErrInvalidNamespace,
// ErrInvalidFilename); GitHub failures are wrapped in a *StepError.
func (s *Submitter) Submit(ctx context.Context, sub Submission) (*Outcome, error) {
	if err := ValidateNamespace(sub.Namespace); err != nil {
		return nil, err
	}
	if err := ValidateFilename(sub.Filename); err != nil {
		return nil, err
	}
	if err := ValidateCSV(bytes.NewReader(sub.Content)); err != nil {
		return nil, err
	}

	outcome := &Outcome{Namespace: sub.Namespace, Path: sub.Path()}
	log := logging.Ctx(ctx).With().
		Str("namespace", sub.Namespace).
		Str("path", outcome.Path).
		Logger()

	base, err := s.repo.GetRef(ctx, s.baseBranch)
	if err != nil {
		return nil, &StepError{Step: StepBaseBranch, Err: err}
	}

	var existingSHA string
	existing, err := s.repo.GetContents(ctx, outcome.Path, base.Object.SHA)
	switch {
	case errors.Is(err, github.ErrNotFound):
	case err != nil:
		return nil, &StepError{Step: StepGetFile, Err: err}
	default:
		current, decodeErr := existing.Decode()
		if decodeErr != nil {
			return nil, &StepError{Step: StepGetFile, Err: decodeErr}
		}
		if bytes.Equal(current, sub.Content) {
			log.Info().Msg("No changes detected; skipping pull request")
			outcome.Replaced = true
			outcome.Unchanged = true
			return outcome, nil
		}
		existingSHA = existing.SHA
		outcome.Replaced = true
	}

	outcome.Branch = fmt.Sprintf("upload-%s-%d", sub.Namespace, s.now().UnixMilli())
	if _, err := s.repo.CreateRef(ctx, outcome.Branch, base.Object.SHA); err != nil {
		return nil, &StepError{Step: StepCreateBranch, Err: err}
	}
	log.Debug().Str("branch", outcome.Branch).Msg("Branch created")

	title := fmt.Sprintf("Add CSV file to %s", sub.Namespace)
	err = s.repo.PutContents(ctx, outcome.Path, &github.PutContentsRequest{
		Message: title,
		Content: base64.StdEncoding.EncodeToString(sub.Content),
		Branch:  outcome.Branch,
		SHA:     existingSHA,
	})
	if err != nil {
		return nil, &StepError{Step: StepUpload, Err: err}
	}

	pr, err := s.repo.CreatePullRequest(ctx, &github.NewPullRequest{
		Title: title,
		Head:  outcome.Branch,
		Base:  s.baseBranch,
		Body:  fmt.Sprintf("This PR adds a CSV file to the %s namespace.", sub.Namespace),
	})
	if err != nil {
		return nil, &StepError{Step: StepPullRequest, Err: err}
	}
	outcome.PullRequest = pr

	log.Info().
		Str("branch", outcome.Branch).
		Int("pull_request", pr.Number).
		Bool("replaced", outcome.Replaced).
		Msg("Namespace pull request opened")
	return outcome, nil
}

// ValidateNamespace checks that ns is a single safe path segment.
func ValidateNamespace(ns string) error {
	if len(ns) > maxNameLength || !namePattern.MatchString(ns) {
		return fmt.Errorf("%w: %q", ErrInvalidNamespace, ns)
	}
	return nil
}

// ValidateFilename checks that name is a single safe path segment ending
// in .csv.
func ValidateFilename(name string) error {
	if len(name) > maxNameLength || !namePattern.MatchString(name) ||
		!strings.HasSuffix(strings.ToLower(name), ".csv") || len(name) == len(".csv") {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return nil
}

// BaseName strips any client-side directory from an uploaded file name.
func BaseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSpace(name)
}
