package repo

import "errors"

var (
	ErrRepositoryAlreadyInitialized = errors.New("repository already initialized")
	ErrRepositoryNotInitialized     = errors.New("not a twig repository")

	ErrNothingToCommit = errors.New("nothing to commit")
	ErrNoChanges       = errors.New("no changes since last commit")

	ErrBranchNotFound      = errors.New("branch not found")
	ErrBranchAlreadyExists = errors.New("branch already exists")
	ErrInvalidBranchName   = errors.New("invalid branch name")
	ErrDeleteCurrentBranch = errors.New("cannot delete the current branch")
	ErrNoCommits           = errors.New("current branch has no commits")

	ErrPathNotFound     = errors.New("path not found")
	ErrPathIgnored      = errors.New("path is ignored")
	ErrReservedPath     = errors.New("path is inside the repository directory")
	ErrInvalidAuthor    = errors.New("invalid author")
	ErrUnknownConfigKey = errors.New("unknown config key")
)
