package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// Deployment config repository sentinels.
	ErrConfigNotFound = errors.New("deployment config not found")

	// Deployment record repository sentinels.
	ErrRecordNotFound    = errors.New("deployment record not found")
	ErrDuplicateJobID    = errors.New("deployment record with this job_id already exists")
	ErrIllegalTransition = errors.New("illegal deployment status transition")

	// PR comment repository sentinels.
	ErrCommentNotFound = errors.New("pr comment not found")

	// Worker endpoint repository sentinels.
	ErrWorkerNotFound = errors.New("worker endpoint not found")

	// Authorized org repository sentinels.
	ErrOrgNotFound      = errors.New("authorized org not found")
	ErrOrgAlreadyExists = errors.New("authorized org already exists")
)
