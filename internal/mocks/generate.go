// Package mocks provides gomock mocks for the core ports.
//
// The mocks are generated with go.uber.org/mock (gomock) from the interfaces
// in internal/core. To regenerate after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	records := mocks.NewMockRecordRepository(ctrl)
//	records.EXPECT().GetByJobID(gomock.Any(), jobID).Return(record, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=config_repository_mock.go github.com/halyard-dev/halyard/internal/core ConfigRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=record_repository_mock.go github.com/halyard-dev/halyard/internal/core RecordRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=comment_repository_mock.go github.com/halyard-dev/halyard/internal/core CommentRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=worker_repository_mock.go github.com/halyard-dev/halyard/internal/core WorkerRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=org_repository_mock.go github.com/halyard-dev/halyard/internal/core OrgRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=delivery_deduper_mock.go github.com/halyard-dev/halyard/internal/core DeliveryDeduper
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=github_client_mock.go github.com/halyard-dev/halyard/internal/core GitHubClient
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_dispatcher_mock.go github.com/halyard-dev/halyard/internal/core JobDispatcher
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=status_reporter_mock.go github.com/halyard-dev/halyard/internal/core StatusReporter
