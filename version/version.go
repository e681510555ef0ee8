// Package version holds build metadata, set at link time:
//
//	go build -ldflags "-X github.com/nagdatt/ai-podcast-saas/version.GitRelease=v0.1.0 \
//	  -X github.com/nagdatt/ai-podcast-saas/version.GitCommit=$(git rev-parse HEAD) \
//	  -X github.com/nagdatt/ai-podcast-saas/version.GitCommitDate=$(git log -1 --format=%cI)"
package version

import (
	"fmt"
	"runtime"
)

var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
	GoInfo        = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)
