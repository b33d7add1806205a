package metrics

import "time"

// Stage names a step of the build pipeline.
type Stage string

const (
	StageDiscover Stage = "discover"
	StagePages    Stage = "pages"
	StageBlog     Stage = "blog"
	StageIndex    Stage = "blog_index"
	StageAssets   Stage = "assets"
	StageClean    Stage = "clean"
)

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// BuildOutcomeLabel is the final status of a build.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess BuildOutcomeLabel = "success"
	BuildOutcomeFailed  BuildOutcomeLabel = "failed"
)

// Recorder defines observability hooks for build and serve metrics.
type Recorder interface {
	ObserveStageDuration(stage Stage, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage Stage, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	IncFilesWritten(kind string)
	AddAssetsCopied(n int)
	IncHTTPRequest(method string, status int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(Stage, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)        {}
func (NoopRecorder) IncStageResult(Stage, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)         {}
func (NoopRecorder) IncFilesWritten(string)                    {}
func (NoopRecorder) AddAssetsCopied(int)                       {}
func (NoopRecorder) IncHTTPRequest(string, int)                {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}

// TimeStage runs fn, recording its duration and result under stage.
func TimeStage(r Recorder, stage Stage, fn func() error) error {
	r = OrNoop(r)
	start := time.Now()
	err := fn()
	r.ObserveStageDuration(stage, time.Since(start))
	if err != nil {
		r.IncStageResult(stage, ResultFailed)
		return err
	}
	r.IncStageResult(stage, ResultSuccess)
	return nil
}
