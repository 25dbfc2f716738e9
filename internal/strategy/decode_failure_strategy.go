package strategy

// DecodeFailureStrategy decides whether an image that could not be probed or
// decoded stops the run
type DecodeFailureStrategy interface {
	// HandleFailure returns the error that aborts the run, or nil when the
	// image is to be left out and the pass continues
	HandleFailure(path string, err error) error
	GetStrategyName() string
}

// FailFastStrategy makes the first decode failure fatal
type FailFastStrategy struct{}

// NewFailFastStrategy creates the default strategy
func NewFailFastStrategy() DecodeFailureStrategy {
	return &FailFastStrategy{}
}

// HandleFailure returns err unchanged
func (s *FailFastStrategy) HandleFailure(path string, err error) error {
	return err
}

// GetStrategyName returns the strategy name
func (s *FailFastStrategy) GetStrategyName() string {
	return "fail"
}

// SkipStrategy leaves undecodable images out of the pass that failed
type SkipStrategy struct{}

// NewSkipStrategy creates a strategy that never aborts on decode failures
func NewSkipStrategy() DecodeFailureStrategy {
	return &SkipStrategy{}
}

// HandleFailure swallows err; the caller reports the skipped image
func (s *SkipStrategy) HandleFailure(path string, err error) error {
	return nil
}

// GetStrategyName returns the strategy name
func (s *SkipStrategy) GetStrategyName() string {
	return "skip"
}
