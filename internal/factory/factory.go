package factory

import (
	"fmt"

	"go-image-dataset-analyzer/internal/config"
	"go-image-dataset-analyzer/internal/storage"
	"go-image-dataset-analyzer/internal/strategy"
)

// StrategyFactory creates decode failure strategies
type StrategyFactory interface {
	CreateStrategy(policy config.DecodePolicy) (strategy.DecodeFailureStrategy, error)
}

// StorageFactory creates the dataset storage components
type StorageFactory interface {
	CreateCodec() storage.ImageCodec
	CreateScanner(extensions []string) *storage.DirectoryScanner
}

// strategyFactory implements StrategyFactory
type strategyFactory struct{}

// NewStrategyFactory creates a new strategy factory
func NewStrategyFactory() StrategyFactory {
	return &strategyFactory{}
}

// CreateStrategy maps a configured policy to its strategy
func (f *strategyFactory) CreateStrategy(policy config.DecodePolicy) (strategy.DecodeFailureStrategy, error) {
	switch policy {
	case config.DecodePolicyFail, "":
		return strategy.NewFailFastStrategy(), nil
	case config.DecodePolicySkip:
		return strategy.NewSkipStrategy(), nil
	default:
		return nil, fmt.Errorf("unsupported decode failure policy: %s", policy)
	}
}

// storageFactory implements StorageFactory for the local filesystem
type storageFactory struct{}

// NewStorageFactory creates a new storage factory
func NewStorageFactory() StorageFactory {
	return &storageFactory{}
}

func (f *storageFactory) CreateCodec() storage.ImageCodec {
	return storage.NewFileCodec()
}

func (f *storageFactory) CreateScanner(extensions []string) *storage.DirectoryScanner {
	return storage.NewDirectoryScanner(extensions)
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	StrategyFactory StrategyFactory
	StorageFactory  StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory() *ComponentFactory {
	return &ComponentFactory{
		StrategyFactory: NewStrategyFactory(),
		StorageFactory:  NewStorageFactory(),
	}
}
