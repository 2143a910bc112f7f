package service

import "errors"

var (
	ErrVersionIsNotSpecified = errors.New("version is not specified")

	ErrUnknownPreprocessMethod = errors.New("unknown preprocess method")
	ErrUnknownModel            = errors.New("unknown model")

	ErrNoTrainedModels = errors.New("no trained models found")
	ErrNoResults       = errors.New("no evaluation results")
)
